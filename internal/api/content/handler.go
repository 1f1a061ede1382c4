// Package content serves the legacy content API: pages, blogs, blog posts,
// templates and blog authors.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/johnwards/solarsail/internal/api"
	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// Handler handles one content kind.
type Handler struct {
	store *store.Store
	kind  domain.Kind
}

// List handles GET on a collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	portalID := api.PortalID(ctx)
	f := api.ListFilter(r)

	objects, total, err := h.store.Content.List(ctx, portalID, h.kind, f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(ctx)))
		return
	}
	for _, o := range objects {
		h.decorate(ctx, portalID, o)
	}
	api.WriteList(w, objects, total, f)
}

// Get handles GET on a single item.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)
	portalID := api.PortalID(ctx)

	id, ok := api.PathID(r, "id")
	if !ok {
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(fmt.Sprintf("%s not found", h.kind), corrID))
		return
	}

	e, err := h.store.Content.Get(ctx, portalID, h.kind, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(fmt.Sprintf("%s %d not found", h.kind, id), corrID))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return
	}
	h.decorate(ctx, portalID, e)
	api.WriteJSON(w, http.StatusOK, e)
}

// Create handles POST on a collection.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)
	portalID := api.PortalID(ctx)

	body, err := api.DecodeEntity(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(err.Error(), corrID, nil))
		return
	}

	if detail := h.validate(ctx, portalID, body); detail != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			fmt.Sprintf("Invalid %s: %s", h.kind, detail.Message), corrID, []api.ErrorDetail{*detail}))
		return
	}

	created, err := h.store.Content.Create(ctx, portalID, h.kind, 0, body)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			api.WriteError(w, http.StatusConflict, api.NewConflictError(err.Error(), corrID))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return
	}
	h.decorate(ctx, portalID, created)
	api.WriteJSON(w, http.StatusCreated, created)
}

// Delete handles DELETE on a single item.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)

	id, ok := api.PathID(r, "id")
	if !ok {
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(fmt.Sprintf("%s not found", h.kind), corrID))
		return
	}

	if err := h.store.Content.Delete(ctx, api.PortalID(ctx), h.kind, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(fmt.Sprintf("%s %d not found", h.kind, id), corrID))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validate checks the fields the content API insists on and the references
// a new item makes to other items in the same portal.
func (h *Handler) validate(ctx context.Context, portalID int64, body domain.Entity) *api.ErrorDetail {
	if field := h.kind.NameField(); field != "" && body.String(field) == "" {
		return &api.ErrorDetail{Message: fmt.Sprintf("%s is required", field), Code: "REQUIRED", In: field}
	}

	switch h.kind {
	case domain.KindPage, domain.KindBlog:
		if parent := body.TranslatedFromID(); parent != 0 {
			if !h.exists(ctx, portalID, h.kind, parent) {
				return &api.ErrorDetail{
					Message: fmt.Sprintf("translated_from_id %d is not a %s in this portal", parent, h.kind),
					Code:    "INVALID_REFERENCE",
					In:      "translated_from_id",
				}
			}
		}
	case domain.KindBlogPost:
		blogID, _ := domain.Int64(body["content_group_id"])
		if blogID == 0 || !h.exists(ctx, portalID, domain.KindBlog, blogID) {
			return &api.ErrorDetail{
				Message: fmt.Sprintf("content_group_id %d is not a blog in this portal", blogID),
				Code:    "INVALID_REFERENCE",
				In:      "content_group_id",
			}
		}
		if authorID, _ := domain.Int64(body["blog_author_id"]); authorID != 0 && !h.exists(ctx, portalID, domain.KindBlogAuthor, authorID) {
			return &api.ErrorDetail{
				Message: fmt.Sprintf("blog_author_id %d is not an author in this portal", authorID),
				Code:    "INVALID_REFERENCE",
				In:      "blog_author_id",
			}
		}
	}
	return nil
}

func (h *Handler) exists(ctx context.Context, portalID int64, kind domain.Kind, id int64) bool {
	_, err := h.store.Content.Get(ctx, portalID, kind, id)
	return err == nil
}

// decorate embeds the parent blog and author of a post the way the content
// API does on reads.
func (h *Handler) decorate(ctx context.Context, portalID int64, e domain.Entity) {
	if h.kind != domain.KindBlogPost {
		return
	}
	if id, ok := domain.Int64(e["content_group_id"]); ok && id != 0 {
		if blog, err := h.store.Content.Get(ctx, portalID, domain.KindBlog, id); err == nil {
			e["parent_blog"] = map[string]any{"id": blog.ID(), "name": blog.Name(), "language": blog["language"]}
		}
	}
	if id, ok := domain.Int64(e["blog_author_id"]); ok && id != 0 {
		if author, err := h.store.Content.Get(ctx, portalID, domain.KindBlogAuthor, id); err == nil {
			e["blog_author"] = map[string]any{
				"id":          author.ID(),
				"displayName": author.String("displayName"),
				"fullName":    author.String("fullName"),
			}
		}
	}
}
