package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/johnwards/solarsail/internal/api"
	"github.com/johnwards/solarsail/internal/seed"
	"github.com/johnwards/solarsail/internal/store"
)

// Handler serves the sandbox control API at /_sandbox/.
type Handler struct {
	store      *store.Store
	seedPortal int64
}

// dataTableNames lists all data tables in deletion order.
var dataTableNames = []string{
	"request_log",
	"content_objects",
}

// Reset drops all data from all tables and re-seeds the seed portal.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ResetData(r.Context(), h.store, h.seedPortal); err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(r.Context())))
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SeedData seeds demo content without dropping existing data first. The
// portalId query parameter picks the portal; it defaults to the seed portal.
func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	portalID := h.seedPortal
	if v := r.URL.Query().Get("portalId"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			api.WriteError(w, http.StatusBadRequest, api.NewValidationError(fmt.Sprintf("invalid portalId %q", v), corrID, nil))
			return
		}
		portalID = n
	}
	if portalID == 0 {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("no seed portal configured; pass portalId", corrID, nil))
		return
	}

	if err := seed.Seed(r.Context(), h.store, portalID); err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(fmt.Sprintf("failed to seed: %s", err), corrID))
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "portalId": portalID})
}

// Requests returns request log entries, newest first, with cursor-based pagination.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	var afterID int64
	if v := r.URL.Query().Get("after"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			afterID = n
		}
	}

	entries, hasMore, err := h.store.Requests.List(r.Context(), limit, afterID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(r.Context())))
		return
	}

	resp := struct {
		Results []*store.RequestLogEntry `json:"results"`
		Paging  *api.Paging              `json:"paging,omitempty"`
	}{
		Results: entries,
	}

	if hasMore {
		lastID := entries[len(entries)-1].ID
		resp.Paging = &api.Paging{
			Next: &api.PagingNext{
				After: strconv.FormatInt(lastID, 10),
			},
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

// ResetData clears all data tables and re-seeds seedPortal when it is set.
// Exported for reuse by tests or other callers.
func ResetData(ctx context.Context, s *store.Store, seedPortal int64) error {
	for _, table := range dataTableNames {
		if _, err := s.DB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil { //nolint:gosec // table names are hardcoded constants
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	if seedPortal == 0 {
		return nil
	}
	return seed.Seed(ctx, s, seedPortal)
}
