// Package hubdb serves HubDB tables and their rows.
package hubdb

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/johnwards/solarsail/internal/api"
	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// Handler handles HubDB HTTP requests.
type Handler struct {
	store *store.Store
}

// ListTables handles GET /hubdb/api/v2/tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := api.ListFilter(r)

	tables, total, err := h.store.Content.List(ctx, api.PortalID(ctx), domain.KindHubDBTable, f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(ctx)))
		return
	}
	for _, t := range tables {
		h.countRows(r, t)
	}
	api.WriteList(w, tables, total, f)
}

// GetTable handles GET /hubdb/api/v2/tables/{tableId}.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	h.countRows(r, table)
	api.WriteJSON(w, http.StatusOK, table)
}

// CreateTable handles POST /hubdb/api/v2/tables. Table names are unique per
// portal.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)

	body, err := api.DecodeEntity(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(err.Error(), corrID, nil))
		return
	}
	if body.Name() == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid hubdb-table: name is required", corrID,
			[]api.ErrorDetail{{Message: "name is required", Code: "REQUIRED", In: "name"}}))
		return
	}
	if v, ok := body["columns"]; ok {
		if _, isList := v.([]any); !isList {
			api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid hubdb-table: columns must be an array", corrID,
				[]api.ErrorDetail{{Message: "columns must be an array", Code: "INVALID_TYPE", In: "columns"}}))
			return
		}
	}

	created, err := h.store.Content.Create(ctx, api.PortalID(ctx), domain.KindHubDBTable, 0, body)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			api.WriteError(w, http.StatusConflict, api.NewConflictError(err.Error(), corrID))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return
	}
	created["rowCount"] = 0
	api.WriteJSON(w, http.StatusCreated, created)
}

// DeleteTable handles DELETE /hubdb/api/v2/tables/{tableId}. Rows go with
// the table.
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := h.store.Content.Delete(ctx, api.PortalID(ctx), domain.KindHubDBTable, table.ID()); err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(ctx)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRows handles GET /hubdb/api/v2/tables/{tableId}/rows.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	f := api.ListFilter(r)
	f.ParentID = table.ID()

	rows, total, err := h.store.Content.List(ctx, api.PortalID(ctx), domain.KindHubDBRow, f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), api.CorrelationID(ctx)))
		return
	}
	api.WriteList(w, rows, total, f)
}

// CreateRow handles POST /hubdb/api/v2/tables/{tableId}/rows.
func (h *Handler) CreateRow(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)

	body, err := api.DecodeEntity(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(err.Error(), corrID, nil))
		return
	}
	if body.Object("values") == nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid hubdb-row: values must be an object", corrID,
			[]api.ErrorDetail{{Message: "values must be an object", Code: "REQUIRED", In: "values"}}))
		return
	}

	created, err := h.store.Content.Create(ctx, api.PortalID(ctx), domain.KindHubDBRow, table.ID(), body)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// table loads the table named by the path or writes a 404.
func (h *Handler) table(w http.ResponseWriter, r *http.Request) (domain.Entity, bool) {
	ctx := r.Context()
	corrID := api.CorrelationID(ctx)

	id, ok := api.PathID(r, "tableId")
	if !ok {
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError("HubDB table not found", corrID))
		return nil, false
	}
	table, err := h.store.Content.Get(ctx, api.PortalID(ctx), domain.KindHubDBTable, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(fmt.Sprintf("HubDB table %d not found", id), corrID))
			return nil, false
		}
		api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(err.Error(), corrID))
		return nil, false
	}
	return table, true
}

func (h *Handler) countRows(r *http.Request, table domain.Entity) {
	ctx := r.Context()
	_, total, err := h.store.Content.List(ctx, api.PortalID(ctx), domain.KindHubDBRow, store.Filter{Limit: 1, ParentID: table.ID()})
	if err == nil {
		table["rowCount"] = total
	}
}
