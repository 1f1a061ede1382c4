package hubdb

import (
	"net/http"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// RegisterRoutes registers the HubDB v2 table and row endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{store: s}
	tables := "/" + domain.HubDBTablesPath

	mux.HandleFunc("GET "+tables, h.ListTables)
	mux.HandleFunc("POST "+tables, h.CreateTable)
	mux.HandleFunc("GET "+tables+"/{tableId}", h.GetTable)
	mux.HandleFunc("DELETE "+tables+"/{tableId}", h.DeleteTable)
	mux.HandleFunc("GET "+tables+"/{tableId}/rows", h.ListRows)
	mux.HandleFunc("POST "+tables+"/{tableId}/rows", h.CreateRow)
}
