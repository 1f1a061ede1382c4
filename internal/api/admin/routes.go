package admin

import (
	"net/http"

	"github.com/johnwards/solarsail/internal/store"
)

// RegisterRoutes registers all sandbox control endpoints on the mux.
// seedPortal receives demo content on reset; 0 disables seeding.
func RegisterRoutes(mux *http.ServeMux, s *store.Store, seedPortal int64) {
	h := &Handler{store: s, seedPortal: seedPortal}

	mux.HandleFunc("POST /_sandbox/reset", h.Reset)
	mux.HandleFunc("GET /_sandbox/requests", h.Requests)
	mux.HandleFunc("POST /_sandbox/seed", h.SeedData)
}
