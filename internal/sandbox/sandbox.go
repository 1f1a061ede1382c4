// Package sandbox assembles the content API emulator: every route, the
// catch-all 404 and the middleware chain.
package sandbox

import (
	"fmt"
	"net/http"

	"github.com/johnwards/solarsail/internal/api"
	"github.com/johnwards/solarsail/internal/api/admin"
	"github.com/johnwards/solarsail/internal/api/content"
	"github.com/johnwards/solarsail/internal/api/hubdb"
	"github.com/johnwards/solarsail/internal/store"
)

// Handler returns the sandbox HTTP handler. portals maps API keys to portal
// ids; seedPortal is re-seeded on /_sandbox/reset.
func Handler(s *store.Store, portals map[string]int64, seedPortal int64) http.Handler {
	mux := http.NewServeMux()

	// Content API routes
	content.RegisterRoutes(mux, s)
	hubdb.RegisterRoutes(mux, s)

	// Sandbox control
	admin.RegisterRoutes(mux, s, seedPortal)

	// Catch-all: return 404 in HubSpot error format.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		corrID := api.CorrelationID(r.Context())
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(
			fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path),
			corrID,
		))
	})

	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.PortalAuth(portals),
		api.RequestLog(s.Requests),
		api.JSONContentType(),
		api.Logging(),
	)
}
