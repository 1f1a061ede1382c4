// Package guard refuses to migrate into protected production portals.
package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
)

// ProductionPortals are destination portals that must never be written to.
var ProductionPortals = []int64{6679661, 20431515}

// ErrForbiddenDestination is returned by Check when the destination portal is
// protected or its identity cannot be confirmed.
var ErrForbiddenDestination = errors.New("destination api key points at a protected portal; use your own sandbox key")

// Getter is the read side of the request gateway.
type Getter interface {
	Get(ctx context.Context, path string, env hubapi.Environment, query url.Values) (*hubapi.Response, error)
}

// Guard inspects the destination portal before any mutating call.
type Guard struct {
	api       Getter
	forbidden []int64
	logger    *slog.Logger
}

// New returns a Guard forbidding ProductionPortals plus any extra ids.
func New(api Getter, logger *slog.Logger, extra ...int64) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	forbidden := slices.Concat(ProductionPortals, extra)
	return &Guard{api: api, forbidden: forbidden, logger: logger}
}

// IsDestinationForbidden reads one template from the destination and checks
// the portal id it carries. Any failure to confirm the portal is treated as
// forbidden.
func (g *Guard) IsDestinationForbidden(ctx context.Context) bool {
	q := url.Values{}
	q.Set("limit", "1")

	resp, err := g.api.Get(ctx, domain.TemplatesPath, hubapi.Destination, q)
	if err != nil {
		g.logger.Error("destination check failed", "error", err)
		return true
	}
	if resp == nil || resp.Body == nil {
		g.logger.Error("couldn't reach destination api")
		return true
	}
	if resp.Failed() {
		g.logger.Error("destination check rejected", "status", resp.Status, "message", resp.Message())
		return true
	}

	objects := resp.Objects()
	if total, ok := resp.Total(); (ok && total == 0) || len(objects) == 0 {
		g.logger.Warn("no templates to check against on destination")
		return true
	}

	portal, ok := domain.Int64(objects[0]["portal_id"])
	if !ok {
		g.logger.Warn("destination template carries no portal id")
		return true
	}
	if slices.Contains(g.forbidden, portal) {
		g.logger.Error("destination is a protected portal", "portal_id", portal)
		return true
	}
	return false
}

// Check returns ErrForbiddenDestination when IsDestinationForbidden.
func (g *Guard) Check(ctx context.Context) error {
	if g.IsDestinationForbidden(ctx) {
		return ErrForbiddenDestination
	}
	return nil
}
