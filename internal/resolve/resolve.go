// Package resolve matches entities across portals. Source and destination ids
// live in separate id spaces, so matching is done on names (and language)
// through a pluggable Strategy.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
)

var (
	// ErrNotFound means no destination entity matched.
	ErrNotFound = errors.New("no matching destination entity")
	// ErrSourceParentMissing means the referenced parent could not be read
	// from the source portal.
	ErrSourceParentMissing = errors.New("parent not found on source")
)

// Getter is the read side of the request gateway.
type Getter interface {
	Get(ctx context.Context, path string, env hubapi.Environment, query url.Values) (*hubapi.Response, error)
}

// Strategy finds the destination counterpart of a source entity in the
// destination collection at listPath.
type Strategy interface {
	Lookup(ctx context.Context, source domain.Entity, listPath string) (domain.Entity, error)
}

// Resolver rewrites same-portal references into destination ids.
type Resolver struct {
	api      Getter
	strategy Strategy
	logger   *slog.Logger
}

// New returns a Resolver. A nil strategy defaults to NameLanguage.
func New(api Getter, strategy Strategy, logger *slog.Logger) *Resolver {
	if strategy == nil {
		strategy = NameLanguage{API: api}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, strategy: strategy, logger: logger}
}

// ResolveParent reads the source entity translatedFromID from listPath and
// returns its destination counterpart.
func (r *Resolver) ResolveParent(ctx context.Context, translatedFromID int64, listPath string) (domain.Entity, error) {
	resp, err := r.api.Get(ctx, domain.ItemPath(listPath, translatedFromID), hubapi.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("get source parent %d: %w", translatedFromID, err)
	}
	parent := resp.Entity()
	if parent.Name() == "" {
		r.logger.Warn("parent content not found on source", "parent_id", translatedFromID, "path", listPath)
		return nil, fmt.Errorf("source parent %d: %w", translatedFromID, ErrSourceParentMissing)
	}

	match, err := r.strategy.Lookup(ctx, parent, listPath)
	if err != nil {
		return nil, err
	}
	return match, nil
}

// NameLanguage matches on a case-insensitive substring of the name and the
// exact language, letting the destination API do the filtering. Duplicate
// names can produce false positives.
type NameLanguage struct {
	API Getter
}

// Lookup implements Strategy.
func (s NameLanguage) Lookup(ctx context.Context, source domain.Entity, listPath string) (domain.Entity, error) {
	q := url.Values{}
	q.Set("limit", "1")
	q.Set("name__icontains", source.Name())
	q.Set("language__in", source.Language())

	resp, err := s.API.Get(ctx, listPath, hubapi.Destination, q)
	if err != nil {
		return nil, fmt.Errorf("search destination %s: %w", listPath, err)
	}
	objects := resp.Objects()
	if len(objects) == 0 {
		return nil, fmt.Errorf("%q (%s): %w", source.Name(), source.Language(), ErrNotFound)
	}
	return objects[0], nil
}

// ExactName narrows the destination search the same way NameLanguage does,
// then requires the name to match exactly. It trades recall for fewer false
// positives on pages whose names contain one another.
type ExactName struct {
	API   Getter
	Limit int
}

// Lookup implements Strategy.
func (s ExactName) Lookup(ctx context.Context, source domain.Entity, listPath string) (domain.Entity, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("name__icontains", source.Name())
	q.Set("language__in", source.Language())

	resp, err := s.API.Get(ctx, listPath, hubapi.Destination, q)
	if err != nil {
		return nil, fmt.Errorf("search destination %s: %w", listPath, err)
	}
	for _, candidate := range resp.Objects() {
		if candidate.Name() == source.Name() && candidate.Language() == source.Language() {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%q (%s): %w", source.Name(), source.Language(), ErrNotFound)
}

// StrategyByName returns the strategy registered under name: "fuzzy" (the
// default) or "exact".
func StrategyByName(name string, api Getter) (Strategy, error) {
	switch name {
	case "", "fuzzy":
		return NameLanguage{API: api}, nil
	case "exact":
		return ExactName{API: api}, nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q (want fuzzy or exact)", name)
	}
}
