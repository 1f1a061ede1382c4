// Package migrate copies content from a source portal into a destination
// portal. Each procedure fetches a source collection, rewrites cross-portal
// references and creates the result on the destination, one item at a time.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/resolve"
)

// ErrRejected is wrapped by submission and listing errors the API answered
// with a failure status.
var ErrRejected = errors.New("rejected by api")

// Default collection sizes. The content API is read as a single large page.
const (
	DefaultPageLimit = 20000
	DefaultPostLimit = 200
	DefaultListLimit = 10000
)

// API is the subset of the request gateway the pipeline needs.
type API interface {
	Get(ctx context.Context, path string, env hubapi.Environment, query url.Values) (*hubapi.Response, error)
	Post(ctx context.Context, path string, env hubapi.Environment, body any) (*hubapi.Response, error)
	Delete(ctx context.Context, path string, env hubapi.Environment) (*hubapi.Response, error)
}

// Reporter receives human-readable progress lines.
type Reporter interface {
	Progress(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Failure(format string, args ...any)
}

// Options tunes a Syncer.
type Options struct {
	PageLimit int
	PostLimit int
	// ListLimit is the page size for every other collection read, source
	// and destination alike.
	ListLimit int

	// DefaultAuthor is the destination author display name assigned to
	// posts whose own author has no destination counterpart.
	DefaultAuthor string

	// Strategy matches translated pages to their destination parents.
	// Nil means resolve.NameLanguage.
	Strategy resolve.Strategy
}

// Syncer runs the per-type procedures. It is not safe for concurrent use.
type Syncer struct {
	api      API
	resolver *resolve.Resolver
	reporter Reporter
	logger   *slog.Logger
	opts     Options
}

// NewSyncer returns a Syncer. A nil reporter discards progress.
func NewSyncer(api API, opts Options, reporter Reporter, logger *slog.Logger) *Syncer {
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultPageLimit
	}
	if opts.PostLimit <= 0 {
		opts.PostLimit = DefaultPostLimit
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		api:      api,
		resolver: resolve.New(api, opts.Strategy, logger),
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}
}

// Run executes a single procedure.
func (s *Syncer) Run(ctx context.Context, p Procedure) (*Report, error) {
	switch p {
	case ProcDeleteBlogs:
		return s.DeleteBlogs(ctx)
	case ProcTemplates:
		return s.SyncTemplates(ctx)
	case ProcPages:
		return s.SyncPages(ctx)
	case ProcHubDB:
		return s.SyncHubDB(ctx)
	case ProcAuthors:
		return s.SyncBlogAuthors(ctx)
	case ProcBlogs:
		return s.SyncBlogs(ctx)
	case ProcBlogPosts:
		return s.SyncBlogPosts(ctx)
	default:
		return newReport(p), fmt.Errorf("unknown procedure %q", p)
	}
}

// list reads a whole collection. Failures here abort the calling procedure.
func (s *Syncer) list(ctx context.Context, path string, env hubapi.Environment, limit int) ([]domain.Entity, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{}
		q.Set("limit", strconv.Itoa(limit))
	}
	resp, err := s.api.Get(ctx, path, env, q)
	if err != nil {
		return nil, fmt.Errorf("list %s %s: %w", env, path, err)
	}
	if resp.Failed() {
		return nil, fmt.Errorf("list %s %s: %w: %d %s", env, path, ErrRejected, resp.Status, resp.Message())
	}
	return resp.Objects(), nil
}

// create posts payload to the destination and returns the created entity.
func (s *Syncer) create(ctx context.Context, path string, payload domain.Entity) (domain.Entity, error) {
	resp, err := s.api.Post(ctx, path, hubapi.Destination, payload)
	if err != nil {
		return nil, err
	}
	if resp.Failed() {
		return nil, fmt.Errorf("%w: %d %s", ErrRejected, resp.Status, resp.Message())
	}
	return resp.Entity(), nil
}

func (s *Syncer) succeed(rep *Report, item Item, created domain.Entity) {
	item.DestinationID = created.ID()
	rep.Created = append(rep.Created, item)
	s.reporter.Success("%s created (destination id %d)", item, item.DestinationID)
}

func (s *Syncer) fail(rep *Report, item Item, err error) {
	item.Reason = err.Error()
	rep.Failed = append(rep.Failed, item)
	s.reporter.Failure("%s failed: %s", item, item.Reason)
	s.logger.Debug("item failed", "kind", item.Kind, "source_id", item.SourceID, "error", err)
}

func (s *Syncer) skip(rep *Report, item Item, reason string) {
	item.Reason = reason
	rep.Skipped = append(rep.Skipped, item)
	s.reporter.Warn("%s skipped: %s", item, reason)
}

type nopReporter struct{}

func (nopReporter) Progress(string, ...any) {}
func (nopReporter) Success(string, ...any)  {}
func (nopReporter) Warn(string, ...any)     {}
func (nopReporter) Failure(string, ...any)  {}
