package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Procedure names one sync procedure.
type Procedure string

const (
	ProcDeleteBlogs Procedure = "delete-blogs"
	ProcTemplates   Procedure = "templates"
	ProcPages       Procedure = "pages"
	ProcHubDB       Procedure = "hubdb"
	ProcAuthors     Procedure = "authors"
	ProcBlogs       Procedure = "blogs"
	ProcBlogPosts   Procedure = "blog-posts"
)

// canonicalOrder is the execution order of any plan. Authors and blogs come
// before posts because posts reference both.
var canonicalOrder = []Procedure{
	ProcDeleteBlogs,
	ProcTemplates,
	ProcPages,
	ProcHubDB,
	ProcAuthors,
	ProcBlogs,
	ProcBlogPosts,
}

var (
	// ErrEmptyPlan is returned when nothing was selected.
	ErrEmptyPlan = errors.New("nothing selected to run")
	// ErrInvalidSelection is returned for unknown selection values.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Plan is an ordered, duplicate-free list of procedures.
type Plan []Procedure

// NewPlan orders procs canonically and drops duplicates.
func NewPlan(procs ...Procedure) Plan {
	var plan Plan
	for _, p := range canonicalOrder {
		if slices.Contains(procs, p) {
			plan = append(plan, p)
		}
	}
	return plan
}

// Selection mirrors the CLI flags. Each field is empty (not selected) or one
// of the values the flag accepts.
type Selection struct {
	Pages     string // sync
	HubDB     string // sync
	Blogs     string // sync | delete | only
	Templates string // sync
	Authors   string // sync
	All       string // sync
}

// Plan expands the selection. blogs=sync pulls in authors and blogs ahead of
// the posts; all=sync is templates, pages, hubdb and blogs=sync.
func (s Selection) Plan() (Plan, error) {
	var procs []Procedure

	syncOnly := []struct {
		flag  string
		value string
		procs []Procedure
	}{
		{"pages", s.Pages, []Procedure{ProcPages}},
		{"hubdb", s.HubDB, []Procedure{ProcHubDB}},
		{"templates", s.Templates, []Procedure{ProcTemplates}},
		{"authors", s.Authors, []Procedure{ProcAuthors}},
		{"all", s.All, []Procedure{ProcTemplates, ProcPages, ProcHubDB, ProcAuthors, ProcBlogs, ProcBlogPosts}},
	}
	for _, f := range syncOnly {
		switch f.value {
		case "":
		case "sync":
			procs = append(procs, f.procs...)
		default:
			return nil, fmt.Errorf("%w: --%s=%s (want sync)", ErrInvalidSelection, f.flag, f.value)
		}
	}

	switch s.Blogs {
	case "":
	case "sync":
		procs = append(procs, ProcAuthors, ProcBlogs, ProcBlogPosts)
	case "only":
		procs = append(procs, ProcBlogs)
	case "delete":
		procs = append(procs, ProcDeleteBlogs)
	default:
		return nil, fmt.Errorf("%w: --blogs=%s (want sync, delete or only)", ErrInvalidSelection, s.Blogs)
	}

	plan := NewPlan(procs...)
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}
	return plan, nil
}

// Checker is the pre-flight destination check.
type Checker interface {
	Check(ctx context.Context) error
}

// Runner executes a plan after the pre-flight check.
type Runner struct {
	syncer   *Syncer
	guard    Checker
	reporter Reporter
	logger   *slog.Logger
}

// NewRunner returns a Runner.
func NewRunner(syncer *Syncer, guard Checker, reporter Reporter, logger *slog.Logger) *Runner {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{syncer: syncer, guard: guard, reporter: reporter, logger: logger}
}

// Run checks the destination once and then runs each procedure in order. A
// procedure that aborts is recorded in its report and the next one still
// runs. Item failures are not errors; Run only fails on the pre-flight check,
// an empty plan, or cancellation.
func (r *Runner) Run(ctx context.Context, plan Plan) ([]*Report, error) {
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}
	if err := r.guard.Check(ctx); err != nil {
		return nil, fmt.Errorf("pre-flight check: %w", err)
	}

	reports := make([]*Report, 0, len(plan))
	for _, p := range plan {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		r.logger.Info("procedure started", "procedure", p)
		rep, err := r.syncer.Run(ctx, p)
		if err != nil {
			rep.Err = err
			r.logger.Error("procedure aborted", "procedure", p, "error", err)
		}
		r.logger.Info("procedure finished", "procedure", p,
			"created", len(rep.Created), "failed", len(rep.Failed), "skipped", len(rep.Skipped))

		if rep.Clean() {
			r.reporter.Success("%s", rep.Summary())
		} else {
			r.reporter.Failure("%s", rep.Summary())
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
