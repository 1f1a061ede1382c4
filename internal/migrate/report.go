package migrate

import (
	"fmt"

	"github.com/johnwards/solarsail/internal/domain"
)

// Item is one entity's outcome within a procedure.
type Item struct {
	Kind          domain.Kind
	SourceID      int64
	DestinationID int64
	Name          string
	Reason        string
}

func (i Item) String() string {
	label := i.Name
	if label == "" {
		label = "(unnamed)"
	}
	if i.SourceID != 0 {
		label = fmt.Sprintf("%s [%d]", label, i.SourceID)
	}
	return fmt.Sprintf("%s %s", i.Kind, label)
}

// Report collects the per-item outcomes of one procedure. An item that was
// deferred appears in Deferred and again in Created or Failed once the retry
// pass settles it.
type Report struct {
	Procedure Procedure
	Created   []Item
	Deferred  []Item
	Failed    []Item
	Skipped   []Item
	Deleted   []Item

	// Err is set when the procedure aborted before finishing.
	Err error
}

func newReport(p Procedure) *Report {
	return &Report{Procedure: p}
}

// Summary renders the counts on one line.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%s: %d created, %d deferred, %d failed, %d skipped",
		r.Procedure, len(r.Created), len(r.Deferred), len(r.Failed), len(r.Skipped))
	if len(r.Deleted) > 0 {
		s += fmt.Sprintf(", %d deleted", len(r.Deleted))
	}
	if r.Err != nil {
		s += " (aborted: " + r.Err.Error() + ")"
	}
	return s
}

// Clean reports whether nothing failed and the procedure ran to completion.
func (r *Report) Clean() bool {
	return r.Err == nil && len(r.Failed) == 0
}

func itemOf(kind domain.Kind, e domain.Entity) Item {
	name := e.String(kind.NameField())
	if name == "" {
		name = e.Name()
	}
	return Item{Kind: kind, SourceID: e.ID(), Name: name}
}
