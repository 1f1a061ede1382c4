package migrate_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/migrate"
	"github.com/johnwards/solarsail/internal/store"
	"github.com/johnwards/solarsail/internal/testhelpers"
)

const (
	source = testhelpers.SourcePortal
	dest   = testhelpers.DestinationPortal
)

// harness runs a Syncer against an in-process sandbox with two portals.
type harness struct {
	t      *testing.T
	store  *store.Store
	client *hubapi.Client
	syncer *migrate.Syncer
}

func newHarness(t *testing.T, opts migrate.Options) *harness {
	t.Helper()
	srv, s := testhelpers.NewSandbox(t)
	client := hubapi.New(srv.URL, hubapi.Credentials{
		Source:      testhelpers.SourceKey,
		Destination: testhelpers.DestinationKey,
	}, hubapi.WithLimiter(hubapi.Unlimited()))

	return &harness{
		t:      t,
		store:  s,
		client: client,
		syncer: migrate.NewSyncer(client, opts, nil, nil),
	}
}

func (h *harness) create(portal int64, kind domain.Kind, parent int64, body domain.Entity) domain.Entity {
	h.t.Helper()
	e, err := h.store.Content.Create(context.Background(), portal, kind, parent, body)
	require.NoError(h.t, err)
	return e
}

func (h *harness) list(portal int64, kind domain.Kind, f store.Filter) []domain.Entity {
	h.t.Helper()
	if f.Limit == 0 {
		f.Limit = 1000
	}
	objs, _, err := h.store.Content.List(context.Background(), portal, kind, f)
	require.NoError(h.t, err)
	return objs
}

// posts returns the decoded bodies of every POST the sandbox received whose
// path starts with prefix, oldest first.
func (h *harness) posts(prefix string) []map[string]any {
	h.t.Helper()
	entries, _, err := h.store.Requests.List(context.Background(), 1000, 0)
	require.NoError(h.t, err)

	var out []map[string]any
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Method != "POST" || !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		var body map[string]any
		require.NoError(h.t, json.Unmarshal([]byte(e.RequestBody), &body))
		out = append(out, body)
	}
	return out
}

// requests returns every request the sandbox logged, oldest first.
func (h *harness) requests() []*store.RequestLogEntry {
	h.t.Helper()
	entries, _, err := h.store.Requests.List(context.Background(), 1000, 0)
	require.NoError(h.t, err)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

func names(items []migrate.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
