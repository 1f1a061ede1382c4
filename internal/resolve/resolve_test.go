package resolve_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/resolve"
)

type call struct {
	path  string
	env   hubapi.Environment
	query url.Values
}

// routeGetter answers by environment and path.
type routeGetter struct {
	routes map[hubapi.Environment]map[string]*hubapi.Response
	err    error
	calls  []call
}

func (g *routeGetter) Get(_ context.Context, path string, env hubapi.Environment, query url.Values) (*hubapi.Response, error) {
	g.calls = append(g.calls, call{path: path, env: env, query: query})
	if g.err != nil {
		return nil, g.err
	}
	if resp, ok := g.routes[env][path]; ok {
		return resp, nil
	}
	return &hubapi.Response{Status: http.StatusNotFound, Body: domain.Entity{"status": "error", "message": "not found"}}, nil
}

func list(objs ...map[string]any) *hubapi.Response {
	items := make([]any, len(objs))
	for i, o := range objs {
		items[i] = o
	}
	return &hubapi.Response{Status: http.StatusOK, Body: domain.Entity{"objects": items, "total": len(objs)}}
}

func TestResolveParentNameLanguage(t *testing.T) {
	g := &routeGetter{routes: map[hubapi.Environment]map[string]*hubapi.Response{
		hubapi.Source: {
			"content/api/v2/pages/10": {Status: http.StatusOK, Body: domain.Entity{"id": 10, "name": "Home", "language": "de"}},
		},
		hubapi.Destination: {
			domain.PagesPath: list(map[string]any{"id": 900, "name": "Home", "language": "de"}),
		},
	}}
	r := resolve.New(g, nil, nil)

	got, err := r.ResolveParent(context.Background(), 10, domain.PagesPath)
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.ID())

	require.Len(t, g.calls, 2)
	search := g.calls[1]
	assert.Equal(t, hubapi.Destination, search.env)
	assert.Equal(t, "1", search.query.Get("limit"))
	assert.Equal(t, "Home", search.query.Get("name__icontains"))
	assert.Equal(t, "de", search.query.Get("language__in"))
}

func TestResolveParentDefaultsLanguage(t *testing.T) {
	g := &routeGetter{routes: map[hubapi.Environment]map[string]*hubapi.Response{
		hubapi.Source: {
			"content/api/v2/pages/10": {Status: http.StatusOK, Body: domain.Entity{"id": 10, "name": "Home"}},
		},
		hubapi.Destination: {domain.PagesPath: list()},
	}}
	r := resolve.New(g, nil, nil)

	_, err := r.ResolveParent(context.Background(), 10, domain.PagesPath)
	assert.ErrorIs(t, err, resolve.ErrNotFound)
	assert.Equal(t, domain.DefaultLanguage, g.calls[1].query.Get("language__in"))
}

func TestResolveParentMissingOnSource(t *testing.T) {
	g := &routeGetter{routes: map[hubapi.Environment]map[string]*hubapi.Response{}}
	r := resolve.New(g, nil, nil)

	_, err := r.ResolveParent(context.Background(), 77, domain.PagesPath)
	assert.ErrorIs(t, err, resolve.ErrSourceParentMissing)
	assert.Len(t, g.calls, 1, "destination must not be queried when the source parent is missing")
}

func TestResolveParentTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	r := resolve.New(&routeGetter{err: boom}, nil, nil)

	_, err := r.ResolveParent(context.Background(), 1, domain.PagesPath)
	assert.ErrorIs(t, err, boom)
}

type fixedStrategy struct {
	got domain.Entity
}

func (f *fixedStrategy) Lookup(_ context.Context, source domain.Entity, _ string) (domain.Entity, error) {
	f.got = source
	return domain.Entity{"id": 5}, nil
}

func TestResolveParentUsesInjectedStrategy(t *testing.T) {
	g := &routeGetter{routes: map[hubapi.Environment]map[string]*hubapi.Response{
		hubapi.Source: {
			"content/api/v2/pages/3": {Status: http.StatusOK, Body: domain.Entity{"id": 3, "name": "Parent"}},
		},
	}}
	strat := &fixedStrategy{}
	r := resolve.New(g, strat, nil)

	got, err := r.ResolveParent(context.Background(), 3, domain.PagesPath)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID())
	assert.Equal(t, "Parent", strat.got.Name())
}

func TestExactNameLookup(t *testing.T) {
	g := &routeGetter{routes: map[hubapi.Environment]map[string]*hubapi.Response{
		hubapi.Destination: {
			domain.PagesPath: list(
				map[string]any{"id": 1, "name": "News Archive", "language": "en-us"},
				map[string]any{"id": 2, "name": "News", "language": "en-us"},
			),
		},
	}}
	s := resolve.ExactName{API: g}

	got, err := s.Lookup(context.Background(), domain.Entity{"name": "News"}, domain.PagesPath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID())
	assert.Equal(t, "100", g.calls[0].query.Get("limit"))

	_, err = s.Lookup(context.Background(), domain.Entity{"name": "news"}, domain.PagesPath)
	assert.ErrorIs(t, err, resolve.ErrNotFound)
}

func TestStrategyByName(t *testing.T) {
	g := &routeGetter{}

	s, err := resolve.StrategyByName("", g)
	require.NoError(t, err)
	assert.IsType(t, resolve.NameLanguage{}, s)

	s, err = resolve.StrategyByName("exact", g)
	require.NoError(t, err)
	assert.IsType(t, resolve.ExactName{}, s)

	_, err = resolve.StrategyByName("levenshtein", g)
	assert.Error(t, err)
}

func TestIndexFirstWinsAndIgnoresEmptyKeys(t *testing.T) {
	idx := resolve.NewIndex("displayName", []domain.Entity{
		{"id": 1, "displayName": "Ada"},
		{"id": 2, "displayName": "Ada"},
		{"id": 3},
	})

	assert.Equal(t, 1, idx.Len())
	got, err := idx.Find("Ada")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID())

	_, err = idx.Find("")
	assert.ErrorIs(t, err, resolve.ErrNotFound)
}
