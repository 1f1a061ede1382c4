package migrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/migrate"
	"github.com/johnwards/solarsail/internal/store"
)

func TestSyncPagesLinksTranslationToNewParent(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "About", "language": "de-de", "translated_from_id": home.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Clean(), rep.Summary())
	assert.Equal(t, []string{"About"}, names(rep.Deferred))
	assert.ElementsMatch(t, []string{"Home", "About"}, names(rep.Created))

	destHome := h.list(dest, domain.KindPage, store.Filter{NameContains: "Home"})
	require.Len(t, destHome, 1)
	destAbout := h.list(dest, domain.KindPage, store.Filter{NameContains: "About"})
	require.Len(t, destAbout, 1)

	assert.NotEqual(t, home.ID(), destHome[0].ID())
	assert.Equal(t, destHome[0].ID(), destAbout[0].TranslatedFromID())
}

func TestSyncPagesNeverSendsSourceIDs(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "fr-fr", "translated_from_id": home.ID()})

	_, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	posts := h.posts("/" + domain.PagesPath)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.NotContains(t, p, "id")
		assert.NotContains(t, p, "portal_id")
		if v, ok := p["translated_from_id"]; ok {
			assert.NotEqual(t, float64(home.ID()), v, "source parent id leaked into payload")
		}
	}
}

func TestSyncPagesDeferredSubmittedExactlyOnce(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Placeholder"})
	parent := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Pricing", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Preise", "language": "de-de", "translated_from_id": parent.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Clean(), rep.Summary())

	var submissions int
	for _, p := range h.posts("/" + domain.PagesPath) {
		if p["name"] == "Preise" {
			submissions++
		}
	}
	assert.Equal(t, 1, submissions)
}

func TestSyncPagesUnresolvedNeverSubmitted(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	de := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "de-de", "translated_from_id": home.ID()})
	// Linked to another translation, whose destination copy only appears
	// after the retry pass has already run.
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home CH", "language": "de-ch", "translated_from_id": de.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Home CH"}, names(rep.Failed))
	assert.ElementsMatch(t, []string{"Home", "Home"}, names(rep.Created))
	for _, p := range h.posts("/" + domain.PagesPath) {
		assert.NotEqual(t, "Home CH", p["name"], "unresolved page was submitted")
	}
	assert.Len(t, h.list(dest, domain.KindPage, store.Filter{}), 2)
}

func TestSyncPagesMissingSourceParentFails(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Orphan", "translated_from_id": home.ID()})
	require.NoError(t, h.store.Content.Delete(context.Background(), source, domain.KindPage, home.ID()))

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Orphan"}, names(rep.Deferred))
	assert.Equal(t, []string{"Orphan"}, names(rep.Failed))
	assert.Empty(t, h.posts("/"+domain.PagesPath))
}

func TestSyncPagesRejectedCreateIsItemFailure(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	h.create(source, domain.KindPage, 0, domain.Entity{"slug": "nameless"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Fine"})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Fine"}, names(rep.Created))
	require.Len(t, rep.Failed, 1)
	assert.Contains(t, rep.Failed[0].Reason, "400")
}

func TestSyncPagesExactStrategy(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	h.syncer = migrate.NewSyncer(h.client, migrate.Options{Strategy: exactStrategy(h)}, nil, nil)

	// A destination page whose name merely contains the parent's name.
	h.create(dest, domain.KindPage, 0, domain.Entity{"name": "Home archive", "language": "en-us"})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "nl-nl", "translated_from_id": home.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Clean(), rep.Summary())

	destHome := h.list(dest, domain.KindPage, store.Filter{NameContains: "Home", Languages: []string{"en-us"}})
	require.Len(t, destHome, 2)
	var exact domain.Entity
	for _, p := range destHome {
		if p.Name() == "Home" {
			exact = p
		}
	}
	require.NotNil(t, exact)

	nl := h.list(dest, domain.KindPage, store.Filter{Languages: []string{"nl-nl"}})
	require.Len(t, nl, 1)
	assert.Equal(t, exact.ID(), nl[0].TranslatedFromID())
}

func TestSyncPagesDeferralRecordsReason(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "de-de", "translated_from_id": home.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Deferred, 1)
	assert.NotEmpty(t, rep.Deferred[0].Reason)
}

func TestSyncPagesParentAlreadyAtDestinationIsReady(t *testing.T) {
	h := newHarness(t, migrate.Options{})
	existing := h.create(dest, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	home := h.create(source, domain.KindPage, 0, domain.Entity{"name": "Home", "language": "en-us"})
	h.create(source, domain.KindPage, 0, domain.Entity{"name": "Startseite", "language": "de-de", "translated_from_id": home.ID()})

	rep, err := h.syncer.SyncPages(context.Background())
	require.NoError(t, err)

	assert.Empty(t, rep.Deferred)
	assert.ElementsMatch(t, []string{"Home", "Startseite"}, names(rep.Created))

	posts := h.posts("/" + domain.PagesPath)
	require.Len(t, posts, 2)
	assert.Equal(t, "Startseite", posts[1]["name"])
	assert.Equal(t, float64(existing.ID()), posts[1]["translated_from_id"])
}
