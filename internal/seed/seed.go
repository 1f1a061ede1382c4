// Package seed fills a sandbox portal with demo content covering every kind
// the migration copies.
package seed

import (
	"context"
	"fmt"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// Seed inserts the demo content into portalID. It is idempotent: a portal
// that already holds content is left untouched. Call order matters because
// translations, posts and rows reference items created before them.
func Seed(ctx context.Context, s *store.Store, portalID int64) error {
	n, err := s.Content.Count(ctx, portalID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sd := &seeder{store: s, portalID: portalID}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"templates", sd.templates},
		{"pages", sd.pages},
		{"hubdb", sd.hubdb},
		{"authors", sd.authors},
		{"blogs", sd.blogs},
		{"blog posts", sd.posts},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return nil
}

type seeder struct {
	store    *store.Store
	portalID int64

	authorIDs map[string]int64
	blogIDs   map[string]int64
}

func (sd *seeder) create(ctx context.Context, kind domain.Kind, parentID int64, body domain.Entity) (int64, error) {
	e, err := sd.store.Content.Create(ctx, sd.portalID, kind, parentID, body)
	if err != nil {
		return 0, err
	}
	return e.ID(), nil
}

func (sd *seeder) templates(ctx context.Context) error {
	for _, t := range []domain.Entity{
		{"path": "generated_layouts/home.html", "label": "Home", "is_available_for_new_content": true, "source": "<main>{{ content }}</main>"},
		{"path": "custom/page/about.html", "label": "About", "is_available_for_new_content": true, "source": "<section>{{ content }}</section>"},
	} {
		if _, err := sd.create(ctx, domain.KindTemplate, 0, t); err != nil {
			return err
		}
	}
	return nil
}

// pages creates two primary pages and a German translation of each.
func (sd *seeder) pages(ctx context.Context) error {
	home, err := sd.create(ctx, domain.KindPage, 0, domain.Entity{
		"name": "Home", "slug": "", "language": "en-us", "html_title": "Welcome",
		"template_path": "generated_layouts/home.html",
	})
	if err != nil {
		return err
	}
	about, err := sd.create(ctx, domain.KindPage, 0, domain.Entity{
		"name": "About", "slug": "about", "language": "en-us", "html_title": "About us",
		"template_path": "custom/page/about.html",
	})
	if err != nil {
		return err
	}
	if _, err := sd.create(ctx, domain.KindPage, 0, domain.Entity{
		"name": "Home", "slug": "de", "language": "de-de", "html_title": "Willkommen",
		"template_path": "generated_layouts/home.html", "translated_from_id": home,
	}); err != nil {
		return err
	}
	_, err = sd.create(ctx, domain.KindPage, 0, domain.Entity{
		"name": "About", "slug": "de/about", "language": "de-de", "html_title": "Über uns",
		"template_path": "custom/page/about.html", "translated_from_id": about,
	})
	return err
}

func (sd *seeder) hubdb(ctx context.Context) error {
	table, err := sd.create(ctx, domain.KindHubDBTable, 0, domain.Entity{
		"name":  "offices",
		"label": "Offices",
		"columns": []any{
			map[string]any{"id": 1, "name": "city", "label": "City", "type": "TEXT"},
			map[string]any{"id": 2, "name": "staff", "label": "Staff", "type": "NUMBER"},
		},
	})
	if err != nil {
		return err
	}
	for _, values := range []map[string]any{
		{"1": "London", "2": 40},
		{"1": "Philadelphia", "2": 25},
	} {
		if _, err := sd.create(ctx, domain.KindHubDBRow, table, domain.Entity{"values": values}); err != nil {
			return err
		}
	}
	return nil
}

func (sd *seeder) authors(ctx context.Context) error {
	sd.authorIDs = map[string]int64{}
	for _, a := range []domain.Entity{
		{"fullName": "Ann Author", "displayName": "Ann Author", "email": "ann@example.com", "slug": "ann-author"},
		{"fullName": "Ben Writer", "displayName": "Ben Writer", "email": "ben@example.com", "slug": "ben-writer"},
	} {
		id, err := sd.create(ctx, domain.KindBlogAuthor, 0, a)
		if err != nil {
			return err
		}
		sd.authorIDs[a.String("displayName")] = id
	}
	return nil
}

// blogs creates one primary blog and a German translation of it.
func (sd *seeder) blogs(ctx context.Context) error {
	sd.blogIDs = map[string]int64{}
	news, err := sd.create(ctx, domain.KindBlog, 0, domain.Entity{
		"name": "News", "slug": "news", "language": "en-us", "public_title": "News", "item_template_path": "generated_layouts/home.html",
	})
	if err != nil {
		return err
	}
	sd.blogIDs["News"] = news
	_, err = sd.create(ctx, domain.KindBlog, 0, domain.Entity{
		"name": "Nachrichten", "slug": "de/news", "language": "de-de", "public_title": "Nachrichten", "translated_from_id": news,
	})
	return err
}

func (sd *seeder) posts(ctx context.Context) error {
	news := sd.blogIDs["News"]
	launch, err := sd.create(ctx, domain.KindBlogPost, 0, domain.Entity{
		"name": "Launch day", "slug": "news/launch-day", "language": "en-us",
		"post_body": "<p>We are live.</p>", "content_group_id": news, "blog_author_id": sd.authorIDs["Ann Author"],
	})
	if err != nil {
		return err
	}
	if _, err := sd.create(ctx, domain.KindBlogPost, 0, domain.Entity{
		"name": "Roadmap", "slug": "news/roadmap", "language": "en-us",
		"post_body": "<p>What comes next.</p>", "content_group_id": news, "blog_author_id": sd.authorIDs["Ben Writer"],
	}); err != nil {
		return err
	}
	_, err = sd.create(ctx, domain.KindBlogPost, 0, domain.Entity{
		"name": "Starttag", "slug": "de/news/starttag", "language": "de-de",
		"post_body": "<p>Wir sind live.</p>", "content_group_id": news, "blog_author_id": sd.authorIDs["Ann Author"],
		"translated_from_id": launch,
	})
	return err
}
