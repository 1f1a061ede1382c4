package migrate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/resolve"
)

// SyncBlogAuthors copies every source blog author.
func (s *Syncer) SyncBlogAuthors(ctx context.Context) (*Report, error) {
	rep := newReport(ProcAuthors)

	authors, err := s.list(ctx, domain.BlogAuthorsPath, hubapi.Source, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}

	for _, author := range authors {
		item := itemOf(domain.KindBlogAuthor, author)
		created, err := s.create(ctx, domain.BlogAuthorsPath, domain.BlogAuthorPayload(author))
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		s.succeed(rep, item, created)
	}
	return rep, nil
}

// SyncBlogs copies the primary-language source blogs. Blog translations are
// skipped.
func (s *Syncer) SyncBlogs(ctx context.Context) (*Report, error) {
	rep := newReport(ProcBlogs)
	s.reporter.Progress("Getting list of blogs")

	blogs, err := s.list(ctx, domain.BlogsPath, hubapi.Source, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}
	s.reporter.Success("Fetched %d blogs", len(blogs))

	for _, blog := range blogs {
		item := itemOf(domain.KindBlog, blog)
		if blog.TranslatedFromID() != 0 {
			s.skip(rep, item, "blog is a translation")
			continue
		}
		created, err := s.create(ctx, domain.BlogsPath, domain.BlogPayload(blog))
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		s.succeed(rep, item, created)
	}
	return rep, nil
}

// DeleteBlogs removes every blog from the destination.
func (s *Syncer) DeleteBlogs(ctx context.Context) (*Report, error) {
	rep := newReport(ProcDeleteBlogs)

	blogs, err := s.list(ctx, domain.BlogsPath, hubapi.Destination, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}

	for _, blog := range blogs {
		item := itemOf(domain.KindBlog, blog)
		s.reporter.Progress("Deleting %s", item.Name)

		resp, err := s.api.Delete(ctx, domain.ItemPath(domain.BlogsPath, blog.ID()), hubapi.Destination)
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		if resp.Status != http.StatusNoContent {
			s.fail(rep, item, fmt.Errorf("%w: %d %s", ErrRejected, resp.Status, resp.Message()))
			continue
		}
		rep.Deleted = append(rep.Deleted, item)
		s.reporter.Success("Deleted blog %q", item.Name)
	}
	return rep, nil
}

// SyncBlogPosts copies primary-language posts into the destination blog of
// the same name, credited to the destination author of the same display
// name. Authors and blogs must already exist at the destination; the Runner
// orders them first. Posts that are translations, or whose blog or author
// has no destination counterpart, are skipped.
func (s *Syncer) SyncBlogPosts(ctx context.Context) (*Report, error) {
	rep := newReport(ProcBlogPosts)
	s.reporter.Progress("Getting list of blog posts")

	posts, err := s.list(ctx, domain.BlogPostsPath, hubapi.Source, s.opts.PostLimit)
	if err != nil {
		return rep, err
	}
	s.reporter.Success("Fetched %d blog posts", len(posts))

	blogs, err := resolve.BuildIndex(ctx, s.api, domain.BlogsPath, "name", s.opts.ListLimit)
	if err != nil {
		return rep, err
	}
	authors, err := resolve.BuildIndex(ctx, s.api, domain.BlogAuthorsPath, "displayName", s.opts.ListLimit)
	if err != nil {
		return rep, err
	}
	names := &authorNames{api: s.api, byID: map[int64]string{}}

	for _, post := range posts {
		item := itemOf(domain.KindBlogPost, post)
		if post.TranslatedFromID() != 0 {
			s.skip(rep, item, "post is a translation")
			continue
		}

		parentName := post.Object("parent_blog").Name()
		blog, err := blogs.Find(parentName)
		if err != nil {
			s.skip(rep, item, fmt.Sprintf("no destination blog named %q", parentName))
			continue
		}

		authorID, err := s.resolveAuthor(ctx, post, authors, names)
		if err != nil {
			s.skip(rep, item, err.Error())
			continue
		}

		s.reporter.Progress("Syncing blog post: %s", item.Name)
		created, err := s.create(ctx, domain.BlogPostsPath, domain.BlogPostPayload(post, blog.ID(), authorID))
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		s.succeed(rep, item, created)
	}
	return rep, nil
}

func (s *Syncer) resolveAuthor(ctx context.Context, post domain.Entity, authors *resolve.Index, names *authorNames) (int64, error) {
	name := names.of(ctx, post)
	if name != "" {
		if a, err := authors.Find(name); err == nil && a.ID() != 0 {
			return a.ID(), nil
		}
	}
	if s.opts.DefaultAuthor != "" {
		if a, err := authors.Find(s.opts.DefaultAuthor); err == nil && a.ID() != 0 {
			return a.ID(), nil
		}
	}
	return 0, fmt.Errorf("no destination author for %q: %w", name, resolve.ErrNotFound)
}

// authorNames finds the display name of a post's source author, caching
// lookups by source author id.
type authorNames struct {
	api  API
	byID map[int64]string
}

var authorNameFields = []string{"displayName", "display_name", "fullName", "full_name"}

func (a *authorNames) of(ctx context.Context, post domain.Entity) string {
	if embedded := post.Object("blog_author"); embedded != nil {
		for _, f := range authorNameFields {
			if v := embedded.String(f); v != "" {
				return v
			}
		}
	}

	id, ok := domain.Int64(post["blog_author_id"])
	if !ok || id == 0 {
		return ""
	}
	if name, ok := a.byID[id]; ok {
		return name
	}
	name := ""
	resp, err := a.api.Get(ctx, domain.ItemPath(domain.BlogAuthorsPath, id), hubapi.Source, nil)
	if err == nil && !resp.Failed() {
		name = resp.Entity().String("displayName")
	}
	a.byID[id] = name
	return name
}
