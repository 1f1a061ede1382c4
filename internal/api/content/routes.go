package content

import (
	"net/http"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// resources maps each content kind to its collection path.
var resources = []struct {
	kind domain.Kind
	path string
}{
	{domain.KindPage, domain.PagesPath},
	{domain.KindBlog, domain.BlogsPath},
	{domain.KindBlogPost, domain.BlogPostsPath},
	{domain.KindTemplate, domain.TemplatesPath},
	{domain.KindBlogAuthor, domain.BlogAuthorsPath},
}

// RegisterRoutes registers the content API endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	for _, res := range resources {
		h := &Handler{store: s, kind: res.kind}
		path := "/" + res.path

		mux.HandleFunc("GET "+path, h.List)
		mux.HandleFunc("POST "+path, h.Create)
		mux.HandleFunc("GET "+path+"/{id}", h.Get)
		mux.HandleFunc("DELETE "+path+"/{id}", h.Delete)
	}
}
