package domain

import (
	"strconv"
	"strings"
)

// Kind identifies a content type handled by the migration and the sandbox.
type Kind string

const (
	KindPage       Kind = "page"
	KindBlog       Kind = "blog"
	KindBlogPost   Kind = "blog-post"
	KindTemplate   Kind = "template"
	KindBlogAuthor Kind = "blog-author"
	KindHubDBTable Kind = "hubdb-table"
	KindHubDBRow   Kind = "hubdb-row"
)

// Content API collection paths, relative to the API base URL.
const (
	PagesPath       = "content/api/v2/pages"
	BlogsPath       = "content/api/v2/blogs"
	BlogPostsPath   = "content/api/v2/blog-posts"
	TemplatesPath   = "content/api/v2/templates"
	BlogAuthorsPath = "blogs/v3/blog-authors"
	HubDBTablesPath = "hubdb/api/v2/tables"
)

// ItemPath returns the path of a single item in a collection.
func ItemPath(listPath string, id int64) string {
	return strings.TrimSuffix(listPath, "/") + "/" + strconv.FormatInt(id, 10)
}

// HubDBRowsPath returns the rows collection of a HubDB table.
func HubDBRowsPath(tableID int64) string {
	return ItemPath(HubDBTablesPath, tableID) + "/rows"
}

// NameField is the field the sandbox indexes as an entity's display name.
func (k Kind) NameField() string {
	switch k {
	case KindTemplate:
		return "path"
	case KindBlogAuthor:
		return "displayName"
	case KindHubDBRow:
		return ""
	default:
		return "name"
	}
}

// PortalField is the field carrying the owning portal id. The v3 authors API
// uses camelCase, the v2 content API snake_case.
func (k Kind) PortalField() string {
	if k == KindBlogAuthor {
		return "portalId"
	}
	return "portal_id"
}
