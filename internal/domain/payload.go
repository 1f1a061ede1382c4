package domain

// Field allow-lists for create payloads. Anything not listed stays behind in
// the source portal.
var (
	BlogFields = []string{
		"name", "category_id", "created", "updated", "item_template_path",
		"public_title", "html_title", "slug", "description", "language",
	}
	HubDBTableFields = []string{
		"name", "label", "columns", "createdAt", "publishedAt",
	}
	BlogAuthorFields = []string{
		"fullName", "displayName", "email", "slug", "bio", "website",
		"twitter", "facebook", "linkedin", "avatar", "language",
	}
)

// Field deny-lists for kinds that are copied nearly verbatim.
var (
	pageOmit     = []string{"id", "portal_id"}
	templateOmit = []string{"id", "portal_id", "deleted_at"}
	blogPostOmit = []string{"id", "portal_id", "parent_blog", "blog_author", "translated_from_id"}
)

// Pick returns a copy of e holding only the listed fields that are present.
func Pick(e Entity, fields ...string) Entity {
	out := make(Entity, len(fields))
	for _, f := range fields {
		if v, ok := e[f]; ok {
			out[f] = cloneValue(v)
		}
	}
	return out
}

// Omit returns a deep copy of e without the listed fields.
func Omit(e Entity, fields ...string) Entity {
	out := e.Clone()
	if out == nil {
		out = Entity{}
	}
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// BlogPayload builds the create body for a blog.
func BlogPayload(e Entity) Entity {
	return Pick(e, BlogFields...)
}

// HubDBTablePayload builds the create body for a HubDB table.
func HubDBTablePayload(e Entity) Entity {
	return Pick(e, HubDBTableFields...)
}

// HubDBRowPayload builds the create body for a HubDB row.
func HubDBRowPayload(row Entity) Entity {
	return Entity{"values": cloneValue(row["values"])}
}

// BlogAuthorPayload builds the create body for a blog author.
func BlogAuthorPayload(e Entity) Entity {
	return Pick(e, BlogAuthorFields...)
}

// PagePayload builds the create body for a page. The translation link, if
// any, is still the source id and must be rewritten by the caller.
func PagePayload(e Entity) Entity {
	return Omit(e, pageOmit...)
}

// TemplatePayload builds the create body for a template.
func TemplatePayload(e Entity) Entity {
	return Omit(e, templateOmit...)
}

// BlogPostPayload builds the create body for a blog post bound to the given
// destination blog and author. Nested translated_content entries lose their
// own ids, which only exist in the source portal.
func BlogPostPayload(e Entity, blogID, authorID int64) Entity {
	out := Omit(e, blogPostOmit...)
	if tc := out.Object("translated_content"); tc != nil {
		for lang, v := range tc {
			if nested, ok := v.(map[string]any); ok {
				delete(nested, "id")
				tc[lang] = nested
			}
		}
		out["translated_content"] = map[string]any(tc)
	}
	out["content_group_id"] = blogID
	out["blog_author_id"] = authorID
	return out
}
