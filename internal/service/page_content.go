package service

import (
	"encoding/json"
	"strings"

	"github.com/pagecontent/internal/db"
)

// PageMeta is the SEO block of a page response. Fields are never null.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// PageContent is the response served for one page.
type PageContent struct {
	Slug       string            `json:"slug"`
	Meta       PageMeta          `json:"meta"`
	Components []json.RawMessage `json:"components"`
}

// Assemble merges page metadata with the normalized components. requested is
// the token the page was looked up with and backs an empty stored slug.
func Assemble(page *db.Page, requested string, components []json.RawMessage) PageContent {
	if components == nil {
		components = []json.RawMessage{}
	}

	slug := strings.TrimSpace(page.Slug)
	if slug == "" {
		slug = requested
	}
	if slug == "" {
		slug = HomeToken
	}

	return PageContent{
		Slug:       slug,
		Meta:       assembleMeta(page),
		Components: components,
	}
}

// assembleMeta returns the stored values as they are. Only an empty title is
// replaced, by the page name.
func assembleMeta(page *db.Page) PageMeta {
	title := page.MetaTitle
	if title == "" {
		title = page.Name
	}
	return PageMeta{
		Title:       title,
		Description: page.MetaDescription,
		Keywords:    page.MetaKeywords,
	}
}
