package widgets

import (
	"io"

	"shelf-widgets/core/archive"
	"shelf-widgets/core/domain"
)

type filterOption struct {
	Name    string
	Checked bool
}

// RenderWriting writes the archive's visible articles, or a no-results item
func RenderWriting(w io.Writer, c *archive.Controller) error {
	return RenderArticles(w, c.Visible())
}

// RenderArticles writes an article list
func RenderArticles(w io.Writer, articles []domain.Article) error {
	return templates.ExecuteTemplate(w, "writing-list", articles)
}

// RenderFilters writes one checkbox per publication, checked when selected
func RenderFilters(w io.Writer, c *archive.Controller) error {
	pubs := c.Publications()
	options := make([]filterOption, len(pubs))
	for i, p := range pubs {
		options[i] = filterOption{Name: p, Checked: c.IsSelected(p)}
	}
	return templates.ExecuteTemplate(w, "writing-filters", options)
}

// RenderFeatured writes the featured work list
func RenderFeatured(w io.Writer, articles []domain.FeaturedArticle) error {
	return templates.ExecuteTemplate(w, "featured-work", articles)
}
