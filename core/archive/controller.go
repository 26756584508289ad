// ABOUTME: Writing archive controller holds the article list plus the session's filter state
// ABOUTME: Applies publication filters and search, and orders results newest first

package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"shelf-widgets/core/domain"
	timeutil "shelf-widgets/pkg/utils/time"
)

// Controller is the writing archive's per-session state. It is not safe for concurrent use.
type Controller struct {
	articles     []domain.Article
	publications []string
	selected     map[string]struct{}
	search       string
}

// NewController creates a controller over the given articles
func NewController(articles []domain.Article) *Controller {
	c := &Controller{
		articles: append([]domain.Article(nil), articles...),
		selected: make(map[string]struct{}),
	}

	seen := make(map[string]struct{})
	for _, a := range c.articles {
		if _, ok := seen[a.Publication]; ok {
			continue
		}
		seen[a.Publication] = struct{}{}
		c.publications = append(c.publications, a.Publication)
	}
	sort.Strings(c.publications)

	return c
}

// Load reads a JSON array of articles from path. Every record must validate.
func Load(path string) (*Controller, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read writing data: %w", err)
	}

	var articles []domain.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode writing data: %w", err)
	}

	for i := range articles {
		if err := articles[i].Validate(); err != nil {
			return nil, fmt.Errorf("writing data record %d: %w", i, err)
		}
	}

	return NewController(articles), nil
}

// Len returns the number of loaded articles
func (c *Controller) Len() int {
	return len(c.articles)
}

// Publications returns the distinct publications in sorted order
func (c *Controller) Publications() []string {
	return append([]string(nil), c.publications...)
}

// Toggle selects or deselects a publication filter
func (c *Controller) Toggle(publication string, on bool) {
	if on {
		c.selected[publication] = struct{}{}
		return
	}
	delete(c.selected, publication)
}

// Selected returns the selected publications in sorted order
func (c *Controller) Selected() []string {
	out := make([]string, 0, len(c.selected))
	for p := range c.selected {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsSelected reports whether publication is an active filter
func (c *Controller) IsSelected(publication string) bool {
	_, ok := c.selected[publication]
	return ok
}

// SetSearch sets the free-text search term
func (c *Controller) SetSearch(q string) {
	c.search = q
}

// Search returns the current search term
func (c *Controller) Search() string {
	return c.search
}

// Visible returns the articles passing the publication filter and search, newest first.
// With no filter selected every publication passes. Articles with unparseable dates
// sort after dated ones; ties keep their loaded order.
func (c *Controller) Visible() []domain.Article {
	needle := strings.ToLower(c.search)

	out := make([]domain.Article, 0, len(c.articles))
	for _, a := range c.articles {
		if len(c.selected) > 0 && !c.IsSelected(a.Publication) {
			continue
		}
		if needle != "" && !matches(a, needle) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti := timeutil.ParseFlexibleTime(out[i].Date)
		tj := timeutil.ParseFlexibleTime(out[j].Date)
		if ti.IsZero() || tj.IsZero() {
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.After(tj)
	})

	return out
}

func matches(a domain.Article, needle string) bool {
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Publication), needle) ||
		strings.Contains(strings.ToLower(a.Keywords), needle)
}
