// ABOUTME: Goodreads shelf feed parser built on gofeed
// ABOUTME: Turns an RSS document into normalized book records and never fails

package feed

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"shelf-widgets/core/domain"
)

const (
	// DefaultTitle is used when an item has no title
	DefaultTitle = "Unknown Title"

	// DefaultLink is used when an item has no link
	DefaultLink = "#"

	// Goodreads publishes these as plain RSS child elements of <item>
	authorElement = "author_name"
	imageElement  = "book_image_url"
)

// trailingParenthetical matches one parenthetical group anchored at the end of a title,
// e.g. a series annotation such as "(Dune #1)".
var trailingParenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Parse converts a shelf feed into books in document order.
// Malformed documents or documents without items yield an empty slice.
func Parse(content []byte) []domain.Book {
	books := []domain.Book{}
	if len(bytes.TrimSpace(content)) == 0 {
		return books
	}

	// gofeed parsers keep per-parse state, so each call gets its own
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(content))
	if err != nil || parsed == nil {
		return books
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		books = append(books, convertItem(item))
	}
	return books
}

// convertItem maps a gofeed item to a book, applying field defaults
func convertItem(item *gofeed.Item) domain.Book {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = DefaultTitle
	}

	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = DefaultLink
	}

	return domain.Book{
		Title:    CleanTitle(title),
		Author:   customText(item, authorElement),
		Link:     link,
		ImageURL: customText(item, imageElement),
	}
}

// customText returns the trimmed text of a non-namespaced item element
func customText(item *gofeed.Item, name string) string {
	if item.Custom == nil {
		return ""
	}
	return strings.TrimSpace(item.Custom[name])
}

// CleanTitle strips one trailing parenthetical group. Applying it twice gives the
// same result as once for titles that end in a single group.
func CleanTitle(title string) string {
	return trailingParenthetical.ReplaceAllString(title, "")
}
