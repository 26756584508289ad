// ABOUTME: Book domain model represents one entry on a Goodreads shelf
// ABOUTME: Defines the shelves the reading widget is built from

package domain

// Shelf identifies one of the upstream reading-list feeds
type Shelf string

const (
	// ShelfCurrentlyReading holds books in progress
	ShelfCurrentlyReading Shelf = "currently-reading"

	// ShelfRead holds finished books, most recent first
	ShelfRead Shelf = "read"
)

// Shelves lists the shelves fetched on every live acquisition, in display order
var Shelves = []Shelf{ShelfCurrentlyReading, ShelfRead}

// Book is a normalized shelf entry. Values are never mutated after parsing.
type Book struct {
	// Title has any trailing parenthetical (series annotation) removed
	Title string `json:"title"`

	// Author is the display name of the book's author
	Author string `json:"author"`

	// Link points at the book's Goodreads page, or "#" when unknown
	Link string `json:"link"`

	// ImageURL is the cover image as published upstream (may be empty)
	ImageURL string `json:"imageUrl"`
}

// HasCover reports whether the book carries a cover image
func (b Book) HasCover() bool {
	return b.ImageURL != ""
}
