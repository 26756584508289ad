// ABOUTME: Article domain models for the writing archive and featured work widgets
// ABOUTME: Records are loaded from static JSON files and never modified

package domain

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	httpURL = regexp.MustCompile(`^https?://\S+$`)
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)
)

// Article is one entry of the writing archive
type Article struct {
	Title       string `json:"title"`
	Publication string `json:"publication"`
	Date        string `json:"date"` // YYYY-MM-DD
	URL         string `json:"url"`
	Keywords    string `json:"keywords,omitempty"`
}

// Validate checks a record loaded from the writing data file
func (a *Article) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Publication, validation.Required),
		validation.Field(&a.Date, validation.Required, validation.Match(isoDate).Error("must be YYYY-MM-DD")),
		validation.Field(&a.URL, validation.Required, validation.Match(httpURL).Error("must be an http(s) URL")),
	)
}

// FeaturedArticle is one entry of the featured work list
type FeaturedArticle struct {
	Title       string `json:"title"`
	Publication string `json:"publication"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
}

// Validate checks a record loaded from the featured data file
func (a *FeaturedArticle) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Publication, validation.Required),
		validation.Field(&a.URL, validation.Required, validation.Match(httpURL).Error("must be an http(s) URL")),
		validation.Field(&a.Image, validation.Match(httpURL).Error("must be an http(s) URL")),
	)
}
