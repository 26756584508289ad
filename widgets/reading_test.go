package widgets

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shelf-widgets/core/domain"
)

const profileURL = "https://www.goodreads.com/user/show/45140929-santi-ruiz"

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func books(titles ...string) []domain.Book {
	out := make([]domain.Book, len(titles))
	for i, title := range titles {
		out[i] = domain.Book{Title: title, Author: "Author " + title, Link: "https://www.goodreads.com/review/show/" + title}
	}
	return out
}

func TestUpgradeCover(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sx marker", "https://i.gr-assets.com/images/S/books/1234._SX98_.jpg", "https://i.gr-assets.com/images/S/books/1234._SY200_.jpg"},
		{"sy marker", "https://i.gr-assets.com/images/S/books/1234._SY75_.jpg", "https://i.gr-assets.com/images/S/books/1234._SY200_.jpg"},
		{"first marker only", "a._SX50_.b._SY60_.jpg", "a._SY200_.b._SY60_.jpg"},
		{"no marker", "https://example.com/cover.jpg", "https://example.com/cover.jpg"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpgradeCover(tt.in))
		})
	}
}

func TestRenderer_DisplayReading(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL, WithRand(rand.NewPCG(1, 1)))

	current := books("Seeing Like a State")
	current[0].ImageURL = "https://i.gr-assets.com/x._SX98_.jpg"
	r.DisplayReading(domain.Snapshot{
		CurrentBooks: current,
		ReadBooks:    books("One", "Two", "Three", "Four"),
	})
	require.NoError(t, r.Err())

	doc := parse(t, buf.String())
	assert.Equal(t, "Seeing Like a State", doc.Find("#current-book .book-title").Text())
	assert.Equal(t, "Author Seeing Like a State", doc.Find("#current-book .book-author").Text())
	src, _ := doc.Find(".current-book-cover img").Attr("src")
	assert.Equal(t, "https://i.gr-assets.com/x._SY200_.jpg", src)
	alt, _ := doc.Find(".current-book-cover img").Attr("alt")
	assert.Equal(t, "Seeing Like a State", alt)

	items := doc.Find("#recent-books li")
	require.Equal(t, RecentCount, items.Length())
	assert.Equal(t, []string{"One", "Two", "Three"}, items.Find("a").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}))
}

func TestRenderer_NoCoverNoImage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL)

	r.DisplayReading(domain.Snapshot{CurrentBooks: books("Plain")})

	doc := parse(t, buf.String())
	assert.Equal(t, 0, doc.Find(".current-book-cover").Length())
	assert.Equal(t, "Plain", doc.Find(".book-title").Text())
}

func TestRenderer_EmptyReadShelf(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL)

	r.DisplayReading(domain.Snapshot{CurrentBooks: books("Only Current")})

	doc := parse(t, buf.String())
	assert.Equal(t, "No recent books", strings.TrimSpace(doc.Find("#recent-books li").Text()))
}

func TestRenderer_EmptyCurrentShelf(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL)

	r.DisplayReading(domain.Snapshot{ReadBooks: books("Read")})

	doc := parse(t, buf.String())
	assert.Equal(t, 0, doc.Find("#current-book").Length())
	assert.Equal(t, 1, doc.Find("#recent-books li").Length())
}

func TestRenderer_CurrentPickIsUniform(t *testing.T) {
	counts := make(map[string]int)
	r := NewRenderer(&bytes.Buffer{}, profileURL, WithRand(rand.NewPCG(9, 9)))

	for i := 0; i < 600; i++ {
		var buf bytes.Buffer
		r.w = &buf
		r.DisplayReading(domain.Snapshot{CurrentBooks: books("A", "B", "C")})
		counts[parse(t, buf.String()).Find(".book-title").Text()]++
	}

	for _, title := range []string{"A", "B", "C"} {
		assert.Greater(t, counts[title], 120, "book %s picked %d times", title, counts[title])
	}
}

func TestRenderer_EscapesMarkup(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL)

	r.DisplayReading(domain.Snapshot{CurrentBooks: []domain.Book{{
		Title:  "<script>alert(1)</script>",
		Author: "A & B",
		Link:   "javascript:alert(1)",
	}}})

	assert.NotContains(t, buf.String(), "<script>")
	assert.NotContains(t, buf.String(), `href="javascript:`)
	doc := parse(t, buf.String())
	assert.Equal(t, "A & B", doc.Find(".book-author").Text())
}

func TestRenderer_DisplayFallback(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, profileURL)

	r.DisplayFallback()
	require.NoError(t, r.Err())

	doc := parse(t, buf.String())
	link := doc.Find("#current-book a.book-title")
	assert.Equal(t, "Visit Goodreads", link.Text())
	href, _ := link.Attr("href")
	assert.Equal(t, profileURL, href)

	recent := doc.Find("#recent-books a")
	assert.Equal(t, "See reading list →", recent.Text())
	href, _ = recent.Attr("href")
	assert.Equal(t, profileURL, href)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRenderer_WriteErrorIsRecorded(t *testing.T) {
	r := NewRenderer(failingWriter{}, profileURL)

	r.DisplayFallback()

	assert.EqualError(t, r.Err(), "closed pipe")
}
