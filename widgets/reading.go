// ABOUTME: Reading widget renderer turns snapshots into the site's HTML fragments
// ABOUTME: Implements the presenter the acquisition orchestrator hands results to

package widgets

import (
	"bytes"
	"io"
	"math/rand/v2"
	"regexp"
	"sync"

	"shelf-widgets/core/domain"
)

// RecentCount is how many read-shelf books the widget lists
const RecentCount = 3

var coverSize = regexp.MustCompile(`\._S[XY]\d+_\.`)

// UpgradeCover rewrites the first Goodreads size marker (._SX98_. or ._SY75_.) to the
// 200px-tall variant. URLs without a marker are returned unchanged.
func UpgradeCover(url string) string {
	if url == "" {
		return ""
	}
	loc := coverSize.FindStringIndex(url)
	if loc == nil {
		return url
	}
	return url[:loc[0]] + "._SY200_." + url[loc[1]:]
}

// Renderer writes reading widget markup to an io.Writer
type Renderer struct {
	w          io.Writer
	profileURL string

	mu  sync.Mutex
	rng *rand.Rand
	err error
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithRand sets the source used to pick the featured current book
func WithRand(src rand.Source) RendererOption {
	return func(r *Renderer) {
		if src != nil {
			r.rng = rand.New(src)
		}
	}
}

// NewRenderer creates a renderer. profileURL is the link-out used by the fallback.
func NewRenderer(w io.Writer, profileURL string, opts ...RendererOption) *Renderer {
	r := &Renderer{
		w:          w,
		profileURL: profileURL,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DisplayReading renders one current book picked uniformly at random and the first
// RecentCount read books. An empty current shelf renders no current-book block.
func (r *Renderer) DisplayReading(snap domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	if n := len(snap.CurrentBooks); n > 0 {
		book := snap.CurrentBooks[r.rng.IntN(n)]
		if err := templates.ExecuteTemplate(&buf, "current-book", book); err != nil {
			r.err = err
			return
		}
	}

	recent := snap.ReadBooks
	if len(recent) > RecentCount {
		recent = recent[:RecentCount]
	}
	if err := templates.ExecuteTemplate(&buf, "recent-books", recent); err != nil {
		r.err = err
		return
	}

	r.flush(&buf)
}

// DisplayFallback renders the static link-out to the Goodreads profile
func (r *Renderer) DisplayFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "reading-fallback", r.profileURL); err != nil {
		r.err = err
		return
	}
	r.flush(&buf)
}

// Err returns the first render or write error, if any
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Renderer) flush(buf *bytes.Buffer) {
	if _, err := buf.WriteTo(r.w); err != nil && r.err == nil {
		r.err = err
	}
}
