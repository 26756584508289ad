// ABOUTME: Featured work selector samples three articles from a fixed catalog
// ABOUTME: A designated pair is always shown together when it is picked

package featured

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"shelf-widgets/core/domain"
)

// Count is how many articles a selection holds
const Count = 3

// Catalog is the featured work data file
type Catalog struct {
	// Articles are sampled individually
	Articles []domain.FeaturedArticle `json:"articles"`

	// Pair is shown as a unit, together with one article from Articles
	Pair []domain.FeaturedArticle `json:"pair,omitempty"`
}

// LoadCatalog reads a catalog from a JSON file
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read featured data: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode featured data: %w", err)
	}

	for i := range c.Articles {
		if err := c.Articles[i].Validate(); err != nil {
			return Catalog{}, fmt.Errorf("featured article %d: %w", i, err)
		}
	}
	for i := range c.Pair {
		if err := c.Pair[i].Validate(); err != nil {
			return Catalog{}, fmt.Errorf("featured pair article %d: %w", i, err)
		}
	}
	return c, nil
}

// Selector picks featured articles. It is safe for concurrent use.
type Selector struct {
	catalog Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector. A nil src seeds from the runtime's random source.
func NewSelector(catalog Catalog, src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{catalog: catalog, rng: rand.New(src)}
}

// NewSeededSelector creates a selector with a reproducible sequence
func NewSeededSelector(catalog Catalog, seed uint64) *Selector {
	return NewSelector(catalog, rand.NewPCG(seed, seed))
}

// Pick returns a selection. Half the time it is the pair plus one random article,
// otherwise Count distinct random articles. Fewer are returned when the catalog is small.
func (s *Selector) Pick() []domain.FeaturedArticle {
	s.mu.Lock()
	defer s.mu.Unlock()

	shuffled := append([]domain.FeaturedArticle(nil), s.catalog.Articles...)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(s.catalog.Pair) > 0 && s.rng.IntN(2) == 0 {
		selected := append([]domain.FeaturedArticle(nil), s.catalog.Pair...)
		if extra := Count - len(selected); extra > 0 {
			selected = append(selected, shuffled[:min(extra, len(shuffled))]...)
		}
		return selected
	}

	return shuffled[:min(Count, len(shuffled))]
}
