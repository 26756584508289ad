package featured

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shelf-widgets/core/domain"
)

func testCatalog() Catalog {
	return Catalog{
		Articles: []domain.FeaturedArticle{
			{Title: "Bring Back the Bison", Publication: "National Review"},
			{Title: "Land Back!", Publication: "Washington Free Beacon"},
			{Title: "How to Stage a Coup", Publication: "Statecraft"},
			{Title: "Connection Failure", Publication: "Washington Free Beacon"},
			{Title: "Technocapital Is Eating My Brains", Publication: "Regress Studies"},
		},
		Pair: []domain.FeaturedArticle{
			{Title: "50 Thoughts on DOGE", Publication: "Statecraft"},
			{Title: "More (Brief) Thoughts On DOGE", Publication: "Statecraft"},
		},
	}
}

func isPair(a domain.FeaturedArticle) bool {
	return a.Title == "50 Thoughts on DOGE" || a.Title == "More (Brief) Thoughts On DOGE"
}

func TestSelector_PickShapes(t *testing.T) {
	s := NewSeededSelector(testCatalog(), 7)

	sawPair, sawRandom := false, false
	for i := 0; i < 200; i++ {
		picked := s.Pick()
		require.Len(t, picked, Count)

		seen := make(map[string]bool)
		for _, a := range picked {
			assert.False(t, seen[a.Title], "duplicate article %q", a.Title)
			seen[a.Title] = true
		}

		if isPair(picked[0]) {
			sawPair = true
			assert.Equal(t, "50 Thoughts on DOGE", picked[0].Title)
			assert.Equal(t, "More (Brief) Thoughts On DOGE", picked[1].Title)
			assert.False(t, isPair(picked[2]))
		} else {
			sawRandom = true
			for _, a := range picked {
				assert.False(t, isPair(a), "pair members only appear together")
			}
		}
	}

	assert.True(t, sawPair)
	assert.True(t, sawRandom)
}

func TestSelector_SameSeedSameSequence(t *testing.T) {
	a := NewSeededSelector(testCatalog(), 42)
	b := NewSeededSelector(testCatalog(), 42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Pick(), b.Pick())
	}
}

func TestSelector_NoPair(t *testing.T) {
	catalog := testCatalog()
	catalog.Pair = nil
	s := NewSelector(catalog, rand.NewPCG(1, 2))

	for i := 0; i < 20; i++ {
		picked := s.Pick()
		assert.Len(t, picked, Count)
	}
}

func TestSelector_SmallCatalog(t *testing.T) {
	s := NewSelector(Catalog{Articles: []domain.FeaturedArticle{{Title: "Only"}}}, nil)
	assert.Len(t, s.Pick(), 1)

	empty := NewSelector(Catalog{}, nil)
	assert.Empty(t, empty.Pick())
}

func TestSelector_DoesNotReorderCatalog(t *testing.T) {
	catalog := testCatalog()
	s := NewSeededSelector(catalog, 3)
	s.Pick()

	assert.Equal(t, testCatalog().Articles, s.catalog.Articles)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "featured.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"articles": [{"title": "A", "publication": "P", "url": "https://a", "image": "https://a.png"}],
		"pair": [{"title": "B", "publication": "Q", "url": "https://b"}]
	}`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Articles, 1)
	assert.Equal(t, "https://a.png", c.Articles[0].Image)
	require.Len(t, c.Pair, 1)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
