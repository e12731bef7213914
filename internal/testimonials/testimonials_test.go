package testimonials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundled(t *testing.T) {
	cards, err := NewSource("").Load()
	require.NoError(t, err)
	require.NotEmpty(t, cards)

	for _, c := range cards {
		assert.NotEmpty(t, c.Quote)
		assert.NotEmpty(t, c.AuthorName)
		assert.GreaterOrEqual(t, c.Rating, 1)
		assert.LessOrEqual(t, c.Rating, 5)
	}
}

func TestLoadRendersMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"quote":"Esto es *énfasis* y **negrita**.","authorName":"Ana","authorRole":"Dev","rating":5}
	]`), 0o644))

	cards, err := NewSource(path).Load()
	require.NoError(t, err)
	require.Len(t, cards, 1)

	html := string(cards[0].Quote)
	assert.Contains(t, html, "<em>énfasis</em>")
	assert.Contains(t, html, "<strong>negrita</strong>")
}

func TestLoadClampsRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"quote":"a","authorName":"x","authorRole":"y","rating":0},
		{"quote":"b","authorName":"x","authorRole":"y","rating":9}
	]`), 0o644))

	cards, err := NewSource(path).Load()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 1, cards[0].Rating)
	assert.Equal(t, 5, cards[1].Rating)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing override file", func(t *testing.T) {
		_, err := NewSource(filepath.Join(t.TempDir(), "missing.json")).Load()
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "t.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
		_, err := NewSource(path).Load()
		require.Error(t, err)
	})
}
