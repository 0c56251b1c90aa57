package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadsEmbeddedDocuments(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)

	ids := s.IDs()
	assert.Len(t, ids, 9)
	assert.Equal(t, "01", ids[0])
	assert.Equal(t, "09", ids[len(ids)-1])

	doc, ok := s.Get("06")
	require.True(t, ok)
	assert.Equal(t, "Refund Policy", doc.Title)
	assert.Contains(t, doc.Content, "refund")
}

func TestStoreSummaries(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)

	summaries := s.Summaries()
	assert.Contains(t, summaries, "[01] Mission and Vision")
	assert.Contains(t, summaries, "[09] Contact Information")
	// Summaries hold the summary section, not the details.
	assert.NotContains(t, summaries, "5 to 10 business days")
}

func TestSection(t *testing.T) {
	content := "# Title\n\n## Summary\nShort version here.\n\n## Details\nLong version here.\nMore detail.\n"

	assert.Equal(t, "Short version here.", Section(content, "Summary"))
	got := Section(content, "Details")
	assert.Contains(t, got, "Long version here.")
	assert.Contains(t, got, "More detail.")
	assert.Empty(t, Section(content, "Missing"))
}
