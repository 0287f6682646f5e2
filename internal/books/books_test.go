package books

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanon(t *testing.T) {
	require.Equal(t, 66, Count())
	require.Equal(t, 1189, TotalChapters())

	seen := make(map[string]bool)
	for i, b := range All() {
		require.Equal(t, i+1, b.Order)
		require.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		require.Greater(t, b.Chapters, 0)
	}
}

func TestByID(t *testing.T) {
	b, ok := ByID("1corinthians")
	require.True(t, ok)
	require.Equal(t, "1 Corinthians", b.Name)
	require.Equal(t, 16, b.Chapters)
	require.Equal(t, TestamentNew, b.Testament)

	_, ok = ByID("gospel-of-thomas")
	require.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	b, ok := ByID("john")
	require.True(t, ok)
	require.Equal(t, "John", b.DisplayName("en"))
	require.Equal(t, "Juan", b.DisplayName("es"))
	require.Equal(t, "John", b.DisplayName("de")) // unknown language defaults to english
}
