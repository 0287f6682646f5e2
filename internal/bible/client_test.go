package bible

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/John%201", r.URL.EscapedPath())
		require.Equal(t, "web", r.URL.Query().Get("translation"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"reference": "John 1",
			"translation_id": "web",
			"verses": [
				{"book_id": "JHN", "book_name": "John", "chapter": 1, "verse": 1, "text": "In the beginning was the Word.\n"},
				{"book_id": "JHN", "book_name": "John", "chapter": 1, "verse": 2, "text": "The same was in the beginning with God.\n"}
			]
		}`))
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	chapter, err := cli.Chapter(context.Background(), "John", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "John 1", chapter.Reference)
	assert.Equal(t, "web", chapter.Translation)
	require.Len(t, chapter.Verses, 2)
	assert.Equal(t, 1, chapter.Verses[0].Verse)
	assert.Equal(t, "In the beginning was the Word.", chapter.Verses[0].Text)
}

func TestChapterUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cli := NewClient(srv.URL)
	_, err := cli.Chapter(context.Background(), "Nope", 1, "web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
