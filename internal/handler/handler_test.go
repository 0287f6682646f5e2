package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pechorka/bible-companion/internal/bible"
	"github.com/pechorka/bible-companion/internal/handler"
	"github.com/pechorka/bible-companion/internal/handler/mw/auth"
	"github.com/pechorka/bible-companion/internal/service"
	"github.com/pechorka/bible-companion/internal/storage"
)

type stubChapters struct{}

func (stubChapters) Chapter(ctx context.Context, bookName string, chapter int, translation string) (bible.Chapter, error) {
	return bible.Chapter{
		Reference:   "John 1",
		Translation: "web",
		Verses: []bible.Verse{
			{Book: bookName, Chapter: chapter, Verse: 1, Text: "In the beginning was the Word."},
		},
	}, nil
}

type testAPI struct {
	srv   *httptest.Server
	token string
	svc   *service.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s, err := storage.NewTempStorage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	svc := service.NewService(s, service.NewNotifications(time.Millisecond, time.Millisecond))
	h := handler.NewHandlers(svc, stubChapters{}, nil)

	mx := chi.NewRouter()
	h.RegisterPublic(mx)
	mx.Group(func(r chi.Router) {
		r.Use(auth.NewAuthMW(svc).Auth)
		h.Register(r)
	})

	srv := httptest.NewServer(mx)
	t.Cleanup(srv.Close)

	api := &testAPI{srv: srv, svc: svc}

	var reg struct {
		UserID int64  `json:"userId"`
		Token  string `json:"token"`
	}
	resp := api.do(t, http.MethodPost, "/auth/register", nil, &reg)
	require.Equal(t, http.StatusOK, resp)
	require.NotEmpty(t, reg.Token)
	api.token = reg.Token
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reqBody)
	require.NoError(t, err)
	if a.token != "" {
		req.Header.Set("Authorization", "Basic "+a.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	req, err := http.NewRequest(http.MethodGet, api.srv.URL+"/favorites", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Basic not-a-token")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestGetBooks(t *testing.T) {
	api := newTestAPI(t)

	var books []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Chapters int    `json:"chapters"`
	}
	code := api.do(t, http.MethodGet, "/books", nil, &books)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, books, 66)
	assert.Equal(t, "genesis", books[0].ID)
	assert.Equal(t, 50, books[0].Chapters)

	var booksES []struct {
		Name string `json:"name"`
	}
	code = api.do(t, http.MethodGet, "/books?lang=es", nil, &booksES)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Génesis", booksES[0].Name)
}

func TestGetChapter(t *testing.T) {
	api := newTestAPI(t)

	var chapter struct {
		Reference string `json:"reference"`
		Verses    []struct {
			Verse int    `json:"verse"`
			Text  string `json:"text"`
		} `json:"verses"`
	}
	code := api.do(t, http.MethodGet, "/books/john/chapters/1", nil, &chapter)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, chapter.Verses, 1)
	assert.Equal(t, "In the beginning was the Word.", chapter.Verses[0].Text)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/books/nope/chapters/1", nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/books/john/chapters/99", nil, nil))
}

func TestFavoritesFlow(t *testing.T) {
	api := newTestAPI(t)

	addReq := map[string]interface{}{
		"book": "john", "chapter": 3, "verse": 16,
		"text": "For God so loved the world", "displayName": "John",
	}
	var added struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		Reference string `json:"reference"`
	}
	code := api.do(t, http.MethodPost, "/favorites", addReq, &added)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "john-3-16", added.ID)
	assert.Equal(t, "verse", added.Kind)
	assert.Equal(t, "John 3:16", added.Reference)

	var favorites []struct {
		ID string `json:"id"`
	}
	code = api.do(t, http.MethodGet, "/favorites", nil, &favorites)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, favorites, 1)

	code = api.do(t, http.MethodDelete, "/favorites/"+added.ID, nil, nil)
	require.Equal(t, http.StatusOK, code)
	code = api.do(t, http.MethodGet, "/favorites", nil, &favorites)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, favorites, 0)
}

func TestAddFavoriteUnknownBook(t *testing.T) {
	api := newTestAPI(t)

	addReq := map[string]interface{}{"book": "atlantis", "chapter": 1, "verse": 1, "text": "x"}
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/favorites", addReq, nil))
}

func TestFavoriteRange(t *testing.T) {
	api := newTestAPI(t)

	rangeReq := map[string]interface{}{
		"book": "psalms", "chapter": 23, "displayName": "Psalms",
		"verses": []map[string]interface{}{
			{"verse": 2, "text": "second"},
			{"verse": 1, "text": "first"},
		},
	}
	var added struct {
		ID         string `json:"id"`
		Kind       string `json:"kind"`
		Reference  string `json:"reference"`
		StartVerse int    `json:"startVerse"`
		EndVerse   int    `json:"endVerse"`
		Text       string `json:"text"`
	}
	code := api.do(t, http.MethodPost, "/favorites/range", rangeReq, &added)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "psalms-23-1-2-range", added.ID)
	assert.Equal(t, "verse_range", added.Kind)
	assert.Equal(t, "Psalms 23:1-2", added.Reference)
	assert.Equal(t, 1, added.StartVerse)
	assert.Equal(t, 2, added.EndVerse)
	assert.Equal(t, "first second", added.Text)

	empty := map[string]interface{}{"book": "psalms", "chapter": 23, "verses": []interface{}{}}
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/favorites/range", empty, nil))
}

func TestRemoveSelection(t *testing.T) {
	api := newTestAPI(t)

	for _, verse := range []int{1, 2, 5} {
		addReq := map[string]interface{}{"book": "john", "chapter": 1, "verse": verse, "text": "t"}
		require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/favorites", addReq, nil))
	}

	selReq := map[string]interface{}{"book": "john", "chapter": 1, "verses": []int{1, 2}}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/favorites/selection/delete", selReq, nil))

	var favorites []struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/favorites", nil, &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, "john-1-5", favorites[0].ID)
}

func TestProgressFlow(t *testing.T) {
	api := newTestAPI(t)

	readReq := map[string]interface{}{"book": "philemon", "chapter": 1}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/progress/read", readReq, nil))

	var progress struct {
		ReadChapters []string `json:"readChapters"`
		LastRead     *struct {
			Book    string `json:"book"`
			Chapter int    `json:"chapter"`
		} `json:"lastRead"`
		TotalPercent int `json:"totalPercent"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/progress", nil, &progress))
	assert.Equal(t, []string{"philemon:1"}, progress.ReadChapters)
	require.NotNil(t, progress.LastRead)
	assert.Equal(t, "philemon", progress.LastRead.Book)

	var bookProgress struct {
		Percent int `json:"percent"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/progress/book/philemon", nil, &bookProgress))
	assert.Equal(t, 100, bookProgress.Percent)

	badReq := map[string]interface{}{"book": "philemon", "chapter": 5}
	assert.Equal(t, http.StatusInternalServerError, api.do(t, http.MethodPost, "/progress/read", badReq, nil))
}

func TestSessionAndStats(t *testing.T) {
	api := newTestAPI(t)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/session/start", nil, nil))
	endReq := map[string]interface{}{"book": "john", "chapter": 1}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/session/end", endReq, nil))

	var stats struct {
		TotalReadingMinutes int   `json:"totalReadingMinutes"`
		DailyChapterCounts  []int `json:"dailyChapterCounts"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/stats", nil, &stats))
	assert.Equal(t, 1, stats.TotalReadingMinutes)
	assert.Equal(t, []int{1}, stats.DailyChapterCounts)
}

func TestAchievements(t *testing.T) {
	api := newTestAPI(t)

	var items []struct {
		ID       string `json:"id"`
		Unlocked bool   `json:"unlocked"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/achievements", nil, &items))
	require.Len(t, items, 14)
	assert.Equal(t, "first_chapter", items[0].ID)
	for _, item := range items {
		assert.False(t, item.Unlocked)
	}

	readReq := map[string]interface{}{"book": "philemon", "chapter": 1}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/progress/read", readReq, nil))
	// recompute directly, no scheduler is wired in tests
	userID, err := api.svc.UserIDByToken(api.token)
	require.NoError(t, err)
	require.NoError(t, api.svc.RecomputeAchievements(userID))

	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/achievements", nil, &items))
	unlocked := map[string]bool{}
	for _, item := range items {
		unlocked[item.ID] = item.Unlocked
	}
	assert.True(t, unlocked["first_chapter"])
	assert.True(t, unlocked["first_book"])
	assert.False(t, unlocked["chapter_explorer"])
}

func TestNotificationLifecycle(t *testing.T) {
	api := newTestAPI(t)

	userID, err := api.svc.UserIDByToken(api.token)
	require.NoError(t, err)

	readReq := map[string]interface{}{"book": "philemon", "chapter": 1}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/progress/read", readReq, nil))
	require.NoError(t, api.svc.RecomputeAchievements(userID))

	var current struct {
		Visible     bool `json:"visible"`
		Achievement *struct {
			ID string `json:"id"`
		} `json:"achievement"`
	}
	require.Eventually(t, func() bool {
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/notifications/current", nil, &current))
		return current.Visible
	}, time.Second, 5*time.Millisecond)
	require.NotNil(t, current.Achievement)
	assert.Equal(t, "first_chapter", current.Achievement.ID)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/notifications/hide", nil, nil))
}

func TestReset(t *testing.T) {
	api := newTestAPI(t)

	addReq := map[string]interface{}{"book": "john", "chapter": 3, "verse": 16, "text": "t"}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/favorites", addReq, nil))
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/reset", nil, nil))

	var favorites []struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/favorites", nil, &favorites))
	assert.Len(t, favorites, 0)

	// token still works after reset
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/books", nil, nil))
}

func TestGetMoods(t *testing.T) {
	api := newTestAPI(t)

	var ids []string
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/moods", nil, &ids))
	require.Len(t, ids, 10)
	assert.Contains(t, ids, "anxious")

	var verses []struct {
		Book      string `json:"book"`
		Reference string `json:"reference"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/moods/anxious/verses", nil, &verses))
	require.NotEmpty(t, verses)
	assert.NotEmpty(t, verses[0].Reference)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/moods/bored/verses", nil, nil))
}
