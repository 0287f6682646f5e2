package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pechorka/bible-companion/internal/bible"
	"github.com/pechorka/bible-companion/internal/books"
	"github.com/pechorka/bible-companion/internal/handler/internal/request"
	"github.com/pechorka/bible-companion/internal/handler/internal/respond"
	"github.com/pechorka/bible-companion/internal/handler/mw/auth"
	"github.com/pechorka/bible-companion/internal/moods"
	"github.com/pechorka/bible-companion/internal/service"
	"github.com/pechorka/bible-companion/internal/storage"
	"github.com/pechorka/bible-companion/pkg/i18n"
)

type Service interface {
	Register() (int64, string, error)
	AddVerseToFavorites(userID int64, in service.VerseInput) (storage.Favorite, error)
	AddVerseRangeToFavorites(userID int64, bookID string, chapter int, displayName string, verses []service.RangeVerse) (storage.Favorite, error)
	RemoveFavorite(userID int64, id string) error
	RemoveSelectedVerses(userID int64, bookID string, chapter int, selected []int) error
	ListFavorites(userID int64) ([]storage.Favorite, error)
	MarkChapterRead(userID int64, bookID string, chapter int) error
	GetProgress(userID int64) (storage.Progress, error)
	BookProgress(userID int64, bookID string) (int, error)
	TotalProgress(userID int64) (int, error)
	StartSession(userID int64)
	EndSession(userID int64, bookID string, chapter int) error
	TimeBasedStats(userID int64) (service.TimeStats, error)
	ComputeStats(userID int64) (service.Stats, error)
	UnlockedAchievements(userID int64) ([]string, error)
	Notifications() *service.Notifications
	ResetAllData(userID int64) error
}

type ChapterProvider interface {
	Chapter(ctx context.Context, bookName string, chapter int, translation string) (bible.Chapter, error)
}

type Handlers struct {
	svc      Service
	chapters ChapterProvider
	msgs     *i18n.Messages
}

func NewHandlers(svc Service, chapters ChapterProvider, msgs *i18n.Messages) *Handlers {
	return &Handlers{svc: svc, chapters: chapters, msgs: msgs}
}

// RegisterPublic adds the routes that do not require a device token.
func (h *Handlers) RegisterPublic(mx chi.Router) {
	mx.Post("/auth/register", h.RegisterDevice)
}

// Register adds the authenticated API.
func (h *Handlers) Register(mx chi.Router) {
	mx.Get("/books", h.GetBooks)
	mx.Get("/books/{bookId}/chapters/{chapter}", h.GetChapter)
	mx.Get("/moods", h.GetMoods)
	mx.Get("/moods/{mood}/verses", h.GetMoodVerses)
	mx.Get("/favorites", h.ListFavorites)
	mx.Post("/favorites", h.AddFavorite)
	mx.Post("/favorites/range", h.AddFavoriteRange)
	mx.Delete("/favorites/{id}", h.RemoveFavorite)
	mx.Post("/favorites/selection/delete", h.RemoveSelection)
	mx.Post("/progress/read", h.MarkChapterRead)
	mx.Get("/progress", h.GetProgress)
	mx.Get("/progress/book/{bookId}", h.GetBookProgress)
	mx.Post("/session/start", h.StartSession)
	mx.Post("/session/end", h.EndSession)
	mx.Get("/stats", h.GetStats)
	mx.Get("/achievements", h.GetAchievements)
	mx.Get("/notifications/current", h.GetCurrentNotification)
	mx.Post("/notifications/hide", h.HideNotification)
	mx.Post("/reset", h.ResetData)
}

type RegisterResponse struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

func (h *Handlers) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, token, err := h.svc.Register()
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, RegisterResponse{UserID: userID, Token: token})
}

type BookItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Chapters  int    `json:"chapters"`
	Testament string `json:"testament"`
	Order     int    `json:"order"`
}

func (h *Handlers) GetBooks(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	items := make([]BookItem, 0, books.Count())
	for _, b := range books.All() {
		items = append(items, BookItem{
			ID:        b.ID,
			Name:      b.DisplayName(lang),
			Chapters:  b.Chapters,
			Testament: string(b.Testament),
			Order:     b.Order,
		})
	}
	respond.JSON(w, items)
}

type ChapterResponse struct {
	Reference   string      `json:"reference"`
	Translation string      `json:"translation"`
	Verses      []VerseItem `json:"verses"`
}

type VerseItem struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

func (h *Handlers) GetChapter(w http.ResponseWriter, r *http.Request) {
	book, ok := books.ByID(chi.URLParam(r, "bookId"))
	if !ok {
		respond.ErrorWithCode(w, http.StatusNotFound, respond.CODE_UNKNOWN_BOOK)
		return
	}
	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil || chapter < 1 || chapter > book.Chapters {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_ARGUMENT)
		return
	}
	translation := r.URL.Query().Get("translation")
	fetched, err := h.chapters.Chapter(r.Context(), book.Name, chapter, translation)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusBadGateway, respond.CODE_UPSTREAM_ERROR)
		return
	}
	resp := ChapterResponse{
		Reference:   fetched.Reference,
		Translation: fetched.Translation,
		Verses:      make([]VerseItem, 0, len(fetched.Verses)),
	}
	for _, v := range fetched.Verses {
		resp.Verses = append(resp.Verses, VerseItem{Verse: v.Verse, Text: v.Text})
	}
	respond.JSON(w, resp)
}

func (h *Handlers) GetMoods(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0, len(moods.All()))
	for _, m := range moods.All() {
		ids = append(ids, m.ID)
	}
	respond.JSON(w, ids)
}

type MoodVerseItem struct {
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	Reference string `json:"reference"`
}

func (h *Handlers) GetMoodVerses(w http.ResponseWriter, r *http.Request) {
	mood, ok := moods.ByID(chi.URLParam(r, "mood"))
	if !ok {
		respond.ErrorWithCode(w, http.StatusNotFound, respond.CODE_UNKNOWN_MOOD)
		return
	}
	lang := r.URL.Query().Get("lang")
	items := make([]MoodVerseItem, 0, len(mood.Verses))
	for _, ref := range mood.Verses {
		item := MoodVerseItem{
			Book:    ref.Book,
			Chapter: ref.Chapter,
			Verse:   ref.Verse,
		}
		if b, ok := books.ByID(ref.Book); ok {
			item.Reference = b.DisplayName(lang) + " " + strconv.Itoa(ref.Chapter) + ":" + strconv.Itoa(ref.Verse)
		}
		items = append(items, item)
	}
	respond.JSON(w, items)
}

type FavoriteItem struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Text       string      `json:"text"`
	Reference  string      `json:"reference"`
	Book       string      `json:"book"`
	Chapter    int         `json:"chapter"`
	Verse      int         `json:"verse,omitempty"`
	Mood       string      `json:"mood,omitempty"`
	StartVerse int         `json:"startVerse,omitempty"`
	EndVerse   int         `json:"endVerse,omitempty"`
	Verses     []VerseItem `json:"verses,omitempty"`
	AddedAt    time.Time   `json:"addedAt"`
}

func mapFavorite(fav storage.Favorite) FavoriteItem {
	item := FavoriteItem{
		ID:         fav.ID,
		Kind:       string(fav.Kind),
		Text:       fav.Text,
		Reference:  fav.Reference,
		Book:       fav.Book,
		Chapter:    fav.Chapter,
		Verse:      fav.Verse,
		Mood:       fav.Mood,
		StartVerse: fav.StartVerse,
		EndVerse:   fav.EndVerse,
		AddedAt:    fav.AddedAt,
	}
	for _, v := range fav.Verses {
		item.Verses = append(item.Verses, VerseItem{Verse: v.Verse, Text: v.Text})
	}
	return item
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	favorites, err := h.svc.ListFavorites(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	items := make([]FavoriteItem, 0, len(favorites))
	for _, fav := range favorites {
		items = append(items, mapFavorite(fav))
	}
	respond.JSON(w, items)
}

type AddFavoriteRequest struct {
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
	DisplayName string `json:"displayName"`
	Mood        string `json:"mood,omitempty"`
}

func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	var req AddFavoriteRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_JSON)
		return
	}
	fav, err := h.svc.AddVerseToFavorites(userID, service.VerseInput{
		Book:        req.Book,
		Chapter:     req.Chapter,
		Verse:       req.Verse,
		Text:        req.Text,
		DisplayName: req.DisplayName,
		Mood:        req.Mood,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, mapFavorite(fav))
}

type AddFavoriteRangeRequest struct {
	Book        string      `json:"book"`
	Chapter     int         `json:"chapter"`
	DisplayName string      `json:"displayName"`
	Verses      []VerseItem `json:"verses"`
}

func (h *Handlers) AddFavoriteRange(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	var req AddFavoriteRangeRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_JSON)
		return
	}
	verses := make([]service.RangeVerse, 0, len(req.Verses))
	for _, v := range req.Verses {
		verses = append(verses, service.RangeVerse{Verse: v.Verse, Text: v.Text})
	}
	fav, err := h.svc.AddVerseRangeToFavorites(userID, req.Book, req.Chapter, req.DisplayName, verses)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, mapFavorite(fav))
}

func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if err := h.svc.RemoveFavorite(userID, chi.URLParam(r, "id")); err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, struct{}{})
}

type RemoveSelectionRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verses  []int  `json:"verses"`
}

func (h *Handlers) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	var req RemoveSelectionRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_JSON)
		return
	}
	if err := h.svc.RemoveSelectedVerses(userID, req.Book, req.Chapter, req.Verses); err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, struct{}{})
}

type MarkChapterReadRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

func (h *Handlers) MarkChapterRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	var req MarkChapterReadRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_JSON)
		return
	}
	if err := h.svc.MarkChapterRead(userID, req.Book, req.Chapter); err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, struct{}{})
}

type ProgressResponse struct {
	ReadChapters []string      `json:"readChapters"`
	LastRead     *LastReadItem `json:"lastRead,omitempty"`
	TotalPercent int           `json:"totalPercent"`
}

type LastReadItem struct {
	Book    string    `json:"book"`
	Chapter int       `json:"chapter"`
	ReadAt  time.Time `json:"readAt"`
}

func (h *Handlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	progress, err := h.svc.GetProgress(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	totalPercent, err := h.svc.TotalProgress(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	resp := ProgressResponse{
		ReadChapters: progress.ReadChapters,
		TotalPercent: totalPercent,
	}
	if progress.LastRead != nil {
		resp.LastRead = &LastReadItem{
			Book:    progress.LastRead.Book,
			Chapter: progress.LastRead.Chapter,
			ReadAt:  progress.LastRead.ReadAt,
		}
	}
	respond.JSON(w, resp)
}

type BookProgressResponse struct {
	Book    string `json:"book"`
	Percent int    `json:"percent"`
}

func (h *Handlers) GetBookProgress(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	bookID := chi.URLParam(r, "bookId")
	percent, err := h.svc.BookProgress(userID, bookID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond.JSON(w, BookProgressResponse{Book: bookID, Percent: percent})
}

func (h *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	h.svc.StartSession(userID)
	respond.JSON(w, struct{}{})
}

type EndSessionRequest struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

func (h *Handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	var req EndSessionRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_JSON)
		return
	}
	if err := h.svc.EndSession(userID, req.Book, req.Chapter); err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, struct{}{})
}

type StatsResponse struct {
	ReadChapters         int   `json:"readChapters"`
	BooksStarted         int   `json:"booksStarted"`
	BooksCompleted       int   `json:"booksCompleted"`
	FavoriteVerses       int   `json:"favoriteVerses"`
	NightSessions        int   `json:"nightSessions"`
	EarlyMorningSessions int   `json:"earlyMorningSessions"`
	WeekendSessions      int   `json:"weekendSessions"`
	MidnightSessions     int   `json:"midnightSessions"`
	TotalReadingMinutes  int   `json:"totalReadingMinutes"`
	DailyChapterCounts   []int `json:"dailyChapterCounts"`
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	stats, err := h.svc.ComputeStats(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	timeStats, err := h.svc.TimeBasedStats(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, StatsResponse{
		ReadChapters:         stats.ReadChapters,
		BooksStarted:         stats.BooksStarted,
		BooksCompleted:       stats.BooksCompleted,
		FavoriteVerses:       stats.FavoriteVerses,
		NightSessions:        timeStats.NightSessions,
		EarlyMorningSessions: timeStats.EarlyMorningSessions,
		WeekendSessions:      timeStats.WeekendSessions,
		MidnightSessions:     timeStats.MidnightSessions,
		TotalReadingMinutes:  timeStats.TotalReadingMinutes,
		DailyChapterCounts:   timeStats.DailyChapterCounts,
	})
}

type AchievementItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Requirement int    `json:"requirement"`
	Type        string `json:"type"`
	Unlocked    bool   `json:"unlocked"`
}

func (h *Handlers) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	lang := r.URL.Query().Get("lang")
	unlocked, err := h.svc.UnlockedAchievements(userID)
	if err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	unlockedSet := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		unlockedSet[id] = true
	}
	table := service.Achievements()
	items := make([]AchievementItem, 0, len(table))
	for _, a := range table {
		items = append(items, AchievementItem{
			ID:          a.ID,
			Title:       h.localized(lang, "achievement."+a.ID+".title", a.Title),
			Description: h.localized(lang, "achievement."+a.ID+".description", a.Description),
			Icon:        a.Icon,
			Color:       a.Color,
			Requirement: a.Requirement,
			Type:        string(a.Type),
			Unlocked:    unlockedSet[a.ID],
		})
	}
	respond.JSON(w, items)
}

type NotificationResponse struct {
	Visible     bool             `json:"visible"`
	Achievement *AchievementItem `json:"achievement,omitempty"`
	Message     string           `json:"message,omitempty"`
	Timestamp   *time.Time       `json:"timestamp,omitempty"`
}

func (h *Handlers) GetCurrentNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	lang := r.URL.Query().Get("lang")
	notification, visible := h.svc.Notifications().Current(userID)
	if !visible {
		respond.JSON(w, NotificationResponse{Visible: false})
		return
	}
	a := notification.Achievement
	item := AchievementItem{
		ID:          a.ID,
		Title:       h.localized(lang, "achievement."+a.ID+".title", a.Title),
		Description: h.localized(lang, "achievement."+a.ID+".description", a.Description),
		Icon:        a.Icon,
		Color:       a.Color,
		Requirement: a.Requirement,
		Type:        string(a.Type),
		Unlocked:    true,
	}
	resp := NotificationResponse{
		Visible:     true,
		Achievement: &item,
		Timestamp:   &notification.Timestamp,
	}
	if h.msgs != nil {
		if msg, err := h.msgs.GetWithArgs(lang, "notification.unlocked", map[string]string{"title": item.Title}); err == nil {
			resp.Message = msg
		}
	}
	respond.JSON(w, resp)
}

func (h *Handlers) HideNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	h.svc.Notifications().HideCurrent(userID)
	respond.JSON(w, struct{}{})
}

func (h *Handlers) ResetData(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if err := h.svc.ResetAllData(userID); err != nil {
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
		return
	}
	respond.JSON(w, struct{}{})
}

func (h *Handlers) localized(lang, id, fallback string) string {
	if h.msgs == nil {
		return fallback
	}
	msg, err := h.msgs.Get(lang, id)
	if err != nil {
		return fallback
	}
	return msg
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownBook):
		respond.ErrorWithCode(w, http.StatusNotFound, respond.CODE_UNKNOWN_BOOK)
	case errors.Is(err, service.ErrUnknownMood):
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_UNKNOWN_MOOD)
	case errors.Is(err, service.ErrEmptyRange):
		respond.ErrorWithCode(w, http.StatusBadRequest, respond.CODE_INVALID_ARGUMENT)
	default:
		respond.ErrorWithCode(w, http.StatusInternalServerError, respond.CODE_INTERNAL_ERROR)
	}
}
