package service

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/pechorka/bible-companion/internal/books"
	"github.com/pechorka/bible-companion/internal/moods"
	"github.com/pechorka/bible-companion/internal/storage"
	"github.com/pechorka/bible-companion/pkg/verseid"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrUnknownBook = errors.New("unknown book")
var ErrUnknownMood = errors.New("unknown mood")
var ErrEmptyRange = errors.New("empty verse range")

// Scheduler triggers a debounced achievement recomputation for a user.
type Scheduler interface {
	Add(userID int64)
}

type SchedulerFunc func(userID int64)

func (f SchedulerFunc) Add(userID int64) { f(userID) }

type Service struct {
	s         *storage.Storage
	notifier  *Notifications
	scheduler Scheduler
	now       func() time.Time

	mu           sync.Mutex
	sessionStart map[int64]time.Time
}

func NewService(s *storage.Storage, notifier *Notifications) *Service {
	return &Service{
		s:            s,
		notifier:     notifier,
		now:          time.Now,
		sessionStart: make(map[int64]time.Time),
	}
}

// SetScheduler wires the settle-then-recompute trigger. Without one,
// mutations do not schedule recomputation and callers must invoke
// RecomputeAchievements themselves.
func (s *Service) SetScheduler(scheduler Scheduler) {
	s.scheduler = scheduler
}

func (s *Service) schedule(userID int64) {
	if s.scheduler != nil {
		s.scheduler.Add(userID)
	}
}

// favorites

// AddVerseToFavorites saves a single verse, mood-scoped when in.Mood is
// set. Re-adding an already saved id is a no-op.
func (s *Service) AddVerseToFavorites(userID int64, in VerseInput) (storage.Favorite, error) {
	book, ok := books.ByID(in.Book)
	if !ok {
		return storage.Favorite{}, ErrUnknownBook
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = book.Name
	}

	id := verseid.Verse(in.Book, in.Chapter, in.Verse)
	kind := storage.KindVerse
	if in.Mood != "" {
		if !moods.IsValid(in.Mood) {
			return storage.Favorite{}, ErrUnknownMood
		}
		id = verseid.MoodVerse(in.Book, in.Chapter, in.Verse, in.Mood)
		kind = storage.KindMoodVerse
	}

	fav := storage.Favorite{
		ID:        id,
		Kind:      kind,
		Text:      in.Text,
		Reference: fmt.Sprintf("%s %d:%d", displayName, in.Chapter, in.Verse),
		Book:      in.Book,
		Chapter:   in.Chapter,
		Verse:     in.Verse,
		Mood:      in.Mood,
		AddedAt:   s.now(),
	}
	added, err := s.insertFavorite(userID, fav)
	if err != nil {
		return storage.Favorite{}, err
	}
	if added {
		s.schedule(userID)
	}
	return fav, nil
}

// AddVerseRangeToFavorites saves a contiguous span of verses as one entry.
// Start/end are the min/max of the verse numbers actually passed and the
// combined text follows verse-number order, not input order.
func (s *Service) AddVerseRangeToFavorites(userID int64, bookID string, chapter int, displayName string, verses []RangeVerse) (storage.Favorite, error) {
	if len(verses) == 0 {
		return storage.Favorite{}, ErrEmptyRange
	}
	book, ok := books.ByID(bookID)
	if !ok {
		return storage.Favorite{}, ErrUnknownBook
	}
	if displayName == "" {
		displayName = book.Name
	}

	sorted := make([]RangeVerse, len(verses))
	copy(sorted, verses)
	slices.SortFunc(sorted, func(a, b RangeVerse) bool {
		return a.Verse < b.Verse
	})

	nums := make([]int, 0, len(sorted))
	texts := make([]string, 0, len(sorted))
	for _, v := range sorted {
		nums = append(nums, v.Verse)
		texts = append(texts, v.Text)
	}
	start, end := sorted[0].Verse, sorted[len(sorted)-1].Verse

	reference := fmt.Sprintf("%s %d:%d", displayName, chapter, start)
	if end != start {
		reference = fmt.Sprintf("%s %d:%d-%d", displayName, chapter, start, end)
	}

	fav := storage.Favorite{
		ID:         verseid.Range(bookID, chapter, nums),
		Kind:       storage.KindVerseRange,
		Text:       strings.Join(texts, " "),
		Reference:  reference,
		Book:       bookID,
		Chapter:    chapter,
		StartVerse: start,
		EndVerse:   end,
		Verses:     sorted,
		AddedAt:    s.now(),
	}
	added, err := s.insertFavorite(userID, fav)
	if err != nil {
		return storage.Favorite{}, err
	}
	if added {
		s.schedule(userID)
	}
	return fav, nil
}

func (s *Service) insertFavorite(userID int64, fav storage.Favorite) (added bool, err error) {
	err = s.s.UpdateFavorites(userID, func(favorites *[]storage.Favorite) error {
		for _, existing := range *favorites {
			if existing.ID == fav.ID {
				return nil
			}
		}
		*favorites = append(*favorites, fav)
		added = true
		return nil
	})
	return added, err
}

// RemoveFavorite drops the entry with the given id. Absent ids are not an
// error.
func (s *Service) RemoveFavorite(userID int64, id string) error {
	return s.s.UpdateFavorites(userID, func(favorites *[]storage.Favorite) error {
		kept := (*favorites)[:0]
		for _, fav := range *favorites {
			if fav.ID != id {
				kept = append(kept, fav)
			}
		}
		*favorites = kept
		return nil
	})
}

// RemoveSelectedVerses drops individually favorited verses matching the
// selection plus any favorited range whose span covers the whole selection
// (ranges are removed in whole, never trimmed).
func (s *Service) RemoveSelectedVerses(userID int64, bookID string, chapter int, selected []int) error {
	if len(selected) == 0 {
		return nil
	}
	selSet := make(map[int]bool, len(selected))
	minSel, maxSel := selected[0], selected[0]
	for _, v := range selected {
		selSet[v] = true
		if v < minSel {
			minSel = v
		}
		if v > maxSel {
			maxSel = v
		}
	}
	return s.s.UpdateFavorites(userID, func(favorites *[]storage.Favorite) error {
		kept := (*favorites)[:0]
		for _, fav := range *favorites {
			remove := false
			if fav.Book == bookID && fav.Chapter == chapter {
				switch fav.Kind {
				case storage.KindVerse:
					remove = selSet[fav.Verse]
				case storage.KindVerseRange:
					remove = fav.StartVerse <= minSel && fav.EndVerse >= maxSel
				}
			}
			if !remove {
				kept = append(kept, fav)
			}
		}
		*favorites = kept
		return nil
	})
}

func (s *Service) IsFavorite(userID int64, id string) (bool, error) {
	favorites, err := s.s.GetFavorites(userID)
	if err != nil {
		return false, err
	}
	for _, fav := range favorites {
		if fav.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) ListFavorites(userID int64) ([]storage.Favorite, error) {
	return s.s.GetFavorites(userID)
}

// reading progress

func chapterKey(bookID string, chapter int) string {
	return fmt.Sprintf("%s:%d", bookID, chapter)
}

// MarkChapterRead records a completed chapter. Marking the same chapter
// again only refreshes the last-read pointer.
func (s *Service) MarkChapterRead(userID int64, bookID string, chapter int) error {
	book, ok := books.ByID(bookID)
	if !ok {
		return ErrUnknownBook
	}
	if chapter < 1 || chapter > book.Chapters {
		return errors.Errorf("book %s has %d chapters, got %d", bookID, book.Chapters, chapter)
	}
	key := chapterKey(bookID, chapter)
	err := s.s.UpdateProgress(userID, func(p *storage.Progress) error {
		if !slices.Contains(p.ReadChapters, key) {
			p.ReadChapters = append(p.ReadChapters, key)
		}
		p.LastRead = &storage.LastRead{
			Book:    bookID,
			Chapter: chapter,
			ReadAt:  s.now(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.schedule(userID)
	return nil
}

func (s *Service) GetProgress(userID int64) (storage.Progress, error) {
	return s.s.GetProgress(userID)
}

// BookProgress returns how much of one book has been read, in percent.
func (s *Service) BookProgress(userID int64, bookID string) (int, error) {
	book, ok := books.ByID(bookID)
	if !ok {
		return 0, ErrUnknownBook
	}
	progress, err := s.s.GetProgress(userID)
	if err != nil {
		return 0, err
	}
	prefix := bookID + ":"
	var readCount int
	for _, key := range progress.ReadChapters {
		if strings.HasPrefix(key, prefix) {
			readCount++
		}
	}
	return progressPercent(readCount, book.Chapters), nil
}

// TotalProgress returns how much of the whole Bible has been read, in
// percent.
func (s *Service) TotalProgress(userID int64) (int, error) {
	progress, err := s.s.GetProgress(userID)
	if err != nil {
		return 0, err
	}
	return progressPercent(len(progress.ReadChapters), books.TotalChapters()), nil
}

func progressPercent(readCount, totalChapters int) int {
	if totalChapters <= 0 {
		return 0
	}
	return int(math.Round(float64(readCount) / float64(totalChapters) * 100))
}

// reading sessions

// StartSession marks the beginning of a chapter-reading view. Starting
// again while in-session silently discards the earlier start.
func (s *Service) StartSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionStart[userID] = s.now()
}

// EndSession materializes the session started by StartSession. Without a
// prior start it is a no-op. Duration is floored at one minute.
func (s *Service) EndSession(userID int64, bookID string, chapter int) error {
	s.mu.Lock()
	start, ok := s.sessionStart[userID]
	delete(s.sessionStart, userID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	now := s.now()
	minutes := int(math.Round(now.Sub(start).Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return s.s.AddSession(userID, storage.ReadingSession{
		Timestamp:       now,
		ChapterID:       chapterKey(bookID, chapter),
		DurationMinutes: minutes,
		TimeOfDay:       now.Hour(),
		DayOfWeek:       int(now.Weekday()),
	})
}

// TimeBasedStats recomputes session statistics over the full log.
func (s *Service) TimeBasedStats(userID int64) (TimeStats, error) {
	sessions, err := s.s.GetSessions(userID)
	if err != nil {
		return TimeStats{}, err
	}
	return timeBasedStats(sessions), nil
}

func timeBasedStats(sessions []storage.ReadingSession) TimeStats {
	var stats TimeStats
	daily := make(map[string]int)
	for _, ses := range sessions {
		if ses.TimeOfDay >= 22 || ses.TimeOfDay < 2 {
			stats.NightSessions++
		}
		if ses.TimeOfDay >= 5 && ses.TimeOfDay < 7 {
			stats.EarlyMorningSessions++
		}
		if ses.DayOfWeek == 0 || ses.DayOfWeek == 6 {
			stats.WeekendSessions++
		}
		if ses.TimeOfDay == 0 {
			stats.MidnightSessions++
		}
		stats.TotalReadingMinutes += ses.DurationMinutes
		// same day iff the local calendar date matches, not a rolling 24h
		daily[ses.Timestamp.Format("2006-01-02")]++
	}
	stats.DailyChapterCounts = maps.Values(daily)
	return stats
}

// achievements

// ComputeStats derives the four counters from the stores.
func (s *Service) ComputeStats(userID int64) (Stats, error) {
	favorites, err := s.s.GetFavorites(userID)
	if err != nil {
		return Stats{}, err
	}
	progress, err := s.s.GetProgress(userID)
	if err != nil {
		return Stats{}, err
	}

	perBook := make(map[string]int)
	for _, key := range progress.ReadChapters {
		bookID, _, found := strings.Cut(key, ":")
		if !found {
			continue
		}
		perBook[bookID]++
	}
	var completed int
	for bookID, readCount := range perBook {
		if book, ok := books.ByID(bookID); ok && readCount >= book.Chapters {
			completed++
		}
	}

	return Stats{
		ReadChapters:   len(progress.ReadChapters),
		BooksStarted:   len(perBook),
		BooksCompleted: completed,
		FavoriteVerses: len(favorites),
	}, nil
}

// CheckAchievements unlocks every not-yet-unlocked achievement whose
// threshold the stats meet, in definition order, and enqueues one
// notification per new unlock. Unlocking never revokes.
func (s *Service) CheckAchievements(userID int64, stats Stats) ([]Achievement, error) {
	var newly []Achievement
	err := s.s.UpdateUnlockedAchievements(userID, func(unlocked *[]string) error {
		newly = newly[:0] // bolt may retry the closure
		have := make(map[string]bool, len(*unlocked))
		for _, id := range *unlocked {
			have[id] = true
		}
		for _, a := range achievements {
			if have[a.ID] {
				continue
			}
			if statFor(stats, a.Type) >= a.Requirement {
				*unlocked = append(*unlocked, a.ID)
				newly = append(newly, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, a := range newly {
		s.notifier.Unlock(userID, a)
	}
	return newly, nil
}

// RecomputeAchievements is the settle-then-recompute entry point the
// scheduler fires after mutations.
func (s *Service) RecomputeAchievements(userID int64) error {
	stats, err := s.ComputeStats(userID)
	if err != nil {
		return err
	}
	_, err = s.CheckAchievements(userID, stats)
	return err
}

func (s *Service) UnlockedAchievements(userID int64) ([]string, error) {
	return s.s.GetUnlockedAchievements(userID)
}

func (s *Service) Notifications() *Notifications {
	return s.notifier
}

// ResetAllData clears every namespace for the user at once.
func (s *Service) ResetAllData(userID int64) error {
	if err := s.s.ResetAll(userID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessionStart, userID)
	s.mu.Unlock()
	s.notifier.Reset(userID)
	return nil
}
