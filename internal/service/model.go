package service

import "github.com/pechorka/bible-companion/internal/storage"

// Stats are the four scalar counters the achievement evaluator compares
// against thresholds.
type Stats struct {
	ReadChapters   int
	BooksStarted   int
	BooksCompleted int
	FavoriteVerses int
}

// TimeStats are descriptive statistics over the whole session log.
type TimeStats struct {
	NightSessions        int // started at 22:00-01:59
	EarlyMorningSessions int // started at 05:00-06:59
	WeekendSessions      int // started on Saturday or Sunday
	MidnightSessions     int // started at 00:00-00:59
	TotalReadingMinutes  int
	DailyChapterCounts   []int // sessions per local calendar date, unordered
}

// VerseInput describes a single verse to favorite. Mood, when set, scopes
// the favorite to a mood category so it gets its own id namespace.
type VerseInput struct {
	Book        string
	Chapter     int
	Verse       int
	Text        string
	DisplayName string
	Mood        string
}

type RangeVerse = storage.RangeVerse
