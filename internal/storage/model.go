package storage

import "time"

type FavoriteKind string

const (
	KindVerse      FavoriteKind = "verse"
	KindMoodVerse  FavoriteKind = "mood_verse"
	KindVerseRange FavoriteKind = "verse_range"
)

// Favorite is one saved entry. Kind tells which of the three shapes it is:
// a plain Bible verse, a mood-scoped verse (Mood set) or a contiguous verse
// range (StartVerse/EndVerse/Verses set).
type Favorite struct {
	ID         string
	Kind       FavoriteKind
	Text       string
	Reference  string
	Book       string
	Chapter    int
	Verse      int          `json:",omitempty"`
	Mood       string       `json:",omitempty"`
	StartVerse int          `json:",omitempty"`
	EndVerse   int          `json:",omitempty"`
	Verses     []RangeVerse `json:",omitempty"`
	AddedAt    time.Time
}

type RangeVerse struct {
	Verse int
	Text  string
}

// Progress holds the set of chapters the user has ever completed plus the
// "continue reading" pointer. ReadChapters entries are "{bookId}:{chapter}"
// keys, duplicates collapsed.
type Progress struct {
	ReadChapters []string
	LastRead     *LastRead
}

type LastRead struct {
	Book    string
	Chapter int
	ReadAt  time.Time
}

// ReadingSession is one completed chapter-reading interval.
type ReadingSession struct {
	Timestamp       time.Time
	ChapterID       string
	DurationMinutes int
	TimeOfDay       int // 0-23
	DayOfWeek       int // 0=Sunday .. 6=Saturday
}
