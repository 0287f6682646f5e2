package service

type AchievementType string

const (
	TypeChapters       AchievementType = "chapters"
	TypeBooksStarted   AchievementType = "books_started"
	TypeBooksCompleted AchievementType = "books_completed"
	TypeFavorites      AchievementType = "favorites"
)

// Achievement is a static milestone definition. The table is baked into the
// app and never changes at runtime.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Color       string
	Requirement int
	Type        AchievementType
}

// achievements is evaluated in declaration order: when several unlock from
// one check, notifications are enqueued in this order.
var achievements = []Achievement{
	{ID: "first_chapter", Title: "First Steps", Description: "Read your first chapter", Icon: "book-open", Color: "#4CAF50", Requirement: 1, Type: TypeChapters},
	{ID: "chapter_explorer", Title: "Chapter Explorer", Description: "Read 10 chapters", Icon: "compass", Color: "#2196F3", Requirement: 10, Type: TypeChapters},
	{ID: "devoted_reader", Title: "Devoted Reader", Description: "Read 50 chapters", Icon: "bookmark", Color: "#9C27B0", Requirement: 50, Type: TypeChapters},
	{ID: "scripture_scholar", Title: "Scripture Scholar", Description: "Read 100 chapters", Icon: "school", Color: "#FF9800", Requirement: 100, Type: TypeChapters},
	{ID: "bible_master", Title: "Bible Master", Description: "Read 200 chapters", Icon: "trophy", Color: "#F44336", Requirement: 200, Type: TypeChapters},
	{ID: "first_book", Title: "First Book", Description: "Complete your first book", Icon: "book", Color: "#4CAF50", Requirement: 1, Type: TypeBooksCompleted},
	{ID: "book_collector", Title: "Book Collector", Description: "Complete 5 books", Icon: "library", Color: "#2196F3", Requirement: 5, Type: TypeBooksCompleted},
	{ID: "testament_reader", Title: "Testament Reader", Description: "Complete 10 books", Icon: "scroll", Color: "#9C27B0", Requirement: 10, Type: TypeBooksCompleted},
	{ID: "bible_completionist", Title: "Bible Completionist", Description: "Complete all 66 books", Icon: "crown", Color: "#FFD700", Requirement: 66, Type: TypeBooksCompleted},
	{ID: "curious_explorer", Title: "Curious Explorer", Description: "Start reading 5 books", Icon: "map", Color: "#00BCD4", Requirement: 5, Type: TypeBooksStarted},
	{ID: "wide_reader", Title: "Wide Reader", Description: "Start reading 15 books", Icon: "globe", Color: "#3F51B5", Requirement: 15, Type: TypeBooksStarted},
	{ID: "verse_lover", Title: "Verse Lover", Description: "Save 5 favorite verses", Icon: "heart", Color: "#E91E63", Requirement: 5, Type: TypeFavorites},
	{ID: "scripture_collector", Title: "Scripture Collector", Description: "Save 20 favorite verses", Icon: "star", Color: "#FF9800", Requirement: 20, Type: TypeFavorites},
	{ID: "wisdom_keeper", Title: "Wisdom Keeper", Description: "Save 50 favorite verses", Icon: "gem", Color: "#673AB7", Requirement: 50, Type: TypeFavorites},
}

// Achievements returns the full definition table in evaluation order.
func Achievements() []Achievement {
	result := make([]Achievement, len(achievements))
	copy(result, achievements)
	return result
}

func statFor(stats Stats, typ AchievementType) int {
	switch typ {
	case TypeChapters:
		return stats.ReadChapters
	case TypeBooksStarted:
		return stats.BooksStarted
	case TypeBooksCompleted:
		return stats.BooksCompleted
	case TypeFavorites:
		return stats.FavoriteVerses
	}
	return 0
}
