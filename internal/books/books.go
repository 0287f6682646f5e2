package books

// Testament of a book.
type Testament string

const (
	TestamentOld Testament = "old"
	TestamentNew Testament = "new"
)

// Book is the canonical metadata for one Bible book. ID is the internal
// lowercase slug used in chapter keys and verse ids, stable across display
// languages.
type Book struct {
	ID        string
	Name      string // english display name
	NameES    string // spanish display name
	Testament Testament
	Order     int
	Chapters  int
}

var all = []Book{
	{"genesis", "Genesis", "Génesis", TestamentOld, 1, 50},
	{"exodus", "Exodus", "Éxodo", TestamentOld, 2, 40},
	{"leviticus", "Leviticus", "Levítico", TestamentOld, 3, 27},
	{"numbers", "Numbers", "Números", TestamentOld, 4, 36},
	{"deuteronomy", "Deuteronomy", "Deuteronomio", TestamentOld, 5, 34},
	{"joshua", "Joshua", "Josué", TestamentOld, 6, 24},
	{"judges", "Judges", "Jueces", TestamentOld, 7, 21},
	{"ruth", "Ruth", "Rut", TestamentOld, 8, 4},
	{"1samuel", "1 Samuel", "1 Samuel", TestamentOld, 9, 31},
	{"2samuel", "2 Samuel", "2 Samuel", TestamentOld, 10, 24},
	{"1kings", "1 Kings", "1 Reyes", TestamentOld, 11, 22},
	{"2kings", "2 Kings", "2 Reyes", TestamentOld, 12, 25},
	{"1chronicles", "1 Chronicles", "1 Crónicas", TestamentOld, 13, 29},
	{"2chronicles", "2 Chronicles", "2 Crónicas", TestamentOld, 14, 36},
	{"ezra", "Ezra", "Esdras", TestamentOld, 15, 10},
	{"nehemiah", "Nehemiah", "Nehemías", TestamentOld, 16, 13},
	{"esther", "Esther", "Ester", TestamentOld, 17, 10},
	{"job", "Job", "Job", TestamentOld, 18, 42},
	{"psalms", "Psalms", "Salmos", TestamentOld, 19, 150},
	{"proverbs", "Proverbs", "Proverbios", TestamentOld, 20, 31},
	{"ecclesiastes", "Ecclesiastes", "Eclesiastés", TestamentOld, 21, 12},
	{"songofsolomon", "Song of Solomon", "Cantares", TestamentOld, 22, 8},
	{"isaiah", "Isaiah", "Isaías", TestamentOld, 23, 66},
	{"jeremiah", "Jeremiah", "Jeremías", TestamentOld, 24, 52},
	{"lamentations", "Lamentations", "Lamentaciones", TestamentOld, 25, 5},
	{"ezekiel", "Ezekiel", "Ezequiel", TestamentOld, 26, 48},
	{"daniel", "Daniel", "Daniel", TestamentOld, 27, 12},
	{"hosea", "Hosea", "Oseas", TestamentOld, 28, 14},
	{"joel", "Joel", "Joel", TestamentOld, 29, 3},
	{"amos", "Amos", "Amós", TestamentOld, 30, 9},
	{"obadiah", "Obadiah", "Abdías", TestamentOld, 31, 1},
	{"jonah", "Jonah", "Jonás", TestamentOld, 32, 4},
	{"micah", "Micah", "Miqueas", TestamentOld, 33, 7},
	{"nahum", "Nahum", "Nahúm", TestamentOld, 34, 3},
	{"habakkuk", "Habakkuk", "Habacuc", TestamentOld, 35, 3},
	{"zephaniah", "Zephaniah", "Sofonías", TestamentOld, 36, 3},
	{"haggai", "Haggai", "Hageo", TestamentOld, 37, 2},
	{"zechariah", "Zechariah", "Zacarías", TestamentOld, 38, 14},
	{"malachi", "Malachi", "Malaquías", TestamentOld, 39, 4},
	{"matthew", "Matthew", "Mateo", TestamentNew, 40, 28},
	{"mark", "Mark", "Marcos", TestamentNew, 41, 16},
	{"luke", "Luke", "Lucas", TestamentNew, 42, 24},
	{"john", "John", "Juan", TestamentNew, 43, 21},
	{"acts", "Acts", "Hechos", TestamentNew, 44, 28},
	{"romans", "Romans", "Romanos", TestamentNew, 45, 16},
	{"1corinthians", "1 Corinthians", "1 Corintios", TestamentNew, 46, 16},
	{"2corinthians", "2 Corinthians", "2 Corintios", TestamentNew, 47, 13},
	{"galatians", "Galatians", "Gálatas", TestamentNew, 48, 6},
	{"ephesians", "Ephesians", "Efesios", TestamentNew, 49, 6},
	{"philippians", "Philippians", "Filipenses", TestamentNew, 50, 4},
	{"colossians", "Colossians", "Colosenses", TestamentNew, 51, 4},
	{"1thessalonians", "1 Thessalonians", "1 Tesalonicenses", TestamentNew, 52, 5},
	{"2thessalonians", "2 Thessalonians", "2 Tesalonicenses", TestamentNew, 53, 3},
	{"1timothy", "1 Timothy", "1 Timoteo", TestamentNew, 54, 6},
	{"2timothy", "2 Timothy", "2 Timoteo", TestamentNew, 55, 4},
	{"titus", "Titus", "Tito", TestamentNew, 56, 3},
	{"philemon", "Philemon", "Filemón", TestamentNew, 57, 1},
	{"hebrews", "Hebrews", "Hebreos", TestamentNew, 58, 13},
	{"james", "James", "Santiago", TestamentNew, 59, 5},
	{"1peter", "1 Peter", "1 Pedro", TestamentNew, 60, 5},
	{"2peter", "2 Peter", "2 Pedro", TestamentNew, 61, 3},
	{"1john", "1 John", "1 Juan", TestamentNew, 62, 5},
	{"2john", "2 John", "2 Juan", TestamentNew, 63, 1},
	{"3john", "3 John", "3 Juan", TestamentNew, 64, 1},
	{"jude", "Jude", "Judas", TestamentNew, 65, 1},
	{"revelation", "Revelation", "Apocalipsis", TestamentNew, 66, 22},
}

var byID = func() map[string]Book {
	m := make(map[string]Book, len(all))
	for _, b := range all {
		m[b.ID] = b
	}
	return m
}()

var totalChapters = func() int {
	var total int
	for _, b := range all {
		total += b.Chapters
	}
	return total
}()

// All returns every book in canonical order.
func All() []Book {
	result := make([]Book, len(all))
	copy(result, all)
	return result
}

// ByID looks up a book by its canonical slug.
func ByID(id string) (Book, bool) {
	b, ok := byID[id]
	return b, ok
}

// Count is the number of books in the canon.
func Count() int {
	return len(all)
}

// TotalChapters is the chapter count across the whole Bible.
func TotalChapters() int {
	return totalChapters
}

// DisplayName returns the book name for the given language code,
// defaulting to english.
func (b Book) DisplayName(lang string) string {
	if lang == "es" {
		return b.NameES
	}
	return b.Name
}
