package moods

// Ref points at one verse of the local mood corpus.
type Ref struct {
	Book    string
	Chapter int
	Verse   int
}

// Mood is one emotional-state category with its locally curated verse list.
type Mood struct {
	ID     string
	Verses []Ref
}

var all = []Mood{
	{
		ID: "anxious",
		Verses: []Ref{
			{"philippians", 4, 6},
			{"1peter", 5, 7},
			{"matthew", 6, 34},
			{"psalms", 94, 19},
			{"isaiah", 41, 10},
		},
	},
	{
		ID: "grateful",
		Verses: []Ref{
			{"psalms", 107, 1},
			{"1thessalonians", 5, 18},
			{"colossians", 3, 17},
			{"james", 1, 17},
		},
	},
	{
		ID: "sad",
		Verses: []Ref{
			{"psalms", 34, 18},
			{"matthew", 5, 4},
			{"revelation", 21, 4},
			{"psalms", 147, 3},
			{"john", 16, 22},
		},
	},
	{
		ID: "hopeful",
		Verses: []Ref{
			{"jeremiah", 29, 11},
			{"romans", 15, 13},
			{"hebrews", 11, 1},
			{"lamentations", 3, 24},
		},
	},
	{
		ID: "angry",
		Verses: []Ref{
			{"ephesians", 4, 26},
			{"james", 1, 19},
			{"proverbs", 15, 1},
			{"psalms", 37, 8},
		},
	},
	{
		ID: "fearful",
		Verses: []Ref{
			{"joshua", 1, 9},
			{"psalms", 23, 4},
			{"2timothy", 1, 7},
			{"isaiah", 43, 1},
		},
	},
	{
		ID: "lonely",
		Verses: []Ref{
			{"deuteronomy", 31, 6},
			{"psalms", 25, 16},
			{"matthew", 28, 20},
			{"psalms", 68, 6},
		},
	},
	{
		ID: "joyful",
		Verses: []Ref{
			{"psalms", 118, 24},
			{"philippians", 4, 4},
			{"nehemiah", 8, 10},
			{"john", 15, 11},
		},
	},
	{
		ID: "tired",
		Verses: []Ref{
			{"matthew", 11, 28},
			{"isaiah", 40, 31},
			{"psalms", 4, 8},
			{"galatians", 6, 9},
		},
	},
	{
		ID: "doubtful",
		Verses: []Ref{
			{"mark", 9, 24},
			{"james", 1, 6},
			{"proverbs", 3, 5},
			{"matthew", 14, 31},
		},
	},
}

var byID = func() map[string]Mood {
	m := make(map[string]Mood, len(all))
	for _, mood := range all {
		m[mood.ID] = mood
	}
	return m
}()

// All returns every mood category in display order.
func All() []Mood {
	result := make([]Mood, len(all))
	copy(result, all)
	return result
}

// ByID looks up a mood category.
func ByID(id string) (Mood, bool) {
	m, ok := byID[id]
	return m, ok
}

// IsValid reports whether the mood slug is a known category.
func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}
