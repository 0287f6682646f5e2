package verseid

import (
	"fmt"
	"strings"
	"unicode"
)

// Verse builds a stable id for a single verse from the canonical book key.
// The book key is lower-cased and stripped of whitespace and digits, so the
// same (book, chapter, verse) always maps to the same id. No validation is
// done: callers are expected to pass verses that actually exist.
func Verse(book string, chapter, verse int) string {
	return fmt.Sprintf("%s-%d-%d", normalizeBook(book), chapter, verse)
}

// MoodVerse is like Verse but scoped to a mood category, so the same
// scripture reference can be favorited independently per mood.
func MoodVerse(book string, chapter, verse int, mood string) string {
	return fmt.Sprintf("%s-%s", Verse(book, chapter, verse), mood)
}

// Range builds the id for a contiguous verse range. Start and end are
// computed as min/max over the verse numbers actually passed, never trusted
// from the caller's ordering.
func Range(book string, chapter int, verses []int) string {
	start, end := minMax(verses)
	return fmt.Sprintf("%s-%d-%d-%d-range", normalizeBook(book), chapter, start, end)
}

func normalizeBook(book string) string {
	var b strings.Builder
	b.Grow(len(book))
	for _, r := range book {
		if unicode.IsSpace(r) || unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func minMax(nums []int) (min, max int) {
	for i, n := range nums {
		if i == 0 || n < min {
			min = n
		}
		if i == 0 || n > max {
			max = n
		}
	}
	return min, max
}
