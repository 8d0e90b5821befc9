package mapreduce

import (
	"strings"
	"unicode"

	"github.com/dtnitsch/nbextract/pkg/analytics"
)

// Map counts the words of one article's normalized text. Tokens that are
// only numbers or look like code fragments are dropped: notebook posts are
// full of printed arrays and cell source that would otherwise dominate the
// counts.
func Map(articleText string, a *analytics.Analytics) map[string]int {
	counts := a.WordFrequency(articleText)
	for word := range counts {
		if isNumeric(word) || !isValidKeyword(word) {
			delete(counts, word)
		}
	}
	return counts
}

// Reduce sums the per-article counts of a run.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// isNumeric reports whether word holds only digits and number punctuation,
// e.g. "2020", "3.14" or "1,000".
func isNumeric(word string) bool {
	return strings.IndexFunc(word, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' && r != 'e'
	}) == -1 && strings.IndexFunc(word, unicode.IsDigit) != -1
}
