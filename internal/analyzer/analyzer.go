// Package analyzer turns raw document text into a stream of normalized
// index terms: it splits on non-alphanumeric boundaries, lower-cases, and
// applies Porter stemming.
package analyzer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Filter transforms a lower-cased token into its indexed form. Returning
// false drops the token. Additional stages (stop words, synonyms) plug in
// here without touching the pipeline or codec contracts.
type Filter func(token string) (string, bool)

// Analyzer applies a fixed chain of filters after tokenization.
type Analyzer struct {
	filters []Filter
}

// New returns an analyzer with the given filter chain appended after
// case folding. With no arguments it stems with the snowball English
// stemmer.
func New(filters ...Filter) *Analyzer {
	if len(filters) == 0 {
		filters = []Filter{Stem}
	}
	return &Analyzer{filters: filters}
}

// Stem reduces an inflected token to its stem.
func Stem(token string) (string, bool) {
	return english.Stem(token, true), true
}

// Terms normalizes text into index terms, preserving input order. Empty
// tokens are dropped; token positions are not retained.
func (a *Analyzer) Terms(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, word := range words {
		term := strings.ToLower(word)
		keep := true
		for _, f := range a.filters {
			term, keep = f(term)
			if !keep || term == "" {
				keep = false
				break
			}
		}
		if keep {
			terms = append(terms, term)
		}
	}
	return terms
}

// Counts normalizes text and returns per-term occurrence counts together
// with the total number of terms.
func (a *Analyzer) Counts(text string) (map[string]uint32, int) {
	terms := a.Terms(text)
	counts := make(map[string]uint32, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts, len(terms)
}
