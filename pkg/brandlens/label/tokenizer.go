package label

import (
	"strings"
	"unicode"
)

// Tokenizer splits cleaned mention text into candidate label terms.
type Tokenizer struct {
	stops  map[string]struct{}
	minLen int
}

// NewTokenizer creates a tokenizer with the given stop-term list and
// minimum term length.
func NewTokenizer(stopTerms []string, minLen int) *Tokenizer {
	stops := make(map[string]struct{}, len(stopTerms))
	for _, w := range stopTerms {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stops: stops, minLen: minLen}
}

// Tokenize splits text into normalized terms, dropping stop terms, short
// terms, and purely numeric tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func (t *Tokenizer) processToken(token string) string {
	word := strings.Trim(token, "-")
	for strings.Contains(word, "--") {
		word = strings.ReplaceAll(word, "--", "-")
	}

	if len(word) < t.minLen {
		return ""
	}
	// Mixed tokens like "gpt-4" are kept; pure numbers carry no theme.
	if isNumericOnly(word) {
		return ""
	}
	if _, ok := t.stops[word]; ok {
		return ""
	}
	return word
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// DefaultStopTerms is the built-in English stop-term list. Callers with a
// curated list load it from configuration instead.
func DefaultStopTerms() []string {
	return []string{
		"the", "and", "for", "was", "were", "with", "that", "this", "they",
		"them", "their", "have", "has", "had", "but", "not", "you", "your",
		"all", "are", "its", "it's", "than", "then", "too", "very", "just",
		"even", "still", "got", "get", "out", "our", "from", "when", "what",
		"which", "who", "how", "why", "there", "here", "been", "being",
		"would", "could", "should", "did", "does", "doing", "because",
		"about", "after", "before", "during", "again", "more", "most",
		"some", "such", "only", "own", "same", "into", "over", "under",
	}
}
