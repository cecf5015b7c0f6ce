// Package label derives a short descriptive label for each cluster via
// distinctive-term extraction: TF-IDF over per-cluster documents against the
// run's corpus snapshot.
package label

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

// Config controls label generation.
type Config struct {
	// MaxTerms is the number of terms in a label. Clusters with fewer
	// distinct terms get a shorter label, never padding.
	MaxTerms int

	// MinTermLength drops terms shorter than this many bytes.
	MinTermLength int

	// StopTerms are excluded from labels. Nil falls back to
	// DefaultStopTerms.
	StopTerms []string
}

// DefaultConfig returns the labeling defaults.
func DefaultConfig() Config {
	return Config{
		MaxTerms:      3,
		MinTermLength: 3,
	}
}

// Validate checks the configuration before any labeling work begins.
func (c Config) Validate() error {
	if c.MaxTerms < 1 {
		return fmt.Errorf("%w: label max terms %d below 1", internalerr.ErrInvalidConfig, c.MaxTerms)
	}
	if c.MinTermLength < 1 {
		return fmt.Errorf("%w: min term length %d below 1", internalerr.ErrInvalidConfig, c.MinTermLength)
	}
	return nil
}

// Generator produces cluster labels. It is a pure function of (cluster
// tokens, corpus snapshot) and safe to call repeatedly.
type Generator struct {
	tok      *Tokenizer
	maxTerms int
}

// NewGenerator creates a generator, failing fast on invalid configuration.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stops := cfg.StopTerms
	if stops == nil {
		stops = DefaultStopTerms()
	}
	return &Generator{
		tok:      NewTokenizer(stops, cfg.MinTermLength),
		maxTerms: cfg.MaxTerms,
	}, nil
}

// Tokenize exposes the generator's tokenizer so callers can build the
// per-cluster documents that feed BuildCorpusStats.
func (g *Generator) Tokenize(text string) []string {
	return g.tok.Tokenize(text)
}

// Label scores every term in the cluster document by TF-IDF against the
// corpus snapshot and joins the top terms, title-cased, in descending score
// order. Ties break alphabetically.
func (g *Generator) Label(docTokens []string, corpus *CorpusStats) string {
	tf := make(map[string]int, len(docTokens))
	for _, term := range docTokens {
		if term == "" {
			continue
		}
		tf[term]++
	}
	if len(tf) == 0 {
		return ""
	}

	type scored struct {
		term  string
		score float64
	}
	terms := make([]scored, 0, len(tf))
	n := float64(corpus.TotalDocs())
	for term, count := range tf {
		// Smoothed IDF, matching the convention of the upstream
		// vectorizer this replaces: log((1+n)/(1+df)) + 1.
		idf := math.Log((1+n)/(1+float64(corpus.DocFreq(term)))) + 1
		terms = append(terms, scored{term: term, score: float64(count) * idf})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].term < terms[j].term
	})

	if len(terms) > g.maxTerms {
		terms = terms[:g.maxTerms]
	}

	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = titleTerm(t.term)
	}
	return strings.Join(parts, " ")
}

func titleTerm(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
