// Package sentiment assigns a polarity and an intensity to mention text.
// Incoming data may already carry both; the lexicon scorer here backfills
// them for sources that do not.
package sentiment

import (
	"math"
	"strings"

	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

// Scorer produces a polarity and an intensity in [0,1] for a piece of
// normalized text.
type Scorer interface {
	Score(text string) (mention.Polarity, float64)
}

// polarity thresholds on the compound score. Values inside the band are
// treated as neutral.
const neutralBand = 0.05

// negators flip the valence of the following term.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "doesn't": true,
	"didn't": true, "won't": true, "can't": true, "isn't": true, "wasn't": true,
	"aren't": true, "couldn't": true, "wouldn't": true, "shouldn't": true,
}

// boosters scale the valence of the following term.
var boosters = map[string]float64{
	"very": 0.3, "really": 0.3, "extremely": 0.4, "so": 0.2, "totally": 0.3,
	"absolutely": 0.4, "incredibly": 0.4, "super": 0.3, "quite": 0.15,
	"slightly": -0.3, "somewhat": -0.2, "barely": -0.4,
}

// LexiconScorer scores text against a valence lexicon with negation and
// booster handling. The zero value is not usable; construct with
// NewLexiconScorer.
type LexiconScorer struct {
	valence map[string]float64
}

// NewLexiconScorer returns a scorer over the built-in lexicon, with extra
// entries (e.g. domain slang) layered on top.
func NewLexiconScorer(extra map[string]float64) *LexiconScorer {
	v := make(map[string]float64, len(defaultValence)+len(extra))
	for term, score := range defaultValence {
		v[term] = score
	}
	for term, score := range extra {
		v[term] = score
	}
	return &LexiconScorer{valence: v}
}

// Score computes a compound score over the text's terms and maps it to a
// polarity and an intensity. Text with no lexicon hits is neutral with
// intensity 0.
func (s *LexiconScorer) Score(text string) (mention.Polarity, float64) {
	terms := strings.Fields(strings.ToLower(text))

	var raw float64
	hits := 0
	for i, term := range terms {
		val, ok := s.valence[strings.Trim(term, ".,!?;:\"'")]
		if !ok {
			continue
		}
		hits++
		if i > 0 {
			prev := terms[i-1]
			if negators[prev] {
				val = -0.74 * val
			} else if b, ok := boosters[prev]; ok {
				val *= 1 + b
			}
		}
		raw += val
	}
	if hits == 0 {
		return mention.Neutral, 0
	}

	// Normalize into (-1,1); the constant keeps short texts from saturating.
	compound := raw / math.Sqrt(raw*raw+15)

	switch {
	case compound >= neutralBand:
		return mention.Positive, math.Abs(compound)
	case compound <= -neutralBand:
		return mention.Negative, math.Abs(compound)
	default:
		return mention.Neutral, math.Abs(compound)
	}
}
