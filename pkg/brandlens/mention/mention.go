package mention

import (
	"fmt"
	"strings"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

// Polarity classifies the emotional direction of a mention.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	Neutral  Polarity = "neutral"
)

// Engagement holds the raw interaction counters for one mention.
type Engagement struct {
	Likes   int `json:"likes"`
	Replies int `json:"replies"`
	Shares  int `json:"shares"`
}

// Total returns the combined interaction count.
func (e Engagement) Total() int {
	return e.Likes + e.Replies + e.Shares
}

// Mention is one unit of social text after cleaning, sentiment scoring,
// and embedding. It is immutable once it enters a store.
type Mention struct {
	ID         string     `json:"id"`
	Brand      string     `json:"brand"`
	Platform   string     `json:"platform"`
	Text       string     `json:"text"`
	Polarity   Polarity   `json:"polarity"`
	Intensity  float64    `json:"intensity"`
	Embedding  []float64  `json:"embedding"`
	Engagement Engagement `json:"engagement"`
}

// Validate checks the invariants a mention must satisfy before entering a
// store. Text cleaning happens upstream; this is a defensive check only.
func (m Mention) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: mention has empty id", internalerr.ErrInvalidInput)
	}
	if strings.TrimSpace(m.Brand) == "" {
		return fmt.Errorf("%w: mention %s has empty brand", internalerr.ErrInvalidInput, m.ID)
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: mention %s has empty text", internalerr.ErrInvalidInput, m.ID)
	}
	if len(m.Embedding) == 0 {
		return fmt.Errorf("%w: mention %s has no embedding", internalerr.ErrInvalidInput, m.ID)
	}
	if m.Intensity < 0 {
		return fmt.Errorf("%w: mention %s has negative intensity %f", internalerr.ErrInvalidInput, m.ID, m.Intensity)
	}
	if m.Engagement.Likes < 0 || m.Engagement.Replies < 0 || m.Engagement.Shares < 0 {
		return fmt.Errorf("%w: mention %s has negative engagement", internalerr.ErrInvalidInput, m.ID)
	}
	switch m.Polarity {
	case Positive, Negative, Neutral:
	default:
		return fmt.Errorf("%w: mention %s has unknown polarity %q", internalerr.ErrInvalidInput, m.ID, m.Polarity)
	}
	return nil
}

// Clone returns a deep copy so stored records cannot be mutated through
// shared slices.
func (m Mention) Clone() Mention {
	out := m
	out.Embedding = make([]float64, len(m.Embedding))
	copy(out.Embedding, m.Embedding)
	return out
}
