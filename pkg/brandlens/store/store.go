package store

import (
	"context"

	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

// Store owns the mention records for one analysis run. Mentions are added
// during ingestion, then the store is sealed and becomes read-only for the
// rest of the run; all downstream statistics are re-derived from it so
// clusters never copy mention data.
type Store interface {
	Close() error

	// Add appends a mention. It fails once the store is sealed, and fails
	// with ErrInvalidInput when the embedding dimension disagrees with
	// earlier mentions in the same run.
	Add(ctx context.Context, m mention.Mention) error

	// Seal marks the store read-only. Idempotent.
	Seal(ctx context.Context) error
	Sealed() bool

	// Get returns a mention by id.
	Get(ctx context.Context, id string) (mention.Mention, bool, error)

	// All returns every mention in insertion order.
	All(ctx context.Context) ([]mention.Mention, error)

	// Len reports the number of stored mentions.
	Len() int

	// Dimension reports the embedding dimension D for this run, or 0 when
	// the store is empty.
	Dimension() int
}

// ThemeRecord is the persisted shape of one report row, used by stores
// that keep finished reports for downstream analysis.
type ThemeRecord struct {
	RunID         string
	Brand         string
	Bucket        string
	Label         string
	Score         float64
	Volume        int
	AvgEngagement float64
	AvgIntensity  float64
	ClusterID     int
}
