// Package rank scores clusters for total ordering. The impact score is a
// normalized weighted sum of volume, engagement, and sentiment intensity:
// each factor is min-max rescaled to [0,1] across the current run's clusters
// before weighting, so scores are relative to the run, not an absolute
// scale.
package rank

import (
	"fmt"
	"math"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

// Weights defines the scoring weights. They must sum to 1 so the composite
// score stays in [0,1].
type Weights struct {
	Volume     float64 // cluster member count
	Engagement float64 // mean likes+replies+shares per member
	Sentiment  float64 // mean absolute sentiment intensity per member
}

// DefaultWeights returns equal thirds.
func DefaultWeights() Weights {
	return Weights{Volume: 1.0 / 3, Engagement: 1.0 / 3, Sentiment: 1.0 / 3}
}

const weightSumTolerance = 1e-9

// Validate checks the weight invariant.
func (w Weights) Validate() error {
	if w.Volume < 0 || w.Engagement < 0 || w.Sentiment < 0 {
		return fmt.Errorf("%w: negative ranker weight", internalerr.ErrInvalidConfig)
	}
	sum := w.Volume + w.Engagement + w.Sentiment
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: ranker weights sum to %g, must sum to 1", internalerr.ErrInvalidConfig, sum)
	}
	return nil
}

// ClusterStats are the raw per-cluster signals the scorer combines. They
// are re-derived from the mention store, not cached on the cluster.
type ClusterStats struct {
	ClusterID       int
	Volume          int
	AvgEngagement   float64
	AvgAbsIntensity float64
}

// Breakdown reports each weighted component alongside the total, for
// callers that want to explain a ranking.
type Breakdown struct {
	Volume     float64
	Engagement float64
	Sentiment  float64
	Total      float64
}

// Scorer computes impact scores. There is no randomness anywhere in this
// stage: identical stats and weights reproduce scores bit for bit.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer, failing fast on invalid weights.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

// ScoreAll computes the impact score for every cluster in the run. The
// result maps cluster id to score.
func (s *Scorer) ScoreAll(stats []ClusterStats) map[int]float64 {
	breakdowns := s.ScoreAllWithBreakdown(stats)
	out := make(map[int]float64, len(breakdowns))
	for id, b := range breakdowns {
		out[id] = b.Total
	}
	return out
}

// ScoreAllWithBreakdown computes scores with per-component detail.
func (s *Scorer) ScoreAllWithBreakdown(stats []ClusterStats) map[int]Breakdown {
	volumes := make([]float64, len(stats))
	engagements := make([]float64, len(stats))
	intensities := make([]float64, len(stats))
	for i, st := range stats {
		volumes[i] = float64(st.Volume)
		engagements[i] = st.AvgEngagement
		intensities[i] = st.AvgAbsIntensity
	}

	normVol := minMaxNormalize(volumes)
	normEng := minMaxNormalize(engagements)
	normInt := minMaxNormalize(intensities)

	out := make(map[int]Breakdown, len(stats))
	for i, st := range stats {
		b := Breakdown{
			Volume:     s.weights.Volume * normVol[i],
			Engagement: s.weights.Engagement * normEng[i],
			Sentiment:  s.weights.Sentiment * normInt[i],
		}
		b.Total = b.Volume + b.Engagement + b.Sentiment
		out[st.ClusterID] = b
	}
	return out
}

// minMaxNormalize rescales values to [0,1] across the run. A constant
// factor carries no ranking information within the run and contributes 0
// for every cluster.
func minMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max == min {
		return out
	}
	span := max - min
	for i, v := range values {
		out[i] = (v - min) / span
	}
	return out
}
