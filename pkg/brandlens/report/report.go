// Package report assembles scored, labeled clusters into the final
// brand-and-polarity-partitioned result.
package report

import (
	"crypto/rand"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/brandlens/pkg/brandlens/cluster"
	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

// Bucket classifies a theme row by the majority polarity of its members.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
)

// WarningKind identifies a non-fatal condition detected during a run.
type WarningKind string

const (
	// WarnDegenerateClustering marks a partition that is likely unreliable
	// (one cluster covering everything, or mostly singletons).
	WarnDegenerateClustering WarningKind = "degenerate_clustering"

	// WarnAmbiguousLabel marks two or more distinct clusters that produced
	// an identical label.
	WarnAmbiguousLabel WarningKind = "ambiguous_label"
)

// Warning is returned alongside a successful report, never silently
// dropped.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail"`
}

// ThemeRow is one read-only output row: a cluster viewed through one
// brand's subset of members.
type ThemeRow struct {
	Brand         string  `json:"brand"`
	Bucket        Bucket  `json:"bucket"`
	Label         string  `json:"label"`
	Score         float64 `json:"score"`
	Volume        int     `json:"volume"`
	AvgEngagement float64 `json:"avg_engagement"`
	AvgIntensity  float64 `json:"avg_sentiment_intensity"`
	ClusterID     int     `json:"cluster_id"`
}

// BrandThemes holds one brand's ranked theme lists.
type BrandThemes struct {
	TopPositive []ThemeRow `json:"top_positive_themes"`
	TopNegative []ThemeRow `json:"top_negative_themes"`
}

// Report is the structured result of one run.
type Report struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Brands      map[string]BrandThemes `json:"brands"`
	Warnings    []Warning              `json:"warnings,omitempty"`
}

// Assembler groups ranked themes by brand and polarity bucket.
type Assembler struct {
	topN    int
	entropy *ulid.MonotonicEntropy
}

// NewAssembler creates an assembler keeping the top n themes per bucket.
func NewAssembler(topN int) (*Assembler, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top-n %d must be positive", internalerr.ErrInvalidConfig, topN)
	}
	return &Assembler{
		topN:    topN,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Assemble produces the final report. A cluster spanning several brands is
// split per brand: each row re-derives volume, engagement, and intensity
// from that brand's member subset, while label, score, and cluster id stay
// shared.
func (a *Assembler) Assemble(clusters []cluster.Cluster, labels map[int]string,
	scores map[int]float64, mentions []mention.Mention) (Report, error) {

	byID := make(map[string]mention.Mention, len(mentions))
	for _, m := range mentions {
		byID[m.ID] = m
	}

	type brandSlice struct {
		count     int
		engSum    int
		intSum    float64
		polarity  map[mention.Polarity]int
	}

	rows := make(map[string][]ThemeRow)
	for _, c := range clusters {
		slices := make(map[string]*brandSlice)
		for _, id := range c.MemberIDs {
			m, ok := byID[id]
			if !ok {
				return Report{}, fmt.Errorf("%w: cluster %d references unknown mention %s",
					internalerr.ErrInvalidInput, c.ID, id)
			}
			s := slices[m.Brand]
			if s == nil {
				s = &brandSlice{polarity: make(map[mention.Polarity]int)}
				slices[m.Brand] = s
			}
			s.count++
			s.engSum += m.Engagement.Total()
			s.intSum += m.Intensity
			s.polarity[m.Polarity]++
		}

		for brand, s := range slices {
			bucket, ok := classify(s.polarity)
			if !ok {
				// Tied or neutral-majority rows are not actionable and are
				// dropped, not shoehorned into either bucket.
				continue
			}
			rows[brand] = append(rows[brand], ThemeRow{
				Brand:         brand,
				Bucket:        bucket,
				Label:         labels[c.ID],
				Score:         scores[c.ID],
				Volume:        s.count,
				AvgEngagement: float64(s.engSum) / float64(s.count),
				AvgIntensity:  s.intSum / float64(s.count),
				ClusterID:     c.ID,
			})
		}
	}

	report := Report{
		ID:          ulid.MustNew(ulid.Timestamp(time.Now()), a.entropy).String(),
		GeneratedAt: time.Now().UTC(),
		Brands:      make(map[string]BrandThemes, len(rows)),
	}
	for brand, brandRows := range rows {
		sortRows(brandRows)
		var bt BrandThemes
		for _, row := range brandRows {
			switch row.Bucket {
			case BucketPositive:
				if len(bt.TopPositive) < a.topN {
					bt.TopPositive = append(bt.TopPositive, row)
				}
			case BucketNegative:
				if len(bt.TopNegative) < a.topN {
					bt.TopNegative = append(bt.TopNegative, row)
				}
			}
		}
		report.Brands[brand] = bt
	}
	return report, nil
}

// classify picks a bucket by strict plurality of member polarity counts.
// Ties and neutral pluralities yield no bucket.
func classify(counts map[mention.Polarity]int) (Bucket, bool) {
	pos := counts[mention.Positive]
	neg := counts[mention.Negative]
	neu := counts[mention.Neutral]

	switch {
	case pos > neg && pos > neu:
		return BucketPositive, true
	case neg > pos && neg > neu:
		return BucketNegative, true
	default:
		return "", false
	}
}

// sortRows orders by score descending, then volume descending, then
// cluster id ascending for full determinism.
func sortRows(rows []ThemeRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Volume != rows[j].Volume {
			return rows[i].Volume > rows[j].Volume
		}
		return rows[i].ClusterID < rows[j].ClusterID
	})
}
