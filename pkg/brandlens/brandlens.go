// Package brandlens extracts ranked, labeled themes from brand mentions.
// The facade wires the pipeline stages together: mention store, cluster
// engine, label generator, impact scorer, and report assembler.
package brandlens

import (
	"context"
	"fmt"
	"sort"

	"github.com/cognicore/brandlens/pkg/brandlens/cluster"
	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/label"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
	"github.com/cognicore/brandlens/pkg/brandlens/rank"
	"github.com/cognicore/brandlens/pkg/brandlens/report"
	"github.com/cognicore/brandlens/pkg/brandlens/store"
)

// Lens is the theme extraction engine facade.
type Lens struct {
	store     store.Store
	engine    *cluster.Engine
	generator *label.Generator
	scorer    *rank.Scorer
	assembler *report.Assembler
}

// Options configures a Lens instance. Zero-valued sections take package
// defaults; an explicit bad value fails New.
type Options struct {
	Store   store.Store
	Cluster cluster.Config
	Label   label.Config
	Weights rank.Weights
	TopN    int
}

// New builds a Lens, validating every configuration section up front so a
// bad weight vector or threshold fails before any data is touched.
func New(opts Options) (*Lens, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: a mention store is required", internalerr.ErrInvalidConfig)
	}
	opts = fillDefaults(opts)

	engine, err := cluster.New(opts.Cluster)
	if err != nil {
		return nil, err
	}
	generator, err := label.NewGenerator(opts.Label)
	if err != nil {
		return nil, err
	}
	scorer, err := rank.NewScorer(opts.Weights)
	if err != nil {
		return nil, err
	}
	assembler, err := report.NewAssembler(opts.TopN)
	if err != nil {
		return nil, err
	}

	return &Lens{
		store:     opts.Store,
		engine:    engine,
		generator: generator,
		scorer:    scorer,
		assembler: assembler,
	}, nil
}

// fillDefaults replaces zero-valued option fields with package defaults,
// so callers only set what they want to override. Explicitly bad values
// are left alone and fail validation.
func fillDefaults(opts Options) Options {
	cd := cluster.DefaultConfig()
	if opts.Cluster.SimilarityThreshold == 0 {
		opts.Cluster.SimilarityThreshold = cd.SimilarityThreshold
	}
	if opts.Cluster.MinClusterSize == 0 {
		opts.Cluster.MinClusterSize = cd.MinClusterSize
	}
	if opts.Cluster.DedupThreshold == 0 {
		opts.Cluster.DedupThreshold = cd.DedupThreshold
	}

	ld := label.DefaultConfig()
	if opts.Label.MaxTerms == 0 {
		opts.Label.MaxTerms = ld.MaxTerms
	}
	if opts.Label.MinTermLength == 0 {
		opts.Label.MinTermLength = ld.MinTermLength
	}

	if opts.Weights == (rank.Weights{}) {
		opts.Weights = rank.DefaultWeights()
	}
	if opts.TopN == 0 {
		opts.TopN = 5
	}
	return opts
}

// Close shuts down the underlying store.
func (l *Lens) Close() error {
	return l.store.Close()
}

// Add ingests one mention into the run. It fails once Run has been called.
func (l *Lens) Add(ctx context.Context, m mention.Mention) error {
	return l.store.Add(ctx, m)
}

// Run executes the full pipeline over everything added so far and returns
// the report. The store is sealed first, so the snapshot cannot shift
// under the clustering. Non-fatal conditions (degenerate partitions,
// duplicate labels) come back as warnings on the report, never as errors.
func (l *Lens) Run(ctx context.Context) (report.Report, error) {
	if err := l.store.Seal(ctx); err != nil {
		return report.Report{}, err
	}

	mentions, err := l.store.All(ctx)
	if err != nil {
		return report.Report{}, err
	}
	if len(mentions) == 0 {
		return report.Report{}, fmt.Errorf("%w: no mentions to analyze", internalerr.ErrInvalidInput)
	}

	part, err := l.engine.Partition(ctx, mentions)
	if err != nil {
		return report.Report{}, err
	}

	labels, labelWarnings := l.labelClusters(part.Clusters, mentions)

	scores := l.scorer.ScoreAll(clusterStats(part.Clusters, mentions))

	rep, err := l.assembler.Assemble(part.Clusters, labels, scores, mentions)
	if err != nil {
		return report.Report{}, err
	}

	if part.Degenerate {
		rep.Warnings = append(rep.Warnings, report.Warning{
			Kind:   report.WarnDegenerateClustering,
			Detail: part.DegenerateReason,
		})
	}
	rep.Warnings = append(rep.Warnings, labelWarnings...)

	return rep, nil
}

// labelClusters generates a label per cluster against the run's corpus and
// flags labels shared by more than one cluster.
func (l *Lens) labelClusters(clusters []cluster.Cluster, mentions []mention.Mention) (map[int]string, []report.Warning) {
	byID := make(map[string]mention.Mention, len(mentions))
	for _, m := range mentions {
		byID[m.ID] = m
	}

	docs := make([][]string, len(clusters))
	for i, c := range clusters {
		var tokens []string
		for _, id := range c.MemberIDs {
			tokens = append(tokens, l.generator.Tokenize(byID[id].Text)...)
		}
		docs[i] = tokens
	}
	corpus := label.BuildCorpusStats(docs)

	labels := make(map[int]string, len(clusters))
	seen := make(map[string][]int)
	for i, c := range clusters {
		lbl := l.generator.Label(docs[i], corpus)
		labels[c.ID] = lbl
		if lbl != "" {
			seen[lbl] = append(seen[lbl], c.ID)
		}
	}

	var warnings []report.Warning
	for lbl, ids := range seen {
		if len(ids) > 1 {
			sort.Ints(ids)
			warnings = append(warnings, report.Warning{
				Kind:   report.WarnAmbiguousLabel,
				Detail: fmt.Sprintf("label %q shared by clusters %v", lbl, ids),
			})
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Detail < warnings[j].Detail })

	return labels, warnings
}

// clusterStats re-derives the ranking signals for each cluster from the
// mention records.
func clusterStats(clusters []cluster.Cluster, mentions []mention.Mention) []rank.ClusterStats {
	byID := make(map[string]mention.Mention, len(mentions))
	for _, m := range mentions {
		byID[m.ID] = m
	}

	stats := make([]rank.ClusterStats, 0, len(clusters))
	for _, c := range clusters {
		var engSum int
		var intSum float64
		for _, id := range c.MemberIDs {
			m := byID[id]
			engSum += m.Engagement.Total()
			intSum += m.Intensity
		}
		n := len(c.MemberIDs)
		stats = append(stats, rank.ClusterStats{
			ClusterID:       c.ID,
			Volume:          n,
			AvgEngagement:   float64(engSum) / float64(n),
			AvgAbsIntensity: intSum / float64(n),
		})
	}
	return stats
}

// ThemeRecords flattens a report into persistable rows for stores that
// keep finished runs.
func ThemeRecords(rep report.Report) []store.ThemeRecord {
	var recs []store.ThemeRecord
	for brand, bt := range rep.Brands {
		for _, rows := range [][]report.ThemeRow{bt.TopPositive, bt.TopNegative} {
			for _, row := range rows {
				recs = append(recs, store.ThemeRecord{
					RunID:         rep.ID,
					Brand:         brand,
					Bucket:        string(row.Bucket),
					Label:         row.Label,
					Score:         row.Score,
					Volume:        row.Volume,
					AvgEngagement: row.AvgEngagement,
					AvgIntensity:  row.AvgIntensity,
					ClusterID:     row.ClusterID,
				})
			}
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Brand != recs[j].Brand {
			return recs[i].Brand < recs[j].Brand
		}
		if recs[i].Bucket != recs[j].Bucket {
			return recs[i].Bucket < recs[j].Bucket
		}
		return recs[i].ClusterID < recs[j].ClusterID
	})
	return recs
}
