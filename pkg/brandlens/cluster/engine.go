// Package cluster partitions mentions into themes by embedding-space
// similarity. Cluster count is not fixed in advance: mentions are assigned
// incrementally to the nearest existing cluster when its centroid is within
// a cosine-similarity threshold, and start a new cluster otherwise.
package cluster

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

// Config controls clustering granularity.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity between a
	// mention and a cluster centroid for the mention to join. Must lie
	// strictly between 0 and 1.
	SimilarityThreshold float64

	// MaxClusters caps the partition size; 0 means unlimited. When the cap
	// is reached, a below-threshold mention joins its nearest cluster
	// instead of opening a new one.
	MaxClusters int

	// MinClusterSize merges clusters smaller than this into their nearest
	// neighbor after assignment. 1 disables merging.
	MinClusterSize int

	// Dedup enables a near-duplicate collapse pass before clustering.
	// Off by default: the underlying index is approximate, so enabling it
	// trades the engine's strict determinism for speed on large corpora.
	Dedup bool

	// DedupThreshold is the similarity above which two mentions are
	// considered duplicates. Only used when Dedup is set; defaults to 0.92.
	DedupThreshold float64
}

// DefaultConfig returns the granularity defaults. The threshold is chosen
// so that adequately dense input yields neither one giant cluster nor all
// singletons; sparse input may still produce a degenerate partition, which
// is reported, not fixed.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.55,
		MaxClusters:         0,
		MinClusterSize:      1,
		DedupThreshold:      0.92,
	}
}

// Validate checks the configuration before any clustering work begins.
func (c Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("%w: similarity threshold %f outside (0, 1)",
			internalerr.ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MaxClusters < 0 {
		return fmt.Errorf("%w: max clusters %d negative", internalerr.ErrInvalidConfig, c.MaxClusters)
	}
	if c.MinClusterSize < 1 {
		return fmt.Errorf("%w: min cluster size %d below 1", internalerr.ErrInvalidConfig, c.MinClusterSize)
	}
	if c.Dedup && (c.DedupThreshold <= 0 || c.DedupThreshold >= 1) {
		return fmt.Errorf("%w: dedup threshold %f outside (0, 1)",
			internalerr.ErrInvalidConfig, c.DedupThreshold)
	}
	return nil
}

// Cluster is one detected theme: a set of mention ids and their mean
// embedding. Label and score are attached downstream.
type Cluster struct {
	ID        int
	MemberIDs []string
	Centroid  []float64
}

// Result is a complete partition of the input mentions.
type Result struct {
	Clusters []Cluster

	// Degenerate marks a partition that is likely unreliable (a single
	// cluster covering everything, or more clusters than mentions/2).
	// The partition is still returned; data sparsity is the caller's
	// problem to manage.
	Degenerate       bool
	DegenerateReason string
}

// Engine runs threshold-based incremental clustering.
type Engine struct {
	cfg Config
}

// New creates an engine, failing fast on invalid configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// state is one growing cluster during assignment. The running sum of member
// embeddings stands in for the centroid: cosine similarity is scale
// invariant, so no division is needed until the final centroids are built.
type state struct {
	id      int
	members []string
	sum     *mat.VecDense
	count   int
}

// Partition assigns every mention to exactly one cluster. Input order is
// significant: identical input (mentions, embeddings, configuration)
// produces an identical partition.
func (e *Engine) Partition(ctx context.Context, mentions []mention.Mention) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(mentions) == 0 {
		return nil, fmt.Errorf("%w: empty mention set", internalerr.ErrInvalidInput)
	}

	dim := len(mentions[0].Embedding)
	vecs := make(map[string]*mat.VecDense, len(mentions))
	for _, m := range mentions {
		if len(m.Embedding) == 0 {
			return nil, fmt.Errorf("%w: mention %s has no embedding", internalerr.ErrInvalidInput, m.ID)
		}
		if len(m.Embedding) != dim {
			return nil, fmt.Errorf("%w: mention %s embedding dimension %d, run dimension %d",
				internalerr.ErrInvalidInput, m.ID, len(m.Embedding), dim)
		}
		v := mat.NewVecDense(dim, append([]float64(nil), m.Embedding...))
		if mat.Norm(v, 2) == 0 {
			return nil, fmt.Errorf("%w: mention %s has a zero embedding", internalerr.ErrInvalidInput, m.ID)
		}
		vecs[m.ID] = v
	}

	order := mentions
	dupOf := map[string]string{}
	if e.cfg.Dedup {
		var kept []mention.Mention
		kept, dupOf = collapseDuplicates(mentions, e.cfg.DedupThreshold)
		order = kept
	}

	var clusters []*state
	assigned := make(map[string]int, len(order)) // mention id -> cluster index

	for _, m := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := vecs[m.ID]

		// Nearest centroid in ascending cluster-id order; strict
		// improvement required, so equal similarity keeps the lowest id.
		best := -1
		bestSim := -2.0
		for i, c := range clusters {
			sim := cosine(v, c.sum)
			if sim > bestSim {
				bestSim = sim
				best = i
			}
		}

		join := best >= 0 && bestSim >= e.cfg.SimilarityThreshold
		if !join && e.cfg.MaxClusters > 0 && len(clusters) >= e.cfg.MaxClusters {
			join = best >= 0
		}

		if join {
			c := clusters[best]
			c.members = append(c.members, m.ID)
			c.sum.AddVec(c.sum, v)
			c.count++
			assigned[m.ID] = best
			continue
		}

		s := &state{
			id:      len(clusters),
			members: []string{m.ID},
			sum:     mat.NewVecDense(dim, nil),
			count:   1,
		}
		s.sum.CopyVec(v)
		assigned[m.ID] = len(clusters)
		clusters = append(clusters, s)
	}

	clusters = e.mergeSmall(clusters, assigned)

	// Reattach collapsed duplicates to their primary's cluster and rebuild
	// membership in original input order so the partition is exhaustive.
	final := buildResult(clusters, assigned, dupOf, mentions, vecs, dim)

	n := len(mentions)
	k := len(final.Clusters)
	if n > 1 {
		switch {
		case k == 1:
			final.Degenerate = true
			final.DegenerateReason = fmt.Sprintf("single cluster covers all %d mentions", n)
		case 2*k > n:
			final.Degenerate = true
			final.DegenerateReason = fmt.Sprintf("%d clusters over %d mentions", k, n)
		}
	}
	return final, nil
}

// mergeSmall folds clusters below MinClusterSize into their most similar
// surviving neighbor, repeating until stable. Ties go to the lowest id.
func (e *Engine) mergeSmall(clusters []*state, assigned map[string]int) []*state {
	if e.cfg.MinClusterSize <= 1 || len(clusters) < 2 {
		return clusters
	}

	for {
		changed := false
		for i, c := range clusters {
			if c == nil || c.count >= e.cfg.MinClusterSize {
				continue
			}
			best := -1
			bestSim := -2.0
			for j, other := range clusters {
				if j == i || other == nil {
					continue
				}
				sim := cosine(c.sum, other.sum)
				if sim > bestSim {
					bestSim = sim
					best = j
				}
			}
			if best < 0 {
				continue
			}
			target := clusters[best]
			for _, id := range c.members {
				assigned[id] = best
			}
			target.members = append(target.members, c.members...)
			target.sum.AddVec(target.sum, c.sum)
			target.count += c.count
			clusters[i] = nil
			changed = true
		}
		if !changed {
			break
		}
	}

	// Compact and renumber in creation order; fix the assignment map to the
	// new indices.
	remap := make(map[int]int, len(clusters))
	var out []*state
	for i, c := range clusters {
		if c == nil {
			continue
		}
		remap[i] = len(out)
		c.id = len(out)
		out = append(out, c)
	}
	for id, idx := range assigned {
		assigned[id] = remap[idx]
	}
	return out
}

func buildResult(clusters []*state, assigned map[string]int, dupOf map[string]string,
	mentions []mention.Mention, vecs map[string]*mat.VecDense, dim int) *Result {

	members := make([][]string, len(clusters))
	for _, m := range mentions {
		idx, ok := assigned[m.ID]
		if !ok {
			// Collapsed duplicate: follow its primary.
			idx = assigned[dupOf[m.ID]]
		}
		members[idx] = append(members[idx], m.ID)
	}

	out := &Result{Clusters: make([]Cluster, 0, len(clusters))}
	for i := range clusters {
		sum := mat.NewVecDense(dim, nil)
		for _, id := range members[i] {
			sum.AddVec(sum, vecs[id])
		}
		centroid := make([]float64, dim)
		for d := 0; d < dim; d++ {
			centroid[d] = sum.AtVec(d) / float64(len(members[i]))
		}
		out.Clusters = append(out.Clusters, Cluster{
			ID:        i,
			MemberIDs: members[i],
			Centroid:  centroid,
		})
	}
	return out
}

func cosine(a, b *mat.VecDense) float64 {
	na := mat.Norm(a, 2)
	nb := mat.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(a, b) / (na * nb)
}
