package cluster

import (
	"github.com/coder/hnsw"

	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

// collapseDuplicates folds near-identical mentions (reposts, copy-paste
// variants) onto the first occurrence before clustering. Returns the kept
// mentions in input order and a map from each collapsed id to its primary.
//
// Lookup goes through an HNSW index with cosine distance; similarity is
// 1 - distance/2, matching the index's [0,2] distance range.
func collapseDuplicates(mentions []mention.Mention, threshold float64) ([]mention.Mention, map[string]string) {
	g := hnsw.NewGraph[string]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 32

	kept := make([]mention.Mention, 0, len(mentions))
	dupOf := make(map[string]string)

	for _, m := range mentions {
		vec := toFloat32(m.Embedding)

		var primary string
		var bestSim float32
		if g.Len() > 0 {
			for _, n := range g.Search(vec, 5) {
				if len(n.Value) != len(vec) {
					continue
				}
				sim := 1.0 - hnsw.CosineDistance(vec, n.Value)/2.0
				if sim >= float32(threshold) && sim > bestSim {
					bestSim = sim
					primary = n.Key
				}
			}
		}

		if primary != "" {
			dupOf[m.ID] = primary
			continue
		}

		g.Add(hnsw.MakeNode(m.ID, vec))
		kept = append(kept, m)
	}

	return kept, dupOf
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
