package label

// CorpusStats is an immutable snapshot of corpus-wide term statistics.
// One "document" is one cluster's concatenated member text; the corpus is
// all clusters in the run. The snapshot is built once per run and passed
// explicitly into each label computation, never recomputed mid-run.
type CorpusStats struct {
	totalDocs int
	df        map[string]int
}

// BuildCorpusStats computes document frequencies over per-cluster token
// documents.
func BuildCorpusStats(docs [][]string) *CorpusStats {
	stats := &CorpusStats{
		totalDocs: len(docs),
		df:        make(map[string]int),
	}
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			stats.df[term]++
		}
	}
	return stats
}

// TotalDocs reports the number of documents behind the snapshot.
func (s *CorpusStats) TotalDocs() int { return s.totalDocs }

// DocFreq reports how many documents contain the term.
func (s *CorpusStats) DocFreq(term string) int { return s.df[term] }
