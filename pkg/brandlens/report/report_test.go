package report

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/brandlens/pkg/brandlens/cluster"
	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

func mkMention(id, brand string, pol mention.Polarity, intensity float64, likes int) mention.Mention {
	return mention.Mention{
		ID:         id,
		Brand:      brand,
		Text:       "text " + id,
		Polarity:   pol,
		Intensity:  intensity,
		Embedding:  []float64{1},
		Engagement: mention.Engagement{Likes: likes},
	}
}

func mustAssembler(t *testing.T, topN int) *Assembler {
	t.Helper()
	a, err := NewAssembler(topN)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	return a
}

func TestTopNMustBePositive(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := NewAssembler(n); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("topN=%d: expected ErrInvalidConfig, got %v", n, err)
		}
	}
}

func TestBucketing(t *testing.T) {
	a := mustAssembler(t, 5)

	mentions := []mention.Mention{
		mkMention("p1", "amazon", mention.Positive, 0.8, 10),
		mkMention("p2", "amazon", mention.Positive, 0.6, 20),
		mkMention("p3", "amazon", mention.Negative, 0.9, 5),
		mkMention("n1", "amazon", mention.Negative, 0.9, 8),
		mkMention("n2", "amazon", mention.Negative, 0.7, 2),
		mkMention("u1", "amazon", mention.Neutral, 0.1, 0),
		mkMention("u2", "amazon", mention.Neutral, 0.0, 0),
		mkMention("u3", "amazon", mention.Positive, 0.5, 1),
	}
	clusters := []cluster.Cluster{
		{ID: 0, MemberIDs: []string{"p1", "p2", "p3"}}, // 2 pos, 1 neg -> positive
		{ID: 1, MemberIDs: []string{"n1", "n2"}},       // 2 neg -> negative
		{ID: 2, MemberIDs: []string{"u1", "u2", "u3"}}, // 2 neu, 1 pos -> dropped
	}
	labels := map[int]string{0: "Fast Delivery", 1: "Late Package", 2: "Misc"}
	scores := map[int]float64{0: 0.9, 1: 0.8, 2: 0.1}

	rep, err := a.Assemble(clusters, labels, scores, mentions)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	bt := rep.Brands["amazon"]
	if len(bt.TopPositive) != 1 || bt.TopPositive[0].Label != "Fast Delivery" {
		t.Errorf("top positive = %+v", bt.TopPositive)
	}
	if len(bt.TopNegative) != 1 || bt.TopNegative[0].Label != "Late Package" {
		t.Errorf("top negative = %+v", bt.TopNegative)
	}
	if rep.ID == "" {
		t.Error("report id missing")
	}
}

func TestTiedPolarityDropped(t *testing.T) {
	a := mustAssembler(t, 5)

	mentions := []mention.Mention{
		mkMention("p1", "amazon", mention.Positive, 0.5, 1),
		mkMention("n1", "amazon", mention.Negative, 0.5, 1),
	}
	clusters := []cluster.Cluster{{ID: 0, MemberIDs: []string{"p1", "n1"}}}

	rep, err := a.Assemble(clusters, map[int]string{0: "Split"}, map[int]float64{0: 0.5}, mentions)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	bt := rep.Brands["amazon"]
	if len(bt.TopPositive) != 0 || len(bt.TopNegative) != 0 {
		t.Errorf("tied cluster leaked into buckets: %+v", bt)
	}
}

func TestBrandSplitRecomputesStats(t *testing.T) {
	a := mustAssembler(t, 5)

	mentions := []mention.Mention{
		mkMention("a1", "amazon", mention.Positive, 0.8, 10),
		mkMention("a2", "amazon", mention.Positive, 0.4, 30),
		mkMention("m1", "mediamarkt", mention.Positive, 0.6, 4),
	}
	clusters := []cluster.Cluster{{ID: 0, MemberIDs: []string{"a1", "a2", "m1"}}}
	labels := map[int]string{0: "Great Service"}
	scores := map[int]float64{0: 0.7}

	rep, err := a.Assemble(clusters, labels, scores, mentions)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	am := rep.Brands["amazon"].TopPositive
	mm := rep.Brands["mediamarkt"].TopPositive
	if len(am) != 1 || len(mm) != 1 {
		t.Fatalf("expected one row per brand, got amazon=%d mediamarkt=%d", len(am), len(mm))
	}

	if am[0].Volume != 2 || am[0].AvgEngagement != 20 || math.Abs(am[0].AvgIntensity-0.6) > 1e-12 {
		t.Errorf("amazon row stats wrong: %+v", am[0])
	}
	if mm[0].Volume != 1 || mm[0].AvgEngagement != 4 {
		t.Errorf("mediamarkt row stats wrong: %+v", mm[0])
	}

	// Label, score, and cluster id stay shared across the split.
	if am[0].Label != mm[0].Label || am[0].Score != mm[0].Score || am[0].ClusterID != mm[0].ClusterID {
		t.Error("split rows should share label, score, and cluster id")
	}
}

func TestOrderingAndTieBreaks(t *testing.T) {
	a := mustAssembler(t, 2)

	var mentions []mention.Mention
	var clusters []cluster.Cluster
	labels := map[int]string{}
	scores := map[int]float64{}

	// Four positive clusters: two tie on score, one of those wins on
	// volume; two tie on score and volume where the lower id wins; topN=2
	// trims the rest.
	cases := []struct {
		id     int
		score  float64
		volume int
	}{
		{0, 0.5, 1},
		{1, 0.9, 2},
		{2, 0.9, 3},
		{3, 0.5, 1},
	}
	next := 0
	for _, cs := range cases {
		var ids []string
		for v := 0; v < cs.volume; v++ {
			id := string(rune('a' + next))
			next++
			mentions = append(mentions, mkMention(id, "amazon", mention.Positive, 0.5, 1))
			ids = append(ids, id)
		}
		clusters = append(clusters, cluster.Cluster{ID: cs.id, MemberIDs: ids})
		labels[cs.id] = "L"
		scores[cs.id] = cs.score
	}

	rep, err := a.Assemble(clusters, labels, scores, mentions)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	top := rep.Brands["amazon"].TopPositive
	if len(top) != 2 {
		t.Fatalf("topN not applied: %d rows", len(top))
	}
	if top[0].ClusterID != 2 {
		t.Errorf("rank 0 cluster %d, want 2 (score tie broken by volume)", top[0].ClusterID)
	}
	if top[1].ClusterID != 1 {
		t.Errorf("rank 1 cluster %d, want 1", top[1].ClusterID)
	}
}

func TestUnknownMemberFails(t *testing.T) {
	a := mustAssembler(t, 5)

	clusters := []cluster.Cluster{{ID: 0, MemberIDs: []string{"ghost"}}}
	_, err := a.Assemble(clusters, map[int]string{0: "X"}, map[int]float64{0: 0.5}, nil)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
