package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Cluster.SimilarityThreshold != 0.55 {
		t.Errorf("similarity threshold = %v, want 0.55", cfg.Cluster.SimilarityThreshold)
	}
	if cfg.Report.TopN != 5 {
		t.Errorf("top-n = %d, want 5", cfg.Report.TopN)
	}
	sum := cfg.Rank.VolumeWeight + cfg.Rank.EngagementWeight + cfg.Rank.SentimentWeight
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("default weights sum to %v, want 1", sum)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brandlens.yaml")
	doc := `
cluster:
  similarity_threshold: 0.7
label:
  max_terms: 2
rank:
  volume_weight: 0.5
  engagement_weight: 0.25
  sentiment_weight: 0.25
report:
  top_n: 3
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cluster.SimilarityThreshold != 0.7 {
		t.Errorf("similarity threshold = %v, want 0.7", cfg.Cluster.SimilarityThreshold)
	}
	if cfg.Label.MaxTerms != 2 {
		t.Errorf("max terms = %d, want 2", cfg.Label.MaxTerms)
	}
	if cfg.Report.TopN != 3 {
		t.Errorf("top-n = %d, want 3", cfg.Report.TopN)
	}
	// Untouched fields keep their defaults.
	if cfg.Label.MinTermLength != Default().Label.MinTermLength {
		t.Errorf("min term length = %d, want default", cfg.Label.MinTermLength)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `
rank:
  volume_weight: 0.5
  engagement_weight: 0.3
  sentiment_weight: 0.3
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadStopTermsFile(t *testing.T) {
	dir := t.TempDir()
	stop := filepath.Join(dir, "stop.yaml")
	if err := os.WriteFile(stop, []byte("terms: [great, product]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "brandlens.yaml")
	doc := "label:\n  stop_terms_path: " + stop + "\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Label.StopTerms) != 2 || cfg.Label.StopTerms[0] != "great" {
		t.Errorf("stop terms = %v, want [great product]", cfg.Label.StopTerms)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("cluster: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
