// Package config holds the run configuration and its YAML loaders. All
// validation happens up front, before any clustering work begins.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/brandlens/pkg/brandlens/cluster"
	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/label"
	"github.com/cognicore/brandlens/pkg/brandlens/rank"
)

// Config is the full run configuration.
type Config struct {
	Cluster ClusterConfig `yaml:"cluster"`
	Label   LabelConfig   `yaml:"label"`
	Rank    RankConfig    `yaml:"rank"`
	Report  ReportConfig  `yaml:"report"`
}

// ClusterConfig mirrors cluster.Config in YAML shape.
type ClusterConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxClusters         int     `yaml:"max_clusters"`
	MinClusterSize      int     `yaml:"min_cluster_size"`
	Dedup               bool    `yaml:"dedup"`
	DedupThreshold      float64 `yaml:"dedup_threshold"`
}

// LabelConfig mirrors label.Config in YAML shape. An empty StopTerms list
// falls back to the built-in one; StopTermsPath loads a curated list.
type LabelConfig struct {
	MaxTerms      int      `yaml:"max_terms"`
	MinTermLength int      `yaml:"min_term_length"`
	StopTerms     []string `yaml:"stop_terms"`
	StopTermsPath string   `yaml:"stop_terms_path"`
}

// RankConfig holds the impact weights. They must sum to 1.
type RankConfig struct {
	VolumeWeight     float64 `yaml:"volume_weight"`
	EngagementWeight float64 `yaml:"engagement_weight"`
	SentimentWeight  float64 `yaml:"sentiment_weight"`
}

// ReportConfig controls assembly.
type ReportConfig struct {
	TopN int `yaml:"top_n"`
}

// Default returns the documented defaults: threshold 0.55, 3-term labels,
// equal-thirds weights, top 5 themes per bucket.
func Default() Config {
	cc := cluster.DefaultConfig()
	lc := label.DefaultConfig()
	rw := rank.DefaultWeights()
	return Config{
		Cluster: ClusterConfig{
			SimilarityThreshold: cc.SimilarityThreshold,
			MaxClusters:         cc.MaxClusters,
			MinClusterSize:      cc.MinClusterSize,
			Dedup:               cc.Dedup,
			DedupThreshold:      cc.DedupThreshold,
		},
		Label: LabelConfig{
			MaxTerms:      lc.MaxTerms,
			MinTermLength: lc.MinTermLength,
		},
		Rank: RankConfig{
			VolumeWeight:     rw.Volume,
			EngagementWeight: rw.Engagement,
			SentimentWeight:  rw.Sentiment,
		},
		Report: ReportConfig{TopN: 5},
	}
}

// Load reads a YAML config file, resolves the stop-term path if set, and
// validates the result. Fields left at zero take their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if cfg.Label.StopTermsPath != "" {
		terms, err := LoadStopTerms(cfg.Label.StopTermsPath)
		if err != nil {
			return Config{}, fmt.Errorf("load stop terms: %w", err)
		}
		cfg.Label.StopTerms = terms
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// stopTermsFile is the YAML shape of a stop-term list file.
type stopTermsFile struct {
	Terms []string `yaml:"terms"`
}

// LoadStopTerms loads a stop-term list from a YAML file.
func LoadStopTerms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f stopTermsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return f.Terms, nil
}

// Validate checks every section, so a bad configuration fails before any
// pipeline stage runs.
func (c Config) Validate() error {
	if err := c.ClusterConfig().Validate(); err != nil {
		return err
	}
	if err := c.LabelConfig().Validate(); err != nil {
		return err
	}
	if err := c.Weights().Validate(); err != nil {
		return err
	}
	if c.Report.TopN <= 0 {
		return fmt.Errorf("%w: report top-n %d must be positive", internalerr.ErrInvalidConfig, c.Report.TopN)
	}
	return nil
}

// ClusterConfig converts to the cluster package's config type.
func (c Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		SimilarityThreshold: c.Cluster.SimilarityThreshold,
		MaxClusters:         c.Cluster.MaxClusters,
		MinClusterSize:      c.Cluster.MinClusterSize,
		Dedup:               c.Cluster.Dedup,
		DedupThreshold:      c.Cluster.DedupThreshold,
	}
}

// LabelConfig converts to the label package's config type.
func (c Config) LabelConfig() label.Config {
	return label.Config{
		MaxTerms:      c.Label.MaxTerms,
		MinTermLength: c.Label.MinTermLength,
		StopTerms:     c.Label.StopTerms,
	}
}

// Weights converts to the rank package's weight type.
func (c Config) Weights() rank.Weights {
	return rank.Weights{
		Volume:     c.Rank.VolumeWeight,
		Engagement: c.Rank.EngagementWeight,
		Sentiment:  c.Rank.SentimentWeight,
	}
}
