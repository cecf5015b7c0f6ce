// brandlens-report runs the full theme extraction pipeline over a mention
// corpus and emits a JSON report. Input is either a JSONL file of raw
// mentions or a seeded synthetic corpus for demos.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cognicore/brandlens/internal/synth"
	"github.com/cognicore/brandlens/pkg/brandlens"
	"github.com/cognicore/brandlens/pkg/brandlens/cleaner"
	"github.com/cognicore/brandlens/pkg/brandlens/config"
	"github.com/cognicore/brandlens/pkg/brandlens/embedding"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
	"github.com/cognicore/brandlens/pkg/brandlens/sentiment"
	"github.com/cognicore/brandlens/pkg/brandlens/store"
	"github.com/cognicore/brandlens/pkg/brandlens/store/memstore"
	"github.com/cognicore/brandlens/pkg/brandlens/store/sqlite"
)

// inputRecord is one JSONL line of raw mention data. Polarity, intensity,
// and embedding are optional; the pipeline fills in whatever is missing.
type inputRecord struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Platform  string    `json:"platform"`
	Text      string    `json:"text"`
	Polarity  string    `json:"polarity,omitempty"`
	Intensity float64   `json:"intensity,omitempty"`
	Embedding []float64 `json:"embedding,omitempty"`
	Likes     int       `json:"likes"`
	Replies   int       `json:"replies"`
	Shares    int       `json:"shares"`
}

func main() {
	var (
		cfgPath   = flag.String("config", "", "Optional YAML config file")
		input     = flag.String("input", "", "JSONL file of mentions")
		synthN    = flag.Int("synth", 0, "Generate N synthetic mentions instead of reading input")
		seed      = flag.Int64("seed", 42, "Seed for the synthetic corpus")
		dbPath    = flag.String("db", "", "Optional SQLite path; persists mentions and themes")
		out       = flag.String("out", "", "Report output path (default stdout)")
		endpoint  = flag.String("embed-endpoint", "", "OpenAI-compatible embeddings endpoint")
		model     = flag.String("embed-model", "", "Embedding model name")
		apiKey    = flag.String("embed-api-key", os.Getenv("BRANDLENS_EMBED_API_KEY"), "Embedding API key")
		hashDims  = flag.Int("hash-dims", 256, "Vector size for the local hashing embedder")
		verbosity = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "brandlens",
	})
	if lvl, err := log.ParseLevel(*verbosity); err == nil {
		logger.SetLevel(lvl)
	}

	if *input == "" && *synthN == 0 {
		logger.Fatal("either --input or --synth is required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}
	}

	ctx := context.Background()

	var records []inputRecord
	if *synthN > 0 {
		for _, m := range synth.Generate(*synthN, *seed) {
			records = append(records, inputRecord{
				ID:       m.ID,
				Brand:    m.Brand,
				Platform: m.Platform,
				Text:     m.Text,
				Likes:    m.Engagement.Likes,
				Replies:  m.Engagement.Replies,
				Shares:   m.Engagement.Shares,
			})
		}
		logger.Info("generated synthetic corpus", "n", len(records), "seed", *seed)
	} else {
		var err error
		records, err = loadJSONL(*input)
		if err != nil {
			logger.Fatal("load input", "err", err)
		}
		logger.Info("loaded mentions", "n", len(records), "path", *input)
	}

	var provider embedding.Provider
	if *endpoint != "" {
		hc := embedding.DefaultHTTPConfig()
		hc.Endpoint = *endpoint
		hc.Model = *model
		hc.APIKey = *apiKey
		p, err := embedding.NewHTTPProvider(hc)
		if err != nil {
			logger.Fatal("embedding provider", "err", err)
		}
		provider = p
		logger.Debug("using remote embeddings", "endpoint", *endpoint, "model", *model)
	} else {
		p, err := embedding.NewHashingProvider(*hashDims)
		if err != nil {
			logger.Fatal("embedding provider", "err", err)
		}
		provider = p
		logger.Debug("using local hashing embeddings", "dims", *hashDims)
	}

	mentions, err := prepare(ctx, records, provider)
	if err != nil {
		logger.Fatal("prepare mentions", "err", err)
	}

	var st store.Store
	var themesOut *sqlite.Store
	if *dbPath != "" {
		s, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			logger.Fatal("open store", "err", err)
		}
		st = s
		themesOut = s
	} else {
		st = memstore.New()
	}
	defer st.Close()

	lens, err := brandlens.New(brandlens.Options{
		Store:   st,
		Cluster: cfg.ClusterConfig(),
		Label:   cfg.LabelConfig(),
		Weights: cfg.Weights(),
		TopN:    cfg.Report.TopN,
	})
	if err != nil {
		logger.Fatal("configure engine", "err", err)
	}

	for _, m := range mentions {
		if err := lens.Add(ctx, m); err != nil {
			logger.Fatal("add mention", "id", m.ID, "err", err)
		}
	}

	rep, err := lens.Run(ctx)
	if err != nil {
		logger.Fatal("run pipeline", "err", err)
	}
	for _, w := range rep.Warnings {
		logger.Warn("report warning", "kind", w.Kind, "detail", w.Detail)
	}

	if themesOut != nil {
		if err := themesOut.SaveThemes(ctx, brandlens.ThemeRecords(rep)); err != nil {
			logger.Fatal("persist themes", "err", err)
		}
		logger.Info("themes persisted", "run", rep.ID, "db", *dbPath)
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal("create output", "err", err)
		}
		defer f.Close()
		dst = f
	}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		logger.Fatal("write report", "err", err)
	}
	logger.Info("report ready", "run", rep.ID, "brands", len(rep.Brands))
}

// prepare normalizes text, backfills polarity and intensity via the
// lexicon scorer, and embeds any mention that arrived without a vector.
func prepare(ctx context.Context, records []inputRecord, provider embedding.Provider) ([]mention.Mention, error) {
	scorer := sentiment.NewLexiconScorer(nil)

	mentions := make([]mention.Mention, len(records))
	var toEmbed []string
	var embedIdx []int
	for i, r := range records {
		cleaned := cleaner.Clean(r.Text)

		m := mention.Mention{
			ID:        r.ID,
			Brand:     r.Brand,
			Platform:  r.Platform,
			Text:      cleaned,
			Polarity:  mention.Polarity(r.Polarity),
			Intensity: r.Intensity,
			Embedding: r.Embedding,
			Engagement: mention.Engagement{
				Likes:   r.Likes,
				Replies: r.Replies,
				Shares:  r.Shares,
			},
		}
		if m.Polarity == "" {
			m.Polarity, m.Intensity = scorer.Score(cleaned)
		}
		if m.Embedding == nil {
			toEmbed = append(toEmbed, cleaned)
			embedIdx = append(embedIdx, i)
		}
		mentions[i] = m
	}

	if len(toEmbed) > 0 {
		vecs, err := provider.EmbedBatch(ctx, toEmbed)
		if err != nil {
			return nil, fmt.Errorf("embedding %d mentions: %w", len(toEmbed), err)
		}
		for j, idx := range embedIdx {
			mentions[idx].Embedding = vecs[j]
		}
	}
	return mentions, nil
}

func loadJSONL(path string) ([]inputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []inputRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var r inputRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(records)+1, err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
