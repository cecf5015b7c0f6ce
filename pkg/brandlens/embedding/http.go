package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

// HTTPConfig configures an HTTPProvider against an OpenAI-compatible
// embeddings endpoint. MaxRetries of zero means a single attempt.
type HTTPConfig struct {
	Endpoint   string
	Model      string
	APIKey     string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultHTTPConfig returns the usual retry and timeout settings; the
// caller fills in endpoint, model, and key.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		MaxRetries: 3,
		Timeout:    60 * time.Second,
	}
}

// HTTPError carries the status and body of a failed embeddings call, plus
// the server's Retry-After hint when present.
type HTTPError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// HTTPProvider calls a remote embeddings API with retry and backoff.
type HTTPProvider struct {
	cfg  HTTPConfig
	http *http.Client
	dims int
}

// NewHTTPProvider validates the config and builds a provider.
func NewHTTPProvider(cfg HTTPConfig) (*HTTPProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: embedding endpoint is required", internalerr.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: embedding model is required", internalerr.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries cannot be negative", internalerr.ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Embed embeds a single text.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one API call, retrying with exponential
// backoff. Rate-limit responses honor Retry-After. Blank texts come back
// as nil vectors without being sent.
func (p *HTTPProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	nonEmpty := make([]string, 0, len(texts))
	indexMap := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			nonEmpty = append(nonEmpty, text)
			indexMap = append(indexMap, i)
		}
	}
	if len(nonEmpty) == 0 {
		return make([][]float64, len(texts)), nil
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		vecs, err := p.attempt(ctx, nonEmpty)
		if err == nil {
			result := make([][]float64, len(texts))
			for i, v := range vecs {
				result[indexMap[i]] = v
			}
			if p.dims == 0 {
				for _, v := range vecs {
					if len(v) > 0 {
						p.dims = len(v)
						break
					}
				}
			}
			return result, nil
		}
		lastErr = err

		if attempt == p.cfg.MaxRetries {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests && httpErr.RetryAfter > 0 {
			backoff = httpErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", p.cfg.MaxRetries+1, lastErr)
}

// Dimensions reports the vector size seen so far; 0 before the first call.
func (p *HTTPProvider) Dimensions() int {
	return p.dims
}

func (p *HTTPProvider) attempt(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{Model: p.cfg.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var retryAfter time.Duration
		if h := resp.Header.Get("Retry-After"); h != "" {
			if secs, err := strconv.Atoi(h); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			RetryAfter: retryAfter,
		}
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response JSON: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	vecs := make([][]float64, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("invalid embedding index: %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}
