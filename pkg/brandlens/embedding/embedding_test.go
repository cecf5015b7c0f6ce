package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestHashingDeterministic(t *testing.T) {
	p, err := NewHashingProvider(64)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := p.Embed(context.Background(), "fast delivery great service")
	b, _ := p.Embed(context.Background(), "fast delivery great service")
	if !reflect.DeepEqual(a, b) {
		t.Error("same text produced different vectors")
	}
}

func TestHashingNormalized(t *testing.T) {
	p, _ := NewHashingProvider(32)
	v, _ := p.Embed(context.Background(), "battery life is short")
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("squared norm = %v, want 1", norm)
	}
}

func TestHashingEmptyText(t *testing.T) {
	p, _ := NewHashingProvider(16)
	v, err := p.Embed(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range v {
		if x != 0 {
			t.Fatalf("empty text produced nonzero vector %v", v)
		}
	}
}

func TestHashingSimilarTextsCloser(t *testing.T) {
	p, _ := NewHashingProvider(256)
	ctx := context.Background()
	a, _ := p.Embed(ctx, "shipping was fast and the courier friendly")
	b, _ := p.Embed(ctx, "fast shipping friendly courier")
	c, _ := p.Embed(ctx, "battery drains overnight completely")
	if dot(a, b) <= dot(a, c) {
		t.Errorf("related texts not closer: sim(a,b)=%v sim(a,c)=%v", dot(a, b), dot(a, c))
	}
}

func TestHashingRejectsBadDims(t *testing.T) {
	if _, err := NewHashingProvider(0); err == nil {
		t.Error("expected error for zero dims")
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func embedServer(t *testing.T, dims int, handler func(w http.ResponseWriter, r *http.Request) bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler != nil && handler(w, r) {
			return
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		var resp embedResponse
		for i := range req.Input {
			vec := make([]float64, dims)
			vec[i%dims] = 1
			resp.Data = append(resp.Data, struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{Embedding: vec, Index: i})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPEmbedBatch(t *testing.T) {
	srv := embedServer(t, 4, nil)
	defer srv.Close()

	p, err := NewHTTPProvider(HTTPConfig{Endpoint: srv.URL, Model: "test-model"})
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := p.EmbedBatch(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	if p.Dimensions() != 4 {
		t.Errorf("Dimensions() = %d, want 4", p.Dimensions())
	}
}

func TestHTTPBlankTextsSkipped(t *testing.T) {
	srv := embedServer(t, 4, nil)
	defer srv.Close()

	p, _ := NewHTTPProvider(HTTPConfig{Endpoint: srv.URL, Model: "m"})
	vecs, err := p.EmbedBatch(context.Background(), []string{"  ", "real text"})
	if err != nil {
		t.Fatal(err)
	}
	if vecs[0] != nil {
		t.Errorf("blank text vector = %v, want nil", vecs[0])
	}
	if vecs[1] == nil {
		t.Error("non-blank text got nil vector")
	}
}

func TestHTTPRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := embedServer(t, 4, func(w http.ResponseWriter, r *http.Request) bool {
		if calls.Add(1) == 1 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return true
		}
		return false
	})
	defer srv.Close()

	p, _ := NewHTTPProvider(HTTPConfig{Endpoint: srv.URL, Model: "m", MaxRetries: 2})
	if _, err := p.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("Embed after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestHTTPRateLimitSurfacesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, _ := NewHTTPProvider(HTTPConfig{Endpoint: srv.URL, Model: "m", MaxRetries: 0})
	_, err := p.Embed(context.Background(), "hello")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 7*time.Second {
		t.Errorf("retry-after = %v, want 7s", httpErr.RetryAfter)
	}
}

func TestHTTPConfigValidation(t *testing.T) {
	if _, err := NewHTTPProvider(HTTPConfig{Model: "m"}); err == nil {
		t.Error("expected error for missing endpoint")
	}
	if _, err := NewHTTPProvider(HTTPConfig{Endpoint: "http://x"}); err == nil {
		t.Error("expected error for missing model")
	}
}
