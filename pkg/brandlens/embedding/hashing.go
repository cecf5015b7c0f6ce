package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
)

// HashingProvider embeds text by feature hashing: each term is hashed to a
// bucket with a sign, the resulting vector is L2-normalized. It is cheap,
// fully deterministic, and good enough for surface-similarity clustering
// when no model endpoint is available.
type HashingProvider struct {
	dims int
}

// NewHashingProvider returns a provider producing vectors of the given
// dimensionality.
func NewHashingProvider(dims int) (*HashingProvider, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: hashing dimensions %d must be positive", internalerr.ErrInvalidConfig, dims)
	}
	return &HashingProvider{dims: dims}, nil
}

// Embed hashes the text's whitespace-separated terms into a normalized
// vector. Text with no terms produces a zero vector.
func (p *HashingProvider) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, p.dims)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(term))
		sum := h.Sum64()
		bucket := int(sum % uint64(p.dims))
		// Highest bit, untouched by the modulus, picks the sign.
		if sum&(1<<63) != 0 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (p *HashingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

// Dimensions returns the configured vector size.
func (p *HashingProvider) Dimensions() int {
	return p.dims
}
