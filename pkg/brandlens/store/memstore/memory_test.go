package memstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

func testMention(id string, embedding []float64) mention.Mention {
	return mention.Mention{
		ID:        id,
		Brand:     "amazon",
		Platform:  "twitter",
		Text:      "delivered the next day super fast shipping",
		Polarity:  mention.Positive,
		Intensity: 0.6,
		Embedding: embedding,
	}
}

func TestAddAndAll(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 5; i++ {
		m := testMention(fmt.Sprintf("m_%04d", i), []float64{float64(i), 1, 2})
		if err := s.Add(ctx, m); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len(All) = %d, want 5", len(all))
	}
	for i, m := range all {
		want := fmt.Sprintf("m_%04d", i)
		if m.ID != want {
			t.Errorf("insertion order broken at %d: got %s, want %s", i, m.ID, want)
		}
	}
	if s.Dimension() != 3 {
		t.Errorf("Dimension = %d, want 3", s.Dimension())
	}
}

func TestDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Add(ctx, testMention("m_0001", []float64{1, 2, 3})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := s.Add(ctx, testMention("m_0002", []float64{1, 2}))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on dimension mismatch, got %v", err)
	}
}

func TestDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Add(ctx, testMention("m_0001", []float64{1, 2})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := s.Add(ctx, testMention("m_0001", []float64{3, 4}))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on duplicate id, got %v", err)
	}
}

func TestSealBlocksWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Add(ctx, testMention("m_0001", []float64{1, 2})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Seal(ctx); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !s.Sealed() {
		t.Fatal("Sealed() = false after Seal")
	}

	err := s.Add(ctx, testMention("m_0002", []float64{1, 2}))
	if !errors.Is(err, internalerr.ErrStoreSealed) {
		t.Fatalf("expected ErrStoreSealed, got %v", err)
	}

	// Reads still work after sealing.
	if _, ok, err := s.Get(ctx, "m_0001"); err != nil || !ok {
		t.Fatalf("Get after seal: ok=%v err=%v", ok, err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Add(ctx, testMention("m_0001", []float64{1, 2})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m, _, err := s.Get(ctx, "m_0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	m.Embedding[0] = 42

	again, _, _ := s.Get(ctx, "m_0001")
	if again.Embedding[0] == 42 {
		t.Error("stored embedding mutated through returned copy")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	if err := s.Add(ctx, testMention("m_0001", []float64{1})); err == nil {
		t.Error("Add with cancelled context should fail")
	}
	if _, err := s.All(ctx); err == nil {
		t.Error("All with cancelled context should fail")
	}
}
