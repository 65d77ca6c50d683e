package search

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanglvm/sales-pipeline/internal/storage"
)

// keywordEmbedder maps text onto counts of a fixed vocabulary.
type keywordEmbedder struct {
	vocab []string
	calls int
	texts int
	err   error
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocab: []string{"decline", "growth", "sales"}}
}

func (k *keywordEmbedder) Model() string { return "keyword-test" }

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	k.calls++
	k.texts += len(texts)
	if k.err != nil {
		return nil, k.err
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float64, len(k.vocab))
		for j, word := range k.vocab {
			vec[j] = float64(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

func TestCosineSimilarity_Identical(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.0, 3.0}

	if similarity := cosineSimilarity(a, b); math.Abs(similarity-1.0) > 1e-9 {
		t.Errorf("expected similarity 1.0 for identical vectors, got %f", similarity)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	if similarity := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); similarity != 0.0 {
		t.Errorf("expected similarity 0.0 for orthogonal vectors, got %f", similarity)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{-1.0, -2.0, -3.0}

	if similarity := cosineSimilarity(a, b); math.Abs(similarity+1.0) > 1e-9 {
		t.Errorf("expected similarity -1.0 for opposite vectors, got %f", similarity)
	}
}

func TestCosineSimilarity_DifferentLengths(t *testing.T) {
	if similarity := cosineSimilarity([]float64{1, 2, 3}, []float64{1, 2}); similarity != 0.0 {
		t.Errorf("expected similarity 0.0 for different lengths, got %f", similarity)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	if similarity := cosineSimilarity([]float64{0, 0, 0}, []float64{1, 2, 3}); similarity != 0.0 {
		t.Errorf("expected similarity 0.0 for zero vector, got %f", similarity)
	}
}

func TestSearchSemantic(t *testing.T) {
	indexer := newTestIndexer(t)
	indexer.SetEmbeddingModel(NewEmbeddingModel(newKeywordEmbedder(), nil, nil))

	results, err := indexer.SearchSemantic(context.Background(), "sales decline reasons", 1)
	if err != nil {
		t.Fatalf("semantic search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ChunkID != "info.txt#0" {
		t.Errorf("expected info.txt#0 to rank first, got %s", results[0].ChunkID)
	}
	if math.Abs(results[0].Score-1.0) > 1e-9 {
		t.Errorf("expected similarity 1.0, got %f", results[0].Score)
	}
}

func TestSearchSemantic_WithoutEmbedder(t *testing.T) {
	indexer := newTestIndexer(t)

	if _, err := indexer.SearchSemantic(context.Background(), "sales", 1); !errors.Is(err, ErrEmbeddingsUnavailable) {
		t.Errorf("expected ErrEmbeddingsUnavailable, got %v", err)
	}
}

func TestSearchSemantic_EmbedderError(t *testing.T) {
	indexer := newTestIndexer(t)
	embedder := newKeywordEmbedder()
	embedder.err = errors.New("rate limited")
	indexer.SetEmbeddingModel(NewEmbeddingModel(embedder, nil, nil))

	_, err := indexer.SearchSemantic(context.Background(), "sales", 1)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected embedder error to propagate, got %v", err)
	}
}

func TestEmbeddingModel_MemoryCache(t *testing.T) {
	embedder := newKeywordEmbedder()
	model := NewEmbeddingModel(embedder, nil, nil)
	ctx := context.Background()

	if _, err := model.EmbedAll(ctx, []string{"sales", "growth"}); err != nil {
		t.Fatalf("EmbedAll failed: %v", err)
	}
	if _, err := model.EmbedAll(ctx, []string{"sales", "decline"}); err != nil {
		t.Fatalf("EmbedAll failed: %v", err)
	}

	if embedder.calls != 2 || embedder.texts != 3 {
		t.Errorf("expected 2 calls embedding 3 texts, got %d calls and %d texts", embedder.calls, embedder.texts)
	}
}

func TestEmbeddingModel_PersistentCache(t *testing.T) {
	store := storage.NewStorage(filepath.Join(t.TempDir(), "cache.db"), nil)
	if err := store.Init(); err != nil {
		t.Fatalf("storage init failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first := newKeywordEmbedder()
	if _, err := NewEmbeddingModel(first, store, nil).EmbedAll(ctx, []string{"sales decline"}); err != nil {
		t.Fatalf("EmbedAll failed: %v", err)
	}

	second := newKeywordEmbedder()
	vectors, err := NewEmbeddingModel(second, store, nil).EmbedAll(ctx, []string{"sales decline"})
	if err != nil {
		t.Fatalf("EmbedAll failed: %v", err)
	}

	if second.calls != 0 {
		t.Errorf("expected persistent cache hit, embedder called %d times", second.calls)
	}
	if len(vectors) != 1 || vectors[0][0] != 1 || vectors[0][2] != 1 {
		t.Errorf("unexpected cached vector: %v", vectors)
	}
}

func TestEmbeddingModel_Disabled(t *testing.T) {
	var model *EmbeddingModel
	if model.Enabled() {
		t.Error("nil model should be disabled")
	}
	if NewEmbeddingModel(nil, nil, nil).Enabled() {
		t.Error("model without embedder should be disabled")
	}
}
