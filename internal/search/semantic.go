package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/khanglvm/sales-pipeline/internal/storage"
	"go.uber.org/zap"
)

// ErrEmbeddingsUnavailable is returned by semantic search without an embedder.
var ErrEmbeddingsUnavailable = errors.New("embedding model not configured")

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

// EmbeddingCache persists vectors across runs.
type EmbeddingCache interface {
	SaveEmbedding(ctx context.Context, key string, vector []float64, model string) error
	GetEmbedding(ctx context.Context, key string) ([]float64, string, error)
}

// EmbeddingModel wraps an Embedder with an in-memory and a persistent cache.
type EmbeddingModel struct {
	embedder Embedder
	store    EmbeddingCache
	cache    map[string][]float64
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewEmbeddingModel creates a new embedding model wrapper. store may be nil.
func NewEmbeddingModel(embedder Embedder, store EmbeddingCache, logger *zap.Logger) *EmbeddingModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingModel{
		embedder: embedder,
		store:    store,
		cache:    make(map[string][]float64),
		logger:   logger,
	}
}

// Enabled reports whether an embedder is configured.
func (e *EmbeddingModel) Enabled() bool {
	return e != nil && e.embedder != nil
}

func (e *EmbeddingModel) cacheKey(text string) string {
	return storage.HashQuery(e.embedder.Model() + "\x00" + text)
}

// EmbedAll returns one vector per text, calling the embedder only for cache misses.
func (e *EmbeddingModel) EmbedAll(ctx context.Context, texts []string) ([][]float64, error) {
	if !e.Enabled() {
		return nil, ErrEmbeddingsUnavailable
	}

	vectors := make([][]float64, len(texts))
	var missing []int

	for idx, text := range texts {
		key := e.cacheKey(text)

		e.mu.RLock()
		vec, ok := e.cache[key]
		e.mu.RUnlock()
		if ok {
			vectors[idx] = vec
			continue
		}

		if e.store != nil {
			stored, model, err := e.store.GetEmbedding(ctx, key)
			if err != nil {
				e.logger.Debug("embedding cache lookup failed", zap.Error(err))
			} else if stored != nil && model == e.embedder.Model() {
				e.mu.Lock()
				e.cache[key] = stored
				e.mu.Unlock()
				vectors[idx] = stored
				continue
			}
		}

		missing = append(missing, idx)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	batch := make([]string, len(missing))
	for n, idx := range missing {
		batch[n] = texts[idx]
	}

	fresh, err := e.embedder.Embed(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(batch) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(batch))
	}

	for n, idx := range missing {
		key := e.cacheKey(texts[idx])
		vectors[idx] = fresh[n]

		e.mu.Lock()
		e.cache[key] = fresh[n]
		e.mu.Unlock()

		if e.store != nil {
			if err := e.store.SaveEmbedding(ctx, key, fresh[n], e.embedder.Model()); err != nil {
				e.logger.Warn("failed to save embedding to storage", zap.Error(err))
			}
		}
	}

	return vectors, nil
}

// cosineSimilarity computes cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SearchSemantic ranks every indexed chunk by cosine similarity to query.
func (i *Indexer) SearchSemantic(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	model := i.embeddings
	i.mu.RUnlock()

	if !model.Enabled() {
		return nil, ErrEmbeddingsUnavailable
	}
	if limit <= 0 {
		limit = 10
	}

	chunks := i.Chunks()
	if len(chunks) == 0 {
		return []SearchResult{}, nil
	}

	texts := make([]string, 0, len(chunks)+1)
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	texts = append(texts, query)

	vectors, err := model.EmbedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	queryVec := vectors[len(chunks)]

	results := make([]SearchResult, 0, len(chunks))
	for n, c := range chunks {
		results = append(results, SearchResult{
			ChunkID: c.ID,
			Source:  c.Source,
			Text:    c.Text,
			Score:   cosineSimilarity(queryVec, vectors[n]),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
