package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

// Indexer manages the search index for knowledge chunks.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	chunks     map[string]Chunk
	order      []string
	embeddings *EmbeddingModel
	logger     *zap.Logger
}

// NewIndexer creates a new search indexer with in-memory Bleve index.
func NewIndexer(logger *zap.Logger) (*Indexer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{
		bleveIndex: index,
		chunks:     make(map[string]Chunk),
		logger:     logger,
	}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	chunkMapping := bleve.NewDocumentMapping()

	// Text field: searchable and stored for retrieval
	textFieldMapping := bleve.NewTextFieldMapping()
	chunkMapping.AddFieldMappingsAt("text", textFieldMapping)

	// Source field: stored file name, matched exactly
	sourceFieldMapping := bleve.NewTextFieldMapping()
	sourceFieldMapping.Analyzer = keyword.Name
	sourceFieldMapping.IncludeInAll = false
	chunkMapping.AddFieldMappingsAt("source", sourceFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", chunkMapping)

	return indexMapping
}

// SetEmbeddingModel enables semantic search over the indexed chunks.
func (i *Indexer) SetEmbeddingModel(model *EmbeddingModel) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.embeddings = model
}

// IndexChunks adds chunks to the index. Re-indexing an ID replaces it.
func (i *Indexer) IndexChunks(chunks []Chunk) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for _, chunk := range chunks {
		doc := map[string]interface{}{
			"text":   chunk.Text,
			"source": chunk.Source,
		}

		if err := batch.Index(chunk.ID, doc); err != nil {
			i.logger.Warn("failed to index chunk", zap.String("id", chunk.ID), zap.Error(err))
			continue
		}

		if _, exists := i.chunks[chunk.ID]; !exists {
			i.order = append(i.order, chunk.ID)
		}
		i.chunks[chunk.ID] = chunk
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index chunks: %w", err)
	}

	return nil
}

// Chunks returns the indexed chunks in insertion order.
func (i *Indexer) Chunks() []Chunk {
	i.mu.RLock()
	defer i.mu.RUnlock()

	chunks := make([]Chunk, 0, len(i.order))
	for _, id := range i.order {
		chunks = append(chunks, i.chunks[id])
	}
	return chunks
}

// Count returns the total number of indexed chunks.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}

// buildMatchQuery creates a match query for keyword search.
func (i *Indexer) buildMatchQuery(searchText string) query.Query {
	return bleve.NewMatchQuery(searchText)
}
