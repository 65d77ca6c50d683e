package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/khanglvm/sales-pipeline/internal/search"
	"go.uber.org/zap"
)

// Insight lookup modes.
const (
	ModeSemantic = "semantic"
	ModeKeyword  = "keyword"
	ModeHybrid   = "hybrid"
)

// InsightQuery is the fixed lookup query.
const InsightQuery = "sales decline reasons"

// Fallback insight texts.
const (
	NoDocumentsMessage    = "No knowledge documents found."
	APIKeyRequiredMessage = "RAG agent: Searching knowledge base... (API key required for embeddings)"
	NoInsightsMessage     = "No specific insights found."
	searchErrorPrefix     = "RAG Search: "
	searchErrorMaxRunes   = 200
)

// InsightConfig configures the insight stage.
type InsightConfig struct {
	// DocsDir holds the *.txt knowledge documents.
	DocsDir string

	// Mode is one of ModeSemantic, ModeKeyword or ModeHybrid. Empty means semantic.
	Mode string

	// Embedder is nil when no API key is configured.
	Embedder search.Embedder

	// Cache persists embeddings across runs. Optional.
	Cache search.EmbeddingCache

	// Source restricts keyword lookups to one document file name. Optional.
	Source string
}

// Insight looks up the best-matching knowledge snippet.
type Insight struct {
	cfg    InsightConfig
	logger *zap.Logger
}

// NewInsight creates the insight stage.
func NewInsight(cfg InsightConfig, logger *zap.Logger) *Insight {
	if cfg.Mode == "" {
		cfg.Mode = ModeSemantic
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Insight{cfg: cfg, logger: logger}
}

func (s *Insight) Name() string { return NameInsight }

func (s *Insight) Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error) {
	rec.RAGInsight = s.Lookup(ctx)
	return rec, nil
}

// Lookup returns the insight text. It never fails; errors become a
// "RAG Search: " message.
func (s *Insight) Lookup(ctx context.Context) (insight string) {
	if !search.HasDocuments(s.cfg.DocsDir) {
		return NoDocumentsMessage
	}
	if s.cfg.Mode == ModeSemantic && s.cfg.Embedder == nil {
		return APIKeyRequiredMessage
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("insight lookup panicked", zap.Any("panic", r))
			insight = searchErrorMessage(fmt.Errorf("%v", r))
		}
	}()

	result, found, err := s.search(ctx)
	if err != nil {
		s.logger.Warn("insight lookup failed", zap.String("mode", s.cfg.Mode), zap.Error(err))
		return searchErrorMessage(err)
	}
	if !found {
		return NoInsightsMessage
	}

	s.logger.Debug("insight found", zap.String("chunk", result.ChunkID), zap.Float64("score", result.Score))
	return result.Text
}

func (s *Insight) search(ctx context.Context) (search.SearchResult, bool, error) {
	chunks, err := search.LoadChunks(s.cfg.DocsDir)
	if err != nil {
		return search.SearchResult{}, false, err
	}

	indexer, err := search.NewIndexer(s.logger)
	if err != nil {
		return search.SearchResult{}, false, err
	}
	defer indexer.Close()

	if err := indexer.IndexChunks(chunks); err != nil {
		return search.SearchResult{}, false, err
	}
	// Chunks that fail to index are skipped, so the index may still be empty.
	indexed, err := indexer.Count()
	if err != nil {
		return search.SearchResult{}, false, err
	}
	if indexed == 0 {
		return search.SearchResult{}, false, search.ErrNoDocuments
	}
	s.logger.Debug("knowledge chunks indexed", zap.Uint64("count", indexed), zap.Int("loaded", len(chunks)))
	if s.cfg.Embedder != nil {
		indexer.SetEmbeddingModel(search.NewEmbeddingModel(s.cfg.Embedder, s.cfg.Cache, s.logger))
	}

	var results []search.SearchResult
	switch s.cfg.Mode {
	case ModeSemantic:
		results, err = indexer.SearchSemantic(ctx, InsightQuery, 1)
	case ModeKeyword:
		if s.cfg.Source != "" {
			results, err = indexer.SearchBySource(InsightQuery, s.cfg.Source, 1)
		} else {
			results, err = indexer.SearchBM25(InsightQuery, 1)
		}
	case ModeHybrid:
		results, err = indexer.SearchHybrid(ctx, InsightQuery, 1, search.DefaultFusionConfig)
	default:
		err = errors.New("unknown insight mode: " + s.cfg.Mode)
	}
	if err != nil {
		return search.SearchResult{}, false, err
	}
	if len(results) == 0 {
		return search.SearchResult{}, false, nil
	}

	return results[0], true, nil
}

func searchErrorMessage(err error) string {
	msg := []rune(err.Error())
	if len(msg) > searchErrorMaxRunes {
		msg = msg[:searchErrorMaxRunes]
	}
	return searchErrorPrefix + string(msg)
}
