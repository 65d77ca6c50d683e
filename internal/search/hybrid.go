package search

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// FusionConfig defines weights for hybrid score fusion.
type FusionConfig struct {
	SemanticWeight float64
	KeywordWeight  float64
}

// DefaultFusionConfig provides balanced fusion (70% semantic, 30% keyword).
var DefaultFusionConfig = FusionConfig{
	SemanticWeight: 0.7,
	KeywordWeight:  0.3,
}

// SearchHybrid performs hybrid search combining keyword and semantic scores.
// When semantic search is unavailable it returns the keyword results.
func (i *Indexer) SearchHybrid(ctx context.Context, query string, limit int, config FusionConfig) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	bm25Results, err := i.SearchBM25(query, limit*2)
	if err != nil {
		return nil, err
	}

	semanticResults, err := i.SearchSemantic(ctx, query, limit*2)
	if err != nil {
		i.logger.Debug("semantic search unavailable, using keyword results", zap.Error(err))
		return bm25Results, nil
	}

	fusedResults := fuseScores(normalizeScores(bm25Results), semanticResults, config)

	sort.Slice(fusedResults, func(a, b int) bool {
		if fusedResults[a].Score != fusedResults[b].Score {
			return fusedResults[a].Score > fusedResults[b].Score
		}
		return fusedResults[a].ChunkID < fusedResults[b].ChunkID
	})

	if len(fusedResults) > limit {
		fusedResults = fusedResults[:limit]
	}

	return fusedResults, nil
}

// fuseScores combines keyword and semantic results using weighted fusion.
func fuseScores(bm25Results, semanticResults []SearchResult, config FusionConfig) []SearchResult {
	semanticMap := make(map[string]SearchResult, len(semanticResults))
	for _, result := range semanticResults {
		semanticMap[result.ChunkID] = result
	}

	bm25Map := make(map[string]SearchResult, len(bm25Results))
	for _, result := range bm25Results {
		bm25Map[result.ChunkID] = result
	}

	allIDs := make(map[string]bool)
	for _, result := range bm25Results {
		allIDs[result.ChunkID] = true
	}
	for _, result := range semanticResults {
		allIDs[result.ChunkID] = true
	}

	fusedResults := make([]SearchResult, 0, len(allIDs))

	for id := range allIDs {
		bm25Result, hasBM25 := bm25Map[id]
		semanticResult, hasSemantic := semanticMap[id]

		var fused SearchResult
		switch {
		case hasBM25 && hasSemantic:
			fused = semanticResult
			fused.Score = config.SemanticWeight*semanticResult.Score +
				config.KeywordWeight*bm25Result.Score
		case hasBM25:
			fused = bm25Result
		case hasSemantic:
			fused = semanticResult
		default:
			continue
		}

		fusedResults = append(fusedResults, fused)
	}

	return fusedResults
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return results
	}

	minScore := results[0].Score
	maxScore := results[0].Score

	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	// Avoid division by zero - when all scores are equal, set all to 1.0
	if maxScore == minScore {
		normalized := make([]SearchResult, len(results))
		for i, result := range results {
			normalized[i] = result
			normalized[i].Score = 1.0
		}
		return normalized
	}

	normalized := make([]SearchResult, len(results))
	for i, result := range results {
		normalized[i] = result
		normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
	}

	return normalized
}
