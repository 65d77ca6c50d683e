package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

// SearchBM25 performs keyword search using Bleve.
func (i *Indexer) SearchBM25(query string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchRequest := bleve.NewSearchRequestOptions(i.buildMatchQuery(query), limit, 0, false)
	searchRequest.Fields = []string{"text", "source"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// SearchBySource performs keyword search scoped to one document.
func (i *Indexer) SearchBySource(query, source string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	sourceQuery := bleve.NewTermQuery(source)
	sourceQuery.SetField("source")
	conjunctionQuery := bleve.NewConjunctionQuery(i.buildMatchQuery(query), sourceQuery)

	searchRequest := bleve.NewSearchRequestOptions(conjunctionQuery, limit, 0, false)
	searchRequest.Fields = []string{"text", "source"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve search results to our SearchResult format.
func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	searchResults := make([]SearchResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		text, _ := hit.Fields["text"].(string)
		source, _ := hit.Fields["source"].(string)

		searchResults = append(searchResults, SearchResult{
			ChunkID: hit.ID,
			Source:  source,
			Text:    text,
			Score:   hit.Score,
		})
	}

	return searchResults
}
