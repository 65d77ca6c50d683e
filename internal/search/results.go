/*
Package search implements the knowledge-document lookup used by the insight stage.

Text files are split into overlapping chunks, indexed in an in-memory Bleve
index for keyword search, and optionally embedded for cosine-similarity
search. Hybrid search fuses both score sets.
*/
package search

// Chunk is one indexed piece of a knowledge document.
type Chunk struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// SearchResult represents a single search result with relevance score.
type SearchResult struct {
	ChunkID string  `json:"id"`
	Source  string  `json:"source"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}
