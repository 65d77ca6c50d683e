package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultSeparator    = "\n\n"
)

// ErrNoDocuments is returned when a directory yields no text chunks.
var ErrNoDocuments = errors.New("no text chunks to index")

// HasDocuments reports whether dir exists and contains at least one entry.
func HasDocuments(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// LoadChunks reads every *.txt file directly under dir and splits it into chunks.
func LoadChunks(dir string) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var chunks []Chunk
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		for n, text := range SplitText(string(data), DefaultSeparator, DefaultChunkSize, DefaultChunkOverlap) {
			chunks = append(chunks, Chunk{
				ID:     fmt.Sprintf("%s#%d", name, n),
				Source: name,
				Text:   text,
			})
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}
	return chunks, nil
}

// SplitText splits text on separator and greedily merges the pieces into
// chunks of at most chunkSize characters, carrying up to chunkOverlap
// characters of trailing pieces into the next chunk. A single piece longer
// than chunkSize becomes its own chunk. Chunks are whitespace-trimmed and
// empty chunks are dropped.
func SplitText(text, separator string, chunkSize, chunkOverlap int) []string {
	var pieces []string
	if separator == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, separator)
	}

	splits := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			splits = append(splits, p)
		}
	}

	return mergeSplits(splits, separator, chunkSize, chunkOverlap)
}

func mergeSplits(splits []string, separator string, chunkSize, chunkOverlap int) []string {
	sepLen := utf8.RuneCountInString(separator)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var docs []string
	var current []string
	total := 0

	for _, piece := range splits {
		n := utf8.RuneCountInString(piece)

		if total+n+joinCost(len(current)) > chunkSize && len(current) > 0 {
			if doc := joinSplits(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			for len(current) > 0 && (total > chunkOverlap || (total+n+joinCost(len(current)) > chunkSize && total > 0)) {
				total -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}

	if doc := joinSplits(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinSplits(pieces []string, separator string) string {
	return strings.TrimSpace(strings.Join(pieces, separator))
}
