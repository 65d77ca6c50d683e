package stages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	err   error
	panic bool
}

func (s stubEmbedder) Model() string { return "stub" }

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if s.panic {
		panic("embedding backend crashed")
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		out[i] = []float64{
			float64(strings.Count(lower, "decline")),
			float64(strings.Count(lower, "growth")),
		}
	}
	return out, nil
}

func docsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

const sampleDoc = "Sales decline reasons include seasonality and supply chain delays."

func lookup(t *testing.T, cfg InsightConfig) string {
	t.Helper()
	out, err := NewInsight(cfg, nil).Run(context.Background(), pipeline.Record{})
	require.NoError(t, err)
	return out.RAGInsight
}

func TestInsightNoDocuments(t *testing.T) {
	assert.Equal(t, NoDocumentsMessage, lookup(t, InsightConfig{DocsDir: filepath.Join(t.TempDir(), "absent")}))
	assert.Equal(t, NoDocumentsMessage, lookup(t, InsightConfig{DocsDir: t.TempDir(), Mode: ModeKeyword}))
}

func TestInsightSemanticRequiresAPIKey(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})
	assert.Equal(t, APIKeyRequiredMessage, lookup(t, InsightConfig{DocsDir: dir}))
	assert.Equal(t, APIKeyRequiredMessage, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeSemantic}))
}

func TestInsightSemantic(t *testing.T) {
	dir := docsDir(t, map[string]string{
		"growth.txt": "Growth comes from new regions.",
		"info.txt":   sampleDoc,
	})

	got := lookup(t, InsightConfig{DocsDir: dir, Mode: ModeSemantic, Embedder: stubEmbedder{}})
	assert.Equal(t, sampleDoc, got)
}

func TestInsightKeyword(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})
	assert.Equal(t, sampleDoc, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeKeyword}))

	unrelated := docsDir(t, map[string]string{"growth.txt": "Growth comes from new regions."})
	assert.Equal(t, NoInsightsMessage, lookup(t, InsightConfig{DocsDir: unrelated, Mode: ModeKeyword}))
}

func TestInsightKeywordScopedToSource(t *testing.T) {
	archived := "Sales decline reasons last year were pricing and churn."
	dir := docsDir(t, map[string]string{
		"archive.txt": archived,
		"info.txt":    sampleDoc,
	})

	assert.Equal(t, archived, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeKeyword, Source: "archive.txt"}))
	assert.Equal(t, sampleDoc, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeKeyword, Source: "info.txt"}))
	assert.Equal(t, NoInsightsMessage, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeKeyword, Source: "missing.txt"}))
}

func TestInsightHybridWithoutEmbedderUsesKeyword(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})
	assert.Equal(t, sampleDoc, lookup(t, InsightConfig{DocsDir: dir, Mode: ModeHybrid}))
}

func TestInsightNoTextFiles(t *testing.T) {
	dir := docsDir(t, map[string]string{"notes.md": "markdown is ignored"})
	assert.Equal(t, "RAG Search: no text chunks to index", lookup(t, InsightConfig{DocsDir: dir, Mode: ModeKeyword}))
}

func TestInsightErrorIsTruncated(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})
	long := errors.New(strings.Repeat("é", 300))

	got := lookup(t, InsightConfig{DocsDir: dir, Embedder: stubEmbedder{err: long}})
	assert.True(t, strings.HasPrefix(got, "RAG Search: failed to embed chunks: "), got)
	assert.Equal(t, utf8.RuneCountInString("RAG Search: ")+200, utf8.RuneCountInString(got))
}

func TestInsightRecoversFromPanic(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})

	got := lookup(t, InsightConfig{DocsDir: dir, Embedder: stubEmbedder{panic: true}})
	assert.Equal(t, "RAG Search: embedding backend crashed", got)
}

func TestInsightUnknownMode(t *testing.T) {
	dir := docsDir(t, map[string]string{"info.txt": sampleDoc})
	assert.Equal(t, "RAG Search: unknown insight mode: fuzzy", lookup(t, InsightConfig{DocsDir: dir, Mode: "fuzzy"}))
}
