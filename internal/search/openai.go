package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "text-embedding-ada-002"

// maxEmbeddingBatch caps the number of inputs per embeddings request.
const maxEmbeddingBatch = 1000

// ErrMissingAPIKey is returned when no OpenAI API key is configured.
var ErrMissingAPIKey = errors.New("openai: api key required")

// OpenAIConfig configures the OpenAI-backed Embedder.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // Optional: for Azure or proxies
	Model      string
	HTTPClient *http.Client
}

type embeddingsAPI interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	embeddings embeddingsAPI
	model      string
}

// NewOpenAIEmbedder constructs an Embedder from cfg.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openai.NewClient(opts...)

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	return &OpenAIEmbedder{
		embeddings: &client.Embeddings,
		model:      modelName,
	}, nil
}

// Model returns the embedding model name.
func (o *OpenAIEmbedder) Model() string {
	return o.model
}

// Embed returns one vector per text in input order.
func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))

	for start := 0; start < len(texts); start += maxEmbeddingBatch {
		end := start + maxEmbeddingBatch
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := o.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (o *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := o.embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if resp == nil {
		return nil, errors.New("openai embeddings: empty response")
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for n, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("openai embeddings: missing vector for input %d", n)
		}
	}

	return vectors, nil
}
