package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SaveEmbedding caches an embedding vector keyed by content hash.
// Write failures are logged and swallowed; the cache is best effort.
func (s *SQLiteStorage) SaveEmbedding(ctx context.Context, key string, vector []float64, model string) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vectorJSON, err := vectorToJSON(vector)
	if err != nil {
		s.logger.Warn("failed to encode embedding", zap.Error(err))
		return nil
	}

	query := `
		INSERT OR REPLACE INTO chunk_embeddings (content_hash, vector, model, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		key,
		vectorJSON,
		model,
		time.Now().Format(time.RFC3339),
	); err != nil {
		s.logger.Warn("failed to save embedding", zap.Error(err))
	}

	return nil
}

// GetEmbedding retrieves a cached embedding and the model that produced it.
func (s *SQLiteStorage) GetEmbedding(ctx context.Context, key string) ([]float64, string, error) {
	if !s.enabled || s.db == nil {
		return nil, "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var vectorJSON, model string
	err := s.db.QueryRowContext(ctx, `
		SELECT vector, model
		FROM chunk_embeddings
		WHERE content_hash = ?
	`, key).Scan(&vectorJSON, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query embedding: %w", err)
	}

	vector, err := jsonToVector(vectorJSON)
	if err != nil {
		s.logger.Warn("failed to parse embedding vector", zap.Error(err))
		return nil, "", nil
	}

	return vector, model, nil
}
