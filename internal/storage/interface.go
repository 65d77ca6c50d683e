/*
Package storage implements the historical sales store and the embedding cache.

The store is a SQLite database (modernc.org/sqlite, a pure Go, CGo-free
implementation) holding the sales and customers tables plus cached chunk
embeddings. If the database cannot be opened the storage disables itself and
reads report ErrStorageDisabled instead of failing hard.
*/
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrStorageDisabled is returned by reads when the database is unavailable.
var ErrStorageDisabled = errors.New("storage disabled")

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// AverageSales returns the mean sale amount, or 0 when there are no sales.
	AverageSales(ctx context.Context) (float64, error)

	// RecordSale inserts a single sale.
	RecordSale(ctx context.Context, sale Sale) error

	// CountSales returns the number of stored sales.
	CountSales(ctx context.Context) (int, error)

	// SeedSample replaces all sales and customers with generated sample data.
	SeedSample(ctx context.Context, rng *rand.Rand, now time.Time) (SeedSummary, error)

	// SaveEmbedding caches an embedding vector keyed by content hash.
	SaveEmbedding(ctx context.Context, key string, vector []float64, model string) error

	// GetEmbedding retrieves a cached embedding. A miss returns a nil vector.
	GetEmbedding(ctx context.Context, key string) ([]float64, string, error)

	// Close closes the database connection.
	Close() error
}

var _ Storage = (*SQLiteStorage)(nil)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	logger   *zap.Logger
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a SQLite storage for the database at dbPath.
//
// An empty path yields a disabled storage. The file and its directory are
// created on Init.
func NewStorage(dbPath string, logger *zap.Logger) *SQLiteStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dbPath == "" {
		logger.Warn("no database path configured, storage disabled")
		return &SQLiteStorage{enabled: false, logger: logger}
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
		logger:  logger,
	}
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		if dir := filepath.Dir(s.dbPath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				initErr = fmt.Errorf("failed to create db directory: %w", err)
				s.enabled = false
				return
			}
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			s.logger.Warn("storage disabled", zap.Error(initErr))
			return
		}
	})

	return initErr
}

// Enabled reports whether the database is usable.
func (s *SQLiteStorage) Enabled() bool {
	return s.enabled && s.db != nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashQuery creates a SHA256 hash of a text, used as the embedding cache key.
func HashQuery(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
