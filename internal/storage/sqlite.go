package storage

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "sales_schema", up: s.migration001SalesSchema},
		{version: 2, name: "chunk_embeddings", up: s.migration002ChunkEmbeddings},
	}

	for _, m := range migrations {
		if version < m.version {
			s.logger.Debug("running migration", zap.Int("version", m.version), zap.String("name", m.name))
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001SalesSchema creates the sales and customers tables.
func (s *SQLiteStorage) migration001SalesSchema() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT,
			amount REAL,
			product TEXT,
			region TEXT,
			salesperson TEXT
		)
	`); err != nil {
		return fmt.Errorf("failed to create sales table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sales_date
		ON sales(date DESC)
	`); err != nil {
		return fmt.Errorf("failed to create sales date index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			email TEXT,
			industry TEXT,
			lifetime_value REAL,
			created_date TEXT
		)
	`); err != nil {
		return fmt.Errorf("failed to create customers table: %w", err)
	}

	return nil
}

// migration002ChunkEmbeddings creates the embedding cache.
func (s *SQLiteStorage) migration002ChunkEmbeddings() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunk_embeddings (
			content_hash TEXT PRIMARY KEY,
			vector BLOB NOT NULL,
			model TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create chunk_embeddings table: %w", err)
	}

	return nil
}

// vectorToJSON converts a vector to JSON for storage.
func vectorToJSON(vector []float64) (string, error) {
	data, err := json.Marshal(vector)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vector: %w", err)
	}
	return string(data), nil
}

// jsonToVector parses JSON storage back to a vector.
func jsonToVector(jsonStr string) ([]float64, error) {
	var vector []float64
	if err := json.Unmarshal([]byte(jsonStr), &vector); err != nil {
		return nil, err
	}
	return vector, nil
}
