package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// AverageSales returns AVG(amount) over the sales table.
// An empty table yields 0 with no error.
func (s *SQLiteStorage) AverageSales(ctx context.Context) (float64, error) {
	if !s.enabled || s.db == nil {
		return 0, ErrStorageDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, "SELECT AVG(amount) FROM sales").Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to query average sales: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}

	return avg.Float64, nil
}

// RecordSale inserts a single sale.
func (s *SQLiteStorage) RecordSale(ctx context.Context, sale Sale) error {
	if !s.enabled || s.db == nil {
		return ErrStorageDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO sales (date, amount, product, region, salesperson)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		sale.Date.Format(dateLayout),
		sale.Amount,
		sale.Product,
		sale.Region,
		sale.Salesperson,
	); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}

	return nil
}

// CountSales returns the number of rows in the sales table.
func (s *SQLiteStorage) CountSales(ctx context.Context) (int, error) {
	if !s.enabled || s.db == nil {
		return 0, ErrStorageDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}

	return n, nil
}
