package storage

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	seedDays      = 365
	seedMinPerDay = 2
	seedMaxPerDay = 5
	seedMinAmount = 5000.0
	seedMaxAmount = 50000.0
)

var (
	sampleProducts     = []string{"Product A", "Product B", "Product C", "Product D"}
	sampleRegions      = []string{"North", "South", "East", "West"}
	sampleSalespersons = []string{"John Smith", "Jane Doe", "Bob Johnson", "Alice Brown"}

	// SampleCustomers are inserted by SeedSample.
	SampleCustomers = []Customer{
		{Name: "Acme Corp", Email: "contact@acme.com", Industry: "Technology", LifetimeValue: 500000},
		{Name: "Global Industries", Email: "sales@global.com", Industry: "Manufacturing", LifetimeValue: 750000},
		{Name: "Finance Plus", Email: "info@financeplus.com", Industry: "Finance", LifetimeValue: 600000},
		{Name: "Health Solutions", Email: "hello@healthsol.com", Industry: "Healthcare", LifetimeValue: 450000},
		{Name: "Retail Mega", Email: "support@retailmega.com", Industry: "Retail", LifetimeValue: 550000},
		{Name: "Tech Innovators", Email: "contact@techinnovators.com", Industry: "Technology", LifetimeValue: 700000},
		{Name: "Smart Finance", Email: "info@smartfinance.com", Industry: "Finance", LifetimeValue: 650000},
	}
)

// SeedSample clears the sales and customers tables and fills them with a
// year of generated sales ending the day before now, 2 to 5 sales per day,
// each amount uniform in [5000, 50000).
func (s *SQLiteStorage) SeedSample(ctx context.Context, rng *rand.Rand, now time.Time) (SeedSummary, error) {
	if !s.enabled || s.db == nil {
		return SeedSummary{}, ErrStorageDisabled
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SeedSummary{}, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales"); err != nil {
		return SeedSummary{}, fmt.Errorf("failed to clear sales: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM customers"); err != nil {
		return SeedSummary{}, fmt.Errorf("failed to clear customers: %w", err)
	}

	insertSale, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (date, amount, product, region, salesperson)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return SeedSummary{}, fmt.Errorf("failed to prepare sale insert: %w", err)
	}
	defer insertSale.Close()

	base := now.AddDate(0, 0, -seedDays)
	summary := SeedSummary{From: base, To: base.AddDate(0, 0, seedDays-1)}

	for day := 0; day < seedDays; day++ {
		date := base.AddDate(0, 0, day).Format(dateLayout)
		perDay := seedMinPerDay + rng.Intn(seedMaxPerDay-seedMinPerDay+1)
		for j := 0; j < perDay; j++ {
			amount := seedMinAmount + rng.Float64()*(seedMaxAmount-seedMinAmount)
			if _, err := insertSale.ExecContext(ctx,
				date,
				amount,
				sampleProducts[rng.Intn(len(sampleProducts))],
				sampleRegions[rng.Intn(len(sampleRegions))],
				sampleSalespersons[rng.Intn(len(sampleSalespersons))],
			); err != nil {
				return SeedSummary{}, fmt.Errorf("failed to insert sale: %w", err)
			}
			summary.Sales++
		}
	}

	created := base.Format(dateLayout)
	for _, c := range SampleCustomers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers (name, email, industry, lifetime_value, created_date)
			VALUES (?, ?, ?, ?, ?)
		`, c.Name, c.Email, c.Industry, c.LifetimeValue, created); err != nil {
			return SeedSummary{}, fmt.Errorf("failed to insert customer %s: %w", c.Name, err)
		}
		summary.Customers++
	}

	if err := tx.Commit(); err != nil {
		return SeedSummary{}, fmt.Errorf("failed to commit seed data: %w", err)
	}

	return summary, nil
}

// ListCustomers returns every stored customer ordered by name.
func (s *SQLiteStorage) ListCustomers(ctx context.Context) ([]Customer, error) {
	if !s.enabled || s.db == nil {
		return nil, ErrStorageDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, email, industry, lifetime_value
		FROM customers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.Name, &c.Email, &c.Industry, &c.LifetimeValue); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}
