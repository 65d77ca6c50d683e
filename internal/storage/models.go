package storage

import "time"

// Sale is a single row of the sales table.
type Sale struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Product     string    `json:"product"`
	Region      string    `json:"region"`
	Salesperson string    `json:"salesperson"`
}

// Customer is a single row of the customers table.
type Customer struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Industry      string  `json:"industry"`
	LifetimeValue float64 `json:"lifetime_value"`
}

// SeedSummary reports what SeedSample inserted.
type SeedSummary struct {
	Sales     int       `json:"sales"`
	Customers int       `json:"customers"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

// dateLayout is the storage format of the sales.date column.
const dateLayout = "2006-01-02"
