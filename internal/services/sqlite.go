package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"

	_ "modernc.org/sqlite"
)

// TimeLayout is how timestamps are written to the store (UTC)
const TimeLayout = "2006-01-02 15:04:05"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id TEXT,
		product_id TEXT,
		amount REAL,
		created_at TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT,
		created_at TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		name TEXT,
		price REAL,
		category TEXT,
		created_at TEXT
	);`,
}

const revenueSelect = `SELECT
		COALESCE(SUM(amount), 0) AS total_revenue,
		COUNT(*) AS transaction_count,
		COALESCE(AVG(amount), 0) AS average_transaction
	FROM transactions `

var revenueQueries = map[string]string{
	PeriodLastQuarter: revenueSelect +
		`WHERE datetime(created_at) >= datetime('now', '-3 months')
		AND datetime(created_at) < datetime('now')`,
	PeriodLastYear: revenueSelect +
		`WHERE strftime('%Y', created_at) = strftime('%Y', 'now', '-1 year')`,
	PeriodCurrentMonth: revenueSelect +
		`WHERE strftime('%Y-%m', created_at) = strftime('%Y-%m', 'now')`,
}

// SQLStore is the BusinessData implementation backed by SQLite
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (creating if needed) the database at path and ensures the schema.
// ":memory:" opens a private in-memory database.
func NewSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("✅ Business database connected")
	return store, nil
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	for _, query := range schema {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Available reports whether the database answers queries
func (s *SQLStore) Available() bool {
	return s != nil && s.db != nil
}

// Query runs a logical query. Revenue returns one aggregate row, or no rows
// when the period has no transactions.
func (s *SQLStore) Query(ctx context.Context, name QueryName, params map[string]string) ([]pkg.Record, error) {
	switch name {
	case QueryRevenue:
		return s.revenue(ctx, params[ParamPeriod])
	case QueryCustomer:
		if id := params[ParamCustomerID]; id != "" {
			return s.rows(ctx, `SELECT * FROM customers WHERE customer_id = ?`, id)
		}
		return s.rows(ctx, `SELECT * FROM customers LIMIT 100`)
	case QueryProduct:
		if id := params[ParamProductID]; id != "" {
			return s.rows(ctx, `SELECT * FROM products WHERE product_id = ?`, id)
		}
		return s.rows(ctx, `SELECT * FROM products LIMIT 100`)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
	}
}

func (s *SQLStore) revenue(ctx context.Context, period string) ([]pkg.Record, error) {
	if period == "" {
		period = PeriodLastQuarter
	}
	query, ok := revenueQueries[period]
	if !ok {
		return nil, fmt.Errorf("%w: revenue period %s", ErrUnknownQuery, period)
	}

	records, err := s.rows(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || toInt64(records[0]["transaction_count"]) == 0 {
		return nil, nil
	}
	return records, nil
}

// rows scans every result row into a column-keyed record
func (s *SQLStore) rows(ctx context.Context, query string, args ...any) ([]pkg.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []pkg.Record
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(pkg.Record, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				record[column] = string(b)
				continue
			}
			record[column] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return records, nil
}

// Info lists the user tables of the database
func (s *SQLStore) Info(ctx context.Context) (Info, error) {
	info := Info{Connected: true, Type: "sqlite", Tables: []string{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return info, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return info, fmt.Errorf("failed to scan table name: %w", err)
		}
		info.Tables = append(info.Tables, name)
	}
	return info, rows.Err()
}

// AddCustomer inserts or replaces a customer
func (s *SQLStore) AddCustomer(ctx context.Context, c Customer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (customer_id, name, email, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(customer_id) DO UPDATE SET name = excluded.name, email = excluded.email`,
		c.ID, c.Name, c.Email, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// AddProduct inserts or replaces a product
func (s *SQLStore) AddProduct(ctx context.Context, p Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (product_id, name, price, category, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET name = excluded.name, price = excluded.price, category = excluded.category`,
		p.ID, p.Name, p.Price, p.Category, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// AddTransaction records a sale
func (s *SQLStore) AddTransaction(ctx context.Context, t Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (customer_id, product_id, amount, created_at) VALUES (?, ?, ?, ?)`,
		t.CustomerID, t.ProductID, t.Amount, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(TimeLayout)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
