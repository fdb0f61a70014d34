package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnsureFixture creates the bundled demo database at path if it does not
// exist yet. The schema is a small retail model (categories, products,
// customers, sales) with enough rows to make aggregate questions
// interesting. Seeding is deterministic so repeated runs produce the
// same data.
func EnsureFixture(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat fixture database: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fixture directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open fixture database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := seed(ctx, db); err != nil {
		// Remove the partial file so the next start retries from scratch.
		db.Close()
		os.Remove(path)
		return err
	}
	return nil
}

func seed(ctx context.Context, db *sql.DB) error {
	schema := []string{
		`CREATE TABLE categories (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category_id INTEGER,
			price DECIMAL(10,2),
			FOREIGN KEY (category_id) REFERENCES categories (id)
		)`,
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			region TEXT
		)`,
		`CREATE TABLE sales (
			id INTEGER PRIMARY KEY,
			product_id INTEGER,
			customer_id INTEGER,
			amount DECIMAL(10,2),
			quantity INTEGER,
			sale_date DATE,
			FOREIGN KEY (product_id) REFERENCES products (id),
			FOREIGN KEY (customer_id) REFERENCES customers (id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create fixture schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixture seed: %w", err)
	}
	defer tx.Rollback()

	categories := []struct {
		id   int
		name string
	}{
		{1, "Electronics"},
		{2, "Clothing"},
		{3, "Books"},
		{4, "Home & Garden"},
		{5, "Sports"},
	}
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, "INSERT INTO categories VALUES (?, ?)", c.id, c.name); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	products := []struct {
		id       int
		name     string
		category int
		price    float64
	}{
		{1, "Laptop", 1, 999.99},
		{2, "Smartphone", 1, 699.99},
		{3, "T-Shirt", 2, 19.99},
		{4, "Jeans", 2, 49.99},
		{5, "Python Programming", 3, 39.99},
		{6, "Garden Tools", 4, 29.99},
		{7, "Running Shoes", 5, 89.99},
		{8, "Tablet", 1, 399.99},
		{9, "Dress", 2, 79.99},
		{10, "Fiction Novel", 3, 14.99},
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, "INSERT INTO products VALUES (?, ?, ?, ?)", p.id, p.name, p.category, p.price); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}

	customers := []struct {
		id          int
		name, email string
		region      string
	}{
		{1, "John Smith", "john@email.com", "North"},
		{2, "Jane Doe", "jane@email.com", "South"},
		{3, "Bob Johnson", "bob@email.com", "East"},
		{4, "Alice Brown", "alice@email.com", "West"},
		{5, "Charlie Wilson", "charlie@email.com", "North"},
		{6, "Diana Lee", "diana@email.com", "South"},
		{7, "Eve Davis", "eve@email.com", "East"},
		{8, "Frank Miller", "frank@email.com", "West"},
	}
	for _, c := range customers {
		if _, err := tx.ExecContext(ctx, "INSERT INTO customers VALUES (?, ?, ?, ?)", c.id, c.name, c.email, c.region); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}

	// 200 sales spread over the trailing six months. Index arithmetic keeps
	// the distribution fixed across runs.
	start := time.Now().AddDate(0, 0, -180)
	for i := 1; i <= 200; i++ {
		productID := (i*7)%10 + 1
		customerID := (i*3)%8 + 1
		quantity := i%5 + 1
		amount := products[productID-1].price * float64(quantity)
		saleDate := start.AddDate(0, 0, (i*13)%180).Format("2006-01-02")

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sales VALUES (?, ?, ?, ?, ?, ?)",
			i, productID, customerID, amount, quantity, saleDate,
		); err != nil {
			return fmt.Errorf("seed sales: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture seed: %w", err)
	}
	return nil
}
