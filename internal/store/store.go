// Package store persists catalog books, their per-year price summary and
// resolved customer identities in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/KaramelBytes/bookstats/internal/catalog"
	"github.com/KaramelBytes/bookstats/internal/identity"
	_ "modernc.org/sqlite"
)

// YearSummary is one row of the summary table.
type YearSummary struct {
	Year         int
	BookCount    int
	AveragePrice float64
}

// Store wraps a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

const createBooks = `CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT,
	author TEXT,
	genre TEXT,
	publisher TEXT,
	year INTEGER,
	price TEXT
)`

// LoadBooks inserts books, skipping ids already present, and returns the
// number of rows actually inserted. Years that are not integers are stored
// as NULL.
func (s *Store) LoadBooks(ctx context.Context, books []catalog.Book) (int, error) {
	if _, err := s.db.ExecContext(ctx, createBooks); err != nil {
		return 0, fmt.Errorf("create books: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO books (id, title, author, genre, publisher, year, price) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, b := range books {
		var year sql.NullInt64
		if y, ok := b.YearValue(); ok {
			year = sql.NullInt64{Int64: int64(y), Valid: true}
		}
		res, err := stmt.ExecContext(ctx, string(b.ID), b.Title, b.Author, b.Genre, b.Publisher, year, string(b.Price))
		if err != nil {
			return 0, fmt.Errorf("insert book %s: %w", b.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

const createSummary = `CREATE TABLE summary AS
SELECT
	year AS publication_year,
	COUNT(*) AS book_count,
	ROUND(
		AVG(
			CASE
				WHEN price LIKE '€%' THEN CAST(SUBSTR(price, 2) AS REAL) * 1.2
				WHEN price LIKE '$%' THEN CAST(SUBSTR(price, 2) AS REAL)
				ELSE 0
			END
		), 2
	) AS average_price
FROM books
GROUP BY year
ORDER BY year`

// BuildSummary rebuilds the summary table from books. Prices are averaged in
// dollars; euro prices are converted at 1.2 and unknown currencies count as 0.
func (s *Store) BuildSummary(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS summary`); err != nil {
		return fmt.Errorf("drop summary: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createSummary); err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	return nil
}

// Summary returns the summary rows ordered by year.
func (s *Store) Summary(ctx context.Context) ([]YearSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT publication_year, book_count, average_price FROM summary ORDER BY publication_year`)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()
	var out []YearSummary
	for rows.Next() {
		var (
			year sql.NullInt64
			ys   YearSummary
			avg  sql.NullFloat64
		)
		if err := rows.Scan(&year, &ys.BookCount, &avg); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		ys.Year = int(year.Int64)
		ys.AveragePrice = avg.Float64
		out = append(out, ys)
	}
	return out, rows.Err()
}

// Counts returns the row counts of the books and summary tables.
func (s *Store) Counts(ctx context.Context) (books, summary int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&books); err != nil {
		return 0, 0, fmt.Errorf("count books: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM summary`).Scan(&summary); err != nil {
		return 0, 0, fmt.Errorf("count summary: %w", err)
	}
	return books, summary, nil
}

// SaveIdentities replaces the user_identities table with res.Mapping.
func (s *Store) SaveIdentities(ctx context.Context, res *identity.Result[int64]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DROP TABLE IF EXISTS user_identities`,
		`CREATE TABLE user_identities (user_id INTEGER PRIMARY KEY, canonical_id INTEGER NOT NULL)`,
		`CREATE INDEX idx_user_identities_canonical ON user_identities(canonical_id)`,
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("prepare user_identities: %w", err)
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO user_identities (user_id, canonical_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, g := range res.Sorted() {
		for _, m := range g.Members {
			if _, err := stmt.ExecContext(ctx, m, g.Canonical); err != nil {
				return fmt.Errorf("insert identity %d: %w", m, err)
			}
		}
	}
	return tx.Commit()
}

// Aliases returns every user id stored under canonical, ascending.
func (s *Store) Aliases(ctx context.Context, canonical int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM user_identities WHERE canonical_id = ? ORDER BY user_id`, canonical)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}
