// Package sqlite stores scraped articles in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// migrations are applied in order; the index of the last applied entry
// plus one is stored in PRAGMA user_version.
var migrations = []string{
	`CREATE TABLE articles (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		thumbnail TEXT NOT NULL DEFAULT '',
		short_content TEXT NOT NULL DEFAULT '',
		paragraphs TEXT NOT NULL DEFAULT '[]',
		published TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		scraped_at TEXT NOT NULL
	)`,
	`CREATE INDEX idx_articles_site ON articles(site)`,
	`CREATE INDEX idx_articles_scraped_at ON articles(scraped_at)`,
}

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database and brings its schema up to date.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; a single connection also keeps ":memory:"
	// pointing at the same database.
	conn.SetMaxOpenConns(1)

	for _, pragma := range db.pragmas() {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	db.db = conn

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		db.db = nil
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (db *DB) pragmas() []string {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	return pragmas
}

// migrate applies pending migrations in a single transaction.
func (db *DB) migrate(ctx context.Context) error {
	var version int
	if err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version >= len(migrations) {
		return nil
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, stmt := range migrations[version:] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", version+i, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}
