// Package db owns the embedded SQLite stores: the two scraped source
// tables and the loaders that materialize them into records.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path and brings the
// source schema up to date.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenOutput opens or creates the merge output database. The output schema
// is owned by the merge writer, so no source migrations run here.
func OpenOutput(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return conn, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// migrate runs schema migrations up to the current version.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := db.migrateV1(ctx); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the two scraped source tables. Column sets mirror what
// the scrapers deposit; absent values arrive as the "missing" sentinel or
// NULL depending on the scraper generation, so every text column is
// nullable.
func (db *DB) migrateV1(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS detailed_books (
			id INTEGER PRIMARY KEY,
			subject TEXT,
			url TEXT,
			record_number TEXT,
			title TEXT,
			title_cleaned TEXT,
			author_cleaned TEXT,
			language TEXT,
			imprint TEXT,
			publication TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_detailed_books_subject ON detailed_books(subject);
		CREATE INDEX IF NOT EXISTS idx_detailed_books_record_number ON detailed_books(record_number);

		CREATE TABLE IF NOT EXISTS summary_books (
			id INTEGER PRIMARY KEY,
			subject TEXT,
			url TEXT,
			title TEXT,
			author TEXT,
			publisher TEXT,
			year TEXT,
			call_number TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_summary_books_subject ON summary_books(subject);
		CREATE INDEX IF NOT EXISTS idx_summary_books_title ON summary_books(title);

		INSERT INTO schema_version (version) VALUES (1);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}

	return nil
}
