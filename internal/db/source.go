package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncl-data/nclmerge/internal/record"
)

// InsertDetailed stores one scraped detailed-catalog row.
func (db *DB) InsertDetailed(ctx context.Context, subject, url, recordNumber, title, titleCleaned, authorCleaned, language, imprint, publication string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO detailed_books (subject, url, record_number, title, title_cleaned, author_cleaned, language, imprint, publication)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, subject, url, recordNumber, title, titleCleaned, authorCleaned, language, imprint, publication)
	if err != nil {
		return fmt.Errorf("failed to insert detailed row: %w", err)
	}
	return nil
}

// InsertSummary stores one scraped summary-catalog row.
func (db *DB) InsertSummary(ctx context.Context, subject, url, title, author, publisher, year, callNumber string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO summary_books (subject, url, title, author, publisher, year, call_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, subject, url, title, author, publisher, year, callNumber)
	if err != nil {
		return fmt.Errorf("failed to insert summary row: %w", err)
	}
	return nil
}

// LoadDetailed materializes the detailed catalog. Derivation (year
// extraction, key building) happens here, exactly once per record.
func (db *DB) LoadDetailed(ctx context.Context) ([]record.DetailedRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT subject, url, record_number, title, title_cleaned, author_cleaned, language, imprint, publication
		FROM detailed_books
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query detailed_books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []record.DetailedRecord
	for rows.Next() {
		var subject, url, recordNumber, title, titleCleaned, authorCleaned, language, imprint, publication sql.NullString
		if err := rows.Scan(&subject, &url, &recordNumber, &title, &titleCleaned, &authorCleaned, &language, &imprint, &publication); err != nil {
			return nil, fmt.Errorf("failed to scan detailed row: %w", err)
		}
		records = append(records, record.NewDetailedRecord(
			subject.String, url.String, recordNumber.String,
			title.String, titleCleaned.String, authorCleaned.String,
			language.String, imprint.String, publication.String,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate detailed rows: %w", err)
	}

	return records, nil
}

// LoadSummary materializes the summary catalog.
func (db *DB) LoadSummary(ctx context.Context) ([]record.SummaryRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT subject, url, title, author, publisher, year, call_number
		FROM summary_books
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary_books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []record.SummaryRecord
	for rows.Next() {
		var subject, url, title, author, publisher, year, callNumber sql.NullString
		if err := rows.Scan(&subject, &url, &title, &author, &publisher, &year, &callNumber); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		records = append(records, record.NewSummaryRecord(
			subject.String, url.String, title.String,
			author.String, publisher.String, year.String, callNumber.String,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}

	return records, nil
}

// CountDetailed returns the number of scraped detailed rows.
func (db *DB) CountDetailed(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM detailed_books").Scan(&n)
	return n, err
}

// CountSummary returns the number of scraped summary rows.
func (db *DB) CountSummary(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM summary_books").Scan(&n)
	return n, err
}
