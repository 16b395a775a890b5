// Package merge persists match results: three output relations written
// with replace semantics, plus report export.
package merge

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ncl-data/nclmerge/internal/match"
	"github.com/ncl-data/nclmerge/internal/tracing"
)

// Output relation names.
const (
	TableMerged            = "merged_books"
	TableUnmatchedDetailed = "unmatched_detailed"
	TableUnmatchedSummary  = "unmatched_summary"
)

// mergedSchema is the union of both record types, suffixed where the field
// names collide, plus the match provenance columns.
const mergedSchema = `
	CREATE TABLE ` + TableMerged + ` (
		id INTEGER PRIMARY KEY,
		subject_detailed TEXT,
		url_detailed TEXT,
		record_number TEXT,
		title_detailed TEXT,
		title_cleaned TEXT,
		author_cleaned TEXT,
		language TEXT,
		imprint TEXT,
		publication TEXT,
		extracted_year INTEGER,
		composite_key_detailed TEXT,
		simple_key_detailed TEXT,
		subject_summary TEXT,
		url_summary TEXT,
		title_summary TEXT,
		author TEXT,
		publisher TEXT,
		year TEXT,
		call_number TEXT,
		year_int INTEGER,
		composite_key_summary TEXT,
		simple_key_summary TEXT,
		match_type TEXT NOT NULL,
		similarity_score REAL NOT NULL,
		title_similarity REAL,
		author_similarity REAL
	)`

const unmatchedDetailedSchema = `
	CREATE TABLE ` + TableUnmatchedDetailed + ` (
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
		extracted_year INTEGER,
		composite_key TEXT,
		simple_key TEXT
	)`

const unmatchedSummarySchema = `
	CREATE TABLE ` + TableUnmatchedSummary + ` (
		id INTEGER PRIMARY KEY,
		subject TEXT,
		url TEXT,
		title TEXT,
		author TEXT,
		publisher TEXT,
		year TEXT,
		call_number TEXT,
		year_int INTEGER,
		composite_key TEXT,
		simple_key TEXT
	)`

// Writer materializes a match result into an output database.
type Writer struct {
	db *sql.DB
}

// NewWriter creates a writer over an open output database.
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// Write persists the three output relations in one transaction. Prior
// relations of the same names are dropped first: replace semantics, not
// append, so re-running a merge never accumulates stale rows.
func (w *Writer) Write(ctx context.Context, res *match.Result) error {
	ctx, span := tracing.StartSpan(ctx, "merge.Write",
		tracing.WithAttributes(
			attribute.Int("merge.matched", len(res.Matched)),
			attribute.Int("merge.unmatched_detailed", len(res.UnmatchedDetailed)),
			attribute.Int("merge.unmatched_summary", len(res.UnmatchedSummary)),
		))
	defer span.End()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DROP TABLE IF EXISTS " + TableMerged,
		"DROP TABLE IF EXISTS " + TableUnmatchedDetailed,
		"DROP TABLE IF EXISTS " + TableUnmatchedSummary,
		mergedSchema,
		unmatchedDetailedSchema,
		unmatchedSummarySchema,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tracing.RecordError(span, err)
			return fmt.Errorf("failed to prepare output tables: %w", err)
		}
	}

	if err := w.insertMatched(ctx, tx, res); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	if err := w.insertUnmatched(ctx, tx, res); err != nil {
		tracing.RecordError(span, err)
		return err
	}

	if err := tx.Commit(); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to commit merge results: %w", err)
	}

	tracing.SetSpanOK(span)
	return nil
}

func (w *Writer) insertMatched(ctx context.Context, tx *sql.Tx, res *match.Result) error {
	for _, c := range res.Matched {
		// Component scores: exact pairs are 1.0/1.0; under the title-only
		// policy a fuzzy pair has no author component, so it stays NULL.
		titleSim := any(c.TitleSimilarity)
		authorSim := any(c.AuthorSimilarity)
		if c.Type == match.TypeFuzzy && res.Policy == match.PolicyFuzzyTitle {
			authorSim = nil
		}

		q := sq.Insert(TableMerged).
			Columns(
				"subject_detailed", "url_detailed", "record_number",
				"title_detailed", "title_cleaned", "author_cleaned",
				"language", "imprint", "publication", "extracted_year",
				"composite_key_detailed", "simple_key_detailed",
				"subject_summary", "url_summary", "title_summary",
				"author", "publisher", "year", "call_number", "year_int",
				"composite_key_summary", "simple_key_summary",
				"match_type", "similarity_score", "title_similarity", "author_similarity",
			).
			Values(
				c.Detailed.Subject, c.Detailed.URL, c.Detailed.RecordNumber,
				c.Detailed.Title, c.Detailed.TitleCleaned, c.Detailed.AuthorCleaned,
				c.Detailed.Language, c.Detailed.Imprint, c.Detailed.Publication, nullYear(c.Detailed.ExtractedYear),
				c.Detailed.CompositeKey, c.Detailed.SimpleKey,
				c.Summary.Subject, c.Summary.URL, c.Summary.Title,
				c.Summary.Author, c.Summary.Publisher, c.Summary.RawYear, c.Summary.CallNumber, nullYear(c.Summary.Year),
				c.Summary.CompositeKey, c.Summary.SimpleKey,
				string(c.Type), c.Score, titleSim, authorSim,
			)

		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert merged row: %w", err)
		}
	}
	return nil
}

func (w *Writer) insertUnmatched(ctx context.Context, tx *sql.Tx, res *match.Result) error {
	for _, d := range res.UnmatchedDetailed {
		q := sq.Insert(TableUnmatchedDetailed).
			Columns(
				"subject", "url", "record_number", "title", "title_cleaned",
				"author_cleaned", "language", "imprint", "publication",
				"extracted_year", "composite_key", "simple_key",
			).
			Values(
				d.Subject, d.URL, d.RecordNumber, d.Title, d.TitleCleaned,
				d.AuthorCleaned, d.Language, d.Imprint, d.Publication,
				nullYear(d.ExtractedYear), d.CompositeKey, d.SimpleKey,
			)
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert unmatched detailed row: %w", err)
		}
	}

	for _, s := range res.UnmatchedSummary {
		q := sq.Insert(TableUnmatchedSummary).
			Columns(
				"subject", "url", "title", "author", "publisher", "year",
				"call_number", "year_int", "composite_key", "simple_key",
			).
			Values(
				s.Subject, s.URL, s.Title, s.Author, s.Publisher, s.RawYear,
				s.CallNumber, nullYear(s.Year), s.CompositeKey, s.SimpleKey,
			)
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert unmatched summary row: %w", err)
		}
	}

	return nil
}

// nullYear maps the unknown-year zero value to SQL NULL.
func nullYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}
