package merge

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// ReportType selects which output relation to export.
type ReportType string

const (
	ReportMatched           ReportType = "matched"
	ReportUnmatchedDetailed ReportType = "unmatched-detailed"
	ReportUnmatchedSummary  ReportType = "unmatched-summary"
)

// ExportFormat defines the export serialization.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

var reportTables = map[ReportType]string{
	ReportMatched:           TableMerged,
	ReportUnmatchedDetailed: TableUnmatchedDetailed,
	ReportUnmatchedSummary:  TableUnmatchedSummary,
}

// Exporter serializes output relations for downstream inspection.
type Exporter struct {
	db *sql.DB
}

// NewExporter creates an exporter over an open output database.
func NewExporter(db *sql.DB) *Exporter {
	return &Exporter{db: db}
}

// Export reads the selected relation and renders it in the given format.
// Column order follows the table definition.
func (e *Exporter) Export(ctx context.Context, report ReportType, format ExportFormat) ([]byte, error) {
	table, ok := reportTables[report]
	if !ok {
		return nil, fmt.Errorf("unknown report type: %s", report)
	}

	rows, err := e.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	switch format {
	case FormatCSV:
		return renderCSV(columns, data)
	case FormatJSON:
		return renderJSON(columns, data)
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

func renderCSV(columns []string, data [][]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, row := range data {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = formatValue(v)
		}
		if err := w.Write(fields); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(columns []string, data [][]any) ([]byte, error) {
	out := make([]map[string]any, len(data))
	for i, row := range data {
		m := make(map[string]any, len(columns))
		for j, col := range columns {
			if b, ok := row[j].([]byte); ok {
				m[col] = string(b)
			} else {
				m[col] = row[j]
			}
		}
		out[i] = m
	}
	return json.MarshalIndent(out, "", "  ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
