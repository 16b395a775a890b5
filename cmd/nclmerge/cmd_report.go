package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/ncl-data/nclmerge/internal/db"
	"github.com/ncl-data/nclmerge/internal/merge"
)

// handleReportCommand summarizes the tables of the last merge run without
// re-running the matcher.
func handleReportCommand(ctx context.Context, args []string) {
	if len(args) > 0 {
		fmt.Println("Usage: nclmerge report")
		os.Exit(1)
	}

	if _, err := os.Stat(cfg.OutputDB); err != nil {
		PrintError("No merge output at %s (run 'nclmerge merge' first)\n", cfg.OutputDB)
		os.Exit(1)
	}

	out, err := db.OpenOutput(ctx, cfg.OutputDB)
	if err != nil {
		PrintError("Error opening output database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = out.Close() }()

	matched, err := countTable(ctx, out, merge.TableMerged)
	if err != nil {
		PrintError("Error reading merge output: %v\n", err)
		os.Exit(1)
	}
	unmatchedD, err := countTable(ctx, out, merge.TableUnmatchedDetailed)
	if err != nil {
		PrintError("Error reading merge output: %v\n", err)
		os.Exit(1)
	}
	unmatchedS, err := countTable(ctx, out, merge.TableUnmatchedSummary)
	if err != nil {
		PrintError("Error reading merge output: %v\n", err)
		os.Exit(1)
	}

	var exact, fuzzy int
	rows, err := out.QueryContext(ctx,
		"SELECT match_type, COUNT(*) FROM "+merge.TableMerged+" GROUP BY match_type")
	if err != nil {
		PrintError("Error reading match types: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			PrintError("Error reading match types: %v\n", err)
			os.Exit(1)
		}
		switch typ {
		case "exact":
			exact = n
		case "fuzzy":
			fuzzy = n
		}
	}
	if err := rows.Err(); err != nil {
		PrintError("Error reading match types: %v\n", err)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"output_db":          cfg.OutputDB,
			"matched":            matched,
			"exact_matches":      exact,
			"fuzzy_matches":      fuzzy,
			"unmatched_detailed": unmatchedD,
			"unmatched_summary":  unmatchedS,
		})
		return
	}

	PrintTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Output database", cfg.OutputDB},
			{"Matched", strconv.Itoa(matched)},
			{"  exact", strconv.Itoa(exact)},
			{"  fuzzy", strconv.Itoa(fuzzy)},
			{"Unmatched detailed", strconv.Itoa(unmatchedD)},
			{"Unmatched summary", strconv.Itoa(unmatchedS)},
		},
	)
}

func countTable(ctx context.Context, conn *sql.DB, table string) (int, error) {
	var n int
	err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}
