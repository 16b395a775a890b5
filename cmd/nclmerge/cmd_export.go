package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ncl-data/nclmerge/internal/db"
	"github.com/ncl-data/nclmerge/internal/merge"
)

func handleExportCommand(ctx context.Context, args []string) {
	reportType := merge.ReportType(args[0])
	format := merge.ExportFormat(args[1])

	switch reportType {
	case merge.ReportMatched, merge.ReportUnmatchedDetailed, merge.ReportUnmatchedSummary:
		// valid
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown report type: %s\n", args[0])
		fmt.Println("Valid reports: matched, unmatched-detailed, unmatched-summary")
		os.Exit(1)
	}

	switch format {
	case merge.FormatCSV, merge.FormatJSON:
		// valid
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown format: %s\n", args[1])
		fmt.Println("Valid formats: csv, json")
		os.Exit(1)
	}

	if _, err := os.Stat(cfg.OutputDB); err != nil {
		PrintError("No merge output at %s (run 'nclmerge merge' first)\n", cfg.OutputDB)
		os.Exit(1)
	}

	out, err := db.OpenOutput(ctx, cfg.OutputDB)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error opening output database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = out.Close() }()

	data, err := merge.NewExporter(out).Export(ctx, reportType, format)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	if len(args) >= 3 {
		outputFile := args[2]
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %s %s to %s\n", reportType, format, outputFile)
	} else {
		fmt.Print(string(data))
	}
}
