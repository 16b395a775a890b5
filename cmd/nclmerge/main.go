package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ncl-data/nclmerge/internal/config"
	"github.com/ncl-data/nclmerge/internal/db"
	"github.com/ncl-data/nclmerge/internal/logging"
	"github.com/ncl-data/nclmerge/internal/tracing"
)

const version = "1.0.0"

var cfg *config.Config

func main() {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", version)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup Logging
	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	// Parse global flags (--json, --quiet)
	args := parseGlobalFlags(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "merge":
		handleMergeCommand(ctx, args[1:])
	case "report":
		handleReportCommand(ctx, args[1:])
	case "export":
		if len(args) < 3 {
			fmt.Println("Usage: nclmerge export <report> <format> [file]")
			fmt.Println("Reports: matched, unmatched-detailed, unmatched-summary")
			fmt.Println("Formats: csv, json")
			os.Exit(1)
		}
		handleExportCommand(ctx, args[1:])
	case "config":
		handleConfigCommand(args[1:])
	case "version", "-v", "--version":
		PrintResult(map[string]interface{}{"version": version})
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("nclmerge - NCL catalog merge tool")
	fmt.Println()
	fmt.Println("Usage: nclmerge [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                              Output in JSON format")
	fmt.Println("  --quiet, -q                         Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  merge [--policy <p>]                Match both catalogs and write the merge database")
	fmt.Println("  report                              Summarize the last merge run")
	fmt.Println("  export <report> <format> [file]     Export a merge table (csv/json)")
	fmt.Println("  config show                         Show active configuration")
	fmt.Println("  version                             Show version")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Policies: fuzzy-title, fuzzy-title-author, exact-fields")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  NCLMERGE_CONFIG                     Config file path")
	fmt.Println("  NCLMERGE_DETAILED_DB                Detailed catalog database")
	fmt.Println("  NCLMERGE_SUMMARY_DB                 Summary catalog database")
	fmt.Println("  NCLMERGE_OUTPUT_DB                  Merge output database")
	fmt.Println("  NCLMERGE_POLICY                     Match policy")
}

func openSourceDB(ctx context.Context, path string) (*db.DB, error) {
	return db.Open(ctx, path)
}
