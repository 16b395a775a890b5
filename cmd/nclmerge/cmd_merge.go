package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ncl-data/nclmerge/internal/db"
	"github.com/ncl-data/nclmerge/internal/logging"
	"github.com/ncl-data/nclmerge/internal/match"
	"github.com/ncl-data/nclmerge/internal/merge"
	"github.com/ncl-data/nclmerge/internal/metrics"
)

func handleMergeCommand(ctx context.Context, args []string) {
	opts := cfg.MatcherOptions()

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--policy":
			if i+1 >= len(args) {
				fmt.Println("Usage: nclmerge merge [--policy <p>] [--title-threshold <t>] [--author-threshold <t>] [--exclude-matched-summary]")
				os.Exit(1)
			}
			i++
			opts.Policy = match.Policy(args[i])
		case "--title-threshold":
			if i+1 >= len(args) {
				PrintError("--title-threshold requires a value\n")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				PrintError("Invalid title threshold: %s\n", args[i])
				os.Exit(1)
			}
			opts.TitleThreshold = v
		case "--author-threshold":
			if i+1 >= len(args) {
				PrintError("--author-threshold requires a value\n")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				PrintError("Invalid author threshold: %s\n", args[i])
				os.Exit(1)
			}
			opts.AuthorThreshold = v
		case "--exclude-matched-summary":
			opts.ExcludeMatchedSummary = true
		default:
			PrintError("Unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}

	var bar *progressbar.ProgressBar
	if !outputCfg.Quiet && !outputCfg.JSON {
		bar = progressbar.Default(-1, "Matching")
	}
	opts.OnProgress = func(p match.Progress) {
		if bar != nil {
			if bar.GetMax() == -1 {
				bar.ChangeMax(p.Total)
			}
			_ = bar.Set(p.Done)
		}
	}

	matcher, err := match.New(opts)
	if err != nil {
		PrintError("Error: %v\n", err)
		os.Exit(1)
	}

	detailedDB, err := openSourceDB(ctx, cfg.DetailedDB)
	if err != nil {
		PrintError("Error opening detailed database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = detailedDB.Close() }()

	summaryDB, err := openSourceDB(ctx, cfg.SummaryDB)
	if err != nil {
		PrintError("Error opening summary database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = summaryDB.Close() }()

	detailed, err := detailedDB.LoadDetailed(ctx)
	if err != nil {
		PrintError("Error loading detailed records: %v\n", err)
		os.Exit(1)
	}
	summary, err := summaryDB.LoadSummary(ctx)
	if err != nil {
		PrintError("Error loading summary records: %v\n", err)
		os.Exit(1)
	}

	PrintInfo("Matching %d detailed against %d summary records (%s)\n",
		len(detailed), len(summary), opts.Policy)

	start := time.Now()
	res, err := matcher.Run(ctx, detailed, summary)
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
	if err != nil {
		PrintError("Error matching: %v\n", err)
		os.Exit(1)
	}
	metrics.RecordMergeDuration(opts.Policy, start)
	metrics.RecordResult(len(detailed), len(summary), res)

	out, err := db.OpenOutput(ctx, cfg.OutputDB)
	if err != nil {
		PrintError("Error opening output database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = out.Close() }()

	if err := merge.NewWriter(out).Write(ctx, res); err != nil {
		PrintError("Error writing merge output: %v\n", err)
		os.Exit(1)
	}

	rep := res.Report()
	logging.Info("merge complete",
		"policy", rep.Policy,
		"matched", rep.Matched,
		"unmatched_detailed", rep.UnmatchedDetailed,
		"unmatched_summary", rep.UnmatchedSummary,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	if outputCfg.JSON {
		PrintResult(rep)
		return
	}
	printReport(rep)
	PrintInfo("\nOutput written to %s\n", cfg.OutputDB)
}

func printReport(rep match.Report) {
	PrintTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Policy", string(rep.Policy)},
			{"Detailed records", strconv.Itoa(rep.DetailedTotal)},
			{"Summary records", strconv.Itoa(rep.SummaryTotal)},
			{"Matched", strconv.Itoa(rep.Matched)},
			{"  exact", strconv.Itoa(rep.ExactMatches)},
			{"  fuzzy", strconv.Itoa(rep.FuzzyMatches)},
			{"Unmatched detailed", strconv.Itoa(rep.UnmatchedDetailed)},
			{"Unmatched summary", strconv.Itoa(rep.UnmatchedSummary)},
			{"Detailed merge rate", fmt.Sprintf("%.1f%%", rep.DetailedMergeRate)},
			{"Summary merge rate", fmt.Sprintf("%.1f%%", rep.SummaryMergeRate)},
			{"Avg fuzzy title sim", fmt.Sprintf("%.3f", rep.AvgTitleSimilarity)},
			{"Avg fuzzy score", fmt.Sprintf("%.3f", rep.AvgScore)},
		},
	)
}
