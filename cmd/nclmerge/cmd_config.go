package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func handleConfigCommand(args []string) {
	if len(args) < 1 || args[0] != "show" {
		fmt.Println("Usage: nclmerge config show")
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"detailed_db": cfg.DetailedDB,
			"summary_db":  cfg.SummaryDB,
			"output_db":   cfg.OutputDB,
			"match":       cfg.Match,
			"logging":     cfg.Logging,
		})
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		PrintError("Error rendering config: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}
