// Package config loads pipeline configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ncl-data/nclmerge/internal/match"
)

// Config holds application configuration.
type Config struct {
	DetailedDB string `yaml:"detailed_db"`
	SummaryDB  string `yaml:"summary_db"`
	OutputDB   string `yaml:"output_db"`

	Match   MatchConfig   `yaml:"match"`
	Logging LoggingConfig `yaml:"logging"`
}

// MatchConfig configures the record matcher.
type MatchConfig struct {
	Policy                string  `yaml:"policy"`
	TitleThreshold        float64 `yaml:"title_threshold"`
	AuthorThreshold       float64 `yaml:"author_threshold"`
	ExcludeMatchedSummary bool    `yaml:"exclude_matched_summary"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DetailedDB: "ncl_subject_books_details.db",
		SummaryDB:  "ncl_subject_books.db",
		OutputDB:   "merged_ncl_books.db",
		Match: MatchConfig{
			Policy:          string(match.PolicyFuzzyTitle),
			TitleThreshold:  match.DefaultTitleThreshold,
			AuthorThreshold: match.DefaultAuthorThreshold,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".nclmerge.yaml",
		".nclmerge.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "nclmerge", "config.yaml"),
			filepath.Join(home, ".config", "nclmerge", "config.yml"),
			filepath.Join(home, ".nclmerge.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env NCLMERGE_CONFIG > search paths > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("NCLMERGE_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, cfg.Validate()
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NCLMERGE_DETAILED_DB"); v != "" {
		c.DetailedDB = v
	}
	if v := os.Getenv("NCLMERGE_SUMMARY_DB"); v != "" {
		c.SummaryDB = v
	}
	if v := os.Getenv("NCLMERGE_OUTPUT_DB"); v != "" {
		c.OutputDB = v
	}
	if v := os.Getenv("NCLMERGE_POLICY"); v != "" {
		c.Match.Policy = v
	}
	if v := os.Getenv("NCLMERGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NCLMERGE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate rejects bad configuration before any records are touched.
func (c *Config) Validate() error {
	if !match.Policy(c.Match.Policy).Valid() {
		return fmt.Errorf("invalid match policy %q (valid: %v)", c.Match.Policy, match.Policies())
	}
	if c.Match.TitleThreshold < 0 || c.Match.TitleThreshold > 1 {
		return fmt.Errorf("title_threshold %v outside [0,1]", c.Match.TitleThreshold)
	}
	if c.Match.AuthorThreshold < 0 || c.Match.AuthorThreshold > 1 {
		return fmt.Errorf("author_threshold %v outside [0,1]", c.Match.AuthorThreshold)
	}
	return nil
}

// MatcherOptions translates the config into matcher options.
func (c *Config) MatcherOptions() match.Options {
	return match.Options{
		Policy:                match.Policy(c.Match.Policy),
		TitleThreshold:        c.Match.TitleThreshold,
		AuthorThreshold:       c.Match.AuthorThreshold,
		ExcludeMatchedSummary: c.Match.ExcludeMatchedSummary,
	}
}
