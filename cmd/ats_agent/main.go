// Package main provides the ats_agent CLI: keyword analysis, job scraping,
// resume section detection, HTML repair, assistant actions and the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/logging"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before every subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ats_agent",
	Short: "ATS resume and job description toolkit",
	Long: "ats_agent compares resumes with job descriptions, scrapes job postings, " +
		"detects resume sections and runs model-backed rewriting, either from the command line or as an HTTP API.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print summaries and debug logs to stderr")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logging.Configure(level, cfg.Logging.Format)
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
