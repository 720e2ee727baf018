package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btoninho/adse-navigator/internal/config"
	"github.com/btoninho/adse-navigator/internal/exitcode"
)

var cfg = mustConfig()

var rootCmd = &cobra.Command{
	Use:   "adse",
	Short: "ADSE pricing table parser and invoice checker",
	Long:  "Parses the ADSE convencionada pricing workbook into SQLite/JSON and checks hospital invoice PDFs against it.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for JSON exports")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
}

func mustConfig() config.Config {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(exitcode.UsageError)
	}
	return c
}
