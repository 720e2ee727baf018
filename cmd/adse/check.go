package main

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/btoninho/adse-navigator/internal/check"
	"github.com/btoninho/adse-navigator/internal/exitcode"
	"github.com/btoninho/adse-navigator/internal/invoice"
	"github.com/btoninho/adse-navigator/internal/logging"
	"github.com/btoninho/adse-navigator/internal/storage"
)

var checkCmd = &cobra.Command{
	Use:   "check <invoice.pdf>",
	Short: "Check a hospital invoice PDF against the stored pricing table",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	path := args[0]

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath).Msg("database open failed")
		os.Exit(exitcode.InputError)
	}
	defer db.Close()

	procedures, err := db.ListProcedures()
	if err != nil {
		log.Error().Err(err).Msg("loading procedures failed")
		os.Exit(exitcode.InputError)
	}
	if len(procedures) == 0 {
		log.Error().Msg("no pricing table stored; run parse first")
		os.Exit(exitcode.InputError)
	}

	provider, items, err := invoice.ExtractFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("invoice extraction failed")
		os.Exit(exitcode.InputError)
	}
	if len(items) == 0 {
		log.Error().Str("file", path).Msg("no line items found in invoice")
		os.Exit(exitcode.InputError)
	}

	checker := check.New(procedures, cfg.VariablePriceCodes, cfg.PriceTolerance)
	report := checker.Check(provider, items)
	check.RenderReport(os.Stdout, filepath.Base(path), report)

	counts := map[string]int{
		"items":    len(report.Rows),
		"ok":       report.OKCount,
		"diff":     report.DiffCount,
		"notFound": report.NotFound,
	}
	if err := db.InsertCheckRun(uuid.NewString(), filepath.Base(path), provider, counts); err != nil {
		log.Warn().Err(err).Msg("recording check run failed")
	}

	if report.DiffCount > 0 {
		os.Exit(exitcode.PricingDiff)
	}
	return nil
}
