package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btoninho/adse-navigator/internal/exitcode"
	"github.com/btoninho/adse-navigator/internal/export"
	"github.com/btoninho/adse-navigator/internal/logging"
	"github.com/btoninho/adse-navigator/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export the stored pricing table as JSON files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

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

	ruleSets, err := db.ListRuleSets()
	if err != nil {
		log.Error().Err(err).Msg("loading rule sets failed")
		os.Exit(exitcode.InputError)
	}
	meta, err := db.LoadTableMetadata()
	if err != nil {
		log.Error().Err(err).Msg("loading table metadata failed")
		os.Exit(exitcode.InputError)
	}

	if err := export.WriteJSON(cfg.DataDir, procedures, ruleSets, meta); err != nil {
		log.Error().Err(err).Str("dir", cfg.DataDir).Msg("JSON export failed")
		os.Exit(exitcode.InputError)
	}

	fmt.Printf("Exported %d procedures and %d rule sets to %s\n", len(procedures), len(ruleSets), cfg.DataDir)
	return nil
}
