package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btoninho/adse-navigator/internal/exitcode"
	"github.com/btoninho/adse-navigator/internal/export"
	"github.com/btoninho/adse-navigator/internal/logging"
	"github.com/btoninho/adse-navigator/internal/storage"
	"github.com/btoninho/adse-navigator/internal/table"
)

var parseCmd = &cobra.Command{
	Use:   "parse <workbook.xlsx>",
	Short: "Parse an ADSE pricing workbook into the database and JSON exports",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	path := args[0]

	result, err := table.ParseWorkbook(path, log)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("workbook parse failed")
		os.Exit(exitcode.InputError)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath).Msg("database open failed")
		os.Exit(exitcode.InputError)
	}
	defer db.Close()

	if err := db.ReplaceProcedures(result.Procedures); err != nil {
		log.Error().Err(err).Msg("storing procedures failed")
		os.Exit(exitcode.InputError)
	}
	if err := db.ReplaceRuleSets(result.RuleSets); err != nil {
		log.Error().Err(err).Msg("storing rule sets failed")
		os.Exit(exitcode.InputError)
	}
	if err := db.SaveTableMetadata(result.Metadata); err != nil {
		log.Error().Err(err).Msg("storing metadata failed")
		os.Exit(exitcode.InputError)
	}

	if err := export.WriteJSON(cfg.DataDir, result.Procedures, result.RuleSets, &result.Metadata); err != nil {
		log.Error().Err(err).Str("dir", cfg.DataDir).Msg("JSON export failed")
		os.Exit(exitcode.InputError)
	}

	fmt.Printf("Parsed %d procedures in %d categories (table date %s)\n",
		result.Metadata.TotalProcedures, len(result.Metadata.Categories), result.Metadata.TableDate)
	fmt.Printf("Stored in %s, exported to %s\n", cfg.DBPath, cfg.DataDir)
	return nil
}
