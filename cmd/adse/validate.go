package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/btoninho/adse-navigator/internal/exitcode"
	"github.com/btoninho/adse-navigator/internal/logging"
	"github.com/btoninho/adse-navigator/internal/storage"
	"github.com/btoninho/adse-navigator/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [workbook.xlsx]",
	Short: "Cross-check stored data against the source workbook",
	Long:  "Re-reads the pricing workbook independently of the parser and diffs it against the stored procedures. Defaults to the workbook recorded at parse time.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("db", cfg.DBPath).Msg("database open failed")
		os.Exit(exitcode.InputError)
	}
	defer db.Close()

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		meta, err := db.LoadTableMetadata()
		if err != nil {
			log.Error().Err(err).Msg("loading table metadata failed")
			os.Exit(exitcode.InputError)
		}
		if meta == nil {
			log.Error().Msg("no parsed table found; pass a workbook path or run parse first")
			os.Exit(exitcode.UsageError)
		}
		path = meta.SourceFile
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("workbook open failed")
		os.Exit(exitcode.InputError)
	}
	defer f.Close()

	excelRows, err := validate.ExtractRows(f)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("workbook read failed")
		os.Exit(exitcode.InputError)
	}

	stored, err := db.ListProcedures()
	if err != nil {
		log.Error().Err(err).Msg("loading procedures failed")
		os.Exit(exitcode.InputError)
	}

	report := validate.Compare(excelRows, stored)
	validate.Render(os.Stdout, report)

	if !report.Clean() {
		os.Exit(exitcode.ValidationFailed)
	}
	return nil
}
