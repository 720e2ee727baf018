package main

import (
	"os"

	"github.com/btoninho/adse-navigator/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
