package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/btoninho/adse-navigator/internal"
)

// WriteJSON dumps the parsed table to dir as procedures.json, rules.json
// and metadata.json.
func WriteJSON(dir string, procedures []internal.Procedure, ruleSets []internal.RuleSet, meta *internal.TableMetadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, "procedures.json"), procedures); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "rules.json"), ruleSets); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "metadata.json"), meta)
}

func writeFile(path string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}
