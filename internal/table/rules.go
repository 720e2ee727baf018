package table

import (
	"strings"
	"unicode/utf8"

	"github.com/btoninho/adse-navigator/internal/util"
)

// parseRulesSheet extracts the free-text rule clauses of one Regras sheet.
// Everything before the "REGRAS ESPECÍFICAS" section header is ignored.
// After it, numbered rules use two cells (numeric index, text); rows that
// break the convention are kept only when long enough to be substantive,
// which filters stray fragments without dropping section headers embedded
// in the rules block.
func parseRulesSheet(rows [][]string) []string {
	rules := []string{}
	inRules := false

	for _, row := range rows {
		vals := compactCells(row)
		if len(vals) == 0 {
			continue
		}

		first := util.NormalizeHeader(vals[0])
		if strings.Contains(first, "REGRAS") && strings.Contains(first, "ESPECÍFICA") {
			inRules = true
			continue
		}
		if !inRules {
			continue
		}

		if len(vals) >= 2 {
			text := vals[1]
			if text == "" {
				continue
			}
			if util.CellNumeric(vals[0]) != nil {
				rules = append(rules, text)
			} else if utf8.RuneCountInString(vals[0]) > 5 {
				rules = append(rules, vals[0])
			}
			continue
		}

		if utf8.RuneCountInString(vals[0]) > 10 {
			rules = append(rules, vals[0])
		}
	}

	return rules
}

func compactCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, v := range row {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
