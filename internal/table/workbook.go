package table

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

var (
	reCategorySheet = regexp.MustCompile(`^RC_\d+ - (.+) - Tab$`)
	reLeadingIndex  = regexp.MustCompile(`^\d+\s*-\s*`)
	reFilenameDate  = regexp.MustCompile(`_(\d{2})_([a-záàâãéêíóôõúç]+)_(\d{4})_`)
)

var ptMonths = map[string]string{
	"janeiro": "01", "fevereiro": "02", "março": "03", "marco": "03",
	"abril": "04", "maio": "05", "junho": "06", "julho": "07",
	"agosto": "08", "setembro": "09", "outubro": "10",
	"novembro": "11", "dezembro": "12",
}

// ParseResult is everything one workbook walk produces.
type ParseResult struct {
	Procedures []internal.Procedure
	RuleSets   []internal.RuleSet
	Metadata   internal.TableMetadata
}

// ParseWorkbook reads an ADSE Regime Convencionado workbook and rebuilds
// the hierarchical procedure records plus the per-category rule sets.
func ParseWorkbook(path string, logger zerolog.Logger) (*ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return parseWorkbookFile(f, filepath.Base(path), logger)
}

// parseWorkbookFile walks every "RC_<n> - <name> - Tab" sheet and its
// paired "- Regras" sheet.
func parseWorkbookFile(f *excelize.File, filename string, logger zerolog.Logger) (*ParseResult, error) {
	procedures := []internal.Procedure{}
	ruleSets := []internal.RuleSet{}

	for _, sheet := range f.GetSheetList() {
		if !strings.HasSuffix(sheet, "- Tab") {
			continue
		}
		m := reCategorySheet.FindStringSubmatch(sheet)
		if m == nil {
			logger.Warn().Str("sheet", sheet).Msg("skipping unrecognized sheet")
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		category := categoryName(m[1], rows)
		slug := util.Slugify(category)

		procs := parseTabSheet(rows, category, slug)
		procedures = append(procedures, procs...)
		logger.Info().Str("category", category).Int("procedures", len(procs)).Msg("parsed sheet")

		rulesSheet := strings.Replace(sheet, "- Tab", "- Regras", 1)
		if idx, _ := f.GetSheetIndex(rulesSheet); idx >= 0 {
			rrows, err := f.GetRows(rulesSheet)
			if err != nil {
				return nil, fmt.Errorf("read sheet %s: %w", rulesSheet, err)
			}
			if rules := parseRulesSheet(rrows); len(rules) > 0 {
				ruleSets = append(ruleSets, internal.RuleSet{Category: category, Slug: slug, Rules: rules})
				logger.Info().Str("category", category).Int("rules", len(rules)).Msg("parsed rules")
			}
		}
	}

	return &ParseResult{
		Procedures: procedures,
		RuleSets:   ruleSets,
		Metadata:   buildMetadata(filename, procedures),
	}, nil
}

// categoryName prefers the full name in row 2 of the sheet, which carries
// a "<n> - " prefix, over the abbreviated sheet-name form.
func categoryName(short string, rows [][]string) string {
	if len(rows) >= 2 {
		for _, v := range rows[1] {
			v = strings.TrimSpace(v)
			if v != "" {
				return reLeadingIndex.ReplaceAllString(v, "")
			}
		}
	}
	return strings.TrimSpace(short)
}

// TableDateFromFilename derives the table's effective date from filename
// patterns like "_01_fevereiro_2026_", returning "unknown" when absent.
func TableDateFromFilename(filename string) string {
	m := reFilenameDate.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return "unknown"
	}
	month, ok := ptMonths[m[2]]
	if !ok {
		month = "01"
	}
	return fmt.Sprintf("%s-%s-%s", m[3], month, m[1])
}

func buildMetadata(filename string, procedures []internal.Procedure) internal.TableMetadata {
	order := []string{}
	counts := map[string]*internal.CategoryCount{}
	for _, p := range procedures {
		key := p.Category + "\x00" + p.CategorySlug
		if c, ok := counts[key]; ok {
			c.Count++
			continue
		}
		counts[key] = &internal.CategoryCount{Name: p.Category, Slug: p.CategorySlug, Count: 1}
		order = append(order, key)
	}

	categories := make([]internal.CategoryCount, 0, len(order))
	for _, key := range order {
		categories = append(categories, *counts[key])
	}

	return internal.TableMetadata{
		SourceFile:      filename,
		TableDate:       TableDateFromFilename(filename),
		ParsedAt:        time.Now().UTC().Format(time.RFC3339),
		TotalProcedures: len(procedures),
		Categories:      categories,
	}
}
