package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

// The validator re-derives the workbook with its own minimal walker rather
// than calling the table package, so a bug in the main walker cannot hide
// itself during validation.

var (
	reCategorySheet = regexp.MustCompile(`^RC_\d+ - (.+) - Tab$`)
	reLeadingIndex  = regexp.MustCompile(`^\d+\s*-\s*`)
	reDigits        = regexp.MustCompile(`^\d+$`)
)

// Row is one re-derived data row. Copayment is nil when the source cell
// holds free text; CopaymentRaw then carries the verbatim text.
type Row struct {
	Sheet        string
	Category     string
	Code         string
	Designation  string
	ADSECharge   float64
	Copayment    *float64
	CopaymentRaw *string
}

// CountDiff is one per-category row-count comparison.
type CountDiff struct {
	Category string
	Stored   int
	Excel    int
}

// Mismatch is one row whose stored values differ from the workbook.
type Mismatch struct {
	Category    string
	Code        string
	Designation string
	Issues      []string
}

// Entry identifies a row present on only one side of the diff.
type Entry struct {
	Category    string
	Code        string
	Designation string
}

type Report struct {
	ExcelRows  int
	StoredRows int
	Counts     []CountDiff
	Mismatches []Mismatch
	Missing    []Entry // in the workbook, absent from storage
	Extra      []Entry // in storage, absent from the workbook
}

// Clean reports whether the stored data matches the workbook exactly.
func (r *Report) Clean() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0 && len(r.Extra) == 0
}

// ExtractRows re-reads every data row from each Tab sheet using a minimal
// column map (code, designation, ADSE charge, copayment).
func ExtractRows(f *excelize.File) ([]Row, error) {
	out := []Row{}

	for _, sheet := range f.GetSheetList() {
		m := reCategorySheet.FindStringSubmatch(sheet)
		if m == nil {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		category := categoryName(m[1], rows)

		codeIdx, desigIdx, adseIdx, copayIdx := -1, -1, -1, -1
		headerSeen := false
		for _, row := range rows {
			if !headerSeen {
				for _, v := range row {
					if h := util.NormalizeHeader(v); h == "CÓDIGO" || h == "CODIGO" {
						headerSeen = true
						break
					}
				}
				if headerSeen {
					for idx, v := range row {
						h := util.NormalizeHeader(v)
						switch {
						case h == "CÓDIGO" || h == "CODIGO":
							codeIdx = idx
						case h == "DESIGNAÇÃO":
							desigIdx = idx
						case strings.Contains(h, "ENCARGO") && strings.Contains(h, "ADSE"):
							adseIdx = idx
						case strings.Contains(h, "COPAGAMENTO"):
							copayIdx = idx
						}
					}
				}
				continue
			}

			codeCell := cell(row, codeIdx)
			desigCell := cell(row, desigIdx)
			if codeCell == "" && desigCell == "" {
				continue
			}

			codeNum := util.CellNumeric(codeCell)
			if codeNum == nil {
				// Subcategory header or other non-data row.
				continue
			}
			if desigCell == "" {
				continue
			}

			code := codeCell
			if !reDigits.MatchString(code) {
				code = strconv.FormatInt(int64(*codeNum), 10)
			}

			r := Row{
				Sheet:       sheet,
				Category:    category,
				Code:        code,
				Designation: desigCell,
			}
			if adse := util.CellNumeric(cell(row, adseIdx)); adse != nil {
				r.ADSECharge = *adse
			}
			copayRaw := cell(row, copayIdx)
			if copay := util.CellNumeric(copayRaw); copay != nil {
				r.Copayment = copay
			} else if copayRaw != "" {
				r.CopaymentRaw = util.StringPtr(copayRaw)
			}
			out = append(out, r)
		}
	}

	return out, nil
}

// Compare diffs the re-derived workbook rows against the stored
// procedures: per-category counts, row-by-row values with positional
// pairing for duplicate (code, designation) keys, and missing/extra rows.
func Compare(excelRows []Row, stored []internal.Procedure) *Report {
	report := &Report{ExcelRows: len(excelRows), StoredRows: len(stored)}

	storedByCat := map[string][]internal.Procedure{}
	for _, p := range stored {
		storedByCat[p.Category] = append(storedByCat[p.Category], p)
	}
	excelByCat := map[string][]Row{}
	for _, r := range excelRows {
		excelByCat[r.Category] = append(excelByCat[r.Category], r)
	}

	cats := map[string]struct{}{}
	for cat := range storedByCat {
		cats[cat] = struct{}{}
	}
	for cat := range excelByCat {
		cats[cat] = struct{}{}
	}
	allCats := make([]string, 0, len(cats))
	for cat := range cats {
		allCats = append(allCats, cat)
	}
	sort.Strings(allCats)

	for _, cat := range allCats {
		report.Counts = append(report.Counts, CountDiff{
			Category: cat,
			Stored:   len(storedByCat[cat]),
			Excel:    len(excelByCat[cat]),
		})
	}

	for _, cat := range allCats {
		type key struct{ code, designation string }

		storedByKey := map[key][]internal.Procedure{}
		for _, p := range storedByCat[cat] {
			k := key{p.Code, p.Designation}
			storedByKey[k] = append(storedByKey[k], p)
		}
		excelByKey := map[key][]Row{}
		keyOrder := []key{}
		for _, r := range excelByCat[cat] {
			k := key{r.Code, r.Designation}
			if _, ok := excelByKey[k]; !ok {
				keyOrder = append(keyOrder, k)
			}
			excelByKey[k] = append(excelByKey[k], r)
		}

		for _, k := range keyOrder {
			excelEntries := excelByKey[k]
			storedEntries := storedByKey[k]

			for i, e := range excelEntries {
				if i >= len(storedEntries) {
					report.Missing = append(report.Missing, Entry{Category: cat, Code: e.Code, Designation: e.Designation})
					continue
				}
				s := storedEntries[i]

				issues := []string{}
				if util.Round2(s.ADSECharge) != util.Round2(e.ADSECharge) {
					issues = append(issues, fmt.Sprintf("adseCharge: stored=%.2f, excel=%.2f", s.ADSECharge, e.ADSECharge))
				}
				if e.Copayment != nil {
					if util.Round2(s.Copayment) != util.Round2(*e.Copayment) {
						issues = append(issues, fmt.Sprintf("copayment: stored=%.2f, excel=%.2f", s.Copayment, *e.Copayment))
					}
				} else if e.CopaymentRaw != nil {
					note := ""
					if s.CopaymentNote != nil {
						note = *s.CopaymentNote
					}
					if note != *e.CopaymentRaw {
						issues = append(issues, fmt.Sprintf("copaymentNote: stored=%q, excel=%q", note, *e.CopaymentRaw))
					}
				}

				if len(issues) > 0 {
					report.Mismatches = append(report.Mismatches, Mismatch{
						Category:    cat,
						Code:        e.Code,
						Designation: truncate(e.Designation, 50),
						Issues:      issues,
					})
				}
			}
		}

		for k, storedEntries := range storedByKey {
			excelEntries := excelByKey[k]
			for i := len(excelEntries); i < len(storedEntries); i++ {
				report.Extra = append(report.Extra, Entry{Category: cat, Code: k.code, Designation: truncate(k.designation, 50)})
			}
		}
	}

	return report
}

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

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
