package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

// columnMap holds the column index of each known field in one sheet, -1
// when the sheet lacks the column. Header positions shift between sheets,
// so the map is rebuilt per sheet from fuzzy header matching.
type columnMap struct {
	code                int
	designation         int
	adseCharge          int
	copayment           int
	maxQuantity         int
	period              int
	hospitalizationDays int
	codeType            int
	smallSurgery        int
	observations        int
}

func isCodeHeader(v string) bool {
	h := util.NormalizeHeader(v)
	return h == "CÓDIGO" || h == "CODIGO"
}

// buildColumnMap matches every header cell independently against the known
// column-title vocabulary, so column order in the source is irrelevant.
func buildColumnMap(row []string) columnMap {
	cm := columnMap{
		code: -1, designation: -1, adseCharge: -1, copayment: -1,
		maxQuantity: -1, period: -1, hospitalizationDays: -1,
		codeType: -1, smallSurgery: -1, observations: -1,
	}
	for idx, v := range row {
		h := util.NormalizeHeader(v)
		switch {
		case h == "":
		case h == "CÓDIGO" || h == "CODIGO":
			cm.code = idx
		case h == "DESIGNAÇÃO":
			cm.designation = idx
		case strings.Contains(h, "ENCARGO") && strings.Contains(h, "ADSE"):
			cm.adseCharge = idx
		case strings.Contains(h, "COPAGAMENTO"):
			cm.copayment = idx
		case strings.Contains(h, "QUANT") && strings.Contains(h, "MÁX"):
			cm.maxQuantity = idx
		case strings.Contains(h, "PRAZO"):
			cm.period = idx
		case strings.Contains(h, "DIAS DE INTERNAMENTO"):
			cm.hospitalizationDays = idx
		case strings.Contains(h, "TIPO DE CÓDIGO") || strings.Contains(h, "TIPO DE CODIGO"):
			cm.codeType = idx
		case strings.Contains(h, "PEQUENA CIRURGIA"):
			cm.smallSurgery = idx
		case strings.Contains(h, "OBSERV"):
			cm.observations = idx
		}
	}
	return cm
}

// cell returns the trimmed value at idx, tolerating the ragged rows the
// workbook reader produces.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var reDigits = regexp.MustCompile(`^\d+$`)

// parseTabSheet walks one pricing sheet: seek the header row, build the
// column map, then classify every following row as blank, subcategory
// header, or data. The subcategory context is sticky until overwritten and
// tags every data row emitted under it. A sheet with no recognizable
// header yields zero procedures.
func parseTabSheet(rows [][]string, category, slug string) []internal.Procedure {
	procedures := []internal.Procedure{}
	var cm *columnMap
	currentSubcategory := ""

	for _, row := range rows {
		if cm == nil {
			for _, v := range row {
				if isCodeHeader(v) {
					m := buildColumnMap(row)
					cm = &m
					break
				}
			}
			continue
		}

		codeCell := cell(row, cm.code)
		desigCell := cell(row, cm.designation)

		if codeCell == "" && desigCell == "" {
			continue
		}

		// Subcategory header: designation without a code. "TABELA" is the
		// sheet's own title repeated inside the grid, not a subcategory.
		if codeCell == "" {
			if !strings.EqualFold(desigCell, "TABELA") {
				currentSubcategory = desigCell
			}
			continue
		}

		codeNum := util.CellNumeric(codeCell)
		if codeNum == nil {
			if desigCell != "" {
				currentSubcategory = desigCell
			}
			continue
		}

		if desigCell == "" {
			continue
		}

		// Digit-string cells keep leading zeros verbatim; zeros are
		// stripped only at lookup time.
		code := codeCell
		if !reDigits.MatchString(code) {
			code = strconv.FormatInt(int64(*codeNum), 10)
		}

		proc := internal.Procedure{
			Code:         code,
			Designation:  desigCell,
			Category:     category,
			CategorySlug: slug,
		}

		if adse := util.CellNumeric(cell(row, cm.adseCharge)); adse != nil {
			proc.ADSECharge = *adse
		}

		copayRaw := cell(row, cm.copayment)
		if copay := util.CellNumeric(copayRaw); copay != nil {
			proc.Copayment = *copay
		} else if copayRaw != "" {
			proc.CopaymentNote = util.StringPtr(copayRaw)
		}

		if currentSubcategory != "" {
			proc.Subcategory = util.StringPtr(currentSubcategory)
		}

		if v := util.CellNumeric(cell(row, cm.maxQuantity)); v != nil {
			proc.MaxQuantity = util.IntPtr(int(*v))
		}
		if raw := cell(row, cm.period); raw != "" {
			proc.Period = util.StringPtr(formatPeriod(raw))
		}
		if v := util.CellNumeric(cell(row, cm.hospitalizationDays)); v != nil {
			proc.HospitalizationDays = util.IntPtr(int(*v))
		}
		if raw := cell(row, cm.codeType); raw != "" {
			proc.CodeType = util.StringPtr(raw)
		}
		if raw := cell(row, cm.smallSurgery); raw != "" {
			proc.SmallSurgery = util.BoolPtr(strings.EqualFold(raw, "SIM"))
		}
		if raw := cell(row, cm.observations); raw != "" {
			proc.Observations = util.StringPtr(raw)
		}

		procedures = append(procedures, proc)
	}

	return procedures
}

// formatPeriod renders numeric validity periods as "N ano(s)" and passes
// free text through unchanged.
func formatPeriod(raw string) string {
	num := util.CellNumeric(raw)
	if num == nil {
		return raw
	}
	n := int(*num)
	if n == 1 {
		return "1 ano"
	}
	return fmt.Sprintf("%d anos", n)
}
