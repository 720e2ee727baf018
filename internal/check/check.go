package check

import (
	"math"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

// Checker compares invoice line items against the pricing table. The index
// is keyed by leading-zero-stripped code; the same code may map to several
// entries when it recurs across categories.
type Checker struct {
	byCode    map[string][]internal.Procedure
	variable  map[string]struct{}
	tolerance float64
}

func New(procedures []internal.Procedure, variableCodes []string, tolerance float64) *Checker {
	byCode := make(map[string][]internal.Procedure, len(procedures))
	for _, p := range procedures {
		key := util.StripLeadingZeros(p.Code)
		byCode[key] = append(byCode[key], p)
	}

	variable := make(map[string]struct{}, len(variableCodes))
	for _, code := range variableCodes {
		variable[util.StripLeadingZeros(code)] = struct{}{}
	}

	return &Checker{byCode: byCode, variable: variable, tolerance: tolerance}
}

// Check classifies every invoice item and totals the differences. Items
// whose code is absent from the table are informational, not errors:
// hospitals bill their own codes and urgency surcharges outside the table.
func (c *Checker) Check(provider internal.Provider, items []internal.InvoiceItem) internal.CheckReport {
	report := internal.CheckReport{
		Provider: provider,
		Rows:     make([]internal.CheckRow, 0, len(items)),
	}

	for _, item := range items {
		report.InvoiceTotal += item.ClientValue
		key := util.StripLeadingZeros(item.Code)

		matches := c.byCode[key]
		if len(matches) == 0 {
			report.Rows = append(report.Rows, internal.CheckRow{Item: item, Status: internal.CheckNotFound})
			report.NotFound++
			continue
		}

		if _, ok := c.variable[key]; ok {
			report.Rows = append(report.Rows, internal.CheckRow{Item: item, Status: internal.CheckVariable})
			report.OKCount++
			continue
		}

		// Prefer the entry whose ADSE charge matches the invoiced amount;
		// for codes that price differently per category this picks the
		// category the hospital actually billed under.
		best := matches[0]
		for _, m := range matches {
			if math.Abs(m.ADSECharge-item.ADSEValue) < c.tolerance {
				best = m
				break
			}
		}

		row := internal.CheckRow{
			Item:          item,
			Entry:         &best,
			ExpectedADSE:  best.ADSECharge,
			ExpectedCopay: best.Copayment,
			ADSEDiff:      util.Round2(item.ADSEValue - best.ADSECharge),
			CopayDiff:     util.Round2(item.ClientValue - best.Copayment),
		}

		if math.Abs(row.ADSEDiff) < c.tolerance && math.Abs(row.CopayDiff) < c.tolerance {
			row.Status = internal.CheckOK
			report.OKCount++
		} else {
			row.Status = internal.CheckDiff
			report.DiffCount++
			report.NetCopayDiff += row.CopayDiff
		}
		report.Rows = append(report.Rows, row)
	}

	report.InvoiceTotal = util.Round2(report.InvoiceTotal)
	report.NetCopayDiff = util.Round2(report.NetCopayDiff)
	return report
}
