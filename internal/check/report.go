package check

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/btoninho/adse-navigator/internal"
)

// RenderReport writes the per-item table and the summary block for one
// checked invoice.
func RenderReport(w io.Writer, invoiceName string, report internal.CheckReport) {
	fmt.Fprintf(w, "Invoice: %s\n", invoiceName)
	fmt.Fprintf(w, "Provider: %s\n", report.Provider.Label())
	fmt.Fprintf(w, "Found %d line items\n\n", len(report.Rows))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "Description", "ADSE", "Copay", "Status"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, row := range report.Rows {
		table.Append([]string{
			row.Item.Code,
			truncate(row.Item.Description, 45),
			fmt.Sprintf("%.2f€", row.Item.ADSEValue),
			fmt.Sprintf("%.2f€", row.Item.ClientValue),
			statusText(row),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\nSummary\n")
	fmt.Fprintf(w, "  Line items:         %d\n", len(report.Rows))
	fmt.Fprintf(w, "  Matching table:     %d\n", report.OKCount)
	fmt.Fprintf(w, "  Price differences:  %d\n", report.DiffCount)
	fmt.Fprintf(w, "  Not in table:       %d\n", report.NotFound)
	fmt.Fprintf(w, "  Invoice total:      %.2f€ (your copayment)\n", report.InvoiceTotal)

	if report.DiffCount > 0 {
		fmt.Fprintf(w, "\n  Net copayment difference: %+.2f€\n", report.NetCopayDiff)
		if report.NetCopayDiff > 0 {
			fmt.Fprintf(w, "  You were overcharged %.2f€ relative to the ADSE table.\n", report.NetCopayDiff)
		} else if report.NetCopayDiff < 0 {
			fmt.Fprintf(w, "  You were undercharged %.2f€ relative to the ADSE table.\n", -report.NetCopayDiff)
		}
	}

	if report.NotFound > 0 {
		codes := make([]string, 0, report.NotFound)
		for _, row := range report.Rows {
			if row.Status == internal.CheckNotFound {
				codes = append(codes, row.Item.Code)
			}
		}
		fmt.Fprintf(w, "\n  Codes not in ADSE table: %s\n", strings.Join(codes, ", "))
		fmt.Fprintf(w, "  (These may be hospital-specific codes or urgency surcharges)\n")
	}

	if report.DiffCount == 0 && report.NotFound == 0 {
		fmt.Fprintf(w, "\n  All charges match the ADSE pricing table.\n")
	}
}

func statusText(row internal.CheckRow) string {
	switch row.Status {
	case internal.CheckOK:
		return "OK"
	case internal.CheckVariable:
		return "OK (variable pricing)"
	case internal.CheckNotFound:
		return "NOT IN TABLE"
	}

	parts := []string{}
	if row.ADSEDiff != 0 {
		parts = append(parts, fmt.Sprintf("ADSE %+.2f€ (expected %.2f€)", row.ADSEDiff, row.ExpectedADSE))
	}
	if row.CopayDiff != 0 {
		parts = append(parts, fmt.Sprintf("Copay %+.2f€ (expected %.2f€)", row.CopayDiff, row.ExpectedCopay))
	}
	return "DIFF: " + strings.Join(parts, "; ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
