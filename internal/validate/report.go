package validate

import (
	"fmt"
	"io"
)

const maxShown = 30

// Render writes the human-readable validation report.
func Render(w io.Writer, report *Report) {
	fmt.Fprintln(w, "CHECK 1: Row counts per category")
	countsOK := true
	for _, c := range report.Counts {
		status := "OK"
		if c.Stored != c.Excel {
			status = "MISMATCH"
			countsOK = false
		}
		fmt.Fprintf(w, "  %-10s %s: stored=%d, excel=%d\n", status, c.Category, c.Stored, c.Excel)
	}
	if countsOK {
		fmt.Fprintln(w, "\n  All category counts match.")
	} else {
		fmt.Fprintln(w, "\n  WARNING: some category counts differ.")
	}

	fmt.Fprintln(w, "\nCHECK 2: Row-by-row value comparison")
	if len(report.Mismatches) == 0 {
		fmt.Fprintln(w, "\n  All values match.")
	} else {
		fmt.Fprintf(w, "\n  MISMATCHES: %d rows with value differences:\n", len(report.Mismatches))
		for i, m := range report.Mismatches {
			if i >= maxShown {
				fmt.Fprintf(w, "    ... and %d more\n", len(report.Mismatches)-maxShown)
				break
			}
			fmt.Fprintf(w, "    [%s] Code %s: %s\n", m.Category, m.Code, m.Designation)
			for _, issue := range m.Issues {
				fmt.Fprintf(w, "      -> %s\n", issue)
			}
		}
	}

	renderEntries(w, "MISSING from storage", report.Missing)
	renderEntries(w, "EXTRA in storage", report.Extra)

	total := len(report.Mismatches) + len(report.Missing) + len(report.Extra)
	fmt.Fprintln(w, "\nSummary")
	fmt.Fprintf(w, "  Excel rows:        %d\n", report.ExcelRows)
	fmt.Fprintf(w, "  Stored rows:       %d\n", report.StoredRows)
	fmt.Fprintf(w, "  Value mismatches:  %d\n", len(report.Mismatches))
	fmt.Fprintf(w, "  Missing:           %d\n", len(report.Missing))
	fmt.Fprintf(w, "  Extra:             %d\n", len(report.Extra))

	if total == 0 {
		fmt.Fprintln(w, "\n  VALIDATION PASSED: all data matches the Excel source.")
	} else {
		fmt.Fprintf(w, "\n  VALIDATION FOUND %d ISSUE(S): review above.\n", total)
	}
}

func renderEntries(w io.Writer, title string, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s: %d rows:\n", title, len(entries))
	for i, e := range entries {
		if i >= maxShown {
			fmt.Fprintf(w, "    ... and %d more\n", len(entries)-maxShown)
			break
		}
		fmt.Fprintf(w, "    [%s] Code %s: %s\n", e.Category, e.Code, e.Designation)
	}
}
