package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btoninho/adse-navigator/internal"
)

func proc(code, category string, adse, copay float64) internal.Procedure {
	return internal.Procedure{
		Code:        code,
		Designation: "Proc " + code,
		Category:    category,
		ADSECharge:  adse,
		Copayment:   copay,
	}
}

func item(code string, adse, client float64) internal.InvoiceItem {
	return internal.InvoiceItem{
		Date:        "05/01/2026",
		Code:        code,
		Description: "Item " + code,
		Qty:         1,
		ADSEValue:   adse,
		ClientValue: client,
	}
}

func TestCheckMatchingItem(t *testing.T) {
	c := New([]internal.Procedure{proc("40", "Consultas", 31.45, 13.55)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("40", 31.45, 13.55)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckOK, report.Rows[0].Status)
	assert.Equal(t, 1, report.OKCount)
	assert.Equal(t, 0, report.DiffCount)
	assert.Equal(t, 13.55, report.InvoiceTotal)
}

func TestCheckLookupStripsLeadingZeros(t *testing.T) {
	c := New([]internal.Procedure{proc("00123", "Consultas", 10, 5)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("123", 10, 5)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckOK, report.Rows[0].Status)
}

func TestCheckNotFound(t *testing.T) {
	c := New([]internal.Procedure{proc("40", "Consultas", 31.45, 13.55)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("99999", 10, 2)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckNotFound, report.Rows[0].Status)
	assert.Equal(t, 1, report.NotFound)
	assert.Equal(t, 0, report.DiffCount)
	// Not-found copayments still count toward the invoice total.
	assert.Equal(t, 2.0, report.InvoiceTotal)
}

func TestCheckVariablePriceCode(t *testing.T) {
	c := New([]internal.Procedure{proc("6631", "Medicamentos", 0, 0)}, []string{"6631"}, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("6631", 12.34, 5.67)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckVariable, report.Rows[0].Status)
	assert.Equal(t, 1, report.OKCount)
	assert.Equal(t, 0, report.DiffCount)
}

func TestCheckPrefersEntryMatchingInvoicedADSE(t *testing.T) {
	// Same code in two categories with different prices; the invoiced ADSE
	// amount picks the category actually billed.
	c := New([]internal.Procedure{
		proc("50", "Consultas", 20, 10),
		proc("50", "Cirurgia", 35, 15),
	}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("50", 35, 15)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckOK, report.Rows[0].Status)
	assert.Equal(t, "Cirurgia", report.Rows[0].Entry.Category)
}

func TestCheckOvercharge(t *testing.T) {
	c := New([]internal.Procedure{proc("40", "Consultas", 31.45, 13.55)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("40", 31.45, 16.05)})

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, internal.CheckDiff, row.Status)
	assert.Equal(t, 0.0, row.ADSEDiff)
	assert.Equal(t, 2.5, row.CopayDiff)
	assert.Equal(t, 1, report.DiffCount)
	assert.Equal(t, 2.5, report.NetCopayDiff)
}

func TestCheckUndercharge(t *testing.T) {
	c := New([]internal.Procedure{proc("40", "Consultas", 31.45, 13.55)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("40", 31.45, 10.00)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckDiff, report.Rows[0].Status)
	assert.Equal(t, -3.55, report.NetCopayDiff)
}

func TestCheckToleranceAbsorbsCentNoise(t *testing.T) {
	c := New([]internal.Procedure{proc("40", "Consultas", 31.45, 13.55)}, nil, 0.01)

	report := c.Check(internal.ProviderCUF, []internal.InvoiceItem{item("40", 31.449999999, 13.550000001)})

	require.Len(t, report.Rows, 1)
	assert.Equal(t, internal.CheckOK, report.Rows[0].Status)
}
