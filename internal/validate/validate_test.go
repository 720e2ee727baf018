package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

func mkWorkbook(t *testing.T, rows [][]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	name := "RC_1 - Consultas - Tab"
	_ = f.SetSheetName(f.GetSheetName(0), name)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(name, cell, v)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func stored(code string, adse, copay float64) internal.Procedure {
	return internal.Procedure{
		Code:        code,
		Designation: "Proc " + code,
		Category:    "Consultas",
		ADSECharge:  adse,
		Copayment:   copay,
	}
}

func TestExtractRows(t *testing.T) {
	f := mkWorkbook(t, [][]string{
		{"TABELA"},
		{"1 - Consultas"},
		{"CÓDIGO", "DESIGNAÇÃO", "ENCARGO ADSE", "COPAGAMENTO"},
		{"", "SUBCATEGORIA IGNORADA"},
		{"40", "Proc 40", "31,45", "13,55"},
		{"45", "Proc 45", "40,00", "ver regra 9"},
	})

	rows, err := ExtractRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Consultas", rows[0].Category)
	assert.Equal(t, "40", rows[0].Code)
	assert.Equal(t, 31.45, rows[0].ADSECharge)
	require.NotNil(t, rows[0].Copayment)
	assert.Equal(t, 13.55, *rows[0].Copayment)

	assert.Nil(t, rows[1].Copayment)
	require.NotNil(t, rows[1].CopaymentRaw)
	assert.Equal(t, "ver regra 9", *rows[1].CopaymentRaw)
}

func TestCompareClean(t *testing.T) {
	excelRows := []Row{
		{Category: "Consultas", Code: "40", Designation: "Proc 40", ADSECharge: 31.45, Copayment: util.FloatPtr(13.55)},
		{Category: "Consultas", Code: "45", Designation: "Proc 45", ADSECharge: 40, Copayment: util.FloatPtr(20)},
	}
	storedRows := []internal.Procedure{
		stored("40", 31.45, 13.55),
		stored("45", 40, 20),
	}

	report := Compare(excelRows, storedRows)
	assert.True(t, report.Clean())
	require.Len(t, report.Counts, 1)
	assert.Equal(t, 2, report.Counts[0].Excel)
	assert.Equal(t, 2, report.Counts[0].Stored)
}

func TestCompareValueMismatch(t *testing.T) {
	excelRows := []Row{
		{Category: "Consultas", Code: "40", Designation: "Proc 40", ADSECharge: 31.45, Copayment: util.FloatPtr(13.55)},
	}
	storedRows := []internal.Procedure{stored("40", 31.45, 99)}

	report := Compare(excelRows, storedRows)
	assert.False(t, report.Clean())
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "40", report.Mismatches[0].Code)
	require.Len(t, report.Mismatches[0].Issues, 1)
	assert.Contains(t, report.Mismatches[0].Issues[0], "copayment")
}

func TestCompareCopaymentNote(t *testing.T) {
	excelRows := []Row{
		{Category: "Consultas", Code: "45", Designation: "Proc 45", ADSECharge: 40, CopaymentRaw: util.StringPtr("ver regra 9")},
	}
	withNote := stored("45", 40, 0)
	withNote.CopaymentNote = util.StringPtr("ver regra 9")

	report := Compare(excelRows, []internal.Procedure{withNote})
	assert.True(t, report.Clean())
}

func TestCompareMissingAndExtra(t *testing.T) {
	excelRows := []Row{
		{Category: "Consultas", Code: "40", Designation: "Proc 40", ADSECharge: 31.45, Copayment: util.FloatPtr(13.55)},
		{Category: "Consultas", Code: "46", Designation: "Proc 46", ADSECharge: 10, Copayment: util.FloatPtr(5)},
	}
	storedRows := []internal.Procedure{
		stored("40", 31.45, 13.55),
		stored("47", 12, 6),
	}

	report := Compare(excelRows, storedRows)
	assert.False(t, report.Clean())
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "46", report.Missing[0].Code)
	require.Len(t, report.Extra, 1)
	assert.Equal(t, "47", report.Extra[0].Code)
}

func TestCompareDuplicateKeysPairPositionally(t *testing.T) {
	// The same (code, designation) may recur; entries pair in order.
	excelRows := []Row{
		{Category: "Consultas", Code: "50", Designation: "Proc 50", ADSECharge: 10, Copayment: util.FloatPtr(5)},
		{Category: "Consultas", Code: "50", Designation: "Proc 50", ADSECharge: 20, Copayment: util.FloatPtr(8)},
	}
	storedRows := []internal.Procedure{
		stored("50", 10, 5),
		stored("50", 20, 8),
	}

	report := Compare(excelRows, storedRows)
	assert.True(t, report.Clean())
}
