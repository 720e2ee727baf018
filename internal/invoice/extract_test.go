package invoice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btoninho/adse-navigator/internal"
)

// fakeDoc serves pre-extracted page text, one string per page.
type fakeDoc struct {
	pages []string
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) PageText(page int) (string, error) { return d.pages[page-1], nil }

func (d *fakeDoc) Close() error { return nil }

func TestExtractCUFStandardLine(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"Fatura CUF Descobertas",
		"05/01/2026 92011 CONSULTA DE CARDIOLOGIA 1.00 45,00 31,45 13,55",
	}, "\n")}}

	provider, items := Extract(doc)
	require.Equal(t, internal.ProviderCUF, provider)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "05/01/2026", item.Date)
	assert.Equal(t, "92011", item.Code)
	assert.Equal(t, "CONSULTA DE CARDIOLOGIA", item.Description)
	assert.Equal(t, 1.0, item.Qty)
	assert.Equal(t, 45.0, item.UnitValue)
	assert.Equal(t, 31.45, item.ADSEValue)
	assert.Equal(t, 13.55, item.ClientValue)
}

func TestExtractCUFCHNMPrecedence(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"CUF",
		"05/01/2026 90210 PARACETAMOL 1G COMP 1234567 2.00 1,50 3,00 0,00",
	}, "\n")}}

	_, items := Extract(doc)
	require.Len(t, items, 1)

	// The CHNM number between description and quantity must not leak into
	// the description.
	assert.Equal(t, "PARACETAMOL 1G COMP", items[0].Description)
	assert.Equal(t, 2.0, items[0].Qty)
	assert.Equal(t, 3.0, items[0].ADSEValue)
	assert.Equal(t, 0.0, items[0].ClientValue)
}

func TestExtractCUFNoCopayColumn(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"CUF",
		"05/01/2026 92012 TAXA DE REGISTO 1.00 5,00 5,00",
	}, "\n")}}

	_, items := Extract(doc)
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].ADSEValue)
	assert.Equal(t, 0.0, items[0].ClientValue)
}

func TestExtractCUFWrappedDescription(t *testing.T) {
	single := &fakeDoc{pages: []string{strings.Join([]string{
		"CUF",
		"05/01/2026 92011 CONSULTA DE CARDIOLOGIA PEDIATRICA 1.00 45,00 31,45 13,55",
	}, "\n")}}
	wrapped := &fakeDoc{pages: []string{strings.Join([]string{
		"CUF",
		"05/01/2026 92011 CONSULTA DE",
		"CARDIOLOGIA PEDIATRICA 1.00 45,00 31,45 13,55",
	}, "\n")}}

	_, singleItems := Extract(single)
	_, wrappedItems := Extract(wrapped)

	require.Len(t, singleItems, 1)
	assert.Equal(t, singleItems, wrappedItems)
}

func TestExtractCUFWrappedStopsAtMarker(t *testing.T) {
	// The broken record never completes; the stop marker bounds the merge
	// and the following record must still be extracted.
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"CUF",
		"05/01/2026 99999 LINHA TRUNCADA SEM VALORES",
		"05/01/2026 92011 CONSULTA DE CARDIOLOGIA 1.00 45,00 31,45 13,55",
	}, "\n")}}

	_, items := Extract(doc)
	require.Len(t, items, 1)
	assert.Equal(t, "92011", items[0].Code)
}

func TestExtractCUFMultiPage(t *testing.T) {
	doc := &fakeDoc{pages: []string{
		strings.Join([]string{
			"Hospital CUF Tejo",
			"05/01/2026 92011 CONSULTA DE CARDIOLOGIA 1.00 45,00 31,45 13,55",
			"06/01/2026 11760 ELECTROCARDIOGRAMA",
			"SIMPLES 1.00 10,00 7,50 2,50",
		}, "\n"),
		strings.Join([]string{
			"Sub-Total 16,05",
			"Total 16,05",
		}, "\n"),
	}}

	provider, items := Extract(doc)
	require.Equal(t, internal.ProviderCUF, provider)
	require.Len(t, items, 2)
	assert.Equal(t, "92011", items[0].Code)
	assert.Equal(t, "11760", items[1].Code)
	assert.Equal(t, "ELECTROCARDIOGRAMA SIMPLES", items[1].Description)
}

func TestExtractLusiadasImplicitADSE(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"Hospital Lusíadas Lisboa",
		"10/02/2026 30015 Consulta Cardiologia 1,00 85,00 85,00 20,00 0,00 0,00 20,00",
	}, "\n")}}

	provider, items := Extract(doc)
	require.Equal(t, internal.ProviderLusiadas, provider)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "30015", item.Code)
	assert.Equal(t, 1.0, item.Qty)
	assert.Equal(t, 85.0, item.UnitValue)
	// ADSE portion is total price × qty minus the copayment.
	assert.Equal(t, 65.0, item.ADSEValue)
	assert.Equal(t, 20.0, item.ClientValue)
}

func TestExtractLusiadasNegativeADSEUnclamped(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"Lusíadas",
		"10/02/2026 40000 Analise 1,00 5,00 5,00 10,00 0,00 0,00 10,00",
	}, "\n")}}

	_, items := Extract(doc)
	require.Len(t, items, 1)
	assert.Equal(t, -5.0, items[0].ADSEValue)
}

func TestExtractLusiadasQuantityMultiplies(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"Lusíadas",
		"10/02/2026 30020 Sessao Fisioterapia 3,00 15,00 15,00 9,00 0,00 0,00 9,00",
	}, "\n")}}

	_, items := Extract(doc)
	require.Len(t, items, 1)
	// 15,00 × 3 - 9,00
	assert.Equal(t, 36.0, items[0].ADSEValue)
}

func TestExtractUnknownProviderFallsBackToCUF(t *testing.T) {
	doc := &fakeDoc{pages: []string{strings.Join([]string{
		"Clinica Sem Marca",
		"05/01/2026 92011 CONSULTA 1.00 45,00 31,45 13,55",
	}, "\n")}}

	provider, items := Extract(doc)
	assert.Equal(t, internal.ProviderCUF, provider)
	require.Len(t, items, 1)
}

func TestExtractNoItems(t *testing.T) {
	doc := &fakeDoc{pages: []string{"Recibo sem linhas de fatura"}}

	provider, items := Extract(doc)
	assert.Equal(t, internal.ProviderUnknown, provider)
	assert.Empty(t, items)
}
