package invoice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

// A fieldPattern recovers the typed fields of one invoice line item from a
// logical line. Each layout tries its patterns in priority order, most
// specific first, and the first match wins.
type fieldPattern struct {
	name  string
	match func(line string) (internal.InvoiceItem, bool)
}

type layout struct {
	provider internal.Provider
	patterns []fieldPattern
	// skip drops page furniture before any pattern is tried; nil when the
	// layout has none worth filtering up front.
	skip *regexp.Regexp
	// stop bounds how far a wrapped description may grow.
	stop func(line string) bool
}

func (l layout) tryPatterns(line string) (internal.InvoiceItem, bool) {
	for _, p := range l.patterns {
		if item, ok := p.match(line); ok {
			return item, true
		}
	}
	return internal.InvoiceItem{}, false
}

// reRecordStart marks a line that opens an item record: date, code, and at
// least the beginning of a description.
var reRecordStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\s+\d+\s+.+`)

// CUF layout. Column order after text extraction:
// date code description qty unitValue adseValue clientValue
var (
	// Some lines carry a CHNM/CDM number (5+ digits) between the
	// description and the quantity.
	reCUFWithCHNM = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+(\d{5,})\s+(\d+\.\d+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s*$`)
	reCUFStandard = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+(\d+\.\d+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s*$`)
	// When the beneficiary copayment is zero the trailing column is
	// omitted from the invoice line entirely.
	reCUFNoCopay = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+(\d+\.\d+)\s+([\d.,]+)\s+([\d.,]+)\s*$`)

	reCUFStop = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}|Sub-Total|Total|Contagem|Hospital)`)
)

var cufLayout = layout{
	provider: internal.ProviderCUF,
	patterns: []fieldPattern{
		{name: "chnm", match: matchCUF(reCUFWithCHNM, cufColumns{qty: 5, unit: 6, adse: 7, client: 8})},
		{name: "standard", match: matchCUF(reCUFStandard, cufColumns{qty: 4, unit: 5, adse: 6, client: 7})},
		{name: "no-copay", match: matchCUF(reCUFNoCopay, cufColumns{qty: 4, unit: 5, adse: 6, client: -1})},
	},
	stop: reCUFStop.MatchString,
}

type cufColumns struct {
	qty, unit, adse, client int
}

func matchCUF(re *regexp.Regexp, cols cufColumns) func(string) (internal.InvoiceItem, bool) {
	return func(line string) (internal.InvoiceItem, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return internal.InvoiceItem{}, false
		}
		// CUF quantities use dot decimals; amounts use the Portuguese
		// convention.
		qty, err := strconv.ParseFloat(m[cols.qty], 64)
		if err != nil {
			return internal.InvoiceItem{}, false
		}
		unit, err := util.ParsePTDecimal(m[cols.unit])
		if err != nil {
			return internal.InvoiceItem{}, false
		}
		adse, err := util.ParsePTDecimal(m[cols.adse])
		if err != nil {
			return internal.InvoiceItem{}, false
		}
		client := 0.0
		if cols.client > 0 {
			client, err = util.ParsePTDecimal(m[cols.client])
			if err != nil {
				return internal.InvoiceItem{}, false
			}
		}
		return internal.InvoiceItem{
			Date:        m[1],
			Code:        m[2],
			Description: strings.TrimSpace(m[3]),
			Qty:         qty,
			UnitValue:   unit,
			ADSEValue:   adse,
			ClientValue: client,
		}, true
	}
}

// Lusíadas layout. Column order after text extraction:
// date code description qty unitValue totalUnitPrice copay 0,00 0,00 copay
// The ADSE portion is not explicit; it is totalUnitPrice × qty - copay.
// The two always-zero columns are IVA, which never applies to ADSE lines,
// and the copayment is repeated at the end of the line.
var (
	reLusiadasLine = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+(\d+,\d{2})\s+([\d.,]+)\s+([\d., ]+,\d{2})\s+([\d.,]+)\s+0,00\s+0,00\s+([\d.,]+)\s*$`)

	reLusiadasSkip = regexp.MustCompile(
		`^(Fatura|Original|\d{4}-\d{2}-\d{2}$|Data de|Nr\.|P.*g\.|Dados|` +
			`Visão|Convenção|Val\.|IVA |%|Qtd|ud\d|Isento|CLISA|\(1\)|` +
			`Hospital Lus|www\.|Impresso|Resumo|Carla|Taxa|Contagem|Total)`)
)

var lusiadasLayout = layout{
	provider: internal.ProviderLusiadas,
	patterns: []fieldPattern{
		{name: "standard", match: matchLusiadas},
	},
	skip: reLusiadasSkip,
	stop: func(line string) bool {
		return reDatePrefix.MatchString(line) || reLusiadasSkip.MatchString(line)
	},
}

var reDatePrefix = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

func matchLusiadas(line string) (internal.InvoiceItem, bool) {
	m := reLusiadasLine.FindStringSubmatch(line)
	if m == nil {
		return internal.InvoiceItem{}, false
	}
	qty, err := util.ParsePTDecimal(m[4])
	if err != nil {
		return internal.InvoiceItem{}, false
	}
	// Total unit price may carry space thousands separators.
	totalPrice, err := util.ParsePTDecimal(strings.ReplaceAll(m[6], " ", ""))
	if err != nil {
		return internal.InvoiceItem{}, false
	}
	copay, err := util.ParsePTDecimal(m[7])
	if err != nil {
		return internal.InvoiceItem{}, false
	}
	return internal.InvoiceItem{
		Date:        m[1],
		Code:        m[2],
		Description: strings.TrimSpace(m[3]),
		Qty:         qty,
		UnitValue:   totalPrice,
		ADSEValue:   util.Round2(totalPrice*qty - copay),
		ClientValue: copay,
	}, true
}
