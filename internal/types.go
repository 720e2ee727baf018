package internal

// Provider identifies which hospital group produced an invoice PDF.
type Provider string

const (
	ProviderCUF      Provider = "cuf"
	ProviderLusiadas Provider = "lusiadas"
	ProviderUnknown  Provider = "unknown"
)

// Label returns the human-readable provider name for reports.
func (p Provider) Label() string {
	switch p {
	case ProviderCUF:
		return "CUF"
	case ProviderLusiadas:
		return "Lusíadas"
	default:
		return "Unknown"
	}
}

// InvoiceItem is one billed procedure occurrence extracted from an invoice.
// ADSEValue is the portion charged to ADSE, ClientValue the beneficiary
// copayment. ClientValue is exactly 0 when the layout omits the column.
type InvoiceItem struct {
	Date        string  `json:"date"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitValue   float64 `json:"unitValue"`
	ADSEValue   float64 `json:"adseValue"`
	ClientValue float64 `json:"clientValue"`
}

// Procedure is one pricing-table entry. Codes are not unique across the
// whole table: the same code may recur in different categories with
// different prices.
type Procedure struct {
	Code         string  `json:"code"`
	Designation  string  `json:"designation"`
	Category     string  `json:"category"`
	CategorySlug string  `json:"categorySlug"`
	ADSECharge   float64 `json:"adseCharge"`
	Copayment    float64 `json:"copayment"`
	Subcategory  *string `json:"subcategory,omitempty"`
	// CopaymentNote holds the verbatim cell text when the copayment column
	// contains free text (e.g. "ver regra 9") instead of a number.
	CopaymentNote       *string `json:"copaymentNote,omitempty"`
	MaxQuantity         *int    `json:"maxQuantity,omitempty"`
	Period              *string `json:"period,omitempty"`
	HospitalizationDays *int    `json:"hospitalizationDays,omitempty"`
	CodeType            *string `json:"codeType,omitempty"`
	SmallSurgery        *bool   `json:"smallSurgery,omitempty"`
	Observations        *string `json:"observations,omitempty"`
}

// RuleSet is the ordered free-text rule clauses of one category.
type RuleSet struct {
	Category string   `json:"category"`
	Slug     string   `json:"slug"`
	Rules    []string `json:"rules"`
}

// CategoryCount is one per-category row tally in TableMetadata.
type CategoryCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// TableMetadata records the provenance of a parsed pricing table.
type TableMetadata struct {
	SourceFile      string          `json:"sourceFile"`
	TableDate       string          `json:"tableDate"`
	ParsedAt        string          `json:"parsedAt"`
	TotalProcedures int             `json:"totalProcedures"`
	Categories      []CategoryCount `json:"categories"`
}

// CheckStatus classifies one invoice item against the pricing table.
type CheckStatus string

const (
	CheckOK       CheckStatus = "OK"
	CheckDiff     CheckStatus = "DIFF"
	CheckNotFound CheckStatus = "NOT_FOUND"
	// CheckVariable marks codes whose price legitimately depends on the
	// dispensed item (e.g. drugs) and is not compared against the table.
	CheckVariable CheckStatus = "VARIABLE"
)

// CheckRow is the comparison outcome for one invoice item.
type CheckRow struct {
	Item          InvoiceItem
	Status        CheckStatus
	Entry         *Procedure
	ExpectedADSE  float64
	ExpectedCopay float64
	ADSEDiff      float64
	CopayDiff     float64
}

// CheckReport is the whole-invoice comparison result.
type CheckReport struct {
	Provider     Provider
	Rows         []CheckRow
	OKCount      int
	DiffCount    int
	NotFound     int
	InvoiceTotal float64
	// NetCopayDiff is the summed copayment difference over DIFF rows;
	// positive means the beneficiary was overcharged.
	NetCopayDiff float64
}
