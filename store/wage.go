package store

// Dimensional model for the minimum-wage warehouse: one fact table keyed by
// state, category and year, with frequency and footnote dimensions and a
// footnote bridge.

// DimState is a US state or territory.
type DimState struct {
	ID   int32
	Name string
	Code string
}

// Wage category types. "standard" is the plain minimum wage; the tipped
// variants decompose the tipped wage into its combined, credit and cash
// components.
const (
	CategoryStandard       = "standard"
	CategoryTippedCombined = "tipped_combined"
	CategoryTippedCredit   = "tipped_credit"
	CategoryTippedCash     = "tipped_cash"
)

// DimCategory is a wage category.
type DimCategory struct {
	ID   int32
	Type string
}

// DimFrequency describes how often a wage figure applies (hourly, daily,
// weekly as published by the source tables).
type DimFrequency struct {
	ID    int32
	Label string
}

// DimFootnote is a source-table footnote attached to wage figures.
type DimFootnote struct {
	ID   int32
	Code string
	Text string
}

// WageFact is the denormalized input for one fact row. The driver resolves
// each dimension by its natural key, creating missing entries, and links
// footnotes through the bridge table.
type WageFact struct {
	StateName      string
	StateCode      string
	Year           int
	CategoryType   string
	FrequencyLabel string
	Amount         float64
	FootnoteCodes  []string
}

// WageRecord is one row of the joined fact query, in presentation shape.
type WageRecord struct {
	StateName    string
	Year         int
	CategoryType string
	Amount       float64
}

// WageQuery filters the fact table. Empty slices mean "no filter on this
// dimension". Results are always ordered by state name, year descending,
// category type.
type WageQuery struct {
	States     []string
	Years      []int
	Categories []string
	Limit      int
}
