package pipeline

import (
	"fmt"
	"strings"

	"github.com/wagewise/wagewise/store"
)

// categoryLabels maps storage category types to presentation labels.
var categoryLabels = map[string]string{
	store.CategoryStandard:       "Standard",
	store.CategoryTippedCombined: "Tipped (combined)",
	store.CategoryTippedCredit:   "Tipped (tip credit)",
	store.CategoryTippedCash:     "Tipped (cash wage)",
}

// FormatRecords renders wage records as a markdown table, the shape both
// the terminal output and the answer-composition prompt consume. Records
// arrive already ordered by the store.
func FormatRecords(records []*store.WageRecord) string {
	if len(records) == 0 {
		return "No wage records found."
	}

	var b strings.Builder
	b.WriteString("| State | Year | Category | Rate |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range records {
		label, ok := categoryLabels[r.CategoryType]
		if !ok {
			label = r.CategoryType
		}
		fmt.Fprintf(&b, "| %s | %d | %s | $%.2f |\n", r.StateName, r.Year, label, r.Amount)
	}
	return b.String()
}
