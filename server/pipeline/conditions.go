package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/wagewise/wagewise/internal/errors"
	"github.com/wagewise/wagewise/store"
)

// SQLConditions is the structured query filter the LLM produces for the
// SQL route. Category is "standard", "tipped" or empty.
type SQLConditions struct {
	States       []string `json:"states"`
	Years        []int    `json:"years"`
	CategoryType string   `json:"category_type"`
}

// The published tables start with the federal minimum wage act era.
const minDataYear = 1968

// ValidateConditions checks and canonicalizes LLM-generated conditions:
// states must be on the state list, years in a plausible range, category
// one of the two query classes. It mutates conditions in place and returns
// a validation error naming the first offending value.
func ValidateConditions(conditions *SQLConditions) error {
	if conditions == nil {
		return apperrors.Validation("conditions are missing")
	}

	for i, s := range conditions.States {
		canonical, ok := CanonicalState(s)
		if !ok {
			return apperrors.Validation(fmt.Sprintf("unknown state: %s", s))
		}
		conditions.States[i] = canonical
	}

	maxYear := time.Now().Year() + 1
	for _, y := range conditions.Years {
		if y < minDataYear || y > maxYear {
			return apperrors.Validation(fmt.Sprintf("year out of range: %d", y))
		}
	}

	switch strings.ToLower(strings.TrimSpace(conditions.CategoryType)) {
	case "":
		conditions.CategoryType = ""
	case "standard":
		conditions.CategoryType = "standard"
	case "tipped":
		conditions.CategoryType = "tipped"
	default:
		return apperrors.Validation(fmt.Sprintf("unknown category type: %s", conditions.CategoryType))
	}

	return nil
}

// WageQuery translates validated conditions into a store query. "tipped"
// expands to all tipped category variants.
func (c *SQLConditions) WageQuery() *store.WageQuery {
	query := &store.WageQuery{
		States: c.States,
		Years:  c.Years,
	}
	switch c.CategoryType {
	case "standard":
		query.Categories = []string{store.CategoryStandard}
	case "tipped":
		query.Categories = []string{
			store.CategoryTippedCombined,
			store.CategoryTippedCredit,
			store.CategoryTippedCash,
		}
	}
	return query
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// HeuristicConditions derives conditions directly from the question text:
// state names from the state list, four-digit years, tipped category when
// the question mentions tips. Used when no LLM is configured and as the
// fallback for unusable LLM condition output.
func HeuristicConditions(question string) *SQLConditions {
	conditions := &SQLConditions{
		States: ExtractStates(question),
	}

	for _, match := range yearRe.FindAllString(question, -1) {
		if y, err := strconv.Atoi(match); err == nil {
			conditions.Years = append(conditions.Years, y)
		}
	}

	lower := strings.ToLower(question)
	if strings.Contains(lower, "tip") {
		conditions.CategoryType = "tipped"
	}

	return conditions
}
