package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Cell grammar of the published tables: a dollar figure, optionally a
// range, with bracketed footnote markers. "..." and empty cells mean no
// figure for that year.

var (
	footnoteRe = regexp.MustCompile(`[\[(]([a-z]{1,3}|\d{1,2})[\])]`)
	amountRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseWageCell parses one wage cell into an amount and its footnote
// codes. ok is false for cells with no figure. Range cells keep the upper
// figure.
func ParseWageCell(cell string) (float64, []string, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "..." {
		return 0, nil, false
	}

	var footnotes []string
	for _, m := range footnoteRe.FindAllStringSubmatch(cell, -1) {
		footnotes = append(footnotes, m[1])
	}
	cleaned := footnoteRe.ReplaceAllString(cell, " ")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	matches := amountRe.FindAllString(cleaned, -1)
	if len(matches) == 0 {
		return 0, nil, false
	}

	best := 0.0
	found := false
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return 0, nil, false
	}
	return best, footnotes, true
}
