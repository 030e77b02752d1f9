package extractor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// TableRow is one parsed jurisdiction row: the state label and the raw
// cell text per year column.
type TableRow struct {
	State  string
	Values map[int]string
}

// ParseWageTable extracts the first wage table from the document. The
// expected shape is the published minimum-wage history table: a header row
// of four-digit years and one row per jurisdiction.
func ParseWageTable(root *html.Node) ([]int, []TableRow, error) {
	table := findFirst(root, "table")
	if table == nil {
		return nil, nil, errors.New("no table element found")
	}

	var years []int
	var rows []TableRow
	for _, tr := range findAll(table, "tr") {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			continue
		}

		if years == nil {
			header := parseYearHeader(cells)
			if len(header) > 0 {
				years = header
			}
			continue
		}

		state := strings.TrimSpace(cells[0])
		if state == "" {
			continue
		}
		row := TableRow{State: state, Values: make(map[int]string)}
		for i, year := range years {
			if i+1 < len(cells) {
				row.Values[year] = strings.TrimSpace(cells[i+1])
			}
		}
		rows = append(rows, row)
	}

	if years == nil {
		return nil, nil, errors.New("no year header row found")
	}
	return years, rows, nil
}

// parseYearHeader reads year columns from a header row, skipping the
// leading jurisdiction column and any non-year headers.
func parseYearHeader(cells []string) []int {
	var years []int
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if len(cell) != 4 {
			continue
		}
		year, err := strconv.Atoi(cell)
		if err != nil || year < 1900 || year > 2100 {
			continue
		}
		years = append(years, year)
	}
	return years
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// cellTexts returns the trimmed text of every th/td cell in a row.
func cellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
