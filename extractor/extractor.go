// Package extractor loads the published minimum-wage history tables into
// the dimensional store: fetch the page, parse the wage table, normalize
// the cells and upsert fact rows.
package extractor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/wagewise/wagewise/store"
)

// DefaultSourceURL is the Department of Labor minimum-wage history table.
const DefaultSourceURL = "https://www.dol.gov/agencies/whd/state/minimum-wage/history"

const userAgent = "wagewise-extractor/1.0"

// Extractor fetches and loads wage tables.
type Extractor struct {
	store  *store.Store
	client *http.Client
	logger *slog.Logger
}

// New creates an extractor over the store.
func New(s *store.Store) *Extractor {
	return &Extractor{
		store:  s,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default(),
	}
}

// Run fetches the table at url and loads every parseable cell as a fact
// of the given category. It returns the number of facts written. Rows and
// cells that do not parse are skipped and counted, never fatal.
func (e *Extractor) Run(ctx context.Context, url, category string) (int, error) {
	if url == "" {
		url = DefaultSourceURL
	}
	if category == "" {
		category = store.CategoryStandard
	}

	doc, err := e.fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	years, rows, err := ParseWageTable(doc)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse wage table")
	}
	e.logger.Info("parsed wage table", "years", len(years), "rows", len(rows))

	inserted := 0
	skipped := 0
	for _, row := range rows {
		for year, cell := range row.Values {
			amount, footnotes, ok := ParseWageCell(cell)
			if !ok {
				skipped++
				continue
			}
			fact := &store.WageFact{
				StateName:      row.State,
				Year:           year,
				CategoryType:   category,
				FrequencyLabel: "hourly",
				Amount:         amount,
				FootnoteCodes:  footnotes,
			}
			if _, err := e.store.InsertWageFact(ctx, fact); err != nil {
				return inserted, errors.Wrapf(err, "failed to insert fact for %s %d", row.State, year)
			}
			inserted++
		}
	}

	e.logger.Info("extraction finished", "inserted", inserted, "skipped", skipped, "category", category)
	return inserted, nil
}

func (e *Extractor) fetch(ctx context.Context, url string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	return doc, nil
}
