package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Migration Flow:
// 1. Migrate: if the database is uninitialized, apply the driver's full
//    schema (each driver embeds its own LATEST.sql dialect).
// 2. Demo mode additionally seeds a handful of wage facts and topic
//    documents so the server answers questions out of the box.

const modeDemo = "demo"

// Migrate brings the database to the current schema and, in demo mode,
// seeds demo data into an empty database.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database state")
	}

	if !initialized {
		slog.Info("initializing database schema", "driver", s.profile.Driver)
		if err := s.driver.ApplySchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}

	if s.profile.Mode == modeDemo {
		count, err := s.driver.CountWageFacts(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count wage facts")
		}
		if count == 0 {
			if err := s.seedDemoData(ctx); err != nil {
				return errors.Wrap(err, "failed to seed demo data")
			}
		}
	}

	return nil
}

// seedDemoData loads a small slice of real-world shaped data: standard and
// tipped wages for a few states plus nationwide topic documents.
func (s *Store) seedDemoData(ctx context.Context) error {
	type seedWage struct {
		state, code, category string
		year                  int
		amount                float64
	}
	wages := []seedWage{
		{"California", "CA", CategoryStandard, 2024, 16.00},
		{"California", "CA", CategoryStandard, 2023, 15.50},
		{"California", "CA", CategoryTippedCombined, 2024, 16.00},
		{"Texas", "TX", CategoryStandard, 2024, 7.25},
		{"Texas", "TX", CategoryTippedCash, 2024, 2.13},
		{"Texas", "TX", CategoryTippedCredit, 2024, 5.12},
		{"New York", "NY", CategoryStandard, 2024, 15.00},
		{"New York", "NY", CategoryTippedCombined, 2024, 15.00},
		{"Washington", "WA", CategoryStandard, 2024, 16.28},
		{"Florida", "FL", CategoryStandard, 2024, 12.00},
		{"Florida", "FL", CategoryTippedCash, 2024, 8.98},
	}

	for _, w := range wages {
		fact := &WageFact{
			StateName:      w.state,
			StateCode:      w.code,
			Year:           w.year,
			CategoryType:   w.category,
			FrequencyLabel: "hourly",
			Amount:         w.amount,
		}
		if _, err := s.driver.InsertWageFact(ctx, fact); err != nil {
			return errors.Wrapf(err, "failed to seed wage fact for %s %d", w.state, w.year)
		}
	}

	now := time.Now().Unix()
	docs := []*TopicDocument{
		{
			Topic:     "Agricultural Employment",
			Content:   "Agricultural workers are covered by separate minimum wage provisions in many states. Federal law exempts small farms from minimum wage requirements, while states such as California phase agricultural workers into the standard minimum wage with overtime after 8 hours.",
			UpdatedTs: now,
		},
		{
			Topic:     "Minimum Paid Rest Periods",
			Content:   "Several states require paid rest periods, commonly 10 minutes per 4 hours worked. California, Colorado, Kentucky, Nevada, Oregon and Washington mandate paid rest breaks; federal law does not require breaks but treats short breaks as paid time when offered.",
			UpdatedTs: now,
		},
		{
			Topic:     "Payday Requirements",
			Content:   "States regulate how often employees must be paid. Common schedules are weekly, biweekly, semimonthly and monthly. Massachusetts requires weekly or biweekly payment for most hourly employees; many states require at least semimonthly paydays.",
			UpdatedTs: now,
		},
		{
			Topic:     "Prevailing Wages",
			Content:   "Prevailing wage laws set minimum pay rates for workers on public works contracts. The federal Davis-Bacon Act covers federal construction contracts over $2,000; many states apply their own prevailing wage thresholds to state-funded projects.",
			UpdatedTs: now,
		},
	}
	for _, doc := range docs {
		if _, err := s.driver.UpsertTopicDocument(ctx, doc); err != nil {
			return errors.Wrapf(err, "failed to seed topic document %q", doc.Topic)
		}
	}

	slog.Info("seeded demo data", "wage_facts", len(wages), "topic_documents", len(docs))
	return nil
}
