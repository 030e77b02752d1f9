package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db/sqlite"
)

func newTestStore(t *testing.T, mode string) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   mode,
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "wagewise_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestMigrateSeedsDemoData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "demo")

	count, err := s.CountWageFacts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), count)

	docs, err := s.ListTopicDocuments(ctx, &store.FindTopicDocument{})
	require.NoError(t, err)
	require.Len(t, docs, 4)

	// Running migration again must not duplicate anything.
	require.NoError(t, s.Migrate(ctx))
	count, err = s.CountWageFacts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), count)
}

func TestMigrateProdDoesNotSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	count, err := s.CountWageFacts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestInsertWageFactUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	fact := &store.WageFact{
		StateName:      "Oregon",
		StateCode:      "OR",
		Year:           2024,
		CategoryType:   store.CategoryStandard,
		FrequencyLabel: "hourly",
		Amount:         14.20,
	}
	id1, err := s.InsertWageFact(ctx, fact)
	require.NoError(t, err)

	fact.Amount = 14.70
	id2, err := s.InsertWageFact(ctx, fact)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	count, err := s.CountWageFacts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	records, err := s.QueryWages(ctx, &store.WageQuery{States: []string{"Oregon"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.InDelta(t, 14.70, records[0].Amount, 1e-9)
}

func TestInsertWageFactWithFootnotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	fact := &store.WageFact{
		StateName:     "Nevada",
		StateCode:     "NV",
		Year:          2024,
		CategoryType:  store.CategoryStandard,
		Amount:        12.00,
		FootnoteCodes: []string{"a", "b"},
	}
	_, err := s.InsertWageFact(ctx, fact)
	require.NoError(t, err)

	// Re-linking the same footnotes is a no-op, not an error.
	_, err = s.InsertWageFact(ctx, fact)
	require.NoError(t, err)
}

func TestQueryWagesFilteringAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "demo")

	records, err := s.QueryWages(ctx, &store.WageQuery{
		States:     []string{"California", "Texas"},
		Categories: []string{store.CategoryStandard},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Ordered by state name, then most recent year first.
	require.Equal(t, "California", records[0].StateName)
	require.Equal(t, 2024, records[0].Year)
	require.Equal(t, "California", records[1].StateName)
	require.Equal(t, 2023, records[1].Year)
	require.Equal(t, "Texas", records[2].StateName)

	records, err = s.QueryWages(ctx, &store.WageQuery{
		States: []string{"Texas"},
		Years:  []int{2024},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		require.Equal(t, "Texas", r.StateName)
		require.Equal(t, 2024, r.Year)
	}

	records, err = s.QueryWages(ctx, &store.WageQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestQueryWagesNoMatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "demo")

	records, err := s.QueryWages(ctx, &store.WageQuery{States: []string{"Atlantis"}})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestTopicDocumentStateScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	_, err := s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Payday Requirements",
		Content:   "Nationwide payday overview.",
		UpdatedTs: 100,
	})
	require.NoError(t, err)
	_, err = s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Payday Requirements",
		State:     "California",
		Content:   "California requires semimonthly paydays.",
		UpdatedTs: 100,
	})
	require.NoError(t, err)

	// A state filter returns the state entry plus the nationwide one.
	docs, err := s.ListTopicDocuments(ctx, &store.FindTopicDocument{
		Topic: "Payday Requirements",
		State: "California",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Other states only see the nationwide entry.
	docs, err = s.ListTopicDocuments(ctx, &store.FindTopicDocument{
		Topic: "Payday Requirements",
		State: "Texas",
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Empty(t, docs[0].State)
}

func TestUpsertTopicDocumentReplacesContent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	doc, err := s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Prevailing Wages",
		Content:   "v1",
		UpdatedTs: 100,
	})
	require.NoError(t, err)

	updated, err := s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Prevailing Wages",
		Content:   "v2",
		UpdatedTs: 200,
	})
	require.NoError(t, err)
	require.Equal(t, doc.ID, updated.ID)
	require.Equal(t, "v2", updated.Content)
	require.Equal(t, int64(200), updated.UpdatedTs)
}

func TestUpsertStateIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "prod")

	first, err := s.UpsertState(ctx, &store.DimState{Name: "Maine", Code: "ME"})
	require.NoError(t, err)
	second, err := s.UpsertState(ctx, &store.DimState{Name: "Maine", Code: "ME"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	states, err := s.ListStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
}
