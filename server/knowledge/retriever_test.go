package knowledge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db/sqlite"
)

func newKnowledgeStore(t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "prod",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "knowledge_test.db"),
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

func TestMockRetrieverKnownTopic(t *testing.T) {
	r := NewMockRetriever()
	answer, err := r.Query(context.Background(), "are rest breaks paid?", "Minimum Paid Rest Periods", "")
	require.NoError(t, err)
	require.Contains(t, answer, "rest periods")
}

func TestMockRetrieverUnknownTopicFallsBack(t *testing.T) {
	r := NewMockRetriever()
	answer, err := r.Query(context.Background(), "what about hazard pay?", "Hazard Pay", "")
	require.NoError(t, err)
	require.Contains(t, answer, "hazard pay")
}

func TestMockRetrieverEmptyQuery(t *testing.T) {
	r := NewMockRetriever()
	_, err := r.Query(context.Background(), "", "Nonexistent", "")
	require.ErrorIs(t, err, ErrNoKnowledge)
}

func TestMockRetrieverTopicsSorted(t *testing.T) {
	r := NewMockRetriever()
	topics, err := r.Topics(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, topics)
	require.IsIncreasing(t, topics)
	require.NoError(t, r.CheckConnection(context.Background()))
}

func TestStoreRetrieverQuery(t *testing.T) {
	ctx := context.Background()
	s := newKnowledgeStore(t)
	_, err := s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Payday Requirements",
		Content:   "Nationwide payday overview.",
		UpdatedTs: 1,
	})
	require.NoError(t, err)
	_, err = s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Payday Requirements",
		State:     "California",
		Content:   "California requires semimonthly paydays.",
		UpdatedTs: 1,
	})
	require.NoError(t, err)

	r := NewStoreRetriever(s)
	answer, err := r.Query(ctx, "how often must I be paid?", "Payday Requirements", "California")
	require.NoError(t, err)
	require.Contains(t, answer, "[Payday Requirements]")
	require.Contains(t, answer, "[Payday Requirements - California]")
	require.Contains(t, answer, "semimonthly")
}

func TestStoreRetrieverUnknownTopicFallsBackToState(t *testing.T) {
	ctx := context.Background()
	s := newKnowledgeStore(t)
	_, err := s.UpsertTopicDocument(ctx, &store.TopicDocument{
		Topic:     "Prevailing Wages",
		Content:   "Davis-Bacon Act overview.",
		UpdatedTs: 1,
	})
	require.NoError(t, err)

	r := NewStoreRetriever(s)
	answer, err := r.Query(ctx, "public works pay?", "Hazard Pay", "")
	require.NoError(t, err)
	require.Contains(t, answer, "Davis-Bacon")
}

func TestStoreRetrieverEmptyStore(t *testing.T) {
	r := NewStoreRetriever(newKnowledgeStore(t))
	_, err := r.Query(context.Background(), "anything", "", "")
	require.ErrorIs(t, err, ErrNoKnowledge)

	topics, err := r.Topics(context.Background())
	require.NoError(t, err)
	require.Empty(t, topics)
	require.NoError(t, r.CheckConnection(context.Background()))
}

func TestNewRetrieverModes(t *testing.T) {
	s := newKnowledgeStore(t)

	r, err := NewRetriever(&profile.Profile{KnowledgeMode: "mock"}, nil)
	require.NoError(t, err)
	require.IsType(t, &MockRetriever{}, r)

	r, err = NewRetriever(&profile.Profile{KnowledgeMode: "store"}, s)
	require.NoError(t, err)
	require.IsType(t, &StoreRetriever{}, r)

	_, err = NewRetriever(&profile.Profile{KnowledgeMode: "store"}, nil)
	require.Error(t, err)

	_, err = NewRetriever(&profile.Profile{KnowledgeMode: "graph"}, nil)
	require.Error(t, err)
}
