package store

import (
	"context"

	"github.com/wagewise/wagewise/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) UpsertState(ctx context.Context, upsert *DimState) (*DimState, error) {
	return s.driver.UpsertState(ctx, upsert)
}

func (s *Store) ListStates(ctx context.Context) ([]*DimState, error) {
	return s.driver.ListStates(ctx)
}

func (s *Store) UpsertCategory(ctx context.Context, upsert *DimCategory) (*DimCategory, error) {
	return s.driver.UpsertCategory(ctx, upsert)
}

func (s *Store) UpsertFrequency(ctx context.Context, upsert *DimFrequency) (*DimFrequency, error) {
	return s.driver.UpsertFrequency(ctx, upsert)
}

func (s *Store) UpsertFootnote(ctx context.Context, upsert *DimFootnote) (*DimFootnote, error) {
	return s.driver.UpsertFootnote(ctx, upsert)
}

func (s *Store) InsertWageFact(ctx context.Context, fact *WageFact) (int64, error) {
	return s.driver.InsertWageFact(ctx, fact)
}

func (s *Store) QueryWages(ctx context.Context, query *WageQuery) ([]*WageRecord, error) {
	return s.driver.QueryWages(ctx, query)
}

func (s *Store) CountWageFacts(ctx context.Context) (int64, error) {
	return s.driver.CountWageFacts(ctx)
}

func (s *Store) UpsertTopicDocument(ctx context.Context, upsert *TopicDocument) (*TopicDocument, error) {
	return s.driver.UpsertTopicDocument(ctx, upsert)
}

func (s *Store) ListTopicDocuments(ctx context.Context, find *FindTopicDocument) ([]*TopicDocument, error) {
	return s.driver.ListTopicDocuments(ctx, find)
}
