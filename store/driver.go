package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	// ApplySchema creates the full schema on a fresh database. Each driver
	// embeds its own dialect of the schema file.
	ApplySchema(ctx context.Context) error

	// Dimension model related methods.
	UpsertState(ctx context.Context, upsert *DimState) (*DimState, error)
	ListStates(ctx context.Context) ([]*DimState, error)
	UpsertCategory(ctx context.Context, upsert *DimCategory) (*DimCategory, error)
	UpsertFrequency(ctx context.Context, upsert *DimFrequency) (*DimFrequency, error)
	UpsertFootnote(ctx context.Context, upsert *DimFootnote) (*DimFootnote, error)

	// Fact model related methods.
	InsertWageFact(ctx context.Context, fact *WageFact) (int64, error)
	QueryWages(ctx context.Context, query *WageQuery) ([]*WageRecord, error)
	CountWageFacts(ctx context.Context) (int64, error)

	// TopicDocument model related methods.
	UpsertTopicDocument(ctx context.Context, upsert *TopicDocument) (*TopicDocument, error)
	ListTopicDocuments(ctx context.Context, find *FindTopicDocument) ([]*TopicDocument, error)
}
