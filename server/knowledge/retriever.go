// Package knowledge retrieves topic-level labor law context used to answer
// regulatory questions that structured wage data cannot cover.
package knowledge

import (
	"context"

	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/store"
)

// Retriever answers topic-scoped knowledge queries. Implementations must
// return ErrNoKnowledge when nothing relevant exists so callers can
// distinguish "no answer" from a transport failure.
type Retriever interface {
	// Query returns supporting context for a question. Topic narrows the
	// search to one knowledge topic; state scopes it to one jurisdiction.
	// Both may be empty.
	Query(ctx context.Context, question string, topic string, state string) (string, error)
	// Topics lists the topics the retriever can speak to.
	Topics(ctx context.Context) ([]string, error)
	// CheckConnection verifies the backing source is reachable.
	CheckConnection(ctx context.Context) error
}

// ErrNoKnowledge indicates the retriever is healthy but holds nothing
// relevant to the query.
var ErrNoKnowledge = errors.New("no knowledge available for query")

// NewRetriever builds the retriever selected by the profile's knowledge
// mode: "store" reads topic documents from the database, "mock" serves
// canned answers for development and tests.
func NewRetriever(p *profile.Profile, s *store.Store) (Retriever, error) {
	switch p.KnowledgeMode {
	case "store":
		if s == nil {
			return nil, errors.New("store knowledge mode requires a store")
		}
		return NewStoreRetriever(s), nil
	case "mock", "":
		return NewMockRetriever(), nil
	default:
		return nil, errors.Errorf("unknown knowledge mode: %s", p.KnowledgeMode)
	}
}
