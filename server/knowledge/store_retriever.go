package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/store"
)

// StoreRetriever serves knowledge queries from the topic_document table.
type StoreRetriever struct {
	store *store.Store
}

func NewStoreRetriever(s *store.Store) *StoreRetriever {
	return &StoreRetriever{store: s}
}

func (r *StoreRetriever) Query(ctx context.Context, question string, topic string, state string) (string, error) {
	docs, err := r.store.ListTopicDocuments(ctx, &store.FindTopicDocument{
		Topic: topic,
		State: state,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to query topic documents")
	}
	if len(docs) == 0 && topic != "" {
		// The topic may be too narrow for this question; fall back to
		// everything in scope for the state.
		docs, err = r.store.ListTopicDocuments(ctx, &store.FindTopicDocument{State: state})
		if err != nil {
			return "", errors.Wrap(err, "failed to query topic documents")
		}
	}
	if len(docs) == 0 {
		return "", ErrNoKnowledge
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if doc.State != "" {
			fmt.Fprintf(&b, "[%s - %s]\n", doc.Topic, doc.State)
		} else {
			fmt.Fprintf(&b, "[%s]\n", doc.Topic)
		}
		b.WriteString(doc.Content)
	}
	return b.String(), nil
}

func (r *StoreRetriever) Topics(ctx context.Context) ([]string, error) {
	docs, err := r.store.ListTopicDocuments(ctx, &store.FindTopicDocument{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list topic documents")
	}
	seen := make(map[string]bool)
	var topics []string
	for _, doc := range docs {
		if !seen[doc.Topic] {
			seen[doc.Topic] = true
			topics = append(topics, doc.Topic)
		}
	}
	return topics, nil
}

func (r *StoreRetriever) CheckConnection(ctx context.Context) error {
	if _, err := r.store.ListTopicDocuments(ctx, &store.FindTopicDocument{}); err != nil {
		return errors.Wrap(err, "knowledge store unreachable")
	}
	return nil
}
