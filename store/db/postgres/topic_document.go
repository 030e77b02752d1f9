package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/store"
)

func (d *DB) UpsertTopicDocument(ctx context.Context, upsert *store.TopicDocument) (*store.TopicDocument, error) {
	stmt := `
		INSERT INTO topic_document (topic, state, content, updated_ts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (topic, state) DO UPDATE SET
			content = excluded.content,
			updated_ts = excluded.updated_ts
		RETURNING id, topic, state, content, updated_ts
	`
	doc := &store.TopicDocument{}
	err := d.db.QueryRowContext(ctx, stmt, upsert.Topic, upsert.State, upsert.Content, upsert.UpdatedTs).
		Scan(&doc.ID, &doc.Topic, &doc.State, &doc.Content, &doc.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert topic document")
	}
	return doc, nil
}

func (d *DB) ListTopicDocuments(ctx context.Context, find *store.FindTopicDocument) ([]*store.TopicDocument, error) {
	where, args := []string{"TRUE"}, []any{}
	if find.Topic != "" {
		args = append(args, find.Topic)
		where = append(where, fmt.Sprintf("topic = $%d", len(args)))
	}
	if find.State != "" {
		// State-scoped entries plus nationwide ones.
		args = append(args, find.State)
		where = append(where, fmt.Sprintf("(state = $%d OR state = '')", len(args)))
	}

	stmt := `
		SELECT id, topic, state, content, updated_ts
		FROM topic_document
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY topic, state
	`
	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list topic documents")
	}
	defer rows.Close()

	var list []*store.TopicDocument
	for rows.Next() {
		doc := &store.TopicDocument{}
		if err := rows.Scan(&doc.ID, &doc.Topic, &doc.State, &doc.Content, &doc.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan topic document")
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}
