package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/store"
)

func (d *DB) UpsertState(ctx context.Context, upsert *store.DimState) (*store.DimState, error) {
	stmt := `
		INSERT INTO dim_state (state_name, state_code)
		VALUES ($1, $2)
		ON CONFLICT (state_name) DO UPDATE SET state_code = excluded.state_code
		RETURNING state_id, state_name, state_code
	`
	state := &store.DimState{}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Name, upsert.Code).Scan(&state.ID, &state.Name, &state.Code); err != nil {
		return nil, errors.Wrap(err, "failed to upsert state")
	}
	return state, nil
}

func (d *DB) ListStates(ctx context.Context) ([]*store.DimState, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT state_id, state_name, state_code FROM dim_state ORDER BY state_name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list states")
	}
	defer rows.Close()

	var list []*store.DimState
	for rows.Next() {
		state := &store.DimState{}
		if err := rows.Scan(&state.ID, &state.Name, &state.Code); err != nil {
			return nil, errors.Wrap(err, "failed to scan state")
		}
		list = append(list, state)
	}
	return list, rows.Err()
}

func (d *DB) UpsertCategory(ctx context.Context, upsert *store.DimCategory) (*store.DimCategory, error) {
	stmt := `
		INSERT INTO dim_category (category_type)
		VALUES ($1)
		ON CONFLICT (category_type) DO UPDATE SET category_type = excluded.category_type
		RETURNING category_id, category_type
	`
	category := &store.DimCategory{}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Type).Scan(&category.ID, &category.Type); err != nil {
		return nil, errors.Wrap(err, "failed to upsert category")
	}
	return category, nil
}

func (d *DB) UpsertFrequency(ctx context.Context, upsert *store.DimFrequency) (*store.DimFrequency, error) {
	stmt := `
		INSERT INTO dim_frequency (frequency_label)
		VALUES ($1)
		ON CONFLICT (frequency_label) DO UPDATE SET frequency_label = excluded.frequency_label
		RETURNING frequency_id, frequency_label
	`
	frequency := &store.DimFrequency{}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Label).Scan(&frequency.ID, &frequency.Label); err != nil {
		return nil, errors.Wrap(err, "failed to upsert frequency")
	}
	return frequency, nil
}

func (d *DB) UpsertFootnote(ctx context.Context, upsert *store.DimFootnote) (*store.DimFootnote, error) {
	stmt := `
		INSERT INTO dim_footnote (footnote_code, footnote_text)
		VALUES ($1, $2)
		ON CONFLICT (footnote_code) DO UPDATE SET footnote_text = excluded.footnote_text
		RETURNING footnote_id, footnote_code, footnote_text
	`
	footnote := &store.DimFootnote{}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Code, upsert.Text).Scan(&footnote.ID, &footnote.Code, &footnote.Text); err != nil {
		return nil, errors.Wrap(err, "failed to upsert footnote")
	}
	return footnote, nil
}

func (d *DB) InsertWageFact(ctx context.Context, fact *store.WageFact) (int64, error) {
	state, err := d.UpsertState(ctx, &store.DimState{Name: fact.StateName, Code: fact.StateCode})
	if err != nil {
		return 0, err
	}
	category, err := d.UpsertCategory(ctx, &store.DimCategory{Type: fact.CategoryType})
	if err != nil {
		return 0, err
	}

	var frequencyID sql.NullInt32
	if fact.FrequencyLabel != "" {
		frequency, err := d.UpsertFrequency(ctx, &store.DimFrequency{Label: fact.FrequencyLabel})
		if err != nil {
			return 0, err
		}
		frequencyID = sql.NullInt32{Int32: frequency.ID, Valid: true}
	}

	stmt := `
		INSERT INTO fact_minimum_wage (state_id, category_id, frequency_id, year, wage_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (state_id, category_id, year) DO UPDATE SET
			frequency_id = excluded.frequency_id,
			wage_amount = excluded.wage_amount
		RETURNING fact_id
	`
	var factID int64
	if err := d.db.QueryRowContext(ctx, stmt, state.ID, category.ID, frequencyID, fact.Year, fact.Amount).Scan(&factID); err != nil {
		return 0, errors.Wrap(err, "failed to insert wage fact")
	}

	for _, code := range fact.FootnoteCodes {
		footnote, err := d.UpsertFootnote(ctx, &store.DimFootnote{Code: code})
		if err != nil {
			return 0, err
		}
		bridge := `
			INSERT INTO bridge_wage_footnote (fact_id, footnote_id)
			VALUES ($1, $2)
			ON CONFLICT (fact_id, footnote_id) DO NOTHING
		`
		if _, err := d.db.ExecContext(ctx, bridge, factID, footnote.ID); err != nil {
			return 0, errors.Wrap(err, "failed to link footnote")
		}
	}

	return factID, nil
}

func (d *DB) QueryWages(ctx context.Context, query *store.WageQuery) ([]*store.WageRecord, error) {
	where, args := []string{"TRUE"}, []any{}

	if len(query.States) > 0 {
		marks := make([]string, len(query.States))
		for i, s := range query.States {
			args = append(args, s)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("dim_state.state_name IN (%s)", strings.Join(marks, ", ")))
	}
	if len(query.Years) > 0 {
		marks := make([]string, len(query.Years))
		for i, y := range query.Years {
			args = append(args, y)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("fact_minimum_wage.year IN (%s)", strings.Join(marks, ", ")))
	}
	if len(query.Categories) > 0 {
		marks := make([]string, len(query.Categories))
		for i, c := range query.Categories {
			args = append(args, c)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("dim_category.category_type IN (%s)", strings.Join(marks, ", ")))
	}

	stmt := `
		SELECT dim_state.state_name, fact_minimum_wage.year, dim_category.category_type, fact_minimum_wage.wage_amount
		FROM fact_minimum_wage
		JOIN dim_state ON fact_minimum_wage.state_id = dim_state.state_id
		JOIN dim_category ON fact_minimum_wage.category_id = dim_category.category_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY dim_state.state_name, fact_minimum_wage.year DESC, dim_category.category_type
	`
	if query.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query wages")
	}
	defer rows.Close()

	var list []*store.WageRecord
	for rows.Next() {
		record := &store.WageRecord{}
		if err := rows.Scan(&record.StateName, &record.Year, &record.CategoryType, &record.Amount); err != nil {
			return nil, errors.Wrap(err, "failed to scan wage record")
		}
		list = append(list, record)
	}
	return list, rows.Err()
}

func (d *DB) CountWageFacts(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM fact_minimum_wage").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count wage facts")
	}
	return count, nil
}
