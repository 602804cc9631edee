package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type trialRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *trialRepo) AppendTrial(ctx context.Context, rec TrialRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert("trial_results").
		Columns("sequence", "timestamp", "trial_id", "test_id", "score", "response_time", "digits", "answer").
		Values(seqNum, formatTime(rec.Timestamp), rec.TrialID, rec.TestID, rec.Score, rec.ResponseTime, rec.Digits, rec.Answer).
		Query()
	if err := exec(ctx, r.drv, q, args); err != nil {
		return fmt.Errorf("save trial result: %w", err)
	}
	return nil
}

func (r *trialRepo) RecentTrials(ctx context.Context, opts QueryOpts) ([]TrialRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "trial_id", "test_id", "score", "response_time", "digits", "answer").
		From(entsql.Table("trial_results"))
	q, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query trial results: %w", err)
	}
	defer rows.Close()

	var out []TrialRecord
	for rows.Next() {
		var (
			rec TrialRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.TrialID, &rec.TestID,
			&rec.Score, &rec.ResponseTime, &rec.Digits, &rec.Answer); err != nil {
			return nil, fmt.Errorf("scan trial result: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
