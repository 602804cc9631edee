package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type awardRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *awardRepo) AppendAward(ctx context.Context, rec AwardRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert("award_events").
		Columns("sequence", "timestamp", "source", "points", "total_after").
		Values(seqNum, formatTime(rec.Timestamp), rec.Source, rec.Points, rec.TotalAfter).
		Query()
	if err := exec(ctx, r.drv, q, args); err != nil {
		return fmt.Errorf("save award event: %w", err)
	}
	return nil
}

func (r *awardRepo) RecentAwards(ctx context.Context, opts QueryOpts) ([]AwardRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "source", "points", "total_after").
		From(entsql.Table("award_events"))
	q, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query award events: %w", err)
	}
	defer rows.Close()

	var out []AwardRecord
	for rows.Next() {
		var (
			rec AwardRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Source, &rec.Points, &rec.TotalAfter); err != nil {
			return nil, fmt.Errorf("scan award event: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
