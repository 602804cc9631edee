package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type taskRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *taskRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"sequence"}, cols...)...).
		Values(append([]any{seqNum}, vals...)...).
		Query()
	if err := exec(ctx, r.drv, q, args); err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

func (r *taskRepo) AppendSleep(ctx context.Context, rec SleepRecord) error {
	return r.insert(ctx, "sleep_logs",
		[]string{"timestamp", "date", "sleep_start", "sleep_end", "hours", "quality"},
		[]any{formatTime(rec.Timestamp), rec.Date, rec.SleepStart, rec.SleepEnd, rec.Hours, rec.Quality},
	)
}

func (r *taskRepo) SleepLogs(ctx context.Context, opts QueryOpts) ([]SleepRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "timestamp", "date", "sleep_start", "sleep_end", "hours", "quality").
		From(entsql.Table("sleep_logs"))
	q, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query sleep logs: %w", err)
	}
	defer rows.Close()

	var out []SleepRecord
	for rows.Next() {
		var (
			rec SleepRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Date, &rec.SleepStart, &rec.SleepEnd, &rec.Hours, &rec.Quality); err != nil {
			return nil, fmt.Errorf("scan sleep log: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *taskRepo) AppendIntake(ctx context.Context, rec IntakeRecord) (bool, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return false, fmt.Errorf("next sequence: %w", err)
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Insert("medication_intakes").
		Columns("sequence", "timestamp", "date", "medication_id", "name", "period").
		Values(seqNum, formatTime(rec.Timestamp), rec.Date, rec.MedicationID, rec.Name, rec.Period).
		OnConflict(
			entsql.ConflictColumns("date", "medication_id"),
			entsql.DoNothing(),
		).
		Query()
	res, err := execResult(ctx, r.drv, q, args)
	if err != nil {
		return false, fmt.Errorf("save medication intake: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("medication intake rows: %w", err)
	}
	return n > 0, nil
}

func (r *taskRepo) IntakesOn(ctx context.Context, date string) ([]IntakeRecord, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id", "timestamp", "date", "medication_id", "name", "period").
		From(entsql.Table("medication_intakes")).
		Where(entsql.EQ("date", date)).
		OrderBy("id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query medication intakes: %w", err)
	}
	defer rows.Close()

	var out []IntakeRecord
	for rows.Next() {
		var (
			rec IntakeRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Date, &rec.MedicationID, &rec.Name, &rec.Period); err != nil {
			return nil, fmt.Errorf("scan medication intake: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *taskRepo) AppendRecording(ctx context.Context, rec RecordingRecord) error {
	return r.insert(ctx, "speech_recordings",
		[]string{"timestamp", "task_type", "audio_url", "duration"},
		[]any{formatTime(rec.Timestamp), rec.TaskType, rec.AudioURL, rec.Duration},
	)
}

func (r *taskRepo) Recordings(ctx context.Context, opts QueryOpts) ([]RecordingRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "timestamp", "task_type", "audio_url", "duration").
		From(entsql.Table("speech_recordings"))
	q, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query speech recordings: %w", err)
	}
	defer rows.Close()

	var out []RecordingRecord
	for rows.Next() {
		var (
			rec RecordingRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.TaskType, &rec.AudioURL, &rec.Duration); err != nil {
			return nil, fmt.Errorf("scan speech recording: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *taskRepo) AppendAssessment(ctx context.Context, rec AssessmentRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("encode assessment answers: %w", err)
	}
	return r.insert(ctx, "assessments",
		[]string{"timestamp", "answers"},
		[]any{formatTime(rec.Timestamp), string(answers)},
	)
}

func (r *taskRepo) Assessments(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "timestamp", "answers").
		From(entsql.Table("assessments"))
	q, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []AssessmentRecord
	for rows.Next() {
		var (
			rec     AssessmentRecord
			ts, raw string
		)
		if err := rows.Scan(&rec.ID, &ts, &raw); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &rec.Answers); err != nil {
			return nil, fmt.Errorf("decode assessment %d: %w", rec.ID, err)
		}
		rec.Timestamp = parseTime(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
