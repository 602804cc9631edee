package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trial_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		trial_id TEXT NOT NULL UNIQUE,
		test_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		response_time REAL NOT NULL,
		digits TEXT NOT NULL,
		answer TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS award_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		source TEXT NOT NULL,
		points INTEGER NOT NULL,
		total_after INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sleep_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		date TEXT NOT NULL,
		sleep_start TEXT NOT NULL,
		sleep_end TEXT NOT NULL,
		hours REAL NOT NULL,
		quality TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS medication_intakes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		date TEXT NOT NULL,
		medication_id TEXT NOT NULL,
		name TEXT NOT NULL,
		period TEXT NOT NULL,
		UNIQUE (date, medication_id)
	)`,
	`CREATE TABLE IF NOT EXISTS speech_recordings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		task_type TEXT NOT NULL,
		audio_url TEXT NOT NULL,
		duration INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		answers TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trial_results_timestamp ON trial_results (timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_award_events_timestamp ON award_events (timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_sleep_logs_date ON sleep_logs (date)`,
}

// resettableTables lists every table cleared by Store.Reset.
var resettableTables = []string{
	"kv",
	"trial_results",
	"award_events",
	"sleep_logs",
	"medication_intakes",
	"speech_recordings",
	"assessments",
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schema {
		if err := exec(ctx, drv, stmt, []any{}); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
