package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// tsLayout is a fixed-width UTC layout so TEXT timestamps sort correctly.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store holds the ent SQL driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequence
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, drv: drv, seq: newSequence(drv)}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// KVRepo returns the key-value repository.
func (s *Store) KVRepo() KVRepo {
	return &kvRepo{drv: s.drv}
}

// TrialRepo returns the memory-trial result repository.
func (s *Store) TrialRepo() TrialRepo {
	return &trialRepo{drv: s.drv, seq: s.seq}
}

// AwardRepo returns the award history repository.
func (s *Store) AwardRepo() AwardRepo {
	return &awardRepo{drv: s.drv, seq: s.seq}
}

// TaskRepo returns the repository for sleep, medication, speech and
// assessment records.
func (s *Store) TaskRepo() TaskRepo {
	return &taskRepo{drv: s.drv, seq: s.seq}
}

// EventRepo returns the LLM request event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq}
}

// Reset deletes every record and the persisted key-value entries.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range resettableTables {
		q, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if err := exec(ctx, s.drv, q, args); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. NEUROTRACK_DB environment variable
// 2. $XDG_DATA_HOME/neurotrack/neurotrack.db
// 3. ~/.local/share/neurotrack/neurotrack.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NEUROTRACK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "neurotrack.db")
	return p, EnsureDir(p)
}

// DataDir returns the application data directory without creating it.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "neurotrack"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func exec(ctx context.Context, drv *entsql.Driver, query string, args []any) error {
	var res sql.Result
	return drv.Exec(ctx, query, args, &res)
}

func execResult(ctx context.Context, drv *entsql.Driver, query string, args []any) (sql.Result, error) {
	var res sql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// applyOpts narrows a selector by time window and limit. Rows come back
// newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", formatTime(opts.To)))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}
