package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequence numbers every appended row across all tables so that records
// of different kinds can be merged into one timeline. The single row of
// global_sequence is created by migrate.
type sequence struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

func newSequence(drv *entsql.Driver) *sequence {
	return &sequence{drv: drv}
}

// Next returns the current value and bumps the counter in the same
// statement.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows entsql.Rows
	err := s.drv.Query(ctx,
		"UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1",
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return n, nil
}
