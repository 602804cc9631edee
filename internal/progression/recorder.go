package progression

import (
	"context"

	"github.com/neurotrack/neurotrack/internal/store"
)

type storeRecorder struct {
	repo store.AwardRepo
}

// NewStoreRecorder returns an AwardRecorder that appends to repo.
func NewStoreRecorder(repo store.AwardRepo) AwardRecorder {
	return &storeRecorder{repo: repo}
}

func (r *storeRecorder) RecordAward(ctx context.Context, a Award) error {
	return r.repo.AppendAward(ctx, store.AwardRecord{
		Timestamp:  a.AwardedAt,
		Source:     a.Source,
		Points:     a.Points,
		TotalAfter: a.TotalAfter,
	})
}
