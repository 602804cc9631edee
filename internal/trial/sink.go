package trial

import (
	"context"
	"strconv"
	"strings"

	"github.com/neurotrack/neurotrack/internal/store"
)

type storeSink struct {
	repo store.TrialRepo
}

// NewStoreSink returns a ResultSink that persists results to repo.
func NewStoreSink(repo store.TrialRepo) ResultSink {
	return &storeSink{repo: repo}
}

func (s *storeSink) RecordTrial(ctx context.Context, r Result) error {
	return s.repo.AppendTrial(ctx, store.TrialRecord{
		Timestamp:    r.Timestamp,
		TrialID:      r.TrialID,
		TestID:       r.TestID,
		Score:        r.Score,
		ResponseTime: r.ResponseTimeSeconds,
		Digits:       FormatDigits(r.Sequence),
		Answer:       r.Answer,
	})
}

// FormatDigits renders a sequence as a compact digit string.
func FormatDigits(seq []int) string {
	var b strings.Builder
	for _, d := range seq {
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}
