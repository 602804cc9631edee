package trial

import (
	"context"
	"time"
)

// TestID identifies the digit-span test in result records.
const TestID = "digit_span_001"

// SequenceLength is the number of digits in a trial.
const SequenceLength = 5

// Timing constants.
const (
	RevealInterval = 1000 * time.Millisecond
	AwardDelay     = 500 * time.Millisecond
	AwardPoints    = 10
)

// Status is the runner's state.
type Status int

const (
	Idle Status = iota
	Revealing
	AwaitingInput
	Scored
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	case AwaitingInput:
		return "awaiting_input"
	case Scored:
		return "scored"
	default:
		return "unknown"
	}
}

// Result is the record produced when a trial is scored.
type Result struct {
	TrialID             string    `json:"trial_id"`
	TestID              string    `json:"test_id"`
	Score               int       `json:"score"`
	ResponseTimeSeconds float64   `json:"response_time"`
	Timestamp           time.Time `json:"timestamp"`
	Sequence            []int     `json:"sequence"`
	Answer              string    `json:"answer"`
}

// ResultSink receives scored trials. Delivery is fire-and-forget.
type ResultSink interface {
	RecordTrial(ctx context.Context, r Result) error
}

// Awarder receives the completion award.
type Awarder interface {
	AwardPoints(ctx context.Context, source string, points int) error
}
