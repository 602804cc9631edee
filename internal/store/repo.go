package store

import (
	"context"
	"time"
)

// QueryOpts configures record queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// KVRepo is a durable string key-value store.
type KVRepo interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// TrialRecord is a persisted digit-span result.
type TrialRecord struct {
	ID           int64
	Sequence     int64
	Timestamp    time.Time
	TrialID      string
	TestID       string
	Score        int
	ResponseTime float64 // seconds
	Digits       string
	Answer       string
}

// TrialRepo stores digit-span results.
type TrialRepo interface {
	AppendTrial(ctx context.Context, rec TrialRecord) error

	// RecentTrials returns results newest first.
	RecentTrials(ctx context.Context, opts QueryOpts) ([]TrialRecord, error)
}

// AwardRecord is one persisted score increase.
type AwardRecord struct {
	ID         int64
	Sequence   int64
	Timestamp  time.Time
	Source     string
	Points     int
	TotalAfter int
}

// AwardRepo stores the award history.
type AwardRepo interface {
	AppendAward(ctx context.Context, rec AwardRecord) error

	// RecentAwards returns awards newest first.
	RecentAwards(ctx context.Context, opts QueryOpts) ([]AwardRecord, error)
}

// SleepRecord is one night of logged sleep.
type SleepRecord struct {
	ID         int64
	Timestamp  time.Time
	Date       string // YYYY-MM-DD the log was made
	SleepStart string // HH:MM
	SleepEnd   string // HH:MM
	Hours      float64
	Quality    string
}

// IntakeRecord marks a medication as taken on a day.
type IntakeRecord struct {
	ID           int64
	Timestamp    time.Time
	Date         string
	MedicationID string
	Name         string
	Period       string
}

// RecordingRecord is a completed read-aloud recording.
type RecordingRecord struct {
	ID        int64
	Timestamp time.Time
	TaskType  string
	AudioURL  string
	Duration  int // seconds
}

// AssessmentRecord is a completed monthly assessment.
type AssessmentRecord struct {
	ID        int64
	Timestamp time.Time
	Answers   map[string]string
}

// TaskRepo stores the daily health task records.
type TaskRepo interface {
	AppendSleep(ctx context.Context, rec SleepRecord) error
	SleepLogs(ctx context.Context, opts QueryOpts) ([]SleepRecord, error)

	// AppendIntake records an intake. It reports false when the medication
	// was already recorded for that date.
	AppendIntake(ctx context.Context, rec IntakeRecord) (bool, error)
	IntakesOn(ctx context.Context, date string) ([]IntakeRecord, error)

	AppendRecording(ctx context.Context, rec RecordingRecord) error
	Recordings(ctx context.Context, opts QueryOpts) ([]RecordingRecord, error)

	AppendAssessment(ctx context.Context, rec AssessmentRecord) error
	Assessments(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
