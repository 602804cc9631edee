// Package sleep records nightly sleep logs.
package sleep

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

// Form defaults.
const (
	DefaultSleepTime = "23:00"
	DefaultWakeTime  = "07:00"
	AwardPoints      = 10
)

// Quality is the self-reported sleep quality.
type Quality string

const (
	Poor      Quality = "poor"
	Fair      Quality = "fair"
	Good      Quality = "good"
	Excellent Quality = "excellent"
)

// Qualities lists the options in display order.
var Qualities = []Quality{Poor, Fair, Good, Excellent}

// ParseQuality validates s.
func ParseQuality(s string) (Quality, error) {
	for _, q := range Qualities {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown sleep quality %q", s)
}

// Label is the display name.
func (q Quality) Label() string {
	switch q {
	case Poor:
		return "Poor"
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Excellent:
		return "Excellent"
	}
	return string(q)
}

// Hours returns the time slept between bed time and wake time, both HH:MM.
// A wake time at or before the bed time is on the next day. The result is
// rounded to two decimals.
func Hours(sleepAt, wakeAt string) (float64, error) {
	start, err := parseClock(sleepAt)
	if err != nil {
		return 0, fmt.Errorf("sleep time: %w", err)
	}
	end, err := parseClock(wakeAt)
	if err != nil {
		return 0, fmt.Errorf("wake time: %w", err)
	}
	if end <= start {
		end += 24 * time.Hour
	}
	return math.Round((end-start).Hours()*100) / 100, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Entry is one submitted log.
type Entry struct {
	SleepAt string
	WakeAt  string
	Quality Quality
}

// Awarder receives the completion award.
type Awarder interface {
	AwardPoints(ctx context.Context, source string, points int) error
}

// Log saves sleep entries.
type Log struct {
	repo    store.TaskRepo
	clock   sched.Scheduler
	awarder Awarder
	logger  *zap.Logger
}

// NewLog creates a sleep log. awarder and logger may be nil.
func NewLog(repo store.TaskRepo, clock sched.Scheduler, awarder Awarder, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{repo: repo, clock: clock, awarder: awarder, logger: logger}
}

// Save validates and persists e, then awards points immediately.
func (l *Log) Save(ctx context.Context, e Entry) (store.SleepRecord, error) {
	if e.Quality == "" {
		e.Quality = Good
	}
	if _, err := ParseQuality(string(e.Quality)); err != nil {
		return store.SleepRecord{}, err
	}
	hours, err := Hours(e.SleepAt, e.WakeAt)
	if err != nil {
		return store.SleepRecord{}, err
	}

	now := l.clock.Now()
	rec := store.SleepRecord{
		Timestamp:  now,
		Date:       now.Format(time.DateOnly),
		SleepStart: e.SleepAt,
		SleepEnd:   e.WakeAt,
		Hours:      hours,
		Quality:    string(e.Quality),
	}
	if err := l.repo.AppendSleep(ctx, rec); err != nil {
		return store.SleepRecord{}, fmt.Errorf("save sleep log: %w", err)
	}
	l.logger.Info("sleep logged", zap.Float64("hours", hours), zap.String("quality", rec.Quality))

	if l.awarder != nil {
		if err := l.awarder.AwardPoints(ctx, progression.SourceSleepLog, AwardPoints); err != nil {
			l.logger.Warn("sleep award failed", zap.Error(err))
		}
	}
	return rec, nil
}

// Recent returns the latest n logs, newest first.
func (l *Log) Recent(ctx context.Context, n int) ([]store.SleepRecord, error) {
	return l.repo.SleepLogs(ctx, store.QueryOpts{Limit: n})
}
