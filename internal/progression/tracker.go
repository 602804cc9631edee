// Package progression owns the user's cumulative score, the level derived
// from it, and the transient reward notification shown after each award.
package progression

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/sched"
)

// ScoreKey is the key-value entry holding the score as a decimal string.
const ScoreKey = "neurotrack_score"

// NotificationDuration is how long a reward notification stays visible
// after the most recent award.
const NotificationDuration = 3000 * time.Millisecond

// Award sources.
const (
	SourceMemoryTrial = "memory_trial"
	SourceSleepLog    = "sleep_log"
	SourceMedication  = "medication"
	SourceSpeech      = "speech"
	SourceAssessment  = "monthly_assessment"
)

// ErrNonPositivePoints is returned when an award of zero or fewer points is
// requested. The score is left untouched.
var ErrNonPositivePoints = errors.New("progression: points must be positive")

// KV is the durable key-value store the score lives in.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// AwardRecorder appends award history. It is optional.
type AwardRecorder interface {
	RecordAward(ctx context.Context, award Award) error
}

// Award is one completed score increase.
type Award struct {
	Source     string
	Points     int
	TotalAfter int
	AwardedAt  time.Time
}

// RewardEvent is delivered to subscribers once per award.
type RewardEvent struct {
	Source string
	Points int
}

// Notification is the transient "+N points" indicator.
type Notification struct {
	Points  int
	Visible bool
}

// Config wires a Tracker to its collaborators. KV and Clock are required.
type Config struct {
	KV           KV
	Clock        sched.Scheduler
	Recorder     AwardRecorder
	Logger       *zap.Logger
	DefaultScore int
}

// Tracker is the single owner of the score. It must only be used from the
// event loop that drives its scheduler.
type Tracker struct {
	kv           KV
	clock        sched.Scheduler
	recorder     AwardRecorder
	logger       *zap.Logger
	defaultScore int

	score        int
	notification Notification
	dismiss      sched.Timer

	nextSubID   int
	subscribers map[int]func(RewardEvent)
}

// Load creates a Tracker and reads the persisted score. A missing key, an
// unparsable value or a store error all leave the default score in place.
func Load(ctx context.Context, cfg Config) *Tracker {
	t := &Tracker{
		kv:           cfg.KV,
		clock:        cfg.Clock,
		recorder:     cfg.Recorder,
		logger:       cfg.Logger,
		defaultScore: cfg.DefaultScore,
		subscribers:  make(map[int]func(RewardEvent)),
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.defaultScore <= 0 {
		t.defaultScore = DefaultScore
	}
	t.score = t.defaultScore

	raw, ok, err := t.kv.Get(ctx, ScoreKey)
	switch {
	case err != nil:
		t.logger.Warn("score load failed, using default", zap.Error(err), zap.Int("default", t.defaultScore))
	case !ok:
	default:
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 0 {
			t.logger.Warn("persisted score unreadable, using default", zap.String("value", raw))
			break
		}
		t.score = n
	}
	return t
}

// Score returns the cumulative score.
func (t *Tracker) Score() int { return t.score }

// Level returns floor(score/500) + 1.
func (t *Tracker) Level() int { return LevelFor(t.score) }

// ProgressToNext returns the percentage through the current level.
func (t *Tracker) ProgressToNext() float64 { return ProgressFor(t.score) }

// NextLevelThreshold returns level * 500.
func (t *Tracker) NextLevelThreshold() int { return ThresholdFor(t.score) }

// Notification returns the current reward notification.
func (t *Tracker) Notification() Notification { return t.notification }

// AwardPoints adds points to the score, persists it, notifies subscribers and
// shows the reward notification, restarting its dismissal timer.
func (t *Tracker) AwardPoints(ctx context.Context, source string, points int) error {
	if points <= 0 {
		return ErrNonPositivePoints
	}

	t.score += points
	if err := t.kv.Set(ctx, ScoreKey, strconv.Itoa(t.score)); err != nil {
		t.logger.Error("score persist failed", zap.Error(err), zap.Int("score", t.score))
	}

	if t.recorder != nil {
		award := Award{
			Source:     source,
			Points:     points,
			TotalAfter: t.score,
			AwardedAt:  t.clock.Now(),
		}
		if err := t.recorder.RecordAward(ctx, award); err != nil {
			t.logger.Warn("award record failed", zap.Error(err), zap.String("source", source))
		}
	}
	t.logger.Info("points awarded",
		zap.String("source", source),
		zap.Int("points", points),
		zap.Int("total", t.score),
		zap.Int("level", t.Level()),
	)

	t.showNotification(points)

	ev := RewardEvent{Source: source, Points: points}
	for _, fn := range t.subscribers {
		fn(ev)
	}
	return nil
}

func (t *Tracker) showNotification(points int) {
	if t.dismiss != nil {
		t.dismiss.Stop()
	}
	t.notification = Notification{Points: points, Visible: true}
	t.dismiss = t.clock.AfterFunc(NotificationDuration, func() {
		t.notification.Visible = false
		t.dismiss = nil
	})
}

// Subscribe registers fn for reward events. The returned func unsubscribes.
func (t *Tracker) Subscribe(fn func(RewardEvent)) (cancel func()) {
	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = fn
	return func() { delete(t.subscribers, id) }
}

// Reset restores the default score and persists it.
func (t *Tracker) Reset(ctx context.Context) error {
	t.score = t.defaultScore
	return t.kv.Set(ctx, ScoreKey, strconv.Itoa(t.score))
}

// Close cancels a pending notification dismissal.
func (t *Tracker) Close() {
	if t.dismiss != nil {
		t.dismiss.Stop()
		t.dismiss = nil
	}
}

// ReadScore returns the persisted score with the same fallbacks as Load,
// for read-only callers outside the event loop.
func ReadScore(ctx context.Context, kv KV, defaultScore int, logger *zap.Logger) int {
	return Load(ctx, Config{KV: kv, DefaultScore: defaultScore, Logger: logger}).Score()
}
