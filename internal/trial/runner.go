// Package trial runs the digit-span memory test: a five-digit sequence is
// revealed one digit per second, the user types it back, and the answer is
// scored by position.
package trial

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
)

// Config wires a Runner. Clock is required; the rest is optional.
type Config struct {
	Clock   sched.Scheduler
	Sink    ResultSink
	Awarder Awarder
	Logger  *zap.Logger
	// Rand supplies digits. Defaults to an unseeded math/rand/v2 source.
	Rand *rand.Rand
}

// Runner is the trial state machine. It must be driven from the event loop
// that owns its scheduler. Invalid transitions are ignored and reported as
// false.
type Runner struct {
	ctx     context.Context
	clock   sched.Scheduler
	sink    ResultSink
	awarder Awarder
	logger  *zap.Logger
	rng     *rand.Rand

	status    Status
	sequence  []int
	answer    string
	correct   int
	revealIdx int
	result    *Result
	startedAt int64 // unix millis

	reveal   sched.Timer
	award    sched.Timer
	disposed bool
}

// NewRunner creates an idle runner.
func NewRunner(ctx context.Context, cfg Config) *Runner {
	r := &Runner{
		ctx:     ctx,
		clock:   cfg.Clock,
		sink:    cfg.Sink,
		awarder: cfg.Awarder,
		logger:  cfg.Logger,
		rng:     cfg.Rand,
		status:  Idle,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// Status returns the current state.
func (r *Runner) Status() Status { return r.status }

// Sequence returns a copy of the current sequence, nil when idle.
func (r *Runner) Sequence() []int {
	if r.sequence == nil {
		return nil
	}
	out := make([]int, len(r.sequence))
	copy(out, r.sequence)
	return out
}

// Answer returns the submitted answer.
func (r *Runner) Answer() string { return r.answer }

// CorrectCount returns the number of positions answered correctly.
func (r *Runner) CorrectCount() int { return r.correct }

// Result returns the last scored result, or nil.
func (r *Runner) Result() *Result { return r.result }

// Displayed returns the digit currently on screen. ok is false when the
// display is blank.
func (r *Runner) Displayed() (digit int, ok bool) {
	if r.status != Revealing || r.revealIdx >= len(r.sequence) {
		return 0, false
	}
	return r.sequence[r.revealIdx], true
}

// Start begins a new trial from Idle or Scored. The first digit is shown
// immediately and each following digit one RevealInterval later.
func (r *Runner) Start() bool {
	if r.disposed || (r.status != Idle && r.status != Scored) {
		return false
	}

	r.sequence = make([]int, SequenceLength)
	for i := range r.sequence {
		r.sequence[i] = r.rng.IntN(10)
	}
	r.answer = ""
	r.correct = 0
	r.result = nil
	r.revealIdx = 0
	r.startedAt = r.clock.Now().UnixMilli()
	r.status = Revealing

	r.reveal = sched.Ticker(r.clock, RevealInterval, r.advanceReveal)
	return true
}

func (r *Runner) advanceReveal() {
	if r.disposed || r.status != Revealing {
		return
	}
	r.revealIdx++
	if r.revealIdx < len(r.sequence) {
		return
	}
	r.reveal.Stop()
	r.reveal = nil
	r.status = AwaitingInput
}

// Submit scores text against the sequence. Only valid in AwaitingInput.
func (r *Runner) Submit(text string) bool {
	if r.disposed || r.status != AwaitingInput {
		return false
	}

	now := r.clock.Now()
	r.answer = text
	r.correct = Score(r.sequence, text)
	r.status = Scored

	res := Result{
		TrialID:             uuid.NewString(),
		TestID:              TestID,
		Score:               r.correct,
		ResponseTimeSeconds: float64(now.UnixMilli()-r.startedAt) / 1000,
		Timestamp:           now,
		Sequence:            r.Sequence(),
		Answer:              text,
	}
	r.result = &res

	if r.sink != nil {
		if err := r.sink.RecordTrial(r.ctx, res); err != nil {
			r.logger.Warn("trial result not recorded", zap.Error(err), zap.String("trial_id", res.TrialID))
		}
	}
	r.logger.Info("trial scored",
		zap.String("trial_id", res.TrialID),
		zap.Int("score", res.Score),
		zap.Float64("response_time", res.ResponseTimeSeconds),
	)

	if r.award != nil {
		r.award.Stop()
	}
	r.award = r.clock.AfterFunc(AwardDelay, r.grantAward)
	return true
}

func (r *Runner) grantAward() {
	r.award = nil
	if r.disposed || r.awarder == nil {
		return
	}
	if err := r.awarder.AwardPoints(r.ctx, progression.SourceMemoryTrial, AwardPoints); err != nil {
		r.logger.Warn("trial award failed", zap.Error(err))
	}
}

// Reset discards the scored trial and returns to Idle. A pending award is
// still delivered.
func (r *Runner) Reset() bool {
	if r.disposed {
		return false
	}
	switch r.status {
	case Idle:
		return true
	case Scored:
		r.status = Idle
		r.sequence = nil
		r.answer = ""
		r.correct = 0
		r.result = nil
		r.revealIdx = 0
		return true
	default:
		return false
	}
}

// Dispose cancels the reveal and any pending award. The runner is inert
// afterwards.
func (r *Runner) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.reveal != nil {
		r.reveal.Stop()
		r.reveal = nil
	}
	if r.award != nil {
		r.award.Stop()
		r.award = nil
	}
}

// Score counts the positions where answer holds the same decimal digit as
// sequence. Extra characters are ignored; non-digits never match.
func Score(sequence []int, answer string) int {
	runes := []rune(answer)
	correct := 0
	for i, want := range sequence {
		if i >= len(runes) {
			break
		}
		c := runes[i]
		if c < '0' || c > '9' {
			continue
		}
		if int(c-'0') == want {
			correct++
		}
	}
	return correct
}
