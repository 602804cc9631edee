// Package assessment is the monthly brain-health check: an intro, four short
// questions and a thank-you page.
package assessment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

// AwardPoints is granted on completion.
const AwardPoints = 100

// Step is one page of the assessment.
type Step struct {
	Key    string
	Title  string
	Prompt string
	// Show is highlighted text to memorise, if any.
	Show    string
	Options []string
	// Correct indexes Options; -1 when the step is not scored.
	Correct int
}

// Steps is the fixed page sequence. Index 0 is the intro and the last
// index is the thank-you page.
var Steps = []Step{
	{Key: "intro", Title: "Monthly brain health check",
		Prompt:  fmt.Sprintf("A slightly longer check that takes about 5-10 minutes. Finish it to earn %d points!", AwardPoints),
		Correct: -1},
	{Key: "orientation", Title: "1. Orientation",
		Prompt:  "What year is it, and which season?",
		Options: []string{"2025 / Spring", "2024 / Winter", "2025 / Summer"},
		Correct: -1},
	{Key: "registration", Title: "2. Memory",
		Prompt:  "Please remember these three words. You will be asked for them again.",
		Show:    "Apple, Coin, Table",
		Correct: -1},
	{Key: "serial_sevens", Title: "3. Calculation",
		Prompt:  "What is 100 minus 7? And minus 7 again?",
		Options: []string{"93, 86", "93, 85", "92, 85"},
		Correct: 0},
	{Key: "recall", Title: "4. Recall",
		Prompt:  "Which three words did we ask you to remember?",
		Options: []string{"Banana, Wallet, Chair", "Apple, Coin, Table", "Apple, Key, Table"},
		Correct: 1},
	{Key: "done", Title: "Assessment complete!",
		Prompt:  "Thank you for your patience. This will be very helpful for your doctor.",
		Correct: -1},
}

// LastStep is the index of the thank-you page.
var LastStep = len(Steps) - 1

// Awarder receives the completion award.
type Awarder interface {
	AwardPoints(ctx context.Context, source string, points int) error
}

// Session walks through the steps once.
type Session struct {
	repo    store.TaskRepo
	clock   sched.Scheduler
	awarder Awarder
	logger  *zap.Logger

	step     int
	answers  map[string]string
	correct  int
	done     bool
	started  time.Time
	finished time.Time
}

// NewSession starts at the intro.
func NewSession(repo store.TaskRepo, clock sched.Scheduler, awarder Awarder, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		repo:    repo,
		clock:   clock,
		awarder: awarder,
		logger:  logger,
		answers: map[string]string{},
		started: clock.Now(),
	}
}

// Index is the current step number.
func (s *Session) Index() int { return s.step }

// Current returns the current step.
func (s *Session) Current() Step { return Steps[s.step] }

// Done reports whether the assessment was completed.
func (s *Session) Done() bool { return s.done }

// Progress is the completed fraction shown in the progress bar.
func (s *Session) Progress() float64 { return float64(s.step) / float64(LastStep) }

// Answer picks an option on a question step and advances. Any option
// advances; the choice is kept for the record.
func (s *Session) Answer(option int) bool {
	st := Steps[s.step]
	if s.done || option < 0 || option >= len(st.Options) {
		return false
	}
	s.answers[st.Key] = st.Options[option]
	if option == st.Correct {
		s.correct++
	}
	s.step++
	return true
}

// Next advances a step without options. On the thank-you page it completes
// the assessment: the record is stored and points awarded.
func (s *Session) Next(ctx context.Context) (bool, error) {
	if s.done || len(Steps[s.step].Options) > 0 {
		return false, nil
	}
	if s.step < LastStep {
		s.step++
		return true, nil
	}

	answers := make(map[string]string, len(s.answers)+1)
	for k, v := range s.answers {
		answers[k] = v
	}
	answers["correct"] = strconv.Itoa(s.correct)
	if err := s.repo.AppendAssessment(ctx, store.AssessmentRecord{
		Timestamp: s.clock.Now(),
		Answers:   answers,
	}); err != nil {
		return false, fmt.Errorf("save assessment: %w", err)
	}
	s.done = true
	s.finished = s.clock.Now()
	s.logger.Info("assessment completed", zap.Int("correct", s.correct))

	if s.awarder != nil {
		if err := s.awarder.AwardPoints(ctx, progression.SourceAssessment, AwardPoints); err != nil {
			s.logger.Warn("assessment award failed", zap.Error(err))
		}
	}
	return true, nil
}

// Answered is one question and the option picked for it.
type Answered struct {
	Title   string
	Answer  string
	Correct bool
	Scored  bool
}

// Result summarises a completed session.
type Result struct {
	Duration time.Duration
	Answers  []Answered
	Correct  int
	Scored   int
	Points   int
}

// Result reports the answers in step order. Points is zero until the
// session is done.
func (s *Session) Result() Result {
	r := Result{Correct: s.correct}
	for _, st := range Steps {
		if len(st.Options) == 0 {
			continue
		}
		a := Answered{Title: st.Title, Answer: s.answers[st.Key], Scored: st.Correct >= 0}
		if a.Scored {
			r.Scored++
			a.Correct = a.Answer != "" && a.Answer == st.Options[st.Correct]
		}
		r.Answers = append(r.Answers, a)
	}
	if s.done {
		r.Duration = s.finished.Sub(s.started)
		r.Points = AwardPoints
	}
	return r
}
