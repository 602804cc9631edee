package trial

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/neurotrack/neurotrack/internal/sched"
)

var epoch = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

type sinkStub struct {
	results []Result
	err     error
}

func (s *sinkStub) RecordTrial(_ context.Context, r Result) error {
	s.results = append(s.results, r)
	return s.err
}

type awarderStub struct {
	calls []int
	at    []time.Time
	clock sched.Scheduler
}

func (a *awarderStub) AwardPoints(_ context.Context, _ string, points int) error {
	a.calls = append(a.calls, points)
	a.at = append(a.at, a.clock.Now())
	return nil
}

type fixture struct {
	clock   *sched.Virtual
	sink    *sinkStub
	awarder *awarderStub
	runner  *Runner
}

func newFixture(t *testing.T, seed uint64) *fixture {
	t.Helper()
	clock := sched.NewVirtual(epoch)
	f := &fixture{
		clock:   clock,
		sink:    &sinkStub{},
		awarder: &awarderStub{clock: clock},
	}
	f.runner = NewRunner(context.Background(), Config{
		Clock:   clock,
		Sink:    f.sink,
		Awarder: f.awarder,
		Rand:    rand.New(rand.NewPCG(seed, seed+1)),
	})
	return f
}

func digitsString(seq []int) string {
	b := make([]byte, len(seq))
	for i, d := range seq {
		b[i] = byte('0' + d)
	}
	return string(b)
}

func TestScore(t *testing.T) {
	seq := []int{1, 2, 3, 4, 5}
	tests := []struct {
		answer string
		want   int
	}{
		{"12345", 5},
		{"12045", 4},
		{"", 0},
		{"1", 1},
		{"123456789", 5},
		{"abcde", 0},
		{"1a3b5", 3},
		{"54321", 1},
		{"１2345", 4},
		{" 1234", 0},
	}
	for _, tt := range tests {
		if got := Score(seq, tt.answer); got != tt.want {
			t.Errorf("Score(%v, %q) = %d, want %d", seq, tt.answer, got, tt.want)
		}
	}
}

func TestStart_GeneratesDigits(t *testing.T) {
	f := newFixture(t, 7)
	if !f.runner.Start() {
		t.Fatal("Start() = false from Idle")
	}
	seq := f.runner.Sequence()
	if len(seq) != SequenceLength {
		t.Fatalf("len(sequence) = %d", len(seq))
	}
	for _, d := range seq {
		if d < 0 || d > 9 {
			t.Errorf("digit %d out of range", d)
		}
	}
	if f.runner.Status() != Revealing {
		t.Errorf("Status() = %v, want revealing", f.runner.Status())
	}
}

func TestReveal_Timing(t *testing.T) {
	f := newFixture(t, 11)
	f.runner.Start()
	seq := f.runner.Sequence()

	for i, want := range seq {
		if d, ok := f.runner.Displayed(); !ok || d != want {
			t.Fatalf("at %dms: Displayed() = %d,%v want %d", i*1000, d, ok, want)
		}
		f.clock.Advance(999 * time.Millisecond)
		if d, ok := f.runner.Displayed(); !ok || d != want {
			t.Fatalf("at %dms: Displayed() = %d,%v want %d", i*1000+999, d, ok, want)
		}
		if f.runner.Status() != Revealing {
			t.Fatalf("left Revealing early at %dms", i*1000+999)
		}
		f.clock.Advance(time.Millisecond)
	}

	if f.runner.Status() != AwaitingInput {
		t.Fatalf("Status() at 5000ms = %v, want awaiting_input", f.runner.Status())
	}
	if _, ok := f.runner.Displayed(); ok {
		t.Error("display not blank while awaiting input")
	}
	if f.clock.Pending() != 0 {
		t.Errorf("reveal timer still pending")
	}
}

func TestReveal_EachDigitAtItsSlot(t *testing.T) {
	f := newFixture(t, 3)
	f.runner.Start()
	seq := f.runner.Sequence()
	for i, want := range seq {
		d, ok := f.runner.Displayed()
		if !ok || d != want {
			t.Fatalf("slot %d: Displayed() = %d,%v want %d", i, d, ok, want)
		}
		f.clock.Advance(RevealInterval)
	}
	if f.runner.Status() != AwaitingInput {
		t.Errorf("Status() = %v", f.runner.Status())
	}
}

func TestSubmit_ScoresAndAwardsAfterDelay(t *testing.T) {
	f := newFixture(t, 5)
	f.runner.Start()
	f.clock.Advance(5 * time.Second)
	f.clock.Advance(2500 * time.Millisecond)

	answer := digitsString(f.runner.Sequence())
	if !f.runner.Submit(answer) {
		t.Fatal("Submit() = false while awaiting input")
	}
	if f.runner.Status() != Scored {
		t.Errorf("Status() = %v", f.runner.Status())
	}
	if f.runner.CorrectCount() != 5 {
		t.Errorf("CorrectCount() = %d, want 5", f.runner.CorrectCount())
	}

	if len(f.sink.results) != 1 {
		t.Fatalf("sink got %d results", len(f.sink.results))
	}
	res := f.sink.results[0]
	if res.TestID != TestID || res.Score != 5 || res.Answer != answer {
		t.Errorf("result = %+v", res)
	}
	if res.ResponseTimeSeconds != 7.5 {
		t.Errorf("ResponseTimeSeconds = %v, want 7.5", res.ResponseTimeSeconds)
	}
	if res.TrialID == "" {
		t.Error("empty trial id")
	}

	f.clock.Advance(499 * time.Millisecond)
	if len(f.awarder.calls) != 0 {
		t.Fatal("award delivered before 500ms")
	}
	f.clock.Advance(time.Millisecond)
	if len(f.awarder.calls) != 1 || f.awarder.calls[0] != AwardPoints {
		t.Fatalf("awards = %v, want [10]", f.awarder.calls)
	}
}

func TestSubmit_SinkErrorIgnored(t *testing.T) {
	f := newFixture(t, 5)
	f.sink.err = errors.New("db locked")
	f.runner.Start()
	f.clock.Advance(5 * time.Second)
	if !f.runner.Submit("00000") {
		t.Fatal("Submit() = false")
	}
	f.clock.Advance(AwardDelay)
	if len(f.awarder.calls) != 1 {
		t.Errorf("award not delivered after sink error")
	}
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t, 9)
	r := f.runner

	if r.Submit("12345") {
		t.Error("Submit from Idle accepted")
	}
	r.Start()
	if r.Start() {
		t.Error("Start while revealing accepted")
	}
	if r.Submit("12345") {
		t.Error("Submit while revealing accepted")
	}
	if r.Reset() {
		t.Error("Reset while revealing accepted")
	}
	f.clock.Advance(5 * time.Second)
	if r.Reset() {
		t.Error("Reset while awaiting input accepted")
	}
	r.Submit("1")
	if r.Submit("2") {
		t.Error("second Submit accepted")
	}
	if len(f.sink.results) != 1 {
		t.Errorf("sink got %d results, want 1", len(f.sink.results))
	}
}

func TestReset_ThenStartIsFresh(t *testing.T) {
	f := newFixture(t, 21)
	r := f.runner
	r.Start()
	first := r.Sequence()
	f.clock.Advance(5 * time.Second)
	r.Submit(digitsString(first))

	if !r.Reset() {
		t.Fatal("Reset() = false from Scored")
	}
	if r.Status() != Idle || r.Sequence() != nil || r.CorrectCount() != 0 || r.Answer() != "" {
		t.Fatalf("state not cleared: status=%v seq=%v", r.Status(), r.Sequence())
	}

	r.Start()
	if r.CorrectCount() != 0 {
		t.Errorf("CorrectCount() = %d after restart", r.CorrectCount())
	}
	if len(r.Sequence()) != SequenceLength {
		t.Errorf("new sequence length %d", len(r.Sequence()))
	}

	// The award from the first trial survives the reset.
	f.clock.Advance(AwardDelay)
	if len(f.awarder.calls) != 1 {
		t.Errorf("awards = %v, want one", f.awarder.calls)
	}
}

func TestStartFromScored(t *testing.T) {
	f := newFixture(t, 4)
	r := f.runner
	r.Start()
	f.clock.Advance(5 * time.Second)
	r.Submit("99999")
	if !r.Start() {
		t.Fatal("Start() from Scored = false")
	}
	if r.Status() != Revealing || r.Answer() != "" {
		t.Errorf("status=%v answer=%q", r.Status(), r.Answer())
	}
}

func TestDispose_CancelsTimers(t *testing.T) {
	t.Run("during reveal", func(t *testing.T) {
		f := newFixture(t, 1)
		f.runner.Start()
		f.clock.Advance(2 * time.Second)
		f.runner.Dispose()
		f.clock.Advance(10 * time.Second)
		if f.runner.Status() != Revealing {
			t.Errorf("status changed after dispose: %v", f.runner.Status())
		}
		if f.clock.Pending() != 0 {
			t.Errorf("Pending() = %d", f.clock.Pending())
		}
	})

	t.Run("pending award", func(t *testing.T) {
		f := newFixture(t, 1)
		f.runner.Start()
		f.clock.Advance(5 * time.Second)
		f.runner.Submit("12345")
		f.clock.Advance(200 * time.Millisecond)
		f.runner.Dispose()
		f.clock.Advance(time.Second)
		if len(f.awarder.calls) != 0 {
			t.Errorf("award delivered after dispose: %v", f.awarder.calls)
		}
		if f.runner.Start() {
			t.Error("Start accepted after dispose")
		}
	})
}

func TestStatusString(t *testing.T) {
	if AwaitingInput.String() != "awaiting_input" || Status(42).String() != "unknown" {
		t.Error("unexpected Status strings")
	}
}
