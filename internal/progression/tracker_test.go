package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neurotrack/neurotrack/internal/sched"
)

type memKV struct {
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type recorderStub struct {
	awards []Award
}

func (r *recorderStub) RecordAward(_ context.Context, a Award) error {
	r.awards = append(r.awards, a)
	return nil
}

var epoch = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

func newTracker(t *testing.T, kv *memKV) (*Tracker, *sched.Virtual) {
	t.Helper()
	clock := sched.NewVirtual(epoch)
	return Load(context.Background(), Config{KV: kv, Clock: clock}), clock
}

func TestLevelDerivation(t *testing.T) {
	tests := []struct {
		score     int
		level     int
		progress  float64
		threshold int
	}{
		{0, 1, 0, 500},
		{499, 1, 99.8, 500},
		{500, 2, 0, 1000},
		{1250, 3, 50, 1500},
		{1260, 3, 52, 1500},
		{9999, 20, 99.8, 10000},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.level {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.score, got, tt.level)
		}
		if got := ProgressFor(tt.score); got < tt.progress-1e-9 || got > tt.progress+1e-9 {
			t.Errorf("ProgressFor(%d) = %v, want %v", tt.score, got, tt.progress)
		}
		if got := ThresholdFor(tt.score); got != tt.threshold {
			t.Errorf("ThresholdFor(%d) = %d, want %d", tt.score, got, tt.threshold)
		}
	}
}

func TestSourceLabel(t *testing.T) {
	if got := SourceLabel(SourceAssessment); got != "Monthly checkup" {
		t.Errorf("SourceLabel(%q) = %q", SourceAssessment, got)
	}
	if got := SourceLabel("bonus"); got != "bonus" {
		t.Errorf("unknown source should pass through, got %q", got)
	}
}

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	tr, _ := newTracker(t, newMemKV())
	if tr.Score() != DefaultScore {
		t.Fatalf("Score() = %d, want %d", tr.Score(), DefaultScore)
	}
	if tr.Level() != 3 {
		t.Errorf("Level() = %d, want 3", tr.Level())
	}
}

func TestLoad_ReadsPersisted(t *testing.T) {
	kv := newMemKV()
	kv.data[ScoreKey] = "2040"
	tr, _ := newTracker(t, kv)
	if tr.Score() != 2040 {
		t.Errorf("Score() = %d, want 2040", tr.Score())
	}
}

func TestLoad_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		kv   *memKV
	}{
		{"garbage", &memKV{data: map[string]string{ScoreKey: "lots"}}},
		{"negative", &memKV{data: map[string]string{ScoreKey: "-5"}}},
		{"store error", &memKV{data: map[string]string{}, getErr: errors.New("disk gone")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTracker(t, tt.kv)
			if tr.Score() != DefaultScore {
				t.Errorf("Score() = %d, want default", tr.Score())
			}
		})
	}
}

func TestLoad_CustomDefault(t *testing.T) {
	clock := sched.NewVirtual(epoch)
	tr := Load(context.Background(), Config{KV: newMemKV(), Clock: clock, DefaultScore: 40})
	if tr.Score() != 40 {
		t.Errorf("Score() = %d, want 40", tr.Score())
	}
}

func TestAwardPoints_DefaultPlusTen(t *testing.T) {
	kv := newMemKV()
	tr, _ := newTracker(t, kv)

	if err := tr.AwardPoints(context.Background(), SourceMemoryTrial, 10); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if tr.Score() != 1260 {
		t.Errorf("Score() = %d, want 1260", tr.Score())
	}
	if tr.Level() != 3 {
		t.Errorf("Level() = %d, want 3", tr.Level())
	}
	if tr.ProgressToNext() != 52 {
		t.Errorf("ProgressToNext() = %v, want 52", tr.ProgressToNext())
	}
	if kv.data[ScoreKey] != "1260" {
		t.Errorf("persisted = %q, want 1260", kv.data[ScoreKey])
	}
}

func TestAwardPoints_SumAndMonotonic(t *testing.T) {
	tr, _ := newTracker(t, newMemKV())
	ctx := context.Background()
	awards := []int{10, 100, 1, 250, 10}
	prev := tr.Score()
	sum := 0
	for _, p := range awards {
		if err := tr.AwardPoints(ctx, SourceSleepLog, p); err != nil {
			t.Fatalf("AwardPoints(%d): %v", p, err)
		}
		if tr.Score() <= prev {
			t.Fatalf("score did not increase: %d -> %d", prev, tr.Score())
		}
		prev = tr.Score()
		sum += p
	}
	if tr.Score() != DefaultScore+sum {
		t.Errorf("Score() = %d, want %d", tr.Score(), DefaultScore+sum)
	}
}

func TestAwardPoints_RejectsNonPositive(t *testing.T) {
	kv := newMemKV()
	tr, _ := newTracker(t, kv)
	for _, p := range []int{0, -10} {
		err := tr.AwardPoints(context.Background(), SourceSpeech, p)
		if !errors.Is(err, ErrNonPositivePoints) {
			t.Errorf("AwardPoints(%d) error = %v, want ErrNonPositivePoints", p, err)
		}
	}
	if tr.Score() != DefaultScore || kv.sets != 0 {
		t.Errorf("score changed or persisted: score=%d sets=%d", tr.Score(), kv.sets)
	}
	if tr.Notification().Visible {
		t.Error("notification shown for rejected award")
	}
}

func TestAwardPoints_PersistFailureKeepsMemoryScore(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("read-only")
	tr, _ := newTracker(t, kv)
	if err := tr.AwardPoints(context.Background(), SourceMedication, 10); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if tr.Score() != 1260 {
		t.Errorf("Score() = %d, want 1260", tr.Score())
	}
}

func TestAwardPoints_RecordsAward(t *testing.T) {
	rec := &recorderStub{}
	clock := sched.NewVirtual(epoch)
	tr := Load(context.Background(), Config{KV: newMemKV(), Clock: clock, Recorder: rec})
	clock.Advance(time.Minute)
	if err := tr.AwardPoints(context.Background(), SourceAssessment, 100); err != nil {
		t.Fatal(err)
	}
	if len(rec.awards) != 1 {
		t.Fatalf("recorded %d awards, want 1", len(rec.awards))
	}
	a := rec.awards[0]
	if a.Source != SourceAssessment || a.Points != 100 || a.TotalAfter != 1350 {
		t.Errorf("award = %+v", a)
	}
	if !a.AwardedAt.Equal(epoch.Add(time.Minute)) {
		t.Errorf("AwardedAt = %v", a.AwardedAt)
	}
}

func TestNotification_Debounce(t *testing.T) {
	tr, clock := newTracker(t, newMemKV())
	ctx := context.Background()

	var hides []time.Duration
	wasVisible := false
	observe := func() {
		v := tr.Notification().Visible
		if wasVisible && !v {
			hides = append(hides, clock.Now().Sub(epoch))
		}
		wasVisible = v
	}

	_ = tr.AwardPoints(ctx, SourceMemoryTrial, 10)
	observe()
	for i := 0; i < 10; i++ {
		clock.Advance(100 * time.Millisecond)
		observe()
	}
	_ = tr.AwardPoints(ctx, SourceMedication, 20)
	observe()
	if got := tr.Notification(); got.Points != 20 || !got.Visible {
		t.Fatalf("Notification() = %+v, want 20 visible", got)
	}
	for i := 0; i < 50; i++ {
		clock.Advance(100 * time.Millisecond)
		observe()
	}

	if len(hides) != 1 {
		t.Fatalf("hides = %v, want exactly one", hides)
	}
	if hides[0] != 4000*time.Millisecond {
		t.Errorf("hidden at %v, want 4s", hides[0])
	}
}

func TestSubscribe(t *testing.T) {
	tr, _ := newTracker(t, newMemKV())
	var got []RewardEvent
	cancel := tr.Subscribe(func(ev RewardEvent) { got = append(got, ev) })

	_ = tr.AwardPoints(context.Background(), SourceSleepLog, 10)
	_ = tr.AwardPoints(context.Background(), SourceSleepLog, 0)
	cancel()
	_ = tr.AwardPoints(context.Background(), SourceSleepLog, 10)

	if len(got) != 1 {
		t.Fatalf("events = %v, want one", got)
	}
	if got[0].Points != 10 || got[0].Source != SourceSleepLog {
		t.Errorf("event = %+v", got[0])
	}
}

func TestClose_CancelsDismissal(t *testing.T) {
	tr, clock := newTracker(t, newMemKV())
	_ = tr.AwardPoints(context.Background(), SourceSpeech, 10)
	tr.Close()
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d after Close, want 0", clock.Pending())
	}
}

func TestReset(t *testing.T) {
	kv := newMemKV()
	kv.data[ScoreKey] = "4000"
	tr, _ := newTracker(t, kv)
	if err := tr.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}
	if tr.Score() != DefaultScore || kv.data[ScoreKey] != "1250" {
		t.Errorf("after Reset score=%d persisted=%q", tr.Score(), kv.data[ScoreKey])
	}
}
