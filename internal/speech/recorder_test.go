package speech

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

type fakeAwarder struct{ sources []string }

func (f *fakeAwarder) AwardPoints(_ context.Context, source string, _ int) error {
	f.sources = append(f.sources, source)
	return nil
}

type fixture struct {
	rec   *Recorder
	clock *sched.Virtual
	st    *store.Store
	aw    *fakeAwarder
	dir   string
}

func newFixture(t *testing.T, maxSeconds int) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		clock: sched.NewVirtual(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)),
		st:    st,
		aw:    &fakeAwarder{},
		dir:   filepath.Join(dir, "clips"),
	}
	f.rec = NewRecorder(context.Background(), Config{
		Script:     "The quick brown fox.",
		MaxSeconds: maxSeconds,
		Dir:        f.dir,
		Clock:      f.clock,
		Repo:       st.TaskRepo(),
		Awarder:    f.aw,
	})
	return f
}

func TestRecorder_CountdownAndManualStop(t *testing.T) {
	f := newFixture(t, 30)
	if !f.rec.Start() {
		t.Fatal("Start from idle should succeed")
	}
	f.clock.Advance(4500 * time.Millisecond)
	if f.rec.TimeLeft() != 26 {
		t.Fatalf("expected 26s left, got %d", f.rec.TimeLeft())
	}
	if !f.rec.Stop() {
		t.Fatal("Stop while recording should succeed")
	}
	if f.rec.Status() != Recorded || f.rec.Duration() != 4 {
		t.Fatalf("status %s duration %d", f.rec.Status(), f.rec.Duration())
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("countdown still armed: %d pending", f.clock.Pending())
	}
}

func TestRecorder_AutoStopAtZero(t *testing.T) {
	f := newFixture(t, 3)
	f.rec.Start()
	f.clock.Advance(10 * time.Second)
	if f.rec.Status() != Recorded || f.rec.Duration() != 3 || f.rec.TimeLeft() != 0 {
		t.Fatalf("status %s duration %d left %d", f.rec.Status(), f.rec.Duration(), f.rec.TimeLeft())
	}
}

func TestRecorder_UploadStoresAndAwards(t *testing.T) {
	f := newFixture(t, 30)
	f.rec.Start()
	f.clock.Advance(2 * time.Second)
	f.rec.Stop()

	ok, err := f.rec.Upload()
	if err != nil || !ok {
		t.Fatalf("Upload = %v, %v", ok, err)
	}
	if f.rec.Status() != Uploading {
		t.Fatalf("expected uploading, got %s", f.rec.Status())
	}

	f.clock.Advance(UploadDelay - time.Millisecond)
	if len(f.aw.sources) != 0 {
		t.Fatal("awarded before the upload finished")
	}
	f.clock.Advance(time.Millisecond)

	if f.rec.Status() != Idle || f.rec.TimeLeft() != 30 {
		t.Fatalf("expected idle with full countdown, got %s %d", f.rec.Status(), f.rec.TimeLeft())
	}
	if len(f.aw.sources) != 1 || f.aw.sources[0] != progression.SourceSpeech {
		t.Fatalf("unexpected awards %v", f.aw.sources)
	}

	recs, err := f.st.TaskRepo().Recordings(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("Recordings: %v", err)
	}
	if len(recs) != 1 || recs[0].TaskType != TaskType || recs[0].Duration != 2 {
		t.Fatalf("unexpected stored recordings %+v", recs)
	}
	if !strings.HasPrefix(recs[0].AudioURL, "file://") {
		t.Fatalf("unexpected audio url %q", recs[0].AudioURL)
	}

	path := strings.TrimPrefix(recs[0].AudioURL, "file://")
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("clip missing: %v", err)
	}
	// 44-byte header plus 2 s of 16 kHz 16-bit mono.
	if want := int64(44 + 2*16000*2); info.Size() != want {
		t.Fatalf("clip size %d, want %d", info.Size(), want)
	}
	if f.rec.LastUpload() == nil {
		t.Fatal("expected LastUpload to be set")
	}
}

func TestRecorder_InvalidTransitions(t *testing.T) {
	f := newFixture(t, 30)
	if f.rec.Stop() || f.rec.Discard() {
		t.Fatal("Stop/Discard from idle must fail")
	}
	if ok, _ := f.rec.Upload(); ok {
		t.Fatal("Upload from idle must fail")
	}
	f.rec.Start()
	if f.rec.Start() {
		t.Fatal("Start while recording must fail")
	}
	f.rec.Stop()
	if !f.rec.Discard() || f.rec.Status() != Idle {
		t.Fatal("Discard from recorded should return to idle")
	}
}

func TestRecorder_DisposeCancelsUpload(t *testing.T) {
	f := newFixture(t, 30)
	f.rec.Start()
	f.clock.Advance(time.Second)
	f.rec.Stop()
	f.rec.Upload()
	f.rec.Dispose()

	f.clock.Advance(5 * time.Second)
	if len(f.aw.sources) != 0 {
		t.Fatal("disposed recorder must not award")
	}
	recs, _ := f.st.TaskRepo().Recordings(context.Background(), store.QueryOpts{})
	if len(recs) != 0 {
		t.Fatalf("disposed recorder stored %d recordings", len(recs))
	}
	if f.rec.Start() {
		t.Fatal("Start after Dispose must fail")
	}
}

func TestFormatCountdown(t *testing.T) {
	for in, want := range map[int]string{30: "0:30", 5: "0:05", 75: "1:15"} {
		if got := FormatCountdown(in); got != want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}
