package readaloud

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/speech"
	"github.com/neurotrack/neurotrack/internal/store"
)

type awarderStub struct{ calls int }

func (a *awarderStub) AwardPoints(context.Context, string, int) error {
	a.calls++
	return nil
}

func newScreen(t *testing.T) (*SpeechScreen, *sched.Virtual, *awarderStub) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	clock := sched.NewVirtual(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	aw := &awarderStub{}
	rec := speech.NewRecorder(context.Background(), speech.Config{
		Script:     "What a lovely day.",
		MaxSeconds: 10,
		Dir:        filepath.Join(dir, "clips"),
		Clock:      clock,
		Repo:       st.TaskRepo(),
		Awarder:    aw,
	})
	return New(rec), clock, aw
}

func press(s *SpeechScreen, code rune, text string) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code, Text: text})
	return cmd
}

func TestRecordAndUpload(t *testing.T) {
	s, clock, aw := newScreen(t)

	press(s, tea.KeyEnter, "")
	if s.rec.Status() != speech.Recording {
		t.Fatalf("status = %v, want recording", s.rec.Status())
	}
	clock.Advance(3 * time.Second)
	if !strings.Contains(s.View(100, 30), "0:07") {
		t.Error("countdown should show 0:07 after three seconds")
	}

	press(s, tea.KeyEnter, "")
	if s.rec.Status() != speech.Recorded {
		t.Fatalf("status = %v, want recorded", s.rec.Status())
	}

	cmd := press(s, 'u', "u")
	if s.rec.Status() != speech.Uploading {
		t.Fatalf("status = %v, want uploading (err %q)", s.rec.Status(), s.errMsg)
	}
	if cmd == nil {
		t.Fatal("upload should start the spinner")
	}

	clock.Advance(speech.UploadDelay)
	if aw.calls != 1 {
		t.Errorf("award calls = %d, want 1", aw.calls)
	}
	if !strings.Contains(s.View(100, 30), "Uploaded a 3s recording") {
		t.Error("idle view should confirm the upload")
	}

	// The next spinner tick notices the upload finished and stops.
	if _, cmd := s.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("spinner should stop once idle")
	}
}

func TestDiscard(t *testing.T) {
	s, clock, aw := newScreen(t)
	press(s, tea.KeyEnter, "")
	clock.Advance(2 * time.Second)
	press(s, tea.KeyEnter, "")

	press(s, 'd', "d")
	if s.rec.Status() != speech.Idle {
		t.Errorf("status = %v, want idle", s.rec.Status())
	}
	if aw.calls != 0 {
		t.Errorf("award calls = %d, want 0", aw.calls)
	}
}

func TestDisposeStopsCountdown(t *testing.T) {
	s, clock, _ := newScreen(t)
	press(s, tea.KeyEnter, "")

	s.Dispose()
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d after dispose", clock.Pending())
	}
}
