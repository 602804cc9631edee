package sleeplog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/sleep"
	"github.com/neurotrack/neurotrack/internal/store"
)

type awarderStub struct{ total int }

func (a *awarderStub) AwardPoints(_ context.Context, _ string, points int) error {
	a.total += points
	return nil
}

func newScreen(t *testing.T) (*SleepScreen, *awarderStub) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	aw := &awarderStub{}
	clock := sched.NewVirtual(time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local))
	log := sleep.NewLog(st.TaskRepo(), clock, aw, nil)
	return New(context.Background(), log), aw
}

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func TestSaveDefaults(t *testing.T) {
	s, aw := newScreen(t)

	if !strings.Contains(s.View(100, 30), "8.00 hours") {
		t.Error("preview should show 8.00 hours for the default times")
	}

	_, cmd := s.Update(key(tea.KeyEnter))
	if s.saved == nil {
		t.Fatalf("entry not saved: %s", s.errMsg)
	}
	if s.saved.Hours != 8 || s.saved.Quality != string(sleep.Good) {
		t.Errorf("saved = %+v", *s.saved)
	}
	if aw.total != sleep.AwardPoints {
		t.Errorf("awarded %d, want %d", aw.total, sleep.AwardPoints)
	}

	if cmd == nil {
		t.Fatal("save should reload recent entries")
	}
	s.Update(cmd())
	if len(s.recent) != 1 {
		t.Errorf("recent = %d entries, want 1", len(s.recent))
	}
}

func TestQualitySelection(t *testing.T) {
	s, _ := newScreen(t)

	s.Update(key(tea.KeyTab))
	s.Update(key(tea.KeyTab))
	if s.focus != fieldQuality {
		t.Fatalf("focus = %d, want quality", s.focus)
	}
	s.Update(key(tea.KeyRight))
	s.Update(key(tea.KeyRight))
	s.Update(key(tea.KeyEnter))

	if s.saved == nil || s.saved.Quality != string(sleep.Excellent) {
		t.Errorf("saved = %+v, want excellent", s.saved)
	}
}

func TestInvalidTimeShowsError(t *testing.T) {
	s, aw := newScreen(t)
	s.sleepAt.SetValue("25:99")

	s.Update(key(tea.KeyEnter))
	if s.saved != nil {
		t.Error("invalid time should not be saved")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if aw.total != 0 {
		t.Errorf("awarded %d for invalid entry", aw.total)
	}
}

func TestFocusWraps(t *testing.T) {
	s, _ := newScreen(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.focus != fieldQuality {
		t.Errorf("focus = %d, want quality after shift+tab", s.focus)
	}
}
