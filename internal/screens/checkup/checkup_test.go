package checkup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/neurotrack/neurotrack/internal/assessment"
	"github.com/neurotrack/neurotrack/internal/router"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/store"
)

type awarderStub struct{ points []int }

func (a *awarderStub) AwardPoints(_ context.Context, _ string, points int) error {
	a.points = append(a.points, points)
	return nil
}

func newScreen(t *testing.T) (*CheckupScreen, *store.Store, *awarderStub) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	aw := &awarderStub{}
	clock := sched.NewVirtual(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	sess := assessment.NewSession(st.TaskRepo(), clock, aw, nil)
	return New(context.Background(), sess), st, aw
}

func enter(s *CheckupScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestWalkthrough(t *testing.T) {
	s, st, aw := newScreen(t)

	// intro, orientation, registration, serial sevens, recall, done
	var cmd tea.Cmd
	for i := 0; i <= assessment.LastStep; i++ {
		if s.session.Index() != i {
			t.Fatalf("step %d: index = %d", i, s.session.Index())
		}
		cmd = enter(s)
	}

	if !s.session.Done() {
		t.Fatal("session should be done")
	}
	if len(aw.points) != 1 || aw.points[0] != assessment.AwardPoints {
		t.Errorf("awards = %v, want [%d]", aw.points, assessment.AwardPoints)
	}
	if cmd == nil {
		t.Fatal("finishing should leave the screen")
	}
	rep, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if rep.Screen == nil || rep.Screen.Title() != "Check Results" {
		t.Errorf("replacement screen = %v, want the results screen", rep.Screen)
	}

	recs, err := st.TaskRepo().Assessments(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("Assessments: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("stored %d assessments, want 1", len(recs))
	}
	// Enter always picks the first option: serial sevens right, recall wrong.
	if got := recs[0].Answers["correct"]; got != "1" {
		t.Errorf("correct = %q, want 1", got)
	}
}

func TestNumberKeyAnswers(t *testing.T) {
	s, _, _ := newScreen(t)
	enter(s) // past intro

	s.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if s.session.Index() != 2 {
		t.Errorf("index = %d, want 2 after answering", s.session.Index())
	}
}

func TestOtherKeysDoNotAdvance(t *testing.T) {
	s, _, _ := newScreen(t)
	s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if s.session.Index() != 0 {
		t.Errorf("index = %d, want 0", s.session.Index())
	}
}
