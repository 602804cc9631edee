package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/store"
)

type fakeTrials struct {
	recs []store.TrialRecord
	err  error
	opts store.QueryOpts
}

func (f *fakeTrials) AppendTrial(context.Context, store.TrialRecord) error { return nil }

func (f *fakeTrials) RecentTrials(_ context.Context, opts store.QueryOpts) ([]store.TrialRecord, error) {
	f.opts = opts
	return f.recs, f.err
}

type fakeAwards struct {
	recs []store.AwardRecord
}

func (f *fakeAwards) AppendAward(context.Context, store.AwardRecord) error { return nil }

func (f *fakeAwards) RecentAwards(context.Context, store.QueryOpts) ([]store.AwardRecord, error) {
	return f.recs, nil
}

func loaded(t *testing.T, trials *fakeTrials, awards *fakeAwards) *HistoryScreen {
	t.Helper()
	s := New(context.Background(), trials, awards)
	s.Update(s.Init()())
	return s
}

func keyMsg(text string) tea.KeyPressMsg {
	switch text {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: rune(text[0]), Text: text}
}

func TestLoadingView(t *testing.T) {
	s := New(context.Background(), &fakeTrials{}, &fakeAwards{})
	if !strings.Contains(s.View(100, 30), "Loading history") {
		t.Error("expected loading message before data arrives")
	}
}

func TestInitQueriesWithLimit(t *testing.T) {
	trials := &fakeTrials{}
	loaded(t, trials, &fakeAwards{})
	if trials.opts.Limit != Limit {
		t.Errorf("limit = %d, want %d", trials.opts.Limit, Limit)
	}
}

func TestEmptyStates(t *testing.T) {
	s := loaded(t, &fakeTrials{}, &fakeAwards{})
	if !strings.Contains(s.View(100, 30), "No memory tests yet") {
		t.Error("missing empty trials message")
	}
	s.Update(keyMsg("tab"))
	if !strings.Contains(s.View(100, 30), "No points earned yet") {
		t.Error("missing empty awards message")
	}
}

func TestLoadError(t *testing.T) {
	s := loaded(t, &fakeTrials{err: errors.New("disk gone")}, &fakeAwards{})
	if !strings.Contains(s.View(100, 30), "disk gone") {
		t.Error("error not shown")
	}
}

func TestTrialsExpandAndNavigate(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local)
	s := loaded(t, &fakeTrials{recs: []store.TrialRecord{
		{Timestamp: at, Score: 4, Digits: "3,8,1,5,9", Answer: "38159", ResponseTime: 6.2},
		{Timestamp: at.Add(-time.Hour), Score: 0, Digits: "1,2,3,4,5"},
	}}, &fakeAwards{})

	view := s.View(100, 30)
	if !strings.Contains(view, "4 / 5 correct") {
		t.Errorf("trial row missing:\n%s", view)
	}

	s.Update(keyMsg("down"))
	s.Update(keyMsg("down"))
	if s.selected != 1 {
		t.Fatalf("selected = %d, want clamp at 1", s.selected)
	}
	s.Update(keyMsg("enter"))
	if !strings.Contains(s.View(100, 30), "answered -") {
		t.Error("expanded row should show a dash for an empty answer")
	}
}

func TestAwardsTab(t *testing.T) {
	s := loaded(t, &fakeTrials{}, &fakeAwards{recs: []store.AwardRecord{
		{Timestamp: time.Now(), Source: progression.SourceAssessment, Points: 100, TotalAfter: 1360},
	}})
	s.Update(keyMsg("tab"))
	view := s.View(100, 30)
	for _, want := range []string{"+100", "Monthly checkup", "total 1360"} {
		if !strings.Contains(view, want) {
			t.Errorf("awards view missing %q", want)
		}
	}
}
