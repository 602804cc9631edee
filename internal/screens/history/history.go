package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/store"
	"github.com/neurotrack/neurotrack/internal/trial"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// Limit caps how many records of each kind are loaded.
const Limit = 50

type tab int

const (
	tabTrials tab = iota
	tabAwards
)

type historyLoadedMsg struct {
	Trials []store.TrialRecord
	Awards []store.AwardRecord
	Err    error
}

// HistoryScreen lists past memory trials and point awards, newest first.
type HistoryScreen struct {
	ctx    context.Context
	trials store.TrialRepo
	awards store.AwardRepo

	trialRecs []store.TrialRecord
	awardRecs []store.AwardRecord
	tab       tab
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctx context.Context, trials store.TrialRepo, awards store.AwardRepo) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		trials:   trials,
		awards:   awards,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, trials, awards := s.ctx, s.trials, s.awards
	return func() tea.Msg {
		t, err := trials.RecentTrials(ctx, store.QueryOpts{Limit: Limit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		a, err := awards.RecentAwards(ctx, store.QueryOpts{Limit: Limit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Trials: t, Awards: a}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Trials/Points"},
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) rows() int {
	if s.tab == tabTrials {
		return len(s.trialRecs)
	}
	return len(s.awardRecs)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.trialRecs = msg.Trials
			s.awardRecs = msg.Awards
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.tab = 1 - s.tab
			s.selected = 0
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < s.rows()-1 {
				s.selected++
			}
		case "enter":
			if s.tab == tabTrials {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.tabBar()))
	b.WriteString("\n\n")

	if s.rows() == 0 {
		empty := "No memory tests yet. Try one from the home screen!"
		if s.tab == tabAwards {
			empty = "No points earned yet."
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(empty))
		return b.String()
	}

	if s.tab == tabTrials {
		s.renderTrials(&b, width)
	} else {
		s.renderAwards(&b, width)
	}
	return b.String()
}

func (s *HistoryScreen) tabBar() string {
	label := func(name string, t tab) string {
		if s.tab == t {
			return theme.Selected.Render(name)
		}
		return theme.Unselected.Render(name)
	}
	return label(" Memory tests ", tabTrials) + "  " + label(" Points ", tabAwards)
}

func (s *HistoryScreen) line(i int, text string, width int) string {
	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "> "
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+text)) + "\n"
}

func (s *HistoryScreen) renderTrials(b *strings.Builder, width int) {
	for i, t := range s.trialRecs {
		b.WriteString(s.line(i, fmt.Sprintf("%s  %d / %d correct  %.1fs",
			t.Timestamp.Format("Jan 02 15:04"), t.Score, trial.SequenceLength, t.ResponseTime), width))

		if s.expanded[i] {
			detail := fmt.Sprintf("    shown %s   answered %s", t.Digits, orDash(t.Answer))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}
}

func (s *HistoryScreen) renderAwards(b *strings.Builder, width int) {
	for i, a := range s.awardRecs {
		b.WriteString(s.line(i, fmt.Sprintf("%s  +%d  %-18s total %d",
			a.Timestamp.Format("Jan 02 15:04"), a.Points, progression.SourceLabel(a.Source), a.TotalAfter), width))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
