package checkup

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/assessment"
	"github.com/neurotrack/neurotrack/internal/router"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/screens/summary"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// CheckupScreen walks through the monthly assessment.
type CheckupScreen struct {
	ctx     context.Context
	session *assessment.Session
	choice  components.MultiChoice
	errMsg  string
}

var (
	_ screen.Screen          = (*CheckupScreen)(nil)
	_ screen.KeyHintProvider = (*CheckupScreen)(nil)
)

// New starts a fresh session.
func New(ctx context.Context, session *assessment.Session) *CheckupScreen {
	s := &CheckupScreen{ctx: ctx, session: session}
	s.syncChoice()
	return s
}

func (s *CheckupScreen) Init() tea.Cmd { return nil }

func (s *CheckupScreen) Title() string { return "Monthly Check" }

func (s *CheckupScreen) KeyHints() []layout.KeyHint {
	if len(s.session.Current().Options) > 0 {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	label := "Next"
	if s.session.Index() == assessment.LastStep {
		label = "Finish"
	}
	return []layout.KeyHint{{Key: "Enter", Description: label}, {Key: "Esc", Description: "Leave"}}
}

func (s *CheckupScreen) syncChoice() {
	st := s.session.Current()
	if len(st.Options) > 0 {
		s.choice = components.NewMultiChoice(st.Prompt, st.Options)
	}
}

func (s *CheckupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || s.session.Done() {
		return s, nil
	}

	if len(s.session.Current().Options) > 0 {
		s.choice, _ = s.choice.Update(kmsg)
		if s.choice.Chosen >= 0 && s.session.Answer(s.choice.Chosen) {
			s.syncChoice()
		}
		return s, nil
	}

	if kmsg.String() != "enter" {
		return s, nil
	}
	advanced, err := s.session.Next(s.ctx)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if advanced {
		s.syncChoice()
	}
	if s.session.Done() {
		res := s.session.Result()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(res)} }
	}
	return s, nil
}

func (s *CheckupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	st := s.session.Current()

	lines := []string{
		components.NewProgressBar("", s.session.Progress(), true, cw-8).View(),
		"",
		theme.Title.Render(st.Title),
		"",
	}

	if len(st.Options) > 0 {
		lines = append(lines, s.choice.View())
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(cw-8).Foreground(theme.Text).Render(st.Prompt))
		if st.Show != "" {
			lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(st.Show))
		}
	}

	if s.errMsg != "" {
		lines = append(lines, "", theme.Incorrect.Render(s.errMsg))
	}
	return components.Frame(components.Card(strings.Join(lines, "\n"), cw), width, height)
}
