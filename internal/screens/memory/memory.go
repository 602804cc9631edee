// Package memory is the digit-span screen: it drives a trial.Runner from
// key presses and renders its state.
package memory

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/trial"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// MemoryScreen runs one digit-span trial at a time.
type MemoryScreen struct {
	runner *trial.Runner
	input  components.TextInput
}

var (
	_ screen.Screen          = (*MemoryScreen)(nil)
	_ screen.KeyHintProvider = (*MemoryScreen)(nil)
	_ screen.Disposer        = (*MemoryScreen)(nil)
)

// New creates the screen around runner. The screen owns the runner and
// disposes it when popped.
func New(runner *trial.Runner) *MemoryScreen {
	return &MemoryScreen{
		runner: runner,
		input:  components.NewTextInput("type the digits", trial.SequenceLength, components.DigitsOnly),
	}
}

func (s *MemoryScreen) Init() tea.Cmd { return nil }

func (s *MemoryScreen) Title() string { return "Memory Span" }

func (s *MemoryScreen) Dispose() { s.runner.Dispose() }

func (s *MemoryScreen) KeyHints() []layout.KeyHint {
	switch s.runner.Status() {
	case trial.Idle:
		return []layout.KeyHint{{Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
	case trial.AwaitingInput:
		return []layout.KeyHint{{Key: "0-9", Description: "Type"}, {Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Back"}}
	case trial.Scored:
		return []layout.KeyHint{{Key: "Enter", Description: "Try again"}, {Key: "R", Description: "Reset"}, {Key: "Esc", Description: "Back"}}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
}

func (s *MemoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.runner.Status() == trial.AwaitingInput {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch s.runner.Status() {
	case trial.Idle, trial.Scored:
		switch kmsg.String() {
		case "enter", "space", " ":
			return s, s.start()
		case "r":
			s.runner.Reset()
		}
	case trial.AwaitingInput:
		if kmsg.String() == "enter" {
			s.runner.Submit(s.input.Value())
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *MemoryScreen) start() tea.Cmd {
	if !s.runner.Start() {
		return nil
	}
	s.input.Reset()
	return s.input.Init()
}

func (s *MemoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.runner.Status() {
	case trial.Idle:
		body = strings.Join([]string{
			theme.Title.Render("Memory span test"),
			"",
			theme.Body.Render(fmt.Sprintf("%d digits will appear one at a time.", trial.SequenceLength)),
			theme.Body.Render("Remember them in order, then type them back."),
			"",
			theme.Hint.Render(fmt.Sprintf("Finishing a test earns %d points.", trial.AwardPoints)),
		}, "\n")

	case trial.Revealing:
		digit := " "
		if d, ok := s.runner.Displayed(); ok {
			digit = fmt.Sprint(d)
		}
		body = strings.Join([]string{
			theme.Subtitle.Render("Watch closely..."),
			"",
			theme.Big.Render(digit),
		}, "\n")

	case trial.AwaitingInput:
		body = strings.Join([]string{
			theme.Body.Render("Which digits did you see?"),
			"",
			s.input.View(),
		}, "\n")

	case trial.Scored:
		body = s.resultView()
	}

	return components.Frame(components.Card(body, cw), width, height)
}

func (s *MemoryScreen) resultView() string {
	seq := s.runner.Sequence()
	answer := []rune(s.runner.Answer())

	var marks []string
	for i, want := range seq {
		got := "_"
		if i < len(answer) {
			got = string(answer[i])
		}
		if trial.Score([]int{want}, got) == 1 {
			marks = append(marks, theme.Correct.Render(got))
		} else {
			marks = append(marks, theme.Incorrect.Render(got))
		}
	}

	score := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
		Render(fmt.Sprintf("%d / %d correct", s.runner.CorrectCount(), len(seq)))

	return strings.Join([]string{
		theme.Title.Render("Result"),
		"",
		theme.Body.Render("Sequence  ") + strings.Join(strings.Split(trial.FormatDigits(seq), ""), " "),
		theme.Body.Render("You typed ") + strings.Join(marks, " "),
		"",
		score,
		"",
		theme.Hint.Render("Great effort! Practice keeps the mind sharp."),
	}, "\n")
}
