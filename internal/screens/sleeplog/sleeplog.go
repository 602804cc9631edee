package sleeplog

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/sleep"
	"github.com/neurotrack/neurotrack/internal/store"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

const recentLimit = 5

type field int

const (
	fieldSleep field = iota
	fieldWake
	fieldQuality
	fieldCount
)

type recentLoadedMsg struct {
	Logs []store.SleepRecord
	Err  error
}

// SleepScreen is the sleep log form with the last few entries below it.
type SleepScreen struct {
	ctx     context.Context
	log     *sleep.Log
	sleepAt components.TextInput
	wakeAt  components.TextInput
	quality int
	focus   field

	saved  *store.SleepRecord
	errMsg string
	recent []store.SleepRecord
}

var (
	_ screen.Screen          = (*SleepScreen)(nil)
	_ screen.KeyHintProvider = (*SleepScreen)(nil)
)

// New creates the form prefilled with the default bed and wake times.
func New(ctx context.Context, log *sleep.Log) *SleepScreen {
	s := &SleepScreen{
		ctx:     ctx,
		log:     log,
		sleepAt: components.NewTextInput("HH:MM", 5, components.ClockChars),
		wakeAt:  components.NewTextInput("HH:MM", 5, components.ClockChars),
	}
	s.sleepAt.SetValue(sleep.DefaultSleepTime)
	s.wakeAt.SetValue(sleep.DefaultWakeTime)
	s.wakeAt.Blur()
	for i, q := range sleep.Qualities {
		if q == sleep.Good {
			s.quality = i
		}
	}
	return s
}

func (s *SleepScreen) Init() tea.Cmd {
	return tea.Batch(s.sleepAt.Init(), s.loadRecent())
}

func (s *SleepScreen) loadRecent() tea.Cmd {
	return func() tea.Msg {
		logs, err := s.log.Recent(s.ctx, recentLimit)
		return recentLoadedMsg{Logs: logs, Err: err}
	}
}

func (s *SleepScreen) Title() string { return "Sleep Log" }

func (s *SleepScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Quality"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SleepScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recentLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.recent = msg.Logs
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "enter":
			return s, s.save()
		case "left":
			if s.focus == fieldQuality && s.quality > 0 {
				s.quality--
				return s, nil
			}
		case "right":
			if s.focus == fieldQuality && s.quality < len(sleep.Qualities)-1 {
				s.quality++
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldSleep:
		s.sleepAt, cmd = s.sleepAt.Update(msg)
	case fieldWake:
		s.wakeAt, cmd = s.wakeAt.Update(msg)
	}
	return s, cmd
}

func (s *SleepScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.sleepAt.Blur()
	s.wakeAt.Blur()
	switch f {
	case fieldSleep:
		return s.sleepAt.Focus()
	case fieldWake:
		return s.wakeAt.Focus()
	}
	return nil
}

func (s *SleepScreen) save() tea.Cmd {
	rec, err := s.log.Save(s.ctx, sleep.Entry{
		SleepAt: s.sleepAt.Value(),
		WakeAt:  s.wakeAt.Value(),
		Quality: sleep.Qualities[s.quality],
	})
	if err != nil {
		s.errMsg = err.Error()
		s.saved = nil
		return nil
	}
	s.errMsg = ""
	s.saved = &rec
	return s.loadRecent()
}

func (s *SleepScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	label := func(f field, text string) string {
		if s.focus == f {
			return theme.Selected.Render("▸ " + text)
		}
		return theme.Unselected.Render("  " + text)
	}

	var qualities []string
	for i, q := range sleep.Qualities {
		if i == s.quality {
			qualities = append(qualities, lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Highlight).Render(" "+q.Label()+" "))
		} else {
			qualities = append(qualities, theme.Hint.Render(" "+q.Label()+" "))
		}
	}

	preview := theme.Hint.Render("enter times as HH:MM")
	if h, err := sleep.Hours(s.sleepAt.Value(), s.wakeAt.Value()); err == nil {
		preview = lipgloss.NewStyle().Foreground(theme.Calm).Bold(true).Render(fmt.Sprintf("%.2f hours", h))
	}

	form := []string{
		theme.Title.Render("How did you sleep last night?"),
		"",
		label(fieldSleep, "Fell asleep  ") + s.sleepAt.View(),
		label(fieldWake, "Woke up      ") + s.wakeAt.View(),
		label(fieldQuality, "Quality      ") + strings.Join(qualities, " "),
		"",
		preview,
	}

	switch {
	case s.errMsg != "":
		form = append(form, "", theme.Incorrect.Render(s.errMsg))
	case s.saved != nil:
		form = append(form, "", theme.Correct.Render(fmt.Sprintf(
			"Saved %.2f hours of %s sleep. +%d points!", s.saved.Hours, s.saved.Quality, sleep.AwardPoints)))
	}

	sections := []string{components.Card(strings.Join(form, "\n"), cw)}
	if len(s.recent) > 0 {
		sections = append(sections, s.recentView())
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (s *SleepScreen) recentView() string {
	lines := []string{theme.Subtitle.Render("Recent nights")}
	for _, r := range s.recent {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("%s  %s-%s  %5.2fh  %s",
			r.Date, r.SleepStart, r.SleepEnd, r.Hours, r.Quality)))
	}
	return strings.Join(lines, "\n")
}
