package medlist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/medication"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// MedScreen is today's medication checklist.
type MedScreen struct {
	ctx       context.Context
	checklist *medication.Checklist
	selected  int
	status    string
	errMsg    string
}

var (
	_ screen.Screen          = (*MedScreen)(nil)
	_ screen.KeyHintProvider = (*MedScreen)(nil)
)

// New creates the screen. The checklist is loaded in Init.
func New(ctx context.Context, checklist *medication.Checklist) *MedScreen {
	return &MedScreen{ctx: ctx, checklist: checklist}
}

func (s *MedScreen) Init() tea.Cmd {
	if err := s.checklist.Load(s.ctx); err != nil {
		s.errMsg = err.Error()
	}
	return nil
}

func (s *MedScreen) Title() string { return "Medication" }

func (s *MedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Mark taken"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	drugs := s.rows()

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(drugs)-1 {
			s.selected++
		}
	case "enter", "space", " ":
		if s.selected >= len(drugs) {
			return s, nil
		}
		d := drugs[s.selected]
		first, err := s.checklist.MarkTaken(s.ctx, d.ID)
		switch {
		case err != nil:
			s.errMsg = err.Error()
		case first:
			s.errMsg = ""
			s.status = fmt.Sprintf("%s taken. +%d points!", d.Name, medication.AwardPoints)
		default:
			s.status = fmt.Sprintf("%s is already marked for today.", d.Name)
		}
	}
	return s, nil
}

func (s *MedScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	groups := make(map[medication.Period]medication.Group)
	for _, g := range s.checklist.Groups() {
		groups[g.Period] = g
	}

	var lines []string
	idx := 0
	for _, p := range medication.Periods {
		g, ok := groups[p]
		header := theme.Subtitle.Render(p.Label())
		if ok && g.Complete {
			header += " " + theme.Correct.Render("✓ done")
		}
		lines = append(lines, header)

		if !ok {
			lines = append(lines, theme.Hint.Render("    nothing scheduled"), "")
			continue
		}
		for _, d := range g.Drugs {
			lines = append(lines, s.drugLine(d, idx == s.selected))
			idx++
		}
		lines = append(lines, "")
	}

	remaining := s.checklist.Remaining()
	summary := theme.Correct.Render("All done for today!")
	if remaining > 0 {
		summary = lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d left to take today", remaining))
	}
	lines = append(lines, summary)

	if s.errMsg != "" {
		lines = append(lines, "", theme.Incorrect.Render(s.errMsg))
	} else if s.status != "" {
		lines = append(lines, "", theme.Body.Render(s.status))
	}

	return components.Frame(components.Card(strings.Join(lines, "\n"), cw), width, height)
}

// rows lists the drugs in display order.
func (s *MedScreen) rows() []medication.Drug {
	var out []medication.Drug
	for _, g := range s.checklist.Groups() {
		out = append(out, g.Drugs...)
	}
	return out
}

func (s *MedScreen) drugLine(d medication.Drug, selected bool) string {
	box := "[ ]"
	if d.Taken {
		box = "[x]"
	}
	text := fmt.Sprintf("%s %s  %s", box, d.Name, d.Dosage)
	prefix := "  "
	if selected {
		prefix = "▸ "
	}
	switch {
	case d.Taken:
		return prefix + theme.Done.Render(text)
	case selected:
		return theme.Selected.Render(prefix + text)
	default:
		return theme.Unselected.Render(prefix + text)
	}
}
