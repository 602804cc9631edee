package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/assistant"
	"github.com/neurotrack/neurotrack/internal/report"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

type loadedMsg struct {
	Data report.Data
	Err  error
}

type analyzedMsg struct {
	Analysis assistant.Analysis
}

// Deps are the collaborators of the report screen.
type Deps struct {
	Sources   report.Sources
	Options   report.Options
	Assistant *assistant.Service
	// ExportDir receives exported report files.
	ExportDir string
}

// ReportScreen shows the doctor report and can attach an AI summary.
type ReportScreen struct {
	ctx  context.Context
	deps Deps

	data      *report.Data
	errMsg    string
	status    string
	analyzing bool
	spin      spinner.Model
}

var (
	_ screen.Screen          = (*ReportScreen)(nil)
	_ screen.KeyHintProvider = (*ReportScreen)(nil)
)

// New creates the screen; the report is built in the background on Init.
func New(ctx context.Context, deps Deps) *ReportScreen {
	return &ReportScreen{
		ctx:  ctx,
		deps: deps,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Calm))),
	}
}

func (s *ReportScreen) Init() tea.Cmd {
	ctx, deps := s.ctx, s.deps
	return func() tea.Msg {
		data, err := report.Build(ctx, deps.Sources, deps.Options)
		return loadedMsg{Data: data, Err: err}
	}
}

func (s *ReportScreen) Title() string { return "Doctor Report" }

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "A", Description: "AI summary"},
		{Key: "J/Y", Description: "Export JSON/YAML"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.data = &msg.Data
		return s, nil

	case analyzedMsg:
		s.analyzing = false
		if s.data != nil {
			s.data.Analysis = &report.Analysis{
				Summary:        msg.Analysis.Summary,
				Recommendation: msg.Analysis.Recommendation,
				Fallback:       msg.Analysis.Fallback,
			}
		}
		return s, nil

	case spinner.TickMsg:
		if !s.analyzing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.data == nil {
			return s, nil
		}
		switch msg.String() {
		case "a":
			return s, s.analyze()
		case "j":
			s.export(report.FormatJSON)
		case "y":
			s.export(report.FormatYAML)
		}
	}
	return s, nil
}

func (s *ReportScreen) analyze() tea.Cmd {
	if s.analyzing || s.deps.Assistant == nil {
		return nil
	}
	s.analyzing = true
	ctx, svc, facts := s.ctx, s.deps.Assistant, s.data.Facts()
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		return analyzedMsg{Analysis: svc.AnalyzeReport(ctx, facts)}
	})
}

func (s *ReportScreen) export(f report.Format) {
	if err := os.MkdirAll(s.deps.ExportDir, 0o755); err != nil {
		s.status = "Export failed: " + err.Error()
		return
	}
	path := filepath.Join(s.deps.ExportDir, fmt.Sprintf("report-%s.%s", s.data.GeneratedAt.Format("20060102-150405"), f))
	file, err := os.Create(path)
	if err != nil {
		s.status = "Export failed: " + err.Error()
		return
	}
	defer file.Close()
	if err := s.data.Write(file, f); err != nil {
		s.status = "Export failed: " + err.Error()
		return
	}
	s.status = "Saved " + path
}

func (s *ReportScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}
	if s.data == nil {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Building report...")
	}
	d := s.data
	cw := components.ContentWidth(width)

	lines := []string{
		theme.Title.Render(fmt.Sprintf("Health report for %s", d.UserName)),
		theme.Subtitle.Render(d.GeneratedAt.Format("Jan 02, 2006")),
		"",
		trendLine("Memory", d.CognitiveTrend, "/5"),
		trendLine("Sleep", d.SleepTrend, "h"),
		trendLine("Activity", d.ScoreTrend, " pts"),
		theme.Body.Render(fmt.Sprintf("%-9s %d days with recordings", "Speech", len(d.SpeechTrend))),
		"",
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf(
			"Risk estimate  1y %d%%   3y %d%%   5y %d%%", d.Risk.Year1, d.Risk.Year3, d.Risk.Year5)),
	}

	switch {
	case s.analyzing:
		lines = append(lines, "", s.spin.View()+" "+theme.Hint.Render("asking the assistant..."))
	case d.Analysis != nil:
		lines = append(lines, "",
			lipgloss.NewStyle().Width(cw-8).Foreground(theme.Text).Render(d.Analysis.Summary),
			"",
			lipgloss.NewStyle().Width(cw-8).Foreground(theme.Secondary).Bold(true).Render(d.Analysis.Recommendation))
	}
	if s.status != "" {
		lines = append(lines, "", theme.Hint.Render(s.status))
	}

	return components.Frame(components.Card(strings.Join(lines, "\n"), cw), width, height)
}

func trendLine(label string, pts []report.Point, unit string) string {
	head := theme.Body.Render(fmt.Sprintf("%-9s ", label))
	if len(pts) == 0 {
		return head + theme.Hint.Render("no data yet")
	}
	last := pts[len(pts)-1].Value
	return head + lipgloss.NewStyle().Foreground(theme.Primary).Render(Sparkline(pts)) +
		theme.Hint.Render(fmt.Sprintf("  latest %g%s", last, unit))
}

// Sparkline maps values onto eight bar heights between their min and max.
func Sparkline(pts []report.Point) string {
	if len(pts) == 0 {
		return ""
	}
	lo, hi := pts[0].Value, pts[0].Value
	for _, p := range pts {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	out := make([]rune, len(pts))
	for i, p := range pts {
		idx := len(sparkRunes) - 1
		if hi > lo {
			idx = int((p.Value - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
