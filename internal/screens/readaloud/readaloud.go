// Package readaloud is the speech task screen: read the script aloud while
// the countdown runs, then upload the clip.
package readaloud

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/speech"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// SpeechScreen drives a speech.Recorder.
type SpeechScreen struct {
	rec      *speech.Recorder
	spin     spinner.Model
	spinning bool
	errMsg   string
}

var (
	_ screen.Screen          = (*SpeechScreen)(nil)
	_ screen.KeyHintProvider = (*SpeechScreen)(nil)
	_ screen.Disposer        = (*SpeechScreen)(nil)
)

// New creates the screen around rec, which it disposes when popped.
func New(rec *speech.Recorder) *SpeechScreen {
	return &SpeechScreen{
		rec:  rec,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
}

func (s *SpeechScreen) Init() tea.Cmd { return nil }

func (s *SpeechScreen) Title() string { return "Read Aloud" }

func (s *SpeechScreen) Dispose() { s.rec.Dispose() }

func (s *SpeechScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	switch s.rec.Status() {
	case speech.Idle:
		return []layout.KeyHint{{Key: "Enter", Description: "Start recording"}, back}
	case speech.Recording:
		return []layout.KeyHint{{Key: "Enter", Description: "Stop"}, back}
	case speech.Recorded:
		return []layout.KeyHint{{Key: "U", Description: "Upload"}, {Key: "R", Description: "Record again"}, {Key: "D", Description: "Discard"}, back}
	default:
		return []layout.KeyHint{back}
	}
}

func (s *SpeechScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.rec.Status() != speech.Uploading {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch s.rec.Status() {
		case speech.Idle:
			if k := msg.String(); k == "enter" || k == "space" || k == " " {
				s.errMsg = ""
				s.rec.Start()
			}
		case speech.Recording:
			if k := msg.String(); k == "enter" || k == "space" || k == " " {
				s.rec.Stop()
			}
		case speech.Recorded:
			switch msg.String() {
			case "u", "enter":
				return s, s.upload()
			case "r":
				s.rec.Start()
			case "d":
				s.rec.Discard()
			}
		}
	}
	return s, nil
}

func (s *SpeechScreen) upload() tea.Cmd {
	ok, err := s.rec.Upload()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if !ok || s.spinning {
		return nil
	}
	s.spinning = true
	return s.spin.Tick
}

func (s *SpeechScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	script := lipgloss.NewStyle().
		Width(cw-8).
		Foreground(theme.Text).
		Italic(true).
		Render("“" + s.rec.Script() + "”")

	var status string
	switch s.rec.Status() {
	case speech.Idle:
		status = theme.Hint.Render("Press Enter and read the sentence above aloud.")
		if last := s.rec.LastUpload(); last != nil {
			status = theme.Correct.Render(fmt.Sprintf("Uploaded a %ds recording. +%d points!", last.Duration, speech.AwardPoints)) +
				"\n" + status
		}
	case speech.Recording:
		left := float64(s.rec.TimeLeft()) / float64(s.rec.MaxSeconds())
		status = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("● REC ") +
			theme.Body.Render(speech.FormatCountdown(s.rec.TimeLeft())) + "\n\n" +
			components.NewProgressBar("", left, false, cw-8).View()
	case speech.Recorded:
		status = theme.Body.Render(fmt.Sprintf("Recorded %s. Upload it?", speech.FormatCountdown(s.rec.Duration())))
	case speech.Uploading:
		status = s.spin.View() + " " + theme.Body.Render("Uploading...")
	}

	lines := []string{
		theme.Title.Render("Please read this sentence aloud"),
		"",
		script,
		"",
		status,
	}
	if s.errMsg != "" {
		lines = append(lines, "", theme.Incorrect.Render(s.errMsg))
	}
	return components.Frame(components.Card(strings.Join(lines, "\n"), cw), width, height)
}
