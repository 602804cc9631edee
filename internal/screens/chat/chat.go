package chat

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/assistant"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

type replyMsg struct {
	Reply assistant.Reply
	Err   error
}

// ChatScreen is the conversation with the health companion.
type ChatScreen struct {
	ctx        context.Context
	svc        *assistant.Service
	clock      sched.Scheduler
	transcript []assistant.Message
	input      components.TextInput
	spin       spinner.Model
	waiting    bool
}

var (
	_ screen.Screen          = (*ChatScreen)(nil)
	_ screen.KeyHintProvider = (*ChatScreen)(nil)
)

// New opens a conversation seeded with the assistant's greeting.
func New(ctx context.Context, svc *assistant.Service, clock sched.Scheduler) *ChatScreen {
	return &ChatScreen{
		ctx:        ctx,
		svc:        svc,
		clock:      clock,
		transcript: svc.InitialTranscript(clock.Now()),
		input:      components.NewTextInput("Type a message...", 500, nil),
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Calm))),
	}
}

func (s *ChatScreen) Init() tea.Cmd { return s.input.Init() }

func (s *ChatScreen) Title() string { return "Companion" }

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Send"}, {Key: "Esc", Description: "Back"}}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.waiting = false
		if msg.Err == nil {
			s.transcript = append(s.transcript, assistant.NewMessage(assistant.SenderModel, msg.Reply.Text, s.clock.Now()))
		}
		return s, nil

	case spinner.TickMsg:
		if !s.waiting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if s.waiting || text == "" {
		return nil
	}
	s.input.Reset()
	s.transcript = append(s.transcript, assistant.NewMessage(assistant.SenderUser, text, s.clock.Now()))
	s.waiting = true

	ctx, svc := s.ctx, s.svc
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		reply, err := svc.Reply(ctx, text)
		return replyMsg{Reply: reply, Err: err}
	})
}

func (s *ChatScreen) View(width, height int) string {
	cw := min(width-4, 90)
	bubbleWidth := cw * 3 / 4

	var rows []string
	for _, m := range s.transcript {
		rows = append(rows, renderMessage(m, cw, bubbleWidth), "")
	}
	if s.waiting {
		rows = append(rows, s.spin.View()+" "+theme.Hint.Render("thinking..."), "")
	}

	footer := []string{
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)),
		s.input.View(),
	}

	// Keep the newest lines that fit above the input.
	lines := strings.Split(strings.Join(rows, "\n"), "\n")
	if room := height - len(footer) - 1; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	content := strings.Join(append(lines, footer...), "\n")
	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 2).
		AlignVertical(lipgloss.Bottom).Render(content)
}

func renderMessage(m assistant.Message, cw, bubbleWidth int) string {
	switch m.Sender {
	case assistant.SenderUser:
		b := theme.UserBubble.Width(min(lipgloss.Width(m.Text)+2, bubbleWidth)).Render(m.Text)
		return lipgloss.PlaceHorizontal(cw, lipgloss.Right, b)
	case assistant.SenderSystem:
		return lipgloss.PlaceHorizontal(cw, lipgloss.Center, theme.SystemNote.Render(m.Text))
	default:
		return theme.ModelBubble.Width(min(lipgloss.Width(m.Text)+2, bubbleWidth)).Render(m.Text)
	}
}
