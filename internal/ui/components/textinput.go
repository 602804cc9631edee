package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app styling and an optional
// character filter.
type TextInput struct {
	Model textinput.Model
	// Accept filters single-character key presses; nil accepts everything.
	Accept    func(r rune) bool
	submitted bool
	valid     bool
}

// DigitsOnly accepts decimal digits.
func DigitsOnly(r rune) bool { return r >= '0' && r <= '9' }

// ClockChars accepts the characters of an HH:MM time.
func ClockChars(r rune) bool { return DigitsOnly(r) || r == ':' }

// NewTextInput creates a new focused text input. charLimit 0 means
// unlimited.
func NewTextInput(placeholder string, charLimit int, accept func(rune) bool) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Accept: accept}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Accept != nil {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if r := []rune(kmsg.String()); len(r) == 1 && !t.Accept(r[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Reset clears the value and the submitted mark.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.submitted = false
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
