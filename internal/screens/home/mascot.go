package home

import (
	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // points were just awarded
	MascotAlert                     // medication still to take today
)

const mascotIdle = `  .-"""-.
 ( ◉   ◉ )
  \  ◡  /
   '---'`

const mascotCelebrating = `  .-"""-.  ✦
 ( ★   ★ )
  \  ▽  /
   '---'  ✦`

const mascotAlert = `  .-"""-.
 ( ◉   ◉ ) !
  \  ○  /
   '---'`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Calm
	switch variant {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Highlight
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
