package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/neurotrack/neurotrack/internal/report"
	"github.com/neurotrack/neurotrack/internal/screens/welcome"
	"github.com/neurotrack/neurotrack/internal/ui/components"
	"github.com/neurotrack/neurotrack/internal/ui/theme"
)

const (
	buttonWidth   = 22
	bubblesPerRow = 7
)

func renderTitle(cw int, compact bool) string {
	w := cw
	if compact {
		w = 0
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(w))
}

// renderDashboard shows the greeting, level progress and bubble grid.
func renderDashboard(d report.Dashboard, medsLeft, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	pointStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	lines := []string{
		theme.Title.Render(fmt.Sprintf("%s, %s", d.Greeting, d.UserName)),
		levelStyle.Render(fmt.Sprintf("Level %d", d.Level)) + "  " +
			pointStyle.Render(fmt.Sprintf("%d pts", d.Score)) +
			theme.Hint.Render(fmt.Sprintf("  next level at %d", d.Threshold)),
		components.NewProgressBar("", d.Progress/100, true, cw-8).View(),
	}
	if !compact {
		lines = append(lines, "", components.BubbleRow(d.Bubbles, report.BubbleSlots, bubblesPerRow))
	}

	switch {
	case medsLeft == 1:
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Accent).Render("1 medication left to take today"))
	case medsLeft > 1:
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d medications left to take today", medsLeft)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Calm).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderMenu(menu components.Menu, cw int, buttons bool) string {
	block := menu.View()
	if buttons {
		block = menu.ButtonView(buttonWidth)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderAssistantBanner warns that the assistant runs on canned replies.
func renderAssistantBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM API key: the assistant will use offline replies")
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderUpdateNote(latestVersion string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("New version %s available (neurotrack update)", latestVersion))
}
