// Package report assembles the home dashboard figures and the doctor
// report: daily trends over the stored history plus export to JSON or YAML.
package report

import (
	"time"

	"github.com/neurotrack/neurotrack/internal/progression"
)

// BubbleSlots is the size of the bubble collection grid.
const BubbleSlots = 35

// Greeting picks the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Bubbles is the number of filled slots for score: its share of the next
// level threshold, capped at BubbleSlots.
func Bubbles(score int) int {
	if score <= 0 {
		return 0
	}
	return min(BubbleSlots, score*BubbleSlots/progression.ThresholdFor(score))
}

// Dashboard is what the home screen shows.
type Dashboard struct {
	Greeting  string
	UserName  string
	Score     int
	Level     int
	Progress  float64
	Threshold int
	Bubbles   int
}

// NewDashboard derives the home figures for score at now.
func NewDashboard(userName string, score int, now time.Time) Dashboard {
	return Dashboard{
		Greeting:  Greeting(now),
		UserName:  userName,
		Score:     score,
		Level:     progression.LevelFor(score),
		Progress:  progression.ProgressFor(score),
		Threshold: progression.ThresholdFor(score),
		Bubbles:   Bubbles(score),
	}
}
