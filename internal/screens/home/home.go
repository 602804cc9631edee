package home

import (
	"context"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/assessment"
	"github.com/neurotrack/neurotrack/internal/assistant"
	"github.com/neurotrack/neurotrack/internal/config"
	"github.com/neurotrack/neurotrack/internal/medication"
	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/report"
	"github.com/neurotrack/neurotrack/internal/router"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/screens/chat"
	"github.com/neurotrack/neurotrack/internal/screens/checkup"
	"github.com/neurotrack/neurotrack/internal/screens/doctor"
	"github.com/neurotrack/neurotrack/internal/screens/history"
	"github.com/neurotrack/neurotrack/internal/screens/medlist"
	"github.com/neurotrack/neurotrack/internal/screens/memory"
	"github.com/neurotrack/neurotrack/internal/screens/readaloud"
	"github.com/neurotrack/neurotrack/internal/screens/sleeplog"
	"github.com/neurotrack/neurotrack/internal/sleep"
	"github.com/neurotrack/neurotrack/internal/speech"
	"github.com/neurotrack/neurotrack/internal/store"
	"github.com/neurotrack/neurotrack/internal/trial"
	"github.com/neurotrack/neurotrack/internal/ui/components"
)

// UpdateAvailableMsg tells the home screen a newer release exists.
type UpdateAvailableMsg struct {
	Version string
}

// Deps are the services the home screen hands to the task screens.
type Deps struct {
	Ctx       context.Context
	Store     *store.Store
	Tracker   *progression.Tracker
	Clock     sched.Scheduler
	Assistant *assistant.Service
	Checklist *medication.Checklist
	Settings  config.Settings
	Logger    *zap.Logger

	// AssistantOnline is false when no LLM provider could be configured.
	AssistantOnline bool
	ClipDir         string
	ExportDir       string
	// Rand seeds memory trials; nil uses a random source.
	Rand *rand.Rand
}

// HomeScreen is the dashboard and main menu.
type HomeScreen struct {
	deps          Deps
	menu          components.Menu
	latestVersion string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "MEMORY TEST", Action: push(h.memoryScreen)},
		{Label: "SLEEP LOG", Action: push(h.sleepScreen)},
		{Label: "MEDICATION", Action: push(h.medScreen)},
		{Label: "READ ALOUD", Action: push(h.speechScreen)},
		{Label: "MONTHLY CHECKUP", Action: push(h.checkupScreen)},
		{Label: "ASK ASSISTANT", Action: push(h.chatScreen)},
		{Label: "DOCTOR REPORT", Action: push(h.reportScreen)},
		{Label: "HISTORY", Action: push(h.historyScreen)},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) memoryScreen() screen.Screen {
	d := h.deps
	return memory.New(trial.NewRunner(d.Ctx, trial.Config{
		Clock:   d.Clock,
		Sink:    trial.NewStoreSink(d.Store.TrialRepo()),
		Awarder: d.Tracker,
		Logger:  d.Logger.Named("trial"),
		Rand:    d.Rand,
	}))
}

func (h *HomeScreen) sleepScreen() screen.Screen {
	d := h.deps
	return sleeplog.New(d.Ctx, sleep.NewLog(d.Store.TaskRepo(), d.Clock, d.Tracker, d.Logger.Named("sleep")))
}

func (h *HomeScreen) medScreen() screen.Screen {
	return medlist.New(h.deps.Ctx, h.deps.Checklist)
}

func (h *HomeScreen) speechScreen() screen.Screen {
	d := h.deps
	return readaloud.New(speech.NewRecorder(d.Ctx, speech.Config{
		Script:     d.Settings.SpeechScript,
		MaxSeconds: d.Settings.SpeechMaxSeconds,
		Dir:        d.ClipDir,
		Clock:      d.Clock,
		Repo:       d.Store.TaskRepo(),
		Awarder:    d.Tracker,
		Logger:     d.Logger.Named("speech"),
	}))
}

func (h *HomeScreen) checkupScreen() screen.Screen {
	d := h.deps
	return checkup.New(d.Ctx, assessment.NewSession(d.Store.TaskRepo(), d.Clock, d.Tracker, d.Logger.Named("assessment")))
}

func (h *HomeScreen) chatScreen() screen.Screen {
	return chat.New(h.deps.Ctx, h.deps.Assistant, h.deps.Clock)
}

func (h *HomeScreen) reportScreen() screen.Screen {
	d := h.deps
	return doctor.New(d.Ctx, doctor.Deps{
		Sources: report.Sources{
			Trials: d.Store.TrialRepo(),
			Awards: d.Store.AwardRepo(),
			Tasks:  d.Store.TaskRepo(),
		},
		Options: report.Options{
			UserName: d.Settings.UserName,
			Score:    d.Tracker.Score(),
			Now:      d.Clock.Now(),
			Days:     report.DefaultDays,
		},
		Assistant: d.Assistant,
		ExportDir: d.ExportDir,
	})
}

func (h *HomeScreen) historyScreen() screen.Screen {
	return history.New(h.deps.Ctx, h.deps.Store.TrialRepo(), h.deps.Store.AwardRepo())
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Checklist != nil {
		if err := h.deps.Checklist.Load(h.deps.Ctx); err != nil {
			h.deps.Logger.Warn("load medication checklist", zap.Error(err))
		}
	}
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(UpdateAvailableMsg); ok {
		h.latestVersion = msg.Version
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) medsLeft() int {
	if h.deps.Checklist == nil {
		return 0
	}
	return h.deps.Checklist.Remaining()
}

func (h *HomeScreen) mascot() MascotVariant {
	switch {
	case h.deps.Tracker.Notification().Visible:
		return MascotCelebrating
	case h.medsLeft() > 0:
		return MascotAlert
	}
	return MascotIdle
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and gaps
	termHeight := height + 8
	compact := termHeight < 40 || width < 100
	cw := components.ContentWidth(width)

	dash := report.NewDashboard(h.deps.Settings.UserName, h.deps.Tracker.Score(), h.deps.Clock.Now())

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}
	sections = append(sections, renderDashboard(dash, h.medsLeft(), cw, compact))
	if !h.deps.AssistantOnline {
		sections = append(sections, renderAssistantBanner(cw))
	}
	sections = append(sections, renderMenu(h.menu, cw, termHeight >= 64))
	if h.latestVersion != "" {
		sections = append(sections, renderUpdateNote(h.latestVersion, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
