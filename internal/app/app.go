package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/assistant"
	"github.com/neurotrack/neurotrack/internal/config"
	"github.com/neurotrack/neurotrack/internal/medication"
	"github.com/neurotrack/neurotrack/internal/progression"
	"github.com/neurotrack/neurotrack/internal/report"
	"github.com/neurotrack/neurotrack/internal/router"
	"github.com/neurotrack/neurotrack/internal/sched"
	"github.com/neurotrack/neurotrack/internal/screen"
	"github.com/neurotrack/neurotrack/internal/screens/home"
	"github.com/neurotrack/neurotrack/internal/screens/welcome"
	"github.com/neurotrack/neurotrack/internal/store"
	"github.com/neurotrack/neurotrack/internal/ui/layout"
)

// Options configures the interactive application.
type Options struct {
	Store     *store.Store
	Settings  config.Settings
	Logger    *zap.Logger
	Assistant *assistant.Service
	// AssistantOnline is false when the assistant runs without a provider.
	AssistantOnline bool
	// DataDir holds recordings and exported reports.
	DataDir string
	// CheckUpdate returns a newer release version, or "" when up to date.
	CheckUpdate func(ctx context.Context) (string, error)
	// Rand seeds memory trials; nil uses a random source.
	Rand *rand.Rand
}

// runMsg carries a scheduler callback onto the UI goroutine.
type runMsg struct{ fn func() }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx     context.Context
	router  *router.Router
	tracker *progression.Tracker
	home    *home.HomeScreen
	opts    Options
	width   int
	height  int
}

// newAppModel wires the tracker and screens onto clock. The first screen is
// the welcome splash, which hands over to home.
func newAppModel(ctx context.Context, opts Options, clock sched.Scheduler) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	tracker := progression.Load(ctx, progression.Config{
		KV:           opts.Store.KVRepo(),
		Clock:        clock,
		Recorder:     progression.NewStoreRecorder(opts.Store.AwardRepo()),
		Logger:       logger.Named("progression"),
		DefaultScore: opts.Settings.DefaultScore,
	})
	tracker.Subscribe(func(e progression.RewardEvent) {
		logger.Debug("reward", zap.String("source", e.Source), zap.Int("points", e.Points))
	})

	checklist := medication.NewChecklist(
		Drugs(opts.Settings.Medications, logger),
		opts.Store.TaskRepo(), clock, tracker, logger.Named("medication"))

	homeScreen := home.New(home.Deps{
		Ctx:             ctx,
		Store:           opts.Store,
		Tracker:         tracker,
		Clock:           clock,
		Assistant:       opts.Assistant,
		Checklist:       checklist,
		Settings:        opts.Settings,
		Logger:          logger,
		AssistantOnline: opts.AssistantOnline,
		ClipDir:         filepath.Join(opts.DataDir, "recordings"),
		ExportDir:       filepath.Join(opts.DataDir, "reports"),
		Rand:            opts.Rand,
	})

	greeting := fmt.Sprintf("%s, %s", report.Greeting(clock.Now()), opts.Settings.UserName)
	splash := welcome.New(greeting, func() screen.Screen { return homeScreen })

	return AppModel{
		ctx:     ctx,
		router:  router.New(splash),
		tracker: tracker,
		home:    homeScreen,
		opts:    opts,
	}
}

// Drugs converts configured medications. Entries with an unknown period are
// skipped; an empty result falls back to the default list.
func Drugs(cfgs []config.MedicationConfig, logger *zap.Logger) []medication.Drug {
	var drugs []medication.Drug
	for _, c := range cfgs {
		p, err := medication.ParsePeriod(c.Period)
		if err != nil || c.Name == "" {
			logger.Warn("skipping medication entry", zap.String("name", c.Name), zap.String("period", c.Period))
			continue
		}
		drugs = append(drugs, medication.NewDrug(c.Name, c.Dosage, p))
	}
	if len(drugs) == 0 {
		return medication.DefaultDrugs()
	}
	return drugs
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if check := m.opts.CheckUpdate; check != nil {
		ctx := m.ctx
		cmds = append(cmds, func() tea.Msg {
			latest, err := check(ctx)
			if err != nil || latest == "" {
				return nil
			}
			return home.UpdateAvailableMsg{Version: latest}
		})
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case runMsg:
		msg.fn()
		return m, nil

	case home.UpdateAvailableMsg:
		m.home.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame: header, active screen, toast and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, layout.HeaderStats{
		Score: m.tracker.Score(),
		Level: m.tracker.Level(),
	}, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)
	if n := m.tracker.Notification(); n.Visible {
		footer = layout.RenderToast(fmt.Sprintf("+%d points!", n.Points), m.width) + "\n" + footer
	}

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// shutdown releases screen timers and the notification timer.
func (m AppModel) shutdown() {
	m.router.DisposeAll()
	m.tracker.Close()
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	loop := sched.NewLoop(nil)
	model := newAppModel(ctx, opts, loop)
	defer model.shutdown()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	loop.SetPoster(func(fn func()) { p.Send(runMsg{fn: fn}) })

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
