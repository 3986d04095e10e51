package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/games/bounce"
)

// GameOptions configures NewGame. Zero values are usable.
type GameOptions struct {
	Sounds  Sounds
	Journal bounce.Journal
	Logger  *log.Logger
}

// Model is the Bubble Tea model for a Bounce session.
type Model struct {
	session  *bounce.Session
	stage    *Stage
	screen   *core.Screen
	config   core.RuntimeConfig
	input    core.InputFrame
	keys     KeyMap
	help     help.Model
	logger   *log.Logger
	quitting bool
}

// NewGame builds a session presented on a fresh stage and wraps it in a
// model. It fails only if cfg does not validate.
func NewGame(cfg config.BounceConfig, rt core.RuntimeConfig, opts GameOptions) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	stage := NewStage(opts.Sounds)
	session, err := bounce.NewSession(cfg, rt, bounce.Options{
		Presenter: stage,
		Journal:   opts.Journal,
		Logger:    opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}
	return NewModel(session, stage, rt, opts.Logger), nil
}

// NewModel wraps an existing session. stage must be the session's presenter.
func NewModel(session *bounce.Session, stage *Stage, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Model{
		session: session,
		stage:   stage,
		screen:  core.NewScreen(cfg.ScreenW, playRows(cfg.ScreenH)),
		config:  cfg,
		input:   core.NewInputFrame(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		logger:  logger,
	}
}

// playRows leaves the last terminal row for the help footer.
func playRows(h int) int {
	return core.Max(h-1, 1)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleAction(m.keys.MapKey(msg))

	case tea.MouseMsg:
		return m.handleAction(m.keys.MapMouse(msg))

	case tea.WindowSizeMsg:
		// World coordinates do not depend on the terminal, so a resize only
		// changes the grid the run is drawn on.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleAction(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.session.Close()
		m.logger.Info("quit", "runs", m.session.State().Runs, "score", m.session.State().Score)
		return m, tea.Quit
	case core.ActionPrimary:
		m.input.Set(action)
	}
	return m, nil
}

// handleTick advances the session one fixed step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	res := m.session.Step(m.input)
	if res.Restarted {
		m.logger.Debug("new run", "run", m.session.Run().ID(), "runs", res.State.Runs)
	}
	m.stage.Advance(m.config.TickInterval())
	m.input.Clear()
	return m, tickCmd(m.config.TickInterval())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	view := DrawRun(m.screen, m.session.Run())
	frame := m.stage.Compose(m.screen, view)
	return RenderScreen(frame) + "\n" + m.help.View(m.keys)
}

// Session returns the session driven by the model.
func (m Model) Session() *bounce.Session { return m.session }

// Stage returns the model's presenter.
func (m Model) Stage() *Stage { return m.stage }

// Run starts the Bubble Tea program with the given model and blocks until
// the player quits.
func Run(model Model) error {
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	model.session.Close()
	return err
}
