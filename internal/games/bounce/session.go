package bounce

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

// Journal records runs so they can be replayed. Implementations are best
// effort: the session logs their errors and keeps playing.
type Journal interface {
	StartRun(id string, seed int64, tickRate int) error
	RecordAction(id string, tick int) error
	FinishRun(id string, score, ticks int, ended bool) error
}

// Options configures a Session. Zero values are usable.
type Options struct {
	Presenter Presenter
	Journal   Journal
	Logger    *log.Logger
	// NewWorld builds the physics world for each run. Defaults to a
	// Chipmunk2D space.
	NewWorld func() physics.World
}

// Session drives consecutive runs from tick input. When a run has ended the
// next action replaces it with a brand-new one.
type Session struct {
	cfg      config.BounceConfig
	rt       core.RuntimeConfig
	opts     Options
	logger   *log.Logger
	dt       time.Duration
	run      *Run
	runs     int
	recorded bool // The current run has been finished in the journal
}

// NewSession validates cfg and builds the first run.
func NewSession(cfg config.BounceConfig, rt core.RuntimeConfig, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.NewWorld == nil {
		opts.NewWorld = func() physics.World { return physics.NewSpace() }
	}

	s := &Session{
		cfg:    cfg,
		rt:     rt,
		opts:   opts,
		logger: opts.Logger,
		dt:     rt.TickInterval(),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) build() error {
	seed := s.rt.Seed + int64(s.runs)
	run, err := NewRun(s.cfg, seed, s.opts.NewWorld(), s.opts.Presenter, s.logger)
	if err != nil {
		return err
	}
	s.run = run
	s.runs++
	s.recorded = false

	if s.opts.Journal != nil {
		if err := s.opts.Journal.StartRun(run.ID(), seed, s.rt.TickRate); err != nil {
			s.logger.Warn("journal: start run failed", "run", run.ID(), "error", err)
		}
	}
	return nil
}

// Step applies this tick's input and advances the current run one tick.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPrimary) {
		tick := s.run.Ticks()
		switch s.run.Action() {
		case ActionRestart:
			s.restart()
			return core.StepResult{State: s.State(), Restarted: true}
		case ActionStarted, ActionFlapped:
			s.record(tick)
		}
	}

	s.run.Step(s.dt)

	if s.run.State() == Ended && !s.recorded {
		s.finish(true)
	}
	return core.StepResult{State: s.State()}
}

func (s *Session) restart() {
	s.finish(false)
	s.logger.Info("restarting", "previous", s.run.ID(), "score", s.run.Score())

	s.opts.Presenter.Transition(config.Seconds(s.cfg.Restart.Transition))
	if err := s.build(); err != nil {
		// The config was validated when the session was created.
		s.logger.Error("rebuild failed", "error", err)
	}
}

func (s *Session) record(tick int) {
	if s.opts.Journal == nil {
		return
	}
	if err := s.opts.Journal.RecordAction(s.run.ID(), tick); err != nil {
		s.logger.Warn("journal: record action failed", "run", s.run.ID(), "error", err)
	}
}

func (s *Session) finish(ended bool) {
	if s.recorded {
		return
	}
	s.recorded = true
	if s.opts.Journal == nil {
		return
	}
	if err := s.opts.Journal.FinishRun(s.run.ID(), s.run.Score(), s.run.Ticks(), ended); err != nil {
		s.logger.Warn("journal: finish run failed", "run", s.run.ID(), "error", err)
	}
}

// State reports the current run as a platform GameState.
func (s *Session) State() core.GameState {
	return core.GameState{
		Score:    s.run.Score(),
		Started:  s.run.State() != Idle,
		GameOver: s.run.State() == Ended,
		Runs:     s.runs,
	}
}

// Run returns the current run.
func (s *Session) Run() *Run {
	return s.run
}

// Close records the current run as abandoned if it has not ended.
func (s *Session) Close() {
	s.finish(false)
}
