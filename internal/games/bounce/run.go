package bounce

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
	"github.com/vovakirdan/bounce/internal/sched"
)

// ActionResult describes what a primary action did.
type ActionResult int

const (
	ActionIgnored ActionResult = iota
	ActionStarted              // Idle: the start sequence began
	ActionFlapped              // Active: velocity reset and impulse applied
	ActionRestart              // Ended: the caller should build a new run
)

func (a ActionResult) String() string {
	switch a {
	case ActionIgnored:
		return "ignored"
	case ActionStarted:
		return "started"
	case ActionFlapped:
		return "flapped"
	case ActionRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Run is one lifecycle of the game, from the start overlay to the crash.
// A run is never reset; the session builds a new one instead.
type Run struct {
	id        string
	seed      int64
	cfg       config.BounceConfig
	world     physics.World
	reg       *Registry
	sched     *sched.Scheduler
	state     StateMachine
	score     Counter
	spawner   *Spawner
	presenter Presenter
	logger    *log.Logger

	player   EntityID
	starting bool
	ticks    int
}

// NewRun builds the scene for a fresh run on world: ground, player and
// overlays. The player is inert until the first action.
func NewRun(cfg config.BounceConfig, seed int64, world physics.World, presenter Presenter, logger *log.Logger) (*Run, error) {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if logger == nil {
		logger = discardLogger()
	}

	r := &Run{
		id:        uuid.NewString(),
		seed:      seed,
		cfg:       cfg,
		world:     world,
		reg:       NewRegistry(world),
		sched:     sched.New(),
		presenter: presenter,
		logger:    logger,
	}

	spawner, err := NewSpawner(cfg, r.reg, r.sched, seed, logger)
	if err != nil {
		return nil, err
	}
	r.spawner = spawner

	w, h := cfg.Playfield.Width, cfg.Playfield.Height
	world.SetGravity(core.V(0, cfg.Physics.Gravity))
	world.SetBounds(w, h, physics.CategoryPlayer)
	world.SetSpeed(1)
	world.SetContactListener(r)

	r.buildGround()
	r.buildPlayer()

	presenter.SetOverlay(assets.LogoOverlay, 1)
	presenter.SetOverlay(assets.GameOverOverlay, 0)
	presenter.ShowScore(0)
	presenter.PlayMusic(assets.Music)
	r.score.Subscribe(presenter.ShowScore)

	logger.Debug("run built", "run", r.id, "seed", seed)
	return r, nil
}

func (r *Run) buildGround() {
	g := r.cfg.Ground
	tiles := g.Tiles
	if tiles < 1 {
		tiles = 1
	}
	tileW := r.cfg.Playfield.Width / float64(tiles)
	for i := 0; i < tiles; i++ {
		r.reg.Spawn(TagGround, physics.BodyDef{
			Kind:     physics.Static,
			Position: core.V(tileW*(float64(i)+0.5), g.Height/2),
			Size:     core.V(tileW, g.Height),
			Category: physics.CategoryGround,
			Mask:     physics.CategoryPlayer,
		})
	}
}

func (r *Run) buildPlayer() {
	p := r.cfg.Player
	e := r.reg.Spawn(TagPlayer, physics.BodyDef{
		Kind:     physics.Inert,
		Position: core.V(r.cfg.Playfield.Width*p.XRatio, r.cfg.Playfield.Height*p.YRatio),
		Size:     core.V(p.Width, p.Height),
		Category: physics.CategoryPlayer,
		Mask:     physics.CategoryGround | physics.CategoryObstacle | physics.CategoryScoreZone | physics.CategoryBounds,
		Mass:     p.Mass,
	})
	r.player = e.ID
}

// Action applies the primary action. Its effect depends on the state.
func (r *Run) Action() ActionResult {
	switch r.state.State() {
	case Idle:
		if r.starting {
			return ActionIgnored
		}
		r.begin()
		return ActionStarted
	case Active:
		r.flap()
		return ActionFlapped
	case Ended:
		return ActionRestart
	}
	return ActionIgnored
}

// begin fades the logo out, then activates the run.
func (r *Run) begin() {
	r.starting = true
	hold := config.Seconds(r.cfg.Start.Hold)
	r.sched.Tween(config.Seconds(r.cfg.Start.Fade),
		func(p float64) {
			r.presenter.SetOverlay(assets.LogoOverlay, 1-p)
		},
		func() {
			r.sched.After(hold, r.activate)
		},
	)
}

func (r *Run) activate() {
	if !r.state.Transition(Active) {
		return
	}
	r.starting = false
	if e, ok := r.reg.Get(r.player); ok {
		r.world.SetKind(e.Body, physics.Dynamic)
	}
	r.spawner.Start()
	r.presenter.RemoveOverlay(assets.LogoOverlay)
	r.logger.Info("run started", "run", r.id)
}

func (r *Run) flap() {
	e, ok := r.reg.Get(r.player)
	if !ok {
		return
	}
	v := r.world.Velocity(e.Body)
	r.world.SetVelocity(e.Body, core.V(v.X, 0))
	r.world.ApplyImpulse(e.Body, core.V(0, r.cfg.Physics.FlapImpulse))
}

// end finishes the run after a terminal collision.
func (r *Run) end() {
	if !r.state.Transition(Ended) {
		return
	}
	var at core.Vec
	if e, ok := r.reg.Get(r.player); ok {
		at = r.world.Position(e.Body)
	}

	r.presenter.EmitEffect(assets.ExplosionEffect, at)
	r.presenter.PlaySound(assets.ExplosionSound)
	r.presenter.StopMusic()
	r.presenter.SetOverlay(assets.GameOverOverlay, 1)

	r.spawner.Stop()
	r.sched.Clear()
	r.world.SetSpeed(0)
	r.reg.Remove(r.player)

	r.logger.Info("run ended", "run", r.id, "score", r.score.Value(), "ticks", r.ticks)
}

// Step advances the run by dt: physics first, which may resolve contacts,
// then timed actions scaled by the world speed.
func (r *Run) Step(dt time.Duration) {
	r.ticks++
	r.world.Step(dt)
	r.reg.Sync()
	r.sched.Advance(time.Duration(float64(dt) * r.world.Speed()))
}

// ID returns the run's unique id.
func (r *Run) ID() string { return r.id }

// Seed returns the seed the spawner was built with.
func (r *Run) Seed() int64 { return r.seed }

// State returns the current run state.
func (r *Run) State() RunState { return r.state.State() }

// Score returns the current score.
func (r *Run) Score() int { return r.score.Value() }

// Ticks returns how many times Step has been called.
func (r *Run) Ticks() int { return r.ticks }

// Starting reports whether the start sequence is playing.
func (r *Run) Starting() bool { return r.starting }

// Speed returns the world's simulation speed.
func (r *Run) Speed() float64 { return r.world.Speed() }

// Entities returns a snapshot of the live entities ordered by id.
func (r *Run) Entities() []Entity { return r.reg.Snapshot() }

// Player returns the player entity while it is alive.
func (r *Run) Player() (Entity, bool) {
	e, ok := r.reg.Get(r.player)
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Playfield returns the world extent.
func (r *Run) Playfield() config.Playfield { return r.cfg.Playfield }

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
