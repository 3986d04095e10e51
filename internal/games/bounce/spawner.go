package bounce

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
	"github.com/vovakirdan/bounce/internal/sched"
)

// ErrInvalidRandomRange is returned when a spawner range has its lower bound
// above its upper bound. It is the sentinel config validation uses.
var ErrInvalidRandomRange = config.ErrInvalidRange

// ObstaclePair records one spawn cycle.
type ObstaclePair struct {
	ID        uint64
	Body      EntityID
	Zone      EntityID
	Height    int
	Offset    float64 // Multiplier of the body width past the right edge
	SpawnedAt time.Duration
}

// Spawner creates obstacle pairs on a fixed period and scrolls them across
// the playfield. Each half removes itself once its scroll completes.
type Spawner struct {
	cfg       config.Obstacles
	playfield config.Playfield
	reg       *Registry
	sched     *sched.Scheduler
	rng       *rand.Rand
	logger    *log.Logger

	handle  sched.Handle
	running bool
	pairs   uint64
}

// NewSpawner validates the obstacle ranges and returns a stopped spawner.
func NewSpawner(cfg config.BounceConfig, reg *Registry, sc *sched.Scheduler, seed int64, logger *log.Logger) (*Spawner, error) {
	o := cfg.Obstacles
	if o.MinHeight > o.MaxHeight {
		return nil, fmt.Errorf("%w: height [%d, %d]", ErrInvalidRandomRange, o.MinHeight, o.MaxHeight)
	}
	if o.MinOffset > o.MaxOffset {
		return nil, fmt.Errorf("%w: offset [%g, %g)", ErrInvalidRandomRange, o.MinOffset, o.MaxOffset)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Spawner{
		cfg:       o,
		playfield: cfg.Playfield,
		reg:       reg,
		sched:     sc,
		rng:       rand.New(rand.NewSource(seed)),
		logger:    logger,
	}, nil
}

// Start spawns a pair immediately and then once every period.
func (s *Spawner) Start() {
	if s.running {
		return
	}
	s.running = true
	s.SpawnPair()
	s.handle = s.sched.Every(config.Seconds(s.cfg.SpawnPeriod), func() {
		s.SpawnPair()
	})
}

// Stop cancels future spawns. Pairs already on screen keep scrolling until
// their scheduler is cleared.
func (s *Spawner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.sched.Cancel(s.handle)
}

// Running reports whether the spawner is started.
func (s *Spawner) Running() bool {
	return s.running
}

// Spawned returns how many pairs have been created.
func (s *Spawner) Spawned() uint64 {
	return s.pairs
}

// SpawnPair runs one spawn cycle.
func (s *Spawner) SpawnPair() ObstaclePair {
	o := s.cfg
	height := o.MinHeight + s.rng.Intn(o.MaxHeight-o.MinHeight+1)
	r := o.MinOffset + s.rng.Float64()*(o.MaxOffset-o.MinOffset)
	x := s.playfield.Width + o.BodyWidth*r

	body := s.reg.Spawn(TagObstacleBody, physics.BodyDef{
		Kind:     physics.Inert,
		Position: core.V(x, o.BodyY),
		Size:     core.V(o.BodyWidth, float64(height)),
		Category: physics.CategoryObstacle,
		Mask:     physics.CategoryPlayer,
	})
	zone := s.reg.Spawn(TagScoreZone, physics.BodyDef{
		Kind:     physics.Inert,
		Position: core.V(x+o.ZoneSize*o.ZoneSpacing, s.playfield.Height/2),
		Size:     core.V(o.ZoneSize, o.ZoneSize),
		Category: physics.CategoryScoreZone,
		Mask:     physics.CategoryPlayer,
		Sensor:   true,
	})

	s.pairs++
	body.Pair = s.pairs
	zone.Pair = s.pairs

	distance := s.playfield.Width + o.BodyWidth*o.ScrollMargin
	s.scroll(body, distance)
	s.scroll(zone, distance)

	pair := ObstaclePair{
		ID:        s.pairs,
		Body:      body.ID,
		Zone:      zone.ID,
		Height:    height,
		Offset:    r,
		SpawnedAt: s.sched.Now(),
	}
	s.logger.Debug("obstacle pair spawned", "pair", pair.ID, "height", height, "offset", r, "at", pair.SpawnedAt)
	return pair
}

// scroll moves e left by distance over the scroll duration, then removes it.
func (s *Spawner) scroll(e *Entity, distance float64) {
	id, from := e.ID, e.Pos
	s.sched.Tween(config.Seconds(s.cfg.ScrollDuration),
		func(p float64) {
			s.reg.Move(id, core.V(from.X-distance*p, from.Y))
		},
		func() {
			s.reg.Remove(id)
		},
	)
}
