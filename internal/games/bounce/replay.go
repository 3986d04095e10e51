package bounce

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

// ErrNoActions is returned when a replay has no input to apply. Such a run
// never left the start screen.
var ErrNoActions = errors.New("bounce: replay has no actions")

// ReplayInput is a recorded run.
type ReplayInput struct {
	Seed     int64
	TickRate int
	Actions  []int // Tick indices at which the primary action was applied
	MaxTicks int   // Stop after this many ticks; 0 means one minute past the last action
}

// ReplayResult is the outcome of a re-simulated run.
type ReplayResult struct {
	Score int
	Ticks int
	State RunState
}

// Replay re-simulates a recorded run headlessly on a fresh physics world.
// The simulation stops when the run ends or MaxTicks is reached.
func Replay(cfg config.BounceConfig, in ReplayInput, logger *log.Logger) (ReplayResult, error) {
	if len(in.Actions) == 0 {
		return ReplayResult{}, ErrNoActions
	}
	if err := cfg.Validate(); err != nil {
		return ReplayResult{}, fmt.Errorf("bounce: replay: %w", err)
	}

	actions := append([]int(nil), in.Actions...)
	sort.Ints(actions)

	rt := core.RuntimeConfig{TickRate: in.TickRate}
	dt := rt.TickInterval()
	maxTicks := in.MaxTicks
	if maxTicks <= 0 {
		maxTicks = actions[len(actions)-1] + 1 + int(time.Minute/dt)
	}

	run, err := NewRun(cfg, in.Seed, physics.NewSpace(), NopPresenter{}, logger)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("bounce: replay: %w", err)
	}

	next := 0
	for run.Ticks() < maxTicks && run.State() != Ended {
		for next < len(actions) && actions[next] <= run.Ticks() {
			if actions[next] == run.Ticks() {
				run.Action()
			}
			next++
		}
		run.Step(dt)
	}

	return ReplayResult{
		Score: run.Score(),
		Ticks: run.Ticks(),
		State: run.State(),
	}, nil
}
