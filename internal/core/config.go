package core

import "time"

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickInterval returns the fixed simulation timestep for the configured tick rate.
// Non-positive tick rates fall back to 60 ticks per second.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// GameState represents the current state of the game.
// Returned by State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Started  bool // Whether the current run has left the idle screen
	GameOver bool // Whether the current run has ended
	Runs     int  // Number of runs built in this session, including the current one
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State     GameState
	Restarted bool // A fresh run replaced the ended one during this tick
}
