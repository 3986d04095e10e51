// Package config provides YAML-based game configuration loading and
// validation for the bounce game.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRange is returned when a random range has its lower bound above
// its upper bound. It is a configuration defect and is fatal at startup.
var ErrInvalidRange = errors.New("config: invalid random range")

// ErrInvalidConfig is returned for non-positive sizes and durations.
var ErrInvalidConfig = errors.New("config: invalid value")

// BounceConfig contains all configuration for the bounce game.
// Durations are expressed in seconds of simulation time.
type BounceConfig struct {
	Playfield Playfield `yaml:"playfield"`
	Physics   Physics   `yaml:"physics"`
	Player    Player    `yaml:"player"`
	Ground    Ground    `yaml:"ground"`
	Obstacles Obstacles `yaml:"obstacles"`
	Start     Start     `yaml:"start"`
	Restart   Restart   `yaml:"restart"`
	Audio     Audio     `yaml:"audio"`
}

// Playfield defines the visible world extent in world units.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines world-level physics parameters.
type Physics struct {
	Gravity     float64 `yaml:"gravity"`      // Vertical acceleration (negative = down)
	FlapImpulse float64 `yaml:"flap_impulse"` // Upward impulse applied per tap
}

// Player defines the player body.
type Player struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
	XRatio float64 `yaml:"x_ratio"` // Spawn x as a fraction of playfield width
	YRatio float64 `yaml:"y_ratio"` // Spawn y as a fraction of playfield height
}

// Ground defines the static floor tiles.
type Ground struct {
	Height float64 `yaml:"height"`
	Tiles  int     `yaml:"tiles"`
}

// Obstacles defines obstacle pair spawning and scrolling.
type Obstacles struct {
	SpawnPeriod    float64 `yaml:"spawn_period"`
	BodyWidth      float64 `yaml:"body_width"`
	MinHeight      int     `yaml:"min_height"` // Inclusive
	MaxHeight      int     `yaml:"max_height"` // Inclusive
	MinOffset      float64 `yaml:"min_offset"` // Inclusive multiplier of body width
	MaxOffset      float64 `yaml:"max_offset"` // Exclusive multiplier of body width
	BodyY          float64 `yaml:"body_y"`
	ZoneSize       float64 `yaml:"zone_size"`
	ZoneSpacing    float64 `yaml:"zone_spacing"` // Zone sits this many zone widths behind the body
	ScrollDuration float64 `yaml:"scroll_duration"`
	ScrollMargin   float64 `yaml:"scroll_margin"` // Extra scroll distance in body widths
}

// Start defines the idle-to-active transition.
type Start struct {
	Fade float64 `yaml:"fade"` // Logo fade-out duration
	Hold float64 `yaml:"hold"` // Extra wait after the fade before activation
}

// Restart defines the scene transition played when a new run is built.
type Restart struct {
	Transition float64 `yaml:"transition"`
}

// Audio defines synthesized sound playback.
type Audio struct {
	Enabled      bool    `yaml:"enabled"`
	Music        bool    `yaml:"music"`
	SampleRate   int     `yaml:"sample_rate"`
	MasterVolume float64 `yaml:"master_volume"`
}

// Seconds converts a duration in seconds to a time.Duration, rounded to the
// nearest nanosecond so values like 6.2 land exactly.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Validate checks the configuration for defects that make the game unplayable.
func (c BounceConfig) Validate() error {
	o := c.Obstacles
	if o.MinHeight > o.MaxHeight {
		return fmt.Errorf("%w: obstacle height [%d, %d]", ErrInvalidRange, o.MinHeight, o.MaxHeight)
	}
	if o.MinOffset > o.MaxOffset {
		return fmt.Errorf("%w: obstacle offset [%g, %g)", ErrInvalidRange, o.MinOffset, o.MaxOffset)
	}
	if o.MinHeight <= 0 {
		return fmt.Errorf("%w: obstacles.min_height must be positive", ErrInvalidConfig)
	}

	positive := []struct {
		name string
		val  float64
	}{
		{"playfield.width", c.Playfield.Width},
		{"playfield.height", c.Playfield.Height},
		{"player.width", c.Player.Width},
		{"player.height", c.Player.Height},
		{"player.mass", c.Player.Mass},
		{"obstacles.spawn_period", o.SpawnPeriod},
		{"obstacles.body_width", o.BodyWidth},
		{"obstacles.zone_size", o.ZoneSize},
		{"obstacles.scroll_duration", o.ScrollDuration},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, p.val)
		}
	}

	if c.Start.Fade < 0 || c.Start.Hold < 0 || c.Restart.Transition < 0 {
		return fmt.Errorf("%w: start and restart durations must not be negative", ErrInvalidConfig)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	return nil
}
