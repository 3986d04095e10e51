package config

import (
	_ "embed"
)

//go:embed defaults/bounce.yaml
var defaultBounceYAML []byte

// DefaultBounceConfig returns the default bounce configuration.
func DefaultBounceConfig() BounceConfig {
	return BounceConfig{
		Playfield: Playfield{
			Width:  480,
			Height: 320,
		},
		Physics: Physics{
			Gravity:     -600,
			FlapImpulse: 260,
		},
		Player: Player{
			Width:  32,
			Height: 32,
			Mass:   1,
			XRatio: 0.5,
			YRatio: 0.75,
		},
		Ground: Ground{
			Height: 70,
			Tiles:  2,
		},
		Obstacles: Obstacles{
			SpawnPeriod:    2,
			BodyWidth:      25,
			MinHeight:      25,
			MaxHeight:      60,
			MinOffset:      0.5,
			MaxOffset:      3.0,
			BodyY:          83,
			ZoneSize:       30,
			ZoneSpacing:    2,
			ScrollDuration: 6.2,
			ScrollMargin:   2,
		},
		Start: Start{
			Fade: 0.5,
			Hold: 0,
		},
		Restart: Restart{
			Transition: 1.0,
		},
		Audio: Audio{
			Enabled:      true,
			Music:        true,
			SampleRate:   44100,
			MasterVolume: 0.6,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBounceYAML
}
