// Package bounce implements the Bounce game core: a player body falls under
// gravity and is nudged upward by taps while obstacle pairs scroll past.
// Touching an obstacle ends the run; passing through a score zone counts.
//
// All mutation happens on the tick path. Timed behaviour (logo fade,
// spawning, scrolling) lives in a per-run scheduler so that ending or
// replacing a run drops every pending continuation at once.
package bounce

import (
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

// Tag classifies an entity for contact resolution.
type Tag int

const (
	TagPlayer Tag = iota
	TagGround
	TagObstacleBody
	TagScoreZone
)

// String returns a human-readable name for the tag.
func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "player"
	case TagGround:
		return "ground"
	case TagObstacleBody:
		return "obstacle-body"
	case TagScoreZone:
		return "obstacle-scoreZone"
	default:
		return "unknown"
	}
}

// EntityID identifies an entity within one registry.
type EntityID uint64

// Entity is a live game object backed by a physics body.
type Entity struct {
	ID   EntityID
	Tag  Tag
	Pos  core.Vec // Center, world coordinates
	Size core.Vec
	Body physics.BodyID
	Pair uint64 // Spawn transaction shared by an obstacle body and its zone; 0 otherwise
}

// Box returns the entity's bounding box.
func (e Entity) Box() core.Box {
	return core.Box{Center: e.Pos, Size: e.Size}
}
