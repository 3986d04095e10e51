// Package physics defines the rigid-body world the bounce core drives and a
// Chipmunk2D implementation of it.
//
// World coordinates are y-up: gravity is negative and the ground sits at y=0.
package physics

import (
	"time"

	"github.com/vovakirdan/bounce/internal/core"
)

// BodyID identifies a body inside one World. The zero BodyID is never issued.
type BodyID uint64

// BodyKind selects how a body takes part in the simulation.
type BodyKind int

const (
	// Inert bodies are moved only by the game. Gravity and contacts do not
	// affect them, but they still report contacts with dynamic bodies.
	Inert BodyKind = iota
	// Dynamic bodies are integrated: gravity, impulses and collisions apply.
	Dynamic
	// Static bodies never move on their own and are cheapest to collide with.
	Static
)

// String returns a lowercase name for the kind.
func (k BodyKind) String() string {
	switch k {
	case Inert:
		return "inert"
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Category is a collision category bitmask.
type Category uint

const (
	CategoryPlayer Category = 1 << iota
	CategoryGround
	CategoryObstacle
	CategoryScoreZone
	CategoryBounds
)

// BodyDef describes a body to create. Bodies are axis-aligned boxes centered
// on Position.
type BodyDef struct {
	Kind     BodyKind
	Position core.Vec
	Size     core.Vec
	Category Category
	Mask     Category // Categories this body collides with; 0 means none
	Sensor   bool     // Reports contacts without a physical response
	Mass     float64  // Used once the body is dynamic; defaults to 1
}

// ContactListener receives contact events. Both ids refer to bodies that
// were alive when the contact began; a listener may remove either.
type ContactListener interface {
	BeginContact(a, b BodyID)
}

// ContactFunc adapts a function to ContactListener.
type ContactFunc func(a, b BodyID)

// BeginContact calls f(a, b).
func (f ContactFunc) BeginContact(a, b BodyID) {
	f(a, b)
}

// World is the physics collaborator of the bounce core.
//
// Methods that take a BodyID ignore ids that are unknown or already removed.
// Contacts detected during Step are delivered to the listener after the
// simulation step completes, in detection order.
type World interface {
	SetGravity(g core.Vec)
	Gravity() core.Vec
	// SetBounds encloses the rectangle [0,w]x[0,h] with static walls that
	// collide with mask but never report contacts.
	SetBounds(w, h float64, mask Category)

	CreateBody(def BodyDef) BodyID
	RemoveBody(id BodyID)
	Bodies() int

	SetKind(id BodyID, kind BodyKind)
	Kind(id BodyID) BodyKind
	SetVelocity(id BodyID, v core.Vec)
	Velocity(id BodyID) core.Vec
	ApplyImpulse(id BodyID, impulse core.Vec)
	SetPosition(id BodyID, p core.Vec)
	Position(id BodyID) core.Vec

	// SetSpeed scales simulated time. Zero freezes the world.
	SetSpeed(s float64)
	Speed() float64

	SetContactListener(l ContactListener)
	Step(dt time.Duration)
}
