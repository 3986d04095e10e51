package physics

import (
	"time"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/bounce/internal/core"
)

const (
	entityCollision cp.CollisionType = iota + 1
	boundsCollision
)

type slot struct {
	body  *cp.Body
	shape *cp.Shape
	kind  BodyKind
	mass  float64
}

type contact struct {
	a, b BodyID
}

// Space is a World backed by a Chipmunk2D space.
type Space struct {
	space    *cp.Space
	bodies   map[BodyID]*slot
	next     BodyID
	speed    float64
	listener ContactListener
	pending  []contact
	bounds   []*cp.Shape
}

// NewSpace creates an empty world with zero gravity and speed 1.
func NewSpace() *Space {
	s := &Space{
		space:  cp.NewSpace(),
		bodies: make(map[BodyID]*slot),
		speed:  1,
	}

	// cp locks the space while stepping, so contacts are queued here and
	// flushed once Step returns.
	handler := s.space.NewCollisionHandler(entityCollision, entityCollision)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		sa, sb := arb.Shapes()
		a, okA := sa.UserData.(BodyID)
		b, okB := sb.UserData.(BodyID)
		if okA && okB {
			s.pending = append(s.pending, contact{a: a, b: b})
		}
		return true
	}
	return s
}

func (s *Space) SetGravity(g core.Vec) {
	s.space.SetGravity(cp.Vector{X: g.X, Y: g.Y})
}

func (s *Space) Gravity() core.Vec {
	g := s.space.Gravity()
	return core.Vec{X: g.X, Y: g.Y}
}

func (s *Space) SetBounds(w, h float64, mask Category) {
	for _, shape := range s.bounds {
		s.space.RemoveShape(shape)
	}
	s.bounds = s.bounds[:0]

	corners := []cp.Vector{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		seg := cp.NewSegment(s.space.StaticBody, a, b, 0)
		seg.SetCollisionType(boundsCollision)
		seg.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(CategoryBounds), uint(mask)))
		seg.SetElasticity(0)
		s.space.AddShape(seg)
		s.bounds = append(s.bounds, seg)
	}
}

func (s *Space) CreateBody(def BodyDef) BodyID {
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}

	var body *cp.Body
	switch def.Kind {
	case Dynamic:
		body = cp.NewBody(mass, cp.INFINITY)
	case Static:
		body = cp.NewStaticBody()
	default:
		body = cp.NewKinematicBody()
	}
	body.SetPosition(cp.Vector{X: def.Position.X, Y: def.Position.Y})
	s.space.AddBody(body)

	shape := cp.NewBox(body, def.Size.X, def.Size.Y, 0)
	shape.SetSensor(def.Sensor)
	shape.SetElasticity(0)
	shape.SetCollisionType(entityCollision)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(def.Category), uint(def.Mask)))
	s.space.AddShape(shape)
	if def.Kind != Static {
		shape.SetMass(mass)
	}
	if def.Kind == Dynamic {
		body.SetMoment(cp.INFINITY)
	}

	s.next++
	id := s.next
	shape.UserData = id
	s.bodies[id] = &slot{body: body, shape: shape, kind: def.Kind, mass: mass}
	return id
}

func (s *Space) RemoveBody(id BodyID) {
	sl, ok := s.bodies[id]
	if !ok {
		return
	}
	delete(s.bodies, id)
	s.space.RemoveShape(sl.shape)
	s.space.RemoveBody(sl.body)
}

// Bodies returns the number of live bodies, excluding the bounds.
func (s *Space) Bodies() int {
	return len(s.bodies)
}

func (s *Space) SetKind(id BodyID, kind BodyKind) {
	sl, ok := s.bodies[id]
	if !ok || sl.kind == kind {
		return
	}
	sl.kind = kind

	switch kind {
	case Dynamic:
		// SetType recomputes mass and moment from the shape; keep the body
		// upright.
		sl.body.SetType(cp.BODY_DYNAMIC)
		sl.body.SetMass(sl.mass)
		sl.body.SetMoment(cp.INFINITY)
		sl.body.Activate()
	case Static:
		sl.body.SetType(cp.BODY_STATIC)
	default:
		sl.body.SetType(cp.BODY_KINEMATIC)
	}
}

func (s *Space) Kind(id BodyID) BodyKind {
	if sl, ok := s.bodies[id]; ok {
		return sl.kind
	}
	return Inert
}

func (s *Space) SetVelocity(id BodyID, v core.Vec) {
	if sl, ok := s.bodies[id]; ok && sl.kind != Static {
		sl.body.SetVelocity(v.X, v.Y)
	}
}

func (s *Space) Velocity(id BodyID) core.Vec {
	if sl, ok := s.bodies[id]; ok {
		v := sl.body.Velocity()
		return core.Vec{X: v.X, Y: v.Y}
	}
	return core.Vec{}
}

// ApplyImpulse applies an impulse through the body's center. Only dynamic
// bodies respond.
func (s *Space) ApplyImpulse(id BodyID, impulse core.Vec) {
	sl, ok := s.bodies[id]
	if !ok || sl.kind != Dynamic {
		return
	}
	sl.body.ApplyImpulseAtLocalPoint(cp.Vector{X: impulse.X, Y: impulse.Y}, cp.Vector{})
	sl.body.Activate()
}

// SetPosition teleports a body. Static shapes live in their own spatial
// index that is not refreshed by Step, so they are removed and added back.
// Must not be called while the space is stepping.
func (s *Space) SetPosition(id BodyID, p core.Vec) {
	sl, ok := s.bodies[id]
	if !ok {
		return
	}
	if sl.kind != Static {
		sl.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
		return
	}
	s.space.RemoveShape(sl.shape)
	sl.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	s.space.AddShape(sl.shape)
}

func (s *Space) Position(id BodyID) core.Vec {
	if sl, ok := s.bodies[id]; ok {
		p := sl.body.Position()
		return core.Vec{X: p.X, Y: p.Y}
	}
	return core.Vec{}
}

func (s *Space) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	s.speed = speed
}

func (s *Space) Speed() float64 {
	return s.speed
}

func (s *Space) SetContactListener(l ContactListener) {
	s.listener = l
}

// Step advances the simulation by dt scaled by the world speed and then
// delivers the contacts that began during the step.
func (s *Space) Step(dt time.Duration) {
	if s.speed == 0 || dt <= 0 {
		return
	}
	s.space.Step(dt.Seconds() * s.speed)

	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil
	if s.listener == nil {
		return
	}
	for _, c := range batch {
		s.listener.BeginContact(c.a, c.b)
	}
}

var _ World = (*Space)(nil)
