package bounce

import (
	"sort"

	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

// Registry owns the live entities of a run and their physics bodies.
// An entity and its body are created and destroyed together.
type Registry struct {
	world    physics.World
	entities map[EntityID]*Entity
	byBody   map[physics.BodyID]EntityID
	next     EntityID
}

// NewRegistry creates an empty registry over world.
func NewRegistry(world physics.World) *Registry {
	return &Registry{
		world:    world,
		entities: make(map[EntityID]*Entity),
		byBody:   make(map[physics.BodyID]EntityID),
	}
}

// Spawn creates a body from def and tracks a new entity for it.
func (r *Registry) Spawn(tag Tag, def physics.BodyDef) *Entity {
	body := r.world.CreateBody(def)
	r.next++
	e := &Entity{
		ID:   r.next,
		Tag:  tag,
		Pos:  def.Position,
		Size: def.Size,
		Body: body,
	}
	r.entities[e.ID] = e
	r.byBody[body] = e.ID
	return e
}

// Remove destroys the entity and its body. Returns false if it was already gone.
func (r *Registry) Remove(id EntityID) bool {
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	delete(r.entities, id)
	delete(r.byBody, e.Body)
	r.world.RemoveBody(e.Body)
	return true
}

// Get returns the entity with the given id.
func (r *Registry) Get(id EntityID) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// ByBody returns the entity that owns a physics body.
func (r *Registry) ByBody(body physics.BodyID) (*Entity, bool) {
	id, ok := r.byBody[body]
	if !ok {
		return nil, false
	}
	return r.entities[id], true
}

// Move places an entity and its body at pos.
func (r *Registry) Move(id EntityID, pos core.Vec) {
	e, ok := r.entities[id]
	if !ok {
		return
	}
	e.Pos = pos
	r.world.SetPosition(e.Body, pos)
}

// Sync copies simulated positions of dynamic bodies back onto their entities.
func (r *Registry) Sync() {
	for _, e := range r.entities {
		if r.world.Kind(e.Body) == physics.Dynamic {
			e.Pos = r.world.Position(e.Body)
		}
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Count returns the number of live entities with the given tag.
func (r *Registry) Count(tag Tag) int {
	n := 0
	for _, e := range r.entities {
		if e.Tag == tag {
			n++
		}
	}
	return n
}

// Snapshot returns copies of all live entities ordered by id.
func (r *Registry) Snapshot() []Entity {
	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
