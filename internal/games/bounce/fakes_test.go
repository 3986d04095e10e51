package bounce

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

// fakeWorld is a physics.World that never integrates. Contacts queued with
// touch are delivered on the next Step, like the real world does.
type fakeWorld struct {
	gravity  core.Vec
	bounds   core.Vec
	bodies   map[physics.BodyID]*fakeBody
	next     physics.BodyID
	speed    float64
	listener physics.ContactListener
	pending  [][2]physics.BodyID
	steps    int
}

type fakeBody struct {
	def      physics.BodyDef
	kind     physics.BodyKind
	pos      core.Vec
	vel      core.Vec
	impulses []core.Vec
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{bodies: make(map[physics.BodyID]*fakeBody), speed: 1}
}

func (w *fakeWorld) SetGravity(g core.Vec) { w.gravity = g }
func (w *fakeWorld) Gravity() core.Vec     { return w.gravity }

func (w *fakeWorld) SetBounds(width, height float64, _ physics.Category) {
	w.bounds = core.V(width, height)
}

func (w *fakeWorld) CreateBody(def physics.BodyDef) physics.BodyID {
	w.next++
	w.bodies[w.next] = &fakeBody{def: def, kind: def.Kind, pos: def.Position}
	return w.next
}

func (w *fakeWorld) RemoveBody(id physics.BodyID) { delete(w.bodies, id) }
func (w *fakeWorld) Bodies() int                  { return len(w.bodies) }

func (w *fakeWorld) SetKind(id physics.BodyID, kind physics.BodyKind) {
	if b, ok := w.bodies[id]; ok {
		b.kind = kind
	}
}

func (w *fakeWorld) Kind(id physics.BodyID) physics.BodyKind {
	if b, ok := w.bodies[id]; ok {
		return b.kind
	}
	return physics.Inert
}

func (w *fakeWorld) SetVelocity(id physics.BodyID, v core.Vec) {
	if b, ok := w.bodies[id]; ok {
		b.vel = v
	}
}

func (w *fakeWorld) Velocity(id physics.BodyID) core.Vec {
	if b, ok := w.bodies[id]; ok {
		return b.vel
	}
	return core.Vec{}
}

func (w *fakeWorld) ApplyImpulse(id physics.BodyID, impulse core.Vec) {
	if b, ok := w.bodies[id]; ok {
		b.impulses = append(b.impulses, impulse)
	}
}

func (w *fakeWorld) SetPosition(id physics.BodyID, p core.Vec) {
	if b, ok := w.bodies[id]; ok {
		b.pos = p
	}
}

func (w *fakeWorld) Position(id physics.BodyID) core.Vec {
	if b, ok := w.bodies[id]; ok {
		return b.pos
	}
	return core.Vec{}
}

func (w *fakeWorld) SetSpeed(s float64)                          { w.speed = s }
func (w *fakeWorld) Speed() float64                              { return w.speed }
func (w *fakeWorld) SetContactListener(l physics.ContactListener) { w.listener = l }

func (w *fakeWorld) Step(time.Duration) {
	if w.speed == 0 {
		return
	}
	w.steps++
	batch := w.pending
	w.pending = nil
	for _, c := range batch {
		w.listener.BeginContact(c[0], c[1])
	}
}

// touch queues a contact between two entities' bodies.
func (w *fakeWorld) touch(a, b Entity) {
	w.pending = append(w.pending, [2]physics.BodyID{a.Body, b.Body})
}

// recordingPresenter remembers what the core asked it to show.
type recordingPresenter struct {
	overlays    map[assets.ID]float64
	removed     map[assets.ID]bool
	sounds      []assets.ID
	effects     []assets.ID
	effectAt    core.Vec
	scores      []int
	music       bool
	transitions []time.Duration
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{
		overlays: make(map[assets.ID]float64),
		removed:  make(map[assets.ID]bool),
	}
}

func (p *recordingPresenter) PlaySound(id assets.ID) { p.sounds = append(p.sounds, id) }
func (p *recordingPresenter) PlayMusic(assets.ID)    { p.music = true }
func (p *recordingPresenter) StopMusic()             { p.music = false }

func (p *recordingPresenter) EmitEffect(id assets.ID, at core.Vec) {
	p.effects = append(p.effects, id)
	p.effectAt = at
}

func (p *recordingPresenter) SetOverlay(id assets.ID, alpha float64) {
	p.overlays[id] = alpha
	delete(p.removed, id)
}

func (p *recordingPresenter) RemoveOverlay(id assets.ID) {
	delete(p.overlays, id)
	p.removed[id] = true
}

func (p *recordingPresenter) ShowScore(n int)            { p.scores = append(p.scores, n) }
func (p *recordingPresenter) Transition(d time.Duration) { p.transitions = append(p.transitions, d) }

func (p *recordingPresenter) played(id assets.ID) int {
	n := 0
	for _, s := range p.sounds {
		if s == id {
			n++
		}
	}
	return n
}

// fakeJournal records journal calls. When fail is set every call errors.
type fakeJournal struct {
	started  []string
	actions  map[string][]int
	finished map[string]finishCall
	fail     bool
}

type finishCall struct {
	score, ticks int
	ended        bool
	calls        int
}

var errJournal = errors.New("journal unavailable")

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		actions:  make(map[string][]int),
		finished: make(map[string]finishCall),
	}
}

func (j *fakeJournal) StartRun(id string, _ int64, _ int) error {
	if j.fail {
		return errJournal
	}
	j.started = append(j.started, id)
	return nil
}

func (j *fakeJournal) RecordAction(id string, tick int) error {
	if j.fail {
		return errJournal
	}
	j.actions[id] = append(j.actions[id], tick)
	return nil
}

func (j *fakeJournal) FinishRun(id string, score, ticks int, ended bool) error {
	if j.fail {
		return errJournal
	}
	f := j.finished[id]
	j.finished[id] = finishCall{score: score, ticks: ticks, ended: ended, calls: f.calls + 1}
	return nil
}

// newTestRun builds a run over a fake world with the default config.
func newTestRun(t testing.TB) (*Run, *fakeWorld, *recordingPresenter) {
	t.Helper()
	w := newFakeWorld()
	p := newRecordingPresenter()
	r, err := NewRun(config.DefaultBounceConfig(), 42, w, p, nil)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return r, w, p
}

// activate runs the start sequence to completion.
func activate(t testing.TB, r *Run) {
	t.Helper()
	if got := r.Action(); got != ActionStarted {
		t.Fatalf("Action() in idle = %v, expected started", got)
	}
	r.Step(500 * time.Millisecond)
	if r.State() != Active {
		t.Fatalf("state after fade = %v, expected active", r.State())
	}
}

// firstOf returns the live entity with the lowest id carrying tag.
func firstOf(r *Run, tag Tag) (Entity, bool) {
	for _, e := range r.Entities() {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entity{}, false
}

func physicsBox(x, y float64) physics.BodyDef {
	return physics.BodyDef{Kind: physics.Static, Position: core.V(x, y), Size: core.V(10, 10)}
}
