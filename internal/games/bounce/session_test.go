package bounce

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/physics"
)

type sessionFixture struct {
	session   *Session
	worlds    []*fakeWorld
	presenter *recordingPresenter
	journal   *fakeJournal
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		presenter: newRecordingPresenter(),
		journal:   newFakeJournal(),
	}
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 5}
	s, err := NewSession(config.DefaultBounceConfig(), rt, Options{
		Presenter: f.presenter,
		Journal:   f.journal,
		NewWorld: func() physics.World {
			w := newFakeWorld()
			f.worlds = append(f.worlds, w)
			return w
		},
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	f.session = s
	return f
}

func (f *sessionFixture) world() *fakeWorld {
	return f.worlds[len(f.worlds)-1]
}

func tap() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionPrimary)
	return in
}

func idle() core.InputFrame {
	return core.NewInputFrame()
}

// crash starts the current run and drives the player into the first obstacle.
func (f *sessionFixture) crash(t *testing.T) {
	t.Helper()
	f.session.Step(tap())
	for i := 0; i < 30; i++ {
		f.session.Step(idle())
	}
	run := f.session.Run()
	if run.State() != Active {
		t.Fatalf("run state = %v after fade, expected active", run.State())
	}
	player, _ := run.Player()
	body, _ := firstOf(run, TagObstacleBody)
	f.world().touch(player, body)
	f.session.Step(idle())
	if run.State() != Ended {
		t.Fatalf("run state = %v after crash, expected ended", run.State())
	}
}

func TestSessionStartsIdle(t *testing.T) {
	f := newSessionFixture(t)

	st := f.session.State()
	if st.Started || st.GameOver || st.Score != 0 || st.Runs != 1 {
		t.Errorf("initial state = %+v", st)
	}
	if len(f.journal.started) != 1 {
		t.Errorf("journal started %d runs, expected 1", len(f.journal.started))
	}
}

func TestSessionStartWithinFade(t *testing.T) {
	f := newSessionFixture(t)

	f.session.Step(tap())
	// 31 ticks of 1/60s; 30 fall a few nanoseconds short of the fade
	for i := 0; i < 30; i++ {
		f.session.Step(idle())
	}

	run := f.session.Run()
	if run.State() != Active {
		t.Fatalf("State() = %v, expected active", run.State())
	}
	if !f.session.State().Started {
		t.Error("GameState.Started should be true")
	}
	player, _ := run.Player()
	if f.world().Kind(player.Body) != physics.Dynamic {
		t.Error("player should be dynamic")
	}
}

func TestSessionRestartBuildsNewRun(t *testing.T) {
	f := newSessionFixture(t)
	f.crash(t)

	old := f.session.Run()
	oldWorld := f.world()

	res := f.session.Step(tap())

	if !res.Restarted {
		t.Error("StepResult.Restarted should be set")
	}
	run := f.session.Run()
	if run == old {
		t.Fatal("restart must build a new run, not reset the old one")
	}
	if run.ID() == old.ID() {
		t.Error("new run reuses the old id")
	}
	if f.world() == oldWorld || len(f.worlds) != 2 {
		t.Error("new run should get a fresh world")
	}
	if run.State() != Idle || run.Score() != 0 {
		t.Errorf("new run state = %v score = %d, expected idle/0", run.State(), run.Score())
	}
	if res.State.Runs != 2 || res.State.GameOver || res.State.Started {
		t.Errorf("GameState after restart = %+v", res.State)
	}
	if len(f.presenter.transitions) != 1 || f.presenter.transitions[0] != time.Second {
		t.Errorf("transitions = %v, expected one of 1s", f.presenter.transitions)
	}
	if old.State() != Ended {
		t.Error("old run should stay ended")
	}
}

func TestSessionSeedsEachRun(t *testing.T) {
	f := newSessionFixture(t)
	first := f.session.Run().Seed()
	f.crash(t)
	f.session.Step(tap())

	if f.session.Run().Seed() == first {
		t.Error("consecutive runs should use different seeds")
	}
}

func TestSessionJournal(t *testing.T) {
	f := newSessionFixture(t)
	run := f.session.Run()

	f.session.Step(tap()) // tick 0: start
	f.session.Step(tap()) // tick 1: ignored during the fade
	for i := 0; i < 30; i++ {
		f.session.Step(idle())
	}
	f.session.Step(tap()) // tick 32: flap

	actions := f.journal.actions[run.ID()]
	if len(actions) != 2 || actions[0] != 0 || actions[1] != 32 {
		t.Errorf("recorded actions = %v, expected [0 32]", actions)
	}

	player, _ := run.Player()
	body, _ := firstOf(run, TagObstacleBody)
	f.world().touch(player, body)
	f.session.Step(idle())
	f.session.Step(idle())

	fin := f.journal.finished[run.ID()]
	if fin.calls != 1 || !fin.ended || fin.ticks != run.Ticks()-1 {
		t.Errorf("finish = %+v, expected one ended record at tick %d", fin, run.Ticks()-1)
	}

	f.session.Step(tap())
	f.session.Close()
	if f.journal.finished[run.ID()].calls != 1 {
		t.Error("ended run finished more than once")
	}

	next := f.session.Run()
	if fin := f.journal.finished[next.ID()]; fin.calls != 1 || fin.ended {
		t.Errorf("Close() finish = %+v, expected one abandoned record", fin)
	}
}

func TestSessionSurvivesJournalErrors(t *testing.T) {
	f := newSessionFixture(t)
	f.journal.fail = true

	f.crash(t)
	res := f.session.Step(tap())

	if !res.Restarted {
		t.Error("journal failures must not block restart")
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultBounceConfig()
	cfg.Obstacles.MinHeight, cfg.Obstacles.MaxHeight = 60, 25

	_, err := NewSession(cfg, core.DefaultConfig(), Options{})
	if !errors.Is(err, ErrInvalidRandomRange) {
		t.Errorf("NewSession() = %v, expected ErrInvalidRandomRange", err)
	}
}

func TestSessionDefaultsToRealWorld(t *testing.T) {
	s, err := NewSession(config.DefaultBounceConfig(), core.DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if _, ok := s.Run().world.(*physics.Space); !ok {
		t.Errorf("default world is %T, expected *physics.Space", s.Run().world)
	}
}
