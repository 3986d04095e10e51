// Package sched provides a single-threaded timer queue driven by the game tick.
// Nothing in this package sleeps or spawns goroutines: time only moves when
// Advance is called, so timed continuations stay deterministic and can be
// cancelled wholesale when a run ends.
package sched

import (
	"container/heap"
	"time"
)

// Handle identifies a scheduled entry. The zero Handle is never issued.
type Handle uint64

type kind int

const (
	kindAfter kind = iota
	kindEvery
	kindTween
)

type entry struct {
	handle   Handle
	kind     kind
	start    time.Duration
	deadline time.Duration
	period   time.Duration
	fn       func()
	step     func(progress float64)
	seq      uint64
	index    int
	canceled bool
}

// Scheduler is a virtual-clock timer queue. It is not safe for concurrent use;
// the game mutates it only from the tick path.
type Scheduler struct {
	now     time.Duration
	next    Handle
	seq     uint64
	queue   queue
	entries map[Handle]*entry
	tweens  []*entry
}

// New creates an empty scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{
		entries: make(map[Handle]*entry),
	}
}

// Now returns the scheduler's virtual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of live entries.
func (s *Scheduler) Pending() int {
	return len(s.entries)
}

// Active reports whether h is still scheduled.
func (s *Scheduler) Active(h Handle) bool {
	_, ok := s.entries[h]
	return ok
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	e := s.add(kindAfter, d)
	e.fn = fn
	return e.handle
}

// Every runs fn every period, first at now+period.
// Panics on a non-positive period, which would never let Advance return.
func (s *Scheduler) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		panic("sched: Every requires a positive period")
	}
	e := s.add(kindEvery, period)
	e.period = period
	e.fn = fn
	return e.handle
}

// Tween calls step with the elapsed fraction of d after every Advance.
// At the deadline step receives exactly 1 and then done runs. Either
// callback may be nil.
func (s *Scheduler) Tween(d time.Duration, step func(progress float64), done func()) Handle {
	e := s.add(kindTween, d)
	e.step = step
	e.fn = done
	s.tweens = append(s.tweens, e)
	return e.handle
}

// Cancel removes a pending entry. Returns false if h already fired or was
// cancelled.
func (s *Scheduler) Cancel(h Handle) bool {
	e, ok := s.entries[h]
	if !ok {
		return false
	}
	s.drop(e)
	return true
}

// Clear cancels every pending entry. The clock is left untouched.
func (s *Scheduler) Clear() {
	for _, e := range s.entries {
		e.canceled = true
	}
	s.entries = make(map[Handle]*entry)
	s.queue = nil
	s.tweens = nil
}

// Advance moves the clock forward by dt, firing due entries in deadline
// order. Entries created by callbacks fire in the same call when their
// deadline also falls inside the window. Tweens are updated last.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for len(s.queue) > 0 {
		e := s.queue[0]
		if e.deadline > target {
			break
		}
		heap.Pop(&s.queue)
		if e.canceled {
			continue
		}
		s.now = e.deadline
		s.fire(e)
	}
	s.now = target

	if len(s.tweens) == 0 {
		return
	}
	live := make([]*entry, len(s.tweens))
	copy(live, s.tweens)
	for _, e := range live {
		if e.canceled || e.step == nil {
			continue
		}
		e.step(s.progress(e))
	}
}

func (s *Scheduler) add(k kind, d time.Duration) *entry {
	if d < 0 {
		d = 0
	}
	s.next++
	e := &entry{
		handle:   s.next,
		kind:     k,
		start:    s.now,
		deadline: s.now + d,
		seq:      s.nextSeq(),
	}
	s.entries[e.handle] = e
	heap.Push(&s.queue, e)
	return e
}

func (s *Scheduler) fire(e *entry) {
	switch e.kind {
	case kindAfter:
		delete(s.entries, e.handle)
		if e.fn != nil {
			e.fn()
		}
	case kindEvery:
		// Re-arm before running so fn can cancel its own handle.
		e.deadline += e.period
		e.seq = s.nextSeq()
		heap.Push(&s.queue, e)
		if e.fn != nil {
			e.fn()
		}
	case kindTween:
		s.drop(e)
		if e.step != nil {
			e.step(1)
		}
		if e.fn != nil {
			e.fn()
		}
	}
}

func (s *Scheduler) drop(e *entry) {
	e.canceled = true
	delete(s.entries, e.handle)
	if e.kind != kindTween {
		return
	}
	for i, t := range s.tweens {
		if t == e {
			s.tweens = append(s.tweens[:i], s.tweens[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) progress(e *entry) float64 {
	total := e.deadline - e.start
	if total <= 0 {
		return 1
	}
	p := float64(s.now-e.start) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}

func (s *Scheduler) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// queue orders entries by deadline, then by insertion.
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}
