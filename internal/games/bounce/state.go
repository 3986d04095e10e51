package bounce

// RunState is the lifecycle phase of a run.
type RunState int

const (
	Idle RunState = iota
	Active
	Ended
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// StateMachine holds a run's state. It only ever moves forward one step:
// Idle to Active, Active to Ended. A new run is needed to start over.
type StateMachine struct {
	state RunState
}

// State returns the current state.
func (m *StateMachine) State() RunState {
	return m.state
}

// Transition moves to next if that is the successor of the current state.
// Any other request is a no-op and reports false.
func (m *StateMachine) Transition(next RunState) bool {
	if m.state == Ended || next != m.state+1 {
		return false
	}
	m.state = next
	return true
}
