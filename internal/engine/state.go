package engine

import "fmt"

// State is a scheduler lifecycle state.
type State int

const (
	// StateIdle is the initial state, and the state after Reset.
	StateIdle State = iota
	// StateRunning means the tick loop is advancing.
	StateRunning
	// StatePaused means the loop is parked at a tick boundary.
	StatePaused
	// StateStopped is terminal until Reset.
	StateStopped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transitions lists the legal control operations per state.
var transitions = map[string]map[State]State{
	"start":  {StateIdle: StateRunning},
	"pause":  {StateRunning: StatePaused},
	"resume": {StatePaused: StateRunning},
	"stop":   {StateRunning: StateStopped, StatePaused: StateStopped},
	"reset":  {StateIdle: StateIdle, StateStopped: StateIdle},
}

// next returns the state op leads to from s, or a StateError.
func next(s State, op string) (State, error) {
	to, ok := transitions[op][s]
	if !ok {
		return s, &StateError{From: s, Op: op}
	}
	return to, nil
}
