package types

// State is a step of the publish-and-monitor workflow
type State int

const (
	StatePublishing State = iota
	StateAwaitingReview
	StatePolling
	StateChecksPassed
	StateChecksFailed
	StateTimedOut
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StatePublishing:     "Publishing",
	StateAwaitingReview: "AwaitingReview",
	StatePolling:        "Polling",
	StateChecksPassed:   "ChecksPassed",
	StateChecksFailed:   "ChecksFailed",
	StateTimedOut:       "TimedOut",
	StateFinalizing:     "Finalizing",
	StateDone:           "Done",
	StateFailed:         "Failed",
}

// String returns the state name
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText renders the state by name in JSON and YAML reports
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no further transition can follow
func (s State) IsTerminal() bool {
	switch s {
	case StateChecksFailed, StateTimedOut, StateDone, StateFailed:
		return true
	}
	return false
}

// Transition records one state change
type Transition struct {
	From State `json:"from" yaml:"from"`
	To   State `json:"to" yaml:"to"`
}
