package session

// State is a step of the session state machine.
type State int

const (
	StateInit State = iota
	StatePipesCreated
	StateLaunched
	StateWroteInput
	StateReadOutput
	StateReadError
	StateCleanup
	StateDone
	StateLaunchFailed
	StateFailed
)

var stateNames = [...]string{
	StateInit:         "init",
	StatePipesCreated: "pipes_created",
	StateLaunched:     "launched",
	StateWroteInput:   "wrote_input",
	StateReadOutput:   "read_output",
	StateReadError:    "read_error",
	StateCleanup:      "cleanup",
	StateDone:         "done",
	StateLaunchFailed: "launch_failed",
	StateFailed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateLaunchFailed || s == StateFailed
}

// next lists the legal transitions.
var next = map[State][]State{
	StateInit:         {StatePipesCreated, StateFailed},
	StatePipesCreated: {StateLaunched, StateLaunchFailed, StateFailed},
	StateLaunched:     {StateWroteInput, StateFailed},
	StateWroteInput:   {StateReadOutput, StateFailed},
	StateReadOutput:   {StateReadError, StateFailed},
	StateReadError:    {StateCleanup, StateFailed},
	StateCleanup:      {StateDone, StateFailed},
}

// CanTransition reports whether the machine may move from s to to.
func (s State) CanTransition(to State) bool {
	for _, allowed := range next[s] {
		if allowed == to {
			return true
		}
	}

	return false
}
