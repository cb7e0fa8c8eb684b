package engine

// State represents the current state of the tool-use loop.
type State int

const (
	// StateAwaitingModel means the loop is about to invoke the backend.
	StateAwaitingModel State = iota
	// StateExecutingTools means the backend requested tool calls which are
	// being resolved.
	StateExecutingTools
	// StateDone means the backend produced a final text response.
	StateDone
	// StateRoundLimit means the round bound was reached while the loop would
	// otherwise continue; the exchange yields the fixed fallback reply.
	StateRoundLimit
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	case StateRoundLimit:
		return "round_limit_reached"
	default:
		return "unknown"
	}
}
