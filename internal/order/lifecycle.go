package order

import (
	"strings"

	"github.com/looplab/fsm"
)

type State string

const (
	StateOrdered     State = "ordered"
	StatePartOrdered State = "part_ordered"
	StateStaged      State = "staged"
	StateDispatched  State = "dispatched"
	StateCancelled   State = "cancelled"
)

const (
	EventStage      = "stage"
	EventUnstage    = "unstage"
	EventDispatch   = "dispatch"
	EventUnDispatch = "undispatch"
	EventCancel     = "cancel"
)

// CancelMarker replaces the entry remark on the destructive per-entry
// cancellation path.
const CancelMarker = "CANCELLED"

// StateOf derives the lifecycle state from the persisted fields. The two
// date columns carry no ordering invariant between them; dispatch wins
// when both are set.
func StateOf(e DBEntry) State {
	switch {
	case strings.HasPrefix(e.Remark, CancelMarker) && e.BhiwandiDate != nil && e.DispatchDate != nil:
		return StateCancelled
	case e.DispatchDate != nil:
		return StateDispatched
	case e.BhiwandiDate != nil:
		return StateStaged
	case e.Part:
		return StatePartOrdered
	default:
		return StateOrdered
	}
}

var transitions = fsm.Events{
	{Name: EventStage, Src: []string{string(StateOrdered), string(StatePartOrdered)}, Dst: string(StateStaged)},
	{Name: EventUnstage, Src: []string{string(StateStaged)}, Dst: string(StateOrdered)},
	// Dispatch does not require prior staging.
	{Name: EventDispatch, Src: []string{string(StateOrdered), string(StatePartOrdered), string(StateStaged)}, Dst: string(StateDispatched)},
	{Name: EventUnDispatch, Src: []string{string(StateDispatched)}, Dst: string(StateOrdered)},
	{Name: EventCancel, Src: []string{string(StateOrdered), string(StatePartOrdered), string(StateStaged)}, Dst: string(StateCancelled)},
}

// canApply checks a single-entry transition against the state machine
// seeded from the entry's current derived state.
func canApply(e DBEntry, event string) bool {
	machine := fsm.NewFSM(string(StateOf(e)), transitions, fsm.Callbacks{})
	return machine.Can(event)
}
