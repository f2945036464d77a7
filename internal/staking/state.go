package staking

import (
	"errors"
	"fmt"
)

type State int

const (
	StateIdle State = iota
	StateSigning
	StateApproving
	StateJoining
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSigning:
		return "signing"
	case StateApproving:
		return "approving"
	case StateJoining:
		return "joining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InProgress reports whether the workflow is waiting on the wallet or chain.
func (s State) InProgress() bool {
	return s == StateSigning || s == StateApproving || s == StateJoining
}

type Event int

const (
	EventSubmit Event = iota
	EventValidationFailed
	EventSigned
	EventSignRejected
	EventApproved
	EventApproveRejected
	EventJoined
	EventFailed
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventValidationFailed:
		return "validation_failed"
	case EventSigned:
		return "signed"
	case EventSignRejected:
		return "sign_rejected"
	case EventApproved:
		return "approved"
	case EventApproveRejected:
		return "approve_rejected"
	case EventJoined:
		return "joined"
	case EventFailed:
		return "failed"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

var ErrIllegalTransition = errors.New("illegal workflow transition")

// Transition is the workflow's state table. It has no side effects; the
// driver in Workflow performs the work each state stands for.
func Transition(s State, e Event) (State, error) {
	switch {
	case e == EventFailed && s.InProgress():
		return StateFailed, nil
	case e == EventReset && (s == StateIdle || s == StateDone || s == StateFailed):
		return StateIdle, nil
	}

	switch s {
	case StateIdle:
		switch e {
		case EventSubmit:
			return StateSigning, nil
		case EventValidationFailed:
			return StateIdle, nil
		}
	case StateSigning:
		switch e {
		case EventSigned:
			return StateApproving, nil
		case EventSignRejected:
			return StateIdle, nil
		}
	case StateApproving:
		switch e {
		case EventApproved:
			return StateJoining, nil
		case EventApproveRejected:
			return StateIdle, nil
		}
	case StateJoining:
		if e == EventJoined {
			return StateDone, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, e, s)
}
