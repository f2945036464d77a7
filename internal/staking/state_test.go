package staking

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHappyPathTransitions(t *testing.T) {
	s := StateIdle
	for _, step := range []struct {
		ev   Event
		want State
	}{
		{EventSubmit, StateSigning},
		{EventSigned, StateApproving},
		{EventApproved, StateJoining},
		{EventJoined, StateDone},
		{EventReset, StateIdle},
	} {
		next, err := Transition(s, step.ev)
		require.NoError(t, err, "%s on %s", step.ev, s)
		require.Equal(t, step.want, next)
		s = next
	}
}

func TestRejectionsReturnToIdle(t *testing.T) {
	s, err := Transition(StateSigning, EventSignRejected)
	require.NoError(t, err)
	require.Equal(t, StateIdle, s)

	s, err = Transition(StateApproving, EventApproveRejected)
	require.NoError(t, err)
	require.Equal(t, StateIdle, s)
}

func TestStepsCannotBeSkipped(t *testing.T) {
	for _, tc := range []struct {
		from State
		ev   Event
	}{
		{StateIdle, EventSigned},
		{StateIdle, EventApproved},
		{StateIdle, EventJoined},
		{StateSigning, EventApproved},
		{StateSigning, EventJoined},
		{StateApproving, EventJoined},
		{StateApproving, EventSignRejected},
		{StateJoining, EventApproveRejected},
		{StateJoining, EventReset},
		{StateDone, EventSubmit},
		{StateIdle, EventFailed},
	} {
		next, err := Transition(tc.from, tc.ev)
		require.ErrorIs(t, err, ErrIllegalTransition, "%s on %s", tc.ev, tc.from)
		require.Equal(t, tc.from, next)
	}
}

func TestFailedReachableFromEveryStep(t *testing.T) {
	for _, s := range []State{StateSigning, StateApproving, StateJoining} {
		next, err := Transition(s, EventFailed)
		require.NoError(t, err)
		require.Equal(t, StateFailed, next)
	}
	next, err := Transition(StateFailed, EventReset)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

// Whatever events arrive, Joining is only entered from Approving, Approving
// only from Signing, and Done only from Joining.
func TestTransitionOrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := rapid.SliceOfN(rapid.IntRange(int(EventSubmit), int(EventReset)), 0, 40).Draw(t, "events")
		s := StateIdle
		for _, e := range events {
			ev := Event(e)
			next, err := Transition(s, ev)
			if err != nil {
				if next != s {
					t.Fatalf("illegal %s on %s moved state to %s", ev, s, next)
				}
				continue
			}
			switch next {
			case StateApproving:
				if s != StateSigning {
					t.Fatalf("entered approving from %s", s)
				}
			case StateJoining:
				if s != StateApproving {
					t.Fatalf("entered joining from %s", s)
				}
			case StateDone:
				if s != StateJoining {
					t.Fatalf("entered done from %s", s)
				}
			}
			if (ev == EventSignRejected || ev == EventApproveRejected) && next != StateIdle {
				t.Fatalf("rejection led to %s", next)
			}
			s = next
		}
	})
}
