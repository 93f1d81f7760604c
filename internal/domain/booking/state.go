package booking

import (
	"strings"

	"github.com/shareloop/service-sharing/internal/domain"
)

// State is the temporal/status bucket used when listing bookings. ALL,
// CURRENT, PAST and FUTURE are evaluated against "now" at call time;
// WAITING and REJECTED match the stored status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States lists every recognized listing state.
func States() []State {
	return []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}
}

// ParseState converts a token to a State. The token is matched
// case-insensitively; an empty token defaults to ALL. Unrecognized tokens
// fail with an UnknownStateError, independent of any other input.
func ParseState(token string) (State, error) {
	if token == "" {
		return StateAll, nil
	}
	state := State(strings.ToUpper(token))
	for _, s := range States() {
		if state == s {
			return s, nil
		}
	}
	return "", domain.NewUnknownStateError(token)
}
