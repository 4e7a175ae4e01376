package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Transition rejection sentinels. Every rejection returned by the engine
// wraps exactly one of these, so callers can errors.Is against them and
// render specific feedback. None of them are retryable without a caller-side
// state or context change.
var (
	// ErrReentrantTransition indicates a transition was attempted while
	// another one was already in flight on the same engine instance. This is
	// a programming error (typically a hook calling back into the engine)
	// and must not be swallowed.
	ErrReentrantTransition = errors.New("transition already in flight")

	// ErrNoOpTransition indicates the current state equals the target state.
	// Self-transitions are rejected, not silently accepted.
	ErrNoOpTransition = errors.New("current state equals target state")

	// ErrStaleState indicates the caller's believed current state does not
	// match the entity's live state, signalling a read-then-act race.
	ErrStaleState = errors.New("request state does not match entity state")

	// ErrUnknownState indicates the target state is not part of the
	// definition's state set.
	ErrUnknownState = errors.New("state not in definition")

	// ErrIllegalTransition indicates no edge in the definition permits the
	// attempted move.
	ErrIllegalTransition = errors.New("no edge permits this transition")

	// ErrGuardRejected indicates a boolean precondition failed.
	ErrGuardRejected = errors.New("guard rejected transition")

	// ErrValidationRejected indicates a multi-reason business-rule check
	// failed. The wrapping TransitionError carries every unmet reason.
	ErrValidationRejected = errors.New("validation rejected transition")

	// ErrHookRejected indicates a before-hook vetoed the transition.
	ErrHookRejected = errors.New("before-hook rejected transition")

	// ErrReasonRequired indicates a force override was attempted without an
	// explicit reason.
	ErrReasonRequired = errors.New("force override requires a reason")
)

// Definition validation sentinels.
var (
	ErrDefinitionNameRequired = errors.New("definition name is required")
	ErrInitialStateRequired   = errors.New("initial state is required")
	ErrStateRequired          = errors.New("at least one state is required")
	ErrDuplicateState         = errors.New("duplicate state")
	ErrInitialStateNotFound   = errors.New("initial state does not exist")
	ErrEdgeFromRequired       = errors.New("edge requires at least one source state")
	ErrEdgeToRequired         = errors.New("edge target state is required")
	ErrEdgeStateNotFound      = errors.New("edge references unknown state")
	ErrBindingStateNotFound   = errors.New("timestamp binding references unknown state")
	ErrBindingFieldRequired   = errors.New("timestamp binding field name is required")
	ErrMetadataStateNotFound  = errors.New("metadata references unknown state")
	ErrGuardNotRegistered     = errors.New("guard not registered")
	ErrValidatorNotRegistered = errors.New("validator not registered")
)

// TransitionError is the typed failure returned by Engine.Transition and
// Engine.ForceTransition. It always carries the attempted from/to pair and
// wraps one of the rejection sentinels above.
type TransitionError struct {
	From    State
	To      State
	Guard   string   // name of the rejecting guard, if any
	Reasons []string // validator reasons, if any
	Err     error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("transition %s -> %s: %v", e.From, e.To, e.Err)

	if e.Guard != "" {
		msg += fmt.Sprintf(" (guard %q)", e.Guard)
	}

	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}

	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func newTransitionError(from, to State, err error) *TransitionError {
	return &TransitionError{
		From: from,
		To:   to,
		Err:  err,
	}
}

func newGuardError(from, to State, guard string) *TransitionError {
	return &TransitionError{
		From:  from,
		To:    to,
		Guard: guard,
		Err:   ErrGuardRejected,
	}
}

func newValidationError(from, to State, reasons []string) *TransitionError {
	return &TransitionError{
		From:    from,
		To:      to,
		Reasons: reasons,
		Err:     ErrValidationRejected,
	}
}

// Reasons extracts validator reasons from a transition rejection. It returns
// nil when err is not a validation rejection.
func Reasons(err error) []string {
	var terr *TransitionError
	if errors.As(err, &terr) && errors.Is(terr.Err, ErrValidationRejected) {
		return terr.Reasons
	}

	return nil
}
