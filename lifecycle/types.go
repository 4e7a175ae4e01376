// Package lifecycle implements a guarded state-transition engine for catalog
// entities. A Definition declares the legal states and edges of one entity
// type; an Engine executes single transitions against that definition,
// enforcing guards, validators, and hooks, and recording each committed
// transition in the entity's bounded history.
package lifecycle

import (
	"context"
	"time"
)

// State identifies a single lifecycle state.
type State string

// Entity is the capability contract the engine requires from an entity.
// The engine holds no field references of its own; all reads and writes go
// through these accessors.
type Entity interface {
	// CurrentState returns the entity's live state.
	CurrentState() State

	// SetCurrentState overwrites the entity's state field.
	SetCurrentState(state State)

	// SetTimestampField stamps the named timestamp field with the given time.
	// Unknown field names are ignored by convention.
	SetTimestampField(field string, t time.Time)

	// History returns the entity's bounded transition ledger.
	History() *History
}

// Guard is a pure precondition gating an edge. It must not mutate the entity
// or the request.
type Guard func(ctx context.Context, entity Entity, req Request) bool

// Validator is a multi-reason precondition. Unlike a Guard it reports every
// unmet requirement at once so callers can render actionable feedback.
type Validator func(ctx context.Context, entity Entity, req Request) ValidationResult

// BeforeHook runs after an edge has been accepted but before the state
// mutation. Returning false vetoes the transition without an error being
// raised by the hook itself.
type BeforeHook func(ctx context.Context, entity Entity, from, to State, req Request) bool

// AfterHook runs after a transition has committed. It is best-effort: a
// panicking after-hook is logged, never propagated, and never rolls back the
// already-committed mutation.
type AfterHook func(ctx context.Context, entity Entity, from, to State, req Request)

// ValidationResult is the outcome of a Validator.
type ValidationResult struct {
	Valid   bool
	Reasons []string
}

// Valid returns a passing ValidationResult.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid returns a failing ValidationResult carrying the given reasons.
func Invalid(reasons ...string) ValidationResult {
	return ValidationResult{Valid: false, Reasons: reasons}
}

// Metadata carries presentation hints for a state. It has no effect on
// transition legality.
type Metadata struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon"  yaml:"icon"`
}
