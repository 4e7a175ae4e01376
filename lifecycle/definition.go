package lifecycle

import (
	"fmt"

	"github.com/dealgrid/catalog-core/errors"
)

// Edge declares one legal move in the lifecycle table: from any state in
// From to the single target state To, optionally gated by a guard and a
// validator. Edges are evaluated in declaration order; the first edge whose
// source set contains the current state and whose guard accepts is used.
type Edge struct {
	From []State
	To   State

	// GuardName and ValidatorName identify the gate functions for error
	// reporting and diagram labels. They are required whenever the
	// corresponding function is set.
	GuardName     string
	Guard         Guard
	ValidatorName string
	Validator     Validator
}

// HasSource reports whether the edge accepts transitions out of the given
// state.
func (e Edge) HasSource(state State) bool {
	for _, from := range e.From {
		if from == state {
			return true
		}
	}

	return false
}

// Definition is the static, declarative description of one entity type's
// lifecycle: state set, initial state, ordered edges, timestamp bindings,
// per-state hooks, and presentation metadata. A Definition is built once at
// startup, validated, and never mutated afterwards; it is safe to share
// across engine instances.
type Definition struct {
	name     string
	states   *StateSet
	initial  State
	edges    []Edge
	bindings map[State]string
	metadata map[State]Metadata

	globalBefore []BeforeHook
	globalAfter  []AfterHook
	beforeByTo   map[State][]BeforeHook
	afterByTo    map[State][]AfterHook
}

// Name returns the definition's name, used for logging and metric labels.
func (d *Definition) Name() string {
	return d.name
}

// Initial returns the state assigned to a newly created entity.
func (d *Definition) Initial() State {
	return d.initial
}

// States returns all states in natural sort order.
func (d *Definition) States() []State {
	return d.states.NaturalSortedEntries()
}

// HasState reports whether the given state belongs to the definition.
func (d *Definition) HasState(state State) bool {
	return d.states.Contains(state)
}

// Edges returns the edge table in declaration order.
func (d *Definition) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	copy(out, d.edges)

	return out
}

// TimestampField returns the timestamp field bound to the given state, if
// any.
func (d *Definition) TimestampField(state State) (string, bool) {
	field, ok := d.bindings[state]

	return field, ok
}

// Metadata returns presentation hints for a state. States without explicit
// metadata get a zero-value Metadata whose label is the state name itself.
func (d *Definition) Metadata(state State) Metadata {
	if meta, ok := d.metadata[state]; ok {
		return meta
	}

	return Metadata{Label: string(state)}
}

// beforeHooks returns the before-hooks applicable to a transition into the
// given target state, global hooks first.
func (d *Definition) beforeHooks(to State) []BeforeHook {
	return append(append([]BeforeHook{}, d.globalBefore...), d.beforeByTo[to]...)
}

// afterHooks returns the after-hooks applicable to a transition into the
// given target state, global hooks first.
func (d *Definition) afterHooks(to State) []AfterHook {
	return append(append([]AfterHook{}, d.globalAfter...), d.afterByTo[to]...)
}

// Validate checks the definition for structural problems. Unlike a
// first-error return it collects every problem it finds, so a broken
// definition surfaces completely in one pass.
func (d *Definition) Validate() error {
	var problems errors.Collection

	if d.name == "" {
		problems.Add(ErrDefinitionNameRequired)
	}

	if d.states == nil || d.states.Size() == 0 {
		problems.Add(ErrStateRequired)

		return problems.GetError()
	}

	if d.initial == "" {
		problems.Add(ErrInitialStateRequired)
	} else if !d.states.Contains(d.initial) {
		problems.Add(fmt.Errorf("%w: %s", ErrInitialStateNotFound, d.initial))
	}

	for i, edge := range d.edges {
		if len(edge.From) == 0 {
			problems.Add(fmt.Errorf("edge %d: %w", i, ErrEdgeFromRequired))
		}

		if edge.To == "" {
			problems.Add(fmt.Errorf("edge %d: %w", i, ErrEdgeToRequired))
		} else if !d.states.Contains(edge.To) {
			problems.Add(fmt.Errorf("edge %d: %w: %s", i, ErrEdgeStateNotFound, edge.To))
		}

		for _, from := range edge.From {
			if !d.states.Contains(from) {
				problems.Add(fmt.Errorf("edge %d: %w: %s", i, ErrEdgeStateNotFound, from))
			}
		}
	}

	for state, field := range d.bindings {
		if !d.states.Contains(state) {
			problems.Add(fmt.Errorf("%w: %s", ErrBindingStateNotFound, state))
		}

		if field == "" {
			problems.Add(fmt.Errorf("%w: state %s", ErrBindingFieldRequired, state))
		}
	}

	for state := range d.metadata {
		if !d.states.Contains(state) {
			problems.Add(fmt.Errorf("%w: %s", ErrMetadataStateNotFound, state))
		}
	}

	return problems.GetError()
}
