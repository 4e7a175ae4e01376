package lifecycle

import "facette.io/natsort"

// StateSet is an insertion-ordered set of states. It preserves declaration
// order for iteration and offers natural-sorted listing for presentation.
type StateSet struct {
	order   []State
	members map[State]struct{}
}

// NewStateSet creates a StateSet containing the given states. Duplicates are
// collapsed, keeping the first occurrence.
func NewStateSet(states ...State) *StateSet {
	s := &StateSet{
		members: make(map[State]struct{}, len(states)),
	}

	s.AddAll(states...)

	return s
}

// Add adds a single state. Adding an existing state is a no-op.
func (s *StateSet) Add(state State) {
	if _, ok := s.members[state]; ok {
		return
	}

	s.members[state] = struct{}{}
	s.order = append(s.order, state)
}

// AddAll adds multiple states.
func (s *StateSet) AddAll(states ...State) {
	for _, state := range states {
		s.Add(state)
	}
}

// Contains reports whether the set holds the given state.
func (s *StateSet) Contains(state State) bool {
	_, ok := s.members[state]

	return ok
}

// Size returns the number of states in the set.
func (s *StateSet) Size() int {
	return len(s.order)
}

// Entries returns the states in declaration order.
func (s *StateSet) Entries() []State {
	out := make([]State, len(s.order))
	copy(out, s.order)

	return out
}

// NaturalSortedEntries returns the states in natural sort order, suitable for
// stable human-facing listings.
func (s *StateSet) NaturalSortedEntries() []State {
	items := make([]string, len(s.order))
	for i, state := range s.order {
		items[i] = string(state)
	}

	natsort.Sort(items)

	out := make([]State, len(items))
	for i, item := range items {
		out[i] = State(item)
	}

	return out
}
