package lifecycle

// DefinitionBuilder provides a fluent API for constructing definitions in
// code. YAML-declared definitions go through Config.Build instead; both end
// in the same Validate.
type DefinitionBuilder struct {
	def *Definition
}

// NewDefinition creates a builder for a definition with the given name.
func NewDefinition(name string) *DefinitionBuilder {
	return &DefinitionBuilder{
		def: &Definition{
			name:       name,
			states:     NewStateSet(),
			bindings:   make(map[State]string),
			metadata:   make(map[State]Metadata),
			beforeByTo: make(map[State][]BeforeHook),
			afterByTo:  make(map[State][]AfterHook),
		},
	}
}

// WithStates adds states to the definition's state set.
func (b *DefinitionBuilder) WithStates(states ...State) *DefinitionBuilder {
	b.def.states.AddAll(states...)

	return b
}

// WithInitial sets the state assigned to newly created entities.
func (b *DefinitionBuilder) WithInitial(state State) *DefinitionBuilder {
	b.def.initial = state

	return b
}

// AddEdge declares an unguarded edge.
func (b *DefinitionBuilder) AddEdge(from []State, to State) *DefinitionBuilder {
	b.def.edges = append(b.def.edges, Edge{From: from, To: to})

	return b
}

// AddGuardedEdge declares an edge gated by a named boolean guard.
func (b *DefinitionBuilder) AddGuardedEdge(from []State, to State, name string, guard Guard) *DefinitionBuilder {
	b.def.edges = append(b.def.edges, Edge{
		From:      from,
		To:        to,
		GuardName: name,
		Guard:     guard,
	})

	return b
}

// AddValidatedEdge declares an edge gated by a named multi-reason validator.
func (b *DefinitionBuilder) AddValidatedEdge(from []State, to State, name string, validator Validator) *DefinitionBuilder {
	b.def.edges = append(b.def.edges, Edge{
		From:          from,
		To:            to,
		ValidatorName: name,
		Validator:     validator,
	})

	return b
}

// AddEdgeConfig appends a fully specified edge.
func (b *DefinitionBuilder) AddEdgeConfig(edge Edge) *DefinitionBuilder {
	b.def.edges = append(b.def.edges, edge)

	return b
}

// BindTimestamp stamps the named entity field whenever a transition enters
// the given state.
func (b *DefinitionBuilder) BindTimestamp(state State, field string) *DefinitionBuilder {
	b.def.bindings[state] = field

	return b
}

// WithMetadata attaches presentation hints to a state.
func (b *DefinitionBuilder) WithMetadata(state State, meta Metadata) *DefinitionBuilder {
	b.def.metadata[state] = meta

	return b
}

// OnBefore registers a global before-hook, run on every transition before
// the mutation. Returning false vetoes the transition.
func (b *DefinitionBuilder) OnBefore(hook BeforeHook) *DefinitionBuilder {
	b.def.globalBefore = append(b.def.globalBefore, hook)

	return b
}

// OnBeforeEntering registers a before-hook bound to transitions into the
// given target state.
func (b *DefinitionBuilder) OnBeforeEntering(to State, hook BeforeHook) *DefinitionBuilder {
	b.def.beforeByTo[to] = append(b.def.beforeByTo[to], hook)

	return b
}

// OnAfter registers a global after-hook, run best-effort after the mutation
// has committed.
func (b *DefinitionBuilder) OnAfter(hook AfterHook) *DefinitionBuilder {
	b.def.globalAfter = append(b.def.globalAfter, hook)

	return b
}

// OnAfterEntering registers an after-hook bound to transitions into the
// given target state.
func (b *DefinitionBuilder) OnAfterEntering(to State, hook AfterHook) *DefinitionBuilder {
	b.def.afterByTo[to] = append(b.def.afterByTo[to], hook)

	return b
}

// Build validates and returns the definition.
func (b *DefinitionBuilder) Build() (*Definition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}

	return b.def, nil
}

// MustBuild is Build for definitions wired at startup, where a broken
// definition should halt the program.
func (b *DefinitionBuilder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}

	return def
}
