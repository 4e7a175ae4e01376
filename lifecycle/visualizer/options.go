package visualizer

// Options controls diagram generation.
type Options struct {
	// Direction is the Mermaid diagram direction: "v2" renders top-down,
	// any other value is appended verbatim to the stateDiagram header.
	Direction string

	// ShowGuards labels edges with their guard or validator name.
	ShowGuards bool

	// HighlightStates marks the given states with the highlighted class,
	// e.g. to show an entity's current position in the workflow.
	HighlightStates []string
}

// DefaultOptions returns the options used by the plain generator functions.
func DefaultOptions() Options {
	return Options{
		Direction:  "v2",
		ShowGuards: true,
	}
}
