// Package visualizer generates Mermaid and DOT diagrams from lifecycle
// definition configs. It works on the YAML config shape, before gate
// resolution, so diagrams can be rendered for definitions whose guards are
// not registered in the current binary. Force overrides are not edges and
// never appear in diagrams.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"facette.io/natsort"
	"github.com/dealgrid/catalog-core/lifecycle"
)

// Visualizer errors.
var (
	ErrConfigNil      = errors.New("config cannot be nil")
	ErrNoInitialState = errors.New("config must have an initial state")
)

// GenerateMermaid converts a config to a Mermaid state diagram.
func GenerateMermaid(config *lifecycle.Config) (string, error) {
	return GenerateMermaidWithOptions(config, DefaultOptions())
}

// GenerateMermaidFromFile loads a config from a file and generates a
// Mermaid diagram.
func GenerateMermaidFromFile(path string) (string, error) {
	config, err := lifecycle.LoadConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	return GenerateMermaid(config)
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom
// options.
func GenerateMermaidWithOptions(config *lifecycle.Config, opts Options) (string, error) {
	if config == nil {
		return "", ErrConfigNil
	}

	if config.Initial == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("stateDiagram-%s\n", opts.Direction))

	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", config.Initial))

	highlightMap := make(map[string]bool)
	for _, state := range opts.HighlightStates {
		highlightMap[state] = true
	}

	for _, state := range sortedStates(config) {
		if label, ok := stateLabel(config, state); ok {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", state, label))
		}

		if highlightMap[state] {
			sb.WriteString(fmt.Sprintf("    class %s highlighted\n", state))
		}
	}

	for _, edge := range config.Edges {
		label := ""
		if opts.ShowGuards {
			if gate := edgeGate(edge); gate != "" {
				label = ": " + gate
			}
		}

		for _, from := range edge.From {
			sb.WriteString(fmt.Sprintf("    %s --> %s%s\n", from, edge.To, label))
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:2px\n")
	sb.WriteString("```\n")

	return sb.String(), nil
}

// GenerateDOT converts a config to a Graphviz digraph.
func GenerateDOT(config *lifecycle.Config) (string, error) {
	return GenerateDOTWithOptions(config, DefaultOptions())
}

// GenerateDOTWithOptions generates a DOT digraph with custom options.
func GenerateDOTWithOptions(config *lifecycle.Config, opts Options) (string, error) {
	if config == nil {
		return "", ErrConfigNil
	}

	if config.Initial == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", config.Name))
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n")
	sb.WriteString(fmt.Sprintf("    __start [shape=point];\n    __start -> %q;\n", config.Initial))

	for _, state := range sortedStates(config) {
		attrs := []string{}

		if label, ok := stateLabel(config, state); ok {
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
		}

		if meta, ok := config.Metadata[state]; ok && meta.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", meta.Color))
		}

		if len(attrs) > 0 {
			sb.WriteString(fmt.Sprintf("    %q [%s];\n", state, strings.Join(attrs, ", ")))
		}
	}

	for _, edge := range config.Edges {
		label := ""
		if opts.ShowGuards {
			if gate := edgeGate(edge); gate != "" {
				label = fmt.Sprintf(" [label=%q]", gate)
			}
		}

		for _, from := range edge.From {
			sb.WriteString(fmt.Sprintf("    %q -> %q%s;\n", from, edge.To, label))
		}
	}

	sb.WriteString("}\n")

	return sb.String(), nil
}

// sortedStates returns the config's states in natural sort order so output
// is stable regardless of declaration order.
func sortedStates(config *lifecycle.Config) []string {
	states := make([]string, len(config.States))
	copy(states, config.States)

	natsort.Sort(states)

	return states
}

// stateLabel returns the metadata label for a state when it differs from
// the state name.
func stateLabel(config *lifecycle.Config, state string) (string, bool) {
	meta, ok := config.Metadata[state]
	if !ok || meta.Label == "" || meta.Label == state {
		return "", false
	}

	return meta.Label, true
}

// edgeGate returns the edge's gate name for labelling, guard first.
func edgeGate(edge lifecycle.EdgeConfig) string {
	if edge.Guard != "" {
		return edge.Guard
	}

	return edge.Validator
}
