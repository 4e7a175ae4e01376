package visualizer

import "github.com/dealgrid/catalog-core/lifecycle"

// ConfigFromDefinition converts a built definition back into the config
// shape the generators consume, so programmatically constructed workflows
// can be diagrammed too. Gate functions are reduced to their names.
func ConfigFromDefinition(def *lifecycle.Definition) *lifecycle.Config {
	config := &lifecycle.Config{
		Name:       def.Name(),
		Initial:    string(def.Initial()),
		Timestamps: make(map[string]string),
		Metadata:   make(map[string]lifecycle.Metadata),
	}

	for _, state := range def.States() {
		config.States = append(config.States, string(state))

		if field, ok := def.TimestampField(state); ok {
			config.Timestamps[string(state)] = field
		}

		config.Metadata[string(state)] = def.Metadata(state)
	}

	for _, edge := range def.Edges() {
		ec := lifecycle.EdgeConfig{
			To:        string(edge.To),
			Guard:     edge.GuardName,
			Validator: edge.ValidatorName,
		}

		for _, from := range edge.From {
			ec.From = append(ec.From, string(from))
		}

		config.Edges = append(config.Edges, ec)
	}

	return config
}
