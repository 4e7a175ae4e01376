package lifecycle

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry maps guard and validator names to function values. Definitions
// loaded from YAML reference gates by name only; resolution happens once at
// Config.Build, keeping dispatch static instead of stringly-typed lookups at
// transition time.
type Registry struct {
	guards     map[string]Guard
	validators map[string]Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:     make(map[string]Guard),
		validators: make(map[string]Validator),
	}
}

// RegisterGuard binds a guard function to a name.
func (r *Registry) RegisterGuard(name string, guard Guard) *Registry {
	r.guards[name] = guard

	return r
}

// RegisterValidator binds a validator function to a name.
func (r *Registry) RegisterValidator(name string, validator Validator) *Registry {
	r.validators[name] = validator

	return r
}

// Config is the YAML shape of a definition. Guards and validators appear by
// name only; hooks cannot be declared in YAML at all and must be registered
// programmatically on the built definition via the builder.
type Config struct {
	Name       string              `json:"name"       yaml:"name"`
	Initial    string              `json:"initial"    yaml:"initial"`
	States     []string            `json:"states"     yaml:"states"`
	Edges      []EdgeConfig        `json:"edges"      yaml:"edges"`
	Timestamps map[string]string   `json:"timestamps" yaml:"timestamps"`
	Metadata   map[string]Metadata `json:"metadata"   yaml:"metadata"`
}

// EdgeConfig is the YAML shape of one edge.
type EdgeConfig struct {
	From      []string `json:"from"      yaml:"from"`
	To        string   `json:"to"        yaml:"to"`
	Guard     string   `json:"guard"     yaml:"guard"`
	Validator string   `json:"validator" yaml:"validator"`
}

// LoadConfig loads a definition config from a file path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a definition config from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Name == "" {
		return nil, ErrDefinitionNameRequired
	}

	if len(config.States) == 0 {
		return nil, ErrStateRequired
	}

	if config.Initial == "" {
		return nil, ErrInitialStateRequired
	}

	return &config, nil
}

// LoadConfigFromFS loads a definition config from an embedded filesystem.
// This is a convenience function for loading from embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Build resolves named gates against the registry and returns a validated
// definition. An edge naming an unregistered guard or validator fails here,
// at startup, rather than on the first transition.
func (c *Config) Build(registry *Registry) (*Definition, error) {
	if registry == nil {
		registry = NewRegistry()
	}

	builder := NewDefinition(c.Name).WithInitial(State(c.Initial))

	for _, state := range c.States {
		builder.WithStates(State(state))
	}

	for i, ec := range c.Edges {
		edge := Edge{To: State(ec.To)}

		for _, from := range ec.From {
			edge.From = append(edge.From, State(from))
		}

		if ec.Guard != "" {
			guard, ok := registry.guards[ec.Guard]
			if !ok {
				return nil, fmt.Errorf("edge %d: %w: %s", i, ErrGuardNotRegistered, ec.Guard)
			}

			edge.GuardName = ec.Guard
			edge.Guard = guard
		}

		if ec.Validator != "" {
			validator, ok := registry.validators[ec.Validator]
			if !ok {
				return nil, fmt.Errorf("edge %d: %w: %s", i, ErrValidatorNotRegistered, ec.Validator)
			}

			edge.ValidatorName = ec.Validator
			edge.Validator = validator
		}

		builder.AddEdgeConfig(edge)
	}

	for state, field := range c.Timestamps {
		builder.BindTimestamp(State(state), field)
	}

	for state, meta := range c.Metadata {
		builder.WithMetadata(State(state), meta)
	}

	return builder.Build()
}
