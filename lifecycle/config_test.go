package lifecycle

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docConfigYAML = `
name: document
initial: draft
states:
  - draft
  - review
  - published
edges:
  - from: [draft]
    to: review
  - from: [review]
    to: published
    guard: review_approved
timestamps:
  published: published_at
metadata:
  draft:
    label: Draft
    color: "#9e9e9e"
    icon: pencil
`

func docRegistry() *Registry {
	return NewRegistry().
		RegisterGuard("review_approved", func(_ context.Context, _ Entity, req Request) bool {
			return req.ContextBool("approved")
		})
}

func TestLoadConfigFromBytes(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(docConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "document", config.Name)
	assert.Equal(t, "draft", config.Initial)
	assert.Len(t, config.States, 3)
	assert.Len(t, config.Edges, 2)
	assert.Equal(t, "published_at", config.Timestamps["published"])
	assert.Equal(t, "Draft", config.Metadata["draft"].Label)
}

func TestLoadConfigFromBytesRejectsIncomplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"missing name", "initial: a\nstates: [a]\n", ErrDefinitionNameRequired},
		{"missing states", "name: x\ninitial: a\n", ErrStateRequired},
		{"missing initial", "name: x\nstates: [a]\n", ErrInitialStateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfigFromBytes([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfigFromBytesRejectsBadYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFromBytes([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestConfigBuildResolvesGuards(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(docConfigYAML))
	require.NoError(t, err)

	def, err := config.Build(docRegistry())
	require.NoError(t, err)

	engine, err := NewEngine(def)
	require.NoError(t, err)

	doc := newTestDoc("review")

	_, err = engine.Transition(context.Background(), doc, Request{
		CurrentState: "review",
		TargetState:  "published",
	})
	assert.ErrorIs(t, err, ErrGuardRejected)

	_, err = engine.Transition(context.Background(), doc, Request{
		CurrentState: "review",
		TargetState:  "published",
		Context:      map[string]any{"approved": true},
	})
	require.NoError(t, err)

	// The YAML timestamp binding applied.
	assert.Contains(t, doc.stamps, "published_at")
}

func TestConfigBuildUnregisteredGuard(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(docConfigYAML))
	require.NoError(t, err)

	_, err = config.Build(NewRegistry())
	assert.ErrorIs(t, err, ErrGuardNotRegistered)
}

func TestConfigBuildUnregisteredValidator(t *testing.T) {
	t.Parallel()

	config := &Config{
		Name:    "document",
		Initial: "draft",
		States:  []string{"draft", "published"},
		Edges: []EdgeConfig{
			{From: []string{"draft"}, To: "published", Validator: "ready"},
		},
	}

	_, err := config.Build(nil)
	assert.ErrorIs(t, err, ErrValidatorNotRegistered)
}

func TestLoadConfigFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"defs/document.yaml": &fstest.MapFile{Data: []byte(docConfigYAML)},
	}

	config, err := LoadConfigFromFS(fsys, "defs/document.yaml")
	require.NoError(t, err)
	assert.Equal(t, "document", config.Name)

	_, err = LoadConfigFromFS(fsys, "defs/missing.yaml")
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
