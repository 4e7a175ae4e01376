package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSetDeduplicates(t *testing.T) {
	t.Parallel()

	s := NewStateSet("a", "b", "a")

	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []State{"a", "b"}, s.Entries())
}

func TestStateSetPreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	s := NewStateSet("published", "draft", "archived")

	assert.Equal(t, []State{"published", "draft", "archived"}, s.Entries())
}

func TestStateSetNaturalSortedEntries(t *testing.T) {
	t.Parallel()

	s := NewStateSet("step10", "step2", "step1")

	// Natural sort treats embedded numbers numerically.
	assert.Equal(t, []State{"step1", "step2", "step10"}, s.NaturalSortedEntries())
}
