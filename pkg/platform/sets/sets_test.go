package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	t.Run("preserves first-seen order", func(t *testing.T) {
		got := Dedupe([]string{"b", "a", "b", "c", "a"})
		assert.Equal(t, []string{"b", "a", "c"}, got)
	})

	t.Run("empty input returned as-is", func(t *testing.T) {
		assert.Empty(t, Dedupe([]int(nil)))
	})
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2, 3}, 2))
	assert.False(t, Contains([]int{1, 2, 3}, 4))
	assert.False(t, Contains([]int(nil), 1))
}

func TestRemove(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Remove([]string{"a", "b", "c", "b"}, "b"))
	assert.Empty(t, Remove([]string{"x"}, "x"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "central dealership", NormalizeName("  Central Dealership "))
	assert.Equal(t, NormalizeName("EXHIBITION"), NormalizeName("exhibition"))
}
