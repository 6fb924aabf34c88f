package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentSet_AddContains(t *testing.T) {
	s := newRecentSet(4)

	assert.False(t, s.contains("a"))
	s.add("a")
	assert.True(t, s.contains("a"))

	// Re-adding is a no-op.
	s.add("a")
	assert.Equal(t, 1, s.len())
}

func TestRecentSet_EvictsOldestFirst(t *testing.T) {
	s := newRecentSet(3)
	s.add("a")
	s.add("b")
	s.add("c")

	s.add("d") // evicts "a"
	assert.False(t, s.contains("a"))
	assert.True(t, s.contains("b"))
	assert.True(t, s.contains("c"))
	assert.True(t, s.contains("d"))
	assert.Equal(t, 3, s.len())

	s.add("e") // evicts "b"
	assert.False(t, s.contains("b"))
	assert.True(t, s.contains("e"))
}

func TestRecentSet_Churn(t *testing.T) {
	s := newRecentSet(8)
	for i := 0; i < 100; i++ {
		s.add(fmt.Sprintf("id-%d", i))
	}

	assert.Equal(t, 8, s.len())
	// The last capacity-many IDs survive.
	for i := 92; i < 100; i++ {
		assert.True(t, s.contains(fmt.Sprintf("id-%d", i)), i)
	}
	assert.False(t, s.contains("id-91"))
}

func TestRecentSet_ZeroCapacity(t *testing.T) {
	s := newRecentSet(0)
	s.add("a")
	assert.True(t, s.contains("a"))
	s.add("b")
	assert.False(t, s.contains("a"))
	assert.True(t, s.contains("b"))
}
