package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsPoolAcquireRelease(t *testing.T) {
	pool := newCsPool(2, 4)
	assert.Equal(t, 2, pool.Capacity())
	assert.Equal(t, 2, pool.FreeSize())

	first := pool.acquire()
	ref := first.Ref()
	assert.False(t, ref.IsZero())
	resolved, ok := pool.get(ref)
	require.True(t, ok)
	assert.Same(t, first, resolved)
	assert.Equal(t, 1, pool.Size())

	pool.release(first)
	assert.Equal(t, 0, pool.Size())
	assert.Equal(t, 2, pool.FreeSize())
	_, ok = pool.get(ref)
	assert.False(t, ok)

	again := pool.acquire()
	assert.Equal(t, ref.index, again.Ref().index)
	assert.Equal(t, ref.generation+1, again.Ref().generation)

	_, ok = pool.get(EntryRef{})
	assert.False(t, ok)
}

func TestCsPoolGrow(t *testing.T) {
	pool := newCsPool(3, 10)
	assert.Equal(t, 6, pool.grow())
	assert.Equal(t, 10, pool.grow())
	assert.False(t, pool.CanGrow())
	pool.checkInvariants(0)
}

func TestCsPoolGenerationSurvivesShrink(t *testing.T) {
	pool := newCsPool(1, 4)
	pool.resize(2)

	entry := pool.acquire()
	ref := entry.Ref()
	pool.release(entry)

	// The released slot is at the top of the free stack and is dropped first
	pool.resize(1)
	_, ok := pool.get(ref)
	assert.False(t, ok)

	pool.resize(2)
	var reused *CsEntry
	for pool.FreeSize() > 0 {
		if e := pool.acquire(); e.Ref().index == ref.index {
			reused = e
		}
	}
	require.NotNil(t, reused)
	assert.Greater(t, reused.Ref().generation, ref.generation)
}

func TestCsPoolShrinkTarget(t *testing.T) {
	pool := newCsPool(4, 100)
	pool.resize(16)
	pool.acquire()
	assert.Equal(t, 8, pool.shrinkTarget())

	for i := 0; i < 5; i++ {
		pool.acquire()
	}
	assert.Equal(t, 16, pool.shrinkTarget())
}

func TestCsPoolSetLimit(t *testing.T) {
	pool := newCsPool(4, 100)
	pool.resize(16)
	for i := 0; i < 3; i++ {
		pool.acquire()
	}

	pool.setLimit(5)
	assert.Equal(t, 5, pool.Capacity())
	assert.Equal(t, 5, pool.Limit())
	pool.checkInvariants(3)

	assert.Panics(t, func() { pool.setLimit(2) })
}

func TestCsPoolInvariantViolationPanics(t *testing.T) {
	pool := newCsPool(2, 2)
	pool.acquire()
	assert.Panics(t, func() { pool.checkInvariants(0) })
	assert.Panics(t, func() { pool.resize(3) })
	assert.Panics(t, func() { pool.resize(0) })
}
