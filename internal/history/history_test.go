package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolfnbl/tp8236/internal/frame"
)

func stamped(tag byte) frame.RawFrame {
	f := frame.RawFrame{Data: frame.Reference()}
	f.Data[11] = tag
	return f
}

func TestBufferDefaultDepth(t *testing.T) {
	assert.Equal(t, DefaultDepth, New(0).Depth())
	assert.Equal(t, DefaultDepth, New(-3).Depth())
	assert.Equal(t, 4, New(4).Depth())
}

func TestBufferEvictsOldest(t *testing.T) {
	b := New(3)
	for i := byte(0); i < 5; i++ {
		b.Push(stamped(i))
		assert.LessOrEqual(t, b.Len(), 3)
	}
	assert.Equal(t, 3, b.Len())

	// Entries 0 and 1 were evicted; the newest survives.
	f, ok := b.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, byte(4), f.Data[11])
}

func TestBufferDrainLatest(t *testing.T) {
	b := New(10)
	b.Push(stamped(1))
	b.Push(stamped(2))
	b.Push(stamped(3))

	f, ok := b.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, byte(3), f.Data[11])

	// The drain removed everything, not just the returned frame.
	assert.Equal(t, 0, b.Len())
	_, ok = b.DrainLatest()
	assert.False(t, ok)
}

func TestBufferDrainEmpty(t *testing.T) {
	b := New(2)
	_, ok := b.DrainLatest()
	assert.False(t, ok)
}

func TestBufferRefillsAfterDrain(t *testing.T) {
	b := New(2)
	b.Push(stamped(1))
	_, ok := b.DrainLatest()
	require.True(t, ok)

	b.Push(stamped(9))
	f, ok := b.DrainLatest()
	require.True(t, ok)
	assert.Equal(t, byte(9), f.Data[11])
}
