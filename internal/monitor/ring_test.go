package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRingEviction(t *testing.T) {
	r := newEntryRing(10)

	for i := 1; i <= 12; i++ {
		r.Push(LogEntry{Message: fmt.Sprintf("entry %d", i)})
	}

	items := r.Items()
	require.Len(t, items, 10)
	assert.Equal(t, "entry 3", items[0].Message)
	assert.Equal(t, "entry 12", items[9].Message)
}

func TestEntryRingPartialFill(t *testing.T) {
	r := newEntryRing(5)
	r.Push(LogEntry{Message: "a"})
	r.Push(LogEntry{Message: "b"})

	items := r.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Message)
	assert.Equal(t, "b", items[1].Message)
	assert.Equal(t, 2, r.Len())
}

func TestEntryRingClear(t *testing.T) {
	r := newEntryRing(3)
	r.Push(LogEntry{Message: "a"})
	r.Push(LogEntry{Message: "b"})

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Items())

	r.Push(LogEntry{Message: "c"})
	items := r.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Message)
}

func TestEntryRingMinimumCapacity(t *testing.T) {
	r := newEntryRing(0)
	r.Push(LogEntry{Message: "a"})
	r.Push(LogEntry{Message: "b"})

	items := r.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Message)
}

func TestFloatRingEviction(t *testing.T) {
	r := newFloatRing(3)
	for _, v := range []float64{1, 2, 3, 4} {
		r.Push(v)
	}
	assert.Equal(t, []float64{2, 3, 4}, r.Items())
}
