package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringList(capacity int) *BoundedList[string] {
	return NewBoundedList(capacity, func(s string) string { return s })
}

func TestBoundedList_PushFrontEvictsBack(t *testing.T) {
	l := stringList(3)
	for _, s := range []string{"a", "b", "c"} {
		_, ok := l.PushFront(s)
		assert.False(t, ok)
	}
	assert.Equal(t, []string{"c", "b", "a"}, l.Items())
	assert.True(t, l.Full())

	evicted, ok := l.PushFront("d")
	require.True(t, ok)
	assert.Equal(t, "a", evicted)
	assert.Equal(t, []string{"d", "c", "b"}, l.Items())
	assert.Equal(t, 3, l.Len())
}

func TestBoundedList_AppendDropsFront(t *testing.T) {
	l := stringList(2)
	assert.Nil(t, l.Append("a"))
	assert.Nil(t, l.Append("b"))

	dropped := l.Append("c")
	assert.Equal(t, []string{"a"}, dropped)
	assert.Equal(t, []string{"b", "c"}, l.Items())
}

func TestBoundedList_RemoveAllOccurrences(t *testing.T) {
	l := stringList(5)
	l.items = append(l.items, "a", "b", "a", "c")

	assert.True(t, l.Remove("a"))
	assert.Equal(t, []string{"b", "c"}, l.Items())
	assert.False(t, l.Remove("zzz"))
	assert.False(t, l.Contains("a"))
	assert.Equal(t, 1, l.IndexOf("c"))
}

func TestBoundedList_ItemsIsCopy(t *testing.T) {
	l := stringList(2)
	l.Append("a")
	items := l.Items()
	items[0] = "mutated"
	assert.Equal(t, "a", l.At(0))
}

func TestBoundedList_PopBackAndBackOnEmpty(t *testing.T) {
	l := stringList(2)
	_, ok := l.Back()
	assert.False(t, ok)
	_, ok = l.PopBack()
	assert.False(t, ok)

	l.Append("a")
	l.Append("b")
	v, ok := l.PopBack()
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, l.Len())
}

func TestBoundedList_Update(t *testing.T) {
	l := NewBoundedList(3, entryKey)
	l.Append(MatchSlotEntry{UserID: "u1", Status: StatusPending})
	l.Append(MatchSlotEntry{UserID: "u2", Status: StatusPending})

	n := l.Update("u2", func(e *MatchSlotEntry) { e.Status = StatusYes })
	assert.Equal(t, 1, n)
	assert.Equal(t, StatusYes, l.At(1).Status)
	assert.Equal(t, StatusPending, l.At(0).Status)
}

func TestBoundedList_MinimumCapacity(t *testing.T) {
	l := stringList(0)
	assert.Equal(t, 1, l.Cap())
}
