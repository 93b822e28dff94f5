package models

// BoundedList is an ordered list with a fixed maximum length. Items are kept
// in a single slice; the caller decides which end is "newest" by using
// PushFront (newest at index 0) or Append (newest at the tail). Either way the
// oldest items are the ones dropped when the list is over capacity.
type BoundedList[T any] struct {
	items    []T
	capacity int
	key      func(T) string
}

// NewBoundedList returns an empty list holding at most capacity items.
// key identifies an item for dedup and removal.
func NewBoundedList[T any](capacity int, key func(T) string) *BoundedList[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedList[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		key:      key,
	}
}

// Len returns the number of items.
func (l *BoundedList[T]) Len() int { return len(l.items) }

// Cap returns the maximum number of items.
func (l *BoundedList[T]) Cap() int { return l.capacity }

// Full reports whether the list is at capacity.
func (l *BoundedList[T]) Full() bool { return len(l.items) >= l.capacity }

// Items returns a copy of the items in list order.
func (l *BoundedList[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// At returns the item at index i.
func (l *BoundedList[T]) At(i int) T { return l.items[i] }

// Back returns the last item.
func (l *BoundedList[T]) Back() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// IndexOf returns the index of the item with key k, or -1.
func (l *BoundedList[T]) IndexOf(k string) int {
	for i, it := range l.items {
		if l.key(it) == k {
			return i
		}
	}
	return -1
}

// Contains reports whether an item with key k is present.
func (l *BoundedList[T]) Contains(k string) bool { return l.IndexOf(k) >= 0 }

// Remove deletes every item with key k and reports whether any was removed.
func (l *BoundedList[T]) Remove(k string) bool {
	kept := l.items[:0]
	removed := false
	for _, it := range l.items {
		if l.key(it) == k {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	clearTail(l.items, len(kept))
	l.items = kept
	return removed
}

// PopBack removes and returns the last item.
func (l *BoundedList[T]) PopBack() (T, bool) {
	it, ok := l.Back()
	if !ok {
		return it, false
	}
	clearTail(l.items, len(l.items)-1)
	l.items = l.items[:len(l.items)-1]
	return it, true
}

// PushFront inserts item at index 0. When the list is full the last item is
// evicted first and returned.
func (l *BoundedList[T]) PushFront(item T) (evicted T, ok bool) {
	if l.Full() {
		evicted, ok = l.PopBack()
	}
	l.items = append(l.items, item)
	copy(l.items[1:], l.items[:len(l.items)-1])
	l.items[0] = item
	return evicted, ok
}

// Append adds item at the tail. When the list overflows, items are dropped
// from the front and returned.
func (l *BoundedList[T]) Append(item T) []T {
	l.items = append(l.items, item)
	return l.trimFront()
}

// Update applies fn to every item with key k and returns how many matched.
func (l *BoundedList[T]) Update(k string, fn func(*T)) int {
	n := 0
	for i := range l.items {
		if l.key(l.items[i]) == k {
			fn(&l.items[i])
			n++
		}
	}
	return n
}

func (l *BoundedList[T]) trimFront() []T {
	over := len(l.items) - l.capacity
	if over <= 0 {
		return nil
	}
	dropped := make([]T, over)
	copy(dropped, l.items[:over])
	l.items = append(l.items[:0], l.items[over:]...)
	return dropped
}

func (l *BoundedList[T]) truncateBack() {
	if len(l.items) > l.capacity {
		clearTail(l.items, l.capacity)
		l.items = l.items[:l.capacity]
	}
}

func clearTail[T any](s []T, from int) {
	var zero T
	for i := from; i < len(s); i++ {
		s[i] = zero
	}
}
