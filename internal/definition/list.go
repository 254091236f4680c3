package definition

import "fmt"

// ownedList is an ordered collection of definitions that all belong to the same owner.
// Items are attached to the owner on insertion and detached on removal;
// every structural change calls changed exactly once.
type ownedList[T Definition] struct {
	owner   any
	items   []T
	notify  notifyFunc
	changed func()
}

func (l *ownedList[T]) attach(item T) { item.base().attach(l.owner, l.notify) }

// checkAttachable panics if any of items cannot be attached to the list, before anything
// is changed.
func (l *ownedList[T]) checkAttachable(items []T) {
	for _, it := range items {
		it.base().checkAttachable()
	}
}

func checkDistinct[T Definition](items []T) {
	for i, it := range items {
		for _, prev := range items[:i] {
			if any(prev) == any(it) {
				panic(fmt.Sprintf("definition: %q is added twice", it.Name()))
			}
		}
	}
}

func (l *ownedList[T]) detach(item T) { item.base().detach(l.owner) }

func (l *ownedList[T]) Len() int    { return len(l.items) }
func (l *ownedList[T]) At(i int) T  { return l.items[i] }
func (l *ownedList[T]) Items() []T  { return append([]T(nil), l.items...) }
func (l *ownedList[T]) Index(item T) int {
	for i, it := range l.items {
		if any(it) == any(item) {
			return i
		}
	}
	return -1
}

func (l *ownedList[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	checkDistinct(items)
	l.checkAttachable(items)
	for _, it := range items {
		l.attach(it)
		l.items = append(l.items, it)
	}
	l.changed()
}

func (l *ownedList[T]) Insert(i int, item T) {
	if i < 0 || i > len(l.items) {
		panic(fmt.Sprintf("definition: insert index %d out of range [0, %d]", i, len(l.items)))
	}
	l.attach(item)
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = item
	l.changed()
}

func (l *ownedList[T]) RemoveAt(i int) {
	l.detach(l.items[i])
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.changed()
}

func (l *ownedList[T]) Remove(item T) bool {
	i := l.Index(item)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

func (l *ownedList[T]) Replace(i int, item T) {
	old := l.items[i]
	if any(old) == any(item) {
		return
	}
	l.attach(item)
	l.detach(old)
	l.items[i] = item
	l.changed()
}

// Reset replaces the whole contents of the list.
func (l *ownedList[T]) Reset(items ...T) {
	if len(l.items) == 0 && len(items) == 0 {
		return
	}
	// Items already in the list may be kept; only outsiders must be free.
	var incoming []T
	for _, it := range items {
		if l.Index(it) < 0 {
			incoming = append(incoming, it)
		}
	}
	checkDistinct(items)
	l.checkAttachable(incoming)
	for _, it := range l.items {
		l.detach(it)
	}
	l.items = l.items[:0]
	for _, it := range items {
		l.attach(it)
		l.items = append(l.items, it)
	}
	l.changed()
}
