package cache

// lruNode is an element of the recency ring.
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList orders keys by recency. It is a ring around a sentinel root:
// root.next is the most recently used key and root.prev the least.
// The list is not thread-safe; callers must handle synchronization.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.Clear()
	return l
}

// Len returns the number of keys in the list.
func (l *lruList[K]) Len() int { return l.len }

// PushFront inserts key as the most recently used and returns its node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfter(n, &l.root)
	l.len++
	return n
}

// MoveToFront marks node as the most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.detach(n)
	l.insertAfter(n, &l.root)
}

// Remove drops node from the list.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	l.detach(n)
	n.prev, n.next = nil, nil
	l.len--
}

// Oldest returns the least recently used key.
func (l *lruList[K]) Oldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	return l.root.prev.key, true
}

// each visits keys from most to least recently used until fn returns false.
func (l *lruList[K]) each(fn func(K) bool) {
	for n := l.root.next; n != &l.root; n = n.next {
		if !fn(n.key) {
			return
		}
	}
}

// Clear empties the list.
func (l *lruList[K]) Clear() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

func (l *lruList[K]) insertAfter(n, at *lruNode[K]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (l *lruList[K]) detach(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
