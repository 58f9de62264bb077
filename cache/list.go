package cache

// node is an entry in the recency list.
type node struct {
	key   string
	value []byte
	size  int64

	prev, next *node
}

// list is a doubly linked list bounded by two sentinel nodes. The most
// recently used node is adjacent to head, the least recently used node is
// adjacent to tail.
type list struct {
	head, tail node
}

func (l *list) init() {
	l.head.next = &l.tail
	l.tail.prev = &l.head
}

// pushFront links n immediately after the head sentinel.
func (l *list) pushFront(n *node) {
	next := l.head.next
	n.prev = &l.head
	n.next = next
	next.prev = n
	l.head.next = n
}

// unlink removes n from the list. n must currently be linked.
func (l *list) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

// moveToFront makes n the most recently used node.
func (l *list) moveToFront(n *node) {
	if l.head.next == n {
		return
	}
	l.unlink(n)
	l.pushFront(n)
}

// back returns the least recently used node, or nil if the list is empty.
func (l *list) back() *node {
	if l.tail.prev == &l.head {
		return nil
	}
	return l.tail.prev
}
