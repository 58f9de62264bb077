package queue

import (
	"errors"
	"net"
	"sync"

	"go.uber.org/multierr"
)

// ErrInvalidCapacity is returned by New when the capacity is not positive.
var ErrInvalidCapacity = errors.New("queue capacity must be greater than zero")

// Queue is a fixed-capacity FIFO buffer of accepted connections.
//
// Enqueue blocks while the queue is full and Dequeue blocks while it is
// empty. A full queue is how the acceptor is slowed down; connections are
// never dropped.
type Queue struct {
	// slots and items are counting semaphores. A token in slots is a slot
	// held by a stored connection, a token in items is a connection that is
	// available to consumers.
	slots chan struct{}
	items chan struct{}

	m     sync.Mutex
	buf   []net.Conn
	front int
	rear  int
	count int
}

// New returns a queue that holds at most capacity connections.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Queue{
		slots: make(chan struct{}, capacity),
		items: make(chan struct{}, capacity),
		buf:   make([]net.Conn, capacity),
	}, nil
}

// Enqueue adds conn to the rear of the queue, blocking the calling goroutine
// until a slot is free.
func (q *Queue) Enqueue(conn net.Conn) {
	q.slots <- struct{}{}

	q.m.Lock()
	q.buf[q.rear] = conn
	q.rear = (q.rear + 1) % len(q.buf)
	q.count++
	q.m.Unlock()

	q.items <- struct{}{}
}

// Dequeue removes the connection at the front of the queue, blocking the
// calling goroutine until one is available.
func (q *Queue) Dequeue() net.Conn {
	<-q.items

	q.m.Lock()
	conn := q.buf[q.front]
	q.buf[q.front] = nil
	q.front = (q.front + 1) % len(q.buf)
	q.count--
	q.m.Unlock()

	<-q.slots

	return conn
}

// Len returns the number of connections currently stored in the queue.
func (q *Queue) Len() int {
	q.m.Lock()
	defer q.m.Unlock()

	return q.count
}

// Cap returns the capacity of the queue.
func (q *Queue) Cap() int {
	return cap(q.slots)
}

// IsFull returns true if an Enqueue call would block.
func (q *Queue) IsFull() bool {
	return q.Len() == q.Cap()
}

// Close releases the queue's buffer. Connections still stored in the queue
// are closed.
//
// It must only be called once no goroutine is blocked in, or about to call,
// Enqueue or Dequeue.
func (q *Queue) Close() error {
	q.m.Lock()
	defer q.m.Unlock()

	var err error
	for q.count > 0 {
		if conn := q.buf[q.front]; conn != nil {
			err = multierr.Append(err, conn.Close())
		}
		q.buf[q.front] = nil
		q.front = (q.front + 1) % len(q.buf)
		q.count--
	}

	q.buf = nil

	return err
}
