package watch

import (
	"sync"
	"time"
)

// Event is one raw file awaiting incremental processing.
type Event struct {
	Instrument string
	Date       time.Time
	Path       string
}

// Queue is a growable thread-safe FIFO of file events. A burst of file
// drops never blocks the fsnotify event loop: the ring doubles its
// capacity as it fills instead of applying backpressure.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []Event
	head   int
	tail   int
	count  int
	closed bool
}

// NewQueue creates a queue with the given initial capacity.
func NewQueue(initialCapacity int) *Queue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	q := &Queue{buf: make([]Event, initialCapacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues an event, growing the ring when full. Returns false if the
// queue is closed.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.count == len(q.buf) {
		q.grow()
	}

	q.buf[q.tail] = ev
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++

	q.cond.Signal()
	return true
}

// Pop blocks until an event is available or the queue is closed and
// drained. The second return is false only in the latter case.
func (q *Queue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.count == 0 {
		return Event{}, false
	}

	ev := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return ev, true
}

// Close stops accepting events. Pending events remain poppable; Pop
// returns false once the queue is drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// grow doubles capacity. Caller holds the lock.
func (q *Queue) grow() {
	next := make([]Event, len(q.buf)*2)
	if q.head < q.tail {
		copy(next, q.buf[q.head:q.tail])
	} else if q.count > 0 {
		n := copy(next, q.buf[q.head:])
		copy(next[n:], q.buf[:q.tail])
	}
	q.buf = next
	q.head = 0
	q.tail = q.count
}
