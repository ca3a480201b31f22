// Package asyncqueue provides a bounded, blocking, multi-producer/
// multi-consumer FIFO queue of variable-length opaque byte messages.
// Push and pop accept an absolute deadline and may block; both have a
// non-blocking "try" variant equivalent to deadline = now.
//
// Where the original design protects its state with a mutex and two
// condition variables and broadcasts only on the empty->non-empty (push)
// and full->non-full (pop) transitions, this port keeps the same mutex+CV
// protocol (sync.Mutex + two sync.Cond), grounded on the xcryptossh
// buffer's Cond.Wait()-in-a-for-loop idiom, generalized to support an
// absolute deadline.
package asyncqueue

import (
	"errors"
	"sync"
	"time"
)

// Capacity is the compile-time bound on the number of pending messages.
const Capacity = 128

// ErrTimedOut is returned by a timed push/pop once its deadline passes
// without the operation completing.
var ErrTimedOut = errors.New("asyncqueue: timed out")

// ErrOutOfMemory is the sentinel a push would return on allocation
// failure. Go does not surface ordinary out-of-memory as a recoverable
// error, so in practice Push never returns it; it is kept for API
// fidelity with the original design's error channel.
var ErrOutOfMemory = errors.New("asyncqueue: out of memory")

// Queue is a bounded FIFO of byte-blob messages with blocking push/pop.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	messages [][]byte
}

// New constructs a Queue, immediately usable.
func New() *Queue {
	q := &Queue{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Empty reports whether the queue currently holds no pending messages.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages) == 0
}

// Len returns the current number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// Cap returns the queue's fixed capacity.
func (q *Queue) Cap() int {
	return Capacity
}

// Free drains every pending message so their backing arrays can be
// garbage collected, and resets q to an empty queue. Go's garbage
// collector reclaims the mutex and condition variables once q itself is
// unreferenced, so unlike the original design there is nothing further
// to destroy -- but the drain itself is still this type's responsibility
// and is not something a caller can safely replicate from outside the
// package. Free must not be called concurrently with any other
// operation on q.
func (q *Queue) Free() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.messages {
		q.messages[i] = nil
	}
	q.messages = nil
}

// Push blocks until there is room for data, then enqueues a copy of it.
func (q *Queue) Push(data []byte) error {
	return q.pushUntil(data, nil)
}

// TryPush enqueues data if there is immediate room, otherwise returns
// ErrTimedOut without blocking.
func (q *Queue) TryPush(data []byte) error {
	now := time.Now()
	return q.pushUntil(data, &now)
}

// PushTimed blocks until there is room for data or deadline passes,
// whichever comes first. A nil deadline blocks forever.
func (q *Queue) PushTimed(data []byte, deadline *time.Time) error {
	return q.pushUntil(data, deadline)
}

func (q *Queue) pushUntil(data []byte, deadline *time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.messages) == Capacity {
		if !condWaitUntil(q.notFull, deadline) {
			return ErrTimedOut
		}
	}

	msg := make([]byte, len(data))
	copy(msg, data)

	wasEmpty := len(q.messages) == 0
	q.messages = append(q.messages, msg)
	if wasEmpty {
		q.notEmpty.Broadcast()
	}
	return nil
}

// Pop blocks until a message is available, then removes and returns the
// oldest one (FIFO).
func (q *Queue) Pop() ([]byte, error) {
	return q.popUntil(nil)
}

// TryPop removes and returns the oldest message if one is immediately
// available, otherwise returns ErrTimedOut without blocking.
func (q *Queue) TryPop() ([]byte, error) {
	now := time.Now()
	return q.popUntil(&now)
}

// PopTimed blocks until a message is available or deadline passes,
// whichever comes first. A nil deadline blocks forever.
func (q *Queue) PopTimed(deadline *time.Time) ([]byte, error) {
	return q.popUntil(deadline)
}

func (q *Queue) popUntil(deadline *time.Time) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.messages) == 0 {
		if !condWaitUntil(q.notEmpty, deadline) {
			return nil, ErrTimedOut
		}
	}

	msg := q.messages[0]
	q.messages[0] = nil
	q.messages = q.messages[1:]

	wasFull := len(q.messages)+1 == Capacity
	if wasFull {
		q.notFull.Broadcast()
	}
	return msg, nil
}
