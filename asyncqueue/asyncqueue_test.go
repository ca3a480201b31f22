package asyncqueue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jkivilin/libds/asyncqueue"
)

// TestSinglePair is scenario 5: a single try_push/try_pop round trip.
func TestSinglePair(t *testing.T) {
	q := asyncqueue.New()
	require.NoError(t, q.TryPush([]byte("test")))

	m, err := q.TryPop()
	require.NoError(t, err)
	assert.Equal(t, "test", string(m))
	assert.True(t, q.Empty())
}

// TestPopTimedOnEmptyQueue is scenario 6: popping an empty queue with a
// 1s deadline must not return before that deadline elapses.
func TestPopTimedOnEmptyQueue(t *testing.T) {
	q := asyncqueue.New()
	t0 := time.Now()
	deadline := t0.Add(time.Second)
	_, err := q.PopTimed(&deadline)
	elapsed := time.Since(t0)
	assert.ErrorIs(t, err, asyncqueue.ErrTimedOut)
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

// TestTryPopOnEmptyQueueIsImmediate checks the {0,0}-deadline-equivalent
// try variant returns immediately rather than blocking.
func TestTryPopOnEmptyQueueIsImmediate(t *testing.T) {
	q := asyncqueue.New()
	t0 := time.Now()
	_, err := q.TryPop()
	assert.ErrorIs(t, err, asyncqueue.ErrTimedOut)
	assert.Less(t, time.Since(t0), 50*time.Millisecond)
}

// TestPushBlocksUntilSpaceIsAvailable checks that a full queue's pusher
// unblocks only once a consumer makes room (P8: size never exceeds
// Capacity).
func TestPushBlocksUntilSpaceIsAvailable(t *testing.T) {
	q := asyncqueue.New()
	for i := 0; i < asyncqueue.Capacity; i++ {
		require.NoError(t, q.TryPush([]byte{byte(i)}))
	}
	require.ErrorIs(t, q.TryPush([]byte("overflow")), asyncqueue.ErrTimedOut)

	unblocked := make(chan error, 1)
	go func() {
		unblocked <- q.Push([]byte("room"))
	}()

	select {
	case <-unblocked:
		t.Fatal("Push returned before any room was made")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := q.Pop()
	require.NoError(t, err)

	select {
	case err := <-unblocked:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after Pop made room")
	}
	assert.Equal(t, asyncqueue.Capacity, q.Len())
}

// TestProducersConsumers is scenario 7: 10 producers each pushing 1024
// messages, 10 consumers each popping until they've consumed 1024,
// verifying the queue drains completely and each consumer's count is
// exactly 1024.
func TestProducersConsumers(t *testing.T) {
	const (
		numProducers    = 10
		numConsumers    = 10
		perProducerMsgs = 1024
	)
	q := asyncqueue.New()

	var g errgroup.Group
	for p := 0; p < numProducers; p++ {
		p := p
		g.Go(func() error {
			for i := 0; i < perProducerMsgs; i++ {
				if err := q.Push([]byte(fmt.Sprintf("p%d-%d", p, i))); err != nil {
					return err
				}
			}
			return nil
		})
	}

	counts := make([]int, numConsumers)
	var consumerWG sync.WaitGroup
	consumerWG.Add(numConsumers)
	for c := 0; c < numConsumers; c++ {
		c := c
		go func() {
			defer consumerWG.Done()
			for counts[c] < perProducerMsgs {
				if _, err := q.Pop(); err == nil {
					counts[c]++
				}
			}
		}()
	}

	require.NoError(t, g.Wait())
	consumerWG.Wait()

	assert.True(t, q.Empty())
	total := 0
	for _, c := range counts {
		assert.Equal(t, perProducerMsgs, c)
		total += c
	}
	assert.Equal(t, numProducers*perProducerMsgs, total)
}

// TestSingleProducerFIFO is P7: with only one producer, pops observe
// push order.
func TestSingleProducerFIFO(t *testing.T) {
	q := asyncqueue.New()
	const n = 500
	go func() {
		for i := 0; i < n; i++ {
			_ = q.Push([]byte{byte(i)})
		}
	}()
	for i := 0; i < n; i++ {
		m, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, byte(i), m[0])
	}
}

// TestPushThenPopRoundTripsBytes is P6: after push on an empty queue, a
// pop returns byte-equal, same-length data.
func TestPushThenPopRoundTripsBytes(t *testing.T) {
	q := asyncqueue.New()
	payload := []byte("round trip payload")
	require.NoError(t, q.Push(payload))
	m, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, payload, m)
}

// TestRunWorkersConsumesAllMessages drives a real Queue through
// RunWorkers with a fan-out of consumers, checking every produced
// message is consumed exactly once and that the context-cancellation
// stop path returns a nil error.
func TestRunWorkersConsumesAllMessages(t *testing.T) {
	q := asyncqueue.New()
	const total = 500

	var produced sync.WaitGroup
	produced.Add(1)
	go func() {
		defer produced.Done()
		for i := 0; i < total; i++ {
			_ = q.Push([]byte{byte(i >> 8), byte(i)})
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var consumed int64
	seen := make([]int32, total)
	runErr := q.RunWorkers(ctx, 4, func(msg []byte) error {
		idx := int(msg[0])<<8 | int(msg[1])
		atomic.AddInt32(&seen[idx], 1)
		if atomic.AddInt64(&consumed, 1) == int64(total) {
			cancel()
		}
		return nil
	})

	produced.Wait()
	assert.NoError(t, runErr)
	assert.Equal(t, int64(total), atomic.LoadInt64(&consumed))
	for i, c := range seen {
		assert.Equal(t, int32(1), c, "message %d consumed %d times", i, c)
	}
	assert.True(t, q.Empty())
}

// TestRunWorkersPropagatesFnError checks that an error returned by fn
// stops every worker and is surfaced as RunWorkers' return value.
func TestRunWorkersPropagatesFnError(t *testing.T) {
	q := asyncqueue.New()
	require.NoError(t, q.Push([]byte("trigger")))

	wantErr := errors.New("boom")
	err := q.RunWorkers(context.Background(), 2, func([]byte) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
