package asyncqueue

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// pollInterval bounds how long popWithContext can block before it
// rechecks ctx, since a Queue wait has no native cancellation channel.
const pollInterval = 50 * time.Millisecond

// RunWorkers spawns n consumer goroutines over an errgroup.Group, each
// calling fn with a message popped from q until ctx is done or fn
// returns an error, at which point every worker stops and the first
// error is returned. This generalizes the single-consumer assumption of
// a plain Pop loop to the bounded-fan-out shape used elsewhere in the
// pack for worker pools (see DESIGN.md).
func (q *Queue) RunWorkers(ctx context.Context, n int, fn func([]byte) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for {
				msg, err := q.popWithContext(ctx)
				if err != nil {
					if err == context.Canceled || err == context.DeadlineExceeded {
						return nil
					}
					return err
				}
				if err := fn(msg); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}

// popWithContext pops a message, rechecking ctx every pollInterval so a
// canceled context doesn't leave a worker blocked indefinitely on an
// empty queue.
func (q *Queue) popWithContext(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		deadline := time.Now().Add(pollInterval)
		msg, err := q.PopTimed(&deadline)
		if err == nil {
			return msg, nil
		}
		if err == ErrTimedOut {
			continue
		}
		return nil, err
	}
}
