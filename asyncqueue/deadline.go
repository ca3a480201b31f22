package asyncqueue

import (
	"sync"
	"time"
)

// condWaitUntil waits on cond, which must be held locked by the caller,
// honoring an absolute deadline. A nil deadline waits forever. It
// returns true if the caller should recheck its predicate (a real
// signal, a spurious wake-up, or a timer that fired slightly early), and
// false once deadline has actually passed.
//
// sync.Cond has no native timed wait, so this races cond.Wait() against
// a time.AfterFunc that reacquires the same lock and broadcasts once the
// deadline arrives -- the same "block on a condition, race it against an
// out-of-band wake-up channel" shape as the xcryptossh buffer's idle
// timeout (see DESIGN.md), adapted from a channel receive to a CV
// broadcast since this queue has no per-waiter channel to select on.
func condWaitUntil(cond *sync.Cond, deadline *time.Time) bool {
	if deadline == nil {
		cond.Wait()
		return true
	}
	now := time.Now()
	if !deadline.After(now) {
		return false
	}
	timer := time.AfterFunc(deadline.Sub(now), func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	cond.Wait()
	timer.Stop()
	return time.Now().Before(*deadline)
}
