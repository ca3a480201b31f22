// Package libds is the front door of a small library of two composable
// building blocks for moving streaming byte data between producers and
// consumers: an appendable scatter/gather byte buffer (package
// appendbuffer) and a bounded, blocking, multi-producer/multi-consumer
// message queue (package asyncqueue).
//
// Most callers should import the subpackages directly --
// "github.com/jkivilin/libds/appendbuffer" and
// "github.com/jkivilin/libds/asyncqueue" -- this package only re-exports
// their constructors for the common case of wanting both without
// remembering two import paths.
package libds

import (
	"github.com/jkivilin/libds/appendbuffer"
	"github.com/jkivilin/libds/asyncqueue"
)

// NewAppendBuffer creates a new, empty AppendBuffer backed by a shared
// default piece pool. See appendbuffer.New.
func NewAppendBuffer() *appendbuffer.AppendBuffer {
	return appendbuffer.New()
}

// NewAsyncQueue constructs a bounded AsyncQueue, immediately usable. See
// asyncqueue.New.
func NewAsyncQueue() *asyncqueue.Queue {
	return asyncqueue.New()
}
