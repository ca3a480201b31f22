//go:build linux || illumos

package appendbuffer

import (
	"io"
	"syscall"

	"golang.org/x/sys/unix"
)

// tryToWritev flushes as many whole pieces as possible in a single
// writev(2) call when w is backed by a syscall.Conn. It may do partial
// writes and leave the last piece for WriteTo's regular Write loop.
func (b *AppendBuffer) tryToWritev(w io.Writer) (int64, error) {
	if len(b.pieces) <= 1 {
		return 0, nil
	}
	sc, ok := w.(syscall.Conn)
	if !ok {
		return 0, nil
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, nil
	}
	var ret int64
	bufs := make([][]byte, len(b.pieces))
	defer func() {
		for i := range bufs {
			bufs[i] = nil
		}
	}()
	for len(b.pieces) > 1 {
		var writevErr error
		err = rc.Write(func(fd uintptr) bool {
			for i, pc := range b.pieces {
				start := 0
				if i == 0 {
					start = b.firstOffset
				}
				bufs[i] = pc.data[start:pc.usedLen]
			}
			var n int
			n, writevErr = unix.Writev(int(fd), bufs[:len(b.pieces)])
			if n > 0 {
				b.MoveHead(n)
				ret += int64(n)
			}
			if writevErr == syscall.EINTR || writevErr == syscall.EAGAIN {
				writevErr = nil
			}
			return len(b.pieces) == 0 || writevErr != nil
		})
		if writevErr != nil {
			return ret, err
		}
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}
