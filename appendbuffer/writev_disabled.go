//go:build !linux && !illumos

package appendbuffer

import "io"

// tryToWritev is a no-op on platforms without a wired-up writev fast
// path; WriteTo falls back entirely to its regular per-piece Write loop.
func (b *AppendBuffer) tryToWritev(w io.Writer) (int64, error) {
	return 0, nil
}
