package appendbuffer

// AppendBuffer is a FIFO byte buffer built as an ordered sequence of
// fixed-capacity pieces. It supports append-at-tail (filling the last
// piece before allocating new ones), random-offset read-only copy-out,
// head-trim by byte count, and a direct-write zero-copy hand-off of a
// piece's interior.
//
// AppendBuffer is not safe for concurrent use; callers sharing an
// instance across goroutines must serialize their own access, the way a
// parser stage serializes reads from the buffer it consumes and writes
// to the buffer it produces into.
type AppendBuffer struct {
	pool        *Pool
	pieces      []*piece
	firstOffset int
	length      int
}

// Length returns the number of live bytes currently held.
func (b *AppendBuffer) Length() uint32 {
	return uint32(b.length)
}

// Len is Length as a plain int, for callers that don't need the u32
// boundary contract (e.g. slice-sizing).
func (b *AppendBuffer) Len() int {
	return b.length
}

// Free releases every piece back to the pool and resets b to its
// just-initialized state.
func (b *AppendBuffer) Free() {
	for _, pc := range b.pieces {
		b.pool.putPiece(pc)
	}
	b.pieces = nil
	b.firstOffset = 0
	b.length = 0
}

// Move transfers full ownership of src's pieces and scalars to b in O(1),
// resetting src to its just-initialized state. Any pieces b currently
// holds are released first.
func (b *AppendBuffer) Move(src *AppendBuffer) {
	b.Free()
	b.pool = src.pool
	b.pieces = src.pieces
	b.firstOffset = src.firstOffset
	b.length = src.length
	src.pieces = nil
	src.firstOffset = 0
	src.length = 0
}

// Clone returns a newly allocated AppendBuffer holding a deep copy of b's
// bytes: every piece is copied in order preserving used length, and
// first_offset/length are copied. b is left unmodified. Clone always
// succeeds; Go's allocator does not surface ordinary out-of-memory as a
// recoverable partial-failure the way the original design's clone could,
// so there is no unwind path to reproduce.
func (b *AppendBuffer) Clone() *AppendBuffer {
	dst := b.pool.Get()
	dst.firstOffset = b.firstOffset
	dst.length = b.length
	if len(b.pieces) == 0 {
		return dst
	}
	dst.pieces = make([]*piece, len(b.pieces))
	for i, pc := range b.pieces {
		np := b.pool.getPiece()
		np.usedLen = pc.usedLen
		copy(np.data[:pc.usedLen], pc.data[:pc.usedLen])
		dst.pieces[i] = np
	}
	return dst
}

// Append appends up to len(data) bytes to the tail, filling the current
// last piece's free tail first and allocating new pieces as needed. It
// returns the number of bytes actually appended, which is always
// len(data) in this port (see Clone's doc comment for why): the return
// value is kept to preserve the original API's short-append contract for
// callers that want to treat it as authoritative.
func (b *AppendBuffer) Append(data []byte) uint32 {
	n := len(data)
	if n == 0 {
		return 0
	}
	if len(b.pieces) == 0 {
		b.pieces = append(b.pieces, b.pool.getPiece())
	}
	remaining := data
	for len(remaining) > 0 {
		last := b.pieces[len(b.pieces)-1]
		free := last.freeLen()
		if free == 0 {
			last = b.pool.getPiece()
			b.pieces = append(b.pieces, last)
			free = last.freeLen()
		}
		take := len(remaining)
		if take > free {
			take = free
		}
		copy(last.data[last.usedLen:int(last.usedLen)+take], remaining[:take])
		last.usedLen += uint8(take)
		remaining = remaining[take:]
	}
	b.length += n
	return uint32(n)
}

// Copy copies at most len(out) bytes starting at logical offset into out,
// without mutating the buffer. It returns the number of bytes actually
// copied: short if offset+len(out) exceeds Length, zero if offset is at
// or past Length.
func (b *AppendBuffer) Copy(offset int, out []byte) int {
	if offset < 0 || offset >= b.length || len(out) == 0 {
		return 0
	}
	want := len(out)
	if offset+want > b.length {
		want = b.length - offset
	}
	copied := 0
	pos := 0
	for i, pc := range b.pieces {
		var pieceLen int
		if i == 0 {
			pieceLen = int(pc.usedLen) - b.firstOffset
		} else {
			pieceLen = int(pc.usedLen)
		}
		pieceEnd := pos + pieceLen
		if offset < pieceEnd {
			inPiece := offset - pos
			base := inPiece
			if i == 0 {
				base += b.firstOffset
			}
			avail := pieceLen - inPiece
			take := want - copied
			if take > avail {
				take = avail
			}
			copy(out[copied:copied+take], pc.data[base:base+take])
			copied += take
			offset += take
			if copied == want {
				break
			}
		}
		pos += pieceLen
	}
	return copied
}

// MoveHead advances the logical head by add bytes, freeing any pieces
// that become fully consumed.
//
//   - add == length: the entire buffer is freed; returns true.
//   - add > length: the entire buffer is freed (destructive); returns false.
//   - add < length: pieces strictly before the new head are freed, the
//     surviving first piece's first_offset is updated; returns true.
func (b *AppendBuffer) MoveHead(add int) bool {
	if add == b.length {
		b.Free()
		return true
	}
	if add > b.length {
		b.Free()
		return false
	}
	remaining := add
	for remaining > 0 {
		first := b.pieces[0]
		avail := int(first.usedLen) - b.firstOffset
		if remaining < avail {
			b.firstOffset += remaining
			remaining = 0
		} else {
			remaining -= avail
			b.pool.putPiece(first)
			b.pieces = b.pieces[1:]
			b.firstOffset = 0
		}
	}
	b.length -= add
	return true
}

// GetEndFree returns the unused tail region of the last piece for direct
// writing, and true. It returns nil, false if the buffer is empty or the
// last piece has no free tail.
func (b *AppendBuffer) GetEndFree() ([]byte, bool) {
	if len(b.pieces) == 0 {
		return nil, false
	}
	last := b.pieces[len(b.pieces)-1]
	free := last.freeLen()
	if free == 0 {
		return nil, false
	}
	return last.data[last.usedLen:PieceDataCap], true
}

// MoveEnd extends length by add bytes into the tail free region of the
// last piece, previously filled by the caller via GetEndFree. It fails
// (returns false) if add exceeds the last piece's free space, is
// negative, or the buffer is empty.
func (b *AppendBuffer) MoveEnd(add int) bool {
	if add < 0 || len(b.pieces) == 0 {
		return false
	}
	last := b.pieces[len(b.pieces)-1]
	if add > last.freeLen() {
		return false
	}
	last.usedLen += uint8(add)
	b.length += add
	return true
}

// DetachedPiece is a piece allocated outside any AppendBuffer, returned
// by (*Pool).NewPiece for a caller to fill directly and either attach via
// (*AppendBuffer).AppendPiece or release via Free.
//
// This replaces the original design's container-of trick (recovering an
// owning buffer from a raw pointer into piece storage): the detached
// piece is a distinct owned value, and AppendPiece/Free consume it
// explicitly instead of reinterpreting a pointer.
type DetachedPiece struct {
	pool *Pool
	p    *piece
}

// NewPiece allocates a detached piece and returns it.
func (p *Pool) NewPiece() *DetachedPiece {
	return &DetachedPiece{pool: p, p: p.getPiece()}
}

// Data returns the full writable capacity of the detached piece.
func (dp *DetachedPiece) Data() []byte {
	return dp.p.data[:PieceDataCap]
}

// Free releases a detached piece that was never attached to a buffer.
// Calling Free on a piece already consumed by AppendPiece is a no-op.
func (dp *DetachedPiece) Free() {
	if dp.p == nil {
		return
	}
	dp.pool.putPiece(dp.p)
	dp.p = nil
	dp.pool = nil
}

// AppendPiece attaches a detached piece at the tail, taking ownership of
// it and reporting used bytes as live. The last piece currently in b (if
// any) must have zero free tail; otherwise AppendPiece returns false and
// ownership of dp is not transferred (the caller must still Free it).
func (b *AppendBuffer) AppendPiece(dp *DetachedPiece, used int) bool {
	if dp == nil || dp.p == nil || used < 0 || used > PieceDataCap {
		return false
	}
	if len(b.pieces) > 0 {
		last := b.pieces[len(b.pieces)-1]
		if last.freeLen() != 0 {
			return false
		}
	}
	dp.p.usedLen = uint8(used)
	b.pieces = append(b.pieces, dp.p)
	b.length += used
	dp.p = nil
	dp.pool = nil
	return true
}

// GetWriteBuffer returns a writable region for the caller to fill
// directly: GetEndFree's tail if non-empty, otherwise a freshly allocated
// detached piece (returned as dp, non-nil). Pair with FinishWriteBuffer.
func (b *AppendBuffer) GetWriteBuffer() (buf []byte, dp *DetachedPiece) {
	if buf, ok := b.GetEndFree(); ok {
		return buf, nil
	}
	dp = b.pool.NewPiece()
	return dp.Data(), dp
}

// FinishWriteBuffer completes the pairing started by GetWriteBuffer: if
// dp is nil (the buf came from an in-place tail), it calls MoveEnd;
// otherwise it calls AppendPiece on dp.
func (b *AppendBuffer) FinishWriteBuffer(buf []byte, dp *DetachedPiece, used int) bool {
	if used < 0 || used > len(buf) {
		return false
	}
	if dp == nil {
		return b.MoveEnd(used)
	}
	return b.AppendPiece(dp, used)
}

// Bytes drains all data into a single freshly allocated contiguous slice,
// leaving the buffer empty.
func (b *AppendBuffer) Bytes() []byte {
	out := make([]byte, b.length)
	b.Copy(0, out)
	b.Free()
	return out
}

// Reset discards the buffer's contents back to its pool.
func (b *AppendBuffer) Reset() {
	b.Free()
}
