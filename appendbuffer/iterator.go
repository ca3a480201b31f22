package appendbuffer

// Iterator is a forward-only byte cursor over an AppendBuffer. It is
// valid only while the buffer is not structurally modified: Append,
// AppendPiece, MoveHead, MoveEnd, Free, Move, FinishWriteBuffer, or a
// Clone into the buffer all invalidate outstanding iterators.
//
// Where the original design recovers the owning piece from a raw
// pointer, Iterator instead holds an index into the buffer's piece
// slice plus an in-piece offset, matching the ownership-by-value model
// AppendBuffer uses for its pieces.
type Iterator struct {
	b        *AppendBuffer
	pieceIdx int
	ppos     int
	pmax     int
	pos      int
	atEnd    bool
}

// IteratorInit positions a new Iterator at the first live byte of b.
func (b *AppendBuffer) IteratorInit() *Iterator {
	it := &Iterator{b: b}
	if b.length == 0 {
		it.atEnd = true
		return it
	}
	it.ppos = b.firstOffset
	it.pmax = int(b.pieces[0].usedLen)
	return it
}

// HasReachedEnd reports whether the iterator has consumed every live
// byte.
func (it *Iterator) HasReachedEnd() bool {
	return it.atEnd
}

// Byte returns the byte at the iterator's current position. It must not
// be called once HasReachedEnd is true.
func (it *Iterator) Byte() byte {
	return it.b.pieces[it.pieceIdx].data[it.ppos]
}

// Pos returns the iterator's absolute logical position from the start
// of the buffer (0-based, accounting for the buffer's first_offset).
func (it *Iterator) Pos() int {
	return it.pos
}

// Forward advances the iterator by k bytes. If advancing crosses the end
// of the buffer, the iterator reaches end and Pos reports the total
// bytes actually advanced (at most the buffer's length).
func (it *Iterator) Forward(k int) {
	for k > 0 && !it.atEnd {
		remaining := it.pmax - it.ppos
		if k < remaining {
			it.ppos += k
			it.pos += k
			return
		}
		it.pos += remaining
		k -= remaining
		it.pieceIdx++
		if it.pieceIdx >= len(it.b.pieces) {
			it.atEnd = true
			return
		}
		it.ppos = 0
		it.pmax = int(it.b.pieces[it.pieceIdx].usedLen)
	}
}
