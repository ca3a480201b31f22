package appendbuffer

import "io"

var (
	_ io.Reader     = &AppendBuffer{}
	_ io.Writer     = &AppendBuffer{}
	_ io.ReaderFrom = &AppendBuffer{}
	_ io.WriterTo   = &AppendBuffer{}
)

// Write appends p to the buffer. It always returns len(p), nil: see
// Append's doc comment for why a short append never occurs in this port.
func (b *AppendBuffer) Write(p []byte) (int, error) {
	n := b.Append(p)
	return int(n), nil
}

// WriteString is like Write but accepts a string, saving a copy-to-[]byte
// conversion by using copy's string overload directly against each
// piece's free tail.
func (b *AppendBuffer) WriteString(s string) (int, error) {
	n := len(s)
	if n == 0 {
		return 0, nil
	}
	if len(b.pieces) == 0 {
		b.pieces = append(b.pieces, b.pool.getPiece())
	}
	remaining := s
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
	return n, nil
}

// Read consumes up to len(p) bytes from the head of the buffer. The only
// error it returns is io.EOF, once the buffer is empty.
func (b *AppendBuffer) Read(p []byte) (int, error) {
	if b.length == 0 {
		return 0, io.EOF
	}
	n := b.Copy(0, p)
	b.MoveHead(n)
	return n, nil
}

// ReadFrom reads all data from r into the buffer using the zero-copy
// write-buffer hand-off, returning the number of bytes read and the
// error from r (io.EOF is suppressed, matching io.ReaderFrom).
func (b *AppendBuffer) ReadFrom(r io.Reader) (int64, error) {
	var ret int64
	for {
		buf, dp := b.GetWriteBuffer()
		n, err := r.Read(buf)
		if n == 0 && dp != nil {
			dp.Free()
		} else {
			b.FinishWriteBuffer(buf, dp, n)
		}
		ret += int64(n)
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return ret, err
		}
	}
}

// WriteTo writes all buffered data to w, freeing pieces as they are
// consumed. If w also implements syscall.Conn, WriteTo first tries to
// flush multiple pieces at once with unix.Writev (see writev_enabled.go).
// If an error is returned, the bytes already written have been consumed
// from the buffer but the buffer is otherwise still usable. On success
// the buffer is left empty.
func (b *AppendBuffer) WriteTo(w io.Writer) (int64, error) {
	ret, err := b.tryToWritev(w)
	if err != nil {
		return ret, err
	}
	for len(b.pieces) > 0 {
		pc := b.pieces[0]
		data := pc.data[b.firstOffset:pc.usedLen]
		n, err := w.Write(data)
		b.MoveHead(n)
		ret += int64(n)
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}
