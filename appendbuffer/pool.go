package appendbuffer

import "sync"

// Pool holds a sync.Pool of pieces and creates new AppendBuffers that
// recycle their storage through it. It adapts the teacher's BufferPool:
// instead of pooling raw []byte slices of a caller-chosen block size, it
// pools fixed PieceDataCap pieces, since piece capacity is a compile-time
// constant rather than a per-pool tunable.
type Pool struct {
	pieces *sync.Pool
}

// NewPool creates a new Pool of pieces.
func NewPool() *Pool {
	return &Pool{
		pieces: &sync.Pool{
			New: func() any { return new(piece) },
		},
	}
}

// Get creates a new, empty AppendBuffer backed by this pool.
func (p *Pool) Get() *AppendBuffer {
	return &AppendBuffer{pool: p}
}

func (p *Pool) getPiece() *piece {
	pc := p.pieces.Get().(*piece)
	pc.reset()
	return pc
}

func (p *Pool) putPiece(pc *piece) {
	p.pieces.Put(pc)
}

// defaultPool backs the package-level New constructor so callers that
// don't care about sharing a Pool across buffers don't have to make one.
var defaultPool = NewPool()

// New creates a new, empty AppendBuffer backed by a shared default Pool.
func New() *AppendBuffer {
	return defaultPool.Get()
}
