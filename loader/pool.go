package loader

import "sync"

// BufferPool maintains a sync.Pool of byte buffers for each distinct pixel
// buffer size requested from it, so decoding many same-resolution images in
// a row (a directory of photos from the same camera, say) doesn't churn the
// allocator on every file.
type BufferPool struct {
	cache map[int]*sync.Pool
	mu    sync.Mutex
}

// NewBufferPool creates an empty BufferPool.
func NewBufferPool() *BufferPool {
	return &BufferPool{cache: make(map[int]*sync.Pool)}
}

func (p *BufferPool) pool(size int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool, ok := p.cache[size]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		}
		p.cache[size] = pool
	}
	return pool
}

// Get returns a byte slice of exactly size bytes, reused from the pool when
// available. A reused slice is not cleared.
func (p *BufferPool) Get(size int) []byte {
	buf := p.pool(size).Get().(*[]byte)
	return *buf
}

// Put returns buf to the pool for reuse by a future Get of the same size.
func (p *BufferPool) Put(buf []byte) {
	p.pool(len(buf)).Put(&buf)
}
