package image

import "sync"

// Pool is a thread-safe pool for reusing FloatBuf instances.
//
// Buffers are grouped by dimensions so that identically sized intermediate
// results of consecutive jobs share storage.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*FloatBuf
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
}

// NewPool creates a pool keeping at most maxPerBucket buffers per size.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*FloatBuf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the given size, reusing a pooled one when
// available.
func (p *Pool) Get(width, height int) (*FloatBuf, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewFloatBuf(width, height)
}

// Put returns a buffer to the pool. Nil buffers and buffers beyond the
// bucket capacity are dropped.
func (p *Pool) Put(buf *FloatBuf) {
	if buf == nil {
		return
	}
	key := poolKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers of the given size.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height}])
}
