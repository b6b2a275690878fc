package image

import "sync"

// DefaultMaxRetain is the largest scratch buffer Pool keeps by default.
// Bigger buffers are handed to the GC on Put.
const DefaultMaxRetain = 64 << 20

// DefaultMaxTotal is the default limit on the bytes a Pool retains across
// all sizes.
const DefaultMaxTotal = 64 << 20

// Pool is a thread-safe pool of scratch byte buffers grouped by length.
//
// Retention is bounded per bucket (maxPerBucket) and in total
// (DefaultMaxTotal). When a Put would exceed the total, buffers of other
// sizes are evicted first, so a pool follows the sizes currently in use.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu        sync.Mutex
	buckets   map[int][][]byte
	retained  int // bytes held across all buckets
	maxSize   int // max buffers per bucket
	maxRetain int // max bytes per retained buffer
	maxTotal  int // max bytes across all buckets
}

// NewPool creates a new scratch pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means no per-bucket limit; the total limit still applies.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets:   make(map[int][][]byte),
		maxSize:   maxPerBucket,
		maxRetain: DefaultMaxRetain,
		maxTotal:  DefaultMaxTotal,
	}
}

// Get returns a zeroed buffer of exactly size bytes.
func (p *Pool) Get(size int) []byte {
	p.mu.Lock()
	bucket := p.buckets[size]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.take(size)
		p.mu.Unlock()

		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]byte, size)
}

// Put returns buf to the pool. Nil, empty and oversized buffers are dropped,
// as are buffers for a bucket that is already full.
func (p *Pool) Put(buf []byte) {
	n := len(buf)
	if n == 0 || n > p.maxRetain || n > p.maxTotal {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	for p.retained+n > p.maxTotal {
		if !p.evict(n) {
			return
		}
	}
	p.buckets[n] = append(p.buckets[n], buf)
	p.retained += n
}

// take removes the last buffer of the size bucket. p.mu must be held.
func (p *Pool) take(size int) {
	bucket := p.buckets[size]
	bucket[len(bucket)-1] = nil
	if len(bucket) == 1 {
		delete(p.buckets, size)
	} else {
		p.buckets[size] = bucket[:len(bucket)-1]
	}
	p.retained -= size
}

// evict drops one buffer whose size differs from keep.
// Reports false if there is none. p.mu must be held.
func (p *Pool) evict(keep int) bool {
	for size := range p.buckets {
		if size != keep {
			p.take(size)
			return true
		}
	}
	return false
}

// Len returns the number of buffers currently retained for size.
func (p *Pool) Len(size int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[size])
}

// Retained returns the number of bytes currently held by the pool.
func (p *Pool) Retained() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retained
}
