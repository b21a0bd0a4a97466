package circllhist

import "sync"

// Allocator models the pluggable malloc/calloc/free hook the original
// library takes per-histogram, reduced to an allocate and a release
// operation (Go zeroes new memory, so there is no separate zero-alloc), so
// a Histogram can opt into pooled backing storage instead of the runtime
// allocator. A Histogram takes its initial bucket slice, and a clone's,
// from its Allocator; later growth goes through append.
type Allocator interface {
	// AllocBuckets returns a slice of bucketValue with at least the
	// requested capacity and zero length.
	AllocBuckets(capacity int) []bucketValue
	// ReleaseBuckets takes back a slice obtained from AllocBuckets. Nothing
	// in this package calls it: a Histogram does not release its storage
	// when it is reset or dropped.
	ReleaseBuckets([]bucketValue)
}

// defaultAllocator defers straight to the Go runtime allocator.
type defaultAllocator struct{}

func (defaultAllocator) AllocBuckets(capacity int) []bucketValue {
	return make([]bucketValue, 0, capacity)
}

func (defaultAllocator) ReleaseBuckets([]bucketValue) {}

// DefaultAllocator is the zero-configuration Allocator used by New and its
// siblings.
var DefaultAllocator Allocator = defaultAllocator{}

// PoolAllocator recycles bucketValue backing arrays through a sync.Pool,
// for callers that churn through many short-lived histograms (e.g. one per
// request) and want to avoid repeated large allocations.
type PoolAllocator struct {
	pool sync.Pool
}

// NewPoolAllocator returns an Allocator backed by a sync.Pool of bucket
// slices pre-sized to defaultGrowth capacity.
func NewPoolAllocator() *PoolAllocator {
	p := &PoolAllocator{}
	p.pool.New = func() any {
		s := make([]bucketValue, 0, defaultGrowth)
		return &s
	}
	return p
}

// AllocBuckets implements Allocator.
func (p *PoolAllocator) AllocBuckets(capacity int) []bucketValue {
	sp := p.pool.Get().(*[]bucketValue)
	s := *sp
	if cap(s) < capacity {
		s = make([]bucketValue, 0, capacity)
	}
	return s[:0]
}

// ReleaseBuckets implements Allocator, returning buf to the pool for reuse.
func (p *PoolAllocator) ReleaseBuckets(buf []bucketValue) {
	buf = buf[:0]
	p.pool.Put(&buf)
}
