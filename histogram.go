// Package circllhist implements a log-linear histogram: a compact,
// mergeable approximate-statistics structure over positive and negative
// real values, serializable to a compact binary wire format.
package circllhist

import "errors"

// Histogram accumulates samples into a sparse set of log-linear buckets
// and supports approximate quantiles, mean, sum and stddev over them. The
// zero value is not usable; construct one with New or a sibling
// constructor.
type Histogram struct {
	s     *store
	alloc Allocator
}

// New returns an empty Histogram with the default initial capacity and no
// fast index.
func New() *Histogram { return NewNBinsWithAllocator(0, DefaultAllocator) }

// NewNBins returns an empty Histogram pre-sized to hold nbins buckets
// without reallocating, capped at the library's maximum bin count.
func NewNBins(nbins int) *Histogram { return NewNBinsWithAllocator(nbins, DefaultAllocator) }

// NewFast returns an empty Histogram with the two-level fast lookup index
// enabled, trading memory for O(1) bucket lookups.
func NewFast() *Histogram { return NewFastNBinsWithAllocator(0, DefaultAllocator) }

// NewFastNBins combines NewNBins and NewFast.
func NewFastNBins(nbins int) *Histogram { return NewFastNBinsWithAllocator(nbins, DefaultAllocator) }

// NewWithAllocator returns an empty Histogram whose bucket storage is
// obtained from alloc instead of the Go runtime allocator directly.
func NewWithAllocator(alloc Allocator) *Histogram { return NewNBinsWithAllocator(0, alloc) }

// NewNBinsWithAllocator combines NewNBins and NewWithAllocator.
func NewNBinsWithAllocator(nbins int, alloc Allocator) *Histogram {
	return &Histogram{s: newStore(nbins, alloc), alloc: alloc}
}

// NewFastWithAllocator combines NewFast and NewWithAllocator.
func NewFastWithAllocator(alloc Allocator) *Histogram {
	return NewFastNBinsWithAllocator(0, alloc)
}

// NewFastNBinsWithAllocator combines NewFastNBins and NewWithAllocator.
func NewFastNBinsWithAllocator(nbins int, alloc Allocator) *Histogram {
	h := &Histogram{s: newStore(nbins, alloc), alloc: alloc}
	h.s.enableFast()
	return h
}

// Clone returns an independent copy of h sharing no mutable state.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{s: h.s.clone(h.alloc), alloc: h.alloc}
}

// Insert adds count samples of value val, saturating the bucket counter at
// math.MaxUint64. It returns the amount actually added.
func (h *Histogram) Insert(val float64, count uint64) uint64 {
	return h.InsertRaw(DoubleToBucket(val), count)
}

// InsertIntScale adds count samples of value*10^scale, avoiding the
// floating point rounding DoubleToBucket would introduce for integers.
func (h *Histogram) InsertIntScale(val int64, scale int32, count uint64) uint64 {
	return h.InsertRaw(IntScaleToBucket(val, scale), count)
}

// InsertRaw adds count directly to bucket b, saturating at math.MaxUint64.
// An invalid bucket (see Bucket.IsNaN) is not stored and 0 is returned.
func (h *Histogram) InsertRaw(b Bucket, count uint64) uint64 {
	return h.s.insertRaw(b, count)
}

// Remove subtracts count samples of value val, saturating the bucket
// counter at zero. It returns the amount actually removed.
func (h *Histogram) Remove(val float64, count uint64) uint64 {
	removed, _ := h.s.remove(DoubleToBucket(val), count)
	return removed
}

// ErrCounterOverflow is returned by AddAsInt64/SubtractAsInt64 when the
// requested delta would drive a bucket counter outside the range of a
// signed 64-bit integer, or below zero.
var ErrCounterOverflow = errors.New("circllhist: counter overflow")

// AddAsInt64 adds delta (which may be negative) to the bucket holding val,
// treating its counter as a signed int64 rather than Insert's saturating
// uint64. It fails with ErrCounterOverflow instead of saturating if delta
// would carry the counter past math.MaxInt64 or below zero, and otherwise
// returns the counter's new value.
func (h *Histogram) AddAsInt64(val float64, delta int64) (int64, error) {
	return h.addRawAsInt64(DoubleToBucket(val), delta)
}

// SubtractAsInt64 is AddAsInt64 with delta negated.
func (h *Histogram) SubtractAsInt64(val float64, delta int64) (int64, error) {
	return h.addRawAsInt64(DoubleToBucket(val), -delta)
}

func (h *Histogram) addRawAsInt64(b Bucket, delta int64) (int64, error) {
	idx, found := h.s.find(b)
	var cur int64
	if found {
		cur = int64(h.s.bvs[idx].count)
	}
	sum := cur + delta
	if (delta > 0 && sum < cur) || (delta < 0 && sum > cur) || sum < 0 {
		return 0, ErrCounterOverflow
	}
	h.s.setRaw(b, uint64(sum))
	return sum, nil
}

// Clear zeroes every counter in h, keeping its bucket entries and backing
// storage.
func (h *Histogram) Clear() { h.s.clear() }

// RemoveZeroes drops every bucket whose counter is currently zero,
// shrinking the histogram's reported bucket count.
func (h *Histogram) RemoveZeroes() { h.s.removeZeroes() }

// BucketCount returns the number of bucket entries stored in h, including
// entries whose counter has dropped to zero (see RemoveZeroes).
func (h *Histogram) BucketCount() int { return len(h.s.bvs) }

// SampleCount returns the total number of samples recorded in h, saturating
// at math.MaxUint64 if the sum of bucket counters overflows.
func (h *Histogram) SampleCount() uint64 {
	var total uint64
	for _, bv := range h.s.bvs {
		last := total
		total += bv.count
		if total < last {
			return ^uint64(0)
		}
	}
	return total
}

// BucketIdx returns the bucket and counter stored at position idx in
// ascending order, and false if idx is out of range.
func (h *Histogram) BucketIdx(idx int) (b Bucket, count uint64, ok bool) {
	if idx < 0 || idx >= len(h.s.bvs) {
		return Bucket{}, 0, false
	}
	bv := h.s.bvs[idx]
	return bv.bucket, bv.count, true
}

// Buckets returns the buckets of h in ascending order; use CountAt for
// their counters. The returned slice is a copy; mutating it does not
// affect h.
func (h *Histogram) Buckets() []Bucket {
	out := make([]Bucket, len(h.s.bvs))
	for i, bv := range h.s.bvs {
		out[i] = bv.bucket
	}
	return out
}

// CountAt returns the counter stored for bucket b, or 0 if b is absent.
func (h *Histogram) CountAt(b Bucket) uint64 {
	idx, found := h.s.find(b)
	if !found {
		return 0
	}
	return h.s.bvs[idx].count
}

// IsFast reports whether h maintains the O(1) fast lookup index.
func (h *Histogram) IsFast() bool { return h.s.isFast() }
