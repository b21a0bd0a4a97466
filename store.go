package circllhist

// defaultGrowth is the default initial capacity, in (bucket, count) slots,
// of a new store, matching the original's DEFAULT_HIST_SIZE. A full store
// grows through append, not in steps of this size.
const defaultGrowth = 100

// maxBins bounds how many distinct buckets a histogram can ever hold:
// the NaN bucket, the zero bucket, and 90 mantissa values for each of
// the 256 possible exponent bytes, doubled for sign.
const maxBins = 2 + 2*90*256

// bucketValue pairs a bucket with its saturating counter, kept sorted by
// Bucket.Compare order inside store.bvs.
type bucketValue struct {
	bucket Bucket
	count  uint64
}

// store is the sparse, sorted array of (bucket, count) pairs backing a
// Histogram, with an optional two-level fast index trading memory for
// O(1) bucket lookup.
type store struct {
	bvs  []bucketValue
	fast [][]uint16 // fast[expByte] is nil or a 256-entry slice of 1-based bvs index
}

func newStore(nbins int, alloc Allocator) *store {
	if nbins < 1 {
		nbins = defaultGrowth
	}
	if nbins > maxBins {
		nbins = maxBins
	}
	return &store{bvs: alloc.AllocBuckets(nbins)}
}

func (s *store) enableFast() {
	if s.fast == nil {
		s.fast = make([][]uint16, 256)
		for i, bv := range s.bvs {
			s.reindexFastAt(i, bv.bucket)
		}
	}
}

func (s *store) isFast() bool { return s.fast != nil }

func (s *store) reindexFastAt(idx int, b Bucket) {
	expByte := uint8(b.Exp)
	valByte := uint8(b.Val)
	if s.fast[expByte] == nil {
		s.fast[expByte] = make([]uint16, 256)
	}
	s.fast[expByte][valByte] = uint16(idx + 1)
}

// find performs the binary search (with fast-index short-circuit) used by
// the original implementation: it returns (idx, true) when b is present at
// bvs[idx], or (idx, false) when b belongs at bvs[idx] (shifting the rest
// forward by one on insert).
func (s *store) find(b Bucket) (idx int, found bool) {
	if s.isFast() {
		expByte := uint8(b.Exp)
		valByte := uint8(b.Val)
		if lvl := s.fast[expByte]; lvl != nil {
			if i := lvl[valByte]; i != 0 {
				return int(i - 1), true
			}
		}
	}

	l, r := 0, len(s.bvs)
	for l < r {
		check := (l + r) / 2
		switch cmp := s.bvs[check].bucket.Compare(b); {
		case cmp == 0:
			return check, true
		case cmp < 0:
			l = check + 1
		default:
			r = check
		}
	}
	return l, false
}

// insertRaw adds count to the bucket b (creating it if absent), saturating
// at math.MaxUint64. It returns the amount actually added, which is less
// than count only if the counter saturated. An invalid bucket is not stored
// and 0 is returned.
func (s *store) insertRaw(b Bucket, count uint64) uint64 {
	if b.IsNaN() {
		return 0
	}
	idx, found := s.find(b)
	if found {
		cur := s.bvs[idx].count
		newval := cur + count
		if newval < cur {
			newval = ^uint64(0)
		}
		applied := newval - cur
		s.bvs[idx].count = newval
		return applied
	}

	s.bvs = append(s.bvs, bucketValue{})
	copy(s.bvs[idx+1:], s.bvs[idx:len(s.bvs)-1])
	s.bvs[idx] = bucketValue{bucket: b, count: count}

	if s.isFast() {
		for i := idx; i < len(s.bvs); i++ {
			s.reindexFastAt(i, s.bvs[i].bucket)
		}
	}
	return count
}

// setRaw overwrites the counter of bucket b with count, creating the entry
// if absent, and returns the previous counter value (0 if the bucket was
// absent).
func (s *store) setRaw(b Bucket, count uint64) uint64 {
	idx, found := s.find(b)
	if found {
		prev := s.bvs[idx].count
		s.bvs[idx].count = count
		return prev
	}

	s.bvs = append(s.bvs, bucketValue{})
	copy(s.bvs[idx+1:], s.bvs[idx:len(s.bvs)-1])
	s.bvs[idx] = bucketValue{bucket: b, count: count}

	if s.isFast() {
		for i := idx; i < len(s.bvs); i++ {
			s.reindexFastAt(i, s.bvs[i].bucket)
		}
	}
	return 0
}

// remove subtracts count from bucket b, saturating at zero. It returns the
// amount actually removed, and false if b is not present at all.
func (s *store) remove(b Bucket, count uint64) (removed uint64, ok bool) {
	idx, found := s.find(b)
	if !found {
		return 0, false
	}
	cur := s.bvs[idx].count
	newval := cur - count
	if newval > cur {
		newval = 0
	}
	s.bvs[idx].count = newval
	return cur - newval, true
}

// clear zeroes every stored counter in place; the bucket set and fast
// index rows are retained (matching the original's in-place hist_clear).
func (s *store) clear() {
	for i := range s.bvs {
		s.bvs[i].count = 0
	}
}

// reset truncates the store to empty, discarding the bucket set entirely.
// Used by Deserialize, which replaces the whole histogram contents.
func (s *store) reset() {
	s.bvs = s.bvs[:0]
	if s.fast != nil {
		for i := range s.fast {
			s.fast[i] = nil
		}
	}
}

func (s *store) clone(alloc Allocator) *store {
	bvs := alloc.AllocBuckets(len(s.bvs))
	bvs = append(bvs, s.bvs...)
	out := &store{bvs: bvs}
	if s.fast != nil {
		out.enableFast()
	}
	return out
}

// removeZeroes compacts out every entry whose count is zero.
func (s *store) removeZeroes() {
	kept := s.bvs[:0]
	for _, bv := range s.bvs {
		if bv.count != 0 {
			kept = append(kept, bv)
		}
	}
	s.bvs = kept
	if s.fast != nil {
		for i := range s.fast {
			s.fast[i] = nil
		}
		for i, bv := range s.bvs {
			s.reindexFastAt(i, bv.bucket)
		}
	}
}
