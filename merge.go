package circllhist

import "math"

// Accumulate merges srcs into h using a saturating sum: every bucket
// present in h or any of srcs ends up in h with the (saturating) sum of
// its counts across all of them. It returns h's resulting bucket count.
//
// The merge walks every input in lockstep by an n-way min-bucket scan
// (mirroring hist_needed_merge_size_fc/internal_bucket_accum in the
// original), so it runs in O(total entries) rather than one insert per
// source bucket.
func (h *Histogram) Accumulate(srcs ...*Histogram) int {
	all := make([]*Histogram, 0, len(srcs)+1)
	all = append(all, srcs...)
	all = append(all, h)

	merged := mergeBuckets(all, func(tgt *bucketValue, bv bucketValue) {
		newval := tgt.count + bv.count
		if newval < tgt.count {
			newval = ^uint64(0)
		}
		tgt.count = newval
	})

	h.s.reset()
	for _, bv := range merged {
		h.s.insertRaw(bv.bucket, bv.count)
	}
	return len(h.s.bvs)
}

// Subtract removes srcs's counts from h using a saturating subtraction: any
// bucket present in a src but absent from h is skipped, and a counter that
// would drop below zero is set to zero. It returns -1 if any src bucket is
// missing from h or any subtraction would have dropped below zero (the
// other buckets are still subtracted), or the resulting bucket count
// otherwise.
func (h *Histogram) Subtract(srcs ...*Histogram) int {
	failed := false
	for _, src := range srcs {
		for _, bv := range src.s.bvs {
			idx, found := h.s.find(bv.bucket)
			if !found {
				failed = true
				continue
			}
			cur := h.s.bvs[idx].count
			newval := cur - bv.count
			if newval > cur {
				newval = 0
				failed = true
			}
			h.s.bvs[idx].count = newval
		}
	}
	if failed {
		return -1
	}
	return len(h.s.bvs)
}

// mergeBuckets performs an n-way merge of each histogram's sorted bucket
// list, invoking accum(tgt, bv) once per (bucket, source) pair in bucket
// order; tgt is freshly zeroed the first time a bucket is seen.
func mergeBuckets(hists []*Histogram, accum func(tgt *bucketValue, bv bucketValue)) []bucketValue {
	idx := make([]int, len(hists))
	var out []bucketValue

	for {
		lowest := -1
		for i, h := range hists {
			if idx[i] >= len(h.s.bvs) {
				continue
			}
			if lowest == -1 || h.s.bvs[idx[i]].bucket.Compare(hists[lowest].s.bvs[idx[lowest]].bucket) < 0 {
				lowest = i
			}
		}
		if lowest == -1 {
			break
		}
		b := hists[lowest].s.bvs[idx[lowest]].bucket
		out = append(out, bucketValue{bucket: b})
		tgt := &out[len(out)-1]
		for i, h := range hists {
			if idx[i] < len(h.s.bvs) && h.s.bvs[idx[i]].bucket.Compare(b) == 0 {
				accum(tgt, h.s.bvs[idx[i]])
				idx[i]++
			}
		}
	}
	return out
}

// Downsample rebuckets h in place, merging groups of factor adjacent
// buckets (by storage order) into one. It is a coarse, order-based
// reduction intended for display/size trimming rather than a
// resolution-preserving transform; prefer CompressMBE when resolution
// near the origin matters most.
func (h *Histogram) Downsample(factor int) {
	if factor < 2 || len(h.s.bvs) == 0 {
		return
	}
	src := h.s.bvs
	h.s.reset()
	for i := 0; i < len(src); i += factor {
		end := i + factor
		if end > len(src) {
			end = len(src)
		}
		group := src[i:end]
		rep := group[len(group)/2].bucket
		var sum uint64
		for _, bv := range group {
			newsum := sum + bv.count
			if newsum < sum {
				newsum = ^uint64(0)
			}
			sum = newsum
		}
		h.s.insertRaw(rep, sum)
	}
}

// CompressMBE returns a new histogram with every bucket whose exponent is
// below mbe (the Minimum Bucket Exponent) folded into the zero bucket, and
// every bucket at exactly mbe re-bucketed onto a one-significant-digit
// grid (10, 20, ..., 90), losslessly preserving resolution above mbe.
func (h *Histogram) CompressMBE(mbe int8) *Histogram {
	out := New()
	for _, bv := range h.s.bvs {
		switch {
		case bv.bucket.Exp < mbe:
			out.InsertRaw(ZeroBucket, bv.count)
		case bv.bucket.Exp == mbe:
			rebucketed := Bucket{Val: (bv.bucket.Val / 10) * 10, Exp: bv.bucket.Exp}
			out.InsertRaw(rebucketed, bv.count)
		default:
			out.InsertRaw(bv.bucket, bv.count)
		}
	}
	return out
}

// Clamp zeroes the counter of every bucket entirely outside [lo, hi],
// leaving bucket entries themselves in place (mirroring hist_clear's
// retain-the-shape discipline). A NaN bound leaves that side unclamped.
func (h *Histogram) Clamp(lo, hi float64) {
	haveLo := !math.IsNaN(lo)
	haveHi := !math.IsNaN(hi)
	if !haveLo && !haveHi {
		return
	}
	for i, bv := range h.s.bvs {
		if bv.bucket.IsZero() || bv.bucket.IsNaN() {
			continue
		}
		left := bv.bucket.left()
		right := left + bv.bucket.BinWidth()
		if (haveHi && left > hi) || (haveLo && right < lo) {
			h.s.bvs[i].count = 0
		}
	}
}
