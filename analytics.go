package circllhist

import "math"

// outOfRange reports whether b is an invalid bucket: the NaN sentinel
// (Val == -1) or a mantissa outside the representable range. The
// statistics below skip such buckets.
func outOfRange(b Bucket) bool { return b.IsNaN() }

// ApproxMean returns the count-weighted average of bucket midpoints, or
// NaN for an empty histogram.
func (h *Histogram) ApproxMean() float64 {
	var divisor, sum float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		mid := bv.bucket.Midpoint()
		cnt := float64(bv.count)
		divisor += cnt
		sum += mid * cnt
	}
	if divisor == 0 {
		return math.NaN()
	}
	return sum / divisor
}

// ApproxSum returns the count-weighted sum of bucket midpoints.
func (h *Histogram) ApproxSum() float64 {
	var sum float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		sum += bv.bucket.Midpoint() * float64(bv.count)
	}
	return sum
}

// ApproxMoment returns the k-th central moment of h about its mean, using
// the same piecewise-midpoint approximation as ApproxMean.
func (h *Histogram) ApproxMoment(k float64) float64 {
	mean := h.ApproxMean()
	if math.IsNaN(mean) {
		return math.NaN()
	}
	var divisor, sum float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		cnt := float64(bv.count)
		divisor += cnt
		sum += math.Pow(bv.bucket.Midpoint()-mean, k) * cnt
	}
	if divisor == 0 {
		return math.NaN()
	}
	return sum / divisor
}

// ApproxStddev returns the standard deviation, i.e. sqrt(ApproxMoment(2)).
func (h *Histogram) ApproxStddev() float64 {
	return math.Sqrt(h.ApproxMoment(2))
}

// Quantile error codes, matching the original C ABI's return-code
// discipline: no panics, no Go errors, just sentinels.
const (
	qOK             = 0
	qErrEmpty       = -1
	qErrOutOfOrder  = -2
	qErrOutOfBounds = -3
)

// ApproxQuantile computes the Type-1 quantiles of h for each q in qIn,
// writing results into a freshly allocated slice. qIn must already be
// sorted ascending. It returns qErrOutOfOrder if it isn't, qErrOutOfBounds
// if any q is outside [0,1], and qOK (0) on success; an empty qIn always
// succeeds trivially.
func (h *Histogram) ApproxQuantile(qIn []float64) ([]float64, int) {
	if len(qIn) == 0 {
		return nil, qOK
	}
	for i := 1; i < len(qIn); i++ {
		if qIn[i-1] > qIn[i] {
			return nil, qErrOutOfOrder
		}
	}
	var total float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		total += float64(bv.count)
	}
	if total == 0 {
		return nil, qErrEmpty
	}

	targets := make([]float64, len(qIn))
	for i, q := range qIn {
		if q < 0 || q > 1 {
			return nil, qErrOutOfBounds
		}
		targets[i] = total * q
	}
	return h.walkQuantiles(targets), qOK
}

// ApproxQuantile7 computes the Type-7 (Hyndman & Fan, 1996) quantiles of h,
// linearly interpolating between order statistics instead of Type-1's step
// function. Error semantics match ApproxQuantile.
func (h *Histogram) ApproxQuantile7(qIn []float64) ([]float64, int) {
	if len(qIn) == 0 {
		return nil, qOK
	}
	for i := 1; i < len(qIn); i++ {
		if qIn[i-1] > qIn[i] {
			return nil, qErrOutOfOrder
		}
	}
	var total float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		total += float64(bv.count)
	}
	if total == 0 {
		return nil, qErrEmpty
	}

	targets := make([]float64, len(qIn))
	for i, q := range qIn {
		if q < 0 || q > 1 {
			return nil, qErrOutOfBounds
		}
		// rank in [1, T]; translate to the same [0, T] cumulative-count
		// domain walkQuantiles expects by shifting off the 1-indexed base.
		targets[i] = 1 + q*(total-1) - 1
	}
	return h.walkQuantiles(targets), qOK
}

// walkQuantiles resolves each (already count-scaled, ascending) target into
// a value by walking h's sorted, finite buckets and tracking cumulative
// counts, exactly mirroring the TRACK_VARS walk of the source
// implementation: an exact cumulative-count match lands on a bucket edge,
// otherwise the target is linearly interpolated across the bucket width.
func (h *Histogram) walkQuantiles(targets []float64) []float64 {
	out := make([]float64, len(targets))

	type finiteBucket struct {
		left, width float64
	}
	var finite []finiteBucket
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		finite = append(finite, finiteBucket{left: bv.bucket.left(), width: bv.bucket.BinWidth()})
	}
	counts := make([]float64, 0, len(finite))
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		counts = append(counts, float64(bv.count))
	}

	if len(finite) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	ib := 0
	lowerCnt, upperCnt := 0.0, counts[0]
	left, width := finite[0].left, finite[0].width

	for iq, target := range targets {
		for ib < len(finite)-1 && upperCnt < target {
			ib++
			lowerCnt = upperCnt
			upperCnt = lowerCnt + counts[ib]
			left, width = finite[ib].left, finite[ib].width
		}
		switch {
		case lowerCnt == target:
			out[iq] = left
		case upperCnt == target:
			out[iq] = left + width
		case width == 0:
			out[iq] = left
		default:
			out[iq] = left + (target-lowerCnt)/(upperCnt-lowerCnt)*width
		}
	}
	return out
}

// ApproxInverseQuantile returns, for each value in vs, the fraction of
// samples at or below it: (lowerCount + fraction*bucketCount) / total,
// where fraction is v's position within the bucket containing it, clamped
// to [0,1]. Returns NaN entries when h is empty.
func (h *Histogram) ApproxInverseQuantile(vs []float64) []float64 {
	out := make([]float64, len(vs))
	var total float64
	for _, bv := range h.s.bvs {
		if outOfRange(bv.bucket) {
			continue
		}
		total += float64(bv.count)
	}
	if total == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	for i, v := range vs {
		b := DoubleToBucket(v)
		var lower, bucketCnt float64
		found := false
		for _, bv := range h.s.bvs {
			if outOfRange(bv.bucket) {
				continue
			}
			cmp := bv.bucket.Compare(b)
			if cmp == 0 {
				bucketCnt = float64(bv.count)
				found = true
				break
			}
			if cmp > 0 {
				break
			}
			lower += float64(bv.count)
		}
		if !found {
			// v doesn't land in a populated bucket: report the cumulative
			// fraction up to where it would be inserted.
			out[i] = lower / total
			continue
		}
		width := b.BinWidth()
		frac := 0.0
		if width != 0 {
			frac = (v - b.left()) / width
		}
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[i] = (lower + frac*bucketCnt) / total
	}
	return out
}

// ApproxCountAbove returns the total count strictly above the bucket
// containing v.
func (h *Histogram) ApproxCountAbove(v float64) uint64 {
	b := DoubleToBucket(v)
	var total uint64
	for _, bv := range h.s.bvs {
		if bv.bucket.Compare(b) > 0 {
			total += bv.count
		}
	}
	return total
}

// ApproxCountBelow returns the total count strictly below the bucket
// containing v.
func (h *Histogram) ApproxCountBelow(v float64) uint64 {
	b := DoubleToBucket(v)
	var total uint64
	for _, bv := range h.s.bvs {
		if bv.bucket.Compare(b) < 0 {
			total += bv.count
		}
	}
	return total
}

// ApproxCountNearby returns the count stored in the bucket containing v.
func (h *Histogram) ApproxCountNearby(v float64) uint64 {
	return h.CountAt(DoubleToBucket(v))
}
