package circllhist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoubleToBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in  float64
		exp Bucket
	}{
		{in: 0, exp: ZeroBucket},
		{in: 2.0, exp: Bucket{Val: 20, Exp: 0}},
		{in: -2.0, exp: Bucket{Val: -20, Exp: 0}},
		{in: 0.2, exp: Bucket{Val: 20, Exp: -1}},
		{in: 1, exp: Bucket{Val: 10, Exp: 0}},
		{in: 0.11, exp: Bucket{Val: 11, Exp: -1}},
		{in: 9.999999e-1, exp: Bucket{Val: 99, Exp: -1}},
		{in: 100, exp: Bucket{Val: 10, Exp: 2}},
		{in: math.NaN(), exp: NaNBucket},
		{in: math.Inf(1), exp: NaNBucket},
		{in: math.Inf(-1), exp: NaNBucket},
		{in: 1e-130, exp: ZeroBucket},
	}
	for _, tc := range tests {
		got := DoubleToBucket(tc.in)
		assert.Equalf(t, tc.exp, got, "DoubleToBucket(%v)", tc.in)
	}
}

func TestIntScaleToBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value int64
		scale int32
		exp   Bucket
	}{
		{value: 0, scale: 0, exp: ZeroBucket},
		{value: 1, scale: 0, exp: Bucket{Val: 10, Exp: 0}},
		{value: -1, scale: 0, exp: Bucket{Val: -10, Exp: 0}},
		{value: 123, scale: 0, exp: Bucket{Val: 12, Exp: 2}},
		{value: 99, scale: 0, exp: Bucket{Val: 99, Exp: 1}},
	}
	for _, tc := range tests {
		got := IntScaleToBucket(tc.value, tc.scale)
		assert.Equalf(t, tc.exp, got, "IntScaleToBucket(%v, %v)", tc.value, tc.scale)
	}
}

func TestBucketRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0.5, 1.5, 99.9, 123456, 0.0001234, -42} {
		b := DoubleToBucket(v)
		left := math.Abs(b.left())
		right := math.Abs(b.left() + b.BinWidth())
		lo, hi := left, right
		if lo > hi {
			lo, hi = hi, lo
		}
		mag := math.Abs(v)
		assert.GreaterOrEqualf(t, mag, lo, "v=%v bucket=%v", v, b)
		assert.LessOrEqualf(t, mag, hi*(1+1e-9), "v=%v bucket=%v", v, b)
	}
}

func TestBucketCompareOrdering(t *testing.T) {
	t.Parallel()

	ordered := []Bucket{
		NaNBucket,
		{Val: -99, Exp: 5},
		{Val: -10, Exp: 5},
		{Val: -99, Exp: 0},
		ZeroBucket,
		{Val: 10, Exp: 0},
		{Val: 99, Exp: 0},
		{Val: 10, Exp: 5},
	}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Negativef(t, ordered[i].Compare(ordered[i+1]),
			"%v should sort before %v", ordered[i], ordered[i+1])
	}
	for i := range ordered {
		assert.Zero(t, ordered[i].Compare(ordered[i]))
	}
}

func TestBucketString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", ZeroBucket.String())
	assert.Equal(t, "NaN", NaNBucket.String())
	assert.Equal(t, "+20e-002", Bucket{Val: 20, Exp: -1}.String())
	assert.Equal(t, "-20e+000", Bucket{Val: -20, Exp: 1}.String())
}

func TestMidpointAndBinWidth(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ZeroBucket.Midpoint())
	assert.Zero(t, ZeroBucket.BinWidth())
	assert.True(t, math.IsNaN(NaNBucket.Midpoint()))

	b := Bucket{Val: 10, Exp: 0}
	assert.InDelta(t, 1.0, b.ToDouble(), 1e-9)
	assert.InDelta(t, 0.1, b.BinWidth(), 1e-9)
	assert.InDelta(t, 1.05, b.Midpoint(), 1e-9)
}
