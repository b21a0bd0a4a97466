package circllhist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateApproximationFromAdhocMid(t *testing.T) {
	t.Parallel()

	bins := []AdhocBin{
		{Lower: 0, Upper: 10, Count: 5},
		{Lower: 10, Upper: 20, Count: 3},
	}
	h := CreateApproximationFromAdhoc(bins, AdhocMid, math.NaN())
	assert.Equal(t, uint64(8), h.SampleCount())
	assert.Equal(t, uint64(5), h.CountAt(DoubleToBucket(5)))
	assert.Equal(t, uint64(3), h.CountAt(DoubleToBucket(15)))
}

func TestCreateApproximationFromAdhocOpenEndedUsesSum(t *testing.T) {
	t.Parallel()

	bins := []AdhocBin{
		{Lower: 100, Upper: math.Inf(1), Count: 4},
	}
	h := CreateApproximationFromAdhoc(bins, AdhocMid, 800)
	assert.Equal(t, uint64(4), h.CountAt(DoubleToBucket(200)))
}

func TestCreateApproximationFromAdhocSkipsEmptyBins(t *testing.T) {
	t.Parallel()

	bins := []AdhocBin{{Lower: 0, Upper: 10, Count: 0}}
	h := CreateApproximationFromAdhoc(bins, AdhocMid, math.NaN())
	assert.Equal(t, 0, h.BucketCount())
}

func TestAdhocHarmonicMean(t *testing.T) {
	t.Parallel()

	b := AdhocBin{Lower: 1, Upper: 4, Count: 1}
	got := b.representative(AdhocHarmonicMean, math.NaN())
	assert.InDelta(t, 1.6, got, 1e-9)
}
