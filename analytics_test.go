package circllhist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproxMeanAndSum(t *testing.T) {
	t.Parallel()

	h := New()
	h.Insert(10, 2)
	h.Insert(10, 0) // no-op, exercises the zero-count branch trivially
	h.Insert(20, 2)

	mean := h.ApproxMean()
	// midpoints of the 10 and 20 buckets, evenly weighted
	assert.InDelta(t, 15.5, mean, 1.0)
	assert.InDelta(t, mean*4, h.ApproxSum(), 1.0)
}

func TestApproxMeanEmptyIsNaN(t *testing.T) {
	t.Parallel()

	h := New()
	assert.True(t, math.IsNaN(h.ApproxMean()))
}

func TestApproxQuantileOrderedInput(t *testing.T) {
	t.Parallel()

	h := New()
	for i := 1; i <= 100; i++ {
		h.Insert(float64(i), 1)
	}
	out, status := h.ApproxQuantile([]float64{0, 0.5, 1})
	require.Equal(t, qOK, status)
	require.Len(t, out, 3)
	assert.InDelta(t, 50, out[1], 5)
	assert.Less(t, out[0], out[1])
	assert.Less(t, out[1], out[2])
}

func TestApproxQuantileEmptyHistogram(t *testing.T) {
	t.Parallel()

	h := New()
	_, status := h.ApproxQuantile([]float64{0.5})
	assert.Equal(t, qErrEmpty, status)
}

func TestApproxQuantileRejectsUnordered(t *testing.T) {
	t.Parallel()

	h := New()
	h.Insert(1, 1)
	_, status := h.ApproxQuantile([]float64{0.9, 0.1})
	assert.Equal(t, qErrOutOfOrder, status)
}

func TestApproxQuantileRejectsOutOfBounds(t *testing.T) {
	t.Parallel()

	h := New()
	h.Insert(1, 1)
	_, status := h.ApproxQuantile([]float64{1.5})
	assert.Equal(t, qErrOutOfBounds, status)
}

func TestApproxQuantile7EmptyHistogram(t *testing.T) {
	t.Parallel()

	h := New()
	_, status := h.ApproxQuantile7([]float64{0.5})
	assert.Equal(t, qErrEmpty, status)
}

func TestApproxQuantile7Monotonic(t *testing.T) {
	t.Parallel()

	h := New()
	for i := 1; i <= 50; i++ {
		h.Insert(float64(i), 1)
	}
	out, status := h.ApproxQuantile7([]float64{0.1, 0.5, 0.9})
	require.Equal(t, qOK, status)
	assert.Less(t, out[0], out[1])
	assert.Less(t, out[1], out[2])
}

func TestApproxInverseQuantile(t *testing.T) {
	t.Parallel()

	h := New()
	for i := 1; i <= 10; i++ {
		h.Insert(float64(i), 1)
	}
	out := h.ApproxInverseQuantile([]float64{1, 10})
	assert.Less(t, out[0], out[1])
	assert.GreaterOrEqual(t, out[0], 0.0)
	assert.LessOrEqual(t, out[1], 1.0)
}

func TestApproxCountAboveBelowNearby(t *testing.T) {
	t.Parallel()

	h := New()
	h.Insert(1, 3)
	h.Insert(5, 2)
	h.Insert(10, 4)

	above := h.ApproxCountAbove(5)
	below := h.ApproxCountBelow(5)
	nearby := h.ApproxCountNearby(5)
	assert.Equal(t, h.SampleCount(), above+below+nearby)
	assert.Equal(t, uint64(2), nearby)
}

func TestApproxStddevConstantIsZero(t *testing.T) {
	t.Parallel()

	h := New()
	h.Insert(10, 1000)
	assert.InDelta(t, 0, h.ApproxStddev(), 1.0)
}
