package circllhist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFindOnEmpty(t *testing.T) {
	t.Parallel()

	s := newStore(0, DefaultAllocator)
	idx, found := s.find(Bucket{Val: 10, Exp: 0})
	assert.False(t, found)
	assert.Equal(t, 0, idx)
}

func TestStoreInsertRawKeepsSortedOrder(t *testing.T) {
	t.Parallel()

	s := newStore(0, DefaultAllocator)
	buckets := []Bucket{{Val: 50, Exp: 0}, {Val: -20, Exp: 3}, ZeroBucket, {Val: 99, Exp: -5}}
	for _, b := range buckets {
		s.insertRaw(b, 1)
	}
	for i := 1; i < len(s.bvs); i++ {
		assert.Negative(t, s.bvs[i-1].bucket.Compare(s.bvs[i].bucket))
	}
}

func TestStoreGrowsBeyondInitialCapacity(t *testing.T) {
	t.Parallel()

	s := newStore(1, DefaultAllocator)
	for i := 0; i < defaultGrowth*2+5; i++ {
		s.insertRaw(Bucket{Val: int8(10 + i%90), Exp: int8(i / 90)}, 1)
	}
	require.Greater(t, len(s.bvs), 1)
}

func TestStoreFastIndexReindexesOnInsert(t *testing.T) {
	t.Parallel()

	s := newStore(0, DefaultAllocator)
	s.enableFast()
	s.insertRaw(Bucket{Val: 20, Exp: 0}, 3)
	s.insertRaw(Bucket{Val: 10, Exp: 0}, 4)

	idx, found := s.find(Bucket{Val: 10, Exp: 0})
	require.True(t, found)
	assert.Equal(t, uint64(4), s.bvs[idx].count)
}

func TestStoreRemoveZeroesCompacts(t *testing.T) {
	t.Parallel()

	s := newStore(0, DefaultAllocator)
	s.insertRaw(Bucket{Val: 10, Exp: 0}, 1)
	s.insertRaw(Bucket{Val: 20, Exp: 0}, 1)
	s.remove(Bucket{Val: 10, Exp: 0}, 1)
	s.removeZeroes()
	assert.Len(t, s.bvs, 1)
	assert.Equal(t, Bucket{Val: 20, Exp: 0}, s.bvs[0].bucket)
}

func TestStoreCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := newStore(0, DefaultAllocator)
	s.insertRaw(Bucket{Val: 10, Exp: 0}, 1)
	clone := s.clone(DefaultAllocator)
	clone.insertRaw(Bucket{Val: 10, Exp: 0}, 5)

	idx, _ := s.find(Bucket{Val: 10, Exp: 0})
	assert.Equal(t, uint64(1), s.bvs[idx].count)
	cidx, _ := clone.find(Bucket{Val: 10, Exp: 0})
	assert.Equal(t, uint64(6), clone.bvs[cidx].count)
}
