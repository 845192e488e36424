package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				histo[pm.GetBucketDimension(np)]++
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	}
	{ // Buckets tile [0, MaxIndex) without gaps and with imbalance of at most one
		for n := 1; n < 2000; n++ {
			for _, np := range []int{1, 3, 8, 32} {
				pm := NewPartitionMap(np, n)
				next := 0
				minSize, maxSize := n, 0
				for b := 0; b < np; b++ {
					k1, k2 := pm.GetBucketRange(b)
					assert.Equal(t, next, k1)
					next = k2
					minSize = min(minSize, k2-k1)
					maxSize = max(maxSize, k2-k1)
				}
				assert.Equal(t, n, next)
				assert.LessOrEqual(t, maxSize-minSize, 1)
			}
		}
	}
	{ // Invalid parallel degree
		assert.Panics(t, func() { NewPartitionMap(0, 10) })
	}
}
