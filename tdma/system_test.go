package tdma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	s := &System{
		Lower: []float64{7, 1, 1},
		Diag:  []float64{2, 3, 2},
		Upper: []float64{1, 1, 7},
		RHS:   []float64{4, 10, 8},
	}
	require.NoError(t, s.Validate())
	assert.Equal(t, 3, s.Len())
	{ // Corner entries outside the matrix are ignored everywhere
		assert.Equal(t, []float64{4, 10, 8}, s.MulVec([]float64{1, 2, 3}))
		assert.Equal(t, []float64{0, 0, 0}, s.Residual([]float64{1, 2, 3}))
		assert.Equal(t, 10., s.Magnitude())
	}
	{ // Sparse and dense forms
		csr := s.ToCSR()
		r, c := csr.Dims()
		assert.Equal(t, 3, r)
		assert.Equal(t, 3, c)
		assert.Equal(t, 3., csr.At(1, 1))
		assert.Equal(t, 1., csr.At(2, 1))
		assert.Equal(t, 0., csr.At(0, 2))
		assert.Equal(t, 0., csr.At(2, 0))
		d := s.ToDense()
		assert.Equal(t, []float64{2, 1, 0}, d.RawRowView(0))
		assert.Equal(t, []float64{1, 3, 1}, d.RawRowView(1))
		assert.Equal(t, []float64{0, 1, 2}, d.RawRowView(2))
	}
	{ // Clone is deep
		c := s.Clone()
		c.RHS[0] = -1
		assert.Equal(t, 4., s.RHS[0])
	}
	{
		x, err := s.Solve()
		require.NoError(t, err)
		assert.InDelta(t, 0., s.MaxResidual(x), 1.e-14)
		assert.Panics(t, func() { s.MulVec([]float64{1}) })
	}
	{
		assert.ErrorIs(t, (&System{Diag: []float64{1, 1}}).Validate(), ErrInvalidDimensions)
		_, err := (&System{Diag: []float64{1}}).SolveDense()
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
	{
		n := NewSystem(4)
		assert.Equal(t, 4, n.Len())
		assert.NoError(t, n.Validate())
		_, err := n.Solve()
		assert.ErrorIs(t, err, ErrSingularMatrix)
	}
}
