package tdma

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSystem returns a strictly diagonally dominant system with a dominance margin of at least 1.
func randomSystem(rng *rand.Rand, n int) (s *System) {
	s = NewSystem(n)
	for i := 0; i < n; i++ {
		s.Lower[i] = 2*rng.Float64() - 1
		s.Upper[i] = 2*rng.Float64() - 1
		d := math.Abs(s.Lower[i]) + math.Abs(s.Upper[i]) + 1 + rng.Float64()
		if rng.Intn(2) == 0 {
			d = -d
		}
		s.Diag[i] = d
		s.RHS[i] = 20*rng.Float64() - 10
	}
	s.Lower[0], s.Upper[n-1] = 0, 0
	return
}

func TestSolveKnownSystems(t *testing.T) {
	{ // Identity-like system returns the right hand side exactly
		x, err := Solve([]float64{0, 0, 0}, []float64{1, 1, 1}, []float64{0, 0, 0}, []float64{5, 7, 9})
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 7, 9}, x)
	}
	{ // 3x3 with closed form solution [0, 1, 1]
		s := &System{
			Lower: []float64{0, 1, 1},
			Diag:  []float64{2, 3, 2},
			Upper: []float64{1, 1, 0},
			RHS:   []float64{1, 4, 3},
		}
		x, err := s.Solve()
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 1, 1}, x, 1.e-14)
		xd, err := s.SolveDense()
		require.NoError(t, err)
		assert.InDeltaSlice(t, xd, x, 1.e-14)
	}
	{ // Unused corner entries have no effect
		x1, err := Solve([]float64{0, 1, 1}, []float64{2, 3, 2}, []float64{1, 1, 0}, []float64{4, 10, 8})
		require.NoError(t, err)
		x2, err := Solve([]float64{99, 1, 1}, []float64{2, 3, 2}, []float64{1, 1, -99}, []float64{4, 10, 8})
		require.NoError(t, err)
		assert.Equal(t, x1, x2)
		assert.InDeltaSlice(t, []float64{1, 2, 3}, x1, 1.e-14)
	}
	{ // Smallest legal system
		x, err := Solve([]float64{0, 1}, []float64{2, 2}, []float64{1, 0}, []float64{3, 3})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 1}, x, 1.e-15)
	}
}

func TestSolveResidual(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 3, 4, 10, 100, 1000, 100000} {
		for trial := 0; trial < 5; trial++ {
			s := randomSystem(rng, n)
			x, err := s.Solve()
			require.NoError(t, err)
			tol := 1.e3 * Epsilon * s.Magnitude()
			for i, r := range s.Residual(x) {
				if !assert.LessOrEqual(t, math.Abs(r), tol, "n = %d, row %d", n, i) {
					break
				}
			}
		}
	}
}

func TestSolveMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 5, 17, 64} {
		s := randomSystem(rng, n)
		x, err := s.Solve()
		require.NoError(t, err)
		xd, err := s.SolveDense()
		require.NoError(t, err)
		assert.InDeltaSlice(t, xd, x, 1.e-12)
	}
}

func TestSolveErrors(t *testing.T) {
	var (
		dimErr   *DimensionError
		pivotErr *PivotError
	)
	{ // len(diag) != len(rhs)
		_, err := Solve([]float64{0, 1, 1}, []float64{2, 3, 2}, []float64{1, 1, 0}, []float64{1, 4})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, "rhs", dimErr.Field)
		assert.Equal(t, 2, dimErr.Len)
		assert.Equal(t, 3, dimErr.Want)
	}
	{ // Other length mismatches
		_, err := Solve([]float64{0, 1}, []float64{2, 3, 2}, []float64{1, 1, 0}, []float64{1, 4, 3})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
		_, err = Solve([]float64{0, 1, 1}, []float64{2, 3, 2}, []float64{1, 1, 0, 0}, []float64{1, 4, 3})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
	{ // n < 2
		_, err := Solve([]float64{0}, []float64{2}, []float64{0}, []float64{1})
		assert.ErrorIs(t, err, ErrInvalidDimensions)
		require.True(t, errors.As(err, &dimErr))
		assert.True(t, dimErr.Min)
		_, err = Solve(nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
	{ // Zero diagonal
		_, err := Solve([]float64{0, 1, 1}, []float64{0, 0, 0}, []float64{1, 1, 0}, []float64{1, 4, 3})
		assert.ErrorIs(t, err, ErrSingularMatrix)
		require.True(t, errors.As(err, &pivotErr))
		assert.Equal(t, 0, pivotErr.Row)
	}
	{ // Zero pivot after elimination of a non-singular matrix; no row exchange is attempted
		s := &System{
			Lower: []float64{0, 1, 1},
			Diag:  []float64{1, 1, 1},
			Upper: []float64{1, 1, 0},
			RHS:   []float64{1, 2, 3},
		}
		_, err := s.Solve()
		assert.ErrorIs(t, err, ErrSingularMatrix)
		require.True(t, errors.As(err, &pivotErr))
		assert.Equal(t, 1, pivotErr.Row)
		// Dense LU pivots and succeeds
		_, err = s.SolveDense()
		assert.NoError(t, err)
	}
	{ // NaN never leaks into the solution
		_, err := Solve([]float64{0, 1, 1}, []float64{2, math.NaN(), 2}, []float64{1, 1, 0}, []float64{1, 4, 3})
		assert.ErrorIs(t, err, ErrSingularMatrix)
	}
	{ // Error text names the package
		_, err := Solve([]float64{0, 1, 1}, []float64{0, 0, 0}, []float64{1, 1, 0}, []float64{1, 4, 3})
		assert.Contains(t, err.Error(), "tdma: singular matrix")
	}
}

func TestSolveSideEffects(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := randomSystem(rng, 50)
	orig := s.Clone()
	{ // Non-destructive solve leaves every input untouched and is repeatable bit for bit
		x1, err := s.Solve()
		require.NoError(t, err)
		x2, err := s.Solve()
		require.NoError(t, err)
		assert.Equal(t, x1, x2)
		assert.Equal(t, orig, s)
	}
	{ // In place: rhs becomes the solution, diagonals untouched
		x, err := s.Solve()
		require.NoError(t, err)
		c := s.Clone()
		require.NoError(t, SolveInPlace(c.Lower, c.Diag, c.Upper, c.RHS))
		assert.Equal(t, x, c.RHS)
		assert.Equal(t, orig.Lower, c.Lower)
		assert.Equal(t, orig.Diag, c.Diag)
		assert.Equal(t, orig.Upper, c.Upper)
	}
	{ // In place failure leaves rhs as it was
		rhs := []float64{1, 2, 3}
		err := SolveInPlace([]float64{0, 1, 1}, []float64{1, 1, 1}, []float64{1, 1, 0}, rhs)
		assert.ErrorIs(t, err, ErrSingularMatrix)
		assert.Equal(t, []float64{1, 2, 3}, rhs)
	}
}

func TestSolver(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var (
		s Solver
	)
	{ // Zero value solver grows and shrinks with the system
		for _, n := range []int{100, 5, 1000, 2} {
			sys := randomSystem(rng, n)
			want, err := sys.Solve()
			require.NoError(t, err)
			x := make([]float64, n)
			require.NoError(t, s.SolveTo(x, sys.Lower, sys.Diag, sys.Upper, sys.RHS))
			assert.Equal(t, want, x)
		}
	}
	{ // dst of the wrong length
		sys := randomSystem(rng, 4)
		err := s.SolveTo(make([]float64, 3), sys.Lower, sys.Diag, sys.Upper, sys.RHS)
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
	{ // A looser tolerance rejects a weak pivot the default accepts
		lower, diag, upper, rhs := []float64{0, 0.9}, []float64{1, 1}, []float64{0.9, 0}, []float64{1, 1}
		x := make([]float64, 2)
		ns := NewSolver(2)
		assert.NoError(t, ns.SolveTo(x, lower, diag, upper, rhs))
		ns.Tolerance = 0.5
		assert.ErrorIs(t, ns.SolveTo(x, lower, diag, upper, rhs), ErrSingularMatrix)
	}
}

func BenchmarkSolve1e3(b *testing.B) { benchmarkSolve(b, 1000) }
func BenchmarkSolve1e6(b *testing.B) { benchmarkSolve(b, 1000000) }

func benchmarkSolve(b *testing.B, n int) {
	var (
		sys = randomSystem(rand.New(rand.NewSource(1)), n)
		s   = NewSolver(n)
		x   = make([]float64, n)
	)
	b.SetBytes(int64(8 * 4 * n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.SolveTo(x, sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
			b.Fatal(err)
		}
	}
}
