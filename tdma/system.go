package tdma

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// System bundles the three diagonals and the right-hand side of one tridiagonal system.
type System struct {
	Lower, Diag, Upper, RHS []float64
}

func NewSystem(n int) *System {
	return &System{
		Lower: make([]float64, n),
		Diag:  make([]float64, n),
		Upper: make([]float64, n),
		RHS:   make([]float64, n),
	}
}

func (s *System) Len() int { return len(s.Diag) }

func (s *System) Validate() (err error) {
	_, err = checkDims(s.Lower, s.Diag, s.Upper, s.RHS)
	return
}

func (s *System) Solve() ([]float64, error) {
	return Solve(s.Lower, s.Diag, s.Upper, s.RHS)
}

func (s *System) Clone() (c *System) {
	c = &System{
		Lower: append([]float64(nil), s.Lower...),
		Diag:  append([]float64(nil), s.Diag...),
		Upper: append([]float64(nil), s.Upper...),
		RHS:   append([]float64(nil), s.RHS...),
	}
	return
}

// MulVecTo computes dst = A*x using the three diagonals only.
func (s *System) MulVecTo(dst, x []float64) {
	var (
		n = s.Len()
	)
	if len(x) != n || len(dst) != n {
		panic(fmt.Sprintf("tdma: MulVecTo length mismatch: n = %d, len(x) = %d, len(dst) = %d", n, len(x), len(dst)))
	}
	for i := 0; i < n; i++ {
		val := s.Diag[i] * x[i]
		if i > 0 {
			val += s.Lower[i] * x[i-1]
		}
		if i < n-1 {
			val += s.Upper[i] * x[i+1]
		}
		dst[i] = val
	}
}

func (s *System) MulVec(x []float64) (y []float64) {
	y = make([]float64, s.Len())
	s.MulVecTo(y, x)
	return
}

// Residual returns A*x - rhs.
func (s *System) Residual(x []float64) (r []float64) {
	r = s.MulVec(x)
	floats.Sub(r, s.RHS)
	return
}

// MaxResidual returns the infinity norm of A*x - rhs.
func (s *System) MaxResidual(x []float64) float64 {
	return floats.Norm(s.Residual(x), math.Inf(1))
}

// Magnitude returns the largest absolute coefficient of the matrix and right-hand side, the scale
// residuals should be compared against.
func (s *System) Magnitude() (mag float64) {
	var (
		n = s.Len()
	)
	for i := 0; i < n; i++ {
		mag = math.Max(mag, math.Abs(s.Diag[i]))
		mag = math.Max(mag, math.Abs(s.RHS[i]))
		if i > 0 {
			mag = math.Max(mag, math.Abs(s.Lower[i]))
		}
		if i < n-1 {
			mag = math.Max(mag, math.Abs(s.Upper[i]))
		}
	}
	return
}

// ToCSR assembles the matrix in compressed sparse row form. Zero coefficients are not stored.
func (s *System) ToCSR() *sparse.CSR {
	var (
		n   = s.Len()
		dok = sparse.NewDOK(n, n)
	)
	for i := 0; i < n; i++ {
		if i > 0 && s.Lower[i] != 0 {
			dok.Set(i, i-1, s.Lower[i])
		}
		if s.Diag[i] != 0 {
			dok.Set(i, i, s.Diag[i])
		}
		if i < n-1 && s.Upper[i] != 0 {
			dok.Set(i, i+1, s.Upper[i])
		}
	}
	return dok.ToCSR()
}

// ToDense expands the matrix to a dense n x n matrix; only sensible for small n.
func (s *System) ToDense() *mat.Dense {
	return mat.DenseCopyOf(s.ToCSR())
}

// SolveDense solves the system by dense LU with partial pivoting. It is the O(n^3) reference the
// Thomas solution is checked against.
func (s *System) SolveDense() (x []float64, err error) {
	var (
		n  int
		xv mat.VecDense
	)
	if n, err = checkDims(s.Lower, s.Diag, s.Upper, s.RHS); err != nil {
		return
	}
	b := mat.NewVecDense(n, append([]float64(nil), s.RHS...))
	if err = xv.SolveVec(s.ToDense(), b); err != nil {
		return nil, fmt.Errorf("%w: dense LU: %v", ErrSingularMatrix, err)
	}
	x = make([]float64, n)
	for i := range x {
		x[i] = xv.AtVec(i)
	}
	return
}
