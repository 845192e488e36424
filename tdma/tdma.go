// Package tdma solves tridiagonal linear systems with the Thomas algorithm.
//
// Row i of the system reads
//
//	lower[i]*x[i-1] + diag[i]*x[i] + upper[i]*x[i+1] = rhs[i]
//
// so that lower[0] and upper[n-1] fall outside the matrix and are ignored:
//
//	| d0 u0             |   | x0   |   | r0   |
//	| l1 d1 u1          |   | x1   |   | r1   |
//	|    l2 d2 u2       | * | x2   | = | r2   |
//	|        ...        |   | ...  |   | ...  |
//	|          ln-1 dn-1|   | xn-1 |   | rn-1 |
//
// Elimination runs without row exchanges. Each pivot is compared against the magnitude of its
// row and a pivot that is numerically zero is reported as ErrSingularMatrix before it can turn
// the solution into NaN/Inf.
package tdma

import (
	"math"
)

const (
	// MinSize is the smallest system accepted.
	MinSize = 2
	// Epsilon is the float64 machine epsilon.
	Epsilon = 2.220446049250313e-16
	// DefaultTolerance is the relative pivot threshold: a pivot p in row i is rejected when
	// |p| <= DefaultTolerance * (|lower[i]| + |diag[i]| + |upper[i]|).
	DefaultTolerance = 64 * Epsilon
)

// Solve returns the solution of the tridiagonal system, leaving all four inputs untouched.
func Solve(lower, diag, upper, rhs []float64) (x []float64, err error) {
	var (
		s = NewSolver(len(diag))
	)
	x = make([]float64, len(diag))
	if err = s.SolveTo(x, lower, diag, upper, rhs); err != nil {
		return nil, err
	}
	return
}

// SolveInPlace overwrites rhs with the solution. The diagonals are not modified. When an error is
// returned rhs still holds the original right-hand side.
func SolveInPlace(lower, diag, upper, rhs []float64) (err error) {
	return NewSolver(len(diag)).SolveTo(rhs, lower, diag, upper, rhs)
}

// Solver owns the scratch storage for repeated solves. The zero value is usable; scratch grows to
// the largest system seen. A Solver must not be shared between goroutines.
type Solver struct {
	// Tolerance is the relative pivot threshold, DefaultTolerance when <= 0.
	Tolerance float64
	cp, dp    []float64
}

func NewSolver(n int) (s *Solver) {
	s = &Solver{Tolerance: DefaultTolerance}
	s.grow(n)
	return
}

func (s *Solver) grow(n int) {
	if n < 0 {
		n = 0
	}
	if cap(s.cp) < n {
		s.cp = make([]float64, n)
		s.dp = make([]float64, n)
	}
	s.cp, s.dp = s.cp[:n], s.dp[:n]
}

func (s *Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

// SolveTo writes the solution into dst, which may alias rhs. dst is written only after forward
// elimination has succeeded, so on error it is left as it was.
func (s *Solver) SolveTo(dst, lower, diag, upper, rhs []float64) (err error) {
	var (
		n   int
		tol = s.tolerance()
	)
	if n, err = checkDims(lower, diag, upper, rhs); err != nil {
		return
	}
	if len(dst) != n {
		return &DimensionError{Field: "dst", Len: len(dst), Want: n}
	}
	s.grow(n)
	var (
		cp, dp = s.cp, s.dp
	)
	// Forward elimination
	if err = checkPivot(0, diag[0], math.Abs(diag[0])+math.Abs(upper[0]), tol); err != nil {
		return
	}
	cp[0] = upper[0] / diag[0]
	dp[0] = rhs[0] / diag[0]
	for i := 1; i < n; i++ {
		denom := diag[i] - lower[i]*cp[i-1]
		scale := math.Abs(lower[i]) + math.Abs(diag[i])
		if i < n-1 {
			scale += math.Abs(upper[i])
			cp[i] = upper[i] / denom
		} else {
			cp[i] = 0
		}
		if err = checkPivot(i, denom, scale, tol); err != nil {
			return
		}
		dp[i] = (rhs[i] - lower[i]*dp[i-1]) / denom
	}
	// Back substitution
	dst[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		dst[i] = dp[i] - cp[i]*dst[i+1]
	}
	return
}

func checkDims(lower, diag, upper, rhs []float64) (n int, err error) {
	n = len(diag)
	if n < MinSize {
		return 0, &DimensionError{Field: "diag", Len: n, Want: MinSize, Min: true}
	}
	switch {
	case len(lower) != n:
		err = &DimensionError{Field: "lower", Len: len(lower), Want: n}
	case len(upper) != n:
		err = &DimensionError{Field: "upper", Len: len(upper), Want: n}
	case len(rhs) != n:
		err = &DimensionError{Field: "rhs", Len: len(rhs), Want: n}
	}
	return
}

// checkPivot rejects pivots at or below tol*scale. NaN pivots fail the comparison and are
// rejected as well.
func checkPivot(row int, pivot, scale, tol float64) error {
	threshold := tol * scale
	if !(math.Abs(pivot) > threshold) {
		return &PivotError{Row: row, Pivot: pivot, Threshold: threshold}
	}
	return nil
}
