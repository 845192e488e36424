package tdma

import (
	"math"
)

// Factorization is the right-hand-side independent half of the Thomas elimination: the modified
// upper diagonal c' and the pivots. It is read-only after Factorize and may be shared by any number
// of goroutines.
type Factorization struct {
	lower  []float64
	cp     []float64
	pivots []float64
}

// Factorize eliminates the matrix once so that many right-hand sides can be solved against it.
// Solutions are bit-identical to Solve on the same system.
func Factorize(lower, diag, upper []float64, tolerance ...float64) (f *Factorization, err error) {
	var (
		n   = len(diag)
		tol = DefaultTolerance
	)
	if len(tolerance) != 0 && tolerance[0] > 0 {
		tol = tolerance[0]
	}
	// rhs is not involved yet, so diag stands in for it in the length check
	if n, err = checkDims(lower, diag, upper, diag); err != nil {
		return
	}
	f = &Factorization{
		lower:  make([]float64, n),
		cp:     make([]float64, n),
		pivots: make([]float64, n),
	}
	copy(f.lower, lower)
	if err = checkPivot(0, diag[0], math.Abs(diag[0])+math.Abs(upper[0]), tol); err != nil {
		return nil, err
	}
	f.pivots[0] = diag[0]
	f.cp[0] = upper[0] / diag[0]
	for i := 1; i < n; i++ {
		denom := diag[i] - lower[i]*f.cp[i-1]
		scale := math.Abs(lower[i]) + math.Abs(diag[i])
		if i < n-1 {
			scale += math.Abs(upper[i])
			f.cp[i] = upper[i] / denom
		}
		if err = checkPivot(i, denom, scale, tol); err != nil {
			return nil, err
		}
		f.pivots[i] = denom
	}
	return
}

// Len returns the order of the factorized matrix.
func (f *Factorization) Len() int { return len(f.pivots) }

// SolveTo writes the solution for rhs into dst. dst may alias rhs; the pivots were already checked
// so nothing can fail half way.
func (f *Factorization) SolveTo(dst, rhs []float64) error {
	var (
		n = len(f.pivots)
	)
	if len(rhs) != n {
		return &DimensionError{Field: "rhs", Len: len(rhs), Want: n}
	}
	if len(dst) != n {
		return &DimensionError{Field: "dst", Len: len(dst), Want: n}
	}
	// dst holds d' during the forward sweep
	dst[0] = rhs[0] / f.pivots[0]
	for i := 1; i < n; i++ {
		dst[i] = (rhs[i] - f.lower[i]*dst[i-1]) / f.pivots[i]
	}
	for i := n - 2; i >= 0; i-- {
		dst[i] -= f.cp[i] * dst[i+1]
	}
	return nil
}

// Solve returns a new solution vector for rhs.
func (f *Factorization) Solve(rhs []float64) (x []float64, err error) {
	x = make([]float64, len(f.pivots))
	if err = f.SolveTo(x, rhs); err != nil {
		return nil, err
	}
	return
}
