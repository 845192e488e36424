package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns N equally spaced values from min to max inclusive.
func Linspace(min, max float64, N int) (v []float64) {
	v = make([]float64, N)
	switch N {
	case 0:
		return
	case 1:
		v[0] = min
		return
	}
	floats.Span(v, min, max)
	return
}

// POW raises x to a small integer power by repeated multiplication, falling back to math.Pow
// outside [-8, 8]. Conductivity polynomials are evaluated with it.
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y
		y = y * y
	}
	if flipped {
		y = 1. / y
	}
	return
}

// MeanSquareDiff returns mean((a-b)^2); a and b must have equal length.
func MeanSquareDiff(a, b []float64) (mse float64) {
	if len(a) != len(b) {
		panic("MeanSquareDiff: length mismatch")
	}
	if len(a) == 0 {
		return 0
	}
	for i := range a {
		d := a[i] - b[i]
		mse += d * d
	}
	return mse / float64(len(a))
}
