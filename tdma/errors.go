package tdma

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is. The detailed forms below wrap them.
var (
	// ErrInvalidDimensions is returned when the four sequences disagree in length or n < MinSize.
	ErrInvalidDimensions = errors.New("tdma: invalid dimensions")

	// ErrSingularMatrix is returned when a pivot falls below the stability threshold during
	// forward elimination. No partial solution is produced.
	ErrSingularMatrix = errors.New("tdma: singular matrix")
)

// DimensionError reports which sequence broke the length invariant.
type DimensionError struct {
	Field string // offending slice: "lower", "upper", "rhs", "dst" or "diag" for n < MinSize
	Len   int
	Want  int
	Min   bool // Want is a lower bound rather than an exact length
}

func (e *DimensionError) Error() string {
	if e.Min {
		return fmt.Sprintf("%s: len(%s) = %d, want >= %d", ErrInvalidDimensions, e.Field, e.Len, e.Want)
	}
	return fmt.Sprintf("%s: len(%s) = %d, want %d", ErrInvalidDimensions, e.Field, e.Len, e.Want)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimensions }

// PivotError carries the row at which elimination broke down.
type PivotError struct {
	Row       int
	Pivot     float64
	Threshold float64
}

func (e *PivotError) Error() string {
	return fmt.Sprintf("%s: pivot %g at row %d is below threshold %g", ErrSingularMatrix, e.Pivot, e.Row, e.Threshold)
}

func (e *PivotError) Unwrap() error { return ErrSingularMatrix }
