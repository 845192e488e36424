// Package heat discretises steady 1D heat conduction,
//
//	-d/dx( k(x, T) dT/dx ) = S(x, T)   on [0, L],
//
// with cell centred finite volumes and solves the resulting tridiagonal systems with the tdma
// package. Conductivity that depends on T is handled by Picard iteration with under-relaxation.
package heat

import (
	"errors"
	"fmt"

	"github.com/notargets/tdma/tdma"
	"github.com/notargets/tdma/types"
	"github.com/notargets/tdma/utils"
)

var (
	ErrInvalidProblem = errors.New("heat: invalid problem")
	// ErrIllPosed is returned for heat flux conditions on both ends, which fix T only up to a constant.
	ErrIllPosed = errors.New("heat: ill-posed boundary conditions")
	ErrDiverged = errors.New("heat: iteration diverged")
)

// Conductivity returns the thermal conductivity at position x and temperature T.
type Conductivity func(x, T float64) float64

// Source returns the volumetric heat source at position x and temperature T.
type Source func(x, T float64) float64

// ConstantConductivity is k(x, T) = k.
func ConstantConductivity(k float64) Conductivity {
	return func(x, T float64) float64 { return k }
}

// PolynomialConductivity is k(T) = sum_j coeffs[j]*(T-TRef)^j, up to degree 4.
func PolynomialConductivity(coeffs []float64, TRef float64) Conductivity {
	if len(coeffs) > 5 {
		panic(fmt.Sprintf("conductivity polynomial degree %d is above 4", len(coeffs)-1))
	}
	c := append([]float64(nil), coeffs...)
	return func(x, T float64) (k float64) {
		dT := T - TRef
		for j, cj := range c {
			k += cj * utils.POW(dT, j)
		}
		return
	}
}

// BoundaryCondition on one end of the domain.
//   - BC_Dirichlet: Value is the wall temperature
//   - BC_Neuman: Value is the heat flux density into the domain
//   - BC_Robin: Value is the ambient temperature, Alpha the heat transfer coefficient,
//     the flux into the domain is Alpha*(Value - T_wall)
type BoundaryCondition struct {
	Type  types.BCFLAG
	Value float64
	Alpha float64
}

func Dirichlet(T float64) BoundaryCondition {
	return BoundaryCondition{Type: types.BC_Dirichlet, Value: T}
}

func Neumann(q float64) BoundaryCondition {
	return BoundaryCondition{Type: types.BC_Neuman, Value: q}
}

func Robin(alpha, TInf float64) BoundaryCondition {
	return BoundaryCondition{Type: types.BC_Robin, Value: TInf, Alpha: alpha}
}

func (bc BoundaryCondition) String() string {
	switch bc.Type {
	case types.BC_Robin:
		return fmt.Sprintf("%s(alpha=%g, TInf=%g)", bc.Type, bc.Alpha, bc.Value)
	default:
		return fmt.Sprintf("%s(%g)", bc.Type, bc.Value)
	}
}

// ConductivityAt selects where k is evaluated when assembling a cell.
type ConductivityAt uint8

const (
	// AtFace evaluates k on each face with the mean of the neighbouring temperatures.
	AtFace ConductivityAt = iota
	// AtCenter uses k of the cell centre on both faces. It ignores jumps in k between cells and is
	// kept to show that error.
	AtCenter
)

func NewConductivityAt(name string) (ConductivityAt, error) {
	switch name {
	case "", "face", "Face":
		return AtFace, nil
	case "center", "Center", "centre":
		return AtCenter, nil
	}
	return AtFace, fmt.Errorf("%w: unknown conductivity location %q", ErrInvalidProblem, name)
}

type Problem struct {
	Length       float64
	NumVolumes   int
	Conductivity Conductivity // nil means k = 1
	Source       Source       // nil means no source
	At           ConductivityAt
	West, East   BoundaryCondition
	// Picard iteration control
	MaxIterations int
	MinIterations int
	MSE           float64 // stop when mean((T-Tprev)^2) drops below MSE
	Omega         float64 // under-relaxation factor in (0, 1]
}

// NewProblem returns a problem on [0, L] with k = 1, no source, T(0) = 0 and T(L) = 1.
func NewProblem(L float64, NumVolumes int) *Problem {
	return &Problem{
		Length:        L,
		NumVolumes:    NumVolumes,
		West:          Dirichlet(0),
		East:          Dirichlet(1),
		MaxIterations: 50,
		MinIterations: 3,
		MSE:           1.e-4,
		Omega:         1,
	}
}

func (p *Problem) Validate() error {
	switch {
	case !(p.Length > 0):
		return fmt.Errorf("%w: length %g must be positive", ErrInvalidProblem, p.Length)
	case p.NumVolumes < 3:
		return fmt.Errorf("%w: need at least 3 volumes, have %d", ErrInvalidProblem, p.NumVolumes)
	case p.MaxIterations < 1:
		return fmt.Errorf("%w: MaxIterations %d must be at least 1", ErrInvalidProblem, p.MaxIterations)
	case !(p.Omega > 0 && p.Omega <= 1):
		return fmt.Errorf("%w: relaxation factor %g outside (0, 1]", ErrInvalidProblem, p.Omega)
	}
	for _, bc := range []BoundaryCondition{p.West, p.East} {
		switch bc.Type {
		case types.BC_Dirichlet, types.BC_Neuman:
		case types.BC_Robin:
			if !(bc.Alpha > 0) {
				return fmt.Errorf("%w: Robin condition needs a positive heat transfer coefficient, have %g",
					ErrInvalidProblem, bc.Alpha)
			}
		default:
			return fmt.Errorf("%w: unsupported boundary condition %s", ErrInvalidProblem, bc.Type)
		}
	}
	if p.West.Type == types.BC_Neuman && p.East.Type == types.BC_Neuman {
		return ErrIllPosed
	}
	return nil
}

func (p *Problem) conductivity() Conductivity {
	if p.Conductivity == nil {
		return ConstantConductivity(1)
	}
	return p.Conductivity
}

// Assemble fills sys with the discrete equations linearised about T. sys and T must have
// m.Len() entries.
func (p *Problem) Assemble(m *Mesh, T []float64, sys *tdma.System) {
	var (
		n              = m.Len()
		xc, xf         = m.XCen, m.XFace
		k              = p.conductivity()
		Lo, Di, Up, Rs = sys.Lower, sys.Diag, sys.Upper, sys.RHS
	)
	if len(T) != n || sys.Len() != n {
		panic(fmt.Sprintf("heat: assemble length mismatch: mesh %d, T %d, system %d", n, len(T), sys.Len()))
	}
	for i := 1; i < n-1; i++ {
		var kw, ke float64
		switch p.At {
		case AtCenter:
			kw = k(xc[i], T[i])
			ke = kw
		default:
			kw = k(xf[i-1], 0.5*(T[i]+T[i-1]))
			ke = k(xf[i], 0.5*(T[i+1]+T[i]))
		}
		Up[i] = -ke / (xc[i+1] - xc[i])
		Lo[i] = -kw / (xc[i] - xc[i-1])
		Di[i] = -Up[i] - Lo[i]
		if p.Source == nil {
			Rs[i] = 0
		} else {
			Rs[i] = (xf[i] - xf[i-1]) * p.Source(xc[i], T[i])
		}
	}
	// West boundary node couples to node 1 only
	{
		kb := k(xf[0], 0.5*(T[0]+T[1]))
		g := kb / (xc[1] - xc[0])
		Lo[0] = 0
		Di[0], Up[0], Rs[0] = boundaryRow(p.West, g)
	}
	// East boundary node couples to node n-2 only
	{
		kb := k(xf[n-2], 0.5*(T[n-1]+T[n-2]))
		g := kb / (xc[n-1] - xc[n-2])
		Up[n-1] = 0
		Di[n-1], Lo[n-1], Rs[n-1] = boundaryRow(p.East, g)
	}
}

// boundaryRow returns the coefficients of the boundary node, of its single neighbour and the
// right hand side. g is the conductance k/h between the two nodes.
func boundaryRow(bc BoundaryCondition, g float64) (diag, neighbour, rhs float64) {
	switch bc.Type {
	case types.BC_Neuman:
		// g*(T_b - T_nb) = q
		return g, -g, bc.Value
	case types.BC_Robin:
		// g*(T_b - T_nb) = alpha*(TInf - T_b)
		return g + bc.Alpha, -g, bc.Alpha * bc.Value
	default:
		return 1, 0, bc.Value
	}
}

// InitialGuess is the straight line between the boundary reference temperatures. A flux condition
// has no temperature of its own and borrows the one of the opposite end.
func (p *Problem) InitialGuess(m *Mesh) (T []float64) {
	var (
		tw, te = p.West.Value, p.East.Value
	)
	if p.West.Type == types.BC_Neuman {
		tw = te
	}
	if p.East.Type == types.BC_Neuman {
		te = tw
	}
	T = make([]float64, m.Len())
	for i, x := range m.XCen {
		T[i] = tw + (te-tw)*x/m.L
	}
	return
}
