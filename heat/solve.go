package heat

import (
	"fmt"

	"github.com/notargets/tdma/tdma"
	"github.com/notargets/tdma/utils"
)

type Result struct {
	X, T               []float64
	DTdxWest, DTdxEast float64 // one-sided boundary gradients
	QWest, QEast       float64 // heat flux density into the domain through each boundary
	Iterations         int
	Converged          bool
	HistMSE            []float64
	HistDTdxWest       []float64
	HistDTdxEast       []float64
}

// SolveLinear assembles once about T0 and solves. T0 = nil uses InitialGuess. This is the whole
// solution when neither k nor S depend on T.
func (p *Problem) SolveLinear(T0 []float64) (r *Result, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	var (
		m = NewMesh(p.Length, p.NumVolumes)
	)
	if T0 == nil {
		T0 = p.InitialGuess(m)
	}
	if len(T0) != m.Len() {
		return nil, fmt.Errorf("%w: initial temperature has %d values, mesh has %d nodes",
			ErrInvalidProblem, len(T0), m.Len())
	}
	var (
		sys = tdma.NewSystem(m.Len())
		T   = make([]float64, m.Len())
	)
	p.Assemble(m, T0, sys)
	if err = tdma.NewSolver(m.Len()).SolveTo(T, sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
		return nil, fmt.Errorf("heat: %w", err)
	}
	r = p.newResult(m, T)
	r.Iterations = 1
	r.Converged = true
	return
}

// Solve runs Picard iterations: the system is re-assembled about the relaxed previous iterate
//
//	Tprev = (1-Omega)*Tprev + Omega*T
//
// until mean((T-Tprev)^2) < MSE once more than MinIterations solves have run, or MaxIterations is
// reached.
// Running out of iterations is not an error; Result.Converged reports it.
func (p *Problem) Solve() (r *Result, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	var (
		m      = NewMesh(p.Length, p.NumVolumes)
		n      = m.Len()
		sys    = tdma.NewSystem(n)
		solver = tdma.NewSolver(n)
		Tprev  = p.InitialGuess(m)
		T      = make([]float64, n)
		hist   Result
	)
	for it := 0; it < p.MaxIterations; it++ {
		if it > 0 {
			for i := range Tprev {
				Tprev[i] = (1-p.Omega)*Tprev[i] + p.Omega*T[i]
			}
		}
		p.Assemble(m, Tprev, sys)
		if err = solver.SolveTo(T, sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
			return nil, fmt.Errorf("heat: iteration %d: %w", it, err)
		}
		if !utils.IsFinite(T) {
			return nil, fmt.Errorf("%w: non-finite temperature at iteration %d", ErrDiverged, it)
		}
		mse := utils.MeanSquareDiff(T, Tprev)
		dw, de := boundaryGradients(m, T)
		hist.HistMSE = append(hist.HistMSE, mse)
		hist.HistDTdxWest = append(hist.HistDTdxWest, dw)
		hist.HistDTdxEast = append(hist.HistDTdxEast, de)
		hist.Iterations = it + 1
		if mse < p.MSE && it+1 > p.MinIterations {
			hist.Converged = true
			break
		}
	}
	r = p.newResult(m, T)
	r.Iterations, r.Converged = hist.Iterations, hist.Converged
	r.HistMSE, r.HistDTdxWest, r.HistDTdxEast = hist.HistMSE, hist.HistDTdxWest, hist.HistDTdxEast
	return
}

func boundaryGradients(m *Mesh, T []float64) (west, east float64) {
	var (
		n  = m.Len()
		xc = m.XCen
	)
	west = (T[1] - T[0]) / (xc[1] - xc[0])
	east = (T[n-1] - T[n-2]) / (xc[n-1] - xc[n-2])
	return
}

func (p *Problem) newResult(m *Mesh, T []float64) (r *Result) {
	var (
		k = p.conductivity()
		n = m.Len()
	)
	r = &Result{
		X: append([]float64(nil), m.XCen...),
		T: append([]float64(nil), T...),
	}
	r.DTdxWest, r.DTdxEast = boundaryGradients(m, T)
	// Outward normals are -1 (west) and +1 (east); the inward flux is k dT/dn
	r.QWest = -k(0, T[0]) * r.DTdxWest
	r.QEast = k(m.L, T[n-1]) * r.DTdxEast
	return
}
