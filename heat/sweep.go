package heat

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// SweepResult holds the boundary heat fluxes for every combination of wall temperatures. Row i is
// TWest[i], column j is TEast[j].
type SweepResult struct {
	TWest, TEast []float64
	QWest, QEast *mat.Dense
	Iterations   [][]int
}

// Sweep solves the problem with Dirichlet conditions for every (TWest[i], TEast[j]) pair. The
// problem's own boundary conditions are ignored while Conductivity is used as is, so a reference
// temperature taken from those walls has to be set for the swept range by the caller. Conductivity
// and Source are called from several goroutines and must not keep state. parallelDegree <= 0 uses runtime.NumCPU().
func (p *Problem) Sweep(TWest, TEast []float64, parallelDegree int) (sr *SweepResult, err error) {
	var (
		nw, ne = len(TWest), len(TEast)
		g      errgroup.Group
	)
	if nw == 0 || ne == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one west and one east temperature", ErrInvalidProblem)
	}
	if parallelDegree <= 0 {
		parallelDegree = runtime.NumCPU()
	}
	sr = &SweepResult{
		TWest:      append([]float64(nil), TWest...),
		TEast:      append([]float64(nil), TEast...),
		QWest:      mat.NewDense(nw, ne, nil),
		QEast:      mat.NewDense(nw, ne, nil),
		Iterations: make([][]int, nw),
	}
	for i := range sr.Iterations {
		sr.Iterations[i] = make([]int, ne)
	}
	g.SetLimit(parallelDegree)
	for i, tw := range TWest {
		for j, te := range TEast {
			pc := *p
			pc.West, pc.East = Dirichlet(tw), Dirichlet(te)
			g.Go(func() error {
				r, err := pc.Solve()
				if err != nil {
					return fmt.Errorf("heat: sweep TWest = %g, TEast = %g: %w", tw, te, err)
				}
				// Each (i, j) is written by exactly one goroutine
				sr.QWest.Set(i, j, r.QWest)
				sr.QEast.Set(i, j, r.QEast)
				sr.Iterations[i][j] = r.Iterations
				return nil
			})
		}
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return
}
