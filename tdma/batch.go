package tdma

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/tdma/utils"
)

// SolveBatch solves one matrix against many right-hand sides. The matrix is factorized once and
// the right-hand sides are split into contiguous partitions, one goroutine per partition.
// parallelDegree <= 0 uses runtime.NumCPU(). x[k] is the solution for rhs[k].
func SolveBatch(lower, diag, upper []float64, rhs [][]float64, parallelDegree int) (x [][]float64, err error) {
	var (
		f *Factorization
	)
	if f, err = Factorize(lower, diag, upper); err != nil {
		return
	}
	for k, r := range rhs {
		if len(r) != f.Len() {
			return nil, fmt.Errorf("tdma: rhs %d: %w", k, &DimensionError{Field: "rhs", Len: len(r), Want: f.Len()})
		}
	}
	x = make([][]float64, len(rhs))
	err = runPartitioned(len(rhs), parallelDegree, func(kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			x[k] = make([]float64, f.Len())
			if err := f.SolveTo(x[k], rhs[k]); err != nil {
				return fmt.Errorf("tdma: rhs %d: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

// SolveSystems solves independent systems in parallel. Each worker owns its scratch, the systems
// themselves are only read.
func SolveSystems(systems []*System, parallelDegree int) (x [][]float64, err error) {
	x = make([][]float64, len(systems))
	err = runPartitioned(len(systems), parallelDegree, func(kMin, kMax int) error {
		var (
			s = &Solver{}
		)
		for k := kMin; k < kMax; k++ {
			sys := systems[k]
			x[k] = make([]float64, sys.Len())
			if err := s.SolveTo(x[k], sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
				return fmt.Errorf("tdma: system %d: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return
}

func runPartitioned(count, parallelDegree int, work func(kMin, kMax int) error) error {
	if count == 0 {
		return nil
	}
	if parallelDegree <= 0 {
		parallelDegree = runtime.NumCPU()
	}
	if parallelDegree > count {
		parallelDegree = count
	}
	var (
		pm = utils.NewPartitionMap(parallelDegree, count)
		g  errgroup.Group
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		if pm.GetBucketDimension(np) == 0 {
			continue
		}
		kMin, kMax := pm.GetBucketRange(np)
		g.Go(func() error {
			return work(kMin, kMax)
		})
	}
	return g.Wait()
}
