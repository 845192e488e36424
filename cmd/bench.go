/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tdma/tdma"
	"github.com/notargets/tdma/utils"
)

var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated solves of a random diagonally dominant system",
	Long: `Time repeated solves of a random diagonally dominant system, optionally with hardware
counters and batched right-hand sides

tdma bench -n 1000000 -r 10 --perf --batch 64`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		bc := &BenchConfig{}
		bc.N, _ = cmd.Flags().GetInt("n")
		bc.Repeat, _ = cmd.Flags().GetInt("repeat")
		bc.Batch, _ = cmd.Flags().GetInt("batch")
		bc.Perf, _ = cmd.Flags().GetBool("perf")
		bc.Seed, _ = cmd.Flags().GetInt64("seed")
		bc.ParallelDegree = viper.GetInt("parallel")
		_, err = RunBench(bc, os.Stdout)
		return
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().IntP("n", "n", 1000000, "number of unknowns")
	BenchCmd.Flags().IntP("repeat", "r", 10, "number of timed solves")
	BenchCmd.Flags().IntP("batch", "b", 0, "also solve this many right-hand sides and systems in parallel")
	BenchCmd.Flags().Bool("perf", false, "count CPU instructions and cycles of one solve (Linux perf events)")
	BenchCmd.Flags().Int64("seed", 1, "random seed")
}

type BenchConfig struct {
	N, Repeat      int
	Batch          int
	ParallelDegree int
	Perf           bool
	Seed           int64
}

type BenchReport struct {
	Min, Mean                  time.Duration
	NsPerUnknown               float64
	MaxResidual                float64
	Instructions, Cycles       uint64
	BatchTime, SystemsTime     time.Duration
	BatchResidual, SysResidual float64
}

// RandomSystem returns a diagonally dominant system, |diag| >= |lower| + |upper| + 1, with random
// signs on the diagonal and the right-hand side in [-10, 10].
func RandomSystem(rng *rand.Rand, n int) (sys *tdma.System) {
	sys = tdma.NewSystem(n)
	for i := 0; i < n; i++ {
		sys.Lower[i] = 2*rng.Float64() - 1
		sys.Upper[i] = 2*rng.Float64() - 1
		sys.Diag[i] = math.Abs(sys.Lower[i]) + math.Abs(sys.Upper[i]) + 1 + rng.Float64()
		if rng.Intn(2) == 0 {
			sys.Diag[i] = -sys.Diag[i]
		}
		sys.RHS[i] = 20*rng.Float64() - 10
	}
	return
}

func RunBench(bc *BenchConfig, w io.Writer) (br *BenchReport, err error) {
	if bc.N < tdma.MinSize || bc.Repeat < 1 {
		return nil, fmt.Errorf("bench needs n >= %d and repeat >= 1, have n = %d, repeat = %d",
			tdma.MinSize, bc.N, bc.Repeat)
	}
	var (
		rng    = rand.New(rand.NewSource(bc.Seed))
		sys    = RandomSystem(rng, bc.N)
		x      = make([]float64, bc.N)
		solver = tdma.NewSolver(bc.N)
		total  time.Duration
	)
	br = &BenchReport{Min: time.Duration(math.MaxInt64)}
	logger.Info("bench", "n", bc.N, "repeat", bc.Repeat, "batch", bc.Batch, "mem", utils.GetMemUsage())
	for r := 0; r < bc.Repeat; r++ {
		start := time.Now()
		if err = solver.SolveTo(x, sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
			return nil, err
		}
		el := time.Since(start)
		total += el
		br.Min = min(br.Min, el)
	}
	br.Mean = total / time.Duration(bc.Repeat)
	br.NsPerUnknown = float64(br.Min.Nanoseconds()) / float64(bc.N)
	br.MaxResidual = sys.MaxResidual(x)
	fmt.Fprintf(w, "N = %d, Repeats = %d\n", bc.N, bc.Repeat)
	fmt.Fprintf(w, "Min Time = %v, Mean Time = %v, %8.3f ns/unknown\n", br.Min, br.Mean, br.NsPerUnknown)
	fmt.Fprintf(w, "Max Residual = %8.3e\n", br.MaxResidual)

	if bc.Perf {
		solve := func() error { return solver.SolveTo(x, sys.Lower, sys.Diag, sys.Upper, sys.RHS) }
		var pv *perf.ProfileValue
		if pv, err = perf.CPUInstructions(solve); err != nil {
			// Perf events are often unavailable in containers
			logger.Warn("hardware counters unavailable", "error", err)
			err = nil
		} else {
			br.Instructions = pv.Value
			if pv, err = perf.CPUCycles(solve); err != nil {
				logger.Warn("cycle counter unavailable", "error", err)
				err = nil
			} else {
				br.Cycles = pv.Value
			}
			fmt.Fprintf(w, "Instructions = %d (%6.2f per unknown), Cycles = %d (%6.2f per unknown)\n",
				br.Instructions, float64(br.Instructions)/float64(bc.N),
				br.Cycles, float64(br.Cycles)/float64(bc.N))
		}
	}

	if bc.Batch > 0 {
		if err = runBatchBench(bc, rng, sys, br, w); err != nil {
			return nil, err
		}
	}
	logger.Debug("bench done", "mem", utils.GetMemUsage())
	return
}

func runBatchBench(bc *BenchConfig, rng *rand.Rand, sys *tdma.System, br *BenchReport, w io.Writer) (err error) {
	var (
		rhs     = make([][]float64, bc.Batch)
		systems = make([]*tdma.System, bc.Batch)
		x       [][]float64
	)
	for k := range rhs {
		systems[k] = RandomSystem(rng, bc.N)
		rhs[k] = systems[k].RHS
	}
	start := time.Now()
	if x, err = tdma.SolveBatch(sys.Lower, sys.Diag, sys.Upper, rhs, bc.ParallelDegree); err != nil {
		return
	}
	br.BatchTime = time.Since(start)
	for k := range rhs {
		check := &tdma.System{Lower: sys.Lower, Diag: sys.Diag, Upper: sys.Upper, RHS: rhs[k]}
		br.BatchResidual = math.Max(br.BatchResidual, check.MaxResidual(x[k]))
	}
	start = time.Now()
	if x, err = tdma.SolveSystems(systems, bc.ParallelDegree); err != nil {
		return
	}
	br.SystemsTime = time.Since(start)
	for k, s := range systems {
		br.SysResidual = math.Max(br.SysResidual, s.MaxResidual(x[k]))
	}
	fmt.Fprintf(w, "Batch of %d right hand sides: %v, Max Residual = %8.3e\n", bc.Batch, br.BatchTime, br.BatchResidual)
	fmt.Fprintf(w, "Batch of %d systems: %v, Max Residual = %8.3e\n", bc.Batch, br.SystemsTime, br.SysResidual)
	return
}
