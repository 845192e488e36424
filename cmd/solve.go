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
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/tdma/InputParameters"
	"github.com/notargets/tdma/tdma"
	"github.com/notargets/tdma/utils"
)

const exampleSystemFile = `
########################################
Title: "Small System"
Lower: [0, 1, 1]  # Lower[0] is ignored
Diag: [2, 3, 2]
Upper: [1, 1, 0]  # Upper[n-1] is ignored
RHS: [4, 10, 8]
Tolerance: 0      # 0 uses the default relative pivot tolerance
########################################
`

var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a tridiagonal system read from a YAML file",
	Long: `Solve a tridiagonal system read from a YAML file and print the solution with its residual

tdma solve -I system.yaml --verify`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			data []byte
			ip   = &InputParameters.InputParametersSystem{}
		)
		inputFile, _ := cmd.Flags().GetString("inputFile")
		verify, _ := cmd.Flags().GetBool("verify")
		if data, err = readInputFile(inputFile, exampleSystemFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
		_, err = RunSolve(ip, verify, os.Stdout)
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputFile", "I", "", "YAML file with Lower, Diag, Upper and RHS")
	SolveCmd.Flags().BoolP("verify", "v", false, "compare against a dense LU solution")
}

type SolveReport struct {
	X           []float64
	MaxResidual float64
	DenseDiff   float64 // Max difference to the dense solution, NaN unless verified
}

func RunSolve(ip *InputParameters.InputParametersSystem, verify bool, w io.Writer) (sr *SolveReport, err error) {
	var (
		sys = ip.System()
		s   = &tdma.Solver{Tolerance: ip.Tolerance}
	)
	if err = sys.Validate(); err != nil {
		return
	}
	if utils.IsNan([][]float64{sys.Lower, sys.Diag, sys.Upper, sys.RHS}) {
		return nil, fmt.Errorf("input system %q contains NaN", ip.Title)
	}
	sr = &SolveReport{X: make([]float64, sys.Len()), DenseDiff: math.NaN()}
	logger.Debug("solving system", "title", ip.Title, "n", sys.Len())
	if err = s.SolveTo(sr.X, sys.Lower, sys.Diag, sys.Upper, sys.RHS); err != nil {
		return nil, err
	}
	sr.MaxResidual = sys.MaxResidual(sr.X)
	if verify {
		var xd []float64
		if xd, err = sys.SolveDense(); err != nil {
			return nil, err
		}
		sr.DenseDiff = 0
		for i := range xd {
			sr.DenseDiff = math.Max(sr.DenseDiff, math.Abs(xd[i]-sr.X[i]))
		}
	}
	fmt.Fprintf(w, "\"%s\"\n", ip.Title)
	fmt.Fprintf(w, "%6s %22s\n", "i", "x")
	for i, x := range sr.X {
		fmt.Fprintf(w, "%6d %22.15g\n", i, x)
	}
	fmt.Fprintf(w, "Max Residual = %8.3e\n", sr.MaxResidual)
	if verify {
		fmt.Fprintf(w, "Max Difference to Dense LU = %8.3e\n", sr.DenseDiff)
	}
	return
}
