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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tdma/InputParameters"
	"github.com/notargets/tdma/heat"
	"github.com/notargets/tdma/plot"
)

const exampleHeatFile = `
########################################
Title: "Wall With Convection"
Length: 0.5
NumVolumes: 40
ConductivityCoeffs: [15, 0.01] # k(T) = 15 + 0.01*(T-TRef)
Source: 1000.
BCs:
  Dirichlet-West:
    T: 400
  Robin-East:
    Alpha: 25
    TInf: 300
Sweep:
  TWest: [350, 400, 450]
  TEastRange: [280, 320, 5] # min, max, number of values
########################################
`

type ModelHeat struct {
	InputFile string
	Graph     bool
	Sweep     bool
}

var HeatCmd = &cobra.Command{
	Use:   "heat",
	Short: "Steady 1D heat conduction with finite volumes",
	Long: `Steady 1D heat conduction with finite volumes, solved with the tridiagonal solver

tdma heat -I heat.yaml --sweep`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			data []byte
			mh   = &ModelHeat{}
			ip   = &InputParameters.InputParametersHeat{}
		)
		mh.InputFile, _ = cmd.Flags().GetString("inputFile")
		mh.Graph, _ = cmd.Flags().GetBool("graph")
		mh.Sweep, _ = cmd.Flags().GetBool("sweep")
		if data, err = readInputFile(mh.InputFile, exampleHeatFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
		ip.Print()
		var r *heat.Result
		if r, err = RunHeat(mh, ip, os.Stdout); err != nil {
			return
		}
		if mh.Graph {
			plot.PlotProfiles(r.X, map[string][]float64{"T": r.T})
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(HeatCmd)
	HeatCmd.Flags().StringP("inputFile", "I", "", "YAML file for the conduction problem")
	HeatCmd.Flags().BoolP("graph", "g", false, "display the temperature profile")
	HeatCmd.Flags().BoolP("sweep", "s", false, "run the boundary temperature sweep from the input file")
}

func RunHeat(mh *ModelHeat, ip *InputParameters.InputParametersHeat, w io.Writer) (r *heat.Result, err error) {
	var (
		p *heat.Problem
	)
	if p, err = ip.Problem(); err != nil {
		return
	}
	logger.Info("heat", "title", ip.Title, "volumes", p.NumVolumes, "west", p.West.String(), "east", p.East.String())
	if r, err = p.Solve(); err != nil {
		return
	}
	if !r.Converged {
		logger.Warn("picard iteration did not converge", "iterations", r.Iterations,
			"mse", r.HistMSE[len(r.HistMSE)-1])
	}
	fmt.Fprintf(w, "%6s %14s %14s\n", "i", "x", "T")
	for i := range r.X {
		fmt.Fprintf(w, "%6d %14.6f %14.6f\n", i, r.X[i], r.T[i])
	}
	fmt.Fprintf(w, "Iterations = %d, Converged = %v\n", r.Iterations, r.Converged)
	fmt.Fprintf(w, "dT/dx West = %12.6g, dT/dx East = %12.6g\n", r.DTdxWest, r.DTdxEast)
	fmt.Fprintf(w, "Q West = %12.6g, Q East = %12.6g\n", r.QWest, r.QEast)

	if mh.Sweep {
		var (
			sr           *heat.SweepResult
			sp           *heat.Problem
			TWest, TEast []float64
		)
		if TWest, TEast, err = ip.SweepTemperatures(); err != nil {
			return nil, err
		}
		if sp, err = ip.SweepProblem(TWest, TEast); err != nil {
			return nil, err
		}
		if sr, err = sp.Sweep(TWest, TEast, viper.GetInt("parallel")); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "%10s %10s %14s %14s %6s\n", "TWest", "TEast", "QWest", "QEast", "Iter")
		for i, tw := range sr.TWest {
			for j, te := range sr.TEast {
				fmt.Fprintf(w, "%10.3f %10.3f %14.6g %14.6g %6d\n",
					tw, te, sr.QWest.At(i, j), sr.QEast.At(i, j), sr.Iterations[i][j])
			}
		}
	}
	return
}
