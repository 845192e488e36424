package tdma_test

import (
	"fmt"

	"github.com/notargets/tdma/tdma"
)

func ExampleSolve() {
	x, err := tdma.Solve(
		[]float64{0, 1, 1}, // lower, lower[0] unused
		[]float64{2, 3, 2}, // diag
		[]float64{1, 1, 0}, // upper, upper[2] unused
		[]float64{4, 10, 8},
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.4f\n", x)
	// Output: [1.0000 2.0000 3.0000]
}

func ExampleSolveBatch() {
	x, err := tdma.SolveBatch(
		[]float64{0, 1, 1},
		[]float64{2, 3, 2},
		[]float64{1, 1, 0},
		[][]float64{{4, 10, 8}, {3, 5, 3}},
		2,
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, xk := range x {
		fmt.Printf("%.4f\n", xk)
	}
	// Output:
	// [1.0000 2.0000 3.0000]
	// [1.0000 1.0000 1.0000]
}

func ExampleSolve_singular() {
	_, err := tdma.Solve([]float64{0, 1, 1}, []float64{0, 0, 0}, []float64{1, 1, 0}, []float64{1, 4, 3})
	fmt.Println(err)
	// Output: tdma: singular matrix: pivot 0 at row 0 is below threshold 1.4210854715202004e-14
}
