package heat

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// ConvergenceStudy records the error of a problem with a known solution over a sequence of
// meshes.
type ConvergenceStudy struct {
	Title      string
	NumVolumes []int
	RMS, MAX   []float64
}

func NewConvergenceStudy(title string) *ConvergenceStudy {
	return &ConvergenceStudy{Title: title}
}

func (cs *ConvergenceStudy) Add(numVolumes int, rms, max float64) {
	cs.NumVolumes = append(cs.NumVolumes, numVolumes)
	cs.RMS = append(cs.RMS, rms)
	cs.MAX = append(cs.MAX, max)
}

// Orders returns the observed order of accuracy between consecutive levels,
// log(e[i-1]/e[i]) / log(N[i]/N[i-1]). Entry 0 is NaN.
func (cs *ConvergenceStudy) Orders() (rmsOrder, maxOrder []float64) {
	var (
		n = len(cs.NumVolumes)
	)
	rmsOrder, maxOrder = make([]float64, n), make([]float64, n)
	for i := range rmsOrder {
		if i == 0 {
			rmsOrder[i], maxOrder[i] = math.NaN(), math.NaN()
			continue
		}
		ratio := math.Log(float64(cs.NumVolumes[i]) / float64(cs.NumVolumes[i-1]))
		rmsOrder[i] = math.Log(cs.RMS[i-1]/cs.RMS[i]) / ratio
		maxOrder[i] = math.Log(cs.MAX[i-1]/cs.MAX[i]) / ratio
	}
	return
}

// WriteCSV writes one row per level: title, volumes, RMS, MAX and the two observed orders.
func (cs *ConvergenceStudy) WriteCSV(w io.Writer) error {
	var (
		cw             = csv.NewWriter(w)
		rmsOrd, maxOrd = cs.Orders()
		format         = func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
		header         = []string{"Title", "NumVolumes", "RMS", "MAX", "OrderRMS", "OrderMAX"}
	)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, nv := range cs.NumVolumes {
		rec := []string{cs.Title, strconv.Itoa(nv), format(cs.RMS[i]), format(cs.MAX[i]),
			format(rmsOrd[i]), format(maxOrd[i])}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ManufacturedStudy runs the constant-property problem -k T'' = S, T(0) = T(L) = 0, whose solution
// is T = S x (L-x) / (2k), on each mesh level.
func ManufacturedStudy(levels []int, k, S, L float64) (cs *ConvergenceStudy, err error) {
	cs = NewConvergenceStudy(fmt.Sprintf("k=%g S=%g L=%g", k, S, L))
	for _, nVol := range levels {
		p := NewProblem(L, nVol)
		p.Conductivity = ConstantConductivity(k)
		p.Source = func(x, T float64) float64 { return S }
		p.West, p.East = Dirichlet(0), Dirichlet(0)
		var r *Result
		if r, err = p.SolveLinear(nil); err != nil {
			return nil, err
		}
		diff := make([]float64, len(r.X))
		for i, x := range r.X {
			diff[i] = r.T[i] - S*x*(L-x)/(2*k)
		}
		rms := floats.Norm(diff, 2) / math.Sqrt(float64(len(diff)))
		cs.Add(nVol, rms, floats.Norm(diff, math.Inf(1)))
	}
	return
}
