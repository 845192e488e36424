package InputParameters

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/tdma/heat"
	"github.com/notargets/tdma/tdma"
	"github.com/notargets/tdma/types"
	"github.com/notargets/tdma/utils"
)

// Parameters of a single tridiagonal system obtained from the YAML input file
type InputParametersSystem struct {
	Title     string    `yaml:"Title"`
	Lower     []float64 `yaml:"Lower"` // Lower[0] is not part of the matrix
	Diag      []float64 `yaml:"Diag"`
	Upper     []float64 `yaml:"Upper"` // Upper[n-1] is not part of the matrix
	RHS       []float64 `yaml:"RHS"`
	Tolerance float64   `yaml:"Tolerance"` // Zero means tdma.DefaultTolerance
}

func (ip *InputParametersSystem) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersSystem) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Unknowns\n", len(ip.Diag))
	fmt.Printf("%8.3g\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("Lower = %v\n", ip.Lower)
	fmt.Printf("Diag  = %v\n", ip.Diag)
	fmt.Printf("Upper = %v\n", ip.Upper)
	fmt.Printf("RHS   = %v\n", ip.RHS)
}

func (ip *InputParametersSystem) System() *tdma.System {
	return &tdma.System{
		Lower: ip.Lower,
		Diag:  ip.Diag,
		Upper: ip.Upper,
		RHS:   ip.RHS,
	}
}

// Parameters of a 1D heat conduction problem obtained from the YAML input file
type InputParametersHeat struct {
	Title              string                        `yaml:"Title"`
	Length             float64                       `yaml:"Length"`
	NumVolumes         int                           `yaml:"NumVolumes"`
	ConductivityCoeffs []float64                     `yaml:"ConductivityCoeffs"` // k(T) = sum c[j]*(T-TRef)^j
	TRef               *float64                      `yaml:"TRef"`               // Unset uses the lowest wall temperature
	Source             float64                       `yaml:"Source"`             // Volumetric heat source
	ConductivityAt     string                        `yaml:"ConductivityAt"`     // face or center
	BCs                map[string]map[string]float64 `yaml:"BCs"`                // Key is "<type>-<West|East>", second is parameter name
	MaxIterations      int                           `yaml:"MaxIterations"`
	MinIterations      int                           `yaml:"MinIterations"`
	MSE                float64                       `yaml:"MSE"`
	Omega              float64                       `yaml:"Omega"`
	Sweep              struct {
		TWest      []float64 `yaml:"TWest"`
		TEast      []float64 `yaml:"TEast"`
		TWestRange []float64 `yaml:"TWestRange"` // [min, max, N], used when TWest is empty
		TEastRange []float64 `yaml:"TEastRange"`
	} `yaml:"Sweep"`
}

func (ip *InputParametersHeat) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersHeat) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Length\n", ip.Length)
	fmt.Printf("[%d]\t\t\t\t= Number of Volumes\n", ip.NumVolumes)
	fmt.Printf("%v\t\t= Conductivity Coefficients\n", ip.ConductivityCoeffs)
	if ip.TRef != nil {
		fmt.Printf("%8.5f\t\t= Reference Temperature\n", *ip.TRef)
	}
	fmt.Printf("%8.5f\t\t= Source\n", ip.Source)
	if len(ip.ConductivityAt) != 0 {
		fmt.Printf("[%s]\t\t\t= Conductivity At\n", ip.ConductivityAt)
	}
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", ip.MaxIterations)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
	if tw, te, err := ip.SweepTemperatures(); err == nil {
		fmt.Printf("Sweep TWest = %v, TEast = %v\n", tw, te)
	}
}

// SweepTemperatures returns the wall temperatures of the sweep, either listed or as evenly spaced
// ranges.
func (ip *InputParametersHeat) SweepTemperatures() (TWest, TEast []float64, err error) {
	if TWest, err = sweepValues("TWest", ip.Sweep.TWest, ip.Sweep.TWestRange); err != nil {
		return
	}
	TEast, err = sweepValues("TEast", ip.Sweep.TEast, ip.Sweep.TEastRange)
	return
}

func sweepValues(name string, values, rng []float64) ([]float64, error) {
	switch {
	case len(values) != 0:
		return values, nil
	case len(rng) == 3 && rng[2] >= 1 && rng[2] == math.Trunc(rng[2]):
		return utils.Linspace(rng[0], rng[1], int(rng[2])), nil
	case len(rng) == 0:
		return nil, fmt.Errorf("%w: sweep has no %s temperatures", heat.ErrInvalidProblem, name)
	}
	return nil, fmt.Errorf("%w: %sRange must be [min, max, N], have %v", heat.ErrInvalidProblem, name, rng)
}

// Problem builds the heat problem. Unset iteration controls keep the heat.NewProblem defaults.
func (ip *InputParametersHeat) Problem() (p *heat.Problem, err error) {
	return ip.problem(nil)
}

// SweepProblem builds the problem for a sweep over TWest x TEast. When TRef is unset the
// conductivity is referenced to the lowest swept temperature instead of the problem's own walls.
func (ip *InputParametersHeat) SweepProblem(TWest, TEast []float64) (p *heat.Problem, err error) {
	if len(TWest) == 0 || len(TEast) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one west and one east temperature", heat.ErrInvalidProblem)
	}
	return ip.problem(append(append([]float64(nil), TWest...), TEast...))
}

func (ip *InputParametersHeat) problem(sweepT []float64) (p *heat.Problem, err error) {
	p = heat.NewProblem(ip.Length, ip.NumVolumes)
	if p.At, err = heat.NewConductivityAt(ip.ConductivityAt); err != nil {
		return nil, err
	}
	var (
		found = map[string]bool{}
	)
	for token, params := range ip.BCs {
		var (
			tag   = types.NewBCTAG(token)
			label = tag.GetLabel()
			bc    heat.BoundaryCondition
		)
		if bc, err = newBoundaryCondition(tag.GetFLAG(), params); err != nil {
			return nil, fmt.Errorf("%w: BCs[%s]: %v", heat.ErrInvalidProblem, token, err)
		}
		side := strings.ToLower(label)
		if found[side] {
			return nil, fmt.Errorf("%w: BCs[%s]: second condition for %s", heat.ErrInvalidProblem, token, label)
		}
		found[side] = true
		switch side {
		case "west":
			p.West = bc
		case "east":
			p.East = bc
		default:
			return nil, fmt.Errorf("%w: BCs[%s]: boundary %q is neither West nor East",
				heat.ErrInvalidProblem, token, label)
		}
	}
	if len(ip.ConductivityCoeffs) != 0 {
		if len(ip.ConductivityCoeffs) > 5 {
			return nil, fmt.Errorf("%w: conductivity polynomial has degree %d, at most 4 is supported",
				heat.ErrInvalidProblem, len(ip.ConductivityCoeffs)-1)
		}
		TRef := ip.referenceTemperature(p, sweepT)
		p.Conductivity = heat.PolynomialConductivity(ip.ConductivityCoeffs, TRef)
	}
	if ip.Source != 0 {
		S := ip.Source
		p.Source = func(x, T float64) float64 { return S }
	}
	if ip.MaxIterations != 0 {
		p.MaxIterations = ip.MaxIterations
	}
	if ip.MinIterations != 0 {
		p.MinIterations = ip.MinIterations
	}
	if ip.MSE != 0 {
		p.MSE = ip.MSE
	}
	if ip.Omega != 0 {
		p.Omega = ip.Omega
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	return
}

func (ip *InputParametersHeat) referenceTemperature(p *heat.Problem, sweepT []float64) float64 {
	switch {
	case ip.TRef != nil:
		return *ip.TRef
	case len(sweepT) != 0:
		return floats.Min(sweepT)
	}
	TRef := math.Inf(1)
	for _, bc := range []heat.BoundaryCondition{p.West, p.East} {
		switch bc.Type {
		case types.BC_Dirichlet, types.BC_Robin:
			TRef = math.Min(TRef, bc.Value)
		}
	}
	if math.IsInf(TRef, 1) {
		return 0
	}
	return TRef
}

func newBoundaryCondition(flag types.BCFLAG, params map[string]float64) (bc heat.BoundaryCondition, err error) {
	var (
		get = func(name string) (float64, error) {
			v, ok := params[name]
			if !ok {
				return 0, fmt.Errorf("%s condition needs parameter %s", flag, name)
			}
			return v, nil
		}
		v, alpha float64
	)
	switch flag {
	case types.BC_Dirichlet:
		if v, err = get("T"); err == nil {
			bc = heat.Dirichlet(v)
		}
	case types.BC_Neuman:
		if v, err = get("Q"); err == nil {
			bc = heat.Neumann(v)
		}
	case types.BC_Robin:
		if alpha, err = get("Alpha"); err != nil {
			return
		}
		if v, err = get("TInf"); err == nil {
			bc = heat.Robin(alpha, v)
		}
	default:
		err = fmt.Errorf("unknown boundary condition type")
	}
	return
}
