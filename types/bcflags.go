package types

import (
	"strconv"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Neuman
	BC_Robin
)

var BCNameMap = map[string]BCFLAG{
	"dirichlet":   BC_Dirichlet,
	"temperature": BC_Dirichlet,
	"neuman":      BC_Neuman,
	"neumann":     BC_Neuman,
	"flux":        BC_Neuman,
	"robin":       BC_Robin,
	"convection":  BC_Robin,
}

var bcNames = [...]string{"None", "Dirichlet", "Neuman", "Robin"}

func (bf BCFLAG) String() string {
	if int(bf) < len(bcNames) {
		return bcNames[bf]
	}
	return "BCFLAG(" + strconv.Itoa(int(bf)) + ")"
}

// NewBCFLAG looks up a boundary condition by name, case insensitive; unknown names give BC_None.
func NewBCFLAG(name string) BCFLAG {
	return BCNameMap[strings.ToLower(strings.TrimSpace(name))]
}

// BCTAG is a boundary token of the form "<type>-<label>", e.g. "Robin-East". The label names the
// boundary the condition applies to.
type BCTAG string

func NewBCTAG(token string) BCTAG {
	return BCTAG(strings.TrimSpace(token))
}

func (bt BCTAG) GetFLAG() BCFLAG {
	name, _, _ := strings.Cut(string(bt), "-")
	return NewBCFLAG(name)
}

func (bt BCTAG) GetLabel() (label string) {
	_, label, _ = strings.Cut(string(bt), "-")
	return
}
