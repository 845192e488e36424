package heat

// Mesh is a cell centred 1D finite volume mesh on [0, L] with a boundary node at each end:
//
//	  0    1        2                  N     N+1   <-- node index
//	 ---------------------- ... ----------------
//	 |+|   +   |    +    |         |    +    |+|
//	 ---------------------- ... ----------------
//	  :<-Dx/2->:<---Dx--->:               :     :
//	  :<------------------ L --------------->:
//
// Node 0 and node N+1 sit on the boundaries and carry the boundary conditions.
type Mesh struct {
	L          float64
	NumVolumes int
	Dx         float64
	XCen       []float64 // node coordinates, N+2 entries
	XFace      []float64 // XFace[i] is the east face of cell i, XFace[0] = 0, XFace[N] = L
}

func NewMesh(L float64, NumVolumes int) (m *Mesh) {
	var (
		n = NumVolumes + 2
	)
	m = &Mesh{
		L:          L,
		NumVolumes: NumVolumes,
		Dx:         L / float64(NumVolumes),
		XCen:       make([]float64, n),
		XFace:      make([]float64, n),
	}
	for i := 1; i <= NumVolumes; i++ {
		m.XCen[i] = (float64(i) - 0.5) * m.Dx
		m.XFace[i] = float64(i) * m.Dx
	}
	m.XCen[n-1] = L
	m.XFace[NumVolumes] = L
	m.XFace[n-1] = L
	return
}

// Len returns the number of unknowns including the two boundary nodes.
func (m *Mesh) Len() int { return len(m.XCen) }
