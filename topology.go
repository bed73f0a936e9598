package slice3d

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a volumetric cell type.
//
// Vertex order for unstructured cells:
//
//	Tet      0,1,2 base triangle, 3 apex
//	Pyramid  0 apex, 1,2,3,4 base quad in cyclic order
//	Prism    0,1,2 bottom triangle, 3,4,5 top triangle (3 above 0)
//	Hex      bit order: vertex b sits at (b&1, b>>1&1, b>>2&1)
//
// The Hex order is the order structured meshes use for their cells.
type Shape int

const (
	Tet Shape = iota
	Pyramid
	Prism
	Hex
)

var shapeNames = [...]string{"tet", "pyramid", "prism", "hex"}

func (s Shape) String() string {
	if s < Tet || s > Hex {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

func (s Shape) valid() bool { return s >= Tet && s <= Hex }

// NumVertices returns 4, 5, 6 or 8.
func (s Shape) NumVertices() int { return len(TopologyOf(s).Corners) }

func (s Shape) NumEdges() int { return len(TopologyOf(s).Edges) }

// ShapeForVertices maps a vertex count to its shape.
func ShapeForVertices(n int) (Shape, bool) {
	switch n {
	case 4:
		return Tet, true
	case 5:
		return Pyramid, true
	case 6:
		return Prism, true
	case 8:
		return Hex, true
	}
	return 0, false
}

// BowtieMode chooses how a quad face with diagonally opposite corners on the
// same side of the cut is resolved.
type BowtieMode int

const (
	// BowtieSeparate joins the cut edges around each below corner. The
	// resulting polygons are simple and agree across the shared face of
	// neighbouring cells.
	BowtieSeparate BowtieMode = iota
	// BowtieCross joins opposite cut edges of the face, the "X" pairing.
	// This is how the cut edges pair up when each face is walked without
	// looking at the bowtie. When the two below corners sit diagonally on one
	// quad face, it gives one six-sided polygon that is not simple: its
	// boundary crosses itself. Use BowtieSeparate when polygons must be
	// simple.
	BowtieCross
)

func (m BowtieMode) String() string {
	switch m {
	case BowtieSeparate:
		return "separate"
	case BowtieCross:
		return "cross"
	}
	return fmt.Sprintf("BowtieMode(%d)", int(m))
}

func (m BowtieMode) MarshalText() ([]byte, error) {
	if m != BowtieSeparate && m != BowtieCross {
		return nil, fmt.Errorf("unknown bowtie mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *BowtieMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "separate":
		*m = BowtieSeparate
	case "cross", "x":
		*m = BowtieCross
	default:
		return fmt.Errorf("unknown bowtie mode %q", string(b))
	}
	return nil
}

// NoEdge is the permutation key of an edge the cut does not cross. It sorts
// after every real key.
const NoEdge = 1 << 15

// Pattern is the table entry for one sign pattern of one shape.
type Pattern struct {
	// Below is the bitmask of vertices below the cut.
	Below uint
	// Cut is the bitmask of edges whose endpoints differ in sign.
	Cut uint16
	// Perm holds split*E + rank for every cut edge and NoEdge otherwise.
	// Sorting the cut edges by key lists polygon 0 in cyclic order, then
	// polygon 1, and so on.
	Perm []int
	// Polygons is Perm decoded: edge cycles, one per split id.
	Polygons [][]int
}

// Topology is the immutable edge and face description of a shape together
// with its sign pattern tables.
type Topology struct {
	Shape Shape
	Edges [][2]int
	// Faces lists each face as a vertex cycle.
	Faces [][]int
	// Corners places the vertices of a reference cell.
	Corners []mgl64.Vec3
	// Incidence[v] is the bitmask of edges touching vertex v.
	Incidence []uint16

	patterns [2][]*Pattern
}

var (
	topologies    [4]*Topology
	topologyOnce  sync.Once
	shapeTopology = [4]struct {
		edges   [][2]int
		faces   [][]int
		corners []mgl64.Vec3
	}{
		Tet: {
			edges: [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}},
			faces: [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
			corners: []mgl64.Vec3{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
			},
		},
		Pyramid: {
			edges: [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {2, 3}, {3, 4}, {4, 1}},
			faces: [][]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1}, {1, 2, 3, 4}},
			corners: []mgl64.Vec3{
				{0.5, 0.5, 1}, {0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			},
		},
		Prism: {
			edges: [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}, {0, 3}, {1, 4}, {2, 5}},
			faces: [][]int{{0, 1, 2}, {3, 4, 5}, {0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}},
			corners: []mgl64.Vec3{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0, 1}, {0, 1, 1},
			},
		},
		Hex: {
			edges: [][2]int{
				{0, 1}, {2, 3}, {4, 5}, {6, 7},
				{0, 2}, {1, 3}, {4, 6}, {5, 7},
				{0, 4}, {1, 5}, {2, 6}, {3, 7},
			},
			faces: [][]int{
				{0, 2, 6, 4}, {1, 3, 7, 5},
				{0, 1, 5, 4}, {2, 3, 7, 6},
				{0, 1, 3, 2}, {4, 5, 7, 6},
			},
			corners: []mgl64.Vec3{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
				{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
			},
		},
	}
)

// TopologyOf returns the shared tables for s. The tables are generated on
// first use and never modified afterwards.
func TopologyOf(s Shape) *Topology {
	topologyOnce.Do(buildTopologies)
	if !s.valid() {
		return nil
	}
	return topologies[s]
}

func buildTopologies() {
	for s := Tet; s <= Hex; s++ {
		topologies[s] = newTopology(s)
	}
}

func newTopology(s Shape) *Topology {
	def := shapeTopology[s]
	t := &Topology{
		Shape:     s,
		Edges:     def.edges,
		Faces:     def.faces,
		Corners:   def.corners,
		Incidence: make([]uint16, len(def.corners)),
	}
	for e, ends := range t.Edges {
		t.Incidence[ends[0]] |= 1 << e
		t.Incidence[ends[1]] |= 1 << e
	}

	edgeOf := make(map[[2]int]int, 2*len(t.Edges))
	for e, ends := range t.Edges {
		edgeOf[ends] = e
		edgeOf[[2]int{ends[1], ends[0]}] = e
	}
	faceEdges := make([][]int, len(t.Faces))
	for f, cyc := range t.Faces {
		for i := range cyc {
			faceEdges[f] = append(faceEdges[f], edgeOf[[2]int{cyc[i], cyc[(i+1)%len(cyc)]}])
		}
	}

	n := 1 << len(t.Corners)
	for mode := BowtieSeparate; mode <= BowtieCross; mode++ {
		t.patterns[mode] = make([]*Pattern, n)
		for below := 1; below < n-1; below++ {
			t.patterns[mode][below] = t.buildPattern(uint(below), faceEdges, mode)
		}
	}
	return t
}

// CutEdges is the XOR of the incidence masks of the below vertices: an edge
// is cut exactly when one of its endpoints is below.
func (t *Topology) CutEdges(below uint) uint16 {
	var m uint16
	for v := range t.Incidence {
		if below&(1<<v) != 0 {
			m ^= t.Incidence[v]
		}
	}
	return m
}

// NumPatterns is 2^V - 2.
func (t *Topology) NumPatterns() int { return 1<<len(t.Corners) - 2 }

// Pattern returns the table entry for a below mask, or nil when every vertex
// is on the same side.
func (t *Topology) Pattern(below uint, mode BowtieMode) *Pattern {
	if mode != BowtieCross {
		mode = BowtieSeparate
	}
	if below == 0 || int(below) >= len(t.patterns[mode])-1 {
		return nil
	}
	return t.patterns[mode][below]
}

// Critical reports whether a below mask describes a cell crossed by the cut.
func (t *Topology) Critical(below uint) bool {
	c := bits.OnesCount(below)
	return c > 0 && c < len(t.Corners)
}

func (t *Topology) buildPattern(below uint, faceEdges [][]int, mode BowtieMode) *Pattern {
	isBelow := func(v int) bool { return below&(1<<v) != 0 }
	cut := t.CutEdges(below)

	// every cut edge lies on exactly two faces, so each gets two partners
	partners := make([][]int, len(t.Edges))
	link := func(a, b int) {
		partners[a] = append(partners[a], b)
		partners[b] = append(partners[b], a)
	}
	for f, edges := range faceEdges {
		var c []int
		for _, e := range edges {
			if cut&(1<<e) != 0 {
				c = append(c, e)
			}
		}
		switch len(c) {
		case 2:
			link(c[0], c[1])
		case 4:
			if mode == BowtieCross {
				link(c[0], c[2])
				link(c[1], c[3])
				break
			}
			// edges[i] joins cyc[i] and cyc[i+1]; a below corner cyc[i]
			// is flanked by edges[i-1] and edges[i]
			cyc := t.Faces[f]
			k := len(cyc)
			for i := range cyc {
				if isBelow(cyc[i]) {
					link(edges[(i+k-1)%k], edges[i])
				}
			}
		}
	}

	p := &Pattern{Below: below, Cut: cut, Perm: make([]int, len(t.Edges))}
	for e := range p.Perm {
		p.Perm[e] = NoEdge
	}
	visited := uint16(0)
	split := 0
	for e := range t.Edges {
		if cut&(1<<e) == 0 || visited&(1<<e) != 0 {
			continue
		}
		cycle := []int{e}
		visited |= 1 << e
		prev, cur := -1, e
		for {
			next := partners[cur][0]
			if next == prev || visited&(1<<next) != 0 && next != e {
				next = partners[cur][1]
			}
			if next == e || visited&(1<<next) != 0 {
				break
			}
			visited |= 1 << next
			cycle = append(cycle, next)
			prev, cur = cur, next
		}
		t.orient(cycle, isBelow)
		for rank, ce := range cycle {
			p.Perm[ce] = split*len(t.Edges) + rank
		}
		split++
	}
	p.Polygons = DecodePerm(p.Perm, len(t.Edges))
	return p
}

// orient reverses cycle in place, keeping its first edge, when its normal
// does not point from the below side to the above side.
func (t *Topology) orient(cycle []int, isBelow func(int) bool) {
	pts := make([]mgl64.Vec3, len(cycle))
	var up mgl64.Vec3
	for i, e := range cycle {
		a, b := t.Corners[t.Edges[e][0]], t.Corners[t.Edges[e][1]]
		pts[i] = a.Add(b).Mul(0.5)
		if isBelow(t.Edges[e][0]) {
			up = up.Add(b.Sub(a))
		} else {
			up = up.Add(a.Sub(b))
		}
	}
	if newellNormal(pts).Dot(up) < 0 {
		for i, j := 1, len(cycle)-1; i < j; i, j = i+1, j-1 {
			cycle[i], cycle[j] = cycle[j], cycle[i]
		}
	}
}

// DecodePerm turns a permutation row back into edge cycles. Edges are sorted
// by key; a new polygon starts wherever key/nEdges changes.
func DecodePerm(perm []int, nEdges int) [][]int {
	order := make([]int, 0, len(perm))
	for e, k := range perm {
		if k != NoEdge {
			order = append(order, e)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return perm[order[i]] < perm[order[j]] })

	var polys [][]int
	last := -1
	for _, e := range order {
		split := perm[e] / nEdges
		if split != last {
			polys = append(polys, nil)
			last = split
		}
		polys[len(polys)-1] = append(polys[len(polys)-1], e)
	}
	return polys
}

func newellNormal(pts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}
