package slice3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshBuilder collects cells given by coordinates and merges coincident
// vertices, so neighbouring cells share vertex indices.
type MeshBuilder struct {
	points     []mgl64.Vec3
	pointIndex map[mgl64.Vec3]int
	blocks     []CellBlock
}

func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{pointIndex: make(map[mgl64.Vec3]int)}
}

// AddPoint returns the index of p, adding it if it has not been seen.
func (b *MeshBuilder) AddPoint(p mgl64.Vec3) int {
	if i, ok := b.pointIndex[p]; ok {
		return i
	}
	b.points = append(b.points, p)
	b.pointIndex[p] = len(b.points) - 1
	return len(b.points) - 1
}

// AddCell appends a cell whose corners are given in the vertex order of its
// shape. Consecutive cells of one shape share a block.
func (b *MeshBuilder) AddCell(corners ...mgl64.Vec3) ([]int, error) {
	s, ok := ShapeForVertices(len(corners))
	if !ok {
		return nil, fmt.Errorf("%w: a cell cannot have %d vertices", ErrInvalidMesh, len(corners))
	}
	idx := make([]int, len(corners))
	for i, p := range corners {
		idx[i] = b.AddPoint(p)
	}
	if n := len(b.blocks); n == 0 || b.blocks[n-1].Shape != s {
		b.blocks = append(b.blocks, CellBlock{Shape: s})
	}
	last := &b.blocks[len(b.blocks)-1]
	last.Verts = append(last.Verts, idx...)
	return idx, nil
}

func (b *MeshBuilder) NumPoints() int { return len(b.points) }

func (b *MeshBuilder) Build(fields ...Field) (*Mesh, error) {
	return NewUnstructuredMesh(b.points, b.blocks, fields...)
}

// Tetrahedralize returns an unstructured copy of a structured mesh with every
// hex split into six tetrahedra around its 0-7 diagonal. Vertex numbering is
// unchanged, so vertex-centered fields carry over.
func Tetrahedralize(m *Mesh) (*Mesh, error) {
	if !m.Structured() {
		return nil, fmt.Errorf("%w: %v mesh is already unstructured", ErrInvalidMesh, m.Kind())
	}
	// each tet walks 0 -> 7 through one vertex path of the cube
	paths := [6][4]int{
		{0, 1, 3, 7}, {0, 3, 2, 7}, {0, 2, 6, 7},
		{0, 6, 4, 7}, {0, 4, 5, 7}, {0, 5, 1, 7},
	}
	pts := make([]mgl64.Vec3, m.NumVertices())
	for v := range pts {
		pts[v] = m.Vertex(v)
	}
	verts := make([]int, 0, 24*m.NumCells())
	var corner []int
	for c := 0; c < m.NumCells(); c++ {
		corner = m.CellVertices(c, corner[:0])
		for _, p := range paths {
			verts = append(verts, corner[p[0]], corner[p[1]], corner[p[2]], corner[p[3]])
		}
	}
	var fields []Field
	for _, f := range m.fields {
		if f.Centering == VertexCentered {
			fields = append(fields, f)
		}
	}
	return NewUnstructuredMesh(pts, []CellBlock{{Shape: Tet, Verts: verts}}, fields...)
}
