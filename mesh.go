package slice3d

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type MeshKind int

const (
	Regular MeshKind = iota
	Rectilinear
	Unstructured
)

func (k MeshKind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Rectilinear:
		return "rectilinear"
	case Unstructured:
		return "unstructured"
	}
	return fmt.Sprintf("MeshKind(%d)", int(k))
}

// Centering says where a field's values live.
type Centering int

const (
	// InferCentering picks vertex or cell centering from the field length,
	// preferring vertices when both counts agree.
	InferCentering Centering = iota
	VertexCentered
	CellCentered
)

func (c Centering) String() string {
	switch c {
	case VertexCentered:
		return "vertex"
	case CellCentered:
		return "cell"
	}
	return "infer"
}

type Field struct {
	Name      string
	Values    []float64
	Centering Centering
}

func VertexField(name string, values []float64) Field {
	return Field{Name: name, Values: values, Centering: VertexCentered}
}

func CellField(name string, values []float64) Field {
	return Field{Name: name, Values: values, Centering: CellCentered}
}

// CellBlock is a homogeneous run of unstructured cells. Verts holds
// Shape.NumVertices() indices per cell.
type CellBlock struct {
	Shape Shape
	Verts []int
}

// Mesh is an immutable cell complex with named scalar fields. Fields may be
// added after construction; coordinates never change.
type Mesh struct {
	kind MeshKind

	cells   [3]int
	origin  mgl64.Vec3
	spacing mgl64.Vec3
	axes    [3][]float64

	points  []mgl64.Vec3
	blocks  []CellBlock
	offsets []int

	fields []Field
	byName map[string]int
}

// NewRegularMesh builds a uniformly spaced hex mesh of cells[0]*cells[1]*cells[2]
// cells whose first vertex sits at origin.
func NewRegularMesh(cells [3]int, origin, spacing mgl64.Vec3, fields ...Field) (*Mesh, error) {
	for i, n := range cells {
		if n < 1 {
			return nil, fmt.Errorf("%w: axis %d has %d cells", ErrInvalidMesh, i, n)
		}
		if !finite(origin[i]) || !finite(spacing[i]) || spacing[i] == 0 {
			return nil, fmt.Errorf("%w: axis %d origin %v spacing %v", ErrInvalidMesh, i, origin[i], spacing[i])
		}
	}
	m := &Mesh{kind: Regular, cells: cells, origin: origin, spacing: spacing}
	return m, m.addFields(fields)
}

// NewRectilinearMesh builds a hex mesh on the tensor product of three
// strictly increasing coordinate axes.
func NewRectilinearMesh(x, y, z []float64, fields ...Field) (*Mesh, error) {
	m := &Mesh{kind: Rectilinear}
	for i, axis := range [3][]float64{x, y, z} {
		if len(axis) < 2 {
			return nil, fmt.Errorf("%w: axis %d needs at least 2 coordinates, got %d", ErrInvalidMesh, i, len(axis))
		}
		for j, v := range axis {
			if !finite(v) {
				return nil, fmt.Errorf("%w: axis %d coordinate %d is %v", ErrInvalidMesh, i, j, v)
			}
			if j > 0 && v <= axis[j-1] {
				return nil, fmt.Errorf("%w: axis %d is not strictly increasing at %d", ErrInvalidMesh, i, j)
			}
		}
		m.axes[i] = append([]float64(nil), axis...)
		m.cells[i] = len(axis) - 1
	}
	return m, m.addFields(fields)
}

// NewUnstructuredMesh builds a mesh of explicit cells. Several blocks of
// different shapes form a mixed mesh; absolute cell numbers run through the
// blocks in order.
func NewUnstructuredMesh(points []mgl64.Vec3, blocks []CellBlock, fields ...Field) (*Mesh, error) {
	for i, p := range points {
		if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
			return nil, fmt.Errorf("%w: vertex %d is %v", ErrInvalidMesh, i, p)
		}
	}
	m := &Mesh{
		kind:    Unstructured,
		points:  append([]mgl64.Vec3(nil), points...),
		offsets: make([]int, 1, len(blocks)+1),
	}
	for b, blk := range blocks {
		if !blk.Shape.valid() {
			return nil, fmt.Errorf("%w: block %d has unknown shape %v", ErrInvalidMesh, b, blk.Shape)
		}
		nv := blk.Shape.NumVertices()
		if len(blk.Verts) == 0 || len(blk.Verts)%nv != 0 {
			return nil, fmt.Errorf("%w: block %d has %d indices, not a multiple of %d for %v",
				ErrInvalidMesh, b, len(blk.Verts), nv, blk.Shape)
		}
		for i, v := range blk.Verts {
			if v < 0 || v >= len(points) {
				return nil, fmt.Errorf("%w: block %d cell %d references vertex %d of %d",
					ErrInvalidMesh, b, i/nv, v, len(points))
			}
		}
		m.blocks = append(m.blocks, CellBlock{Shape: blk.Shape, Verts: append([]int(nil), blk.Verts...)})
		m.offsets = append(m.offsets, m.offsets[len(m.offsets)-1]+len(blk.Verts)/nv)
	}
	if len(m.blocks) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidMesh)
	}
	return m, m.addFields(fields)
}

func (m *Mesh) Kind() MeshKind { return m.kind }

func (m *Mesh) Structured() bool { return m.kind != Unstructured }

// Dims returns the cell counts along x, y and z of a structured mesh.
func (m *Mesh) Dims() [3]int { return m.cells }

func (m *Mesh) NumCells() int {
	if m.Structured() {
		return m.cells[0] * m.cells[1] * m.cells[2]
	}
	return m.offsets[len(m.offsets)-1]
}

func (m *Mesh) NumVertices() int {
	if m.Structured() {
		return (m.cells[0] + 1) * (m.cells[1] + 1) * (m.cells[2] + 1)
	}
	return len(m.points)
}

func (m *Mesh) NumBlocks() int {
	if m.Structured() {
		return 1
	}
	return len(m.blocks)
}

// Block returns the shape, first absolute cell and cell count of block b.
func (m *Mesh) Block(b int) (Shape, int, int) {
	if m.Structured() {
		return Hex, 0, m.NumCells()
	}
	return m.blocks[b].Shape, m.offsets[b], m.offsets[b+1] - m.offsets[b]
}

// VertexIndex is the x-fastest index of structured vertex (i, j, k).
func (m *Mesh) VertexIndex(i, j, k int) int {
	return i + (m.cells[0]+1)*(j+(m.cells[1]+1)*k)
}

// CellIndex is the x-fastest index of structured cell (i, j, k).
func (m *Mesh) CellIndex(i, j, k int) int {
	return i + m.cells[0]*(j+m.cells[1]*k)
}

func (m *Mesh) gridPoint(i, j, k int) mgl64.Vec3 {
	if m.kind == Regular {
		return mgl64.Vec3{
			m.origin[0] + float64(i)*m.spacing[0],
			m.origin[1] + float64(j)*m.spacing[1],
			m.origin[2] + float64(k)*m.spacing[2],
		}
	}
	return mgl64.Vec3{m.axes[0][i], m.axes[1][j], m.axes[2][k]}
}

func (m *Mesh) Vertex(v int) mgl64.Vec3 {
	if !m.Structured() {
		return m.points[v]
	}
	nx, ny := m.cells[0]+1, m.cells[1]+1
	return m.gridPoint(v%nx, v/nx%ny, v/(nx*ny))
}

func (m *Mesh) blockOf(c int) int {
	return sort.SearchInts(m.offsets[1:], c+1)
}

func (m *Mesh) CellShape(c int) Shape {
	if m.Structured() {
		return Hex
	}
	return m.blocks[m.blockOf(c)].Shape
}

// CellVertices appends the vertex indices of cell c to dst.
func (m *Mesh) CellVertices(c int, dst []int) []int {
	if !m.Structured() {
		b := m.blockOf(c)
		nv := m.blocks[b].Shape.NumVertices()
		local := c - m.offsets[b]
		return append(dst, m.blocks[b].Verts[local*nv:(local+1)*nv]...)
	}
	nx, ny := m.cells[0], m.cells[1]
	i, j, k := c%nx, c/nx%ny, c/(nx*ny)
	for b := 0; b < 8; b++ {
		dst = append(dst, m.VertexIndex(i+b&1, j+b>>1&1, k+b>>2&1))
	}
	return dst
}

// Bounds returns the axis-aligned box holding every vertex.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if m.Structured() {
		a := m.gridPoint(0, 0, 0)
		b := m.gridPoint(m.cells[0], m.cells[1], m.cells[2])
		for i := 0; i < 3; i++ {
			lo[i], hi[i] = math.Min(a[i], b[i]), math.Max(a[i], b[i])
		}
		return lo, hi
	}
	return pointBounds(m.points)
}

// AddField attaches a named scalar field.
func (m *Mesh) AddField(f Field) error {
	return m.addFields([]Field{f})
}

func (m *Mesh) addFields(fields []Field) error {
	if m.byName == nil {
		m.byName = make(map[string]int)
	}
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("%w: unnamed field", ErrInvalidField)
		}
		if _, dup := m.byName[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidField, f.Name)
		}
		nv, nc := m.NumVertices(), m.NumCells()
		switch f.Centering {
		case InferCentering:
			switch len(f.Values) {
			case nv:
				f.Centering = VertexCentered
			case nc:
				f.Centering = CellCentered
			}
		case VertexCentered:
			if len(f.Values) != nv {
				f.Centering = InferCentering
			}
		case CellCentered:
			if len(f.Values) != nc {
				f.Centering = InferCentering
			}
		}
		if f.Centering == InferCentering {
			return fmt.Errorf("%w: field %q has %d values for %d vertices and %d cells",
				ErrInvalidField, f.Name, len(f.Values), nv, nc)
		}
		for i, v := range f.Values {
			if !finite(v) {
				return fmt.Errorf("%w: field %q value %d is %v", ErrInvalidField, f.Name, i, v)
			}
		}
		f.Values = append([]float64(nil), f.Values...)
		m.byName[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	return nil
}

// Field looks up a field by name.
func (m *Mesh) Field(name string) (Field, error) {
	i, ok := m.byName[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: no field %q", ErrInvalidField, name)
	}
	return m.fields[i], nil
}

func (m *Mesh) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

func pointBounds(pts []mgl64.Vec3) (lo, hi mgl64.Vec3) {
	if len(pts) == 0 {
		return lo, hi
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
