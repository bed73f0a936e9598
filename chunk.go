package slice3d

import (
	"fmt"
	"slices"
)

// Chunk is a cursor over a bounded range of cells. Structured meshes are cut
// into boxes [Lo, Hi) of cells; unstructured meshes into runs [Start, End)
// of absolute cell numbers inside one block. A chunk carries its own
// partition plan, so NextChunk needs nothing but the mesh and the chunk.
type Chunk struct {
	Block int
	Shape Shape

	Lo, Hi [3]int

	Start, End int

	limit int
	// axis is the structured axis being split, 3 when the whole mesh fits
	axis  int
	part  int
	step  int
	extra int
}

func (c Chunk) String() string {
	if c.axis < 0 {
		return fmt.Sprintf("chunk{block %d %v cells [%d,%d)}", c.Block, c.Shape, c.Start, c.End)
	}
	return fmt.Sprintf("chunk{cells %v-%v}", c.Lo, c.Hi)
}

func (c Chunk) structured() bool { return c.axis >= 0 }

// NumCells is the number of cells covered by the chunk.
func (c Chunk) NumCells() int {
	if !c.structured() {
		return c.End - c.Start
	}
	return (c.Hi[0] - c.Lo[0]) * (c.Hi[1] - c.Lo[1]) * (c.Hi[2] - c.Lo[2])
}

// FirstChunk starts an iteration over m with at most limit cells per chunk.
// A limit of zero or less uses DefaultChunkLimit.
func FirstChunk(m *Mesh, limit int) Chunk {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	if !m.Structured() {
		c := Chunk{Shape: m.blocks[0].Shape, limit: limit, axis: -1}
		c.End = min(m.offsets[1], limit)
		return c
	}

	n := m.cells
	c := Chunk{Shape: Hex, limit: limit, Hi: n}
	switch {
	case limit >= n[0]*n[1]*n[2]:
		c.axis = 3
		return c
	case limit >= n[0]*n[1]:
		c.axis = 2
		c.step, c.extra = partition(n[2], limit/(n[0]*n[1]))
	case limit >= n[0]:
		c.axis = 1
		c.step, c.extra = partition(n[1], limit/n[0])
		c.Hi[2] = 1
	default:
		c.axis = 0
		c.step, c.extra = partition(n[0], limit)
		c.Hi[1], c.Hi[2] = 1, 1
	}
	c.Hi[c.axis] = c.partSize(0)
	return c
}

// partition splits n into the fewest parts of at most per items. The first
// extra parts hold step+1 items, the rest step.
func partition(n, per int) (step, extra int) {
	parts := (n + per - 1) / per
	return n / parts, n % parts
}

func (c Chunk) partSize(part int) int {
	if part < c.extra {
		return c.step + 1
	}
	return c.step
}

// NextChunk advances c. The second result is false once every cell has been
// visited.
func NextChunk(m *Mesh, c Chunk) (Chunk, bool) {
	if !c.structured() {
		blockEnd := m.offsets[c.Block+1]
		if c.End < blockEnd {
			c.Start = c.End
			c.End = min(blockEnd, c.Start+c.limit)
			return c, true
		}
		if c.Block+1 >= len(m.blocks) {
			return Chunk{}, false
		}
		c.Block++
		c.Shape = m.blocks[c.Block].Shape
		c.Start = m.offsets[c.Block]
		c.End = min(m.offsets[c.Block+1], c.Start+c.limit)
		return c, true
	}

	if c.axis == 3 {
		return Chunk{}, false
	}
	a := c.axis
	if c.Hi[a] < m.cells[a] {
		c.part++
		c.Lo[a] = c.Hi[a]
		c.Hi[a] = c.Lo[a] + c.partSize(c.part)
		return c, true
	}
	c.part = 0
	c.Lo[a], c.Hi[a] = 0, c.partSize(0)
	for outer := a + 1; outer < 3; outer++ {
		if c.Hi[outer] < m.cells[outer] {
			c.Lo[outer]++
			c.Hi[outer]++
			return c, true
		}
		c.Lo[outer], c.Hi[outer] = 0, 1
	}
	return Chunk{}, false
}

// ResolveCells appends to dst the absolute cell numbers of chunk-local cells.
// Local cells of a structured chunk are numbered x-fastest within the box.
func ResolveCells(m *Mesh, c Chunk, local []int, dst []int) []int {
	if !c.structured() {
		for _, l := range local {
			dst = append(dst, c.Start+l)
		}
		return dst
	}
	dx, dy := c.Hi[0]-c.Lo[0], c.Hi[1]-c.Lo[1]
	for _, l := range local {
		dst = append(dst, m.CellIndex(c.Lo[0]+l%dx, c.Lo[1]+l/dx%dy, c.Lo[2]+l/(dx*dy)))
	}
	return dst
}

// Vertices appends the absolute vertex numbers the chunk touches, each once.
// For a structured chunk this is its vertex sub-grid, x-fastest; for an
// unstructured chunk it is the sorted set of its cells' corners.
func (c Chunk) Vertices(m *Mesh, dst []int) []int {
	if !c.structured() {
		start := len(dst)
		dst = append(dst, c.cellVerts(m)...)
		slices.Sort(dst[start:])
		uniq := slices.Compact(dst[start:])
		return dst[:start+len(uniq)]
	}
	for k := c.Lo[2]; k <= c.Hi[2]; k++ {
		for j := c.Lo[1]; j <= c.Hi[1]; j++ {
			for i := c.Lo[0]; i <= c.Hi[0]; i++ {
				dst = append(dst, m.VertexIndex(i, j, k))
			}
		}
	}
	return dst
}

// cellVerts is the cell-major corner list of an unstructured chunk.
func (c Chunk) cellVerts(m *Mesh) []int {
	nv := c.Shape.NumVertices()
	lo := (c.Start - m.offsets[c.Block]) * nv
	hi := (c.End - m.offsets[c.Block]) * nv
	return m.blocks[c.Block].Verts[lo:hi]
}

// Corners appends, for every local cell in order, the positions of its
// corners in verts, the list returned by Vertices.
func (c Chunk) Corners(m *Mesh, verts, dst []int) []int {
	if !c.structured() {
		for _, v := range c.cellVerts(m) {
			slot, _ := slices.BinarySearch(verts, v)
			dst = append(dst, slot)
		}
		return dst
	}
	dx, dy, dz := c.Hi[0]-c.Lo[0], c.Hi[1]-c.Lo[1], c.Hi[2]-c.Lo[2]
	vx, vy := dx+1, dy+1
	for k := 0; k < dz; k++ {
		for j := 0; j < dy; j++ {
			for i := 0; i < dx; i++ {
				for b := 0; b < 8; b++ {
					dst = append(dst, (i+b&1)+vx*((j+b>>1&1)+vy*(k+b>>2&1)))
				}
			}
		}
	}
	return dst
}

// CountChunks walks the whole iteration and returns the number of chunks.
func CountChunks(m *Mesh, limit int) int {
	n := 0
	for c, ok := FirstChunk(m, limit), true; ok; c, ok = NextChunk(m, c) {
		n++
	}
	return n
}
