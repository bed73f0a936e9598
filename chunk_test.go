package slice3d

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visitChunks returns every chunk and the absolute cells each covers.
func visitChunks(m *Mesh, limit int) ([]Chunk, [][]int) {
	var chunks []Chunk
	var cells [][]int
	for c, ok := FirstChunk(m, limit), true; ok; c, ok = NextChunk(m, c) {
		local := make([]int, c.NumCells())
		for i := range local {
			local[i] = i
		}
		chunks = append(chunks, c)
		cells = append(cells, ResolveCells(m, c, local, nil))
	}
	return chunks, cells
}

func TestChunksCoverStructuredMesh(t *testing.T) {
	m, err := NewRegularMesh([3]int{5, 4, 3}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		limit  int
		chunks int
	}{
		{"whole mesh", 60, 1},
		{"default", 0, 1},
		{"z slabs", 40, 2},
		{"single layer", 20, 3},
		{"rows", 10, 6},
		{"part rows", 3, 24},
		{"single cells", 1, 60},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chunks, cells := visitChunks(m, tc.limit)
			assert.Len(t, chunks, tc.chunks)
			assert.Equal(t, tc.chunks, CountChunks(m, tc.limit))

			seen := make([]int, m.NumCells())
			for i, c := range chunks {
				limit := tc.limit
				if limit <= 0 {
					limit = DefaultChunkLimit
				}
				assert.LessOrEqual(t, c.NumCells(), limit)
				assert.Equal(t, Hex, c.Shape)
				for _, cell := range cells[i] {
					seen[cell]++
				}
			}
			for cell, n := range seen {
				assert.Equal(t, 1, n, "cell %d", cell)
			}
		})
	}
}

func TestChunksCoverMixedMesh(t *testing.T) {
	b := NewMeshBuilder()
	for i := 0; i < 7; i++ {
		x := float64(i)
		_, err := b.AddCell(mgl64.Vec3{x, 0, 0}, mgl64.Vec3{x + 1, 0, 0}, mgl64.Vec3{x, 1, 0}, mgl64.Vec3{x, 0, 1})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		x := float64(i)
		_, err := b.AddCell(
			mgl64.Vec3{x + 0.5, 0.5, 3}, mgl64.Vec3{x, 0, 2}, mgl64.Vec3{x + 1, 0, 2},
			mgl64.Vec3{x + 1, 1, 2}, mgl64.Vec3{x, 1, 2})
		require.NoError(t, err)
	}
	m, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 10, m.NumCells())

	chunks, cells := visitChunks(m, 3)
	// 7 tets in runs of 3,3,1 then 3 pyramids
	require.Len(t, chunks, 4)
	assert.Equal(t, []Shape{Tet, Tet, Tet, Pyramid}, []Shape{chunks[0].Shape, chunks[1].Shape, chunks[2].Shape, chunks[3].Shape})
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6}, {7, 8, 9}}, cells)
	// neighbouring cells share vertices, which are listed once
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, chunks[0].Vertices(m, nil))
	for _, c := range chunks {
		verts := c.Vertices(m, nil)
		assert.True(t, slices.IsSorted(verts))
		assert.Len(t, slices.Compact(slices.Clone(verts)), len(verts))
	}
}

func TestChunkCornersMatchCells(t *testing.T) {
	m, err := NewRegularMesh([3]int{3, 2, 2}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, err)
	tet, err := Tetrahedralize(m)
	require.NoError(t, err)

	for _, mesh := range []*Mesh{m, tet} {
		t.Run(mesh.Kind().String(), func(t *testing.T) {
			for c, ok := FirstChunk(mesh, 4), true; ok; c, ok = NextChunk(mesh, c) {
				nv := c.Shape.NumVertices()
				verts := c.Vertices(mesh, nil)
				corners := c.Corners(mesh, verts, nil)
				require.Len(t, corners, nv*c.NumCells())

				local := make([]int, c.NumCells())
				for i := range local {
					local[i] = i
				}
				for l, cell := range ResolveCells(mesh, c, local, nil) {
					want := mesh.CellVertices(cell, nil)
					got := make([]int, nv)
					for b := range got {
						got[b] = verts[corners[nv*l+b]]
					}
					assert.Equal(t, want, got, "%v local %d", c, l)
				}
			}
		})
	}
}
