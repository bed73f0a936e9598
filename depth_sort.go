package slice3d

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// DepthSort orders polygons from the smallest mean depth to the largest, so
// drawing in that order paints far polygons first when smaller depth is
// farther. depths has one entry per vertex; counts one per polygon.
//
// polyOrder[i] is the polygon drawn i-th. vertexOrder lists the vertices of
// those polygons in the same order, each polygon's vertices kept in their
// input cyclic sequence. Equal depths keep their input order.
func DepthSort(depths []float64, counts []int) (polyOrder, vertexOrder []int) {
	mean := make([]float64, len(counts))
	start := make([]int, len(counts))
	n := 0
	for i, c := range counts {
		start[i] = n
		mean[i] = lo.Sum(depths[n:n+c]) / float64(c)
		n += c
	}

	polyOrder = make([]int, len(counts))
	for i := range polyOrder {
		polyOrder[i] = i
	}
	sort.SliceStable(polyOrder, func(i, j int) bool {
		return mean[polyOrder[i]] < mean[polyOrder[j]]
	})

	vertexOrder = make([]int, 0, n)
	for _, p := range polyOrder {
		for v := start[p]; v < start[p]+counts[p]; v++ {
			vertexOrder = append(vertexOrder, v)
		}
	}
	return polyOrder, vertexOrder
}

// Reorder returns a copy of r with its polygons in polyOrder. vertexOrder
// must be the matching vertex permutation from DepthSort.
func (r *SliceResult) Reorder(polyOrder, vertexOrder []int) *SliceResult {
	out := &SliceResult{
		Counts: lo.Map(polyOrder, func(p int, _ int) int { return r.Counts[p] }),
		Points: lo.Map(vertexOrder, func(v int, _ int) mgl64.Vec3 { return r.Points[v] }),
	}
	if r.Values != nil {
		out.Values = lo.Map(polyOrder, func(p int, _ int) float64 { return r.Values[p] })
	}
	if r.VertexValues != nil {
		out.VertexValues = lo.Map(vertexOrder, func(v int, _ int) float64 { return r.VertexValues[v] })
	}
	if r.Cells != nil {
		out.Cells = lo.Map(polyOrder, func(p int, _ int) int { return r.Cells[p] })
	}
	return out
}
