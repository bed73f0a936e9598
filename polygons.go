package slice3d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// SliceResult is a flat polygon list: Counts[i] vertices per polygon, their
// coordinates packed in Points. Values holds one color value per polygon and
// VertexValues one per point; either may be nil. Cells records the mesh cell
// each polygon came from when the list was produced by Slice.
//
// A SliceResult holds no reference to the mesh it was cut from.
type SliceResult struct {
	Counts       []int
	Points       []mgl64.Vec3
	Values       []float64
	VertexValues []float64
	Cells        []int
}

func (r *SliceResult) NumPolygons() int {
	if r == nil {
		return 0
	}
	return len(r.Counts)
}

func (r *SliceResult) Empty() bool { return r.NumPolygons() == 0 }

// Offsets returns the index in Points of the first vertex of every polygon.
func (r *SliceResult) Offsets() []int {
	off := make([]int, len(r.Counts))
	n := 0
	for i, c := range r.Counts {
		off[i] = n
		n += c
	}
	return off
}

// Polygon returns the vertices of polygon i. off comes from Offsets.
func (r *SliceResult) Polygon(off []int, i int) []mgl64.Vec3 {
	return r.Points[off[i] : off[i]+r.Counts[i]]
}

// Validate checks that counts, points and value arrays agree.
func (r *SliceResult) Validate() error {
	if n := lo.Sum(r.Counts); n != len(r.Points) {
		return fmt.Errorf("%w: counts sum to %d but there are %d points", ErrInvalidPolygons, n, len(r.Points))
	}
	for i, c := range r.Counts {
		if c < 3 {
			return fmt.Errorf("%w: polygon %d has %d vertices", ErrInvalidPolygons, i, c)
		}
	}
	if r.Values != nil && len(r.Values) != len(r.Counts) {
		return fmt.Errorf("%w: %d values for %d polygons", ErrInvalidPolygons, len(r.Values), len(r.Counts))
	}
	if r.VertexValues != nil && len(r.VertexValues) != len(r.Points) {
		return fmt.Errorf("%w: %d vertex values for %d points", ErrInvalidPolygons, len(r.VertexValues), len(r.Points))
	}
	if r.Cells != nil && len(r.Cells) != len(r.Counts) {
		return fmt.Errorf("%w: %d cells for %d polygons", ErrInvalidPolygons, len(r.Cells), len(r.Counts))
	}
	for i, p := range r.Points {
		if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
			return fmt.Errorf("%w: point %d is %v", ErrInvalidPolygons, i, p)
		}
	}
	return nil
}

// Append adds the polygons of o to r. Both lists must carry the same
// optional arrays unless r is empty.
func (r *SliceResult) Append(o *SliceResult) error {
	if o.Empty() {
		return nil
	}
	if r.Empty() {
		*r = *o.Clone()
		return nil
	}
	if (r.Values == nil) != (o.Values == nil) ||
		(r.VertexValues == nil) != (o.VertexValues == nil) ||
		(r.Cells == nil) != (o.Cells == nil) {
		return fmt.Errorf("%w: cannot append polygon lists with different value layouts", ErrInvalidPolygons)
	}
	r.Counts = append(r.Counts, o.Counts...)
	r.Points = append(r.Points, o.Points...)
	if r.Values != nil {
		r.Values = append(r.Values, o.Values...)
	}
	if r.VertexValues != nil {
		r.VertexValues = append(r.VertexValues, o.VertexValues...)
	}
	if r.Cells != nil {
		r.Cells = append(r.Cells, o.Cells...)
	}
	return nil
}

func (r *SliceResult) Clone() *SliceResult {
	c := &SliceResult{
		Counts: append([]int(nil), r.Counts...),
		Points: append([]mgl64.Vec3(nil), r.Points...),
	}
	if r.Values != nil {
		c.Values = append([]float64(nil), r.Values...)
	}
	if r.VertexValues != nil {
		c.VertexValues = append([]float64(nil), r.VertexValues...)
	}
	if r.Cells != nil {
		c.Cells = append([]int(nil), r.Cells...)
	}
	return c
}

func (r *SliceResult) Bounds() (bmin, bmax mgl64.Vec3) {
	return pointBounds(r.Points)
}

func (r *SliceResult) Centroids() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(r.Counts))
	n := 0
	for i, c := range r.Counts {
		var sum mgl64.Vec3
		for _, p := range r.Points[n : n+c] {
			sum = sum.Add(p)
		}
		out[i] = sum.Mul(1 / float64(c))
		n += c
	}
	return out
}

// Normals returns a unit normal per polygon: the cross product of the two
// lines joining midpoints of edges that most nearly quarter the polygon
// (the medians of a quadrilateral). Degenerate polygons get the zero vector.
func (r *SliceResult) Normals() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(r.Counts))
	n := 0
	for i, c := range r.Counts {
		out[i] = medianNormal(r.Points[n : n+c])
		n += c
	}
	return out
}

func medianNormal(p []mgl64.Vec3) mgl64.Vec3 {
	n := len(p)
	mid := func(i int) mgl64.Vec3 { return p[i%n].Add(p[(i+1)%n]).Mul(0.5) }
	n2 := (n + 1) / 2
	m1 := mid(n2 - 1).Sub(mid(0))
	i := n2 / 2
	m2 := mid(min(i+n2, n) - 1).Sub(mid(i))
	nrm := m1.Cross(m2)
	if l := nrm.Len(); l > 0 {
		return nrm.Mul(1 / l)
	}
	return nrm
}

// PolygonValues returns one value per polygon: Values when present,
// otherwise the mean of each polygon's VertexValues. It returns nil when the
// list is uncolored.
func (r *SliceResult) PolygonValues() []float64 {
	if r.Values != nil {
		return r.Values
	}
	if r.VertexValues == nil {
		return nil
	}
	out := make([]float64, len(r.Counts))
	n := 0
	for i, c := range r.Counts {
		out[i] = lo.Sum(r.VertexValues[n:n+c]) / float64(c)
		n += c
	}
	return out
}

// ValueRange returns the min and max of PolygonValues, or NaNs for an
// uncolored list.
func (r *SliceResult) ValueRange() (float64, float64) {
	v := r.PolygonValues()
	if len(v) == 0 {
		return math.NaN(), math.NaN()
	}
	return lo.Min(v), lo.Max(v)
}
