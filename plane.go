package slice3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the set of points x with Normal·x = D. Points where
// Normal·x - D > 0 are in front of it.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane returns the plane through point with the given normal. The normal
// is scaled to unit length; a zero normal gives a degenerate plane.
func NewPlane(normal, point mgl64.Vec3) Plane {
	l := normal.Len()
	if l == 0 || !finite(l) {
		return Plane{}
	}
	n := normal.Mul(1 / l)
	return Plane{Normal: n, D: n.Dot(point)}
}

// Degenerate reports a plane without a usable normal. It cuts nothing.
func (p Plane) Degenerate() bool {
	return p.Normal.Len() == 0
}

// Eval is the signed distance of x from the plane for a unit normal.
func (p Plane) Eval(x mgl64.Vec3) float64 {
	return p.Normal.Dot(x) - p.D
}

// PointOnPlane evaluates x and snaps values within eps of the plane to 0.
func (p Plane) PointOnPlane(x mgl64.Vec3, eps float64) float64 {
	f := p.Eval(x)
	if math.Abs(f) <= eps {
		return 0
	}
	return f
}

// Coincident reports whether q describes the same oriented or flipped plane
// as p, within tol.
func (p Plane) Coincident(q Plane, tol float64) bool {
	if p.Degenerate() || q.Degenerate() {
		return false
	}
	if p.Normal.ApproxEqualThreshold(q.Normal, tol) {
		return math.Abs(p.D-q.D) <= tol
	}
	if p.Normal.ApproxEqualThreshold(q.Normal.Mul(-1), tol) {
		return math.Abs(p.D+q.D) <= tol
	}
	return false
}

// LineIntersect returns the point where segment a-b crosses the plane given
// the plane values fa and fb at its ends, and the parameter t along a-b.
func LineIntersect(a, b mgl64.Vec3, fa, fb float64) (mgl64.Vec3, float64) {
	t := fa / (fa - fb)
	return a.Add(b.Sub(a).Mul(t)), t
}

// Split clips every polygon of r against the plane. Polygons entirely on one
// side go to that side unchanged; straddling polygons are cut in two. Points
// within eps of the plane count as in front. With eps > 0 a polygon lying
// wholly inside the slab |Eval| <= eps is kept and goes to front rather than
// being discarded, so a polygon inserted into a Tree is never lost. Pieces
// with fewer than three vertices are dropped. Either result may be empty but
// neither is nil.
func (p Plane) Split(r *SliceResult, eps float64) (back, front *SliceResult) {
	if r.Empty() {
		return newLike(r), newLike(r)
	}
	if p.Degenerate() {
		return newLike(r), r.Clone()
	}
	f := make([]float64, len(r.Points))
	for i, x := range r.Points {
		f[i] = p.PointOnPlane(x, eps)
	}
	return splitBy(r, f)
}

// splitBy splits r by the already snapped per-point values f: negative points
// go back, positive front, zeros to both.
func splitBy(r *SliceResult, f []float64) (back, front *SliceResult) {
	back, front = newLike(r), newLike(r)
	n := 0
	for i, c := range r.Counts {
		var neg, pos bool
		for _, v := range f[n : n+c] {
			neg = neg || v < 0
			pos = pos || v > 0
		}
		switch {
		case !neg:
			front.addPolygon(r, i, n, c)
		case !pos:
			back.addPolygon(r, i, n, c)
		default:
			splitPolygon(r, i, n, c, f[n:n+c], back, front)
		}
		n += c
	}
	return back, front
}

// splitPolygon walks the polygon once, switching output side every time an
// edge crosses zero. Vertices at zero go to both sides.
func splitPolygon(r *SliceResult, poly, start, count int, f []float64, back, front *SliceResult) {
	sides := [2]*SliceResult{back, front}
	var npts [2]int
	vv := r.VertexValues != nil
	add := func(s int, x mgl64.Vec3, v float64) {
		sides[s].Points = append(sides[s].Points, x)
		if vv {
			sides[s].VertexValues = append(sides[s].VertexValues, v)
		}
		npts[s]++
	}
	vertexValue := func(i int) float64 {
		if vv {
			return r.VertexValues[start+i]
		}
		return 0
	}

	for i := 0; i < count; i++ {
		j := (i + 1) % count
		a, fa := r.Points[start+i], f[i]
		switch {
		case fa > 0:
			add(1, a, vertexValue(i))
		case fa < 0:
			add(0, a, vertexValue(i))
		default:
			add(0, a, vertexValue(i))
			add(1, a, vertexValue(i))
		}
		fb := f[j]
		if fa < 0 && fb > 0 || fa > 0 && fb < 0 {
			x, t := LineIntersect(a, r.Points[start+j], fa, fb)
			v := vertexValue(i) + t*(vertexValue(j)-vertexValue(i))
			add(0, x, v)
			add(1, x, v)
		}
	}

	for s, out := range sides {
		if npts[s] < 3 {
			out.Points = out.Points[:len(out.Points)-npts[s]]
			if vv {
				out.VertexValues = out.VertexValues[:len(out.VertexValues)-npts[s]]
			}
			continue
		}
		out.Counts = append(out.Counts, npts[s])
		if r.Values != nil {
			out.Values = append(out.Values, r.Values[poly])
		}
		if r.Cells != nil {
			out.Cells = append(out.Cells, r.Cells[poly])
		}
	}
}

// newLike returns an empty list with the same optional arrays as r.
func newLike(r *SliceResult) *SliceResult {
	out := &SliceResult{}
	if r == nil {
		return out
	}
	if r.Values != nil {
		out.Values = []float64{}
	}
	if r.VertexValues != nil {
		out.VertexValues = []float64{}
	}
	if r.Cells != nil {
		out.Cells = []int{}
	}
	return out
}

func (r *SliceResult) addPolygon(src *SliceResult, poly, start, count int) {
	r.Counts = append(r.Counts, count)
	r.Points = append(r.Points, src.Points[start:start+count]...)
	if src.Values != nil {
		r.Values = append(r.Values, src.Values[poly])
	}
	if src.VertexValues != nil {
		r.VertexValues = append(r.VertexValues, src.VertexValues[start:start+count]...)
	}
	if src.Cells != nil {
		r.Cells = append(r.Cells, src.Cells[poly])
	}
}
