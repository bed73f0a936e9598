package slice3d

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

func toSDFVec(p mgl64.Vec3) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// SDFCut cuts along the zero surface of a signed distance function, giving
// the boundary of the solid s. Points inside s are below the cut.
func SDFCut(s sdf.SDF3) Cut {
	return PointCut(func(p mgl64.Vec3) float64 {
		return s.Evaluate(toSDFVec(p))
	})
}

// SDFField samples s at every vertex of m and stores the distances as a
// vertex-centered field, usable by IsoCut and the colorings.
func SDFField(m *Mesh, name string, s sdf.SDF3) error {
	if s == nil {
		return fmt.Errorf("%w: nil solid for field %q", ErrInvalidField, name)
	}
	values := make([]float64, m.NumVertices())
	for v := range values {
		values[v] = s.Evaluate(toSDFVec(m.Vertex(v)))
	}
	return m.AddField(VertexField(name, values))
}

// SDFBox reports the bounding box of s, convenient for sizing a mesh around it.
func SDFBox(s sdf.SDF3) (lo, hi mgl64.Vec3) {
	bb := s.BoundingBox()
	return mgl64.Vec3{bb.Min.X, bb.Min.Y, bb.Min.Z}, mgl64.Vec3{bb.Max.X, bb.Max.Y, bb.Max.Z}
}
