package slice3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lighting shades isosurfaces that carry no values. Brightness is
//
//	Ambient + Diffuse*|n·v| + Specular*max(s·n*n·v - s·v/2 + 1/2, 1e-30)^SPower
//
// for unit polygon normal n, view vector v and light direction s.
type Lighting struct {
	Ambient  float64    `toml:"ambient"`
	Diffuse  float64    `toml:"diffuse"`
	Specular float64    `toml:"specular"`
	SPower   float64    `toml:"spower"`
	SDir     mgl64.Vec3 `toml:"sdir"`
}

func DefaultLighting() Lighting {
	return Lighting{
		Ambient: 0.2,
		Diffuse: 1.0,
		SPower:  2,
		SDir:    mgl64.Vec3{1, 0.5, 1}.Mul(1 / 1.5),
	}
}

// Shade returns one brightness per normal. views holds either one view
// vector for all polygons or one per polygon; all vectors are in viewer
// coordinates.
func (l Lighting) Shade(normals, views []mgl64.Vec3) []float64 {
	out := make([]float64, len(normals))
	var s mgl64.Vec3
	if l.Specular != 0 {
		if n := l.SDir.Len(); n > 0 {
			s = l.SDir.Mul(1 / n)
		}
	}
	for i, n := range normals {
		v := views[0]
		if len(views) == len(normals) {
			v = views[i]
		}
		nv := n.Dot(v)
		light := l.Ambient + l.Diffuse*math.Abs(nv)
		if l.Specular != 0 {
			m := math.Max(s.Dot(n)*nv-0.5*s.Dot(v)+0.5, 1e-30)
			light += l.Specular * math.Pow(m, l.SPower)
		}
		out[i] = light
	}
	return out
}

// ViewVectors returns the unit vectors from polygon centroids toward a
// camera at distance zc on the viewer z axis, or the single vector (0,0,1)
// for a camera at infinity.
func ViewVectors(centroids []mgl64.Vec3, zc float64) []mgl64.Vec3 {
	if zc == 0 {
		return []mgl64.Vec3{{0, 0, 1}}
	}
	out := make([]mgl64.Vec3, len(centroids))
	cam := mgl64.Vec3{0, 0, zc}
	for i, c := range centroids {
		v := cam.Sub(c)
		if l := v.Len(); l > 0 {
			v = v.Mul(1 / l)
		}
		out[i] = v
	}
	return out
}
