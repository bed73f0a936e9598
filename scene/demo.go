package scene

import "github.com/go-gl/mathgl/mgl64"

// Demo is the scene shown when no file is given: three orthogonal slices
// colored by distance from the center, with a sphere of radius 0.7 shaded
// as an isosurface.
func Demo() *Config {
	c := Default()
	c.Fields = []FieldConfig{{Name: "r", Kind: "radius"}}
	c.Cuts = []CutConfig{
		{Kind: "plane", Normal: mgl64.Vec3{1, 0, 0}, Color: "r", Edges: true},
		{Kind: "plane", Normal: mgl64.Vec3{0, 1, 0}, Color: "r", Edges: true},
		{Kind: "plane", Normal: mgl64.Vec3{0, 0, 1}, Color: "r", Edges: true},
		{Kind: "iso", Field: "r", Value: 0.7},
	}
	return c
}
