package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/smasonuk/slice3d"
)

func vec(p mgl64.Vec3) v3.Vec { return v3.Vec{X: p[0], Y: p[1], Z: p[2]} }

// BuildSolids builds the declared solids by name.
func (c *Config) BuildSolids() (map[string]sdf.SDF3, error) {
	out := make(map[string]sdf.SDF3, len(c.Solids))
	for _, sc := range c.Solids {
		var s sdf.SDF3
		var err error
		switch sc.Shape {
		case "sphere":
			s, err = sdf.Sphere3D(sc.Radius)
		case "box":
			s, err = sdf.Box3D(vec(sc.Size), sc.Round)
		case "cylinder":
			s, err = sdf.Cylinder3D(sc.Height, sc.Radius, sc.Round)
		case "":
			if len(sc.Union) == 0 {
				return nil, fmt.Errorf("%w: solid %q has no shape", ErrInvalidScene, sc.Name)
			}
		default:
			return nil, fmt.Errorf("%w: solid %q has shape %q", ErrInvalidScene, sc.Name, sc.Shape)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: solid %q: %w", ErrInvalidScene, sc.Name, err)
		}
		if s != nil && sc.Center != (mgl64.Vec3{}) {
			s = sdf.Transform3D(s, sdf.Translate3d(vec(sc.Center)))
		}
		if len(sc.Union) > 0 {
			parts := make([]sdf.SDF3, 0, len(sc.Union)+1)
			if s != nil {
				parts = append(parts, s)
			}
			for _, name := range sc.Union {
				parts = append(parts, out[name])
			}
			s = sdf.Union3D(parts...)
		}
		for _, name := range sc.Subtract {
			s = sdf.Difference3D(s, out[name])
		}
		out[sc.Name] = s
	}
	return out, nil
}

// BuildMesh creates the mesh with every declared field sampled on it.
func (c *Config) BuildMesh() (*slice3d.Mesh, error) {
	solids, err := c.BuildSolids()
	if err != nil {
		return nil, err
	}
	return c.buildMesh(solids)
}

func (c *Config) buildMesh(solids map[string]sdf.SDF3) (*slice3d.Mesh, error) {
	var m *slice3d.Mesh
	var err error
	mc := c.Mesh
	switch mc.Kind {
	case "regular", "tetra":
		m, err = slice3d.NewRegularMesh(mc.Cells, mc.Origin, mc.Spacing)
		if err == nil && mc.Kind == "tetra" {
			m, err = slice3d.Tetrahedralize(m)
		}
	case "rectilinear":
		m, err = slice3d.NewRectilinearMesh(mc.X, mc.Y, mc.Z)
	default:
		err = fmt.Errorf("%w: mesh kind %q", ErrInvalidScene, mc.Kind)
	}
	if err != nil {
		return nil, err
	}

	for _, fc := range c.Fields {
		if fc.Kind == "solid" {
			if err := slice3d.SDFField(m, fc.Name, solids[fc.Solid]); err != nil {
				return nil, err
			}
			continue
		}
		values := make([]float64, m.NumVertices())
		for v := range values {
			p := m.Vertex(v)
			switch fc.Kind {
			case "x":
				values[v] = p[0]
			case "y":
				values[v] = p[1]
			case "z":
				values[v] = p[2]
			case "radius":
				values[v] = p.Sub(fc.Center).Len()
			}
		}
		if err := m.AddField(slice3d.VertexField(fc.Name, values)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (cc CutConfig) cut(solids map[string]sdf.SDF3) (slice3d.Cut, *slice3d.Plane) {
	switch cc.Kind {
	case "plane":
		p := slice3d.NewPlane(cc.Normal, cc.Point)
		return slice3d.PlaneCut(p), &p
	case "iso":
		return slice3d.IsoCut(cc.Field, cc.Value), nil
	}
	return slice3d.SDFCut(solids[cc.Solid]), nil
}

func (cc CutConfig) color() slice3d.Color {
	switch {
	case cc.Color == "":
		return slice3d.NoColor()
	case cc.PerVertex, cc.banded() && cc.Axis == (mgl64.Vec3{}):
		return slice3d.FieldColorPerVertex(cc.Color)
	}
	return slice3d.FieldColor(cc.Color)
}

// bands splits res into contour bands.
func (cc CutConfig) bands(res *slice3d.SliceResult, eps float64) ([]*slice3d.SliceResult, error) {
	byValue := cc.Axis == (mgl64.Vec3{})
	heights := res.VertexValues
	if !byValue {
		heights = lo.Map(res.Points, func(p mgl64.Vec3, _ int) float64 { return p.Dot(cc.Axis) })
	}
	levels := cc.Levels
	if len(levels) == 0 {
		var err error
		if levels, err = slice3d.ContourLevels(heights, cc.Contours, cc.Scale); err != nil {
			return nil, err
		}
	}
	if byValue {
		return slice3d.ValueBands(res, levels, eps)
	}
	return slice3d.ContourBands(res, cc.Axis, levels, eps)
}

// addBands adds every band of res with the color range of the band numbers,
// so band i gets the same color wherever it appears.
func (cc CutConfig) addBands(s *slice3d.Scene, res *slice3d.SliceResult, plane *slice3d.Plane, eps float64) error {
	if res.Empty() {
		return nil
	}
	bands, err := cc.bands(res, eps)
	if err != nil {
		return err
	}
	top := float64(len(bands) - 1)
	for _, b := range bands {
		err := s.Add(slice3d.Batch{Polys: b, Min: 0, Max: top, Edges: cc.Edges}, plane)
		if err != nil {
			return err
		}
	}
	return nil
}

// Build creates the mesh, takes every cut and composites them into a scene.
func (c *Config) Build() (*slice3d.Mesh, *slice3d.Scene, error) {
	solids, err := c.BuildSolids()
	if err != nil {
		return nil, nil, err
	}
	m, err := c.buildMesh(solids)
	if err != nil {
		return nil, nil, err
	}

	opts := slice3d.WithOptions(c.Options)
	s := slice3d.NewScene(opts)
	s.Lighting = c.Lighting
	s.View.Orient3(c.View.Phi, c.View.Theta)
	s.View.ZC = c.View.ZC

	for i, cc := range c.Cuts {
		cut, plane := cc.cut(solids)
		res, err := slice3d.Slice(m, cut, cc.color(), opts)
		if err != nil {
			return nil, nil, fmt.Errorf("cut %d: %w", i, err)
		}
		slice3d.Logger().Info("cut", "index", i, "kind", cc.Kind, "polygons", res.NumPolygons())
		switch {
		case cc.banded():
			err = cc.addBands(s, res, plane, c.Options.Precision)
		case plane != nil:
			err = s.AddSlice(res, plane, cc.Edges)
		case cc.Color == "":
			err = s.AddIsosurface(res, cc.Edges)
		default:
			err = s.AddSlice(res, nil, cc.Edges)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cut %d: %w", i, err)
		}
	}
	return m, s, nil
}
