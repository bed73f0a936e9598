package slice3d

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// Drawer paints filled polygons in normalized viewer coordinates. counts
// gives the number of vertices of each polygon; x and y hold the vertices of
// all polygons back to back. Polygons must be painted in the order given.
type Drawer interface {
	FillPolygons(colors []color.RGBA, y, x []float64, counts []int, edges bool)
}

// DrawList is one FillPolygons call.
type DrawList struct {
	Colors []color.RGBA
	X, Y   []float64
	Counts []int
	Edges  bool
}

// Scene composites slices and isosurfaces through a Tree and draws them far
// to near. The View is applied to coordinates normalized to the scene box:
// centered on the box center and scaled so its largest side is 1.
type Scene struct {
	Tree     *Tree
	View     *View
	Lighting Lighting
	Palette  Palette

	bmin, bmax mgl64.Vec3
	bounded    bool
}

func NewScene(opts ...Option) *Scene {
	return &Scene{
		Tree:     NewTree(opts...),
		View:     DefaultView(),
		Lighting: DefaultLighting(),
		Palette:  DefaultPalette(),
	}
}

// Add stores b, splitting the scene by plane when plane is not nil.
func (s *Scene) Add(b Batch, plane *Plane) error {
	if b.Polys == nil {
		return fmt.Errorf("%w: nil batch", ErrInvalidPolygons)
	}
	if err := b.Polys.Validate(); err != nil {
		return err
	}
	if b.Polys.Empty() {
		return nil
	}
	pmin, pmax := b.Polys.Bounds()
	if !s.bounded {
		s.bmin, s.bmax, s.bounded = pmin, pmax, true
	} else {
		for i := range 3 {
			s.bmin[i] = math.Min(s.bmin[i], pmin[i])
			s.bmax[i] = math.Max(s.bmax[i], pmax[i])
		}
	}
	if plane != nil {
		s.Tree.InsertPlane(b, *plane)
	} else {
		s.Tree.Insert(b)
	}
	return nil
}

// AddSlice adds a planar slice colored by its values. A nil plane stores it
// without splitting the scene.
func (s *Scene) AddSlice(r *SliceResult, plane *Plane, edges bool) error {
	b := NewBatch(r)
	b.Edges = edges
	return s.Add(b, plane)
}

// AddIsosurface adds a surface shaded by the lighting.
func (s *Scene) AddIsosurface(r *SliceResult, edges bool) error {
	b := NewBatch(r)
	b.Iso, b.Edges = true, edges
	return s.Add(b, nil)
}

// Clear empties the scene.
func (s *Scene) Clear() {
	s.Tree.Clear()
	s.bounded = false
}

// normalized applies a view after moving the scene box to unit size.
type normalized struct {
	view   *View
	center mgl64.Vec3
	scale  float64
}

func (s *Scene) normalizer() normalized {
	n := normalized{view: s.View, scale: 1}
	if !s.bounded {
		return n
	}
	n.center = s.bmin.Add(s.bmax).Mul(0.5)
	ext := s.bmax.Sub(s.bmin)
	if e := math.Max(ext[0], math.Max(ext[1], ext[2])); e > 0 {
		n.scale = 1 / e
	}
	return n
}

func (n normalized) apply(points []mgl64.Vec3) []mgl64.Vec3 {
	return lo.Map(points, func(p mgl64.Vec3, _ int) mgl64.Vec3 {
		return p.Sub(n.center).Mul(n.scale)
	})
}

func (n normalized) Project(points []mgl64.Vec3, withDepth bool) (x, y, z []float64) {
	return n.view.Project(n.apply(points), withDepth)
}

// Collect walks the tree and returns the draw calls in painting order.
func (s *Scene) Collect() []DrawList {
	norm := s.normalizer()
	var lists []DrawList
	s.Tree.Walk(norm, func(leaf Leaf) {
		// batches of a leaf are sorted together, so only their geometry
		// is merged
		merged := &SliceResult{}
		var colors []color.RGBA
		for _, b := range leaf.Batches {
			colors = append(colors, s.colors(norm, b)...)
			merged.Counts = append(merged.Counts, b.Polys.Counts...)
			merged.Points = append(merged.Points, b.Polys.Points...)
		}
		if merged.Empty() {
			return
		}
		x, y, z := norm.Project(merged.Points, !leaf.InPlane)
		if !leaf.InPlane && merged.NumPolygons() > 1 {
			polyOrder, vertexOrder := DepthSort(z, merged.Counts)
			colors = lo.Map(polyOrder, func(p int, _ int) color.RGBA { return colors[p] })
			x = lo.Map(vertexOrder, func(v int, _ int) float64 { return x[v] })
			y = lo.Map(vertexOrder, func(v int, _ int) float64 { return y[v] })
			merged = merged.Reorder(polyOrder, vertexOrder)
		}
		lists = append(lists, DrawList{
			Colors: colors,
			X:      x,
			Y:      y,
			Counts: merged.Counts,
			Edges:  lo.EveryBy(leaf.Batches, func(b Batch) bool { return b.Edges }),
		})
	})
	Logger().Debug("scene collected", "lists", len(lists), "nodes", s.Tree.Len(), "depth", s.Tree.Depth())
	return lists
}

// colors returns one color per polygon of b.
func (s *Scene) colors(norm normalized, b Batch) []color.RGBA {
	values := b.Polys.PolygonValues()
	if !b.Iso && values != nil {
		cmin, cmax := b.ColorRange()
		return lo.Map(values, func(v float64, _ int) color.RGBA {
			return s.Palette.ValueColor(v, cmin, cmax)
		})
	}

	// shading is computed in viewer coordinates
	viewer := &SliceResult{
		Counts: b.Polys.Counts,
		Points: lo.Map(norm.apply(b.Polys.Points), func(p mgl64.Vec3, _ int) mgl64.Vec3 {
			return s.View.Transform(p)
		}),
	}
	shade := s.Lighting.Shade(viewer.Normals(), ViewVectors(viewer.Centroids(), s.View.ZC))
	smax := lo.Max(shade)
	return lo.Map(shade, func(v float64, _ int) color.RGBA {
		return s.Palette.ShadeColor(v, smax)
	})
}

// Render draws the scene on d far to near.
func (s *Scene) Render(d Drawer) error {
	if d == nil {
		return fmt.Errorf("render: nil drawer")
	}
	for _, l := range s.Collect() {
		d.FillPolygons(l.Colors, l.Y, l.X, l.Counts, l.Edges)
	}
	return nil
}

// Viewport maps normalized viewer coordinates onto a pixel raster. Extent
// is the half width of the square window shown, centered on the origin.
type Viewport struct {
	Width, Height int
	Extent        float64
}

const DefaultExtent = 0.9

func NewViewport(w, h int) Viewport {
	return Viewport{Width: w, Height: h, Extent: DefaultExtent}
}

// Pixel returns the raster position of (x, y), with y growing downward.
func (vp Viewport) Pixel(x, y float64) (float64, float64) {
	ext := vp.Extent
	if ext <= 0 {
		ext = DefaultExtent
	}
	k := float64(min(vp.Width, vp.Height)) / (2 * ext)
	return float64(vp.Width)/2 + x*k, float64(vp.Height)/2 - y*k
}
