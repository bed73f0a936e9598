package slice3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type cutKind int

const (
	cutUnset cutKind = iota
	cutPlane
	cutIso
	cutPoint
)

// Cut is a slicing function. Its zero set is the surface Slice extracts and
// vertices where it is negative are below the cut.
type Cut struct {
	kind  cutKind
	plane Plane
	field string
	value float64
	fn    func(mgl64.Vec3) float64
}

// PlaneCut slices along a plane. Points in front of the plane are above.
func PlaneCut(p Plane) Cut {
	return Cut{kind: cutPlane, plane: p}
}

// IsoCut slices along the isosurface field = value of a vertex-centered field.
func IsoCut(field string, value float64) Cut {
	return Cut{kind: cutIso, field: field, value: value}
}

// PointCut slices along the zero set of an arbitrary function of position,
// such as a signed distance function.
func PointCut(fn func(mgl64.Vec3) float64) Cut {
	return Cut{kind: cutPoint, fn: fn}
}

func (c Cut) String() string {
	switch c.kind {
	case cutPlane:
		return fmt.Sprintf("plane(%v, %v)", c.plane.Normal, c.plane.D)
	case cutIso:
		return fmt.Sprintf("iso(%s=%v)", c.field, c.value)
	case cutPoint:
		return "func"
	}
	return "unset"
}

// Plane returns the cutting plane of a PlaneCut.
func (c Cut) Plane() (Plane, bool) {
	return c.plane, c.kind == cutPlane
}

// Isosurface reports whether the cut is a level set rather than a plane.
func (c Cut) Isosurface() bool {
	return c.kind == cutIso || c.kind == cutPoint
}

type evaluator func(verts []int, dst []float64) []float64

func (c Cut) evaluator(m *Mesh) (evaluator, error) {
	switch c.kind {
	case cutPlane:
		p := c.plane
		return func(verts []int, dst []float64) []float64 {
			for _, v := range verts {
				dst = append(dst, p.Eval(m.Vertex(v)))
			}
			return dst
		}, nil
	case cutIso:
		f, err := m.Field(c.field)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCut, err)
		}
		if f.Centering != VertexCentered {
			return nil, fmt.Errorf("%w: isosurface field %q is %v-centered", ErrInvalidCut, c.field, f.Centering)
		}
		if !finite(c.value) {
			return nil, fmt.Errorf("%w: isovalue %v", ErrInvalidCut, c.value)
		}
		vals, level := f.Values, c.value
		return func(verts []int, dst []float64) []float64 {
			for _, v := range verts {
				dst = append(dst, vals[v]-level)
			}
			return dst
		}, nil
	case cutPoint:
		if c.fn == nil {
			return nil, fmt.Errorf("%w: nil function", ErrInvalidCut)
		}
		fn := c.fn
		return func(verts []int, dst []float64) []float64 {
			for _, v := range verts {
				dst = append(dst, fn(m.Vertex(v)))
			}
			return dst
		}, nil
	}
	return nil, fmt.Errorf("%w: no slicing function given", ErrInvalidCut)
}

type colorKind int

const (
	colorNone colorKind = iota
	colorField
	colorFieldVertex
	colorCells
)

// Color says how Slice attaches values to its polygons. The zero Color
// attaches none.
type Color struct {
	kind  colorKind
	field string
	fn    func(cells []int) []float64
}

func NoColor() Color { return Color{} }

// FieldColor colors each polygon from a field. A cell-centered field gives
// the value of the cut cell; a vertex-centered field gives the mean of the
// field interpolated at the polygon's vertices.
func FieldColor(name string) Color {
	return Color{kind: colorField, field: name}
}

// FieldColorPerVertex keeps the interpolated value of a vertex-centered
// field at every polygon vertex.
func FieldColorPerVertex(name string) Color {
	return Color{kind: colorFieldVertex, field: name}
}

// CellColor calls fn with the source cell of every polygon; fn must return
// one value per entry. fn is called once per chunk, and with WithWorkers
// above one those calls run concurrently, so fn must be safe for concurrent
// use.
func CellColor(fn func(cells []int) []float64) Color {
	return Color{kind: colorCells, fn: fn}
}

func (c Color) None() bool { return c.kind == colorNone }

func (c Color) resolve(m *Mesh) (Field, error) {
	switch c.kind {
	case colorNone:
		return Field{}, nil
	case colorField, colorFieldVertex:
		f, err := m.Field(c.field)
		if err != nil {
			return Field{}, fmt.Errorf("%w: %w", ErrInvalidColor, err)
		}
		if c.kind == colorFieldVertex && f.Centering != VertexCentered {
			return Field{}, fmt.Errorf("%w: per-vertex color needs a vertex-centered field, %q is %v-centered",
				ErrInvalidColor, c.field, f.Centering)
		}
		return f, nil
	case colorCells:
		if c.fn == nil {
			return Field{}, fmt.Errorf("%w: nil cell color function", ErrInvalidColor)
		}
		return Field{}, nil
	}
	return Field{}, fmt.Errorf("%w: unknown color kind %d", ErrInvalidColor, int(c.kind))
}
