package slice3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// Slice extracts the polygons where cut crosses the cells of m. Every cut
// cell contributes one to four polygons, their vertices on cell edges in
// cyclic order. color selects the values attached to the polygons.
//
// A cut that misses the mesh gives an empty result, not an error. Invalid
// cuts and colors fail before any cell is visited.
func Slice(m *Mesh, cut Cut, color Color, opts ...Option) (*SliceResult, error) {
	o := buildOptions(opts)
	eval, err := cut.evaluator(m)
	if err != nil {
		return nil, err
	}
	field, err := color.resolve(m)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for c, ok := FirstChunk(m, o.ChunkLimit), true; ok; c, ok = NextChunk(m, c) {
		chunks = append(chunks, c)
	}

	parts := make([]*SliceResult, len(chunks))
	var g errgroup.Group
	g.SetLimit(o.Workers)
	for i, c := range chunks {
		g.Go(func() error {
			s := chunkSlicer{mesh: m, eval: eval, color: color, field: field, opts: o}
			res, err := s.slice(c)
			if err != nil {
				return fmt.Errorf("%v: %w", c, err)
			}
			parts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SliceResult{}
	for _, p := range parts {
		if err := out.Append(p); err != nil {
			return nil, err
		}
	}
	Logger().Debug("slice",
		"cut", cut.String(), "mesh", m.Kind().String(), "cells", m.NumCells(),
		"chunks", len(chunks), "polygons", out.NumPolygons())
	return out, nil
}

type chunkSlicer struct {
	mesh  *Mesh
	eval  evaluator
	color Color
	field Field
	opts  Options

	verts   []int
	corners []int
	f       []float64
}

func (s *chunkSlicer) slice(c Chunk) (*SliceResult, error) {
	m := s.mesh
	topo := TopologyOf(c.Shape)
	nv := len(topo.Corners)
	eps := s.opts.Precision

	s.verts = c.Vertices(m, s.verts[:0])
	s.corners = c.Corners(m, s.verts, s.corners[:0])
	s.f = s.eval(s.verts, s.f[:0])
	for i, v := range s.f {
		if v <= eps && v >= -eps {
			s.f[i] = 0
		}
	}

	// critical cells and their sign patterns
	var local []int
	var masks []uint
	for l := 0; l < c.NumCells(); l++ {
		var below uint
		for b := 0; b < nv; b++ {
			if s.f[s.corners[l*nv+b]] < 0 {
				below |= 1 << b
			}
		}
		if topo.Critical(below) {
			local = append(local, l)
			masks = append(masks, below)
		}
	}
	Logger().Debug("chunk", "chunk", c, "cells", c.NumCells(), "critical", len(local))
	res := &SliceResult{Cells: []int{}}
	if len(local) == 0 {
		return res, nil
	}
	cells := ResolveCells(m, c, local, make([]int, 0, len(local)))

	vertexField := s.field.Values != nil && s.field.Centering == VertexCentered
	var interp []float64
	for k, l := range local {
		pat := topo.Pattern(masks[k], s.opts.Bowtie)
		corner := s.corners[l*nv : (l+1)*nv]
		for _, poly := range pat.Polygons {
			for _, e := range poly {
				a, b := corner[topo.Edges[e][0]], corner[topo.Edges[e][1]]
				// a is below and b is not, or the reverse, so fb-fa != 0
				fa, fb := s.f[a], s.f[b]
				res.Points = append(res.Points, CutPoint(m.Vertex(s.verts[a]), m.Vertex(s.verts[b]), fa, fb))
				if vertexField {
					va, vb := s.field.Values[s.verts[a]], s.field.Values[s.verts[b]]
					interp = append(interp, (va*fb-vb*fa)/(fb-fa))
				}
			}
			res.Counts = append(res.Counts, len(poly))
			res.Cells = append(res.Cells, cells[k])
		}
	}

	switch s.color.kind {
	case colorField:
		if vertexField {
			res.VertexValues = interp
			res.Values = res.PolygonValues()
			res.VertexValues = nil
		} else {
			res.Values = make([]float64, len(res.Cells))
			for i, cell := range res.Cells {
				res.Values[i] = s.field.Values[cell]
			}
		}
	case colorFieldVertex:
		res.VertexValues = interp
	case colorCells:
		vals := s.color.fn(append([]int(nil), res.Cells...))
		if len(vals) != len(res.Cells) {
			return nil, fmt.Errorf("%w: cell color returned %d values for %d polygons",
				ErrInvalidColor, len(vals), len(res.Cells))
		}
		res.Values = vals
	}
	return res, nil
}

// SliceAll applies several cuts to one mesh and returns the results in cut
// order.
func SliceAll(m *Mesh, cuts []Cut, color Color, opts ...Option) ([]*SliceResult, error) {
	out := make([]*SliceResult, len(cuts))
	for i, c := range cuts {
		r, err := Slice(m, c, color, opts...)
		if err != nil {
			return nil, fmt.Errorf("cut %d %v: %w", i, c, err)
		}
		out[i] = r
	}
	return out, nil
}

// CutPoint interpolates the zero crossing on edge a-b given the slicing
// function values fa and fb of opposite sign.
func CutPoint(a, b mgl64.Vec3, fa, fb float64) mgl64.Vec3 {
	d := fb - fa
	return a.Mul(fb / d).Sub(b.Mul(fa / d))
}
