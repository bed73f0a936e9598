package slice3d

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// LevelScale chooses how ContourLevels spaces its levels.
type LevelScale int

const (
	// LevelLinear spaces n levels evenly strictly inside [min, max].
	LevelLinear LevelScale = iota
	// LevelLog spaces them as min + exp(i·log(max-min)/(n+1)).
	LevelLog
	// LevelNormal spaces them evenly over mean ± 2 standard deviations.
	LevelNormal
)

func (s LevelScale) String() string {
	switch s {
	case LevelLinear:
		return "lin"
	case LevelLog:
		return "log"
	case LevelNormal:
		return "normal"
	}
	return fmt.Sprintf("LevelScale(%d)", int(s))
}

func (s LevelScale) MarshalText() ([]byte, error) {
	if s < LevelLinear || s > LevelNormal {
		return nil, fmt.Errorf("unknown level scale %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *LevelScale) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "lin", "linear":
		*s = LevelLinear
	case "log":
		*s = LevelLog
	case "normal":
		*s = LevelNormal
	default:
		return fmt.Errorf("unknown level scale %q", string(b))
	}
	return nil
}

// ContourLevels returns n increasing levels for the sample heights on the
// given scale.
func ContourLevels(heights []float64, n int, scale LevelScale) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d levels", ErrInvalidLevels, n)
	}
	if len(heights) == 0 {
		return nil, fmt.Errorf("%w: no heights", ErrInvalidLevels)
	}
	lvl := make([]float64, n)
	switch scale {
	case LevelLinear, LevelLog:
		hmin, hmax := lo.Min(heights), lo.Max(heights)
		step := (hmax - hmin) / float64(n+1)
		if scale == LevelLog {
			if hmax-hmin <= 0 {
				return nil, fmt.Errorf("%w: log scale over an empty range", ErrInvalidLevels)
			}
			step = math.Log(hmax-hmin) / float64(n+1)
		}
		for i := range lvl {
			if scale == LevelLog {
				lvl[i] = hmin + math.Exp(float64(i+1)*step)
			} else {
				lvl[i] = hmin + float64(i+1)*step
			}
		}
	case LevelNormal:
		if n < 2 || len(heights) < 2 {
			return nil, fmt.Errorf("%w: normal scale needs two levels and two heights", ErrInvalidLevels)
		}
		mean := lo.Mean(heights)
		var ss float64
		for _, h := range heights {
			ss += (h - mean) * (h - mean)
		}
		sd := math.Sqrt(ss / float64(len(heights)-1))
		first, step := mean-2*sd, 4*sd/float64(n-1)
		for i := range lvl {
			lvl[i] = first + float64(i)*step
		}
	default:
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidLevels, scale)
	}
	for _, l := range lvl {
		if !finite(l) {
			return nil, fmt.Errorf("%w: level %v", ErrInvalidLevels, l)
		}
	}
	return lvl, nil
}

// ContourBands cuts the polygons of r into len(levels)+1 bands of the height
// h(x) = axis·x. Band 0 holds everything below the lowest level, band i
// everything between levels i-1 and i, and the last band everything above
// the highest level. Levels are sorted first. Every polygon of band i has
// value i; the other optional arrays are carried through. Bands may be empty.
func ContourBands(r *SliceResult, axis mgl64.Vec3, levels []float64, eps float64) ([]*SliceResult, error) {
	l := axis.Len()
	if l == 0 || !finite(l) {
		return nil, fmt.Errorf("%w: contour axis %v", ErrInvalidLevels, axis)
	}
	return bands(r, levels, eps, func(rest *SliceResult, v int) float64 {
		return rest.Points[v].Dot(axis) / l
	}, 1/l)
}

// ValueBands is ContourBands with the heights taken from the per-vertex
// values of r, which must be present. The values are interpolated along
// every band boundary, so each band keeps its VertexValues.
func ValueBands(r *SliceResult, levels []float64, eps float64) ([]*SliceResult, error) {
	if r.VertexValues == nil {
		return nil, fmt.Errorf("%w: value bands need per-vertex values", ErrInvalidLevels)
	}
	return bands(r, levels, eps, func(rest *SliceResult, v int) float64 {
		return rest.VertexValues[v]
	}, 1)
}

// bands peels one band off the bottom of r per level. height is evaluated on
// the remainder left by the previous level and scale maps a level into the
// units height returns.
func bands(r *SliceResult, levels []float64, eps float64, height func(rest *SliceResult, v int) float64, scale float64) ([]*SliceResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, l := range levels {
		if !finite(l) {
			return nil, fmt.Errorf("%w: level %v", ErrInvalidLevels, l)
		}
	}
	levels = slices.Sorted(slices.Values(levels))

	out := make([]*SliceResult, 0, len(levels)+1)
	rest := r.Clone()
	for _, level := range levels {
		f := make([]float64, len(rest.Points))
		for v := range f {
			if d := height(rest, v) - level*scale; math.Abs(d) > eps {
				f[v] = d
			}
		}
		below, above := splitBy(rest, f)
		out = append(out, below)
		rest = above
	}
	out = append(out, rest)

	for i, b := range out {
		b.Values = lo.Times(b.NumPolygons(), func(int) float64 { return float64(i) })
	}
	Logger().Debug("contour bands", "levels", len(levels), "polygons", r.NumPolygons())
	return out, nil
}
