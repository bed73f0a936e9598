package slice3d

import (
	"image/color"

	"github.com/gogpu/gg"
)

// Ramp is a piecewise linear color map over [0, 1].
type Ramp []gg.RGBA

// At returns the color at t, clamped to the ends of the ramp.
func (r Ramp) At(t float64) color.RGBA {
	if len(r) == 0 {
		return color.RGBA{A: 255}
	}
	if t <= 0 || len(r) == 1 {
		return toRGBA(r[0])
	}
	if t >= 1 {
		return toRGBA(r[len(r)-1])
	}
	x := t * float64(len(r)-1)
	i := int(x)
	return toRGBA(r[i].Lerp(r[i+1], x-float64(i)))
}

func toRGBA(c gg.RGBA) color.RGBA {
	return color.RGBAModel.Convert(c.Color()).(color.RGBA)
}

// Palette is split in two: Values colors polygons that carry values, Shades
// colors shaded isosurfaces. Each half is quantized to Levels colors.
type Palette struct {
	Values Ramp
	Shades Ramp
	Levels int
}

func DefaultPalette() Palette {
	return Palette{
		Values: Ramp{gg.Hex("#3b4cc0"), gg.Hex("#7fb8f0"), gg.Hex("#f2f0c4"), gg.Hex("#f4a06a"), gg.Hex("#b40426")},
		Shades: Ramp{gg.Hex("#000000"), gg.Hex("#ffffff")},
		Levels: 100,
	}
}

// ByteScale maps v from [cmin, cmax] onto the integers 0..top, clamping
// values outside the range.
func ByteScale(v, cmin, cmax float64, top int) int {
	if cmax <= cmin {
		return 0
	}
	i := int((v - cmin) / (cmax - cmin) * (float64(top) + 0.999))
	return max(0, min(top, i))
}

func (p Palette) levels() int {
	if p.Levels < 2 {
		return 2
	}
	return p.Levels
}

// ValueColor colors a value scaled into [cmin, cmax].
func (p Palette) ValueColor(v, cmin, cmax float64) color.RGBA {
	top := p.levels() - 1
	return p.Values.At(float64(ByteScale(v, cmin, cmax, top)) / float64(top))
}

// ShadeColor colors a brightness scaled into [0, smax].
func (p Palette) ShadeColor(s, smax float64) color.RGBA {
	top := p.levels() - 1
	return p.Shades.At(float64(ByteScale(s, 0, smax, top)) / float64(top))
}
