// Package ggraster draws scenes headlessly onto a gg raster context.
package ggraster

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"github.com/smasonuk/slice3d"
)

// Drawer implements slice3d.Drawer on a gg.Context.
type Drawer struct {
	ctx      *gg.Context
	viewport slice3d.Viewport

	Outline   gg.RGBA
	LineWidth float64

	err error
}

// New creates a w by h raster cleared to background.
func New(w, h int, background gg.RGBA) *Drawer {
	ctx := gg.NewContext(w, h)
	ctx.ClearWithColor(background)
	return &Drawer{
		ctx:       ctx,
		viewport:  slice3d.NewViewport(w, h),
		Outline:   gg.Black,
		LineWidth: 1,
	}
}

// SetExtent changes the half width of the window drawn.
func (d *Drawer) SetExtent(ext float64) { d.viewport.Extent = ext }

func (d *Drawer) FillPolygons(colors []color.RGBA, y, x []float64, counts []int, edges bool) {
	n := 0
	for i, c := range counts {
		if c < 3 {
			n += c
			continue
		}
		d.path(x[n:n+c], y[n:n+c])
		d.ctx.SetColor(colors[i])
		if edges {
			d.keep(d.ctx.FillPreserve())
			d.ctx.SetColor(d.Outline.Color())
			d.ctx.SetLineWidth(d.LineWidth)
			d.keep(d.ctx.Stroke())
		} else {
			d.keep(d.ctx.Fill())
		}
		n += c
	}
}

func (d *Drawer) path(x, y []float64) {
	for i := range x {
		px, py := d.viewport.Pixel(x[i], y[i])
		if i == 0 {
			d.ctx.MoveTo(px, py)
		} else {
			d.ctx.LineTo(px, py)
		}
	}
	d.ctx.ClosePath()
}

func (d *Drawer) keep(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

// Err returns the first error met while painting.
func (d *Drawer) Err() error { return d.err }

func (d *Drawer) Image() image.Image { return d.ctx.Image() }

func (d *Drawer) SavePNG(path string) error {
	if d.err != nil {
		return fmt.Errorf("paint: %w", d.err)
	}
	return d.ctx.SavePNG(path)
}

func (d *Drawer) EncodePNG(w io.Writer) error {
	if d.err != nil {
		return fmt.Errorf("paint: %w", d.err)
	}
	return d.ctx.EncodePNG(w)
}

func (d *Drawer) Close() error { return d.ctx.Close() }
