// Package ebitenview shows scenes in an ebiten window.
package ebitenview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/slice3d"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Drawer implements slice3d.Drawer on an ebiten image. Set the target
// before each frame.
type Drawer struct {
	target   *ebiten.Image
	viewport slice3d.Viewport

	Outline     color.RGBA
	StrokeWidth float32
}

func NewDrawer() *Drawer {
	return &Drawer{
		Outline:     color.RGBA{A: 255},
		StrokeWidth: 1,
	}
}

// Target directs drawing to screen, sized w by h.
func (d *Drawer) Target(screen *ebiten.Image, w, h int) {
	d.target = screen
	ext := d.viewport.Extent
	d.viewport = slice3d.NewViewport(w, h)
	if ext > 0 {
		d.viewport.Extent = ext
	}
}

func (d *Drawer) SetExtent(ext float64) { d.viewport.Extent = ext }

func (d *Drawer) FillPolygons(colors []color.RGBA, y, x []float64, counts []int, edges bool) {
	if d.target == nil {
		return
	}
	n := 0
	var xp, yp []float32
	for i, c := range counts {
		xp, yp = xp[:0], yp[:0]
		for v := n; v < n+c; v++ {
			px, py := d.viewport.Pixel(x[v], y[v])
			xp = append(xp, float32(px))
			yp = append(yp, float32(py))
		}
		n += c
		fillConvexPolygon(d.target, xp, yp, colors[i])
		if edges {
			drawPolygonOutline(d.target, xp, yp, d.StrokeWidth, d.Outline)
		}
	}
}

// fanIndices triangulates a convex polygon of n vertices from its first vertex.
func fanIndices(n int) []uint16 {
	if n < 3 {
		return nil
	}
	indices := make([]uint16, 0, (n-2)*3)
	for i := 2; i < n; i++ {
		indices = append(indices, 0, uint16(i-1), uint16(i))
	}
	return indices
}

func colorScale(clr color.RGBA) (r, g, b, a float32) {
	return float32(clr.R) / 255, float32(clr.G) / 255, float32(clr.B) / 255, float32(clr.A) / 255
}

func fillConvexPolygon(screen *ebiten.Image, xp, yp []float32, clr color.RGBA) {
	indices := fanIndices(len(xp))
	if indices == nil {
		return
	}
	cr, cg, cb, ca := colorScale(clr)
	vertices := make([]ebiten.Vertex, len(xp))
	for i := range xp {
		vertices[i] = ebiten.Vertex{
			DstX:   xp[i],
			DstY:   yp[i],
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	screen.DrawTriangles(vertices, indices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func drawPolygonOutline(screen *ebiten.Image, xp, yp []float32, strokeWidth float32, clr color.RGBA) {
	if len(xp) < 2 {
		return
	}
	var path vector.Path
	path.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		path.LineTo(xp[i], yp[i])
	}
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: strokeWidth})
	cr, cg, cb, ca := colorScale(clr)
	for i := range vertices {
		vertices[i].ColorR = cr
		vertices[i].ColorG = cg
		vertices[i].ColorB = cb
		vertices[i].ColorA = ca
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}
	screen.DrawTriangles(vertices, indices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
