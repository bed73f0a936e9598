package ggraster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smasonuk/slice3d"
)

func sliceScene(t *testing.T) *slice3d.Scene {
	t.Helper()
	m, err := slice3d.NewRegularMesh([3]int{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1},
		slice3d.CellField("temp", []float64{3}))
	require.NoError(t, err)

	p := slice3d.NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 0.5})
	res, err := slice3d.Slice(m, slice3d.PlaneCut(p), slice3d.FieldColor("temp"))
	require.NoError(t, err)
	require.Equal(t, 1, res.NumPolygons())

	s := slice3d.NewScene()
	require.NoError(t, s.AddSlice(res, &p, true))
	return s
}

func TestDrawerPaintsSlice(t *testing.T) {
	d := New(100, 100, gg.White)
	defer d.Close()

	require.NoError(t, sliceScene(t).Render(d))
	require.NoError(t, d.Err())

	img := d.Image()
	assert.Equal(t, 100, img.Bounds().Dx())
	center := color.RGBAModel.Convert(img.At(50, 50)).(color.RGBA)
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, center)
	corner := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, corner)
}

func TestDrawerEncodePNG(t *testing.T) {
	d := New(32, 24, gg.White)
	defer d.Close()
	require.NoError(t, sliceScene(t).Render(d))

	var buf bytes.Buffer
	require.NoError(t, d.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestDrawerSkipsShortPolygons(t *testing.T) {
	d := New(10, 10, gg.White)
	defer d.Close()
	d.FillPolygons([]color.RGBA{{A: 255}}, []float64{0, 0.1}, []float64{0, 0.1}, []int{2}, false)
	assert.NoError(t, d.Err())
}
