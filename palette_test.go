package slice3d

import (
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
)

func TestByteScale(t *testing.T) {
	testCases := []struct {
		name          string
		v, cmin, cmax float64
		top, want     int
	}{
		{"min", 0, 0, 1, 99, 0},
		{"max", 1, 0, 1, 99, 99},
		{"middle", 0.5, 0, 1, 99, 49},
		{"below", -3, 0, 1, 99, 0},
		{"above", 7, 0, 1, 99, 99},
		{"shifted", 15, 10, 20, 9, 4},
		{"empty range", 5, 2, 2, 99, 0},
		{"inverted range", 5, 3, 1, 99, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ByteScale(tc.v, tc.cmin, tc.cmax, tc.top))
		})
	}
}

func TestRamp(t *testing.T) {
	r := Ramp{gg.Hex("#000000"), gg.Hex("#ffffff")}
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	assert.Equal(t, black, r.At(0))
	assert.Equal(t, black, r.At(-1))
	assert.Equal(t, white, r.At(1))
	assert.Equal(t, white, r.At(2))
	mid := r.At(0.5)
	assert.InDelta(t, 127, int(mid.R), 1)
	assert.Equal(t, mid.R, mid.B)

	assert.Equal(t, color.RGBA{A: 255}, Ramp{}.At(0.5))
	assert.Equal(t, white, Ramp{gg.Hex("#fff")}.At(0.3))
}

func TestPaletteColors(t *testing.T) {
	p := DefaultPalette()
	first, last := p.Values.At(0), p.Values.At(1)
	assert.Equal(t, first, p.ValueColor(-5, 0, 10))
	assert.Equal(t, first, p.ValueColor(0, 0, 10))
	assert.Equal(t, last, p.ValueColor(10, 0, 10))
	assert.NotEqual(t, first, p.ValueColor(5, 0, 10))

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, p.ShadeColor(2, 2))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, p.ShadeColor(0, 2))

	// a single level still spans both ends
	p.Levels = 1
	assert.Equal(t, last, p.ValueColor(10, 0, 10))
}
