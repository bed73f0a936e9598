package slice3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContourLevels(t *testing.T) {
	r2 := math.Sqrt2
	tests := []struct {
		name    string
		heights []float64
		n       int
		scale   LevelScale
		want    []float64
	}{
		{"lin", []float64{0, 3, 4, 1}, 3, LevelLinear, []float64{1, 2, 3}},
		{"log", []float64{8, 0}, 2, LevelLog, []float64{2, 4}},
		{"normal", []float64{1, 3}, 3, LevelNormal, []float64{2 - 2*r2, 2, 2 + 2*r2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContourLevels(tt.heights, tt.n, tt.scale)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestContourLevelsErrors(t *testing.T) {
	tests := []struct {
		name    string
		heights []float64
		n       int
		scale   LevelScale
	}{
		{"no levels", []float64{0, 1}, 0, LevelLinear},
		{"no heights", nil, 2, LevelLinear},
		{"flat log", []float64{1, 1}, 2, LevelLog},
		{"single normal level", []float64{0, 1}, 1, LevelNormal},
		{"unknown scale", []float64{0, 1}, 2, LevelScale(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ContourLevels(tt.heights, tt.n, tt.scale)
			assert.ErrorIs(t, err, ErrInvalidLevels)
		})
	}
}

func TestLevelScaleText(t *testing.T) {
	for _, s := range []LevelScale{LevelLinear, LevelLog, LevelNormal} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back LevelScale
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	var s LevelScale
	assert.Error(t, s.UnmarshalText([]byte("cubic")))
	_, err := LevelScale(9).MarshalText()
	assert.Error(t, err)
}

func TestContourBandsArea(t *testing.T) {
	m := unitGrid(t, 2)
	p := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0.3, 0, 0})
	res, err := Slice(m, PlaneCut(p), FieldColor("z"))
	require.NoError(t, err)
	before := res.Clone()

	bands, err := ContourBands(res, mgl64.Vec3{0, 0, 1}, []float64{0.9, 0.2, 0.6}, 1e-12)
	require.NoError(t, err)
	require.Len(t, bands, 4)
	assert.Equal(t, before, res)

	want := []float64{0.2, 0.4, 0.3, 0.1}
	total := 0.0
	for i, b := range bands {
		require.NoError(t, b.Validate())
		assert.InDelta(t, want[i], area(b, p.Normal), 1e-12, "band %d", i)
		total += area(b, p.Normal)
		assert.Len(t, b.Cells, b.NumPolygons())
		for _, v := range b.Values {
			assert.Equal(t, float64(i), v)
		}
	}
	assert.InDelta(t, area(res, p.Normal), total, 1e-12)
}

func TestContourBandsTilted(t *testing.T) {
	m := unitGrid(t, 3)
	p := NewPlane(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0.5, 0.5, 0.5})
	res, err := Slice(m, PlaneCut(p), NoColor())
	require.NoError(t, err)
	require.False(t, res.Empty())

	axis := mgl64.Vec3{0, 2, 0}
	heights := lo.Map(res.Points, func(x mgl64.Vec3, _ int) float64 { return x.Dot(axis) })
	levels, err := ContourLevels(heights, 3, LevelLinear)
	require.NoError(t, err)

	bands, err := ContourBands(res, axis, levels, 0)
	require.NoError(t, err)
	require.Len(t, bands, len(levels)+1)

	total := 0.0
	for i, b := range bands {
		require.NoError(t, b.Validate())
		total += area(b, p.Normal)
		for _, x := range b.Points {
			h := x.Dot(axis)
			if i > 0 {
				assert.GreaterOrEqual(t, h, levels[i-1]-1e-9)
			}
			if i < len(levels) {
				assert.LessOrEqual(t, h, levels[i]+1e-9)
			}
		}
	}
	assert.InDelta(t, area(res, p.Normal), total, 1e-9)
}

func TestValueBands(t *testing.T) {
	m := unitGrid(t, 2)
	p := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0.3, 0, 0})
	res, err := Slice(m, PlaneCut(p), FieldColorPerVertex("z"))
	require.NoError(t, err)

	bands, err := ValueBands(res, []float64{0.25}, 0)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	for i, b := range bands {
		require.NoError(t, b.Validate())
		assert.InDelta(t, []float64{0.25, 0.75}[i], area(b, p.Normal), 1e-12)
		require.Len(t, b.VertexValues, len(b.Points))
		for j, x := range b.Points {
			assert.InDelta(t, x[2], b.VertexValues[j], 1e-12)
		}
	}

	_, err = ValueBands(square(0), []float64{0.5}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevels)
}

func TestContourBandsEdgeCases(t *testing.T) {
	sq := square(0.5)

	bands, err := ContourBands(sq, mgl64.Vec3{0, 0, 1}, nil, 0)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.Equal(t, sq.Points, bands[0].Points)
	assert.Equal(t, []float64{0}, bands[0].Values)

	bands, err = ContourBands(&SliceResult{}, mgl64.Vec3{0, 0, 1}, []float64{1}, 0)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.True(t, bands[0].Empty())
	assert.True(t, bands[1].Empty())

	_, err = ContourBands(sq, mgl64.Vec3{}, []float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevels)
	_, err = ContourBands(sq, mgl64.Vec3{0, 0, 1}, []float64{math.NaN()}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevels)
}
