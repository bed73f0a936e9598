package slice3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(z float64) *SliceResult {
	return &SliceResult{
		Counts: []int{4},
		Points: []mgl64.Vec3{{0, 0, z}, {2, 0, z}, {2, 2, z}, {0, 2, z}},
	}
}

func TestNewPlane(t *testing.T) {
	p := NewPlane(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{5, 5, 3})
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, p.Normal)
	assert.Equal(t, 3.0, p.D)
	assert.Equal(t, 1.0, p.Eval(mgl64.Vec3{9, 9, 4}))
	assert.Equal(t, 0.0, p.PointOnPlane(mgl64.Vec3{0, 0, 3.0001}, 0.001))
	assert.False(t, p.Degenerate())
	assert.True(t, NewPlane(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}).Degenerate())
}

func TestCoincident(t *testing.T) {
	p := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})
	testCases := []struct {
		name string
		q    Plane
		want bool
	}{
		{"same", NewPlane(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 5, 5}), true},
		{"flipped", NewPlane(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}), true},
		{"parallel", NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}), false},
		{"crossing", NewPlane(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}), false},
		{"degenerate", Plane{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Coincident(tc.q, 1e-9))
		})
	}
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name        string
		plane       Plane
		backCounts  []int
		frontCounts []int
	}{
		{"all front", NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, -1}), nil, []int{4}},
		{"all back", NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}), nil, nil},
		{"in plane goes front", NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{}), nil, []int{4}},
		{"halves", NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}), []int{4}, []int{4}},
		{"corner", NewPlane(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0.5, 0, 0}), []int{3}, []int{5}},
		{"through vertices", NewPlane(mgl64.Vec3{1, -1, 0}, mgl64.Vec3{}), []int{3}, []int{3}},
		{"touching a vertex", NewPlane(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{}), nil, []int{4}},
		{"degenerate", Plane{}, nil, []int{4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := square(0)
			in.Values = []float64{7}
			back, front := tc.plane.Split(in, 1e-12)
			require.NoError(t, back.Validate())
			require.NoError(t, front.Validate())
			if tc.name == "all back" {
				assert.Equal(t, []int{4}, back.Counts)
				assert.Nil(t, front.Counts)
				return
			}
			assert.Equal(t, tc.backCounts, back.Counts)
			assert.Equal(t, tc.frontCounts, front.Counts)
			for _, v := range append(back.Values, front.Values...) {
				assert.Equal(t, 7.0, v)
			}
			if !tc.plane.Degenerate() {
				for _, p := range back.Points {
					assert.LessOrEqual(t, tc.plane.Eval(p), 1e-12)
				}
				for _, p := range front.Points {
					assert.GreaterOrEqual(t, tc.plane.Eval(p), -1e-12)
				}
			}
			// clipping keeps the total area
			total := area(back, mgl64.Vec3{0, 0, 1}) + area(front, mgl64.Vec3{0, 0, 1})
			assert.InDelta(t, 4, total, 1e-12)
		})
	}
}

func TestSplitVertexValues(t *testing.T) {
	in := square(0)
	in.VertexValues = []float64{0, 2, 2, 0}
	in.Cells = []int{3}
	back, front := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}).Split(in, 0)
	require.NoError(t, back.Validate())
	require.NoError(t, front.Validate())
	assert.Equal(t, []int{3}, back.Cells)
	assert.Equal(t, []int{3}, front.Cells)
	// values follow x, so they equal x at every new vertex
	for _, side := range []*SliceResult{back, front} {
		for i, p := range side.Points {
			assert.InDelta(t, p[0], side.VertexValues[i], 1e-12)
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	back, front := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}).Split(&SliceResult{}, 0)
	assert.True(t, back.Empty())
	assert.True(t, front.Empty())
}

func TestSplitKeepsSlab(t *testing.T) {
	in := square(0)
	in.Points[2][2] = 1e-7
	in.Points[3][2] = -1e-7
	p := NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{})

	back, front := p.Split(in, 1e-6)
	assert.True(t, back.Empty())
	assert.Equal(t, in.Points, front.Points)

	// without the slab the same polygon straddles the plane
	back, front = p.Split(in, 0)
	assert.False(t, back.Empty())
	assert.False(t, front.Empty())
}
