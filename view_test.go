package slice3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-12, "component %d of %v", i, got)
	}
}

func TestOrient3(t *testing.T) {
	v := NewView()
	v.Orient3(0, 0)
	assertVec(t, mgl64.Vec3{1, 0, 0}, v.Transform(mgl64.Vec3{1, 0, 0}))
	assertVec(t, mgl64.Vec3{0, 1, 0}, v.Transform(mgl64.Vec3{0, 0, 1}))
	assertVec(t, mgl64.Vec3{0, -1, 0}, v.Direction())

	for _, a := range [][2]float64{{-math.Pi / 4, math.Pi / 6}, {1, 2}, {3, -0.5}} {
		v.Orient3(a[0], a[1])
		z := v.Transform(mgl64.Vec3{0, 0, 1})
		// the object z axis stays vertical on screen
		assert.InDelta(t, 0, z[0], 1e-12)
		assert.InDelta(t, math.Cos(a[1]), z[1], 1e-12)
		assert.InDelta(t, math.Sin(a[1]), z[2], 1e-12)
		assert.True(t, v.Rot.Mul3(v.Rot.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), 1e-12))
	}
}

func TestRot3(t *testing.T) {
	testCases := []struct {
		name       string
		xa, ya, za float64
		in, want   mgl64.Vec3
	}{
		{"about z", 0, 0, math.Pi / 2, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, -1, 0}},
		{"about x", math.Pi / 2, 0, 0, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}},
		{"about y", 0, math.Pi / 2, 0, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-1, 0, 0}},
		{"full turn", 2 * math.Pi, 0, 0, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewView()
			v.Rot3(tc.xa, tc.ya, tc.za)
			assertVec(t, tc.want, v.Transform(tc.in))
		})
	}

	// rotations accumulate
	v := NewView()
	v.Rot3(0, 0, math.Pi/4)
	v.Rot3(0, 0, math.Pi/4)
	assertVec(t, mgl64.Vec3{0, -1, 0}, v.Transform(mgl64.Vec3{1, 0, 0}))
}

func TestProject(t *testing.T) {
	v := NewView()
	pts := []mgl64.Vec3{{1, 1, 1}, {1, 0, 0}}

	x, y, z := v.Project(pts, false)
	assert.Equal(t, []float64{1, 1}, x)
	assert.Equal(t, []float64{1, 0}, y)
	assert.Nil(t, z)

	v.ZC = 2
	x, y, z = v.Project(pts, true)
	assert.Equal(t, []float64{1, 0.5}, x)
	assert.Equal(t, []float64{1, 0}, y)
	assert.Equal(t, []float64{1, 0}, z)

	v.Origin = mgl64.Vec3{1, 0, 0}
	x, _, _ = v.Project(pts, false)
	assert.Equal(t, []float64{0, 0}, x)
}

func TestLookAt(t *testing.T) {
	testCases := []struct {
		name string
		eye  mgl64.Vec3
	}{
		{"on z", mgl64.Vec3{0, 0, 5}},
		{"on x", mgl64.Vec3{3, 0, 0}},
		{"oblique", mgl64.Vec3{2, -2, 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewView()
			v.LookAt(tc.eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, true)
			assertVec(t, tc.eye.Normalize(), v.Direction())
			assert.InDelta(t, tc.eye.Len(), v.ZC, 1e-12)
			// the eye sits on the viewer z axis
			q := v.Transform(tc.eye)
			assert.InDelta(t, 0, q[0], 1e-12)
			assert.InDelta(t, 0, q[1], 1e-12)

			v.LookAt(tc.eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, false)
			assert.Zero(t, v.ZC)
		})
	}
}
