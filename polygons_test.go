package slice3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		r       *SliceResult
		wantErr bool
	}{
		{"empty", &SliceResult{}, false},
		{"square", square(0), false},
		{"too few points", &SliceResult{Counts: []int{4}, Points: make([]mgl64.Vec3, 3)}, true},
		{"segment", &SliceResult{Counts: []int{2}, Points: make([]mgl64.Vec3, 2)}, true},
		{"values", &SliceResult{Counts: []int{3}, Points: make([]mgl64.Vec3, 3), Values: []float64{1, 2}}, true},
		{"vertex values", &SliceResult{Counts: []int{3}, Points: make([]mgl64.Vec3, 3), VertexValues: []float64{1}}, true},
		{"cells", &SliceResult{Counts: []int{3}, Points: make([]mgl64.Vec3, 3), Cells: []int{}}, true},
		{"nan point", &SliceResult{Counts: []int{3}, Points: []mgl64.Vec3{{}, {}, {math.NaN(), 0, 0}}}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPolygons)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAppend(t *testing.T) {
	r := &SliceResult{}
	a := triangle(0)
	a.Values = []float64{1}
	require.NoError(t, r.Append(a))
	require.NoError(t, r.Append(&SliceResult{}))
	a.Values[0] = 5
	assert.Equal(t, []float64{1}, r.Values)

	b := square(1)
	b.Values = []float64{2}
	require.NoError(t, r.Append(b))
	assert.Equal(t, []int{3, 4}, r.Counts)
	assert.Len(t, r.Points, 7)
	assert.Equal(t, []float64{1, 2}, r.Values)
	assert.Equal(t, []int{0, 3}, r.Offsets())
	assert.Equal(t, b.Points, r.Polygon(r.Offsets(), 1))

	assert.ErrorIs(t, r.Append(triangle(2)), ErrInvalidPolygons)
}

func TestNormals(t *testing.T) {
	r := &SliceResult{Counts: []int{3, 4, 3}}
	r.Points = append(r.Points, triangle(0).Points...)
	r.Points = append(r.Points, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{2, 2, 0}, mgl64.Vec3{2, 0, 0})
	r.Points = append(r.Points, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2})

	normals := r.Normals()
	assertVec(t, mgl64.Vec3{0, 0, 1}, normals[0])
	assertVec(t, mgl64.Vec3{0, 0, -1}, normals[1])
	assert.Equal(t, mgl64.Vec3{}, normals[2])

	// a regular hexagon in the plane x+y+z=0
	u := mgl64.Vec3{1, -1, 0}.Normalize()
	v := mgl64.Vec3{1, 1, -2}.Normalize()
	hex := &SliceResult{Counts: []int{6}}
	for i := range 6 {
		a := float64(i) * math.Pi / 3
		hex.Points = append(hex.Points, u.Mul(math.Cos(a)).Add(v.Mul(math.Sin(a))))
	}
	assertVec(t, u.Cross(v), hex.Normals()[0])
}

func TestCentroidsAndBounds(t *testing.T) {
	r := square(3)
	assert.Equal(t, []mgl64.Vec3{{1, 1, 3}}, r.Centroids())
	bmin, bmax := r.Bounds()
	assert.Equal(t, mgl64.Vec3{0, 0, 3}, bmin)
	assert.Equal(t, mgl64.Vec3{2, 2, 3}, bmax)
}

func TestPolygonValues(t *testing.T) {
	r := &SliceResult{Counts: []int{3, 4}}
	r.Points = append(triangle(0).Points, square(0).Points...)
	assert.Nil(t, r.PolygonValues())
	lo, hi := r.ValueRange()
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))

	r.VertexValues = []float64{0, 3, 6, 1, 1, 3, 3}
	assert.Equal(t, []float64{3, 2}, r.PolygonValues())
	lo, hi = r.ValueRange()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 3.0, hi)

	r.Values = []float64{-1, 7}
	assert.Equal(t, []float64{-1, 7}, r.PolygonValues())
}

func TestCloneIsDeep(t *testing.T) {
	r := square(0)
	r.Cells = []int{1}
	c := r.Clone()
	c.Points[0][0] = 9
	c.Cells[0] = 2
	assert.Equal(t, 0.0, r.Points[0][0])
	assert.Equal(t, []int{1}, r.Cells)
	assert.Nil(t, c.Values)
}
