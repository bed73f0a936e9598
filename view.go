package slice3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Projector maps object coordinates to viewer coordinates: x right, y up,
// z toward the viewer. With depth requested z is returned as well.
type Projector interface {
	Project(points []mgl64.Vec3, withDepth bool) (x, y, z []float64)
}

// View is a rotation and translation into the viewer's frame with an
// optional perspective camera on the viewer's z axis.
type View struct {
	// Rot has the viewer's x, y and z axes, in object coordinates, as rows.
	Rot    mgl64.Mat3
	Origin mgl64.Vec3
	// ZC is the camera distance along viewer z. Zero puts the camera at
	// infinity.
	ZC float64
}

func NewView() *View {
	return &View{Rot: mgl64.Ident3()}
}

// DefaultView looks at the object with its z axis up, turned by -pi/4 and
// tilted toward the viewer by pi/6.
func DefaultView() *View {
	v := NewView()
	v.Orient3(-math.Pi/4, math.Pi/6)
	return v
}

func rot2(a float64, x, y mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ca, sa := math.Cos(a), math.Sin(a)
	return x.Mul(ca).Add(y.Mul(sa)), x.Mul(-sa).Add(y.Mul(ca))
}

// Rot3 rotates the view by xa about the viewer's x axis, ya about its y axis
// and za about its z axis. Rotations accumulate.
func (v *View) Rot3(xa, ya, za float64) {
	x, y, z := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}
	x, y = rot2(za, x, y)
	z, x = rot2(ya, z, x)
	y, z = rot2(xa, y, z)
	v.Rot = v.Rot.Mul3(mgl64.Mat3FromRows(x, y, z))
}

// Orient3 replaces the rotation with one keeping the object z axis vertical
// on screen. theta tilts the z axis toward the viewer; phi turns the object
// about it.
func (v *View) Orient3(phi, theta float64) {
	x, y, z := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}
	y, z = rot2(theta, y, z)
	z, x = rot2(phi, z, x)
	v.Rot = mgl64.Mat3FromRows(x, z.Mul(-1), y).Transpose()
}

// LookAt points the viewer from eye at center. With perspective the camera
// sits at eye, otherwise at infinity along the same direction.
func (v *View) LookAt(eye, center, up mgl64.Vec3, perspective bool) {
	v.Rot = mgl64.LookAtV(eye, center, up).Mat3()
	v.Origin = center
	v.ZC = 0
	if perspective {
		v.ZC = eye.Sub(center).Len()
	}
}

// Transform returns p in viewer coordinates before any perspective divide.
func (v *View) Transform(p mgl64.Vec3) mgl64.Vec3 {
	return v.Rot.Mul3x1(p.Sub(v.Origin))
}

// Project implements Projector. With a finite camera the coordinates are
// divided by the distance to the camera, clamped away from zero.
func (v *View) Project(points []mgl64.Vec3, withDepth bool) (x, y, z []float64) {
	x = make([]float64, len(points))
	y = make([]float64, len(points))
	if withDepth {
		z = make([]float64, len(points))
	}
	for i, p := range points {
		q := v.Transform(p)
		if v.ZC != 0 {
			d := math.Max(v.ZC-q[2], 1e-35)
			q = q.Mul(1 / d)
		}
		x[i], y[i] = q[0], q[1]
		if withDepth {
			z[i] = q[2]
		}
	}
	return x, y, z
}

// Direction is the unit vector, in object coordinates, pointing from the
// scene toward a camera at infinity.
func (v *View) Direction() mgl64.Vec3 {
	return v.Rot.Row(2)
}
