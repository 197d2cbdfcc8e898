package posecoach

import (
	"gonum.org/v1/gonum/spatial/r3"
	"math"
)

// Epsilon is the floor applied to magnitudes used as divisors
const Epsilon = 0.001

// floor returns v or Epsilon when v is smaller
func floor(v float64) float64 {
	if v < Epsilon {
		return Epsilon
	}
	return v
}

// Distance2D returns the distance between two joints ignoring depth
func Distance2D(a, b Joint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Distance3D returns the euclidean distance between two joints
func Distance3D(a, b Joint) float64 {
	return r3.Norm(r3.Sub(a.Vec(), b.Vec()))
}

// Midpoint returns the joint halfway between a and b.  Visibility is the
// lower of the two
func Midpoint(a, b Joint) Joint {
	return Joint{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: math.Min(a.Visibility, b.Visibility),
	}
}

// Angle returns the interior angle in degrees at vertex b formed by the
// segments b->a and b->c
func Angle(a, b, c Joint) float64 {

	ba := r3.Sub(a.Vec(), b.Vec())
	bc := r3.Sub(c.Vec(), b.Vec())

	magA := floor(r3.Norm(ba))
	magC := floor(r3.Norm(bc))

	cos := r3.Dot(ba, bc) / (magA * magC)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// ShoulderWidth returns the 2D distance between the shoulders.  It is the
// unit all posture thresholds are expressed in
func (js JointSet) ShoulderWidth() float64 {
	return floor(Distance2D(js[LeftShoulder], js[RightShoulder]))
}

// ShoulderMid returns the point between the shoulders
func (js JointSet) ShoulderMid() Joint {
	return Midpoint(js[LeftShoulder], js[RightShoulder])
}

// HipMid returns the point between the hips
func (js JointSet) HipMid() Joint {
	return Midpoint(js[LeftHip], js[RightHip])
}

// TorsoLean returns the angle in degrees between the shoulder to hip line and
// vertical, measured in the image plane
func (js JointSet) TorsoLean() float64 {
	sh := js.ShoulderMid()
	hp := js.HipMid()

	return math.Atan2(math.Abs(sh.X-hp.X), math.Abs(sh.Y-hp.Y)) * 180 / math.Pi
}
