// Package features turns a frame of pose landmarks into a fixed length,
// position and scale normalized descriptor suitable for nearest neighbour
// classification.
package features

import (
	"github.com/swdee/go-posecoach"
	"gonum.org/v1/gonum/spatial/r3"
	"math"
)

const (
	// CoordLen is the number of normalized coordinate values
	CoordLen = posecoach.NumJoints * 3
	// AngleLen is the number of joint angles
	AngleLen = 8
	// DistLen is the number of inter-point distances
	DistLen = 6
	// LeanLen is the number of torso lean values
	LeanLen = 1
	// Size is the total length of a feature Vector
	Size = CoordLen + AngleLen + DistLen + LeanLen
)

// Vector is a feature descriptor of Size values
type Vector []float64

// angleTriples are the (a, vertex, c) landmark triples the joint angles are
// measured at
var angleTriples = [AngleLen][3]int{
	{posecoach.LeftHip, posecoach.LeftShoulder, posecoach.LeftElbow},
	{posecoach.RightHip, posecoach.RightShoulder, posecoach.RightElbow},
	{posecoach.LeftShoulder, posecoach.LeftElbow, posecoach.LeftWrist},
	{posecoach.RightShoulder, posecoach.RightElbow, posecoach.RightWrist},
	{posecoach.LeftElbow, posecoach.LeftShoulder, posecoach.LeftHip},
	{posecoach.RightElbow, posecoach.RightShoulder, posecoach.RightHip},
	{posecoach.LeftShoulder, posecoach.LeftHip, posecoach.LeftKnee},
	{posecoach.RightShoulder, posecoach.RightHip, posecoach.RightKnee},
}

// distPairs are the landmark pairs distances are measured between in
// normalized space.  The nose to left hip distance stands in for nose to
// hip center
var distPairs = [DistLen][2]int{
	{posecoach.LeftWrist, posecoach.RightWrist},
	{posecoach.LeftWrist, posecoach.LeftHip},
	{posecoach.RightWrist, posecoach.RightHip},
	{posecoach.LeftWrist, posecoach.Nose},
	{posecoach.RightWrist, posecoach.Nose},
	{posecoach.Nose, posecoach.LeftHip},
}

// Extract returns the feature Vector for the given joints.  The caller must
// ensure js.Valid() beforehand.  The result is a pure function of the input.
func Extract(js posecoach.JointSet) Vector {

	out := make(Vector, 0, Size)

	// translate so the hip center is the origin
	hip := js.HipMid().Vec()

	// scale by 3D shoulder width
	scale := posecoach.Distance3D(js[posecoach.LeftShoulder], js[posecoach.RightShoulder])

	if scale < posecoach.Epsilon {
		scale = posecoach.Epsilon
	}

	scaled := make([]r3.Vec, posecoach.NumJoints)

	for i := 0; i < posecoach.NumJoints; i++ {
		scaled[i] = r3.Scale(1/scale, r3.Sub(js[i].Vec(), hip))
		out = append(out, scaled[i].X, scaled[i].Y, scaled[i].Z)
	}

	// angles are taken on the untranslated coordinates
	for _, t := range angleTriples {
		out = append(out, posecoach.Angle(js[t[0]], js[t[1]], js[t[2]])/180)
	}

	for _, p := range distPairs {
		out = append(out, r3.Norm(r3.Sub(scaled[p[0]], scaled[p[1]])))
	}

	out = append(out, js.TorsoLean()/90)

	return out
}

// Valid reports whether v has the expected length and holds only finite values
func (v Vector) Valid() bool {
	if len(v) != Size {
		return false
	}

	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}

	return true
}
