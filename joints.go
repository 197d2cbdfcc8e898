package posecoach

import (
	"gonum.org/v1/gonum/spatial/r3"
)

/* pose landmarks, 33 point body model
0: Nose
1-10: Eyes, Ears, Mouth
11: Left Shoulder
12: Right Shoulder
13: Left Elbow
14: Right Elbow
15: Left Wrist
16: Right Wrist
17-22: Hands
23: Left Hip
24: Right Hip
25: Left Knee
26: Right Knee
27: Left Ankle
28: Right Ankle
29-32: Feet
*/

const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	// NumJoints is the number of landmarks every JointSet must carry
	NumJoints = 33
)

// Joint is a single pose landmark in normalized image coordinates.  Y grows
// downwards, so a smaller Y is higher in the frame
type Joint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Vec returns the joint position as a 3D vector
func (j Joint) Vec() r3.Vec {
	return r3.Vec{X: j.X, Y: j.Y, Z: j.Z}
}

// JointSet is one frame of pose landmarks ordered by landmark index
type JointSet []Joint

// Valid reports whether the joint set carries the full landmark layout
func (js JointSet) Valid() bool {
	return len(js) >= NumJoints
}

// Clone returns a copy of the joint set
func (js JointSet) Clone() JointSet {
	if js == nil {
		return nil
	}

	out := make(JointSet, len(js))
	copy(out, js)
	return out
}
