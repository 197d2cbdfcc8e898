package feedback

import (
	"github.com/swdee/go-posecoach"
	"math"
)

const (
	// readyTilt is the maximum shoulder height difference in shoulder widths
	readyTilt = 0.15
	// readyMinShoulder is the minimum normalized shoulder width of a subject
	// facing the camera at a usable distance
	readyMinShoulder = 0.08
)

// Readiness is the result of the ready pose check
type Readiness struct {
	Ready   bool
	Message string
}

// ReadyPose checks the subject faces the camera with level shoulders and
// both arms relaxed below the shoulders.  When not ready the message names
// the first failing condition
func ReadyPose(js posecoach.JointSet) Readiness {

	if !js.Valid() {
		return Readiness{Message: msgNoPose}
	}

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()

	tilt := math.Abs(js[posecoach.LeftShoulder].Y - js[posecoach.RightShoulder].Y)
	level := tilt < sw*readyTilt

	relaxed := js[posecoach.LeftWrist].Y > sMid.Y && js[posecoach.RightWrist].Y > sMid.Y
	facing := sw > readyMinShoulder

	switch {
	case !facing:
		return Readiness{Message: "Face the camera"}
	case !level:
		return Readiness{Message: "Keep your shoulders level"}
	case !relaxed:
		return Readiness{Message: "Relax both arms down"}
	}

	return Readiness{Ready: true, Message: "Ready! Start the motion"}
}
