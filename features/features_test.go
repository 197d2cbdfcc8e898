package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-posecoach"
)

// standingPose returns a front facing standing pose with arms at the sides
func standingPose() posecoach.JointSet {
	js := make(posecoach.JointSet, posecoach.NumJoints)

	for i := range js {
		js[i] = posecoach.Joint{X: 0.5, Y: 0.5, Z: 0, Visibility: 1}
	}

	js[posecoach.Nose] = posecoach.Joint{X: 0.5, Y: 0.20, Visibility: 1}
	js[posecoach.LeftShoulder] = posecoach.Joint{X: 0.60, Y: 0.30, Visibility: 1}
	js[posecoach.RightShoulder] = posecoach.Joint{X: 0.40, Y: 0.30, Visibility: 1}
	js[posecoach.LeftElbow] = posecoach.Joint{X: 0.62, Y: 0.42, Visibility: 1}
	js[posecoach.RightElbow] = posecoach.Joint{X: 0.38, Y: 0.42, Visibility: 1}
	js[posecoach.LeftWrist] = posecoach.Joint{X: 0.63, Y: 0.54, Visibility: 1}
	js[posecoach.RightWrist] = posecoach.Joint{X: 0.37, Y: 0.54, Visibility: 1}
	js[posecoach.LeftHip] = posecoach.Joint{X: 0.56, Y: 0.60, Visibility: 1}
	js[posecoach.RightHip] = posecoach.Joint{X: 0.44, Y: 0.60, Visibility: 1}
	js[posecoach.LeftKnee] = posecoach.Joint{X: 0.56, Y: 0.78, Visibility: 1}
	js[posecoach.RightKnee] = posecoach.Joint{X: 0.44, Y: 0.78, Visibility: 1}
	js[posecoach.LeftAnkle] = posecoach.Joint{X: 0.56, Y: 0.95, Visibility: 1}
	js[posecoach.RightAnkle] = posecoach.Joint{X: 0.44, Y: 0.95, Visibility: 1}

	return js
}

func TestExtractShape(t *testing.T) {
	v := Extract(standingPose())

	require.Len(t, v, Size)
	assert.Equal(t, 114, Size)
	assert.True(t, v.Valid())
}

func TestExtractDeterministic(t *testing.T) {
	js := standingPose()

	a := Extract(js)
	b := Extract(js)

	for i := range a {
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]), "index %d", i)
	}
}

func TestExtractNormalization(t *testing.T) {
	js := standingPose()
	v := Extract(js)

	// hip center maps to the origin so the hips are mirrored around it
	lh := v[posecoach.LeftHip*3 : posecoach.LeftHip*3+3]
	rh := v[posecoach.RightHip*3 : posecoach.RightHip*3+3]

	assert.InDelta(t, 0, lh[0]+rh[0], 1e-9)
	assert.InDelta(t, 0, lh[1], 1e-9)

	// shoulders are one unit apart after scaling
	ls := v[posecoach.LeftShoulder*3 : posecoach.LeftShoulder*3+3]
	rs := v[posecoach.RightShoulder*3 : posecoach.RightShoulder*3+3]

	assert.InDelta(t, 1.0, ls[0]-rs[0], 1e-9)

	// an upright torso has no lean
	assert.InDelta(t, 0, v[Size-1], 1e-9)

	// angles are normalized into 0..1
	for i := CoordLen; i < CoordLen+AngleLen; i++ {
		assert.GreaterOrEqual(t, v[i], 0.0)
		assert.LessOrEqual(t, v[i], 1.0)
	}
}

func TestExtractScaleInvariant(t *testing.T) {
	js := standingPose()
	small := js.Clone()

	// shrink the subject around the hip center as if standing further away
	for i := range small {
		small[i].X = 0.5 + (small[i].X-0.5)*0.5
		small[i].Y = 0.6 + (small[i].Y-0.6)*0.5
	}

	a := Extract(js)
	b := Extract(small)

	for i := range a {
		assert.InDelta(t, a[i], b[i], 1e-9, "index %d", i)
	}
}

func TestExtractCoincidentShoulders(t *testing.T) {
	js := standingPose()
	js[posecoach.RightShoulder] = js[posecoach.LeftShoulder]

	v := Extract(js)

	require.Len(t, v, Size)
	assert.True(t, v.Valid())
}
