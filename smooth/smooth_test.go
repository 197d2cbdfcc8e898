package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-posecoach"
	"gonum.org/v1/gonum/mat"
)

// still returns a joint set with every joint at x,y and a fixed visibility
func still(x, y float64) posecoach.JointSet {
	js := make(posecoach.JointSet, posecoach.NumJoints)

	for i := range js {
		js[i] = posecoach.Joint{X: x, Y: y, Z: -0.1, Visibility: 0.8}
	}

	return js
}

func TestKalmanFilterInitiate(t *testing.T) {
	kf := NewKalmanFilter(0.01, 0.005)

	mean := make(StateMean, sdim)
	cov := &StateCov{mat.NewDense(sdim, sdim, nil)}

	kf.Initiate(mean, cov, []float64{0.5, 0.25, -0.1})

	assert.Equal(t, StateMean{0.5, 0.25, -0.1, 0, 0, 0}, mean)
	assert.InDelta(t, 0.0004, cov.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0025, cov.At(3, 3), 1e-12)
	assert.Equal(t, 0.0, cov.At(0, 3))
}

func TestKalmanFilterTracksVelocity(t *testing.T) {
	kf := NewKalmanFilter(0.01, 0.005)

	mean := make(StateMean, sdim)
	cov := &StateCov{mat.NewDense(sdim, sdim, nil)}

	kf.Initiate(mean, cov, []float64{0, 0.5, 0})

	for i := 1; i <= 60; i++ {
		kf.Predict(mean, cov)
		require.NoError(t, kf.Update(mean, cov, []float64{0.01 * float64(i), 0.5, 0}))
	}

	assert.InDelta(t, 0.6, mean[0], 0.005)
	assert.InDelta(t, 0.01, mean[3], 0.003)
	assert.InDelta(t, 0.0, mean[4], 0.003)
}

func TestApplyFirstFramePassesThrough(t *testing.T) {
	s := NewDefault()

	js := still(0.4, 0.6)
	out := s.Apply(js)

	assert.Equal(t, js, out)

	// the result is a copy
	out[0].X = 1
	assert.Equal(t, 0.4, js[0].X)
}

func TestApplyDampsJump(t *testing.T) {
	s := NewDefault()

	for i := 0; i < 20; i++ {
		s.Apply(still(0.4, 0.6))
	}

	out := s.Apply(still(0.6, 0.6))

	for _, j := range out {
		assert.Greater(t, j.X, 0.4)
		assert.Less(t, j.X, 0.6)
		assert.InDelta(t, 0.6, j.Y, 1e-6)
		assert.Equal(t, 0.8, j.Visibility)
	}
}

func TestApplyConverges(t *testing.T) {
	s := NewDefault()

	s.Apply(still(0.4, 0.6))

	var out posecoach.JointSet

	for i := 0; i < 40; i++ {
		out = s.Apply(still(0.5, 0.5))
	}

	assert.InDelta(t, 0.5, out[posecoach.Nose].X, 0.01)
	assert.InDelta(t, 0.5, out[posecoach.Nose].Y, 0.01)
}

func TestReset(t *testing.T) {
	s := NewDefault()

	s.Apply(still(0.4, 0.6))
	s.Apply(still(0.4, 0.6))
	s.Reset()

	js := still(0.9, 0.1)
	assert.Equal(t, js, s.Apply(js))
}

func TestApplyIgnoresInvalid(t *testing.T) {
	s := NewDefault()

	short := make(posecoach.JointSet, 5)
	assert.Equal(t, short, s.Apply(short))
	assert.Nil(t, s.tracks)
}
