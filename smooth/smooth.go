// Package smooth reduces landmark jitter from the pose estimator by running a
// constant velocity Kalman filter on every joint of a single subject.
package smooth

import (
	"github.com/swdee/go-posecoach"
	"gonum.org/v1/gonum/mat"
	"sync"
)

const (
	// DefaultStdPosition is the default position noise
	DefaultStdPosition = 0.01
	// DefaultStdVelocity is the default velocity noise
	DefaultStdVelocity = 0.005
)

// track is the filter state of one joint
type track struct {
	mean StateMean
	cov  *StateCov
}

// Smoother filters successive joint sets of one subject
type Smoother struct {
	kf     *KalmanFilter
	tracks []track
	sync.Mutex
}

// New returns a Smoother using the given noise parameters
func New(stdPosition, stdVelocity float64) *Smoother {
	return &Smoother{
		kf: NewKalmanFilter(stdPosition, stdVelocity),
	}
}

// NewDefault returns a Smoother using the default noise parameters
func NewDefault() *Smoother {
	return New(DefaultStdPosition, DefaultStdVelocity)
}

// Reset drops the filter state, the next joint set passes through unchanged
func (s *Smoother) Reset() {
	s.Lock()
	defer s.Unlock()

	s.tracks = nil
}

// Apply returns a smoothed copy of the joint set.  Visibility is passed
// through unchanged.  Joint sets without the full landmark layout are
// returned as is
func (s *Smoother) Apply(js posecoach.JointSet) posecoach.JointSet {

	if !js.Valid() {
		return js
	}

	s.Lock()
	defer s.Unlock()

	out := js.Clone()

	// first frame starts the tracks
	if len(s.tracks) != len(js) {
		s.tracks = make([]track, len(js))

		for i, j := range js {
			t := track{
				mean: make(StateMean, sdim),
				cov:  &StateCov{mat.NewDense(sdim, sdim, nil)},
			}

			s.kf.Initiate(t.mean, t.cov, []float64{j.X, j.Y, j.Z})
			s.tracks[i] = t
		}

		return out
	}

	for i, j := range js {
		t := &s.tracks[i]
		meas := []float64{j.X, j.Y, j.Z}

		s.kf.Predict(t.mean, t.cov)

		if err := s.kf.Update(t.mean, t.cov, meas); err != nil {
			// restart the joint on a degenerate covariance
			t.cov = &StateCov{mat.NewDense(sdim, sdim, nil)}
			s.kf.Initiate(t.mean, t.cov, meas)
		}

		out[i].X = t.mean[0]
		out[i].Y = t.mean[1]
		out[i].Z = t.mean[2]
	}

	return out
}
