package smooth

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
)

const (
	// ndim is the number of measured dimensions, the x,y,z position
	ndim = 3
	// sdim is the state size, position followed by velocity
	sdim = 2 * ndim
)

// StateMean represents a 1x6 state vector of position and velocity
type StateMean []float64

// StateCov represents a 6x6 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// KalmanFilter is a constant velocity Kalman filter for a single landmark
// position
type KalmanFilter struct {
	// stdPosition is the position noise in normalized image units
	stdPosition float64
	// stdVelocity is the velocity noise in normalized image units per frame
	stdVelocity float64
	motionMat   *mat.Dense
	updateMat   *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(stdPosition, stdVelocity float64) *KalmanFilter {

	dt := 1.0

	// create identity matrix for motionMat with the velocity terms added to
	// the positions
	motionMat := mat.NewDense(sdim, sdim, nil)

	for i := 0; i < sdim; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, dt)
	}

	// updateMat selects the position from the state
	updateMat := mat.NewDense(ndim, sdim, nil)

	for i := 0; i < ndim; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		stdPosition: stdPosition,
		stdVelocity: stdVelocity,
		motionMat:   motionMat,
		updateMat:   updateMat,
	}
}

// Initiate initializes the state mean and covariance from a first
// measurement
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement []float64) {

	// position from the measurement, no velocity yet
	copy(mean[:ndim], measurement[:ndim])

	for i := ndim; i < sdim; i++ {
		mean[i] = 0.0
	}

	for i := 0; i < ndim; i++ {
		pos := 2 * kf.stdPosition
		vel := 10 * kf.stdVelocity

		covariance.Set(i, i, pos*pos)
		covariance.Set(ndim+i, ndim+i, vel*vel)
	}
}

// Predict predicts the next state mean and covariance
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	// create the motion covariance matrix with variances on the diagonal
	motionCov := mat.NewDense(sdim, sdim, nil)

	for i := 0; i < ndim; i++ {
		motionCov.Set(i, i, kf.stdPosition*kf.stdPosition)
		motionCov.Set(ndim+i, ndim+i, kf.stdVelocity*kf.stdVelocity)
	}

	// predict the next state mean using the motion model
	meanVec := mat.NewVecDense(sdim, nil)
	meanVec.MulVec(kf.motionMat, mat.NewVecDense(sdim, append([]float64(nil), mean...)))

	for i := 0; i < sdim; i++ {
		mean[i] = meanVec.AtVec(i)
	}

	// predict the next state covariance using the motion model
	tmp := mat.NewDense(sdim, sdim, nil)
	tmp.Mul(kf.motionMat, covariance.Dense)

	cov := mat.NewDense(sdim, sdim, nil)
	cov.Mul(tmp, kf.motionMat.T())
	cov.Add(cov, motionCov)

	covariance.Dense = cov
}

// Update corrects the state mean and covariance with a measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement []float64) error {

	// project the state mean and covariance to measurement space
	projectedMean, projectedCov := kf.project(mean, covariance)

	// perform Cholesky factorization of the projected covariance matrix
	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// compute the matrix B for Kalman gain calculation
	B := mat.NewDense(sdim, ndim, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	// compute the transposed Kalman gain using the Cholesky factorization
	var kalmanGain mat.Dense
	err := chol.SolveTo(&kalmanGain, B.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	// compute the innovation (measurement residual)
	innovation := make([]float64, ndim)

	for i := 0; i < ndim; i++ {
		innovation[i] = measurement[i] - projectedMean[i]
	}

	// update the state mean with the innovation
	tmp := mat.NewVecDense(sdim, nil)
	tmp.MulVec(kalmanGain.T(), mat.NewVecDense(ndim, innovation))

	for i := 0; i < sdim; i++ {
		mean[i] += tmp.AtVec(i)
	}

	// update the state covariance
	temp := mat.NewDense(sdim, ndim, nil)
	temp.Mul(kalmanGain.T(), projectedCov)

	temp2 := mat.NewDense(sdim, sdim, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(sdim, sdim, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project projects the state mean and covariance to measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) ([]float64, *mat.SymDense) {

	// measurement noise
	innovationCov := mat.NewSymDense(ndim, nil)

	for i := 0; i < ndim; i++ {
		innovationCov.SetSym(i, i, kf.stdPosition*kf.stdPosition)
	}

	// project the state mean to measurement space
	projectedMeanVec := mat.NewVecDense(ndim, nil)
	projectedMeanVec.MulVec(kf.updateMat, mat.NewVecDense(sdim, append([]float64(nil), mean...)))

	// project the state covariance to measurement space
	temp := mat.NewDense(ndim, sdim, nil)
	temp.Mul(kf.updateMat, covariance.Dense)
	temp2 := mat.NewDense(ndim, ndim, nil)
	temp2.Mul(temp, kf.updateMat.T())

	projectedCov := mat.NewSymDense(ndim, nil)

	for i := 0; i < ndim; i++ {
		for j := i; j < ndim; j++ {
			projectedCov.SetSym(i, j, temp2.At(i, j))
		}
	}

	// add the measurement noise to the projected covariance
	projectedCov.AddSym(projectedCov, innovationCov)

	projectedMean := make([]float64, ndim)

	for i := 0; i < ndim; i++ {
		projectedMean[i] = projectedMeanVec.AtVec(i)
	}

	return projectedMean, projectedCov
}
