package coach

import (
	"fmt"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/feedback"
	"github.com/swdee/go-posecoach/features"
	"github.com/swdee/go-posecoach/history"
	"github.com/swdee/go-posecoach/knn"
	"github.com/swdee/go-posecoach/motion"
	"github.com/swdee/go-posecoach/session"
	"github.com/swdee/go-posecoach/smooth"
)

// unmatched is the label fed to an instant session for frames matching
// neither the motion nor the ready pose
const unmatched = "unmatched"

// Mode selects how frames are turned into session labels
type Mode int

const (
	// Instant labels frames with the rule based posture checks
	Instant Mode = iota
	// Classifier labels frames with the motion's trained k-NN classifier
	Classifier
)

// String returns the mode name
func (m Mode) String() string {
	if m == Classifier {
		return "classifier"
	}
	return "instant"
}

// ParseMode returns the Mode named s
func ParseMode(s string) (Mode, error) {
	switch s {
	case "instant":
		return Instant, nil
	case "classifier", "knn":
		return Classifier, nil
	}
	return Instant, fmt.Errorf("unknown practice mode %q", s)
}

// FrameResult is the outcome of processing one frame
type FrameResult struct {
	// Joints is the joint set after smoothing
	Joints posecoach.JointSet
	// Feedback is the posture evaluation of the frame
	Feedback feedback.Result
	// Readiness is the ready pose check of the frame
	Readiness feedback.Readiness
	// Prediction is the classifier output, empty in Instant mode
	Prediction knn.Prediction
	// Events raised by the session on this frame
	Events []session.Event
}

// Practice is a single attempt at a motion.  It is not safe for concurrent
// use, Process must be called from one frame loop
type Practice struct {
	coach    *Coach
	mode     Mode
	session  *session.Session
	history  *history.History
	smoother *smooth.Smoother
}

// Start begins practicing a catalog motion.  A holdGoal of zero uses the
// configured hold goal, or the motion's own goal when that is also zero
func (c *Coach) Start(motionID int, mode Mode, holdGoal float64) (*Practice, error) {

	m, ok := motion.Lookup(motionID)

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMotion, motionID)
	}

	if holdGoal <= 0 {
		holdGoal = c.cfg.HoldGoal
	}

	p := &Practice{
		coach:   c,
		mode:    mode,
		session: session.NewFor(m, holdGoal),
		history: history.New(c.cfg.HistorySize),
	}

	if c.cfg.Smoothing {
		p.smoother = smooth.NewDefault()
	}

	if mode == Classifier && !c.Trained(motionID) {
		c.logger.Warn("Classifier not trained, frames will not advance the session",
			"motion", motionID)
	}

	c.logger.Info("Practice started", "motion", motionID, "mode", mode,
		"session", p.session.Mode(), "holdGoal", p.session.HoldGoal())

	return p, nil
}

// Process runs one frame at time now in seconds through the practice.  A
// joint set without the full landmark layout returns an empty result
func (p *Practice) Process(js posecoach.JointSet, now float64) FrameResult {

	if !js.Valid() {
		return FrameResult{}
	}

	if p.smoother != nil {
		js = p.smoother.Apply(js)
	}

	p.history.Add(js)

	id := p.session.MotionID()

	res := FrameResult{
		Joints:    js,
		Feedback:  feedback.Evaluate(id, js, p.history),
		Readiness: feedback.ReadyPose(js),
	}

	switch p.mode {
	case Instant:
		res.Events = p.session.Update(p.instantLabel(res), 1.0, now)

	case Classifier:
		res.Prediction = p.coach.predict(id, features.Extract(js))

		if res.Prediction.Ok() {
			res.Events = p.session.Update(res.Prediction.Label, res.Prediction.Confidence, now)
		}
	}

	return res
}

// instantLabel names the frame from the rule checks.  A frame passing every
// check is the step the session expects, otherwise a frame passing the ready
// check is the ready pose
func (p *Practice) instantLabel(res FrameResult) string {

	seq := p.session.Motion().Sequence

	switch {
	case res.Feedback.AllPassed:
		if p.session.ReadyDetected() {
			return seq[p.session.SeqIndex()]
		}
		return seq[0]

	case res.Readiness.Ready:
		return motion.ReadyPose
	}

	return unmatched
}

// Reset restarts the practice from the ready pose
func (p *Practice) Reset() {
	p.session.Reset()
	p.history.Clear()

	if p.smoother != nil {
		p.smoother.Reset()
	}
}

// Mode returns how frames are labeled
func (p *Practice) Mode() Mode {
	return p.mode
}

// Session returns the practice session
func (p *Practice) Session() *session.Session {
	return p.session
}

// History returns the temporal history of processed frames
func (p *Practice) History() *history.History {
	return p.history
}
