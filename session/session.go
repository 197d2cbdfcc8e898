// Package session turns a stream of per frame pose labels into progress on a
// motion.  A session waits for the ready pose, debounces noisy labels with a
// majority vote and then either times a held posture or counts repetitions
// of a step sequence.
package session

import (
	"fmt"
	"github.com/swdee/go-posecoach/motion"
	"math"
)

const (
	// bufferSize is the number of recent labels voting on the stable label
	bufferSize = 8
	// MinConfidence is the lowest classifier confidence that can advance a
	// session
	MinConfidence = 0.45
	// MaxScore is the score of a completed session
	MaxScore = 20
	// minMilestoneStep is the smallest gap in seconds between hold milestones
	minMilestoneStep = 5
)

// State of a session
type State int

const (
	AwaitingReady State = iota
	Active
	Done
)

// String returns the state name
func (s State) String() string {
	switch s {
	case AwaitingReady:
		return "awaiting-ready"
	case Active:
		return "active"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mode is how a motion is completed
type Mode int

const (
	// Sequence motions complete after repeating their step sequence
	Sequence Mode = iota
	// Hold motions complete after holding the target step for the goal time
	Hold
)

// String returns the mode name
func (m Mode) String() string {
	if m == Hold {
		return "hold"
	}
	return "sequence"
}

// EventKind identifies a notification emitted by Update
type EventKind int

const (
	// EventReady is emitted once, on the first frame processed after the
	// ready pose was detected
	EventReady EventKind = iota
	// EventMilestone is emitted when a hold crosses a milestone
	EventMilestone
	// EventCycle is emitted when a repetition completes
	EventCycle
	// EventComplete is emitted when the session is done
	EventComplete
)

// String returns the event kind name
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventMilestone:
		return "milestone"
	case EventCycle:
		return "cycle"
	case EventComplete:
		return "complete"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a one off notification for display
type Event struct {
	Kind    EventKind
	Message string
	// Seconds is the hold milestone crossed
	Seconds float64
	// Cycles is the number of repetitions completed
	Cycles int
}

// Outcome summarizes a session for recording
type Outcome struct {
	MotionID    int
	Score       int
	HoldSeconds float64
	Cycles      int
	Done        bool
}

// Session tracks progress through one practice attempt.  It is not safe for
// concurrent use, Update must be called from a single frame loop
type Session struct {
	motion motion.Motion
	known  bool
	// holdGoal in seconds, zero for sequence motions
	holdGoal float64
	// milestones in ascending order, hold motions only
	milestones []float64
	fired      map[float64]bool

	seqIdx   int
	cycles   int
	score    int
	done     bool
	lastStep string

	label      string
	confidence float64

	holding   bool
	holdStart float64
	holdSec   float64

	// recent raw labels, oldest first
	buffer []string

	readyDetected  bool
	readyAnnounced bool
}

// New returns a session for the catalog motion.  A holdGoal above zero
// overrides the motion's own goal.  An unknown motion id returns a session
// whose Update does nothing
func New(motionID int, holdGoal float64) *Session {
	m, ok := motion.Lookup(motionID)

	if !ok {
		return &Session{
			motion: motion.Motion{ID: motionID},
			fired:  make(map[float64]bool),
		}
	}

	return NewFor(m, holdGoal)
}

// NewFor returns a session for the given motion definition
func NewFor(m motion.Motion, holdGoal float64) *Session {
	s := &Session{
		motion: m,
		known:  len(m.Sequence) > 0,
		fired:  make(map[float64]bool),
	}

	if m.HoldMode {
		s.holdGoal = m.Goal()

		if holdGoal > 0 {
			s.holdGoal = holdGoal
		}

		s.milestones = milestones(s.holdGoal)
	}

	return s
}

// milestones returns the hold checkpoints, every step seconds up to the goal
// plus the goal itself
func milestones(goal float64) []float64 {
	step := math.Max(minMilestoneStep, math.Round(goal/3))

	var out []float64

	for sec := step; sec <= goal; sec += step {
		out = append(out, sec)
	}

	if len(out) == 0 || out[len(out)-1] != goal {
		out = append(out, goal)
	}

	return out
}

// Reset returns the session to its initial state keeping the motion and
// hold goal
func (s *Session) Reset() {
	s.seqIdx = 0
	s.cycles = 0
	s.score = 0
	s.done = false
	s.lastStep = ""
	s.label = ""
	s.confidence = 0
	s.holding = false
	s.holdStart = 0
	s.holdSec = 0
	s.buffer = s.buffer[:0]
	s.fired = make(map[float64]bool)
	s.readyDetected = false
	s.readyAnnounced = false
}

// Update feeds the label classified for a frame at time now in seconds and
// returns the events it caused.  Frames with an empty label, a confidence
// below MinConfidence (or NaN) or without a majority label in the recent
// window do not change progress
func (s *Session) Update(label string, confidence float64, now float64) []Event {

	if !s.known {
		return nil
	}

	s.label = label
	s.confidence = confidence

	if label == "" || s.done {
		return nil
	}

	stable, ok := s.stabilize(label)

	if !ok || !(confidence >= MinConfidence) {
		return nil
	}

	if stable == motion.ReadyPose {
		s.readyDetected = true

		// stepping back to ready abandons the hold in progress
		if s.motion.HoldMode {
			s.stopHold()
		}

		return nil
	}

	if !s.readyDetected {
		return nil
	}

	var events []Event

	if !s.readyAnnounced {
		s.readyAnnounced = true
		events = append(events, Event{Kind: EventReady, Message: "Ready! Start the motion"})
	}

	if s.motion.HoldMode {
		return s.updateHold(stable, now, events)
	}

	return s.updateSequence(stable, events)
}

// stabilize adds the label to the buffer and returns the majority label.  On
// equal counts the label seen first in the buffer wins.  ok is false when the
// majority holds less than half of the buffer
func (s *Session) stabilize(label string) (string, bool) {

	s.buffer = append(s.buffer, label)

	if len(s.buffer) > bufferSize {
		s.buffer = s.buffer[1:]
	}

	counts := make(map[string]int, len(s.buffer))
	best, top := "", 0

	for _, l := range s.buffer {
		counts[l]++
	}

	for _, l := range s.buffer {
		if counts[l] > top {
			best, top = l, counts[l]
		}
	}

	if float64(top) < float64(len(s.buffer))*0.5 {
		return "", false
	}

	return best, true
}

// updateHold times the target posture
func (s *Session) updateHold(stable string, now float64, events []Event) []Event {

	if stable != s.motion.Sequence[0] {
		s.stopHold()
		return events
	}

	if math.IsNaN(now) || math.IsInf(now, 0) {
		return events
	}

	// a clock stepping backwards restarts the hold
	if !s.holding || now < s.holdStart {
		s.holding = true
		s.holdStart = now
	}

	s.holdSec = now - s.holdStart

	for _, sec := range s.milestones {
		if s.holdSec < sec || s.fired[sec] {
			continue
		}

		s.fired[sec] = true

		if sec >= s.holdGoal {
			events = append(events, Event{
				Kind:    EventComplete,
				Message: fmt.Sprintf("%gs reached!", sec),
				Seconds: sec,
				Cycles:  1,
			})
		} else {
			events = append(events, Event{
				Kind:    EventMilestone,
				Message: fmt.Sprintf("%gs!", sec),
				Seconds: sec,
			})
		}
	}

	if s.holdSec >= s.holdGoal {
		s.cycles = 1
		s.score = MaxScore
		s.done = true
		return events
	}

	s.score = int(math.Max(0, math.Min(MaxScore, math.Floor(MaxScore*s.holdSec/s.holdGoal))))
	return events
}

// stopHold clears the running hold timer
func (s *Session) stopHold() {
	s.holding = false
	s.holdStart = 0
	s.holdSec = 0
}

// updateSequence advances through the step sequence counting repetitions
func (s *Session) updateSequence(stable string, events []Event) []Event {

	seq := s.motion.Sequence

	if stable != seq[s.seqIdx] || stable == s.lastStep {
		return events
	}

	s.lastStep = stable
	s.seqIdx++

	if s.seqIdx < len(seq) {
		return events
	}

	s.cycles++
	s.seqIdx = 0
	s.lastStep = ""

	if s.cycles >= s.motion.TargetCycles {
		s.done = true
		s.score = MaxScore

		return append(events, Event{
			Kind:    EventComplete,
			Message: fmt.Sprintf("%d reps reached!", s.motion.TargetCycles),
			Cycles:  s.cycles,
		})
	}

	s.score = MaxScore * s.cycles / s.motion.TargetCycles

	return append(events, Event{
		Kind:    EventCycle,
		Message: fmt.Sprintf("%d reps done!", s.cycles),
		Cycles:  s.cycles,
	})
}

// Expected returns the label the session is waiting for.  This is the ready
// pose until it has been detected, then the next step of the sequence, or an
// empty string once done
func (s *Session) Expected() string {
	switch {
	case !s.known || s.done:
		return ""
	case !s.readyDetected:
		return motion.ReadyPose
	}

	return s.motion.Sequence[s.seqIdx]
}

// State returns the lifecycle state
func (s *Session) State() State {
	switch {
	case s.done:
		return Done
	case s.readyDetected:
		return Active
	}
	return AwaitingReady
}

// Mode returns how the motion completes
func (s *Session) Mode() Mode {
	if s.motion.HoldMode {
		return Hold
	}
	return Sequence
}

// Known reports whether the session is bound to a catalog motion
func (s *Session) Known() bool {
	return s.known
}

// Motion returns the motion definition
func (s *Session) Motion() motion.Motion {
	return s.motion
}

// MotionID returns the id of the bound motion
func (s *Session) MotionID() int {
	return s.motion.ID
}

// HoldGoal returns the effective hold goal in seconds, zero for sequence
// motions
func (s *Session) HoldGoal() float64 {
	return s.holdGoal
}

// Score returns the score from 0 to MaxScore
func (s *Session) Score() int {
	return s.score
}

// CyclesDone returns the completed repetitions
func (s *Session) CyclesDone() int {
	return s.cycles
}

// Done reports whether the session completed
func (s *Session) Done() bool {
	return s.done
}

// HoldSeconds returns the elapsed time of the current hold
func (s *Session) HoldSeconds() float64 {
	return s.holdSec
}

// SeqIndex returns the index of the next expected sequence step
func (s *Session) SeqIndex() int {
	return s.seqIdx
}

// ReadyDetected reports whether the ready pose has been seen
func (s *Session) ReadyDetected() bool {
	return s.readyDetected
}

// CurrentLabel returns the label of the last frame
func (s *Session) CurrentLabel() string {
	return s.label
}

// Confidence returns the confidence of the last frame
func (s *Session) Confidence() float64 {
	return s.confidence
}

// Outcome returns the session summary
func (s *Session) Outcome() Outcome {
	return Outcome{
		MotionID:    s.motion.ID,
		Score:       s.score,
		HoldSeconds: s.holdSec,
		Cycles:      s.cycles,
		Done:        s.done,
	}
}
