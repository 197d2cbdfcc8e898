// Package feedback scores a pose against the geometric checkpoints of a
// motion and reports which checks pass along with a corrective message for
// each one.
package feedback

import (
	"fmt"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/history"
	"math"
	"sync"
)

const (
	// msgNoPose is the summary when the joint set is incomplete
	msgNoPose = "cannot detect pose"
	// msgUnknownMotion is the summary for a motion without a rule set
	msgUnknownMotion = "unknown motion"
)

// Check is the outcome of a single checkpoint
type Check struct {
	Name    string
	Passed  bool
	Message string
	// Priority orders checks for display, 1 is shown first
	Priority int
}

// Result is the evaluation of one frame against a motion
type Result struct {
	Checks []Check
	// OverallScore is the percentage of checks passed, 0 to 100
	OverallScore   int
	SummaryMessage string
	AllPassed      bool
}

// History provides the temporal queries used by dynamic motions.  A nil
// History makes every temporal check fail
type History interface {
	XMovement(joint int) float64
	WristDistanceRange() history.Range
	WristAlternationCount() int
}

// RuleSet holds the checks of one motion
type RuleSet struct {
	// Checks evaluates a validated joint set.  Thresholds should be relative
	// to the subject's shoulder width
	Checks func(js posecoach.JointSet, h History) []Check
	// Complete is the summary message used when every check passes
	Complete string
}

// Evaluator dispatches evaluation to the rule set registered for a motion
type Evaluator struct {
	rules map[int]RuleSet
	sync.RWMutex
}

// NewEvaluator returns an Evaluator with the rule sets of the built in
// motion catalog registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		rules: make(map[int]RuleSet),
	}

	for id, rs := range builtin {
		e.rules[id] = rs
	}

	return e
}

// Register sets the rule set for a motion, replacing any existing one
func (e *Evaluator) Register(motionID int, rs RuleSet) {
	e.Lock()
	defer e.Unlock()

	e.rules[motionID] = rs
}

// Has reports whether a rule set exists for the motion
func (e *Evaluator) Has(motionID int) bool {
	e.RLock()
	defer e.RUnlock()

	_, ok := e.rules[motionID]
	return ok
}

// Evaluate scores the joint set against the motion's rule set.  Incomplete
// joint sets and unknown motions return a zero score result rather than an
// error
func (e *Evaluator) Evaluate(motionID int, js posecoach.JointSet, h History) Result {

	if !js.Valid() {
		return Result{SummaryMessage: msgNoPose}
	}

	e.RLock()
	rs, ok := e.rules[motionID]
	e.RUnlock()

	if !ok || rs.Checks == nil {
		return Result{SummaryMessage: msgUnknownMotion}
	}

	return summarize(rs.Checks(js, h), rs.Complete)
}

// summarize builds the result from a list of checks
func summarize(checks []Check, complete string) Result {

	if len(checks) == 0 {
		return Result{Checks: checks}
	}

	passed := 0

	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	res := Result{
		Checks:       checks,
		OverallScore: int(math.Round(100 * float64(passed) / float64(len(checks)))),
		AllPassed:    passed == len(checks),
	}

	if res.AllPassed {
		res.SummaryMessage = complete
	} else {
		res.SummaryMessage = fmt.Sprintf("%d/%d complete", passed, len(checks))
	}

	return res
}

// check returns a Check with the message picked by outcome
func check(name string, priority int, passed bool, ok, fix string) Check {
	msg := fix

	if passed {
		msg = ok
	}

	return Check{Name: name, Passed: passed, Message: msg, Priority: priority}
}

// defaultEvaluator serves the package level Evaluate
var defaultEvaluator = NewEvaluator()

// Evaluate scores the joint set using the built in rule sets
func Evaluate(motionID int, js posecoach.JointSet, h History) Result {
	return defaultEvaluator.Evaluate(motionID, js, h)
}
