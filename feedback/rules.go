package feedback

import (
	"github.com/swdee/go-posecoach"
	"math"
)

// thresholds as a factor of shoulder width unless noted otherwise
const (
	helpWristCross   = 0.5
	helpChestBand    = 0.3
	helpElbowMaxDeg  = 100.0
	helpKneeBand     = 0.2
	jellyLeanMinDeg  = 25.0
	jellyHandToKnee  = 0.8
	signalWaveTravel = 0.75
	scullAboveChest  = 0.2
	scullBelowHip    = 0.3
	scullSymmetry    = 0.25
	scullSpreadRange = 0.5
	paddleOffset     = 0.2
	paddleHipBand    = 0.3
	floatSpread      = 2.2
	floatHeightBand  = 0.35
	floatElbowMinDeg = 140.0
)

// builtin rule sets keyed by motion id
var builtin = map[int]RuleSet{
	1: {Checks: helpPosition, Complete: "Perfect HELP position! Hold it"},
	2: {Checks: jellyfishFloat, Complete: "Jellyfish float complete! Hold it"},
	3: {Checks: signalForHelp, Complete: "Good! Wave big to signal for help"},
	4: {Checks: sculling, Complete: "Good sculling! Keep the rhythm"},
	5: {Checks: dogPaddle, Complete: "Good dog paddle! Keep alternating"},
	6: {Checks: backFloat, Complete: "Star float complete! Hold it"},
}

// helpPosition checks arms crossed on the chest with knees pulled up
func helpPosition(js posecoach.JointSet, _ History) []Check {

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()
	hMid := js.HipMid()

	lw := js[posecoach.LeftWrist]
	rw := js[posecoach.RightWrist]

	crossed := posecoach.Distance2D(lw, rw) < sw*helpWristCross
	atChest := func(w posecoach.Joint) bool {
		return w.Y > sMid.Y-sw*helpChestBand && w.Y < hMid.Y+sw*helpChestBand
	}
	armsCrossed := crossed && atChest(lw) && atChest(rw)

	leftElbow := posecoach.Angle(js[posecoach.LeftShoulder], js[posecoach.LeftElbow], lw)
	rightElbow := posecoach.Angle(js[posecoach.RightShoulder], js[posecoach.RightElbow], rw)
	elbowsBent := leftElbow < helpElbowMaxDeg && rightElbow < helpElbowMaxDeg

	kneeMid := posecoach.Midpoint(js[posecoach.LeftKnee], js[posecoach.RightKnee])
	kneesRaised := kneeMid.Y < hMid.Y+sw*helpKneeBand

	return []Check{
		check("arms crossed", 1, armsCrossed,
			"Arms are crossed in front of the chest",
			"Cross both arms in front of your chest"),
		check("elbows bent", 2, elbowsBent,
			"Arms are folded well",
			"Fold your arms more and press them to your chest"),
		check("knees raised", 3, kneesRaised,
			"Knees are raised",
			"Pull your knees up towards your chest"),
	}
}

// jellyfishFloat checks a forward curl with the hands wrapped around the knees
func jellyfishFloat(js posecoach.JointSet, _ History) []Check {

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()

	leaned := js.TorsoLean() > jellyLeanMinDeg
	headDown := js[posecoach.Nose].Y > sMid.Y

	kneeMid := posecoach.Midpoint(js[posecoach.LeftKnee], js[posecoach.RightKnee])
	handsOnKnees := posecoach.Distance2D(js[posecoach.LeftWrist], kneeMid) < sw*jellyHandToKnee &&
		posecoach.Distance2D(js[posecoach.RightWrist], kneeMid) < sw*jellyHandToKnee

	return []Check{
		check("lean forward", 1, leaned,
			"Upper body is leaning forward",
			"Lean your upper body further forward"),
		check("head down", 2, headDown,
			"Head is tucked down",
			"Tuck your head down"),
		check("hold knees", 3, handsOnKnees,
			"Both hands are near the knees",
			"Wrap both hands around your knees"),
	}
}

// signalForHelp checks a single raised arm waving side to side
func signalForHelp(js posecoach.JointSet, h History) []Check {

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()
	nose := js[posecoach.Nose]

	lw := js[posecoach.LeftWrist]
	rw := js[posecoach.RightWrist]

	leftUp := lw.Y < nose.Y
	rightUp := rw.Y < nose.Y
	anyUp := leftUp || rightUp

	// exactly one wrist above the nose and the other below the shoulder line
	var otherDown bool
	var otherMsg string

	switch {
	case leftUp && rightUp:
		otherMsg = "Lower the other arm, raise only one"
	case leftUp:
		otherDown = rw.Y > sMid.Y
	case rightUp:
		otherDown = lw.Y > sMid.Y
	default:
		otherMsg = "Raise only one arm"
	}

	if otherDown {
		otherMsg = "Only one arm is raised"
	} else if otherMsg == "" {
		otherMsg = "Keep the other arm below your shoulder"
	}

	waving := false

	if h != nil && anyUp {
		raised := posecoach.RightWrist

		if leftUp {
			raised = posecoach.LeftWrist
		}

		waving = h.XMovement(raised) > sw*signalWaveTravel
	}

	return []Check{
		check("raise arm", 1, anyUp,
			"Arm is raised above the head",
			"Raise one arm high above your head"),
		{Name: "other arm down", Passed: otherDown, Message: otherMsg, Priority: 2},
		check("wave", 3, waving,
			"Arm is waving side to side",
			"Wave the raised arm widely side to side"),
	}
}

// sculling checks symmetric arms between chest and waist spreading and
// gathering over time
func sculling(js posecoach.JointSet, h History) []Check {

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()
	hMid := js.HipMid()

	lw := js[posecoach.LeftWrist]
	rw := js[posecoach.RightWrist]

	inBand := func(w posecoach.Joint) bool {
		return w.Y > sMid.Y-sw*scullAboveChest && w.Y < hMid.Y+sw*scullBelowHip
	}
	height := inBand(lw) && inBand(rw)

	symmetric := math.Abs(lw.Y-rw.Y) < sw*scullSymmetry

	moving := false

	if h != nil {
		moving = h.WristDistanceRange().Range > sw*scullSpreadRange
	}

	return []Check{
		check("arm height", 1, height,
			"Arms are at the right height",
			"Keep your arms between waist and chest height"),
		check("arm symmetry", 2, symmetric,
			"Both arms are level",
			"Level both arms"),
		check("spread and gather", 3, moving,
			"Good sculling motion",
			"Keep spreading and gathering your arms"),
	}
}

// dogPaddle checks one arm reaching high while the other pulls down,
// alternating over time
func dogPaddle(js posecoach.JointSet, h History) []Check {

	sw := js.ShoulderWidth()
	sMid := js.ShoulderMid()
	hMid := js.HipMid()

	lw := js[posecoach.LeftWrist]
	rw := js[posecoach.RightWrist]

	offset := math.Abs(lw.Y-rw.Y) > sw*paddleOffset

	upper, lower := rw, lw

	if lw.Y < rw.Y {
		upper, lower = lw, rw
	}

	reaching := upper.Y < sMid.Y
	pulling := lower.Y > hMid.Y-sw*paddleHipBand

	alternating := false

	if h != nil {
		alternating = h.WristAlternationCount() >= 1
	}

	return []Check{
		check("arms offset", 1, offset,
			"Arms are moving in turn",
			"Move your arms up and down in turn"),
		check("reach", 2, reaching,
			"Arm is reaching well",
			"Reach your arm higher"),
		check("pull", 3, pulling,
			"Arm is pulling well",
			"Pull down as if pushing the water away"),
		check("alternate", 4, alternating,
			"Arms keep alternating",
			"Keep alternating your arms"),
	}
}

// backFloat checks straight arms spread at shoulder height
func backFloat(js posecoach.JointSet, _ History) []Check {

	sw := js.ShoulderWidth()

	ls := js[posecoach.LeftShoulder]
	rs := js[posecoach.RightShoulder]
	lw := js[posecoach.LeftWrist]
	rw := js[posecoach.RightWrist]

	spread := posecoach.Distance2D(lw, rw) > sw*floatSpread

	height := math.Abs(lw.Y-ls.Y) < sw*floatHeightBand &&
		math.Abs(rw.Y-rs.Y) < sw*floatHeightBand

	straight := posecoach.Angle(ls, js[posecoach.LeftElbow], lw) > floatElbowMinDeg &&
		posecoach.Angle(rs, js[posecoach.RightElbow], rw) > floatElbowMinDeg

	return []Check{
		check("spread arms", 1, spread,
			"Arms are spread wide",
			"Spread your arms further out to the sides"),
		check("arm height", 2, height,
			"Arms are at shoulder height",
			"Bring your arms to shoulder height"),
		check("straight elbows", 3, straight,
			"Elbows are straight",
			"Straighten your elbows"),
	}
}
