package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/config"
	"github.com/swdee/go-posecoach/journal"
	"github.com/swdee/go-posecoach/logging"
	"github.com/swdee/go-posecoach/motion"
	"github.com/swdee/go-posecoach/session"
	"github.com/swdee/go-posecoach/store"
)

// standing returns a front facing pose with both arms relaxed, which passes
// the ready check
func standing() posecoach.JointSet {
	js := make(posecoach.JointSet, posecoach.NumJoints)

	for i := range js {
		js[i] = posecoach.Joint{X: 0.5, Y: 0.5, Visibility: 1}
	}

	set := func(idx int, x, y float64) {
		js[idx] = posecoach.Joint{X: x, Y: y, Visibility: 1}
	}

	set(posecoach.Nose, 0.5, 0.2)
	set(posecoach.LeftShoulder, 0.6, 0.3)
	set(posecoach.RightShoulder, 0.4, 0.3)
	set(posecoach.LeftElbow, 0.62, 0.42)
	set(posecoach.RightElbow, 0.38, 0.42)
	set(posecoach.LeftWrist, 0.63, 0.54)
	set(posecoach.RightWrist, 0.37, 0.54)
	set(posecoach.LeftHip, 0.56, 0.6)
	set(posecoach.RightHip, 0.44, 0.6)
	set(posecoach.LeftKnee, 0.56, 0.78)
	set(posecoach.RightKnee, 0.44, 0.78)
	set(posecoach.LeftAnkle, 0.56, 0.95)
	set(posecoach.RightAnkle, 0.44, 0.95)

	return js
}

// helpPose returns a pose passing every HELP position check
func helpPose() posecoach.JointSet {
	js := standing()

	js[posecoach.LeftWrist].X, js[posecoach.LeftWrist].Y = 0.48, 0.4
	js[posecoach.RightWrist].X, js[posecoach.RightWrist].Y = 0.52, 0.4
	js[posecoach.LeftElbow].X, js[posecoach.LeftElbow].Y = 0.62, 0.45
	js[posecoach.RightElbow].X, js[posecoach.RightElbow].Y = 0.38, 0.45
	js[posecoach.LeftKnee].X, js[posecoach.LeftKnee].Y = 0.56, 0.55
	js[posecoach.RightKnee].X, js[posecoach.RightKnee].Y = 0.44, 0.55

	return js
}

// armUp returns a pose that is neither ready nor a HELP position
func armUp() posecoach.JointSet {
	js := standing()
	js[posecoach.LeftWrist].Y = 0.1
	return js
}

// process feeds the joint set n times at time now and returns all events
func process(p *Practice, js posecoach.JointSet, n int, now float64) []session.Event {
	var events []session.Event

	for i := 0; i < n; i++ {
		events = append(events, p.Process(js, now).Events...)
	}

	return events
}

// kinds returns the kinds of the events
func kinds(events []session.Event) []session.EventKind {
	var out []session.EventKind

	for _, e := range events {
		out = append(out, e.Kind)
	}

	return out
}

func newCoach(t *testing.T, st store.Store) *Coach {
	t.Helper()

	if st == nil {
		st = store.NewMemory()
	}

	return New(config.Default(), st, logging.Discard())
}

func TestStartUnknownMotion(t *testing.T) {
	c := newCoach(t, nil)

	_, err := c.Start(42, Instant, 0)
	assert.ErrorIs(t, err, ErrUnknownMotion)
}

func TestStartHoldGoal(t *testing.T) {
	cfg := config.Default()
	cfg.HoldGoal = 12

	c := New(cfg, store.NewMemory(), logging.Discard())

	p, err := c.Start(1, Instant, 0)
	require.NoError(t, err)
	assert.Equal(t, 12.0, p.Session().HoldGoal())

	p, err = c.Start(1, Instant, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Session().HoldGoal())

	p, err = c.Start(4, Classifier, 5)
	require.NoError(t, err)
	assert.Equal(t, session.Sequence, p.Session().Mode())
	assert.Equal(t, Classifier, p.Mode())
}

func TestInstantPractice(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := newCoach(t, st)

	p, err := c.Start(1, Instant, 3)
	require.NoError(t, err)

	res := p.Process(standing(), 0)
	assert.True(t, res.Readiness.Ready)
	assert.False(t, res.Feedback.AllPassed)
	assert.Equal(t, 0.0, res.Prediction.Confidence)

	process(p, standing(), 7, 0)
	require.True(t, p.Session().ReadyDetected())

	// four frames tie with the older ready label, the fifth takes over
	events := process(p, helpPose(), 5, 0)
	assert.Equal(t, []session.EventKind{session.EventReady}, kinds(events))

	process(p, helpPose(), 1, 1)
	process(p, helpPose(), 1, 2)
	events = process(p, helpPose(), 1, 3)

	assert.Equal(t, []session.EventKind{session.EventComplete}, kinds(events))
	require.True(t, p.Session().Done())

	entry, err := c.Finish(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, 1, entry.MotionID)
	assert.Equal(t, session.MaxScore, entry.Score)
	assert.Equal(t, 3.0, entry.HoldSeconds)

	// the journal survives a new coach on the same store
	c2 := newCoach(t, st)
	require.NoError(t, c2.LoadJournal(ctx))
	assert.Equal(t, 1, c2.Journal().Len())
}

func TestInstantUnmatchedBreaksHold(t *testing.T) {
	c := newCoach(t, nil)

	p, err := c.Start(1, Instant, 10)
	require.NoError(t, err)

	process(p, standing(), 8, 0)
	process(p, helpPose(), 8, 0)
	process(p, helpPose(), 1, 4)

	assert.Equal(t, 4.0, p.Session().HoldSeconds())

	process(p, armUp(), 8, 5)

	assert.Equal(t, 0.0, p.Session().HoldSeconds())
	assert.False(t, p.Session().Done())
}

func TestFinishNotDone(t *testing.T) {
	c := newCoach(t, nil)

	p, err := c.Start(4, Instant, 0)
	require.NoError(t, err)

	_, err = c.Finish(context.Background(), p)
	assert.ErrorIs(t, err, journal.ErrNotDone)
	assert.Equal(t, 0, c.Journal().Len())
}

func TestInvalidFrame(t *testing.T) {
	c := newCoach(t, nil)

	p, err := c.Start(1, Instant, 0)
	require.NoError(t, err)

	assert.Equal(t, FrameResult{}, p.Process(make(posecoach.JointSet, 12), 0))
	assert.Equal(t, 0, p.History().Len())
}

func TestRecordSample(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := newCoach(t, st)

	for i := 1; i <= 3; i++ {
		n, err := c.RecordSample(ctx, 1, 0, standing())
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	assert.False(t, c.Trained(1))

	n, err := c.RecordSample(ctx, 1, 1, helpPose())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, c.Trained(1))

	counts, err := c.SampleCounts(1)
	require.NoError(t, err)
	assert.Equal(t, motion.ReadyPose, counts[0].Label)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, "help_pose", counts[1].Label)

	_, err = st.Load(ctx, "swim_knn_1")
	assert.NoError(t, err)

	_, err = c.RecordSample(ctx, 42, 0, standing())
	assert.ErrorIs(t, err, ErrUnknownMotion)

	_, err = c.RecordSample(ctx, 1, 9, standing())
	assert.ErrorIs(t, err, ErrUnknownStep)

	_, err = c.RecordSample(ctx, 1, 0, make(posecoach.JointSet, 5))
	assert.ErrorIs(t, err, ErrInvalidPose)
}

func TestDeleteSamples(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := newCoach(t, st)

	_, err := c.RecordSample(ctx, 2, 0, standing())
	require.NoError(t, err)

	require.NoError(t, c.DeleteSamples(ctx, 2))

	counts, err := c.SampleCounts(2)
	require.NoError(t, err)
	assert.Empty(t, counts)

	_, err = st.Load(ctx, "swim_knn_2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, c.DeleteSamples(ctx, 42), ErrUnknownMotion)
}

func TestLoadClassifiers(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := newCoach(t, st)

	_, err := c.RecordSample(ctx, 1, 0, standing())
	require.NoError(t, err)
	_, err = c.RecordSample(ctx, 1, 1, helpPose())
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, "swim_knn_3", []byte("{broken")))

	c2 := newCoach(t, st)
	require.NoError(t, c2.LoadClassifiers(ctx))

	assert.True(t, c2.Trained(1))
	assert.False(t, c2.Trained(3))

	counts, err := c2.SampleCounts(3)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	c := newCoach(t, st)
	other := newCoach(t, st)

	_, err := other.RecordSample(ctx, 5, 0, standing())
	require.NoError(t, err)
	_, err = other.RecordSample(ctx, 5, 1, armUp())
	require.NoError(t, err)

	ok, err := c.Reload(ctx, "swim_knn_5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, c.Trained(5))

	require.NoError(t, other.DeleteSamples(ctx, 5))

	ok, err = c.Reload(ctx, "swim_knn_5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.Trained(5))

	for _, key := range []string{"swim_history", "swim_knn_x", "swim_knn_99"} {
		ok, err = c.Reload(ctx, key)
		assert.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestClassifierPractice(t *testing.T) {
	ctx := context.Background()
	c := newCoach(t, nil)

	for i := 0; i < 3; i++ {
		_, err := c.RecordSample(ctx, 1, 0, standing())
		require.NoError(t, err)
		_, err = c.RecordSample(ctx, 1, 1, helpPose())
		require.NoError(t, err)
	}

	p, err := c.Start(1, Classifier, 2)
	require.NoError(t, err)

	res := p.Process(standing(), 0)
	assert.Equal(t, motion.ReadyPose, res.Prediction.Label)
	assert.Greater(t, res.Prediction.Confidence, 0.9)

	process(p, standing(), 7, 0)
	require.True(t, p.Session().ReadyDetected())

	res = p.Process(helpPose(), 0)
	assert.Equal(t, "help_pose", res.Prediction.Label)
	assert.True(t, res.Feedback.AllPassed)

	process(p, helpPose(), 4, 0)
	process(p, helpPose(), 1, 1)
	events := process(p, helpPose(), 1, 2)

	assert.Equal(t, []session.EventKind{session.EventComplete}, kinds(events))
	assert.True(t, p.Session().Done())
}

func TestClassifierUntrained(t *testing.T) {
	c := newCoach(t, nil)

	p, err := c.Start(1, Classifier, 0)
	require.NoError(t, err)

	res := p.Process(standing(), 0)

	assert.False(t, res.Prediction.Ok())
	assert.Nil(t, res.Events)
	assert.Equal(t, "", p.Session().CurrentLabel())
	assert.Equal(t, 3, len(res.Feedback.Checks))
}

func TestSmoothingAndReset(t *testing.T) {
	cfg := config.Default()
	cfg.Smoothing = true

	c := New(cfg, store.NewMemory(), logging.Discard())

	p, err := c.Start(2, Instant, 0)
	require.NoError(t, err)

	first := p.Process(standing(), 0)
	assert.Equal(t, standing(), first.Joints)

	// a sudden jump is damped
	next := p.Process(armUp(), 0)
	assert.Less(t, next.Joints[posecoach.LeftWrist].Y, 0.54)
	assert.Greater(t, next.Joints[posecoach.LeftWrist].Y, 0.1)

	p.Reset()

	assert.Equal(t, 0, p.History().Len())
	assert.Equal(t, armUp(), p.Process(armUp(), 1).Joints)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("knn")
	require.NoError(t, err)
	assert.Equal(t, Classifier, m)

	m, err = ParseMode("instant")
	require.NoError(t, err)
	assert.Equal(t, Instant, m)
	assert.Equal(t, "instant", m.String())

	_, err = ParseMode("fast")
	assert.Error(t, err)
}
