package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-posecoach/session"
	"github.com/swdee/go-posecoach/store"
)

// done returns a completed outcome
func done(motionID, score int) session.Outcome {
	return session.Outcome{MotionID: motionID, Score: score, Cycles: 1, HoldSeconds: 30.4, Done: true}
}

func TestRecord(t *testing.T) {
	j := New(DefaultSize)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return base }

	e, err := j.Record(done(1, 20))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, base, e.Date)
	assert.Equal(t, 30.0, e.HoldSeconds)

	_, err = j.Record(session.Outcome{MotionID: 1, Score: 5})
	assert.ErrorIs(t, err, ErrNotDone)
	assert.Equal(t, 1, j.Len())
}

func TestRecordNewestFirstAndBounded(t *testing.T) {
	j := New(3)

	for i := 1; i <= 5; i++ {
		_, err := j.Record(done(i, 20))
		require.NoError(t, err)
	}

	entries := j.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, 5, entries[0].MotionID)
	assert.Equal(t, 4, entries[1].MotionID)
	assert.Equal(t, 3, entries[2].MotionID)
}

func TestStats(t *testing.T) {
	j := New(DefaultSize)

	assert.Equal(t, Stats{}, j.Stats())

	for _, o := range []session.Outcome{done(1, 20), done(1, 10), done(4, 15), done(6, 16)} {
		_, err := j.Record(o)
		require.NoError(t, err)
	}

	assert.Equal(t, Stats{Total: 4, Motions: 3, AverageScore: 15, Good: 3}, j.Stats())
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	j := New(DefaultSize)

	// missing key gives an empty journal
	require.NoError(t, j.Load(ctx, s, DefaultKey))
	assert.Equal(t, 0, j.Len())

	_, err := j.Record(done(2, 20))
	require.NoError(t, err)
	_, err = j.Record(done(3, 13))
	require.NoError(t, err)

	require.NoError(t, j.Save(ctx, s, DefaultKey))

	k := New(DefaultSize)
	require.NoError(t, k.Load(ctx, s, DefaultKey))

	assert.Equal(t, j.Entries(), k.Entries())

	// a smaller journal keeps the newest entries
	small := New(1)
	require.NoError(t, small.Load(ctx, s, DefaultKey))
	require.Len(t, small.Entries(), 1)
	assert.Equal(t, 3, small.Entries()[0].MotionID)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.Save(ctx, DefaultKey, []byte("{broken")))

	j := New(DefaultSize)
	assert.Error(t, j.Load(ctx, s, DefaultKey))
}

func TestEntryJSON(t *testing.T) {
	j := New(DefaultSize)
	j.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	e, err := j.Record(done(6, 20))
	require.NoError(t, err)

	data, err := j.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"`+e.ID.String()+`","motionId":6,"date":"2026-03-01T00:00:00Z","score":20,"holdSec":30,"cycles":1}]`, string(data))
}
