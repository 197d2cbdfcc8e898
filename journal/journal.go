// Package journal keeps the history of completed practice sessions, newest
// first, and summarizes it into practice statistics.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/swdee/go-posecoach/session"
	"github.com/swdee/go-posecoach/store"
	"math"
	"sync"
	"time"
)

const (
	// DefaultKey is the store key the journal is saved under
	DefaultKey = "swim_history"
	// DefaultSize is the default number of entries kept
	DefaultSize = 100
	// goodScore is the score counted as a good session
	goodScore = 15
)

// ErrNotDone is returned when recording a session that did not complete
var ErrNotDone = errors.New("session not completed")

// Entry is a recorded session outcome
type Entry struct {
	ID          uuid.UUID `json:"id"`
	MotionID    int       `json:"motionId"`
	Date        time.Time `json:"date"`
	Score       int       `json:"score"`
	HoldSeconds float64   `json:"holdSec"`
	Cycles      int       `json:"cycles"`
}

// Stats summarizes the journal
type Stats struct {
	// Total is the number of recorded sessions
	Total int
	// Motions is the number of distinct motions practiced
	Motions int
	// AverageScore is the mean score rounded to an integer
	AverageScore int
	// Good is the number of sessions scoring at least 15
	Good int
}

// Journal is a bounded list of session outcomes, newest first
type Journal struct {
	size    int
	entries []Entry
	now     func() time.Time
	sync.Mutex
}

// New returns an empty journal keeping at most size entries.  A size below
// 1 uses DefaultSize
func New(size int) *Journal {
	if size < 1 {
		size = DefaultSize
	}

	return &Journal{
		size: size,
		now:  time.Now,
	}
}

// Record adds a completed session outcome at the front of the journal,
// dropping the oldest entry once full
func (j *Journal) Record(out session.Outcome) (Entry, error) {

	if !out.Done {
		return Entry{}, ErrNotDone
	}

	id, err := uuid.NewRandom()

	if err != nil {
		return Entry{}, fmt.Errorf("error generating entry id: %w", err)
	}

	j.Lock()
	defer j.Unlock()

	e := Entry{
		ID:          id,
		MotionID:    out.MotionID,
		Date:        j.now().UTC(),
		Score:       out.Score,
		HoldSeconds: math.Round(out.HoldSeconds),
		Cycles:      out.Cycles,
	}

	j.entries = append([]Entry{e}, j.entries...)

	if len(j.entries) > j.size {
		j.entries = j.entries[:j.size]
	}

	return e, nil
}

// Entries returns a copy of the entries, newest first
func (j *Journal) Entries() []Entry {
	j.Lock()
	defer j.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries
func (j *Journal) Len() int {
	j.Lock()
	defer j.Unlock()

	return len(j.entries)
}

// Clear removes all entries
func (j *Journal) Clear() {
	j.Lock()
	defer j.Unlock()

	j.entries = nil
}

// Stats summarizes the recorded sessions
func (j *Journal) Stats() Stats {
	j.Lock()
	defer j.Unlock()

	st := Stats{Total: len(j.entries)}

	if st.Total == 0 {
		return st
	}

	motions := make(map[int]struct{})
	sum := 0

	for _, e := range j.entries {
		motions[e.MotionID] = struct{}{}
		sum += e.Score

		if e.Score >= goodScore {
			st.Good++
		}
	}

	st.Motions = len(motions)
	st.AverageScore = int(math.Round(float64(sum) / float64(st.Total)))

	return st
}

// MarshalJSON encodes the entries as a JSON array, newest first
func (j *Journal) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Entries())
}

// UnmarshalJSON replaces the entries with a JSON array, keeping at most the
// journal size
func (j *Journal) UnmarshalJSON(data []byte) error {

	var entries []Entry

	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("error decoding journal: %w", err)
	}

	j.Lock()
	defer j.Unlock()

	if len(entries) > j.size {
		entries = entries[:j.size]
	}

	j.entries = entries
	return nil
}

// Load replaces the entries with those saved under key.  A missing key
// leaves the journal empty
func (j *Journal) Load(ctx context.Context, s store.Store, key string) error {

	data, err := s.Load(ctx, key)

	if errors.Is(err, store.ErrNotFound) {
		j.Clear()
		return nil
	}

	if err != nil {
		return fmt.Errorf("error loading journal: %w", err)
	}

	return j.UnmarshalJSON(data)
}

// Save writes the entries under key
func (j *Journal) Save(ctx context.Context, s store.Store, key string) error {

	data, err := j.MarshalJSON()

	if err != nil {
		return fmt.Errorf("error encoding journal: %w", err)
	}

	if err := s.Save(ctx, key, data); err != nil {
		return fmt.Errorf("error saving journal: %w", err)
	}

	return nil
}
