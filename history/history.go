// Package history keeps a short sliding window of recent pose frames and
// answers the motion queries used to detect dynamic movements such as waving
// or sculling.
package history

import (
	"github.com/swdee/go-posecoach"
	"gonum.org/v1/gonum/floats"
	"math"
	"sync"
	"time"
)

const (
	// DefaultSize is the default number of frames kept
	DefaultSize = 15
	// minMovementFrames is the minimum frames needed for movement and range
	// queries
	minMovementFrames = 5
	// minAlternationFrames is the minimum frames needed to count alternations
	minAlternationFrames = 8
)

// Entry is a frame kept in history
type Entry struct {
	Time   time.Time
	Joints posecoach.JointSet
}

// Range is the spread of a measured value across the history window
type Range struct {
	Min   float64
	Max   float64
	Range float64
}

// History is a fixed capacity FIFO of recent frames, the oldest frame is
// dropped once the capacity is exceeded
type History struct {
	// size is the maximum number of most recent frames to keep
	size int
	// entries ordered oldest first
	entries []Entry
	// now returns the timestamp for added frames
	now func() time.Time
	sync.Mutex
}

// New returns a new history keeping the given number of most recent frames.
// A size below 1 uses DefaultSize
func New(size int) *History {
	if size < 1 {
		size = DefaultSize
	}

	return &History{
		size:    size,
		entries: make([]Entry, 0, size+1),
		now:     time.Now,
	}
}

// Size returns the capacity of the history
func (h *History) Size() int {
	return h.size
}

// Len returns the number of frames currently held
func (h *History) Len() int {
	h.Lock()
	defer h.Unlock()

	return len(h.entries)
}

// Add a frame to the history stamped with the current time.  Joint sets
// without the full landmark layout are ignored
func (h *History) Add(js posecoach.JointSet) {
	if !js.Valid() {
		return
	}

	h.Lock()
	defer h.Unlock()

	h.entries = append(h.entries, Entry{Time: h.now(), Joints: js.Clone()})

	// check if history is exceeded and drop oldest frame
	if len(h.entries) > h.size {
		h.entries = h.entries[1:]
	}
}

// Entries returns a copy of the frames held, oldest first
func (h *History) Entries() []Entry {
	h.Lock()
	defer h.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes all frames
func (h *History) Clear() {
	h.Lock()
	defer h.Unlock()

	h.entries = h.entries[:0]
}

// XMovement returns the total horizontal travel of a landmark across the
// window, the sum of absolute x deltas between consecutive frames.  It
// returns 0 with fewer than 5 frames
func (h *History) XMovement(joint int) float64 {
	h.Lock()
	defer h.Unlock()

	if len(h.entries) < minMovementFrames || joint < 0 || joint >= posecoach.NumJoints {
		return 0
	}

	total := 0.0

	for i := 1; i < len(h.entries); i++ {
		total += math.Abs(h.entries[i].Joints[joint].X - h.entries[i-1].Joints[joint].X)
	}

	return total
}

// WristDistanceRange returns the spread of the 2D distance between the wrists
// across the window.  It returns a zero Range with fewer than 5 frames
func (h *History) WristDistanceRange() Range {
	h.Lock()
	defer h.Unlock()

	if len(h.entries) < minMovementFrames {
		return Range{}
	}

	dists := make([]float64, len(h.entries))

	for i, e := range h.entries {
		dists[i] = posecoach.Distance2D(e.Joints[posecoach.LeftWrist], e.Joints[posecoach.RightWrist])
	}

	lo := floats.Min(dists)
	hi := floats.Max(dists)

	return Range{Min: lo, Max: hi, Range: hi - lo}
}

// WristAlternationCount returns how many times the higher wrist switched
// sides between consecutive frames.  It returns 0 with fewer than 8 frames
func (h *History) WristAlternationCount() int {
	h.Lock()
	defer h.Unlock()

	if len(h.entries) < minAlternationFrames {
		return 0
	}

	count := 0
	prev := wristDiff(h.entries[0].Joints)

	for i := 1; i < len(h.entries); i++ {
		cur := wristDiff(h.entries[i].Joints)

		if (cur > 0 && prev < 0) || (cur < 0 && prev > 0) {
			count++
		}

		prev = cur
	}

	return count
}

// wristDiff is the vertical offset of the left wrist from the right
func wristDiff(js posecoach.JointSet) float64 {
	return js[posecoach.LeftWrist].Y - js[posecoach.RightWrist].Y
}
