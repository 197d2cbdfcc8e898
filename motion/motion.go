// Package motion provides the static catalog of supported motions, the steps
// each is made of and its completion goal.
package motion

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"sort"
)

// ReadyPose is the reserved first step of every motion
const ReadyPose = "ready_pose"

// DefaultHoldGoal is the hold duration in seconds used when a hold motion
// does not define one
const DefaultHoldGoal = 30.0

// Posture is how the motion is performed.  It is informational only
type Posture string

const (
	Seated   Posture = "seated"
	Standing Posture = "standing"
)

// Motion defines a motion the user can practice
type Motion struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	LocalName string  `yaml:"local_name"`
	Sub       string  `yaml:"sub"`
	Desc      string  `yaml:"desc"`
	Guide     string  `yaml:"guide"`
	Posture   Posture `yaml:"posture"`
	Icon      string  `yaml:"icon"`
	// Steps are the labels a classifier is trained on, Steps[0] is always
	// ReadyPose
	Steps []string `yaml:"steps"`
	// Sequence is the ordered steps of one repetition, excluding ReadyPose
	Sequence []string `yaml:"sequence"`
	// TargetCycles is the number of repetitions to complete
	TargetCycles int `yaml:"target_cycles"`
	// HoldMode motions complete by holding Sequence[0] for HoldGoal seconds
	HoldMode bool    `yaml:"hold_mode"`
	HoldGoal float64 `yaml:"hold_goal"`
}

// HasStep reports whether label is one of the motion's steps
func (m Motion) HasStep(label string) bool {
	for _, s := range m.Steps {
		if s == label {
			return true
		}
	}
	return false
}

// Step returns the step name at index i
func (m Motion) Step(i int) (string, bool) {
	if i < 0 || i >= len(m.Steps) {
		return "", false
	}
	return m.Steps[i], true
}

// Goal returns the hold goal in seconds, falling back to DefaultHoldGoal
func (m Motion) Goal() float64 {
	if m.HoldGoal > 0 {
		return m.HoldGoal
	}
	return DefaultHoldGoal
}

//go:embed catalog.yaml
var catalogYAML []byte

// catalog of motions by ID
var catalog map[int]Motion

func init() {
	var err error
	catalog, err = parseCatalog(catalogYAML)

	if err != nil {
		panic(fmt.Sprintf("invalid embedded motion catalog: %v", err))
	}
}

// parseCatalog decodes and validates a catalog document
func parseCatalog(data []byte) (map[int]Motion, error) {

	var doc struct {
		Motions []Motion `yaml:"motions"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding catalog: %w", err)
	}

	out := make(map[int]Motion, len(doc.Motions))

	for _, m := range doc.Motions {
		if _, exists := out[m.ID]; exists {
			return nil, fmt.Errorf("duplicate motion id %d", m.ID)
		}

		if len(m.Steps) == 0 || m.Steps[0] != ReadyPose {
			return nil, fmt.Errorf("motion %d must start with %s", m.ID, ReadyPose)
		}

		if len(m.Sequence) == 0 {
			return nil, fmt.Errorf("motion %d has no sequence", m.ID)
		}

		for _, s := range m.Sequence {
			if s == ReadyPose || !m.HasStep(s) {
				return nil, fmt.Errorf("motion %d has invalid sequence step %q", m.ID, s)
			}
		}

		if m.TargetCycles < 1 {
			return nil, fmt.Errorf("motion %d has no target cycles", m.ID)
		}

		if m.HoldMode && len(m.Sequence) != 1 {
			return nil, fmt.Errorf("hold motion %d must have a single target step", m.ID)
		}

		out[m.ID] = m
	}

	return out, nil
}

// Lookup returns the motion with the given ID
func Lookup(id int) (Motion, bool) {
	m, ok := catalog[id]

	if !ok {
		return Motion{}, false
	}

	return clone(m), true
}

// All returns every motion ordered by ID
func All() []Motion {
	out := make([]Motion, 0, len(catalog))

	for _, m := range catalog {
		out = append(out, clone(m))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}

// IDs returns the motion IDs in ascending order
func IDs() []int {
	ids := make([]int, 0, len(catalog))

	for id := range catalog {
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids
}

// clone copies the slices so callers cannot modify the catalog
func clone(m Motion) Motion {
	m.Steps = append([]string(nil), m.Steps...)
	m.Sequence = append([]string(nil), m.Sequence...)
	return m
}
