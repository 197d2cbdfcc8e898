package posecoach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrames(t *testing.T) {
	file := filepath.Join(t.TempDir(), "frames.jsonl")

	data := "# recorded frames\n" +
		`{"t":0.5,"label":"ready_pose","joints":[{"x":0.1,"y":0.2,"z":0.3,"visibility":0.9}]}` + "\n" +
		"\n" +
		`{"t":1,"joints":[]}` + "\n"

	require.NoError(t, os.WriteFile(file, []byte(data), 0644))

	frames, err := LoadFrames(file)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, 0.5, frames[0].Timestamp)
	assert.Equal(t, "ready_pose", frames[0].Label)
	assert.Equal(t, Joint{X: 0.1, Y: 0.2, Z: 0.3, Visibility: 0.9}, frames[0].Joints[0])
	assert.Equal(t, "", frames[1].Label)
	assert.Empty(t, frames[1].Joints)
}

func TestLoadFramesErrors(t *testing.T) {
	_, err := LoadFrames(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(file, []byte("{\"t\":1}\nnot json\n"), 0644))

	_, err = LoadFrames(file)
	assert.ErrorContains(t, err, "line 2")
}

func TestLoadExampleFrames(t *testing.T) {
	frames, err := LoadFrames("example/data/help-pose.jsonl")
	require.NoError(t, err)

	require.NotEmpty(t, frames)

	for _, fr := range frames {
		assert.True(t, fr.Joints.Valid())
	}
}
