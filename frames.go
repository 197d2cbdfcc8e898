package posecoach

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Frame is a single recorded pose estimation result
type Frame struct {
	// Timestamp of the frame in seconds
	Timestamp float64 `json:"t"`
	// Label is an optional step name the frame was recorded as
	Label string `json:"label,omitempty"`
	// Joints are the landmarks detected in the frame
	Joints JointSet `json:"joints"`
}

// LoadFrames reads recorded frames from the given JSON lines file.  Blank
// lines and lines starting with # are skipped.
func LoadFrames(file string) ([]Frame, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	// a 33 landmark frame easily exceeds the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frames []Frame
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var fr Frame

		if err := json.Unmarshal([]byte(line), &fr); err != nil {
			return nil, fmt.Errorf("error decoding line %d: %w", lineNo, err)
		}

		frames = append(frames, fr)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return frames, nil
}
