package render

import (
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/history"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	CircleColor   color.RGBA
	CircleRadius  int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// WristTrail draws the path both wrists took across the frames held in the
// history
func WristTrail(img *gocv.Mat, hist *history.History, style TrailStyle) {

	entries := hist.Entries()

	for _, joint := range []int{posecoach.LeftWrist, posecoach.RightWrist} {

		points := make([]image.Point, 0, len(entries))

		for _, e := range entries {
			if !e.Joints.Valid() {
				continue
			}

			points = append(points, ToPoint(e.Joints[joint], img.Cols(), img.Rows()))
		}

		if len(points) < 2 {
			continue
		}

		for i := 1; i < len(points); i++ {
			// draw line segment of trail
			gocv.Line(img, points[i-1], points[i], style.LineColor, style.LineThickness)
		}

		// draw circle on the current position
		gocv.Circle(img, points[len(points)-1], style.CircleRadius, style.CircleColor, -1)
	}
}
