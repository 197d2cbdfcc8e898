package render

import (
	"github.com/swdee/go-posecoach"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// connections defines the pose skeleton landmarks to draw lines between.  The
// numbers are paired, so (11,13) means draw line from left shoulder to left
// elbow.
var connections = [][2]int{
	// face
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	// torso
	{11, 12}, {11, 23}, {12, 24}, {23, 24},
	// arms and hands
	{11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	// legs and feet
	{23, 25}, {25, 27}, {27, 29}, {29, 31}, {27, 31},
	{24, 26}, {26, 28}, {28, 30}, {30, 32}, {28, 32},
}

// SkeletonStyle defines the parameters used for rendering the skeleton
type SkeletonStyle struct {
	LineThickness int
	CircleRadius  int
	// MinVisibility hides landmarks the estimator is less confident about
	MinVisibility float64
	LeftColor     color.RGBA
	RightColor    color.RGBA
	CenterColor   color.RGBA
}

// DefaultSkeletonStyle returns default skeleton style settings
func DefaultSkeletonStyle() SkeletonStyle {
	return SkeletonStyle{
		LineThickness: 2,
		CircleRadius:  3,
		MinVisibility: 0.5,
		LeftColor:     Orange,
		RightColor:    Blue,
		CenterColor:   White,
	}
}

// color returns the style color for a landmark side
func (s SkeletonStyle) color(sd side) color.RGBA {
	switch sd {
	case left:
		return s.LeftColor
	case right:
		return s.RightColor
	}
	return s.CenterColor
}

// ToPoint scales a normalized landmark to pixel coordinates of an image of
// the given size
func ToPoint(j posecoach.Joint, cols, rows int) image.Point {
	return image.Pt(int(j.X*float64(cols)), int(j.Y*float64(rows)))
}

// Skeleton renders the joint set as skeleton lines and joint circles scaled
// to the image
func Skeleton(img *gocv.Mat, js posecoach.JointSet, style SkeletonStyle) {

	if !js.Valid() {
		return
	}

	cols, rows := img.Cols(), img.Rows()

	// draw skeleton lines
	for _, c := range connections {
		a, b := js[c[0]], js[c[1]]

		if a.Visibility < style.MinVisibility || b.Visibility < style.MinVisibility {
			continue
		}

		// limbs crossing the body midline take the center color
		clr := style.CenterColor

		if landmarkSide[c[0]] == landmarkSide[c[1]] {
			clr = style.color(landmarkSide[c[0]])
		}

		gocv.Line(img, ToPoint(a, cols, rows), ToPoint(b, cols, rows), clr, style.LineThickness)
	}

	// draw circles at skeleton joints
	for i := 0; i < posecoach.NumJoints; i++ {
		if js[i].Visibility < style.MinVisibility {
			continue
		}

		gocv.Circle(img, ToPoint(js[i], cols, rows), style.CircleRadius,
			style.color(landmarkSide[i]), -1)
	}
}
