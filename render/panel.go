package render

import (
	"fmt"
	"github.com/swdee/go-posecoach/feedback"
	"github.com/swdee/go-posecoach/session"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

// line is a row of panel text
type line struct {
	text string
	clr  color.RGBA
}

// Feedback renders the posture checks as a panel in the top left corner of
// the image, passed checks in green and failed checks in red with the fix
func Feedback(img *gocv.Mat, res feedback.Result, font Font) {

	lines := []line{{
		text: fmt.Sprintf("%d%%  %s", res.OverallScore, res.SummaryMessage),
		clr:  font.Color,
	}}

	for _, c := range res.Checks {
		mark, clr := "x", Red

		if c.Passed {
			mark, clr = "+", Green
		}

		lines = append(lines, line{
			text: fmt.Sprintf("%s %s: %s", mark, c.Name, c.Message),
			clr:  clr,
		})
	}

	panel(img, image.Pt(0, 0), lines, font)
}

// Progress renders the session state in the bottom left corner of the image
func Progress(img *gocv.Mat, s *session.Session, font Font) {

	var status string

	switch {
	case !s.Known():
		status = "Unknown motion"
	case s.Done():
		status = "Complete!"
	case s.Mode() == session.Hold:
		status = fmt.Sprintf("Hold %.1f / %gs", s.HoldSeconds(), s.HoldGoal())
	default:
		status = fmt.Sprintf("Reps %d / %d", s.CyclesDone(), s.Motion().TargetCycles)
	}

	lines := []line{
		{text: fmt.Sprintf("Score %d / %d  %s", s.Score(), session.MaxScore, status), clr: font.Color},
	}

	if next := s.Expected(); next != "" {
		lines = append(lines, line{text: "Next: " + next, clr: Yellow})
	}

	if s.CurrentLabel() != "" {
		lines = append(lines, line{
			text: fmt.Sprintf("Pose: %s %.2f", s.CurrentLabel(), s.Confidence()),
			clr:  Grey,
		})
	}

	height := len(lines) * lineHeight(font)
	panel(img, image.Pt(0, img.Rows()-height), lines, font)
}

// Banner renders a centered message across the middle of the image, used
// for session events
func Banner(img *gocv.Mat, text string, font Font) {

	size := textSize(text, font)
	x := (img.Cols() - size.X) / 2
	y := img.Rows() / 2

	rect := image.Rect(x-font.LeftPad, y-size.Y-font.TopPad, x+size.X+font.RightPad, y+font.BottomPad)
	gocv.Rectangle(img, rect, Black, -1)

	putText(img, text, image.Pt(x, y), Yellow, font)
}

// panel draws the lines on a filled box starting at the top left point
func panel(img *gocv.Mat, at image.Point, lines []line, font Font) {

	width := 0

	for _, l := range lines {
		if w := textSize(l.text, font).X; w > width {
			width = w
		}
	}

	lh := lineHeight(font)

	rect := image.Rect(at.X, at.Y, at.X+width+font.LeftPad+font.RightPad, at.Y+len(lines)*lh)
	gocv.Rectangle(img, rect, Black, -1)

	for i, l := range lines {
		pos := image.Pt(at.X+font.LeftPad, at.Y+(i+1)*lh-font.BottomPad)
		putText(img, l.text, pos, l.clr, font)
	}
}

// lineHeight returns the pixel height of a panel row
func lineHeight(font Font) int {
	return textSize("Ag", font).Y + font.TopPad + font.BottomPad
}

// textSize returns the rendered size of text in the font
func textSize(text string, font Font) image.Point {
	if font.TTF != nil {
		return font.TTF.Size(text)
	}
	return gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)
}

// putText draws text with its baseline at pos
func putText(img *gocv.Mat, text string, pos image.Point, clr color.RGBA, font Font) {

	if font.TTF != nil {
		// fall back to Hershey when the overlay cannot be created
		if err := font.TTF.Put(img, text, pos.X, pos.Y, clr); err == nil {
			return
		}
	}

	gocv.PutTextWithParams(img, text, pos, font.Face, font.Scale, clr, font.Thickness,
		font.LineType, false)
}
