package render

import "image/color"

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 72, G: 249, B: 10, A: 255}
	Red    = color.RGBA{R: 255, G: 56, B: 56, A: 255}
	Orange = color.RGBA{R: 255, G: 128, B: 0, A: 255}
	Blue   = color.RGBA{R: 0, G: 194, B: 255, A: 255}
	Grey   = color.RGBA{R: 96, G: 96, B: 96, A: 255}
)

// side of the body a landmark is on
type side int

const (
	center side = iota
	left
	right
)

// landmarkSide maps each of the 33 landmarks to its body side
var landmarkSide = [33]side{
	center,                   // nose
	left, left, left,         // left eye inner, eye, outer
	right, right, right,      // right eye inner, eye, outer
	left, right,              // ears
	left, right,              // mouth corners
	left, right,              // shoulders
	left, right,              // elbows
	left, right,              // wrists
	left, right,              // pinkies
	left, right,              // index fingers
	left, right,              // thumbs
	left, right,              // hips
	left, right,              // knees
	left, right,              // ankles
	left, right,              // heels
	left, right,              // foot index
}
