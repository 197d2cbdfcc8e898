package render

import (
	"gocv.io/x/gocv"
	"image/color"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// TTF renders text with a TrueType face instead of the Hershey font,
	// needed for text outside the ASCII range
	TTF *TextFace
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   6,
		RightPad:  6,
		TopPad:    4,
		BottomPad: 6,
	}
}
