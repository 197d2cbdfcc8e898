package render

import (
	"fmt"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
	"image/draw"
	"os"
)

// TextFace draws text with a TrueType or OpenType font
type TextFace struct {
	face font.Face
}

// LoadTextFace loads the font file and creates a face of the given size in
// points
func LoadTextFace(fontPath string, size float64) (*TextFace, error) {

	// load font data
	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// parse the font
	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TextFace{face: face}, nil
}

// Size returns the width and height in pixels of the rendered text, the
// height covers the face ascent and descent
func (t *TextFace) Size(text string) image.Point {

	m := t.face.Metrics()
	w := font.MeasureString(t.face, text)

	return image.Pt(w.Ceil(), (m.Ascent + m.Descent).Ceil())
}

// Put draws text with its baseline starting at x,y
func (t *TextFace) Put(img *gocv.Mat, text string, x, y int, clr color.RGBA) error {

	// create image with text writing
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: t.face,
		Dot:  fixed.P(x, y),
	}
	dr.DrawString(text)

	// convert image.RGBA to gocv.Mat
	textMat, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if err != nil || textMat.Empty() {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer textMat.Close()

	gocv.CvtColor(textMat, &textMat, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, textMat, 1.0, 0, img)

	return nil
}

// Close releases the face
func (t *TextFace) Close() error {
	return t.face.Close()
}
