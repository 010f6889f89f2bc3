package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Canvas is the mutable raster text is drawn onto.
//
// A Canvas is owned by a single overlay call. It copies the source image
// on creation, so the decoded input is never modified.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas copies img into a new drawable canvas.
func NewCanvas(img image.Image) *Canvas {
	return &Canvas{dc: gg.NewContextForImage(img)}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.dc.Width()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.dc.Height()
}

// Image returns the current raster.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// DrawText draws text with its top-left (ascender line) at (x, y).
//
// Coordinates are floored to whole pixels. A positive stroke thickens the
// glyphs by repeating them at every offset inside a disc of that radius,
// all in the same colour.
func (c *Canvas) DrawText(face font.Face, text string, x, y float64, col color.Color, stroke int) {
	if text == "" {
		return
	}

	x = math.Floor(x)
	baseline := math.Floor(y) + float64(face.Metrics().Ascent)/64

	c.dc.SetFontFace(face)
	c.dc.SetColor(col)

	for dy := -stroke; dy <= stroke; dy++ {
		for dx := -stroke; dx <= stroke; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if dx*dx+dy*dy > stroke*stroke {
				continue
			}
			c.dc.DrawString(text, x+float64(dx), baseline+float64(dy))
		}
	}

	c.dc.DrawString(text, x, baseline)
}
