package overlay

import (
	"fmt"

	"github.com/handiism/nftposter/internal/model"
	"golang.org/x/image/font"
)

// Measure computes the ink bounding box of text rendered with face, with
// the text's top-left origin (left edge, ascender line) at (0, 0).
//
// The box comes from font.BoundString, so kerning, side bearings and
// hinting are taken into account. It is translated from baseline-relative
// to top-relative coordinates by the face ascent, then snapped outward to
// whole pixels. Empty text (or text with no ink, such as spaces) measures
// as the zero box.
func Measure(face font.Face, role model.Role, text string, spec model.FontSpec) (model.TextBlock, error) {
	if !role.Valid() {
		return model.TextBlock{}, fmt.Errorf("%w: %q", model.ErrInvalidRole, string(role))
	}
	if err := spec.Validate(); err != nil {
		return model.TextBlock{}, fmt.Errorf("%w: %v", ErrFontResolution, err)
	}
	if face == nil {
		return model.TextBlock{}, fmt.Errorf("%w: no face for %s", ErrFontResolution, spec)
	}

	var box model.BoundingBox
	if text != "" {
		bounds, _ := font.BoundString(face, text)
		if !bounds.Empty() {
			ascent := face.Metrics().Ascent
			box = model.BoundingBox{
				X0: bounds.Min.X.Floor(),
				Y0: (bounds.Min.Y + ascent).Floor(),
				X1: bounds.Max.X.Ceil(),
				Y1: (bounds.Max.Y + ascent).Ceil(),
			}
		}
	}

	return model.NewTextBlock(role, text, spec, box), nil
}
