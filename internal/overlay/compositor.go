package overlay

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	ioutils "github.com/handiism/nftposter/internal/io"
	"github.com/handiism/nftposter/internal/model"
	"golang.org/x/image/font"
)

// Styling constants.
const (
	ShadowOffset = 3
	TitleStroke  = 2
)

var (
	shadowColor     = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	foregroundColor = color.White
)

// pass is one draw call of a role's text.
type pass struct {
	offset float64
	color  color.Color
	stroke int
}

var (
	shadowPass     = pass{offset: ShadowOffset, color: shadowColor}
	foregroundPass = pass{color: foregroundColor}
)

// rolePasses lists the draw calls per role, in order. Later passes cover
// earlier ones.
//
// Location draws its shadow after the foreground, so the grey copy lands
// on top of the white text. This is the observed poster style and is kept
// as-is pending a product decision; see DESIGN.md.
var rolePasses = map[model.Role][]pass{
	model.RoleTitle:    {shadowPass, {color: foregroundColor, stroke: TitleStroke}},
	model.RoleDate:     {foregroundPass},
	model.RoleLocation: {foregroundPass, shadowPass},
}

// Composite draws every block onto canvas at its placed anchor and returns
// the same canvas. Roles are drawn in model.Roles order.
func Composite(canvas *Canvas, blocks map[model.Role]model.TextBlock, placement model.Placement, faces map[model.Role]font.Face) (*Canvas, error) {
	for _, role := range model.Roles() {
		block, ok := blocks[role]
		if !ok {
			return canvas, fmt.Errorf("%w: missing %q block", model.ErrInvalidRole, string(role))
		}
		face, ok := faces[role]
		if !ok {
			return canvas, fmt.Errorf("%w: no face for %q", ErrFontResolution, string(role))
		}
		at, err := placement.At(role)
		if err != nil {
			return canvas, err
		}

		for _, p := range rolePasses[role] {
			canvas.DrawText(face, block.Content, at.X+p.offset, at.Y+p.offset, p.color, p.stroke)
		}
	}
	return canvas, nil
}

// OutputPath derives the poster path from the source image path by
// replacing the ".jpg" suffix with "_t.jpg".
//
// Any other path fails with ErrUnsupportedPath: substituting nothing would
// make the output overwrite the input.
//
// Example:
//
//	OutputPath("nft_images/band.jpg") // "nft_images/band_t.jpg", nil
//	OutputPath("nft_images/band.png") // "", ErrUnsupportedPath
func OutputPath(srcPath string) (string, error) {
	if !strings.HasSuffix(srcPath, ".jpg") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPath, srcPath)
	}
	return strings.TrimSuffix(srcPath, ".jpg") + "_t.jpg", nil
}

// Save encodes canvas as JPEG next to srcPath and returns the written path.
// The file is written atomically: on failure nothing is left at the
// destination.
func Save(canvas *Canvas, srcPath string, quality int) (string, error) {
	dst, err := OutputPath(srcPath)
	if err != nil {
		return "", err
	}

	err = ioutils.WriteFileAtomic(dst, func(w io.Writer) error {
		return ioutils.EncodeJPEG(w, canvas.Image(), quality)
	})
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrImageSave, dst, err)
	}

	return dst, nil
}
