package overlay

import (
	"errors"

	"github.com/handiism/nftposter/internal/fonts"
	"github.com/handiism/nftposter/internal/model"
)

// Errors returned by the overlay pipeline. Callers classify them with
// errors.Is; every returned error wraps exactly one of these.
var (
	ErrMissingImagePath = errors.New("image path not provided")
	ErrNoTitleSource    = errors.New("neither artist nor match provided")
	ErrUnsupportedPath  = errors.New("image path must end in .jpg")
	ErrImageLoad        = errors.New("load image")
	ErrImageSave        = errors.New("save image")

	// Re-exported so callers of this package need a single import.
	ErrFontResolution = fonts.ErrFontResolution
	ErrInvalidRole    = model.ErrInvalidRole
)

// IsValidation reports whether err was caused by bad input rather than
// by the environment (fonts, file system).
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingImagePath) ||
		errors.Is(err, ErrNoTitleSource) ||
		errors.Is(err, ErrUnsupportedPath)
}
