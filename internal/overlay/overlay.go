package overlay

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/handiism/nftposter/internal/fonts"
	ioutils "github.com/handiism/nftposter/internal/io"
	"github.com/handiism/nftposter/internal/model"
	"go.uber.org/zap"
)

// Overlayer draws the title, date and location of an event onto an image.
//
// Overlayer holds no per-call state: every Overlay call loads its own
// canvas, so calls targeting different files may run concurrently. Two
// calls on the same image path race on the output file; callers that
// can produce duplicates must serialise them (see poster.Manager).
//
// Example usage:
//
//	ov := overlay.New(fonts.NewResolver(), model.DefaultFontSet("gobold"))
//
//	path, err := ov.Overlay(ctx, model.OverlayRequest{
//	    ImagePath: "nft_images/The Band_12-05-2025.jpg",
//	    Artist:    "The Band",
//	    Date:      "12/05/2025",
//	    Location:  "Texas",
//	})
//	// path = "/abs/nft_images/The Band_12-05-2025_t.jpg"
type Overlayer struct {
	fonts   *fonts.Resolver
	set     model.FontSet
	quality int
	logger  *zap.Logger
}

// Option configures an Overlayer.
type Option func(*Overlayer)

// WithJPEGQuality sets the quality of the saved poster.
func WithJPEGQuality(q int) Option {
	return func(o *Overlayer) {
		o.quality = q
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Overlayer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an Overlayer rendering with the fonts of set.
func New(resolver *fonts.Resolver, set model.FontSet, opts ...Option) *Overlayer {
	o := &Overlayer{
		fonts:   resolver,
		set:     set,
		quality: ioutils.DefaultJPEGQuality,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Overlay validates req, draws the three text blocks onto the image at
// req.ImagePath and writes the result next to it with a "_t" suffix.
// It returns the absolute path of the written file.
//
// Validation happens before any file is touched:
//  1. ImagePath must be set (ErrMissingImagePath)
//  2. Artist or Match must be set (ErrNoTitleSource); artist wins if both are
//  3. ImagePath must end in ".jpg" (ErrUnsupportedPath)
//
// The input image is never modified.
func (o *Overlayer) Overlay(ctx context.Context, req model.OverlayRequest) (string, error) {
	if req.ImagePath == "" {
		return "", ErrMissingImagePath
	}
	title, ok := req.Title()
	if !ok {
		return "", ErrNoTitleSource
	}
	if _, err := OutputPath(req.ImagePath); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	log := o.logger.With(zap.String("image", req.ImagePath), zap.String("title", title))

	faces, err := o.fonts.Faces(o.set)
	if err != nil {
		return "", err
	}

	img, err := ioutils.LoadImage(req.ImagePath)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrImageLoad, req.ImagePath, err)
	}
	canvas := NewCanvas(img)

	texts := map[model.Role]string{
		model.RoleTitle:    title,
		model.RoleDate:     req.Date,
		model.RoleLocation: req.Location,
	}

	blocks := make(map[model.Role]model.TextBlock, len(texts))
	for role, text := range texts {
		spec, err := o.set.For(role)
		if err != nil {
			return "", err
		}
		block, err := Measure(faces[role], role, text, spec)
		if err != nil {
			return "", err
		}
		blocks[role] = block
	}

	placement, err := Layout(canvas.Width(), canvas.Height(), blocks)
	if err != nil {
		return "", err
	}
	log.Debug("text placed",
		zap.Int("width", canvas.Width()),
		zap.Int("height", canvas.Height()),
		zap.Any("placement", placement),
	)

	if _, err := Composite(canvas, blocks, placement, faces); err != nil {
		return "", err
	}

	out, err := Save(canvas, req.ImagePath, o.quality)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %q: %v", ErrImageSave, out, err)
	}

	log.Info("poster written", zap.String("output", abs))
	return abs, nil
}
