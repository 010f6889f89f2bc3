package ioutils

import (
	"bytes"
	"context"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DefaultJPEGQuality is used when settings do not specify a quality.
const DefaultJPEGQuality = 95

// LoadImage opens and decodes an image file.
//
// EXIF orientation is applied so that the canvas matches what viewers show.
// Any format registered with the image package (JPEG, PNG, GIF, BMP, TIFF)
// is accepted.
func LoadImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// EncodeJPEG writes img to w as a JPEG with the given quality (1-100).
// Out of range values fall back to DefaultJPEGQuality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// ImageService normalises images fetched from the generation service.
//
// ImageService is used to:
//   - Shrink oversized images to a maximum edge length
//   - Re-encode whatever the service returned (PNG, WebP-less JPEG, ...) as JPEG
//
// Example usage:
//
//	svc := NewImageService(90)
//
//	raw, _ := os.ReadFile(downloadedPath)
//	jpeg, _ := svc.Normalize(ctx, raw, 1024)
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding at quality.
func NewImageService(quality int) *ImageService {
	return &ImageService{quality: quality}
}

// Normalize decodes data, scales it down so neither edge exceeds maxSize
// (0 disables scaling) and returns it JPEG-encoded.
//
// The aspect ratio is preserved and Catmull-Rom is used for resampling.
//
// Example:
//
//	// A 2048x1024 PNG becomes a 1024x512 JPEG
//	out, err := svc.Normalize(ctx, pngData, 1024)
func (s *ImageService) Normalize(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img = Fit(img, maxSize)

	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, s.quality); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Fit scales img down so that both edges are at most maxSize.
// Images already within bounds, or maxSize <= 0, are returned unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return img
	}

	if width >= height {
		height = max(1, height*maxSize/width)
		width = maxSize
	} else {
		width = max(1, width*maxSize/height)
		height = maxSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
