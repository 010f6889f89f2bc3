package overlay

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/sysfont"
	ioutils "github.com/handiism/nftposter/internal/io"
	"github.com/stretchr/testify/require"
)

func noSystemFonts() []*sysfont.Font { return nil }

func darkImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 10
		img.Pix[i+1] = 10
		img.Pix[i+2] = 30
		img.Pix[i+3] = 255
	}
	return img
}

// writeJPEG stores a dark test image at dir/name and returns its path.
func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, ioutils.EncodeJPEG(f, darkImage(w, h), 95))
	return path
}

// brightPixels counts pixels in r whose every channel is at least min.
func brightPixels(img image.Image, r image.Rectangle, min uint8) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.R >= min && c.G >= min && c.B >= min {
				n++
			}
		}
	}
	return n
}
