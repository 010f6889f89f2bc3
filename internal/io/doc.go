// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Decoding images from disk and encoding JPEGs
//   - Atomic file writes (temp file + rename)
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and content sniffing
//   - Normalising images returned by the generation service
//
// # Images
//
//	img, err := ioutils.LoadImage("nft_images/band.jpg")
//
//	err = ioutils.WriteFileAtomic("nft_images/band_t.jpg", func(w io.Writer) error {
//	    return ioutils.EncodeJPEG(w, img, 95)
//	})
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("AC/DC: Live") // Returns "AC_DC_ Live"
//
// # Normalisation
//
//	svc := ioutils.NewImageService(90)
//	jpeg, _ := svc.Normalize(ctx, pngData, 1024)
package ioutils
