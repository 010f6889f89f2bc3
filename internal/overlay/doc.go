// Package overlay draws event text onto poster images.
//
// The pipeline has four stages, each usable on its own:
//
//  1. Measure: ink bounding box of a string for a font face
//  2. Layout: anchor coordinates for the title, date and location blocks
//  3. Composite: shadowed white text drawn onto a Canvas
//  4. Save: atomic JPEG write to "<name>_t.jpg"
//
// Overlayer.Overlay runs all four for one OverlayRequest.
//
// # Layout Rules
//
// For a canvas of width w and height h, with bw the measured block width:
//
//	title:    ((w - bw) / 2, h * 0.10)
//	location: ((w - bw) / 2, h * 0.10 + 80)
//	date:     (w * 0.10,     h * 0.95)
//
// Coordinates stay fractional in the Placement and are floored when drawn.
//
// # Errors
//
// Every error wraps one of ErrMissingImagePath, ErrNoTitleSource,
// ErrUnsupportedPath, ErrFontResolution, ErrInvalidRole, ErrImageLoad or
// ErrImageSave.
package overlay
