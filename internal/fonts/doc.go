// Package fonts resolves font families into faces for text rendering.
//
// Families may name an embedded Go font, a TrueType file, or an
// installed system font:
//
//	r := fonts.NewResolver()
//	face, err := r.Face(model.FontSpec{Family: "gobold", Size: 80})
//	face, err = r.Face(model.FontSpec{Family: "/usr/share/fonts/arial.ttf", Size: 40})
//	face, err = r.Face(model.FontSpec{Family: "arial", Size: 50})
//
// Resolution never falls back to a different family: any failure is
// reported with ErrFontResolution.
package fonts
