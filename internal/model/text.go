package model

import "fmt"

// BoundingBox is the tight rectangle enclosing a string's rendered ink,
// measured with the text's top-left origin at (0, 0).
//
// X0 and Y0 are usually not zero: side bearings and the gap between the
// ascender line and the tallest glyph shift the ink away from the origin.
type BoundingBox struct {
	X0, Y0, X1, Y1 int
}

// Width returns X1 - X0.
func (b BoundingBox) Width() int {
	return b.X1 - b.X0
}

// Height returns Y1 - Y0.
func (b BoundingBox) Height() int {
	return b.Y1 - b.Y0
}

// TextBlock is a measured piece of text ready for layout.
//
// Width and Height are derived from Box and cached so that layout code
// does not need to know how the box was computed.
type TextBlock struct {
	Role    Role
	Content string
	Font    FontSpec
	Box     BoundingBox
	Width   int
	Height  int
}

// NewTextBlock builds a TextBlock from a measured box.
func NewTextBlock(role Role, content string, font FontSpec, box BoundingBox) TextBlock {
	return TextBlock{
		Role:    role,
		Content: content,
		Font:    font,
		Box:     box,
		Width:   box.Width(),
		Height:  box.Height(),
	}
}

// Point is an anchor coordinate in canvas space.
//
// Coordinates stay fractional until drawing; see Floor.
type Point struct {
	X, Y float64
}

// Placement maps every role to the top-left anchor of its text.
//
// A Placement always carries exactly the three known roles, which is why
// it is a struct rather than an open map.
type Placement struct {
	Title    Point
	Date     Point
	Location Point
}

// At returns the anchor for role.
func (p Placement) At(role Role) (Point, error) {
	switch role {
	case RoleTitle:
		return p.Title, nil
	case RoleDate:
		return p.Date, nil
	case RoleLocation:
		return p.Location, nil
	}
	return Point{}, fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
}

// Set stores pt for role.
func (p *Placement) Set(role Role, pt Point) error {
	switch role {
	case RoleTitle:
		p.Title = pt
	case RoleDate:
		p.Date = pt
	case RoleLocation:
		p.Location = pt
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
	}
	return nil
}
