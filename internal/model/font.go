package model

import "fmt"

// FontSpec describes the font used to render one text role.
//
// Family is either the name of an embedded Go font (for example "gobold"),
// a path to a TrueType file, or an installed system family such as "arial".
// Size is the pixel size of the face and must be positive.
type FontSpec struct {
	Family string `json:"family" yaml:"family"`
	Size   int    `json:"size" yaml:"size"`
}

// Validate reports whether f can be turned into a font face.
func (f FontSpec) Validate() error {
	if f.Family == "" {
		return fmt.Errorf("font family must not be empty")
	}
	if f.Size <= 0 {
		return fmt.Errorf("font size must be positive, got %d", f.Size)
	}
	return nil
}

// String returns "family@size", used in logs and error messages.
func (f FontSpec) String() string {
	return fmt.Sprintf("%s@%d", f.Family, f.Size)
}

// FontSet holds one FontSpec per role.
//
// Example:
//
//	set := DefaultFontSet("gobold")
//	spec, _ := set.For(RoleTitle) // gobold@80
type FontSet struct {
	Title    FontSpec `json:"title" yaml:"title"`
	Date     FontSpec `json:"date" yaml:"date"`
	Location FontSpec `json:"location" yaml:"location"`
}

// Reference pixel sizes for each role.
const (
	TitleFontSize    = 80
	DateFontSize     = 40
	LocationFontSize = 50
)

// DefaultFontSet returns the reference sizes (80/40/50) in the given family.
func DefaultFontSet(family string) FontSet {
	return FontSet{
		Title:    FontSpec{Family: family, Size: TitleFontSize},
		Date:     FontSpec{Family: family, Size: DateFontSize},
		Location: FontSpec{Family: family, Size: LocationFontSize},
	}
}

// For returns the FontSpec configured for role.
func (s FontSet) For(role Role) (FontSpec, error) {
	switch role {
	case RoleTitle:
		return s.Title, nil
	case RoleDate:
		return s.Date, nil
	case RoleLocation:
		return s.Location, nil
	}
	return FontSpec{}, fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
}

// Validate checks every spec in the set.
func (s FontSet) Validate() error {
	for _, role := range Roles() {
		spec, _ := s.For(role)
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%s font: %w", role, err)
		}
	}
	return nil
}
