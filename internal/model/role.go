package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRole is returned when a text role outside the closed set
// {title, date, location} reaches the layout pipeline.
var ErrInvalidRole = errors.New("invalid text role")

// Role identifies the purpose of a text block on the poster.
//
// The set of roles is closed: every poster carries exactly one title,
// one date and one location block. Any other value is a configuration bug.
type Role string

const (
	// RoleTitle is the artist or match name, centered near the top.
	RoleTitle Role = "title"

	// RoleDate is the event date, left-aligned near the bottom.
	RoleDate Role = "date"

	// RoleLocation is the venue or state, centered below the title.
	RoleLocation Role = "location"
)

// Roles returns every valid role in drawing order.
func Roles() []Role {
	return []Role{RoleTitle, RoleDate, RoleLocation}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTitle, RoleDate, RoleLocation:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role.
//
// Example:
//
//	role, err := ParseRole("title") // RoleTitle, nil
//	_, err = ParseRole("subtitle")  // wraps ErrInvalidRole
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}
