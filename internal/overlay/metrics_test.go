package overlay

import (
	"errors"
	"testing"

	"github.com/handiism/nftposter/internal/fonts"
	"github.com/handiism/nftposter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

var titleSpec = model.FontSpec{Family: fonts.DefaultFamily, Size: model.TitleFontSize}

func testFace(t *testing.T, spec model.FontSpec) font.Face {
	t.Helper()
	face, err := fonts.NewResolver(fonts.WithSystemFonts(noSystemFonts)).Face(spec)
	require.NoError(t, err)
	return face
}

func TestMeasure_Idempotent(t *testing.T) {
	face := testFace(t, titleSpec)

	a, err := Measure(face, model.RoleTitle, "The Band", titleSpec)
	require.NoError(t, err)
	b, err := Measure(face, model.RoleTitle, "The Band", titleSpec)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a.Box.Width(), a.Width)
	assert.Equal(t, a.Box.Height(), a.Height)
}

func TestMeasure_TightInkBox(t *testing.T) {
	face := testFace(t, titleSpec)

	block, err := Measure(face, model.RoleTitle, "The Band", titleSpec)
	require.NoError(t, err)

	assert.Positive(t, block.Width)
	assert.Positive(t, block.Height)
	assert.LessOrEqual(t, block.Height, titleSpec.Size+titleSpec.Size/2)
	// Cap height sits below the ascender line, so ink starts below y=0.
	assert.Positive(t, block.Box.Y0)

	advance := font.MeasureString(face, "The Band").Ceil()
	assert.LessOrEqual(t, block.Width, advance+1)
}

func TestMeasure_LeadingSpaceShiftsX0(t *testing.T) {
	face := testFace(t, titleSpec)

	plain, err := Measure(face, model.RoleTitle, "Band", titleSpec)
	require.NoError(t, err)
	padded, err := Measure(face, model.RoleTitle, "  Band", titleSpec)
	require.NoError(t, err)

	assert.Greater(t, padded.Box.X0, plain.Box.X0)
	assert.InDelta(t, plain.Width, padded.Width, 1)
}

func TestMeasure_Empty(t *testing.T) {
	face := testFace(t, titleSpec)

	block, err := Measure(face, model.RoleDate, "", titleSpec)
	require.NoError(t, err)
	assert.Equal(t, model.BoundingBox{}, block.Box)
	assert.Zero(t, block.Width)

	block, err = Measure(face, model.RoleDate, "   ", titleSpec)
	require.NoError(t, err)
	assert.Zero(t, block.Width)
}

func TestMeasure_Errors(t *testing.T) {
	face := testFace(t, titleSpec)

	_, err := Measure(face, "footer", "x", titleSpec)
	assert.True(t, errors.Is(err, ErrInvalidRole))

	_, err = Measure(face, model.RoleTitle, "x", model.FontSpec{Family: "gobold", Size: -1})
	assert.True(t, errors.Is(err, ErrFontResolution))

	_, err = Measure(nil, model.RoleTitle, "x", titleSpec)
	assert.True(t, errors.Is(err, ErrFontResolution))
}
