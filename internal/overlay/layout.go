package overlay

import (
	"fmt"
	"maps"
	"slices"

	"github.com/handiism/nftposter/internal/model"
)

// Layout ratios relative to the canvas dimensions.
const (
	TitleTopRatio = 0.10
	LocationGap   = 80
	DateLeftRatio = 0.10
	DateTopRatio  = 0.95
)

// Layout computes the top-left anchor of every text block.
//
//	title:    x = (w - bw) / 2 (floor division), y = h * 0.10
//	location: x = (w - bw) / 2,                 y = h * 0.10 + 80
//	date:     x = w * 0.10,                     y = h * 0.95
//
// Blocks are not checked for collisions; on short canvases the title and
// location may overlap. blocks must contain exactly the three known roles:
// an unknown or missing role fails with ErrInvalidRole before anything is
// drawn.
func Layout(canvasWidth, canvasHeight int, blocks map[model.Role]model.TextBlock) (model.Placement, error) {
	var placement model.Placement

	for _, role := range slices.Sorted(maps.Keys(blocks)) {
		if _, err := model.ParseRole(string(role)); err != nil {
			return placement, err
		}
	}

	for _, role := range model.Roles() {
		block, ok := blocks[role]
		if !ok {
			return placement, fmt.Errorf("%w: missing %q block", model.ErrInvalidRole, string(role))
		}
		if err := placement.Set(role, anchor(role, canvasWidth, canvasHeight, block.Width)); err != nil {
			return placement, err
		}
	}

	return placement, nil
}

// anchor returns the top-left corner of a block of width bw for role.
func anchor(role model.Role, canvasWidth, canvasHeight, bw int) model.Point {
	w := float64(canvasWidth)
	h := float64(canvasHeight)

	switch role {
	case model.RoleTitle:
		return model.Point{X: float64(floorDiv(canvasWidth-bw, 2)), Y: h * TitleTopRatio}
	case model.RoleLocation:
		return model.Point{X: float64(floorDiv(canvasWidth-bw, 2)), Y: h*TitleTopRatio + LocationGap}
	default:
		return model.Point{X: w * DateLeftRatio, Y: h * DateTopRatio}
	}
}

// floorDiv divides rounding toward negative infinity, unlike Go's /,
// which truncates. It matters when text is wider than the canvas.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
