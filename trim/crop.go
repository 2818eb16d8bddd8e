package trim

import (
	"errors"
	"fmt"
)

// ErrDegenerateGeometry is returned when a page box has non-positive height.
// Well-formed PDF pages never trigger it.
var ErrDegenerateGeometry = errors.New("degenerate page geometry")

// Spec holds the cut percentages for one page. Values come from the UI in
// [0, 99.9]; the pair is allowed to sum past 100, ComputeCrop clamps that case.
type Spec struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// CropBox is a rectangle in PDF document space: y grows upward,
// Y0 is the bottom edge and Y1 the top edge.
type CropBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (b CropBox) Width() float64 {
	return b.X1 - b.X0
}

func (b CropBox) Height() float64 {
	return b.Y1 - b.Y0
}

// ComputeCrop cuts the top and bottom of box by the spec percentages and
// returns the resulting box. Horizontal edges pass through unchanged.
//
// When the cuts overlap or exceed the page height the result is clamped to a
// box one unit tall instead of failing, so an over-cut page exports as a
// near-invisible sliver rather than an error.
func ComputeCrop(box CropBox, s Spec) (CropBox, error) {
	height := box.Y1 - box.Y0
	if height <= 0 {
		return CropBox{}, fmt.Errorf("%w: height %.2f", ErrDegenerateGeometry, height)
	}

	topCut := s.Top / 100 * height
	bottomCut := s.Bottom / 100 * height

	newY0 := box.Y0 + bottomCut
	newY1 := box.Y1 - topCut
	if newY1 <= newY0 {
		newY1 = newY0 + 1
	}

	return CropBox{X0: box.X0, Y0: newY0, X1: box.X1, Y1: newY1}, nil
}
