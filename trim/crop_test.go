package trim

import (
	"errors"
	"math"
	"testing"
)

func TestComputeCrop(t *testing.T) {
	letter := CropBox{X0: 0, Y0: 0, X1: 100, Y1: 200}

	t.Run("zero spec passes box through", func(t *testing.T) {
		got, err := ComputeCrop(letter, Spec{})
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		if got != letter {
			t.Errorf("ComputeCrop = %+v, want %+v", got, letter)
		}
	})

	t.Run("cuts are percentages of page height", func(t *testing.T) {
		got, err := ComputeCrop(letter, Spec{Top: 10, Bottom: 20})
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		want := CropBox{X0: 0, Y0: 40, X1: 100, Y1: 180}
		if got != want {
			t.Errorf("ComputeCrop = %+v, want %+v", got, want)
		}
	})

	t.Run("horizontal edges never move", func(t *testing.T) {
		box := CropBox{X0: 12.5, Y0: 30, X1: 580, Y1: 760}
		got, err := ComputeCrop(box, Spec{Top: 33.3, Bottom: 7})
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		if got.X0 != box.X0 || got.X1 != box.X1 {
			t.Errorf("x edges = %.2f, %.2f, want %.2f, %.2f", got.X0, got.X1, box.X0, box.X1)
		}
	})

	t.Run("height identity for valid cuts", func(t *testing.T) {
		specs := []Spec{
			{Top: 0, Bottom: 0},
			{Top: 5, Bottom: 5},
			{Top: 10, Bottom: 20},
			{Top: 49.9, Bottom: 49.9},
			{Top: 99.9, Bottom: 0},
			{Top: 0, Bottom: 33.3},
		}
		box := CropBox{X0: 0, Y0: 50, X1: 420, Y1: 892}
		height := box.Height()
		for _, spec := range specs {
			got, err := ComputeCrop(box, spec)
			if err != nil {
				t.Fatalf("ComputeCrop(%+v) error: %v", spec, err)
			}
			want := height * (1 - (spec.Top+spec.Bottom)/100)
			if math.Abs(got.Height()-want) > 1e-9 {
				t.Errorf("height for %+v = %.6f, want %.6f", spec, got.Height(), want)
			}
		}
	})

	t.Run("overlapping cuts clamp to one unit", func(t *testing.T) {
		got, err := ComputeCrop(letter, Spec{Top: 60, Bottom: 50})
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		want := CropBox{X0: 0, Y0: 100, X1: 100, Y1: 101}
		if got != want {
			t.Errorf("ComputeCrop = %+v, want %+v", got, want)
		}
	})

	t.Run("exact 100 percent combined clamps", func(t *testing.T) {
		got, err := ComputeCrop(letter, Spec{Top: 50, Bottom: 50})
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		if got.Height() != 1 {
			t.Errorf("height = %.6f, want 1", got.Height())
		}
	})

	t.Run("pure over identical inputs", func(t *testing.T) {
		spec := Spec{Top: 17.5, Bottom: 8.25}
		first, err := ComputeCrop(letter, spec)
		if err != nil {
			t.Fatalf("ComputeCrop error: %v", err)
		}
		for i := 0; i < 5; i++ {
			got, err := ComputeCrop(letter, spec)
			if err != nil {
				t.Fatalf("ComputeCrop error: %v", err)
			}
			if got != first {
				t.Errorf("ComputeCrop = %+v, want %+v", got, first)
			}
		}
	})

	t.Run("non-positive height rejected", func(t *testing.T) {
		flat := CropBox{X0: 0, Y0: 200, X1: 100, Y1: 200}
		if _, err := ComputeCrop(flat, Spec{}); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("flat box error = %v, want ErrDegenerateGeometry", err)
		}
		inverted := CropBox{X0: 0, Y0: 200, X1: 100, Y1: 100}
		if _, err := ComputeCrop(inverted, Spec{Top: 10}); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("inverted box error = %v, want ErrDegenerateGeometry", err)
		}
	})
}
