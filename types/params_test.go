package types

import "testing"

func TestOpenParamsValidate(t *testing.T) {
	t.Run("valid params pass", func(t *testing.T) {
		params := OpenParams{Path: "/tmp/report.pdf", StartPage: 3, EndPage: 6}
		if errs := Validate(&params); len(errs) > 0 {
			t.Errorf("Validate = %v, want no errors", errs)
		}
	})

	t.Run("missing path rejected", func(t *testing.T) {
		params := OpenParams{StartPage: 1, EndPage: 2}
		if errs := Validate(&params); errs["Path"] == "" {
			t.Errorf("Validate = %v, want Path error", errs)
		}
	})

	t.Run("zero start page rejected", func(t *testing.T) {
		params := OpenParams{Path: "/tmp/report.pdf", StartPage: 0, EndPage: 2}
		if errs := Validate(&params); errs["StartPage"] == "" {
			t.Errorf("Validate = %v, want StartPage error", errs)
		}
	})
}

func TestTrimParamsValidate(t *testing.T) {
	t.Run("zero cuts pass", func(t *testing.T) {
		params := TrimParams{}
		if errs := Validate(&params); len(errs) > 0 {
			t.Errorf("Validate = %v, want no errors", errs)
		}
	})

	t.Run("upper bound is 99.9", func(t *testing.T) {
		params := TrimParams{Top: 99.9, Bottom: 99.9}
		if errs := Validate(&params); len(errs) > 0 {
			t.Errorf("Validate = %v, want no errors", errs)
		}
		params = TrimParams{Top: 100}
		if errs := Validate(&params); errs["Top"] == "" {
			t.Errorf("Validate = %v, want Top error", errs)
		}
	})

	t.Run("negative cut rejected", func(t *testing.T) {
		params := TrimParams{Bottom: -1}
		if errs := Validate(&params); errs["Bottom"] == "" {
			t.Errorf("Validate = %v, want Bottom error", errs)
		}
	})
}
