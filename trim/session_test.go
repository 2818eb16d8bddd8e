package trim

import (
	"errors"
	"testing"
)

func fixedBox(box CropBox) BoxFunc {
	return func(int) (CropBox, error) {
		return box, nil
	}
}

func TestSessionNavigation(t *testing.T) {
	t.Run("edits survive navigating away and back", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 4}, 10); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}

		s.ViewPage(2)
		s.Edit(2, Spec{Top: 15, Bottom: 5})
		s.ViewPage(3)
		if got := s.ViewPage(2); got != (Spec{Top: 15, Bottom: 5}) {
			t.Errorf("ViewPage(2) = %+v, want edited spec", got)
		}
	})

	t.Run("live edits are visible before flush", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 2}, 5); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}

		s.ViewPage(1)
		s.Edit(1, Spec{Top: 7, Bottom: 7})
		if got := s.Get(1); got != (Spec{Top: 7, Bottom: 7}) {
			t.Errorf("Get(1) = %+v, want live edit", got)
		}

		page, live, viewing := s.Viewing()
		if !viewing || page != 1 || live != (Spec{Top: 7, Bottom: 7}) {
			t.Errorf("Viewing = %d, %+v, %v, want 1, live edit, true", page, live, viewing)
		}
	})

	t.Run("editing a page not under view writes through", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 2}, 5); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}

		s.ViewPage(0)
		s.Edit(2, Spec{Top: 9, Bottom: 0})
		if got := s.ViewPage(2); got != (Spec{Top: 9, Bottom: 0}) {
			t.Errorf("ViewPage(2) = %+v, want written spec", got)
		}
	})

	t.Run("reselecting a range discards live and stored edits", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 3}, 10); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		s.ViewPage(1)
		s.Edit(1, Spec{Top: 30, Bottom: 30})

		if err := s.LoadRange(PageRange{Start: 5, End: 6}, 10); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		if got := s.Get(1); got != (Spec{}) {
			t.Errorf("Get(1) = %+v after reselection, want zero spec", got)
		}
	})

	t.Run("invalid reselection keeps current state", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 3}, 10); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		s.ViewPage(1)
		s.Edit(1, Spec{Top: 30, Bottom: 30})

		if err := s.LoadRange(PageRange{Start: 8, End: 12}, 10); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("LoadRange error = %v, want ErrInvalidRange", err)
		}
		if got := s.Get(1); got != (Spec{Top: 30, Bottom: 30}) {
			t.Errorf("Get(1) = %+v after rejected reselection, want live edit", got)
		}
	})
}

func TestSessionExportPlan(t *testing.T) {
	box := CropBox{X0: 0, Y0: 0, X1: 100, Y1: 200}

	t.Run("ten page document end to end", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 2, End: 5}, 10); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		s.ViewPage(2)
		s.Edit(2, Spec{Top: 10, Bottom: 20})

		plan, err := s.ExportPlan(fixedBox(box))
		if err != nil {
			t.Fatalf("ExportPlan error: %v", err)
		}
		if len(plan) != 4 {
			t.Fatalf("plan has %d pages, want 4", len(plan))
		}
		for i, pc := range plan {
			if pc.Page != 2+i {
				t.Errorf("plan[%d].Page = %d, want %d", i, pc.Page, 2+i)
			}
		}
		want := CropBox{X0: 0, Y0: 40, X1: 100, Y1: 180}
		if plan[0].Box != want {
			t.Errorf("page 2 box = %+v, want %+v", plan[0].Box, want)
		}
		for _, pc := range plan[1:] {
			if pc.Box != box {
				t.Errorf("page %d box = %+v, want untouched media box", pc.Page, pc.Box)
			}
		}
	})

	t.Run("flushes live edits before planning", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 0}, 1); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		s.ViewPage(0)
		s.Edit(0, Spec{Top: 60, Bottom: 50})

		plan, err := s.ExportPlan(fixedBox(box))
		if err != nil {
			t.Fatalf("ExportPlan error: %v", err)
		}
		want := CropBox{X0: 0, Y0: 100, X1: 100, Y1: 101}
		if plan[0].Box != want {
			t.Errorf("clamped box = %+v, want %+v", plan[0].Box, want)
		}
	})

	t.Run("state survives planning for repeat exports", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 1}, 5); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		s.ViewPage(1)
		s.Edit(1, Spec{Top: 5, Bottom: 5})

		first, err := s.ExportPlan(fixedBox(box))
		if err != nil {
			t.Fatalf("ExportPlan error: %v", err)
		}
		second, err := s.ExportPlan(fixedBox(box))
		if err != nil {
			t.Fatalf("ExportPlan error: %v", err)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("plan[%d] changed between exports: %+v vs %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("media box failures abort the plan", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 2}, 5); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		boom := errors.New("unreadable page")
		_, err := s.ExportPlan(func(int) (CropBox, error) { return CropBox{}, boom })
		if !errors.Is(err, boom) {
			t.Errorf("ExportPlan error = %v, want wrapped box error", err)
		}
	})

	t.Run("degenerate media box aborts the plan", func(t *testing.T) {
		s := NewSession()
		if err := s.LoadRange(PageRange{Start: 0, End: 0}, 1); err != nil {
			t.Fatalf("LoadRange error: %v", err)
		}
		flat := CropBox{X0: 0, Y0: 100, X1: 50, Y1: 100}
		if _, err := s.ExportPlan(fixedBox(flat)); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("ExportPlan error = %v, want ErrDegenerateGeometry", err)
		}
	})
}
