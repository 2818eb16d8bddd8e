package trim

// PageCrop pairs a zero-based page index with its computed crop box.
type PageCrop struct {
	Page int     `json:"page"`
	Box  CropBox `json:"box"`
}

// BoxFunc returns the media box for a zero-based page index.
type BoxFunc func(page int) (CropBox, error)

// Session is one document review session: the trim store for the selected
// range plus the page currently being viewed and its uncommitted edits.
// Edits to the viewed page stay live until the user navigates away or an
// export flushes them, mirroring how trims are only saved on page switch.
type Session struct {
	store   *Store
	rng     PageRange
	current int
	live    Spec
	viewing bool
}

func NewSession() *Session {
	return &Session{store: NewStore()}
}

// LoadRange selects a new page range, discarding all prior trim state.
// On an invalid range nothing changes.
func (s *Session) LoadRange(r PageRange, pageCount int) error {
	if err := s.store.Initialize(r, pageCount); err != nil {
		return err
	}
	s.rng = r
	s.viewing = false
	s.live = Spec{}
	return nil
}

func (s *Session) Range() PageRange {
	return s.rng
}

// Viewing reports the page currently under review and its live spec.
func (s *Session) Viewing() (int, Spec, bool) {
	return s.current, s.live, s.viewing
}

// ViewPage flushes the previously viewed page's edits into the store and
// makes page the viewed one, returning its stored spec.
func (s *Session) ViewPage(page int) Spec {
	s.Flush()
	s.current = page
	s.live = s.store.Get(page)
	s.viewing = true
	return s.live
}

// Edit updates the spec for page. Edits to the viewed page stay live until
// the next flush; any other page is written straight to the store.
func (s *Session) Edit(page int, spec Spec) {
	if s.viewing && page == s.current {
		s.live = spec
		return
	}
	s.store.Set(page, spec)
}

// Get returns the effective spec for page, live edits included.
func (s *Session) Get(page int) Spec {
	if s.viewing && page == s.current {
		return s.live
	}
	return s.store.Get(page)
}

// Flush commits the viewed page's live edits into the store.
func (s *Session) Flush() {
	if s.viewing {
		s.store.Set(s.current, s.live)
	}
}

// Snapshot flushes live edits and returns the full trim state.
func (s *Session) Snapshot() map[int]Spec {
	s.Flush()
	return s.store.Snapshot()
}

// ExportPlan flushes live edits and computes one crop per page of the
// selected range, in ascending page order. The session state is left intact
// so a failed or repeated export can reuse it.
func (s *Session) ExportPlan(mediaBox BoxFunc) ([]PageCrop, error) {
	snap := s.Snapshot()

	plan := make([]PageCrop, 0, s.rng.Len())
	for p := s.rng.Start; p <= s.rng.End; p++ {
		box, err := mediaBox(p)
		if err != nil {
			return nil, err
		}
		cropped, err := ComputeCrop(box, snap[p])
		if err != nil {
			return nil, err
		}
		plan = append(plan, PageCrop{Page: p, Box: cropped})
	}
	return plan, nil
}
