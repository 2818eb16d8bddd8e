package trim

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a page range fails its bounds check.
var ErrInvalidRange = errors.New("invalid page range")

// PageRange is an inclusive range of zero-based page indices.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Validate checks the range against the invariant start <= end,
// start >= 0, end < pageCount.
func (r PageRange) Validate(pageCount int) error {
	if r.Start < 0 || r.End < 0 || r.Start > r.End || r.End >= pageCount {
		return fmt.Errorf("%w: pages %d-%d, document has %d pages", ErrInvalidRange, r.Start+1, r.End+1, pageCount)
	}
	return nil
}

func (r PageRange) Len() int {
	return r.End - r.Start + 1
}

func (r PageRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// Store tracks one Spec per selected page across a review session.
// It is not safe for concurrent use; callers serialize access per session.
type Store struct {
	trims map[int]Spec
}

func NewStore() *Store {
	return &Store{trims: make(map[int]Spec)}
}

// Initialize replaces all tracked state with a zero Spec for every page in r.
// On an invalid range the previous state is left untouched.
func (s *Store) Initialize(r PageRange, pageCount int) error {
	if err := r.Validate(pageCount); err != nil {
		return err
	}

	trims := make(map[int]Spec, r.Len())
	for p := r.Start; p <= r.End; p++ {
		trims[p] = Spec{}
	}
	s.trims = trims
	return nil
}

// Get returns the stored spec for page, defaulting to the zero spec for
// untracked pages.
func (s *Store) Get(page int) Spec {
	return s.trims[page]
}

// Set overwrites the spec for page unconditionally. Pages outside the active
// range are accepted and stored; range correctness is the caller's concern.
func (s *Store) Set(page int, spec Spec) {
	s.trims[page] = spec
}

// Len returns the number of tracked pages.
func (s *Store) Len() int {
	return len(s.trims)
}

// Snapshot returns a copy of the full page -> spec mapping.
func (s *Store) Snapshot() map[int]Spec {
	snap := make(map[int]Spec, len(s.trims))
	for p, spec := range s.trims {
		snap[p] = spec
	}
	return snap
}
