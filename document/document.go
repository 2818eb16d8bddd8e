// Package document wraps pdfcpu behind the small provider surface the trim
// core needs: opening a PDF, reading per-page geometry, and assembling the
// cropped output. All boxes are exchanged in document space (y up).
package document

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdftrim/trim"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrOpenFailure  = errors.New("failed to open PDF")
)

// NormalizePath strips a file:// scheme and decodes percent escapes, so
// paths pasted from a file manager work as-is.
func NormalizePath(raw string) string {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "file://") {
		if u, err := url.Parse(path); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return path
}

// Handle references an opened document for the lifetime of a session.
type Handle struct {
	Path      string
	PageCount int
}

// Provider reads and writes PDFs via pdfcpu.
type Provider struct {
	conf *model.Configuration
}

func NewProvider() *Provider {
	return &Provider{conf: api.LoadConfiguration()}
}

// Open checks the file exists and is a readable PDF and returns its handle.
func (p *Provider) Open(path string) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}

	return &Handle{Path: path, PageCount: count}, nil
}

// MediaBox returns the media box of a zero-based page. Pages inheriting
// their box from the page tree fall back to the page dimensions with the
// origin at (0,0).
func (p *Provider) MediaBox(h *Handle, page int) (trim.CropBox, error) {
	ctx, err := api.ReadContextFile(h.Path)
	if err != nil {
		return trim.CropBox{}, fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}

	pageDict, _, _, err := ctx.PageDict(page+1, false)
	if err != nil {
		return trim.CropBox{}, fmt.Errorf("%w: page %d: %v", ErrOpenFailure, page+1, err)
	}

	if obj, found := pageDict.Find("MediaBox"); found {
		if arr, err := ctx.DereferenceArray(obj); err == nil {
			if box, ok := rectFromArray(arr); ok {
				return box, nil
			}
		}
	}

	dims, err := api.PageDimsFile(h.Path)
	if err != nil || page >= len(dims) {
		return trim.CropBox{}, fmt.Errorf("%w: no media box for page %d", ErrOpenFailure, page+1)
	}
	return trim.CropBox{X1: dims[page].Width, Y1: dims[page].Height}, nil
}

// rectFromArray converts a PDF rectangle array to a CropBox.
func rectFromArray(arr types.Array) (trim.CropBox, bool) {
	if len(arr) != 4 {
		return trim.CropBox{}, false
	}
	coords := make([]float64, 4)
	for i, obj := range arr {
		v, ok := floatValue(obj)
		if !ok {
			return trim.CropBox{}, false
		}
		coords[i] = v
	}
	return trim.CropBox{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}, true
}

func floatValue(obj types.Object) (float64, bool) {
	switch v := obj.(type) {
	case types.Float:
		return float64(v), true
	case types.Integer:
		return float64(v), true
	}
	return 0, false
}
