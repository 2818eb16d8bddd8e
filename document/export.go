package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdftrim/trim"
)

// ErrExportFailure wraps any failure while assembling or writing the output.
var ErrExportFailure = errors.New("failed to export PDF")

// Assemble writes a new PDF to outPath containing exactly the pages of r in
// ascending order, each with its crop from the plan applied. The source file
// is never modified.
func (p *Provider) Assemble(h *Handle, r trim.PageRange, plan []trim.PageCrop, outPath string) error {
	work, err := os.CreateTemp("", "pdftrim-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	work.Close()
	defer os.Remove(work.Name())

	if err := copyFile(h.Path, work.Name()); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}

	for _, pc := range plan {
		if err := p.cropPage(work.Name(), pc.Page, pc.Box); err != nil {
			return err
		}
	}

	selection := []string{fmt.Sprintf("%d-%d", r.Start+1, r.End+1)}
	if err := api.TrimFile(work.Name(), outPath, selection, p.conf); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}

// Preview writes a single-page PDF to outPath: the given page with the crop
// applied, for review before export.
func (p *Provider) Preview(h *Handle, page int, box trim.CropBox, outPath string) error {
	selection := []string{strconv.Itoa(page + 1)}
	if err := api.TrimFile(h.Path, outPath, selection, p.conf); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return p.cropPage(outPath, 0, box)
}

// cropPage sets the crop box of one zero-based page in place.
func (p *Provider) cropPage(path string, page int, box trim.CropBox) error {
	b, err := model.ParseBox(formatBox(box), types.POINTS)
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrExportFailure, page+1, err)
	}
	selection := []string{strconv.Itoa(page + 1)}
	if err := api.CropFile(path, path, selection, b, p.conf); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrExportFailure, page+1, err)
	}
	return nil
}

// formatBox renders a box as a pdfcpu rectangle definition in points.
func formatBox(b trim.CropBox) string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", b.X0, b.Y0, b.X1, b.Y1)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
