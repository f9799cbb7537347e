package main

import (
	"bytes"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// PDF Overlay
// ---------------------------------------------------------------------------

const (
	defaultOverlayOutput = "output.pdf"

	// overlayStyle stamps the overlay page as is: natural size, anchored at
	// the bottom-left corner, no rotation, fully opaque.
	overlayStyle = "scalefactor:1 abs, position:bl, offset:0 0, rotation:0, opacity:1"
)

var (
	// ErrEmptyOverlay is returned when the overlay document has no pages.
	ErrEmptyOverlay = errors.New("overlay has no pages")

	// ErrEmptyBase is returned when the base document has no pages.
	ErrEmptyBase = errors.New("base has no pages")
)

// overlayPage returns the overlay page stamped onto base page n (both
// 1-based). A shorter overlay is cycled.
func overlayPage(n, overlayPages int) int {
	return (n-1)%overlayPages + 1
}

// overlayPDF draws the pages of overlay on top of the pages of base and
// writes the result to output. It returns the number of pages written.
func overlayPDF(base, overlay, output string, log *zap.SugaredLogger) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	basePages, err := api.PageCountFile(base)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", base)
	}
	if basePages == 0 {
		return 0, errors.Wrap(ErrEmptyBase, base)
	}

	// The overlay is read once and handed to pdfcpu as a reader, so its
	// name carries no meaning (no extension or page suffix is parsed).
	data, err := os.ReadFile(overlay)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", overlay)
	}
	overlayPages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", overlay)
	}
	if overlayPages == 0 {
		return 0, errors.Wrap(ErrEmptyOverlay, overlay)
	}

	// One stamp per overlay page, shared by every base page it lands on.
	stamps := make([]*model.Watermark, overlayPages)
	byPage := make(map[int]*model.Watermark, basePages)

	for n := 1; n <= basePages; n++ {
		src := overlayPage(n, overlayPages)
		if stamps[src-1] == nil {
			wm, err := api.PDFWatermarkForReadSeeker(bytes.NewReader(data), src, overlayStyle, true, false, types.POINTS)
			if err != nil {
				return 0, errors.Wrapf(err, "failed to prepare page %d of %s", src, overlay)
			}
			stamps[src-1] = wm
		}
		byPage[n] = stamps[src-1]
		log.Debugw("overlay page", "base", n, "overlay", src)
	}

	if err := api.AddWatermarksMapFile(base, output, byPage, conf); err != nil {
		return 0, errors.Wrapf(err, "failed to write %s", output)
	}
	return basePages, nil
}
