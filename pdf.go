package main

import (
	"bytes"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ---------------------------------------------------------------------------
// PDF Generation
// ---------------------------------------------------------------------------

// typeface is the caption font. Core fonts only understand Windows-1252, so
// their text is re-encoded before measuring and drawing.
type typeface struct {
	family string
	style  string
	size   float64
	encode func(string) string
}

// newTypeface registers the configured font with pdf.
func newTypeface(pdf *fpdf.Fpdf, fc FontConfig) (*typeface, error) {
	tf := &typeface{family: fc.Family, style: fc.Style, size: fc.Size}

	if fc.File == "" {
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		tf.encode = func(s string) string {
			out, err := enc.String(s)
			if err != nil {
				return s
			}
			return out
		}
		return tf, nil
	}

	data, err := os.ReadFile(fc.File)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read font")
	}
	pdf.AddUTF8FontFromBytes(fc.Family, fc.Style, data)
	if pdf.Err() {
		return nil, errors.Wrapf(pdf.Error(), "failed to load font %s", fc.File)
	}
	tf.encode = func(s string) string { return s }
	return tf, nil
}

func (tf *typeface) apply(pdf *fpdf.Fpdf) {
	pdf.SetFont(tf.family, tf.style, tf.size)
}

// newMeasurer measures text with the font currently set on pdf.
// fpdf documents are not safe for concurrent use, and neither is this.
func newMeasurer(pdf *fpdf.Fpdf, tf *typeface) Measurer {
	return MeasureFunc(func(s string) (float64, error) {
		w := pdf.GetStringWidth(tf.encode(s))
		if pdf.Err() {
			return 0, errors.Wrap(pdf.Error(), "failed to measure text")
		}
		return w, nil
	})
}

// newPosterDocument creates an empty document whose pages are the canvas
// scaled to points.
func newPosterDocument(cfg *Config) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: fpdf.SizeType{
			Wd: cfg.Canvas.Width * cfg.Canvas.Scale,
			Ht: cfg.Canvas.Height * cfg.Canvas.Scale,
		},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	return pdf
}

// beginCanvas starts a page drawn in canvas units.
func beginCanvas(pdf *fpdf.Fpdf, cfg *Config) {
	pdf.AddPage()
	pdf.TransformBegin()
	pdf.TransformScale(cfg.Canvas.Scale*100, cfg.Canvas.Scale*100, 0, 0)
}

// createPosterPDF renders the edition: for each poster, a caption page
// followed by the poster page.
func createPosterPDF(ed *Edition, cfg *Config, log *zap.SugaredLogger) ([]byte, error) {
	pdf := newPosterDocument(cfg)
	pdf.SetTitle("Tecniquim 0x00", true)
	pdf.SetSubject(ed.ID, false)
	pdf.SetCreator("tecniquim "+version, false)
	pdf.SetCreationDate(ed.Date)

	tf, err := newTypeface(pdf, cfg.Font)
	if err != nil {
		return nil, err
	}
	tf.apply(pdf)
	captions, err := WrapAll(ed.Captions, cfg.Caption.Width, newMeasurer(pdf, tf))
	if err != nil {
		return nil, errors.Wrap(err, "failed to wrap captions")
	}
	leading := cfg.CaptionLeading()

	for i, text := range captions {
		// Front: wrapped caption. The leading empty line of the wrapped
		// text shifts the caption one line below its origin.
		beginCanvas(pdf, cfg)
		tf.apply(pdf)
		lines := strings.Split(text, "\n")
		for j, line := range lines {
			if line == "" {
				continue
			}
			pdf.Text(cfg.Caption.X, cfg.Caption.Y+float64(j)*leading, tf.encode(line))
		}
		pdf.TransformEnd()
		log.Debugw("caption page", "poster", i+1, "lines", len(lines)-1)

		// Back: the poster shape.
		beginCanvas(pdf, cfg)
		pdf.SetLineWidth(cfg.Posters.LineWidth)
		pdf.SetXY(cfg.Posters.X, cfg.Posters.Y)
		pdf.SVGBasicWrite(&ed.Shapes[i], cfg.Posters.Scale)
		pdf.TransformEnd()
		log.Debugw("poster page", "poster", i+1, "file", ed.Posters[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render PDF")
	}
	return buf.Bytes(), nil
}

// writePDF stores rendered data under filename.
func writePDF(filename string, data []byte) error {
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}
	return nil
}
