package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// ---------------------------------------------------------------------------
// Edition Inputs
// ---------------------------------------------------------------------------

const (
	lineWidth  = 60
	lineSingle = "------------------------------------------------------------"
	lineDouble = "============================================================"

	// maxParallelShapes bounds concurrent SVG parsing.
	maxParallelShapes = 4
)

// ErrShortEdition is returned when there are fewer captions or posters than
// the configured run.
var ErrShortEdition = errors.New("not enough material for the edition")

// Edition is one print run: caption i goes on the front of poster i.
type Edition struct {
	ID       string
	Date     time.Time
	Captions []string
	Posters  []string // poster file paths
	Shapes   []fpdf.SVGBasicType
}

// loadHoroscopes reads one caption per line. A trailing empty line is not a
// caption.
func loadHoroscopes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read horoscopes")
	}

	text := norm.NFC.String(strings.ReplaceAll(string(data), "\r\n", "\n"))
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// findPosters lists the poster files in dir matching pattern, sorted by name.
func findPosters(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid poster pattern %q", pattern)
	}
	sort.Strings(matches)

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return paths, nil
}

// loadPosters parses the SVG posters concurrently, keeping their order.
func loadPosters(ctx context.Context, paths []string) ([]fpdf.SVGBasicType, error) {
	shapes := make([]fpdf.SVGBasicType, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelShapes)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(err, "failed to read poster")
			}
			shape, err := fpdf.SVGBasicParse(data)
			if err != nil {
				return errors.Wrapf(err, "failed to parse poster %s", path)
			}
			shapes[i] = shape
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shapes, nil
}

// newEdition gathers the first cfg.Run captions and posters.
func newEdition(ctx context.Context, cfg *Config, now time.Time) (*Edition, error) {
	captions, err := loadHoroscopes(cfg.Horoscopes)
	if err != nil {
		return nil, err
	}
	if len(captions) < cfg.Run {
		return nil, errors.Wrapf(ErrShortEdition, "%d horoscopes in %s, run needs %d",
			len(captions), cfg.Horoscopes, cfg.Run)
	}

	posters, err := findPosters(cfg.Posters.Dir, cfg.Posters.Pattern)
	if err != nil {
		return nil, err
	}
	if len(posters) < cfg.Run {
		return nil, errors.Wrapf(ErrShortEdition, "%d posters in %s, run needs %d",
			len(posters), cfg.Posters.Dir, cfg.Run)
	}
	posters = posters[:cfg.Run]

	shapes, err := loadPosters(ctx, posters)
	if err != nil {
		return nil, err
	}

	return &Edition{
		ID:       editionID(cfg.Run, now),
		Date:     now,
		Captions: captions[:cfg.Run],
		Posters:  posters,
		Shapes:   shapes,
	}, nil
}

// editionID generates an edition reference.
// Format: TQ0-RUN-YYYYMMDD-XXXX (e.g., TQ0-3-20261019-A7K2)
func editionID(run int, now time.Time) string {
	return fmt.Sprintf("TQ0-%d-%s-%s", run, now.Format("20060102"), editionSuffix(rand.Reader, now))
}

// editionSuffix draws four reference characters from r. If r fails, the
// characters are taken from the clock instead.
func editionSuffix(r io.Reader, now time.Time) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, 4)
	if _, err := io.ReadFull(r, b); err != nil {
		n := uint64(now.UnixNano())
		for i := range b {
			b[i] = charset[n%uint64(len(charset))]
			n /= uint64(len(charset))
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// formatDate formats a date as DD/MM/YYYY.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// rightAlign returns a string padded to align right within given width.
func rightAlign(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// ---------------------------------------------------------------------------
// Caption Preview
// ---------------------------------------------------------------------------

// buildPreviewHeader creates the title block of a caption preview.
func buildPreviewHeader(ed *Edition) string {
	var b strings.Builder

	title := "TECNIQUIM 0x00"
	b.WriteString(lineDouble + "\n")
	b.WriteString(strings.Repeat(" ", (lineWidth-len(title))/2) + title + "\n")
	b.WriteString(lineDouble + "\n\n")

	b.WriteString(fmt.Sprintf("Edição:   %s\n", ed.ID))
	b.WriteString(fmt.Sprintf("Data:     %s\n", formatDate(ed.Date)))
	b.WriteString(fmt.Sprintf("Tiragem:  %d\n\n", len(ed.Captions)))

	return b.String()
}

// buildCaptionBlock renders one wrapped caption with the measured width of
// each line. Lines wider than limit are flagged.
func buildCaptionBlock(index int, poster string, lines []string, widths []float64, limit float64) string {
	var b strings.Builder

	b.WriteString(lineSingle + "\n")
	b.WriteString(fmt.Sprintf("%d) %s\n", index+1, filepath.Base(poster)))
	b.WriteString(lineSingle + "\n")

	for i, line := range lines {
		w := fmt.Sprintf("%.1f", widths[i])
		if widths[i] > limit {
			w += " !"
		}
		b.WriteString(fmt.Sprintf("  %-44s%s\n", line, rightAlign(w, 12)))
	}
	b.WriteString("\n")

	return b.String()
}
