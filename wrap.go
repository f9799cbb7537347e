package main

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ---------------------------------------------------------------------------
// Caption Wrapping
// ---------------------------------------------------------------------------

// ErrInvalidWidth is returned when the wrap width is not a positive number.
var ErrInvalidWidth = errors.New("wrap width must be positive")

// Measurer reports the rendered width of a string.
type Measurer interface {
	Measure(s string) (float64, error)
}

// MeasureFunc adapts a plain function to the Measurer interface.
type MeasureFunc func(s string) (float64, error)

// Measure calls f(s).
func (f MeasureFunc) Measure(s string) (float64, error) {
	return f(s)
}

// Wrap breaks phrase into lines no wider than maxWidth, breaking only at
// spaces. Every line, including the first, is preceded by "\n", so the result
// always starts with an empty line. A word wider than maxWidth is left whole
// on its own line.
func Wrap(phrase string, maxWidth float64, m Measurer) (string, error) {
	lines, err := wrapLines(phrase, maxWidth, m)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String(), nil
}

// Lines is like Wrap but returns the content lines without the leading empty
// line.
func Lines(phrase string, maxWidth float64, m Measurer) ([]string, error) {
	return wrapLines(phrase, maxWidth, m)
}

// WrapAll wraps every phrase with Wrap, in order.
func WrapAll(phrases []string, maxWidth float64, m Measurer) ([]string, error) {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		w, err := Wrap(p, maxWidth, m)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to wrap phrase %d", i+1)
		}
		out[i] = w
	}
	return out, nil
}

func wrapLines(phrase string, maxWidth float64, m Measurer) ([]string, error) {
	if !(maxWidth > 0) || math.IsInf(maxWidth, 1) {
		return nil, errors.Wrapf(ErrInvalidWidth, "got %v", maxWidth)
	}

	var lines []string
	candidate := make([]rune, 0, 64)

	for _, r := range phrase {
		candidate = append(candidate, r)

		w, err := m.Measure(string(candidate))
		if err != nil {
			return nil, err
		}
		if w <= maxWidth {
			continue
		}

		// No space to break at: the run stays whole until one arrives.
		space := lastSpace(candidate)
		if space < 0 {
			continue
		}
		lines = append(lines, string(candidate[:space]))
		candidate = append(candidate[:0], candidate[space+1:]...)
	}

	return append(lines, string(candidate)), nil
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
