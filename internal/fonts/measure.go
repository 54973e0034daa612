package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
)

// SizeRange bounds the font-size search in pixels
type SizeRange struct {
	Max  float64
	Min  float64
	Step float64
}

// TitleRange is the search domain for front-cover titles
var TitleRange = SizeRange{Max: 150, Min: 24, Step: 4}

// FitSize returns the largest size in r, stepping down from r.Max, at which
// text fits in maxWidth. Sizes never go below r.Min.
func FitSize(f *Font, text string, maxWidth int, r SizeRange) (float64, error) {
	if r.Step <= 0 || r.Min <= 0 || r.Max < r.Min {
		return 0, fmt.Errorf("invalid size range %+v", r)
	}
	size := r.Max
	for size > r.Min {
		face, err := f.Face(size)
		if err != nil {
			return 0, err
		}
		w := Measure(face, text)
		face.Close()
		if w <= maxWidth {
			return size, nil
		}
		size -= r.Step
	}
	return max(size, r.Min), nil
}

// Measure returns the advance width of text in pixels
func Measure(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

// LineHeight is the ascent plus descent of face
func LineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Ascent returns the distance from the top of a line to its baseline
func Ascent(face font.Face) int {
	return face.Metrics().Ascent.Ceil()
}

// Wrap breaks text into lines no wider than maxWidth. A single word wider
// than maxWidth gets a line of its own.
func Wrap(text string, face font.Face, maxWidth int) []string {
	var lines []string
	var line []string
	for _, w := range strings.Fields(text) {
		test := strings.Join(append(line, w), " ")
		if Measure(face, test) <= maxWidth {
			line = append(line, w)
			continue
		}
		if len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
		}
		line = []string{w}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// BlockSize measures lines stacked with spacing pixels between them
func BlockSize(face font.Face, lines []string, spacing int) (w, h int) {
	if len(lines) == 0 {
		return 0, 0
	}
	for _, l := range lines {
		w = max(w, Measure(face, l))
	}
	h = len(lines)*LineHeight(face) + (len(lines)-1)*spacing
	return w, h
}
