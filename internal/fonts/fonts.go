// Package fonts resolves font files on disk and measures text set in them.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fantasybroadcast/colorbook/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Candidate font files, project-local first, system fallback last.
// Relative entries are resolved against the configured font directory.
var (
	TitleCandidates = []string{
		"Baloo2-SemiBold.ttf",
		"Fredoka-SemiBold.ttf",
		"ComicNeue-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	}
	BodyCandidates = []string{
		"Inter-Regular.ttf",
		"Quicksand-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}
	InteriorCandidates = []string{
		"ComicNeue-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	}
)

// Candidates builds the probe list: overrides, then the defaults with relative
// names placed under fontDir.
func Candidates(fontDir string, defaults []string, overrides ...string) []string {
	var out []string
	for _, o := range overrides {
		if strings.TrimSpace(o) != "" {
			out = append(out, o)
		}
	}
	for _, d := range defaults {
		if !filepath.IsAbs(d) && fontDir != "" {
			d = filepath.Join(fontDir, d)
		}
		out = append(out, d)
	}
	return out
}

// Resolve returns the first candidate that exists on disk
func Resolve(candidates []string) (string, error) {
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no font file found (tried %s); add a TTF under ./fonts or install DejaVuSans", models.ErrNotFound, strings.Join(candidates, ", "))
}

// Font is a parsed font file that hands out faces by pixel size
type Font struct {
	Path string
	sfnt *opentype.Font
}

// Load parses the font file at path
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return Parse(path, data)
}

// Parse parses font data already in memory
func Parse(name string, data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{Path: name, sfnt: f}, nil
}

// LoadFirst resolves the candidate list and loads the font it finds
func LoadFirst(candidates []string) (*Font, error) {
	path, err := Resolve(candidates)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Face returns a face whose em size is size pixels
func (f *Font) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %gpx face: %w", size, err)
	}
	return face, nil
}
