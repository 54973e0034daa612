package geometry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fantasybroadcast/colorbook/internal/models"
)

// Print constants for the wraparound cover (inches)
const (
	DefaultDPI = 300
	BleedIn    = 0.125
	// SafeMarginIn keeps text blocks inside the trim
	SafeMarginIn = 0.25
	// MinSpineTextPages is the platform minimum page count for spine text
	MinSpineTextPages = 79
)

// Paper identifies an interior paper stock
type Paper string

const (
	PaperWhite         Paper = "white"
	PaperCream         Paper = "cream"
	PaperColorPremium  Paper = "color-premium"
	PaperColorStandard Paper = "color-standard"
)

// thickness per page in inches
var paperThickness = map[Paper]float64{
	PaperWhite:         0.002252,
	PaperCream:         0.0025,
	PaperColorPremium:  0.002347,
	PaperColorStandard: 0.002252,
}

// Papers lists the accepted paper identifiers
func Papers() []Paper {
	return []Paper{PaperWhite, PaperCream, PaperColorPremium, PaperColorStandard}
}

// ParsePaper accepts the hyphenated identifiers and their underscore spellings
func ParsePaper(s string) (Paper, error) {
	p := Paper(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if _, ok := paperThickness[p]; !ok {
		names := make([]string, 0, len(paperThickness))
		for _, known := range Papers() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("%w: unknown paper type %q (want one of %s)", models.ErrInvalidArgument, s, strings.Join(names, ", "))
	}
	return p, nil
}

// Thickness returns the per-page thickness in inches
func (p Paper) Thickness() float64 {
	return paperThickness[p]
}

// Trim is the final page size in inches
type Trim struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (t Trim) String() string {
	return strconv.FormatFloat(t.Width, 'f', -1, 64) + "x" + strconv.FormatFloat(t.Height, 'f', -1, 64)
}

var trimPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)\s*$`)

// ParseTrim parses a trim size such as "8.5x11"
func ParseTrim(s string) (Trim, error) {
	m := trimPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Trim{}, fmt.Errorf("%w: trim must look like '8.5x11' (inches), got %q", models.ErrInvalidArgument, s)
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Trim{}, fmt.Errorf("%w: trim width: %v", models.ErrInvalidArgument, err)
	}
	h, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Trim{}, fmt.Errorf("%w: trim height: %v", models.ErrInvalidArgument, err)
	}
	if w <= 0 || h <= 0 {
		return Trim{}, fmt.Errorf("%w: trim dimensions must be positive, got %q", models.ErrInvalidArgument, s)
	}
	return Trim{Width: w, Height: h}, nil
}

// InchesToPx converts inches to pixels, rounding to the nearest integer
func InchesToPx(inches float64, dpi int) int {
	return int(math.Round(inches * float64(dpi)))
}

// Span is a horizontal pixel range [X0, X1)
type Span struct {
	X0 int `yaml:"x0"`
	X1 int `yaml:"x1"`
}

// Width returns the span width
func (s Span) Width() int {
	return s.X1 - s.X0
}

// Geometry holds the derived pixel dimensions of a wraparound cover
type Geometry struct {
	DPI         int         `yaml:"dpi"`
	Pages       int         `yaml:"pages"`
	Paper       Paper       `yaml:"paper"`
	Trim        Trim        `yaml:"trim"`
	SpineInches float64     `yaml:"spine_inches"`
	BleedPx     int         `yaml:"bleed_px"`
	BleedPairPx int         `yaml:"bleed_pair_px"`
	SpinePx     int         `yaml:"spine_px"`
	TrimPx      models.Size `yaml:"trim_px"`
	Total       models.Size `yaml:"total"`
	Back        Span        `yaml:"back"`
	Spine       Span        `yaml:"spine"`
	Front       Span        `yaml:"front"`
}

// Compute derives the cover geometry for a trim, page count and paper stock
func Compute(trim Trim, pages int, paper Paper, dpi int) (Geometry, error) {
	if trim.Width <= 0 || trim.Height <= 0 {
		return Geometry{}, fmt.Errorf("%w: trim dimensions must be positive", models.ErrInvalidArgument)
	}
	if pages < 0 {
		return Geometry{}, fmt.Errorf("%w: page count must not be negative, got %d", models.ErrInvalidArgument, pages)
	}
	if _, ok := paperThickness[paper]; !ok {
		return Geometry{}, fmt.Errorf("%w: unknown paper type %q", models.ErrInvalidArgument, paper)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	spineIn := paper.Thickness() * float64(pages)
	g := Geometry{
		DPI:         dpi,
		Pages:       pages,
		Paper:       paper,
		Trim:        trim,
		SpineInches: spineIn,
		BleedPx:     InchesToPx(BleedIn, dpi),
		BleedPairPx: InchesToPx(2*BleedIn, dpi),
		SpinePx:     InchesToPx(spineIn, dpi),
		TrimPx: models.Size{
			W: InchesToPx(trim.Width, dpi),
			H: InchesToPx(trim.Height, dpi),
		},
	}
	g.Total = models.Size{
		W: g.BleedPairPx + 2*g.TrimPx.W + g.SpinePx,
		H: g.BleedPairPx + g.TrimPx.H,
	}

	g.Back = Span{X0: g.BleedPx, X1: g.BleedPx + g.TrimPx.W}
	g.Spine = Span{X0: g.Back.X1, X1: g.Back.X1 + g.SpinePx}
	g.Front = Span{X0: g.Spine.X1, X1: g.Spine.X1 + g.TrimPx.W}
	return g, nil
}

// Px converts inches to pixels at the geometry's resolution
func (g Geometry) Px(inches float64) int {
	return InchesToPx(inches, g.DPI)
}

// SpineTextAllowed reports whether the platform permits spine text
func SpineTextAllowed(pages int) bool {
	return pages >= MinSpineTextPages
}
