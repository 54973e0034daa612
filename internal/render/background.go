package render

import (
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// BackgroundKind selects how the cover background is painted
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundDefault  BackgroundKind = "default"
)

// PastelPalettes are the named gradient variants, top color then bottom color
var PastelPalettes = [][2]string{
	{"#FDF2F8", "#DBEAFE"},
	{"#FDE68A", "#A7F3D0"},
	{"#E9D5FF", "#BFDBFE"},
	{"#FFE4E6", "#FEF9C3"},
	{"#E0F2FE", "#DCFCE7"},
}

// DefaultBackgroundHex is the soft teal used when a background value matches nothing
const DefaultBackgroundHex = "#E0F2FE"

const gradientPrefix = "gradient:pastel"

var hexPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Background is a parsed background setting
type Background struct {
	Kind   BackgroundKind
	Top    color.NRGBA
	Bottom color.NRGBA
	// Variant is the pastel palette index for gradients
	Variant int
}

// ParseBackground reads "#RRGGBB" (hash optional) or "gradient:pastel:N".
// Anything else yields the default solid color.
func ParseBackground(s string) Background {
	switch {
	case strings.HasPrefix(s, gradientPrefix):
		idx := 0
		if _, variant, ok := strings.Cut(s, ":pastel:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(variant)); err == nil {
				idx = max(0, min(len(PastelPalettes)-1, n))
			}
		}
		p := PastelPalettes[idx]
		return Background{Kind: BackgroundGradient, Top: MustHex(p[0]), Bottom: MustHex(p[1]), Variant: idx}
	case hexPattern.MatchString(s):
		c := MustHex(s)
		return Background{Kind: BackgroundSolid, Top: c, Bottom: c}
	default:
		c := MustHex(DefaultBackgroundHex)
		return Background{Kind: BackgroundDefault, Top: c, Bottom: c}
	}
}

// ParseHex parses "#RRGGBB" or "RRGGBB"
func ParseHex(s string) (color.NRGBA, error) {
	if !hexPattern.MatchString(s) {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is ParseHex for compile-time constants
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Fill paints the background over the whole of dst
func (bg Background) Fill(dst draw.Image) {
	b := dst.Bounds()
	if bg.Kind != BackgroundGradient {
		FillRect(dst, b, bg.Top)
		return
	}
	h := b.Dy()
	for y := 0; y < h; y++ {
		// mask value of the bottom color, 0 at the top row and 255 at the last
		v := 255 * y / max(1, h-1)
		row := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+y+1)
		FillRect(dst, row, mix(bg.Top, bg.Bottom, v))
	}
}

func mix(top, bottom color.NRGBA, v int) color.NRGBA {
	blend := func(a, b uint8) uint8 {
		return uint8((int(a)*(255-v) + int(b)*v + 127) / 255)
	}
	return color.NRGBA{R: blend(top.R, bottom.R), G: blend(top.G, bottom.G), B: blend(top.B, bottom.B), A: 255}
}

func (bg Background) String() string {
	switch bg.Kind {
	case BackgroundGradient:
		return fmt.Sprintf("gradient:pastel:%d", bg.Variant)
	default:
		return fmt.Sprintf("#%02X%02X%02X", bg.Top.R, bg.Top.G, bg.Top.B)
	}
}
