package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fantasybroadcast/colorbook/internal/fonts"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Align controls horizontal placement of lines in a text block
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// DrawText draws one line whose line box starts at top-left (x, y)
func DrawText(dst draw.Image, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+fonts.Ascent(face)),
	}
	d.DrawString(text)
}

// DrawLines draws lines as a block with its top-left at (x, y). Centered lines
// are centered within the width of the widest line.
func DrawLines(dst draw.Image, face font.Face, lines []string, x, y, spacing int, align Align, c color.Color) {
	blockW, _ := fonts.BlockSize(face, lines, spacing)
	step := fonts.LineHeight(face) + spacing
	for i, line := range lines {
		lx := x
		if align == AlignCenter {
			lx = x + (blockW-fonts.Measure(face, line))/2
		}
		DrawText(dst, face, line, lx, y+i*step, c)
	}
}

// Shadow describes the blurred pass drawn under text for legibility
type Shadow struct {
	Color  color.Color
	Offset image.Point
	Blur   float64
}

// DrawTextWithShadow draws a blurred shadow copy of text, then text over it
func DrawTextWithShadow(dst draw.Image, face font.Face, text string, x, y int, fill color.Color, sh Shadow) {
	margin := int(3*sh.Blur) + 1
	w := fonts.Measure(face, text) + 2*margin
	h := fonts.LineHeight(face) + 2*margin

	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	DrawText(layer, face, text, margin, margin, sh.Color)
	var blurred image.Image = layer
	if sh.Blur > 0 {
		blurred = imaging.Blur(layer, sh.Blur)
	}
	Composite(dst, blurred, image.Pt(x+sh.Offset.X-margin, y+sh.Offset.Y-margin))

	DrawText(dst, face, text, x, y, fill)
}

// RenderText draws text onto a transparent layer sized to its line box
func RenderText(face font.Face, text string, c color.Color) *image.NRGBA {
	w := max(1, fonts.Measure(face, text))
	layer := image.NewNRGBA(image.Rect(0, 0, w, max(1, fonts.LineHeight(face))))
	DrawText(layer, face, text, 0, 0, c)
	return layer
}
