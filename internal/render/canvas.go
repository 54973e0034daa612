// Package render holds the compositing primitives shared by the cover and
// interior builders. All drawing mutates the destination canvas in place.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Common colors
var (
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.NRGBA{A: 255}
)

// NewCanvas returns an opaque canvas filled with c
func NewCanvas(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// Composite alpha-blends src onto dst with src's top-left corner at at
func Composite(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(b.Size())}
	draw.Draw(dst, r, src, b.Min, draw.Over)
}

// FillRect paints r with c, replacing what is underneath
func FillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// BlendRect paints r with a possibly translucent c over what is underneath
func BlendRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// HLine draws a horizontal rule of the given thickness centered on y
func HLine(dst draw.Image, x0, x1, y, thickness int, c color.Color) {
	top := y - thickness/2
	FillRect(dst, image.Rect(x0, top, x1, top+thickness), c)
}

// Flatten composites img over white and returns an opaque copy
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := NewCanvas(b.Dx(), b.Dy(), White)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
