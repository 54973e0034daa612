package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// LineArt turns a page into black strokes on a transparent background.
// Luminance is stretched to the full range first so faint scans stay visible.
func LineArt(src image.Image) *image.NRGBA {
	gray := imaging.Grayscale(src)
	b := gray.Bounds()

	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(gray.Pix); i += 4 {
		v := gray.Pix[i]
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := 0; i < len(gray.Pix); i += 4 {
		v := int(gray.Pix[i])
		if hi > lo {
			v = (v - int(lo)) * 255 / (int(hi) - int(lo))
		}
		// black, with opacity growing as the source gets darker
		out.Pix[i+3] = uint8(255 - v)
	}
	return out
}

// Sheet styling for tilted preview pages
const (
	SheetBorderPx  = 12
	SheetShadowPx  = 12
	sheetShadowA   = 180
	sheetMinPadPx  = 8
	sheetPadFactor = 20
)

// FitWithin scales src to the largest size that fits target, keeping its
// aspect ratio. Upscaling is allowed.
func FitWithin(src, target image.Point) image.Point {
	scale := min(float64(target.X)/float64(src.X), float64(target.Y)/float64(src.Y))
	return image.Pt(max(1, int(float64(src.X)*scale)), max(1, int(float64(src.Y)*scale)))
}

// PlaceSheet draws art on a white paper matte filling box, rotates it by
// angle degrees counter-clockwise, and composites it with a soft drop shadow
// centered on box. It reports false when the box is too small to hold art.
func PlaceSheet(dst draw.Image, art image.Image, box image.Rectangle, angle float64) bool {
	w, h := box.Dx(), box.Dy()
	pad := max(sheetMinPadPx, min(w, h)/sheetPadFactor)
	innerW := w - 2*(SheetBorderPx+pad)
	innerH := h - 2*(SheetBorderPx+pad)
	if innerW <= 0 || innerH <= 0 {
		return false
	}

	paper := imaging.New(w, h, White)
	ab := art.Bounds()
	size := FitWithin(ab.Size(), image.Pt(innerW, innerH))
	inner := imaging.Resize(art, size.X, size.Y, imaging.Lanczos)
	Composite(paper, inner, image.Pt((w-size.X)/2, (h-size.Y)/2))

	rotated := imaging.Rotate(paper, angle, color.Transparent)
	rb := rotated.Bounds()

	// top-left of the rotated sheet so that its center matches the box center
	at := image.Pt(box.Min.X-(rb.Dx()-w)/2, box.Min.Y-(rb.Dy()-h)/2)

	shadow := dropShadow(rotated, SheetShadowPx)
	margin := 2 * SheetShadowPx
	Composite(dst, shadow, at.Add(image.Pt(SheetShadowPx-margin, SheetShadowPx-margin)))
	Composite(dst, rotated, at)
	return true
}

// dropShadow returns a blurred black silhouette of img's alpha, padded by
// twice the blur radius on every side.
func dropShadow(img *image.NRGBA, blur int) *image.NRGBA {
	b := img.Bounds()
	margin := 2 * blur
	sh := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)+3]
			if a == 0 {
				continue
			}
			i := sh.PixOffset(x+margin, y+margin)
			sh.Pix[i+3] = uint8(int(a) * sheetShadowA / 255)
		}
	}
	return imaging.Blur(sh, float64(blur))
}
