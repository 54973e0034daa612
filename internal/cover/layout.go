package cover

import (
	"image"
	"math/rand/v2"

	"github.com/fantasybroadcast/colorbook/internal/geometry"
)

// Preview grid per panel
const (
	gridRows = 2
	gridCols = 3
	// each box covers this share of its grid cell
	boxScale = 0.8
	maxTilt  = 15.0
)

// Barcode reservation (inches)
const (
	barcodeWIn        = 2.0
	barcodeHIn        = 1.2
	barcodeBottomIn   = 0.25
	barcodeMinClearIn = 0.1
)

// jitter returns a uniform integer in [-span/10, span/10]
func jitter(rng *rand.Rand, span int) int {
	j := span / 10
	return rng.IntN(2*j+1) - j
}

// panelBoxes lays a jittered grid of boxes over a panel and shuffles it
func panelBoxes(rng *rand.Rand, panel geometry.Span, g geometry.Geometry) []image.Rectangle {
	cellW := panel.Width() / gridCols
	cellH := g.Total.H / gridRows
	w := int(float64(cellW) * boxScale)
	h := int(float64(cellH) * boxScale)

	boxes := make([]image.Rectangle, 0, gridRows*gridCols)
	for r := 0; r < gridRows; r++ {
		for c := 0; c < gridCols; c++ {
			x0 := panel.X0 + c*cellW + jitter(rng, cellW)
			y0 := g.BleedPx + r*cellH + jitter(rng, cellH)
			boxes = append(boxes, image.Rect(x0, y0, x0+w, y0+h))
		}
	}
	rng.Shuffle(len(boxes), func(i, j int) {
		boxes[i], boxes[j] = boxes[j], boxes[i]
	})
	return boxes
}

// tilt returns a rotation angle in degrees within ±maxTilt
func tilt(rng *rand.Rand) float64 {
	return rng.Float64()*2*maxTilt - maxTilt
}

// barcodeBox reserves the blank barcode area near the bottom right of the
// back panel, kept inside the panel's safe margins.
func barcodeBox(g geometry.Geometry) image.Rectangle {
	w := g.Px(barcodeWIn)
	h := g.Px(barcodeHIn)
	margin := g.Px(geometry.SafeMarginIn)

	x := g.Back.X1 - w - margin
	y := g.Total.H - g.BleedPx - h - g.Px(barcodeBottomIn)

	x = max(g.Back.X0+margin, x)
	y = min(g.Total.H-g.BleedPx-h-g.Px(barcodeMinClearIn), y)
	return image.Rect(x, y, x+w, y+h)
}
