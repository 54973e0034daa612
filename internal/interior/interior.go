// Package interior builds the multi-page interior PDF of a coloring book:
// two front-matter pages followed by every coloring page of the title.
package interior

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fantasybroadcast/colorbook/internal/export"
	"github.com/fantasybroadcast/colorbook/internal/fonts"
	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/fantasybroadcast/colorbook/internal/manifest"
	"github.com/fantasybroadcast/colorbook/internal/models"
	"github.com/fantasybroadcast/colorbook/internal/pages"
	"github.com/fantasybroadcast/colorbook/internal/render"
)

// Defaults applied by Build when an option is left empty
const (
	DefaultMarginIn  = 0.5
	DefaultBelongsTo = "This Book Belongs To:"
	DefaultPublisher = "Fantasy Broadcast Network"
)

// Bleed extends the page past the trim on the outer edge, top and bottom
const (
	bleedWidthIn  = geometry.BleedIn
	bleedHeightIn = 2 * geometry.BleedIn
)

// Front matter styling (pixels unless noted)
const (
	belongsSize      = 100
	underlineGap     = 100
	underlineLenIn   = 5.0
	underlineWeight  = 5
	copyrightSize    = 60
	copyrightSpacing = 20
)

// DefaultCopyright returns the copyright page text for year
func DefaultCopyright(year int) string {
	return fmt.Sprintf("© %d %s\nAll Rights Reserved", year, DefaultPublisher)
}

// Options describes one interior build
type Options struct {
	SafeTitle string
	Trim      geometry.Trim
	DPI       int
	// MarginIn is kept clear on every side of the trim
	MarginIn float64
	Bleed    bool
	// CopyrightText may span several lines separated by "\n"
	CopyrightText string
	BelongsTo     string

	Root    string
	FontDir string
	Font    string
}

// Result lists what a build wrote
type Result struct {
	Dir        string
	PDFPath    string
	RecordPath string
	Record     manifest.Interior
}

func (o *Options) normalize() error {
	if err := models.CheckSafeTitle(o.SafeTitle); err != nil {
		return err
	}
	if o.Trim == (geometry.Trim{}) {
		o.Trim = geometry.Trim{Width: 8.5, Height: 11}
	}
	if o.Trim.Width <= 0 || o.Trim.Height <= 0 {
		return fmt.Errorf("%w: trim %s must be positive", models.ErrInvalidArgument, o.Trim)
	}
	if o.DPI <= 0 {
		o.DPI = geometry.DefaultDPI
	}
	if o.MarginIn < 0 {
		return fmt.Errorf("%w: margin %g must not be negative", models.ErrInvalidArgument, o.MarginIn)
	}
	if o.CopyrightText == "" {
		o.CopyrightText = DefaultCopyright(time.Now().Year())
	}
	if o.BelongsTo == "" {
		o.BelongsTo = DefaultBelongsTo
	}
	return nil
}

// layout is the pixel frame shared by every interior page
type layout struct {
	page      image.Point
	printable image.Rectangle
}

func newLayout(o Options) (layout, error) {
	px := func(in float64) int { return geometry.InchesToPx(in, o.DPI) }

	trimW, trimH := px(o.Trim.Width), px(o.Trim.Height)
	pageW, pageH := trimW, trimH
	if o.Bleed {
		pageW += px(bleedWidthIn)
		pageH += px(bleedHeightIn)
	}

	m := px(o.MarginIn)
	w, h := trimW-2*m, trimH-2*m
	if w <= 0 || h <= 0 {
		return layout{}, fmt.Errorf("%w: margin %gin leaves no printable area on %s", models.ErrInvalidArgument, o.MarginIn, o.Trim)
	}
	x0 := (pageW - w) / 2
	y0 := (pageH - h) / 2
	return layout{
		page:      image.Pt(pageW, pageH),
		printable: image.Rect(x0, y0, x0+w, y0+h),
	}, nil
}

func (l layout) blank() *image.RGBA {
	return render.NewCanvas(l.page.X, l.page.Y, render.White)
}

// Build renders the interior for opts and writes it into the title directory
func Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	l, err := newLayout(opts)
	if err != nil {
		return nil, err
	}

	f, err := fonts.LoadFirst(fonts.Candidates(opts.FontDir, fonts.InteriorCandidates, opts.Font))
	if err != nil {
		return nil, fmt.Errorf("interior font: %w", err)
	}

	dir := models.TitleDir(opts.Root, opts.SafeTitle)
	refs, err := pages.Discover(dir)
	if err != nil {
		return nil, err
	}
	slog.Info("Building interior",
		"title", opts.SafeTitle,
		"pages", len(refs),
		"page_px", fmt.Sprintf("%dx%d", l.page.X, l.page.Y),
		"bleed", opts.Bleed)

	doc := export.NewDocument(opts.DPI)

	belongs, err := belongsPage(l, f, opts.BelongsTo, opts.DPI)
	if err != nil {
		return nil, err
	}
	if err := doc.AddPage(belongs); err != nil {
		return nil, err
	}
	copyright, err := copyrightPage(l, f, opts.CopyrightText)
	if err != nil {
		return nil, err
	}
	if err := doc.AddPage(copyright); err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := coloringPage(l, ref)
		if err != nil {
			return nil, err
		}
		if err := doc.AddPage(page); err != nil {
			return nil, err
		}
		slog.Debug("Added coloring page", "file", ref.Name(), "page", doc.Pages())
	}

	res := &Result{
		Dir:        dir,
		PDFPath:    filepath.Join(dir, models.InteriorPDFName),
		RecordPath: filepath.Join(dir, models.InteriorRecordName),
	}
	want := doc.Pages()
	if err := doc.Save(res.PDFPath); err != nil {
		return nil, err
	}

	got, err := export.PageCount(res.PDFPath)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, fmt.Errorf("interior PDF has %d pages, expected %d", got, want)
	}
	slog.Info("Wrote interior PDF", "path", res.PDFPath, "pages", got)

	res.Record = manifest.Interior{
		Command:   "interior",
		SafeTitle: opts.SafeTitle,
		Trim:      opts.Trim,
		DPI:       opts.DPI,
		MarginIn:  opts.MarginIn,
		Bleed:     opts.Bleed,
		PageSize:  models.Size{W: l.page.X, H: l.page.Y},
		PageCount: got,
		Sources:   refs,
		Output:    res.PDFPath,
		BuiltAt:   time.Now().UTC(),
	}
	if err := manifest.Save(res.RecordPath, res.Record); err != nil {
		return nil, err
	}
	return res, nil
}

// belongsPage draws the label a third of the way down with a writing line
// under it.
func belongsPage(l layout, f *fonts.Font, label string, dpi int) (*image.RGBA, error) {
	face, err := f.Face(belongsSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	page := l.blank()
	w := fonts.Measure(face, label)
	h := fonts.LineHeight(face)
	x := (l.page.X - w) / 2
	y := (l.page.Y - h) / 3
	render.DrawText(page, face, label, x, y, render.Black)

	lineY := y + h + underlineGap
	render.HLine(page, x, x+geometry.InchesToPx(underlineLenIn, dpi), lineY, underlineWeight, render.Black)
	return page, nil
}

// copyrightPage centers the copyright block on the page
func copyrightPage(l layout, f *fonts.Font, text string) (*image.RGBA, error) {
	face, err := f.Face(copyrightSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	lines := strings.Split(text, "\n")
	w, h := fonts.BlockSize(face, lines, copyrightSpacing)
	page := l.blank()
	render.DrawLines(page, face, lines, (l.page.X-w)/2, (l.page.Y-h)/2, copyrightSpacing, render.AlignCenter, render.Black)
	return page, nil
}

// coloringPage scales one page image in grayscale to fit the printable area
func coloringPage(l layout, ref models.PageRef) (*image.RGBA, error) {
	src, err := imaging.Open(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open interior page %s: %w", ref.Name(), err)
	}
	gray := imaging.Grayscale(src)

	b := gray.Bounds()
	box := l.printable.Size()
	scale := min(float64(box.X)/float64(b.Dx()), float64(box.Y)/float64(b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	art := imaging.Resize(gray, w, h, imaging.Lanczos)

	page := l.blank()
	render.Composite(page, art, image.Pt((l.page.X-w)/2, (l.page.Y-h)/2))
	return page, nil
}
