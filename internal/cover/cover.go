// Package cover builds the wraparound (back, spine, front) cover of a
// coloring book and exports it as PNG and single-page PDF.
package cover

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"
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
	DefaultBackground = "gradient:pastel:1"
	DefaultMaxImages  = pages.MaxPreviews
)

// Text styling
const (
	titleWidthShare = 0.8
	titleTopIn      = 0.35
	spineInsetIn    = 0.125
	spineMinSize    = 24
	spineMaxSize    = 80
	bodySize        = 40
	bodySpacing     = 10
	descTopIn       = 0.75
	descPadIn       = 0.2
	descWidthShare  = 0.8
)

var (
	titleFill = color.NRGBA{R: 25, G: 25, B: 25, A: 255}
	textFill  = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	cardFill  = color.NRGBA{R: 255, G: 255, B: 255, A: 210}
)

// Options describes one cover build
type Options struct {
	// SafeTitle names the title directory under Root
	SafeTitle   string
	Title       string
	Description string
	Pages       int
	Paper       geometry.Paper
	Trim        geometry.Trim
	// MaxImages is clamped to [2,5]
	MaxImages  int
	SpineTitle string
	// Background is "#RRGGBB" or "gradient:pastel:N"
	Background string
	// Seed makes the layout reproducible. Nil draws one from the clock.
	Seed *uint64
	DPI  int

	Root      string
	FontDir   string
	TitleFont string
	BodyFont  string

	// Exporter writes the PDF. Nil prefers ImageMagick at MagickBinary and
	// falls back to the built-in writer.
	Exporter     export.DocumentExporter
	MagickBinary string
}

// Result lists what a build wrote
type Result struct {
	Dir        string
	PNGPath    string
	PDFPath    string
	RecordPath string
	Record     manifest.Cover
}

func (o *Options) normalize() error {
	if err := models.CheckSafeTitle(o.SafeTitle); err != nil {
		return err
	}
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}
	if o.Paper == "" {
		o.Paper = geometry.PaperWhite
	}
	if o.Trim == (geometry.Trim{}) {
		o.Trim = geometry.Trim{Width: 8.5, Height: 11}
	}
	if o.MaxImages == 0 {
		o.MaxImages = DefaultMaxImages
	}
	o.MaxImages = pages.ClampPreviews(o.MaxImages)
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.DPI <= 0 {
		o.DPI = geometry.DefaultDPI
	}
	if o.Exporter == nil {
		o.Exporter = export.NewDefaultExporter(o.MagickBinary)
	}
	return nil
}

// Build composites the cover for opts and writes it into the title directory
func Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	g, err := geometry.Compute(opts.Trim, opts.Pages, opts.Paper, opts.DPI)
	if err != nil {
		return nil, err
	}
	slog.Info("Cover geometry",
		"total", fmt.Sprintf("%dx%d", g.Total.W, g.Total.H),
		"spine_px", g.SpinePx,
		"trim", opts.Trim.String(),
		"paper", opts.Paper,
		"pages", opts.Pages)

	titleFont, err := fonts.LoadFirst(fonts.Candidates(opts.FontDir, fonts.TitleCandidates, opts.TitleFont))
	if err != nil {
		return nil, fmt.Errorf("title font: %w", err)
	}
	bodyFont, err := fonts.LoadFirst(fonts.Candidates(opts.FontDir, fonts.BodyCandidates, opts.BodyFont))
	if err != nil {
		slog.Debug("No body font found, using title font", "err", err)
		bodyFont = titleFont
	}

	dir := models.TitleDir(opts.Root, opts.SafeTitle)
	refs, err := pages.Discover(dir)
	if err != nil {
		return nil, err
	}
	selected := pages.SelectPreviews(rng, refs, opts.MaxImages)
	slog.Info("Selected preview pages", "available", len(refs), "selected", len(selected))

	bg := render.ParseBackground(opts.Background)
	canvas := render.NewCanvas(g.Total.W, g.Total.H, render.White)
	bg.Fill(canvas)

	record := manifest.Cover{
		Command:    "cover",
		SafeTitle:  opts.SafeTitle,
		Title:      opts.Title,
		Seed:       seed,
		Background: bg.String(),
		Geometry:   g,
	}

	sheets, err := placeSheets(canvas, rng, g, selected)
	if err != nil {
		return nil, err
	}
	record.Sheets = sheets

	if record.TitleSize, err = drawTitle(canvas, g, titleFont, opts.Title); err != nil {
		return nil, err
	}

	if opts.SpineTitle != "" && geometry.SpineTextAllowed(opts.Pages) && g.SpinePx > 0 {
		if record.SpineFontSize, err = drawSpine(canvas, g, titleFont, opts.SpineTitle); err != nil {
			return nil, err
		}
		record.SpineRendered = true
	} else if opts.SpineTitle != "" {
		slog.Info("Skipping spine text", "pages", opts.Pages, "min_pages", geometry.MinSpineTextPages)
	}

	if record.DescLines, err = drawDescription(canvas, g, bodyFont, opts.Description); err != nil {
		return nil, err
	}

	barcode := barcodeBox(g)
	render.FillRect(canvas, barcode, render.White)
	record.Barcode = manifest.Box{barcode.Min.X, barcode.Min.Y, barcode.Max.X, barcode.Max.Y}

	var final image.Image = canvas
	if !canvas.Opaque() {
		final = render.Flatten(canvas)
	}

	res := &Result{
		Dir:        dir,
		PNGPath:    filepath.Join(dir, models.CoverPNGName),
		PDFPath:    filepath.Join(dir, models.CoverPDFName),
		RecordPath: filepath.Join(dir, models.CoverRecordName),
	}
	if err := export.WritePNG(res.PNGPath, final, g.DPI); err != nil {
		return nil, err
	}
	slog.Info("Wrote cover raster", "path", res.PNGPath)

	used, err := opts.Exporter.Export(ctx, export.Job{
		RasterPath: res.PNGPath,
		Image:      final,
		DPI:        g.DPI,
		OutPath:    res.PDFPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export cover PDF: %w", err)
	}
	slog.Info("Wrote cover PDF", "path", res.PDFPath, "exporter", used)

	record.Exporter = used
	record.Outputs = []string{res.PNGPath, res.PDFPath}
	record.BuiltAt = time.Now().UTC()
	if err := manifest.Save(res.RecordPath, record); err != nil {
		return nil, err
	}
	res.Record = record
	return res, nil
}

// placeSheets draws the selected pages as tilted sheets, alternating between
// the front and back panels.
func placeSheets(canvas *image.RGBA, rng *rand.Rand, g geometry.Geometry, selected []models.PageRef) ([]manifest.Sheet, error) {
	front := panelBoxes(rng, g.Front, g)
	back := panelBoxes(rng, g.Back, g)

	sheets := make([]manifest.Sheet, 0, len(selected))
	for i, ref := range selected {
		angle := tilt(rng)

		panel, target := "front", &front
		if i%2 == 1 && len(back) > 0 {
			panel, target = "back", &back
		}
		if len(*target) == 0 {
			break
		}
		box := (*target)[len(*target)-1]
		*target = (*target)[:len(*target)-1]

		src, err := imaging.Open(ref.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open interior page %s: %w", ref.Name(), err)
		}
		placed := render.PlaceSheet(canvas, render.LineArt(src), box, angle)
		slog.Debug("Placed preview sheet", "file", ref.Name(), "panel", panel, "box", box.String(), "angle", angle, "placed", placed)

		sheets = append(sheets, manifest.Sheet{
			File:   ref.Name(),
			Index:  ref.Index,
			Panel:  panel,
			Box:    manifest.Box{box.Min.X, box.Min.Y, box.Max.X, box.Max.Y},
			Angle:  angle,
			Placed: placed,
		})
	}
	return sheets, nil
}

func drawTitle(canvas *image.RGBA, g geometry.Geometry, f *fonts.Font, title string) (float64, error) {
	maxW := int(float64(g.Front.Width()) * titleWidthShare)
	size, err := fonts.FitSize(f, title, maxW, fonts.TitleRange)
	if err != nil {
		return 0, err
	}
	face, err := f.Face(size)
	if err != nil {
		return 0, err
	}
	defer face.Close()

	x := g.Front.X0 + (g.Front.Width()-fonts.Measure(face, title))/2
	y := g.BleedPx + g.Px(titleTopIn)
	render.DrawTextWithShadow(canvas, face, title, x, y, titleFill, render.Shadow{
		Color:  render.White,
		Offset: image.Pt(3, 3),
		Blur:   4,
	})
	slog.Debug("Drew title", "size", size, "x", x, "y", y)
	return size, nil
}

// drawSpine sets text along the spine reading bottom to top
func drawSpine(canvas *image.RGBA, g geometry.Geometry, f *fonts.Font, text string) (float64, error) {
	size := float64(max(spineMinSize, min(spineMaxSize, g.SpinePx-g.Px(spineInsetIn))))
	face, err := f.Face(size)
	if err != nil {
		return 0, err
	}
	defer face.Close()

	layer := imaging.Rotate90(render.RenderText(face, text, textFill))
	lb := layer.Bounds()
	x := g.Spine.X0 + (g.SpinePx-lb.Dx())/2
	y := (g.Total.H - lb.Dy()) / 2
	render.Composite(canvas, layer, image.Pt(x, y))
	slog.Debug("Drew spine text", "size", size)
	return size, nil
}

// drawDescription sets the back-cover blurb on a translucent card. It
// returns the number of wrapped lines.
func drawDescription(canvas *image.RGBA, g geometry.Geometry, f *fonts.Font, text string) (int, error) {
	face, err := f.Face(bodySize)
	if err != nil {
		return 0, err
	}
	defer face.Close()

	maxW := int(float64(g.Back.Width()) * descWidthShare)
	x := g.Back.X0 + int(float64(g.Back.Width()-maxW)*0.5)
	y := g.BleedPx + g.Px(descTopIn)

	lines := fonts.Wrap(text, face, maxW)
	if len(lines) == 0 {
		return 0, nil
	}
	tw, th := fonts.BlockSize(face, lines, bodySpacing)
	pad := g.Px(descPadIn)
	render.BlendRect(canvas, image.Rect(x-pad, y-pad, x+tw+pad, y+th+pad), cardFill)
	render.DrawLines(canvas, face, lines, x, y, bodySpacing, render.AlignLeft, textFill)
	return len(lines), nil
}
