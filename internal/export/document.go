package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is an in-memory PDF where every page is one full-page raster at a
// fixed resolution. Page size follows the raster: pixels / dpi inches.
type Document struct {
	pdf   *gofpdf.Fpdf
	dpi   int
	pages int
}

// NewDocument starts an empty document for rasters at dpi
func NewDocument(dpi int) *Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: 8.5, Ht: 11},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	return &Document{pdf: pdf, dpi: dpi}
}

// AddPage appends img as a new page
func (d *Document) AddPage(img image.Image) error {
	data, err := EncodePNG(img, 0)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w := float64(b.Dx()) / float64(d.dpi)
	h := float64(b.Dy()) / float64(d.dpi)

	d.pages++
	name := fmt.Sprintf("page-%d", d.pages)
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	d.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("failed to add page %d: %w", d.pages, err)
	}
	return nil
}

// Pages returns the number of pages added so far
func (d *Document) Pages() int {
	return d.pages
}

// Save writes the document to path and releases it
func (d *Document) Save(path string) error {
	if d.pages == 0 {
		return fmt.Errorf("document has no pages")
	}
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// PageCount reads a PDF back and returns its number of pages
func PageCount(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return ctx.PageCount, nil
}
