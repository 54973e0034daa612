package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fantasybroadcast/colorbook/internal/export"
	"github.com/fantasybroadcast/colorbook/internal/fonts"
	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/fantasybroadcast/colorbook/internal/manifest"
	"github.com/fantasybroadcast/colorbook/internal/models"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	testDPI = 40
	// relative font candidates resolve under a directory that does not exist
	noFontDir = "testdata-no-fonts"
)

// setupTitle creates root/safeTitle with n fake coloring pages and a font file
func setupTitle(t *testing.T, n int) (root, fontPath string) {
	t.Helper()
	root = t.TempDir()
	dir := filepath.Join(root, "Cute_Dinosaurs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for i := 1; i <= n; i++ {
		img := image.NewGray(image.Rect(0, 0, 60, 80))
		for y := 0; y < 80; y++ {
			for x := 0; x < 60; x++ {
				v := uint8(255)
				if (x+i)%9 == 0 || (y+i)%11 == 0 {
					v = 0
				}
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("fbnp_%d.png", i)), buf.Bytes(), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	fontPath = filepath.Join(t.TempDir(), "bold.ttf")
	if err := os.WriteFile(fontPath, gobold.TTF, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return root, fontPath
}

func baseOptions(root, fontPath string) Options {
	seed := uint64(42)
	return Options{
		SafeTitle:   "Cute_Dinosaurs",
		Title:       "Cute Dinosaurs Coloring Book for Kids",
		Description: "Includes 30 fun illustrations. Stomp into a world of friendly dinos!",
		Pages:       30,
		Paper:       geometry.PaperWhite,
		Trim:        geometry.Trim{Width: 8.5, Height: 11},
		MaxImages:   4,
		Background:  "gradient:pastel:1",
		Seed:        &seed,
		DPI:         testDPI,
		Root:        root,
		FontDir:     noFontDir,
		TitleFont:   fontPath,
		BodyFont:    fontPath,
		Exporter:    export.Native{},
	}
}

func TestBuildWritesOutputs(t *testing.T) {
	root, fontPath := setupTitle(t, 10)
	res, err := Build(context.Background(), baseOptions(root, fontPath))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, p := range []string{res.PNGPath, res.PDFPath, res.RecordPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected output %s: %v", p, err)
		}
	}

	data, err := os.ReadFile(res.PNGPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if dpi := export.ReadDPI(data); dpi != testDPI {
		t.Errorf("Expected %d DPI in PNG, got %d", testDPI, dpi)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g := res.Record.Geometry
	if img.Bounds().Dx() != g.Total.W || img.Bounds().Dy() != g.Total.H {
		t.Errorf("Raster is %v, geometry says %dx%d", img.Bounds(), g.Total.W, g.Total.H)
	}

	n, err := export.PageCount(res.PDFPath)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected one-page cover PDF, got %d", n)
	}

	if len(res.Record.Sheets) != 4 {
		t.Errorf("Expected 4 preview sheets, got %d", len(res.Record.Sheets))
	}
	if res.Record.Exporter != "native" {
		t.Errorf("Expected native exporter, got %s", res.Record.Exporter)
	}

	var loaded manifest.Cover
	if err := manifest.Load(res.RecordPath, &loaded); err != nil {
		t.Fatalf("Load record: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("Expected seed 42 in record, got %d", loaded.Seed)
	}

	// barcode area is blank white
	b := res.Record.Barcode
	cx, cy := (b[0]+b[2])/2, (b[1]+b[3])/2
	if r, gg, bb, _ := img.At(cx, cy).RGBA(); r>>8 != 255 || gg>>8 != 255 || bb>>8 != 255 {
		t.Errorf("Barcode area is not white at %d,%d", cx, cy)
	}
}

func TestBuildSheetsAlternatePanels(t *testing.T) {
	root, fontPath := setupTitle(t, 10)
	opts := baseOptions(root, fontPath)
	opts.MaxImages = 5
	res, err := Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"front", "back", "front", "back", "front"}
	for i, s := range res.Record.Sheets {
		if s.Panel != want[i] {
			t.Errorf("Sheet %d on %s, want %s", i, s.Panel, want[i])
		}
		if s.Angle < -15 || s.Angle > 15 {
			t.Errorf("Sheet %d angle %f out of range", i, s.Angle)
		}
		if s.Index > 6 {
			t.Errorf("Sheet %d uses page %d outside the first six", i, s.Index)
		}
	}
}

func TestBuildIsReproducibleWithSeed(t *testing.T) {
	rootA, fontPath := setupTitle(t, 10)
	rootB, _ := setupTitle(t, 10)

	a, err := Build(context.Background(), baseOptions(rootA, fontPath))
	if err != nil {
		t.Fatalf("Build A: %v", err)
	}
	b, err := Build(context.Background(), baseOptions(rootB, fontPath))
	if err != nil {
		t.Fatalf("Build B: %v", err)
	}

	if len(a.Record.Sheets) != len(b.Record.Sheets) {
		t.Fatalf("Sheet counts differ: %d vs %d", len(a.Record.Sheets), len(b.Record.Sheets))
	}
	for i := range a.Record.Sheets {
		if a.Record.Sheets[i] != b.Record.Sheets[i] {
			t.Errorf("Sheet %d differs: %+v vs %+v", i, a.Record.Sheets[i], b.Record.Sheets[i])
		}
	}

	imgA := decodeFile(t, a.PNGPath)
	imgB := decodeFile(t, b.PNGPath)
	if !bytes.Equal(toRGBA(imgA).Pix, toRGBA(imgB).Pix) {
		t.Error("Seeded builds produced different pixels")
	}
}

func TestBuildMaxImagesClamped(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{max: 1, want: 2},
		{max: 4, want: 4},
		{max: 9, want: 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("max=%d", tt.max), func(t *testing.T) {
			root, fontPath := setupTitle(t, 10)
			opts := baseOptions(root, fontPath)
			opts.MaxImages = tt.max
			res, err := Build(context.Background(), opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(res.Record.Sheets) != tt.want {
				t.Errorf("Expected %d sheets, got %d", tt.want, len(res.Record.Sheets))
			}
		})
	}
}

func TestBuildSpineThreshold(t *testing.T) {
	tests := []struct {
		name  string
		pages int
		spine string
		want  bool
	}{
		{name: "below threshold", pages: 30, spine: "Cute Dinosaurs", want: false},
		{name: "at threshold", pages: 79, spine: "Cute Dinosaurs", want: true},
		{name: "no spine title", pages: 120, spine: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, fontPath := setupTitle(t, 3)
			opts := baseOptions(root, fontPath)
			opts.Pages = tt.pages
			opts.SpineTitle = tt.spine
			res, err := Build(context.Background(), opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if res.Record.SpineRendered != tt.want {
				t.Errorf("SpineRendered = %v, want %v", res.Record.SpineRendered, tt.want)
			}
			if tt.want && (res.Record.SpineFontSize < spineMinSize || res.Record.SpineFontSize > spineMaxSize) {
				t.Errorf("Spine font size %g outside [24,80]", res.Record.SpineFontSize)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("no interior pages", func(t *testing.T) {
		root, fontPath := setupTitle(t, 0)
		_, err := Build(context.Background(), baseOptions(root, fontPath))
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("unknown paper", func(t *testing.T) {
		root, fontPath := setupTitle(t, 3)
		opts := baseOptions(root, fontPath)
		opts.Paper = geometry.Paper("vellum")
		_, err := Build(context.Background(), opts)
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("Expected invalid argument, got %v", err)
		}
	})

	t.Run("unsafe title", func(t *testing.T) {
		root, fontPath := setupTitle(t, 3)
		opts := baseOptions(root, fontPath)
		opts.SafeTitle = "../etc"
		_, err := Build(context.Background(), opts)
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("Expected invalid argument, got %v", err)
		}
	})

	t.Run("no fonts", func(t *testing.T) {
		saved := fonts.TitleCandidates
		fonts.TitleCandidates = []string{"missing-title-font.ttf"}
		t.Cleanup(func() { fonts.TitleCandidates = saved })

		root, _ := setupTitle(t, 3)
		opts := baseOptions(root, "")
		opts.TitleFont = ""
		_, err := Build(context.Background(), opts)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(root, "Cute_Dinosaurs", models.CoverPNGName)); statErr == nil {
			t.Error("No raster should be written when fonts are missing")
		}
	})
}

func TestBarcodeBoxInsideBackPanel(t *testing.T) {
	for _, trim := range []geometry.Trim{{Width: 8.5, Height: 11}, {Width: 6, Height: 9}, {Width: 2, Height: 3}} {
		g, err := geometry.Compute(trim, 30, geometry.PaperWhite, 300)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		box := barcodeBox(g)
		if box.Min.X < g.Back.X0+g.Px(geometry.SafeMarginIn) {
			t.Errorf("%v: barcode starts left of the back panel margin: %v", trim, box)
		}
		if box.Max.Y > g.Total.H-g.BleedPx {
			t.Errorf("%v: barcode runs into the bottom bleed: %v", trim, box)
		}
		if box.Dx() != 600 || box.Dy() != 360 {
			t.Errorf("%v: unexpected barcode size %v", trim, box.Size())
		}
	}
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return img
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
