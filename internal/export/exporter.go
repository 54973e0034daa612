package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Errors a preferred exporter may report to request the fallback path
var (
	ErrToolUnavailable = errors.New("conversion tool unavailable")
	ErrToolFailed      = errors.New("conversion tool failed")
)

// Job describes one raster to be written as a single-page document
type Job struct {
	// RasterPath is the PNG already written to disk
	RasterPath string
	// Image is the same raster in memory
	Image   image.Image
	DPI     int
	OutPath string
}

// DocumentExporter turns a raster into a document. It returns the name of
// the exporter that produced the file.
type DocumentExporter interface {
	Export(ctx context.Context, job Job) (string, error)
}

// DefaultMagickBinary is the ImageMagick 7 entry point
const DefaultMagickBinary = "magick"

// Magick converts with the ImageMagick command line tool
type Magick struct {
	Binary string
}

func (m Magick) binary() string {
	if m.Binary == "" {
		return DefaultMagickBinary
	}
	return m.Binary
}

func (m Magick) Export(ctx context.Context, job Job) (string, error) {
	bin, err := exec.LookPath(m.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolUnavailable, m.binary(), err)
	}

	args := []string{
		job.RasterPath,
		"-units", "PixelsPerInch",
		"-density", strconv.Itoa(job.DPI),
		job.OutPath,
	}
	slog.Debug("Running conversion tool", "binary", bin, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s exited %d: %s", ErrToolFailed, bin, exitErr.ExitCode(), strings.TrimSpace(string(output)))
		}
		return "", fmt.Errorf("failed to run %s: %w", bin, err)
	}
	return "magick", nil
}

// Native writes the document with the built-in PDF writer
type Native struct{}

func (Native) Export(_ context.Context, job Job) (string, error) {
	doc := NewDocument(job.DPI)
	if err := doc.AddPage(job.Image); err != nil {
		return "", err
	}
	if err := doc.Save(job.OutPath); err != nil {
		return "", err
	}
	return "native", nil
}

// Fallback tries Preferred and switches to Fallback only when Preferred
// reports ErrToolUnavailable or ErrToolFailed. Other errors are returned.
type Fallback struct {
	Preferred DocumentExporter
	Fallback  DocumentExporter
}

func (f Fallback) Export(ctx context.Context, job Job) (string, error) {
	used, err := f.Preferred.Export(ctx, job)
	if err == nil {
		return used, nil
	}
	if !errors.Is(err, ErrToolUnavailable) && !errors.Is(err, ErrToolFailed) {
		return "", err
	}
	if errors.Is(err, ErrToolFailed) {
		slog.Warn("Preferred document exporter failed, using fallback", "err", err)
	} else {
		slog.Debug("Preferred document exporter unavailable, using fallback", "err", err)
	}
	return f.Fallback.Export(ctx, job)
}

// NewDefaultExporter prefers ImageMagick at binary and falls back to Native
func NewDefaultExporter(binary string) DocumentExporter {
	return Fallback{Preferred: Magick{Binary: binary}, Fallback: Native{}}
}
