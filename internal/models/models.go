package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Error classes shared by every build step. Callers match them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Output file names written into a title's directory
const (
	PagePrefix         = "fbnp_"
	CoverPNGName       = "fbnp_cover.png"
	CoverPDFName       = "fbnp_cover.pdf"
	CoverRecordName    = "fbnp_cover.yaml"
	InteriorPDFName    = "fbnp_interior.pdf"
	InteriorRecordName = "fbnp_interior.yaml"
)

// Size is a pixel size
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// PageRef points at one interior page image on disk
type PageRef struct {
	Index int    `yaml:"index"`
	Path  string `yaml:"path"`
}

// Name returns the file name of the page image
func (p PageRef) Name() string {
	return filepath.Base(p.Path)
}

// TitleDir returns the per-title directory under root
func TitleDir(root, safeTitle string) string {
	return filepath.Join(root, safeTitle)
}

// CheckSafeTitle rejects titles that are empty or not a single directory name
func CheckSafeTitle(safeTitle string) error {
	if strings.TrimSpace(safeTitle) == "" {
		return fmt.Errorf("%w: safe title is required", ErrInvalidArgument)
	}
	if strings.ContainsAny(safeTitle, `/\`) || safeTitle == "." || safeTitle == ".." {
		return fmt.Errorf("%w: safe title %q must be a single directory name", ErrInvalidArgument, safeTitle)
	}
	return nil
}
