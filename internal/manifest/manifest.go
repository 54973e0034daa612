package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/fantasybroadcast/colorbook/internal/models"
	"gopkg.in/yaml.v3"
)

// Box is a rectangle as x0, y0, x1, y1
type Box [4]int

// Sheet records one preview page placed on the cover
type Sheet struct {
	File   string  `yaml:"file"`
	Index  int     `yaml:"index"`
	Panel  string  `yaml:"panel"`
	Box    Box     `yaml:"box,flow"`
	Angle  float64 `yaml:"angle"`
	Placed bool    `yaml:"placed"`
}

// Cover is the build record written next to a cover
type Cover struct {
	Command       string            `yaml:"command"`
	SafeTitle     string            `yaml:"safe_title"`
	Title         string            `yaml:"title"`
	Seed          uint64            `yaml:"seed"`
	Background    string            `yaml:"background"`
	Geometry      geometry.Geometry `yaml:"geometry"`
	Sheets        []Sheet           `yaml:"sheets"`
	TitleSize     float64           `yaml:"title_size"`
	SpineRendered bool              `yaml:"spine_rendered"`
	SpineFontSize float64           `yaml:"spine_font_size,omitempty"`
	DescLines     int               `yaml:"desc_lines"`
	Barcode       Box               `yaml:"barcode,flow"`
	Exporter      string            `yaml:"exporter"`
	Outputs       []string          `yaml:"outputs"`
	BuiltAt       time.Time         `yaml:"built_at"`
}

// Interior is the build record written next to an interior
type Interior struct {
	Command   string           `yaml:"command"`
	SafeTitle string           `yaml:"safe_title"`
	Trim      geometry.Trim    `yaml:"trim"`
	DPI       int              `yaml:"dpi"`
	MarginIn  float64          `yaml:"margin_in"`
	Bleed     bool             `yaml:"bleed"`
	PageSize  models.Size      `yaml:"page_size"`
	PageCount int              `yaml:"page_count"`
	Sources   []models.PageRef `yaml:"sources"`
	Output    string           `yaml:"output"`
	BuiltAt   time.Time        `yaml:"built_at"`
}

// Save writes record to path as YAML, replacing any earlier file
func Save(path string, record any) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal build record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write build record: %w", err)
	}
	return nil
}

// Load reads a YAML build record from path into record
func Load(path string, record any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read build record: %w", err)
	}
	if err := yaml.Unmarshal(data, record); err != nil {
		return fmt.Errorf("failed to parse build record: %w", err)
	}
	return nil
}
