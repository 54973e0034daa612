// Package config reads the environment and optional YAML build profiles that
// supply defaults for the command line.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/fantasybroadcast/colorbook/internal/models"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Environment variables and their defaults
const (
	EnvRoot     = "COLORBOOK_ROOT"
	EnvFontDir  = "COLORBOOK_FONT_DIR"
	EnvMagick   = "COLORBOOK_MAGICK"
	EnvLogLevel = "COLORBOOK_LOG_LEVEL"

	DefaultRoot    = "/mnt/ai_data/ColoringBooks"
	DefaultFontDir = "fonts"
	DefaultMagick  = "magick"
)

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Root is the directory holding one folder per title
func Root() string {
	return getenv(EnvRoot, DefaultRoot)
}

// FontDir is where relative font candidates are looked up
func FontDir() string {
	return getenv(EnvFontDir, DefaultFontDir)
}

// MagickBinary is the ImageMagick executable used for PDF export
func MagickBinary() string {
	return getenv(EnvMagick, DefaultMagick)
}

// LogLevel returns the configured level. verbose forces debug.
func LogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(getenv(EnvLogLevel, "info"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Profile holds flag defaults keyed by flag name. Defaults apply to every
// command, the per-command sections override them.
type Profile struct {
	Defaults map[string]any `yaml:"defaults"`
	Cover    map[string]any `yaml:"cover"`
	Interior map[string]any `yaml:"interior"`
}

// LoadProfile reads a YAML profile from path
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: profile %s", models.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to parse profile %s: %v", models.ErrInvalidArgument, path, err)
	}
	return &p, nil
}

// Section returns the merged settings for a command name
func (p *Profile) Section(command string) map[string]any {
	out := make(map[string]any, len(p.Defaults))
	for k, v := range p.Defaults {
		out[k] = v
	}
	var section map[string]any
	switch command {
	case "cover":
		section = p.Cover
	case "interior":
		section = p.Interior
	}
	for k, v := range section {
		out[k] = v
	}
	return out
}

// Apply sets every flag named in the command's section that was not given
// explicitly on the command line. Default keys a command lacks are skipped;
// unknown keys in the command's own section are an error.
func (p *Profile) Apply(fs *pflag.FlagSet, command string) error {
	settings := p.Section(command)
	own := map[string]bool{}
	switch command {
	case "cover":
		for k := range p.Cover {
			own[k] = true
		}
	case "interior":
		for k := range p.Interior {
			own[k] = true
		}
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		flag := fs.Lookup(name)
		if flag == nil {
			if own[name] {
				return fmt.Errorf("%w: profile key %q is not a %s flag", models.ErrInvalidArgument, name, command)
			}
			continue
		}
		if flag.Changed {
			slog.Debug("Flag given explicitly, ignoring profile", "flag", name)
			continue
		}
		value := fmt.Sprint(settings[name])
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("%w: profile value for %s: %v", models.ErrInvalidArgument, name, err)
		}
		slog.Debug("Applied profile setting", "flag", name, "value", value)
	}
	return nil
}
