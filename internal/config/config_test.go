package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fantasybroadcast/colorbook/internal/models"
	"github.com/spf13/pflag"
)

func TestEnvGetters(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		get  func() string
		want string
	}{
		{name: "root default", key: EnvRoot, val: "", get: Root, want: DefaultRoot},
		{name: "root set", key: EnvRoot, val: "/tmp/books", get: Root, want: "/tmp/books"},
		{name: "font dir default", key: EnvFontDir, val: "  ", get: FontDir, want: DefaultFontDir},
		{name: "font dir set", key: EnvFontDir, val: "/opt/fonts", get: FontDir, want: "/opt/fonts"},
		{name: "magick default", key: EnvMagick, val: "", get: MagickBinary, want: DefaultMagick},
		{name: "magick set", key: EnvMagick, val: "/usr/local/bin/magick", get: MagickBinary, want: "/usr/local/bin/magick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if got := tt.get(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		want    slog.Level
	}{
		{env: "", verbose: false, want: slog.LevelInfo},
		{env: "warn", verbose: false, want: slog.LevelWarn},
		{env: "ERROR", verbose: false, want: slog.LevelError},
		{env: "warn", verbose: true, want: slog.LevelDebug},
		{env: "chatty", verbose: false, want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			if got := LogLevel(tt.verbose); got != tt.want {
				t.Errorf("LogLevel(%v) with %q = %v, want %v", tt.verbose, tt.env, got, tt.want)
			}
		})
	}
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func coverFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("cover", pflag.ContinueOnError)
	fs.String("paper", "white", "")
	fs.String("trim", "8.5x11", "")
	fs.Int("max-images", 5, "")
	fs.String("root", "", "")
	return fs
}

func TestProfileApply(t *testing.T) {
	path := writeProfile(t, `
defaults:
  root: /srv/books
  margin-in: 0.75
cover:
  paper: cream
  trim: 6x9
  max-images: 3
interior:
  margin-in: 0.5
`)
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}

	fs := coverFlags()
	if err := fs.Parse([]string{"--trim", "8x10"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := p.Apply(fs, "cover"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := map[string]string{
		"paper":      "cream",
		"trim":       "8x10",
		"max-images": "3",
		"root":       "/srv/books",
	}
	for name, v := range want {
		if got := fs.Lookup(name).Value.String(); got != v {
			t.Errorf("%s = %q, want %q", name, got, v)
		}
	}
}

func TestProfileApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown cover key", body: "cover:\n  colour: red\n"},
		{name: "bad value", body: "cover:\n  max-images: lots\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadProfile(writeProfile(t, tt.body))
			if err != nil {
				t.Fatalf("LoadProfile: %v", err)
			}
			if err := p.Apply(coverFlags(), "cover"); !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("Expected invalid argument, got %v", err)
			}
		})
	}
}

func TestLoadProfileErrors(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := LoadProfile(writeProfile(t, "cover: [unclosed")); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected invalid argument, got %v", err)
	}
}
