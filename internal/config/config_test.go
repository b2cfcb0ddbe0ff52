package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChrisMcGann/SpecAlign/pkg/similarity"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Alignment.Tolerance != 0.02 {
		t.Errorf("expected Tolerance=0.02, got %f", cfg.Alignment.Tolerance)
	}

	if cfg.Alignment.MinMatch != 6 {
		t.Errorf("expected MinMatch=6, got %d", cfg.Alignment.MinMatch)
	}

	if cfg.Search.Top != 10 {
		t.Errorf("expected Top=10, got %d", cfg.Search.Top)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "zero tolerance",
			modify: func(c *Config) {
				c.Alignment.Tolerance = 0
			},
			wantErr: true,
		},
		{
			name: "negative min match",
			modify: func(c *Config) {
				c.Alignment.MinMatch = -1
			},
			wantErr: true,
		},
		{
			name: "cutoff out of range",
			modify: func(c *Config) {
				c.Filter.Cutoff = 150
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			modify: func(c *Config) {
				c.Search.Workers = -2
			},
			wantErr: true,
		},
		{
			name: "min score above one",
			modify: func(c *Config) {
				c.Search.MinScore = 1.5
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWrapsParameterError(t *testing.T) {
	cfg := Default()
	cfg.Alignment.Tolerance = -1

	if err := cfg.Validate(); !errors.Is(err, similarity.ErrInvalidParameter) {
		t.Errorf("Validate() error = %v, want ErrInvalidParameter", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[alignment]
tolerance = 0.5
min_match = 2

[filter]
top_n = 50
precursor_window = 17.0
remove_zero = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Alignment.Tolerance != 0.5 || cfg.Alignment.MinMatch != 2 {
		t.Errorf("unexpected alignment section: %+v", cfg.Alignment)
	}
	if cfg.Filter.TopN != 50 || cfg.Filter.PrecursorWindow != 17.0 {
		t.Errorf("unexpected filter section: %+v", cfg.Filter)
	}
	if !cfg.FilterOptions().RemoveZero {
		t.Error("expected remove_zero to reach the filter options")
	}
	if Default().FilterOptions().RemoveZero {
		t.Error("zero-intensity removal must be off by default")
	}
	// unset values keep their defaults
	if cfg.Search.Top != 10 {
		t.Errorf("expected Top=10, got %d", cfg.Search.Top)
	}

	opts := cfg.SearchOptions()
	if opts.Tolerance != 0.5 || opts.MinMatch != 2 || opts.Top != 10 {
		t.Errorf("unexpected search options: %+v", opts)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() of optional missing file error = %v", err)
	}
	if cfg.Alignment.Tolerance != Default().Alignment.Tolerance {
		t.Error("expected defaults for missing optional file")
	}

	if _, err := Load(path, true); err == nil {
		t.Error("expected error for missing required file")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[alignment]\ntolerance = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, true); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("[alignment\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, true); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Alignment.Tolerance = 0.25
	cfg.Library.Path = "/data/lib.db"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Alignment.Tolerance != 0.25 || loaded.Library.Path != "/data/lib.db" {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	var buf bytes.Buffer
	if err := loaded.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[alignment]") {
		t.Errorf("encoded config lacks [alignment] table:\n%s", buf.String())
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	if err := Default().Save("/dev/full"); err == nil {
		t.Error("expected Save() to fail on a full device")
	}
}
