// Package config loads specalign settings from a TOML file
package config

import (
	"github.com/ChrisMcGann/SpecAlign/pkg/filter"
	"github.com/ChrisMcGann/SpecAlign/pkg/search"
)

// Config represents the application configuration
type Config struct {
	Alignment AlignmentConfig `toml:"alignment"`
	Filter    FilterConfig    `toml:"filter"`
	Search    SearchConfig    `toml:"search"`
	Library   LibraryConfig   `toml:"library"`
}

// AlignmentConfig contains spectral alignment parameters
type AlignmentConfig struct {
	Tolerance float64 `toml:"tolerance"`
	MinMatch  int     `toml:"min_match"`
}

// FilterConfig contains peak filtering applied before scoring
type FilterConfig struct {
	TopN            int     `toml:"top_n"`
	Cutoff          float64 `toml:"cutoff"`
	MinMZ           float64 `toml:"min_mz"`
	MaxMZ           float64 `toml:"max_mz"`
	PrecursorWindow float64 `toml:"precursor_window"`
	RemoveZero      bool    `toml:"remove_zero"`
}

// SearchConfig contains library search settings
type SearchConfig struct {
	Workers  int     `toml:"workers"`
	Top      int     `toml:"top"`
	MinScore float64 `toml:"min_score"`
}

// LibraryConfig points at the default spectral library
type LibraryConfig struct {
	Path string `toml:"path"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Alignment: AlignmentConfig{
			Tolerance: 0.02,
			MinMatch:  6,
		},
		Search: SearchConfig{
			Top: 10,
		},
	}
}

// FilterOptions converts the filter section for the filter package
func (c *Config) FilterOptions() filter.Config {
	return filter.Config{
		TopN:            c.Filter.TopN,
		IntensityCutoff: c.Filter.Cutoff,
		MinMZ:           c.Filter.MinMZ,
		MaxMZ:           c.Filter.MaxMZ,
		PrecursorWindow: c.Filter.PrecursorWindow,
		RemoveZero:      c.Filter.RemoveZero,
	}
}

// SearchOptions converts the alignment and search sections for the search package
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		Tolerance: c.Alignment.Tolerance,
		MinMatch:  c.Alignment.MinMatch,
		Workers:   c.Search.Workers,
		Top:       c.Search.Top,
		MinScore:  c.Search.MinScore,
	}
}
