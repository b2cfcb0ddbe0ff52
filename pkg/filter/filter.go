// Package filter provides peak filtering applied to library spectra before scoring
package filter

import (
	"fmt"
	"math"
	"sort"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	TopN            int     // Keep only top N most intense peaks (0 = no limit)
	IntensityCutoff float64 // Keep only peaks at or above this % of base peak (0 = no cutoff)
	MinMZ           float64 // Drop peaks below this m/z (0 = no bound)
	MaxMZ           float64 // Drop peaks above this m/z (0 = no bound)
	PrecursorWindow float64 // Drop peaks within +/- this many Da of the precursor m/z (0 = off)
	RemoveZero      bool    // Drop peaks with zero intensity
}

// Validate checks the configuration for out-of-range values
func (c *Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top-n must not be negative, got %d", c.TopN)
	}
	if c.IntensityCutoff < 0 || c.IntensityCutoff > 100 {
		return fmt.Errorf("intensity cutoff must be between 0 and 100, got %.2f", c.IntensityCutoff)
	}
	if c.MinMZ < 0 || c.MaxMZ < 0 {
		return fmt.Errorf("m/z bounds must not be negative")
	}
	if c.MaxMZ > 0 && c.MaxMZ < c.MinMZ {
		return fmt.Errorf("max m/z %.4f is below min m/z %.4f", c.MaxMZ, c.MinMZ)
	}
	if c.PrecursorWindow < 0 {
		return fmt.Errorf("precursor window must not be negative, got %.4f", c.PrecursorWindow)
	}
	return nil
}

// IsZero reports whether no filter is configured
func (c *Config) IsZero() bool {
	return *c == Config{}
}

// Apply applies all configured filters to a spectrum. Peaks are sorted by
// m/z afterwards.
func (c *Config) Apply(spec *core.Spectrum) {
	// Zero-intensity peaks still pair and count toward min_match, so they
	// are only dropped on request
	if c.RemoveZero {
		RemoveZeroIntensityPeaks(spec)
	}

	if c.MinMZ > 0 || c.MaxMZ > 0 {
		c.filterByMZRange(spec)
	}

	if c.PrecursorWindow > 0 {
		c.filterPrecursor(spec)
	}

	// Apply intensity filters
	if c.IntensityCutoff > 0 {
		c.filterByIntensity(spec)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		c.filterTopN(spec)
	}

	// Ensure peaks are sorted after all filtering
	spec.SortPeaks()
}

// filterByMZRange keeps peaks inside [MinMZ, MaxMZ]
func (c *Config) filterByMZRange(spec *core.Spectrum) {
	maxMZ := c.MaxMZ
	if maxMZ == 0 {
		maxMZ = math.Inf(1)
	}

	var filtered []core.Peak
	for _, peak := range spec.Peaks {
		if peak.MZ >= c.MinMZ && peak.MZ <= maxMZ {
			filtered = append(filtered, peak)
		}
	}

	spec.Peaks = filtered
}

// filterPrecursor removes the unfragmented precursor and its neighbourhood
func (c *Config) filterPrecursor(spec *core.Spectrum) {
	var filtered []core.Peak
	for _, peak := range spec.Peaks {
		if math.Abs(peak.MZ-spec.PrecursorMZ) > c.PrecursorWindow {
			filtered = append(filtered, peak)
		}
	}

	spec.Peaks = filtered
}

// filterByIntensity removes peaks below the intensity cutoff percentage
func (c *Config) filterByIntensity(spec *core.Spectrum) {
	base, ok := spec.BasePeak()
	if !ok {
		return
	}

	// Calculate threshold
	threshold := (c.IntensityCutoff / 100.0) * base.Intensity

	// Filter peaks
	var filtered []core.Peak
	for _, peak := range spec.Peaks {
		if peak.Intensity >= threshold {
			filtered = append(filtered, peak)
		}
	}

	spec.Peaks = filtered
}

// filterTopN keeps only the N most intense peaks
func (c *Config) filterTopN(spec *core.Spectrum) {
	if len(spec.Peaks) <= c.TopN {
		return
	}

	// Create a copy and sort by intensity descending
	peaks := make([]core.Peak, len(spec.Peaks))
	copy(peaks, spec.Peaks)

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Intensity > peaks[j].Intensity
	})

	// Keep only top N
	spec.Peaks = peaks[:c.TopN]
}

// RemoveZeroIntensityPeaks removes peaks with zero or negative intensity
func RemoveZeroIntensityPeaks(spec *core.Spectrum) {
	var filtered []core.Peak
	for _, peak := range spec.Peaks {
		if peak.Intensity > 0 {
			filtered = append(filtered, peak)
		}
	}
	spec.Peaks = filtered
}
