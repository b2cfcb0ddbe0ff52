// Package core provides the intermediate representation (IR) models and validation logic
// for MS/MS spectra read from spectral libraries.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Spectrum represents a single MS/MS spectrum as read from a library file.
type Spectrum struct {
	// Required fields
	Name        string  // Library identifier (MSP Name, MGF TITLE)
	PrecursorMZ float64 // Precursor m/z
	Peaks       []Peak  // Fragment peaks

	// Optional metadata
	Charge          int      // Signed precursor charge (0 = unknown, negative in negative ion mode)
	RetentionTime   *float64 // RT in seconds
	CollisionEnergy *float64
	Instrument      string
	IonMode         string // "positive", "negative" or ""

	// Internal tracking
	SourceFile   string
	SourceFormat string // msp, mgf
	SourceIndex  int    // 0-based position within SourceFile
}

// Peak represents a single m/z, intensity pair with optional annotation.
type Peak struct {
	MZ         float64
	Intensity  float64
	Annotation string
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that a spectrum meets all requirements for storage and scoring.
func (s *Spectrum) Validate() error {
	var errs []string

	if math.IsNaN(s.PrecursorMZ) || math.IsInf(s.PrecursorMZ, 0) || s.PrecursorMZ <= 0 {
		errs = append(errs, "precursor m/z must be positive")
	}
	if len(s.Peaks) == 0 {
		errs = append(errs, "at least one peak is required")
	}

	total := 0.0
	for i, peak := range s.Peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		}
		if peak.MZ <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d m/z must be positive", i))
		}
		if peak.Intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
		total += peak.Intensity
	}
	if len(s.Peaks) > 0 && total <= 0 {
		errs = append(errs, "total intensity must be positive")
	}

	if !s.ArePeaksSorted() {
		errs = append(errs, "peaks must be sorted by m/z")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Spectrum",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ArePeaksSorted checks if peaks are sorted by m/z in ascending order.
func (s *Spectrum) ArePeaksSorted() bool {
	return PeaksSorted(s.Peaks)
}

// SortPeaks sorts peaks by m/z in ascending order. Peaks with equal m/z keep
// their relative order.
func (s *Spectrum) SortPeaks() {
	SortPeaks(s.Peaks)
}

// PeaksSorted reports whether peaks are in non-decreasing m/z order.
func PeaksSorted(peaks []Peak) bool {
	for i := 1; i < len(peaks); i++ {
		if peaks[i].MZ < peaks[i-1].MZ {
			return false
		}
	}
	return true
}

// SortPeaks stable-sorts peaks by ascending m/z in place.
func SortPeaks(peaks []Peak) {
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].MZ < peaks[j].MZ
	})
}

// TotalIntensity returns the sum of all peak intensities.
func (s *Spectrum) TotalIntensity() float64 {
	total := 0.0
	for _, peak := range s.Peaks {
		total += peak.Intensity
	}
	return total
}

// BasePeak returns the most intense peak. ok is false for an empty spectrum.
func (s *Spectrum) BasePeak() (peak Peak, ok bool) {
	for i, p := range s.Peaks {
		if i == 0 || p.Intensity > peak.Intensity {
			peak = p
			ok = true
		}
	}
	return peak, ok
}

// Label returns a display label: the name if present, otherwise "file#index".
func (s *Spectrum) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s#%d", s.SourceFile, s.SourceIndex)
}

// Clone returns a deep copy of the spectrum.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	c.Peaks = append([]Peak(nil), s.Peaks...)
	if s.RetentionTime != nil {
		rt := *s.RetentionTime
		c.RetentionTime = &rt
	}
	if s.CollisionEnergy != nil {
		ce := *s.CollisionEnergy
		c.CollisionEnergy = &ce
	}
	return &c
}
