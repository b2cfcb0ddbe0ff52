package similarity

import (
	"math"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/cwbudde/algo-vecmath"
)

// Spectrum is an immutable, scoring-ready spectrum: the raw peaks sorted by
// m/z, the precursor m/z, and the normalized peaks derived once at
// construction.
type Spectrum struct {
	name        string
	precursorMZ float64
	peaks       []core.Peak
	normalized  []core.Peak
}

// NewSpectrum copies peaks, which must already be sorted by ascending m/z,
// and normalizes them. An empty peak list is accepted and aligns to a zero
// score against anything. A non-empty list with zero total intensity fails
// with ErrDegenerateSpectrum.
func NewSpectrum(precursorMZ float64, peaks []core.Peak) (*Spectrum, error) {
	if math.IsNaN(precursorMZ) || math.IsInf(precursorMZ, 0) {
		return nil, &ParameterError{Field: "precursor_mz", Message: "must be finite"}
	}

	s := &Spectrum{
		precursorMZ: precursorMZ,
		peaks:       append([]core.Peak(nil), peaks...),
	}
	if len(peaks) == 0 {
		return s, nil
	}

	normalized, err := Normalize(s.peaks)
	if err != nil {
		return nil, err
	}
	s.normalized = normalized

	return s, nil
}

// Prepare builds a Spectrum from a library record. The record's peaks must
// already be sorted by m/z so that match indices refer to the record's own
// peak order; unsorted records fail with a ParameterError.
func Prepare(spec *core.Spectrum) (*Spectrum, error) {
	if !core.PeaksSorted(spec.Peaks) {
		return nil, &ParameterError{Field: "peaks", Message: "must be sorted by ascending m/z"}
	}

	s, err := NewSpectrum(spec.PrecursorMZ, spec.Peaks)
	if err != nil {
		return nil, err
	}
	s.name = spec.Label()

	return s, nil
}

// Name returns the label of the record the spectrum was prepared from.
func (s *Spectrum) Name() string { return s.name }

// PrecursorMZ returns the precursor m/z.
func (s *Spectrum) PrecursorMZ() float64 { return s.precursorMZ }

// NPeaks returns the number of peaks.
func (s *Spectrum) NPeaks() int { return len(s.peaks) }

// Peaks returns a copy of the raw peaks.
func (s *Spectrum) Peaks() []core.Peak {
	return append([]core.Peak(nil), s.peaks...)
}

// NormalizedPeaks returns a copy of the normalized peaks.
func (s *Spectrum) NormalizedPeaks() []core.Peak {
	return append([]core.Peak(nil), s.normalized...)
}

// Peak returns the raw peak at index i.
func (s *Spectrum) Peak(i int) core.Peak { return s.peaks[i] }

// RelativeIntensities returns the raw intensities as a percentage of the
// base peak, in peak order. All values are 0 when the base peak is 0.
func (s *Spectrum) RelativeIntensities() []float64 {
	raw := make([]float64, len(s.peaks))
	base := 0.0
	for i, p := range s.peaks {
		raw[i] = p.Intensity
		base = math.Max(base, p.Intensity)
	}

	rel := make([]float64, len(raw))
	if base > 0 {
		vecmath.ScaleBlock(rel, raw, 100/base)
	}
	return rel
}
