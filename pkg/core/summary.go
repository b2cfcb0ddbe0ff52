package core

import "math"

// Summary holds statistics about a set of spectra.
type Summary struct {
	Spectra           int     `json:"spectra"`
	Named             int     `json:"named"`
	WithCharge        int     `json:"with_charge"`
	WithRetentionTime int     `json:"with_retention_time"`
	Positive          int     `json:"positive"`
	Negative          int     `json:"negative"`
	MinPeaks          int     `json:"min_peaks"`
	MaxPeaks          int     `json:"max_peaks"`
	MeanPeaks         float64 `json:"mean_peaks"`
	MinPrecursorMZ    float64 `json:"min_precursor_mz"`
	MaxPrecursorMZ    float64 `json:"max_precursor_mz"`
	MinFragmentMZ     float64 `json:"min_fragment_mz"`
	MaxFragmentMZ     float64 `json:"max_fragment_mz"`
}

// Summarize computes count, metadata coverage and m/z ranges over spectra.
// Fragment ranges stay zero when no spectrum has peaks.
func Summarize(spectra []*Spectrum) Summary {
	var s Summary
	if len(spectra) == 0 {
		return s
	}

	s.MinPeaks = math.MaxInt
	s.MinPrecursorMZ = math.Inf(1)
	s.MaxPrecursorMZ = math.Inf(-1)
	minFrag, maxFrag := math.Inf(1), math.Inf(-1)
	totalPeaks := 0

	for _, spec := range spectra {
		s.Spectra++
		if spec.Name != "" {
			s.Named++
		}
		if spec.Charge != 0 {
			s.WithCharge++
		}
		if spec.RetentionTime != nil {
			s.WithRetentionTime++
		}
		switch spec.IonMode {
		case "positive":
			s.Positive++
		case "negative":
			s.Negative++
		}

		n := len(spec.Peaks)
		totalPeaks += n
		s.MinPeaks = min(s.MinPeaks, n)
		s.MaxPeaks = max(s.MaxPeaks, n)

		s.MinPrecursorMZ = math.Min(s.MinPrecursorMZ, spec.PrecursorMZ)
		s.MaxPrecursorMZ = math.Max(s.MaxPrecursorMZ, spec.PrecursorMZ)

		for _, p := range spec.Peaks {
			minFrag = math.Min(minFrag, p.MZ)
			maxFrag = math.Max(maxFrag, p.MZ)
		}
	}

	s.MeanPeaks = RoundFloat(float64(totalPeaks)/float64(s.Spectra), 2)
	if totalPeaks > 0 {
		s.MinFragmentMZ = minFrag
		s.MaxFragmentMZ = maxFrag
	}

	return s
}
