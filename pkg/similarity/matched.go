package similarity

import (
	"math"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

// MatchedPeak is an accepted match resolved back to the raw peaks of both
// spectra, for display.
type MatchedPeak struct {
	Index1 int       `json:"index1"`
	Index2 int       `json:"index2"`
	Peak1  core.Peak `json:"peak1"`
	Peak2  core.Peak `json:"peak2"`
	Weight float64   `json:"weight"`
	// Relative1 and Relative2 are the raw intensities as a percentage of
	// each spectrum's base peak.
	Relative1 float64 `json:"relative1"`
	Relative2 float64 `json:"relative2"`
	// Shifted is set when the raw m/z values differ by at least tol, i.e. the
	// pair was only found after applying the precursor shift.
	Shifted bool `json:"shifted"`
}

// MatchedPeaks resolves r's matches against the spectra that produced it.
func (r Result) MatchedPeaks(s1, s2 *Spectrum, tol float64) []MatchedPeak {
	out := make([]MatchedPeak, 0, len(r.Matches))
	rel1 := s1.RelativeIntensities()
	rel2 := s2.RelativeIntensities()
	for _, m := range r.Matches {
		p1 := s1.Peak(m.Index1)
		p2 := s2.Peak(m.Index2)
		out = append(out, MatchedPeak{
			Index1:    m.Index1,
			Index2:    m.Index2,
			Peak1:     p1,
			Peak2:     p2,
			Weight:    m.Weight,
			Relative1: rel1[m.Index1],
			Relative2: rel2[m.Index2],
			Shifted:   math.Abs(p1.MZ-p2.MZ) >= tol,
		})
	}
	return out
}

// Shift returns the precursor m/z difference used for the shifted pass.
func Shift(s1, s2 *Spectrum) float64 {
	return s1.precursorMZ - s2.precursorMZ
}
