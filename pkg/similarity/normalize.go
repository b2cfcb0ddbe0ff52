package similarity

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

// Normalize returns a copy of peaks whose intensities are replaced by
// sqrt(intensity) / sqrt(total intensity). The squared output intensities sum
// to 1. Order, m/z values and annotations are preserved.
//
// Normalize fails with ErrDegenerateSpectrum when the total intensity is zero
// (including an empty peak list) and with a ParameterError for negative or
// non-finite intensities.
func Normalize(peaks []core.Peak) ([]core.Peak, error) {
	roots := make([]float64, len(peaks))
	total := 0.0
	for i, peak := range peaks {
		if peak.Intensity < 0 || math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			return nil, &ParameterError{
				Field:   "intensity",
				Message: fmt.Sprintf("peak %d has intensity %v", i, peak.Intensity),
			}
		}
		roots[i] = math.Sqrt(peak.Intensity)
		total += peak.Intensity
	}
	if total <= 0 {
		return nil, ErrDegenerateSpectrum
	}

	// Exact division: a reciprocal multiply can be 1 ulp off and reorder tied weights
	norm := math.Sqrt(total)
	normalized := make([]core.Peak, len(peaks))
	for i, peak := range peaks {
		normalized[i] = core.Peak{
			MZ:         peak.MZ,
			Intensity:  roots[i] / norm,
			Annotation: peak.Annotation,
		}
	}

	return normalized, nil
}
