package similarity

import "github.com/ChrisMcGann/SpecAlign/pkg/core"

// Match is a pair of peak indices with the product of their normalized
// intensities. Indices refer to positions in the spectra's peak lists.
type Match struct {
	Index1 int     `json:"index1"`
	Index2 int     `json:"index2"`
	Weight float64 `json:"weight"`
}

// FindPairs returns every (i, j) with b[j].MZ+shift in [a[i].MZ-tol, a[i].MZ+tol),
// in row-major order, weighted by a[i].Intensity*b[j].Intensity.
//
// Both slices must be sorted by ascending m/z; this is not checked. The lower
// bound into b only moves forward, so the scan is linear apart from the
// pairs emitted.
func FindPairs(a, b []core.Peak, tol, shift float64) []Match {
	var pairs []Match
	low := 0

	for i, peak := range a {
		for low < len(b) && b[low].MZ+shift < peak.MZ-tol {
			low++
		}
		if low == len(b) {
			break
		}
		for j := low; j < len(b) && b[j].MZ+shift < peak.MZ+tol; j++ {
			pairs = append(pairs, Match{
				Index1: i,
				Index2: j,
				Weight: peak.Intensity * b[j].Intensity,
			})
		}
	}

	return pairs
}
