package similarity

import (
	"fmt"
	"math"
	"sort"
)

// Result is the outcome of aligning two spectra. Matches are ordered by
// descending weight and no index appears twice on either side.
type Result struct {
	Score   float64 `json:"score"`
	Matches []Match `json:"matches"`
}

// Align scores s1 against s2 with a cosine-style similarity that also
// credits peaks offset by the precursor m/z difference.
//
// Candidate pairs come from FindPairs with shift 0 followed by FindPairs with
// shift s1.PrecursorMZ()-s2.PrecursorMZ(). They are stable-sorted by
// descending weight and accepted greedily while both indices are unused.
// When fewer than minMatch pairs are accepted the score is 0, but the
// accepted matches are still returned.
//
// If either spectrum has no peaks the result is a zero score with no matches.
func Align(s1, s2 *Spectrum, tol float64, minMatch int) (Result, error) {
	if err := validateParams(s1, s2, tol, minMatch); err != nil {
		return Result{}, err
	}

	if s1.NPeaks() == 0 || s2.NPeaks() == 0 {
		return Result{Score: 0, Matches: []Match{}}, nil
	}

	candidates := FindPairs(s1.normalized, s2.normalized, tol, 0)

	// With a zero shift the second pass would only repeat the first; the
	// repeats sort after the originals and could never be accepted.
	shift := s1.precursorMZ - s2.precursorMZ
	if shift != 0 {
		candidates = append(candidates, FindPairs(s1.normalized, s2.normalized, tol, shift)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight > candidates[j].Weight
	})

	used1 := make([]bool, s1.NPeaks())
	used2 := make([]bool, s2.NPeaks())
	score := 0.0
	matches := []Match{}
	for _, c := range candidates {
		if used1[c.Index1] || used2[c.Index2] {
			continue
		}
		used1[c.Index1] = true
		used2[c.Index2] = true
		score += c.Weight
		matches = append(matches, c)
	}

	if len(matches) < minMatch {
		score = 0
	}

	return Result{Score: score, Matches: matches}, nil
}

func validateParams(s1, s2 *Spectrum, tol float64, minMatch int) error {
	if s1 == nil || s2 == nil {
		return &ParameterError{Field: "spectrum", Message: "must not be nil"}
	}
	return ValidateParameters(tol, minMatch)
}

// ValidateParameters checks the tolerance and minimum match count accepted
// by Align.
func ValidateParameters(tol float64, minMatch int) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		return &ParameterError{Field: "tolerance", Message: fmt.Sprintf("must be a positive number, got %v", tol)}
	}
	if minMatch < 0 {
		return &ParameterError{Field: "min_match", Message: fmt.Sprintf("must not be negative, got %d", minMatch)}
	}
	return nil
}
