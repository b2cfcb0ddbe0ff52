package output

import (
	"github.com/google/uuid"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/search"
	"github.com/ChrisMcGann/SpecAlign/pkg/similarity"
)

// ScoreReport is the result of aligning two spectra.
type ScoreReport struct {
	RunID           string                   `json:"run_id"`
	Query           string                   `json:"query"`
	Target          string                   `json:"target"`
	QueryPrecursor  float64                  `json:"query_precursor_mz"`
	TargetPrecursor float64                  `json:"target_precursor_mz"`
	Shift           float64                  `json:"shift"`
	Tolerance       float64                  `json:"tolerance"`
	MinMatch        int                      `json:"min_match"`
	Score           float64                  `json:"score"`
	Matches         []similarity.MatchedPeak `json:"matches"`
}

// NewScoreReport builds a report for a finished alignment of s1 against s2.
func NewScoreReport(s1, s2 *similarity.Spectrum, res similarity.Result, tol float64, minMatch int) *ScoreReport {
	return &ScoreReport{
		RunID:           NewRunID(),
		Query:           s1.Name(),
		Target:          s2.Name(),
		QueryPrecursor:  s1.PrecursorMZ(),
		TargetPrecursor: s2.PrecursorMZ(),
		Shift:           similarity.Shift(s1, s2),
		Tolerance:       tol,
		MinMatch:        minMatch,
		Score:           res.Score,
		Matches:         res.MatchedPeaks(s1, s2, tol),
	}
}

// SearchReport lists the ranked hits of one library search.
type SearchReport struct {
	RunID          string       `json:"run_id"`
	Query          string       `json:"query"`
	QueryPrecursor float64      `json:"query_precursor_mz"`
	LibrarySize    int          `json:"library_size"`
	Skipped        int          `json:"skipped"`
	Tolerance      float64      `json:"tolerance"`
	MinMatch       int          `json:"min_match"`
	Hits           []search.Hit `json:"hits"`
}

// SummaryReport describes the contents of one library file.
type SummaryReport struct {
	File string `json:"file"`
	core.Summary
}

// NewRunID returns a fresh identifier for a report
func NewRunID() string {
	return uuid.New().String()
}
