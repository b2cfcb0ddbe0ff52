package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *ScoreReport:
		return scoreTable(w, v)
	case *SearchReport:
		return searchTable(w, v)
	case *SummaryReport:
		return summaryTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func scoreTable(w io.Writer, r *ScoreReport) error {
	fmt.Fprintf(w, "Query:     %s (precursor %.4f)\n", r.Query, r.QueryPrecursor)
	fmt.Fprintf(w, "Target:    %s (precursor %.4f)\n", r.Target, r.TargetPrecursor)
	fmt.Fprintf(w, "Shift:     %.4f\n", r.Shift)
	fmt.Fprintf(w, "Score:     %.4f\n", r.Score)
	fmt.Fprintf(w, "Matches:   %d", len(r.Matches))
	if r.Score == 0 && len(r.Matches) > 0 && len(r.Matches) < r.MinMatch {
		fmt.Fprintf(w, " (below min-match %d)", r.MinMatch)
	}
	fmt.Fprintln(w)

	if len(r.Matches) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Index1", "Index2", "MZ1", "MZ2", "Rel1 %", "Rel2 %", "Weight", "Shifted")
	for _, m := range r.Matches {
		shifted := "no"
		if m.Shifted {
			shifted = "yes"
		}
		row := []string{
			strconv.Itoa(m.Index1),
			strconv.Itoa(m.Index2),
			formatMZ(m.Peak1.MZ),
			formatMZ(m.Peak2.MZ),
			formatPercent(m.Relative1),
			formatPercent(m.Relative2),
			formatScore(m.Weight),
			shifted,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append match row: %w", err)
		}
	}
	return table.Render()
}

func searchTable(w io.Writer, r *SearchReport) error {
	fmt.Fprintf(w, "Query:     %s (precursor %.4f)\n", r.Query, r.QueryPrecursor)
	fmt.Fprintf(w, "Library:   %d spectra", r.LibrarySize)
	if r.Skipped > 0 {
		fmt.Fprintf(w, " (%d skipped)", r.Skipped)
	}
	fmt.Fprintln(w)

	if len(r.Hits) == 0 {
		fmt.Fprintln(w, "No hits found.")
		return nil
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Name", "Precursor", "Score", "Matches")
	for _, h := range r.Hits {
		row := []string{
			strconv.Itoa(h.Rank),
			truncate(h.Name, 40),
			formatMZ(h.PrecursorMZ),
			formatScore(h.Score),
			strconv.Itoa(h.Matches),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append hit row: %w", err)
		}
	}
	return table.Render()
}

func summaryTable(w io.Writer, r *SummaryReport) error {
	s := r.Summary
	fmt.Fprintf(w, "Library:   %s\n", r.File)
	fmt.Fprintf(w, "Spectra:   %d\n", s.Spectra)
	if s.Spectra == 0 {
		return nil
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][]string{
		{"Named", coverage(s.Named, s.Spectra)},
		{"Charge known", coverage(s.WithCharge, s.Spectra)},
		{"Retention time", coverage(s.WithRetentionTime, s.Spectra)},
		{"Positive mode", coverage(s.Positive, s.Spectra)},
		{"Negative mode", coverage(s.Negative, s.Spectra)},
		{"Peaks (min/mean/max)", fmt.Sprintf("%d / %.1f / %d", s.MinPeaks, s.MeanPeaks, s.MaxPeaks)},
		{"Precursor m/z", fmt.Sprintf("%s - %s", formatMZ(s.MinPrecursorMZ), formatMZ(s.MaxPrecursorMZ))},
		{"Fragment m/z", fmt.Sprintf("%s - %s", formatMZ(s.MinFragmentMZ), formatMZ(s.MaxFragmentMZ))},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append summary row: %w", err)
		}
	}
	return table.Render()
}

func formatMZ(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func coverage(n, total int) string {
	return fmt.Sprintf("%d (%.1f%%)", n, 100*float64(n)/float64(total))
}

// truncate shortens s to at most max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
