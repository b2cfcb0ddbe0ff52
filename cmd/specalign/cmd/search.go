package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SpecAlign/pkg/output"
	"github.com/ChrisMcGann/SpecAlign/pkg/search"
)

var (
	// Flags for search command
	workers  int
	top      int
	minScore float64
)

func init() {
	addAlignmentFlags(searchCmd)
	addFilterFlags(searchCmd)

	searchCmd.Flags().IntVar(&workers, "workers", 0, "Number of scoring workers (0 = number of CPUs)")
	searchCmd.Flags().IntVar(&top, "top", 10, "Number of hits to report (0 = all)")
	searchCmd.Flags().Float64Var(&minScore, "min-score", 0, "Report only hits scoring at least this much")
}

var searchCmd = &cobra.Command{
	Use:   "search <query-id>",
	Short: "Search a spectral library for the spectra most similar to a query",
	Long: `Resolve the query spectrum from the given libraries, score it against every
library spectrum on a pool of workers and print the best hits.

The query itself is part of the library and is reported like any other hit.

Examples:
  # Top 10 hits for Caffeine in an imported library
  specalign search Caffeine --library library.db

  # All hits scoring 0.7 or better, searching two MSP files
  specalign search "nist.msp#12" -l nist.msp -l massbank.msp --top 0 --min-score 0.7`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	libs, err := openLibraries(cfg)
	if err != nil {
		return err
	}
	defer libs.Close()

	ctx := cmd.Context()
	filterConfig := cfg.FilterOptions()

	query, err := prepareByID(cmd, libs, args[0], filterConfig)
	if err != nil {
		return err
	}

	records, err := libs.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	library, skipped := search.Prepare(records, filterConfig)
	for _, s := range skipped {
		warn("skipping library spectrum %s: %v", s.Label, s.Err)
	}

	opts := cfg.SearchOptions()
	searcher, err := search.NewSearcher(library, opts)
	if err != nil {
		return err
	}

	progress(cmd.ErrOrStderr(), "Searching %d spectra for %s...\n", searcher.Len(), query.Name())

	hits, err := searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	report := &output.SearchReport{
		RunID:          output.NewRunID(),
		Query:          query.Name(),
		QueryPrecursor: query.PrecursorMZ(),
		LibrarySize:    len(library),
		Skipped:        len(skipped),
		Tolerance:      opts.Tolerance,
		MinMatch:       opts.MinMatch,
		Hits:           hits,
	}
	return output.Output(cmd.OutOrStdout(), outputFormat, report)
}
