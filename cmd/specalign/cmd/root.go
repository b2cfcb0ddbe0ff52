// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SpecAlign/internal/config"
	"github.com/ChrisMcGann/SpecAlign/pkg/output"
)

var (
	// Global flags
	configPath   string
	outputFormat string
	quiet        bool

	// Alignment flags shared by score and search
	libraryPaths []string
	inputFormat  string
	tolerance    float64
	minMatch     int

	// Filter flags shared by import, score and search
	topN            int
	cutoffPercent   float64
	minMZ           float64
	maxMZ           float64
	precursorWindow float64
	removeZero      bool
)

var rootCmd = &cobra.Command{
	Use:   "specalign",
	Short: "SpecAlign - MS/MS spectral alignment and library search",
	Long: `SpecAlign scores pairs of MS/MS spectra with a shift-aware cosine similarity
that credits fragment peaks offset by the precursor m/z difference, and
searches spectral libraries (MSP, MGF or imported SQLite) for the best hits.

Configuration is read from ~/.config/specalign/config.toml when present.
Command line flags override configured values.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/specalign/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", output.FormatTable, "Output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress messages")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(configCmd)
}

// addAlignmentFlags registers the library and alignment flags on cmd
func addAlignmentFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&libraryPaths, "library", "l", nil, "Library files to resolve spectra from (.msp, .mgf or imported .db; repeatable)")
	cmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Format of non-database library files: msp or mgf (auto-detect if not specified)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.02, "Peak matching tolerance in m/z units")
	cmd.Flags().IntVar(&minMatch, "min-match", 6, "Minimum matched peaks for a non-zero score")
}

// addFilterFlags registers the peak filter flags on cmd
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&topN, "top-n", 0, "Keep only top N most intense peaks (0 = no limit)")
	cmd.Flags().Float64Var(&cutoffPercent, "cutoff", 0, "Intensity cutoff as % of base peak (0 = no cutoff)")
	cmd.Flags().Float64Var(&minMZ, "min-mz", 0, "Drop peaks below this m/z (0 = no bound)")
	cmd.Flags().Float64Var(&maxMZ, "max-mz", 0, "Drop peaks above this m/z (0 = no bound)")
	cmd.Flags().Float64Var(&precursorWindow, "precursor-window", 0, "Drop peaks within +/- this many Da of the precursor (0 = off)")
	cmd.Flags().BoolVar(&removeZero, "remove-zero", false, "Drop zero-intensity peaks (they otherwise still count as matches)")
}

// loadConfig reads the configuration file and applies any flags that were
// set explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, required := configPath, true
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
		required = false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup("tolerance") != nil {
		if flags.Changed("tolerance") {
			cfg.Alignment.Tolerance = tolerance
		}
		if flags.Changed("min-match") {
			cfg.Alignment.MinMatch = minMatch
		}
	}
	if flags.Lookup("top-n") != nil {
		if flags.Changed("top-n") {
			cfg.Filter.TopN = topN
		}
		if flags.Changed("cutoff") {
			cfg.Filter.Cutoff = cutoffPercent
		}
		if flags.Changed("min-mz") {
			cfg.Filter.MinMZ = minMZ
		}
		if flags.Changed("max-mz") {
			cfg.Filter.MaxMZ = maxMZ
		}
		if flags.Changed("precursor-window") {
			cfg.Filter.PrecursorWindow = precursorWindow
		}
		if flags.Changed("remove-zero") {
			cfg.Filter.RemoveZero = removeZero
		}
	}
	if flags.Lookup("workers") != nil {
		if flags.Changed("workers") {
			cfg.Search.Workers = workers
		}
		if flags.Changed("top") {
			cfg.Search.Top = top
		}
		if flags.Changed("min-score") {
			cfg.Search.MinScore = minScore
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if !output.ValidFormat(outputFormat) {
		return nil, fmt.Errorf("invalid output format '%s', must be table or json", outputFormat)
	}

	return cfg, nil
}

// progress prints a progress line unless --quiet was given
func progress(w io.Writer, format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// warn reports a skipped record on stderr
func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
