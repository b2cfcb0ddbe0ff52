package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SpecAlign/pkg/filter"
	"github.com/ChrisMcGann/SpecAlign/pkg/reader"
	"github.com/ChrisMcGann/SpecAlign/pkg/store/sqlite"
)

var (
	// Flags for import command
	inputFile  string
	outputFile string
)

func init() {
	addFilterFlags(importCmd)

	importCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input file path (required)")
	importCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	importCmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Input format: msp or mgf (auto-detect if not specified)")

	importCmd.MarkFlagRequired("in")
	importCmd.MarkFlagRequired("out")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a spectral library into a SQLite database",
	Long: `Import spectra from an MSP or MGF library into a SQLite database that
score and search can read directly.

Examples:
  # Import an MSP file with default settings
  specalign import --in massbank.msp --out massbank.db

  # Keep the 50 most intense peaks above 1% of the base peak
  specalign import --in library.mgf --out library.db --top-n 50 --cutoff 1`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Validate input file exists
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	// Auto-detect format if not specified
	format := inputFormat
	if format == "" {
		if format, err = reader.DetectFormat(inputFile); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	filterConfig := cfg.FilterOptions()

	progress(out, "Importing %s to %s...\n", inputFile, outputFile)
	progress(out, "Format: %s\n", format)
	if !filterConfig.IsZero() {
		if filterConfig.TopN > 0 {
			progress(out, "Top N filter: %d\n", filterConfig.TopN)
		}
		if filterConfig.IntensityCutoff > 0 {
			progress(out, "Intensity cutoff: %.1f%%\n", filterConfig.IntensityCutoff)
		}
		if filterConfig.MinMZ > 0 || filterConfig.MaxMZ > 0 {
			progress(out, "m/z range: %.4f - %.4f\n", filterConfig.MinMZ, filterConfig.MaxMZ)
		}
		if filterConfig.PrecursorWindow > 0 {
			progress(out, "Precursor window: +/- %.4f\n", filterConfig.PrecursorWindow)
		}
		if filterConfig.RemoveZero {
			progress(out, "Removing zero-intensity peaks\n")
		}
	}

	count, skipped, err := importLibrary(cmd, format, filterConfig)
	if err != nil {
		return err
	}

	progress(out, "\nImport complete!\n")
	progress(out, "Processed: %d spectra\n", count)
	if skipped > 0 {
		progress(out, "Skipped: %d spectra (validation errors)\n", skipped)
	}
	progress(out, "Output: %s\n", outputFile)

	return nil
}

func importLibrary(cmd *cobra.Command, format string, filterConfig filter.Config) (count, skipped int, err error) {
	// Open input file
	inFile, err := os.Open(inputFile)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	r, err := reader.New(inFile, format, filepath.Base(inputFile))
	if err != nil {
		return 0, 0, err
	}

	// Create SQLite writer
	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	ctx := cmd.Context()
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return count, skipped, err
		}

		spec := r.Spectrum()

		filterConfig.Apply(spec)

		// Validate spectrum
		if err := spec.Validate(); err != nil {
			warn("invalid spectrum %s: %v", spec.Label(), err)
			skipped++
			continue
		}

		// Write to database
		if err := writer.WriteSpectrum(spec); err != nil {
			return count, skipped, fmt.Errorf("failed to write spectrum %s: %w", spec.Label(), err)
		}

		count++
		if count%1000 == 0 {
			progress(cmd.OutOrStdout(), "Processed %d spectra...\n", count)
		}
	}

	if err := r.Err(); err != nil {
		return count, skipped, fmt.Errorf("error reading input file: %w", err)
	}

	// Finalize database
	if err := writer.Finalize(); err != nil {
		return count, skipped, fmt.Errorf("failed to finalize database: %w", err)
	}

	return count, skipped, nil
}
