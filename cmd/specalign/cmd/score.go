package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/filter"
	"github.com/ChrisMcGann/SpecAlign/pkg/output"
	"github.com/ChrisMcGann/SpecAlign/pkg/similarity"
)

func init() {
	addAlignmentFlags(scoreCmd)
	addFilterFlags(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score <id1> <id2>",
	Short: "Align two spectra and print their similarity score",
	Long: `Resolve two spectra by name (or file#index for unnamed spectra) from the
given libraries, align them and print the score, the precursor shift and
every matched peak pair.

Examples:
  # Score two compounds from an MSP library
  specalign score Caffeine Theobromine --library massbank.msp

  # Score with a wider tolerance across an imported library and an MGF file
  specalign score "lib.mgf#3" Caffeine -l library.db -l lib.mgf --tolerance 0.05 --min-match 3`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	libs, err := openLibraries(cfg)
	if err != nil {
		return err
	}
	defer libs.Close()

	filterConfig := cfg.FilterOptions()

	s1, err := prepareByID(cmd, libs, args[0], filterConfig)
	if err != nil {
		return err
	}
	s2, err := prepareByID(cmd, libs, args[1], filterConfig)
	if err != nil {
		return err
	}

	tol, minMatch := cfg.Alignment.Tolerance, cfg.Alignment.MinMatch
	res, err := similarity.Align(s1, s2, tol, minMatch)
	if err != nil {
		return fmt.Errorf("failed to align %s and %s: %w", args[0], args[1], err)
	}

	return output.Output(cmd.OutOrStdout(), outputFormat, output.NewScoreReport(s1, s2, res, tol, minMatch))
}

// prepareByID resolves id, filters a copy and prepares it for alignment
func prepareByID(cmd *cobra.Command, libs *libraries, id string, cfg filter.Config) (*similarity.Spectrum, error) {
	spec, err := libs.Resolve(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	return prepareSpectrum(spec, cfg)
}

func prepareSpectrum(spec *core.Spectrum, cfg filter.Config) (*similarity.Spectrum, error) {
	cfg.Apply(spec)
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spectrum %s: %w", spec.Label(), err)
	}

	prepared, err := similarity.Prepare(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare spectrum %s: %w", spec.Label(), err)
	}
	return prepared, nil
}
