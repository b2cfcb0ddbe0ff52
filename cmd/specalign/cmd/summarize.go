package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/output"
	"github.com/ChrisMcGann/SpecAlign/pkg/reader"
	"github.com/ChrisMcGann/SpecAlign/pkg/store/sqlite"
)

func init() {
	summarizeCmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Input format: msp or mgf (auto-detect if not specified)")
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize spectral library contents",
	Long:  `Print summary statistics about a spectral library including spectrum count, m/z ranges, and metadata coverage.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	path := args[0]
	var (
		spectra []*core.Spectrum
		err     error
	)
	if isDatabase(path) {
		spectra, err = readDatabase(cmd, path)
	} else {
		spectra, err = reader.ReadFile(path, inputFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := &output.SummaryReport{
		File:    filepath.Base(path),
		Summary: core.Summarize(spectra),
	}
	return output.Output(cmd.OutOrStdout(), outputFormat, report)
}

func readDatabase(cmd *cobra.Command, path string) ([]*core.Spectrum, error) {
	lib, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	defer lib.Close()

	return lib.All(cmd.Context())
}
