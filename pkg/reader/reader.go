// Package reader opens spectral library files in any supported format
package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/reader/mgf"
	"github.com/ChrisMcGann/SpecAlign/pkg/reader/msp"
)

// Supported formats
const (
	FormatMSP = "msp"
	FormatMGF = "mgf"
)

// SpectrumReader streams spectra from a library file.
type SpectrumReader interface {
	Next() bool
	Spectrum() *core.Spectrum
	Err() error
}

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".msp":
		return FormatMSP, nil
	case ".mgf":
		return FormatMGF, nil
	default:
		return "", fmt.Errorf("cannot auto-detect format from extension '%s', please specify --from", ext)
	}
}

// New returns a reader for the given format. source labels the spectra.
func New(r io.Reader, format, source string) (SpectrumReader, error) {
	switch strings.ToLower(format) {
	case FormatMSP:
		return msp.NewReader(r, source), nil
	case FormatMGF:
		return mgf.NewReader(r, source), nil
	default:
		return nil, fmt.Errorf("invalid input format '%s', must be msp or mgf", format)
	}
}

// ReadFile loads every spectrum in path. An empty format is detected from
// the extension.
func ReadFile(path, format string) ([]*core.Spectrum, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r, err := New(f, format, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	var spectra []*core.Spectrum
	for r.Next() {
		spectra = append(spectra, r.Spectrum())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return spectra, nil
}
