// Package mgf provides streaming readers for MGF (Mascot generic format) spectrum files
package mgf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

// Reader provides streaming access to MGF format files
type Reader struct {
	scanner     *bufio.Scanner
	source      string
	lineNum     int
	index       int
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a new MGF reader. source is recorded on every spectrum
// as its SourceFile.
func NewReader(r io.Reader, source string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &Reader{
		scanner: scanner,
		source:  source,
	}
}

// Next advances to the next spectrum. Returns false when no more spectra or error.
func (r *Reader) Next() bool {
	r.currentSpec = nil

	spec, err := r.readSpectrum()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	spec.SourceIndex = r.index
	r.index++
	r.currentSpec = spec
	return true
}

// Spectrum returns the current spectrum
func (r *Reader) Spectrum() *core.Spectrum {
	return r.currentSpec
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readSpectrum reads one BEGIN IONS ... END IONS block
func (r *Reader) readSpectrum() (*core.Spectrum, error) {
	var spec *core.Spectrum

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		// Skip comments and empty lines
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '!' {
			continue
		}

		if spec == nil {
			if strings.EqualFold(line, "BEGIN IONS") {
				spec = &core.Spectrum{
					SourceFile:   r.source,
					SourceFormat: "mgf",
					Peaks:        []core.Peak{},
				}
			}
			// Global parameters before the first block are ignored
			continue
		}

		if strings.EqualFold(line, "END IONS") {
			if spec.IonMode == "negative" && spec.Charge > 0 {
				spec.Charge = -spec.Charge
			}
			return spec, nil
		}

		if key, value, ok := strings.Cut(line, "="); ok && !startsNumeric(line) {
			if err := r.parseParam(spec, strings.ToUpper(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			continue
		}

		peak, err := parsePeak(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		spec.Peaks = append(spec.Peaks, peak)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if spec != nil {
		return nil, fmt.Errorf("line %d: missing END IONS", r.lineNum)
	}

	return nil, io.EOF
}

// parseParam handles a KEY=value line inside an ions block
func (r *Reader) parseParam(spec *core.Spectrum, key, value string) error {
	switch key {
	case "TITLE", "NAME":
		spec.Name = value

	case "PEPMASS":
		// PEPMASS=mz [intensity]
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("empty PEPMASS")
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("invalid PEPMASS '%s': %w", value, err)
		}
		spec.PrecursorMZ = mz

	case "PRECURSORMZ":
		if spec.PrecursorMZ == 0 {
			mz, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid PRECURSORMZ '%s': %w", value, err)
			}
			spec.PrecursorMZ = mz
		}

	case "CHARGE":
		// May list alternatives ("2+ and 3+"); take the first
		fields := strings.Fields(strings.ReplaceAll(value, ",", " "))
		if len(fields) == 0 {
			return nil
		}
		z, err := parseCharge(fields[0])
		if err != nil {
			return err
		}
		spec.Charge = z

	case "RTINSECONDS":
		rt, err := strconv.ParseFloat(strings.Split(value, "-")[0], 64)
		if err == nil {
			spec.RetentionTime = &rt
		}

	case "IONMODE":
		switch strings.ToLower(value) {
		case "positive":
			spec.IonMode = "positive"
		case "negative":
			spec.IonMode = "negative"
		}

	case "SOURCE_INSTRUMENT", "INSTRUMENT":
		spec.Instrument = value
	}

	return nil
}

// parsePeak parses a single peak line
// Format: "mz intensity [charge]" separated by spaces or tabs
func parsePeak(line string) (core.Peak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format, expected at least 2 fields")
	}

	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid m/z value: %w", err)
	}

	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid intensity value: %w", err)
	}

	return core.Peak{MZ: mz, Intensity: intensity}, nil
}

// parseCharge accepts "1", "1+", "2-" and "-2"
func parseCharge(s string) (int, error) {
	sign := 1
	switch {
	case strings.HasSuffix(s, "-"):
		sign = -1
		s = strings.TrimSuffix(s, "-")
	case strings.HasSuffix(s, "+"):
		s = strings.TrimSuffix(s, "+")
	}
	z, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid charge '%s': %w", s, err)
	}
	return sign * z, nil
}

func startsNumeric(line string) bool {
	c := line[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '-'
}
