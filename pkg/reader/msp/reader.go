// Package msp provides streaming readers for MSP (NIST/MoNA/GNPS) format spectral libraries
package msp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner     *bufio.Scanner
	source      string
	lineNum     int
	index       int
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a new MSP reader. source is recorded on every spectrum
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

// readSpectrum reads a single entry. Entries are separated by blank lines;
// the peak list follows the "Num Peaks" header.
func (r *Reader) readSpectrum() (*core.Spectrum, error) {
	spec := &core.Spectrum{
		SourceFile:   r.source,
		SourceFormat: "msp",
		Peaks:        []core.Peak{},
	}

	started := false
	inPeaks := false
	numPeaks := 0
	exactMass := 0.0

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" {
			if started {
				break
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		started = true

		if inPeaks {
			peaks, err := parsePeakLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			spec.Peaks = append(spec.Peaks, peaks...)
			if len(spec.Peaks) >= numPeaks {
				break
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 'Key: value', got %q", r.lineNum, line)
		}
		value = strings.TrimSpace(value)

		switch normalizeKey(key) {
		case "name":
			spec.Name = value
		case "precursormz", "precursor_mz":
			if mz, err := parseFloat(value); err == nil {
				spec.PrecursorMZ = mz
			}
		case "exactmass":
			if m, err := parseFloat(value); err == nil {
				exactMass = m
			}
		case "charge":
			if z, err := parseCharge(value); err == nil {
				if spec.IonMode == "negative" && z > 0 {
					z = -z
				}
				spec.Charge = z
			}
		case "ion_mode", "ionmode":
			spec.IonMode = parseIonMode(value)
			if spec.IonMode == "negative" && spec.Charge > 0 {
				spec.Charge = -spec.Charge
			}
		case "instrument", "instrument_type":
			spec.Instrument = value
		case "collision_energy", "collisionenergy":
			if ce, err := parseFloat(strings.TrimSuffix(value, "%")); err == nil {
				spec.CollisionEnergy = &ce
			}
		case "retentiontime", "rt":
			if rt, err := parseFloat(value); err == nil {
				spec.RetentionTime = &rt
			}
		case "comment", "comments":
			r.parseComment(spec, value)
		case "num peaks", "numpeaks":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid num peaks %q", r.lineNum, value)
			}
			numPeaks = n
			inPeaks = true
			if numPeaks == 0 {
				inPeaks = false
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if !started {
		return nil, io.EOF
	}

	if inPeaks && len(spec.Peaks) < numPeaks {
		return nil, fmt.Errorf("line %d: spectrum %q declares %d peaks, found %d", r.lineNum, spec.Name, numPeaks, len(spec.Peaks))
	}

	// Fall back to the exact mass when no precursor m/z was given
	if spec.PrecursorMZ == 0 && exactMass > 0 {
		charge := spec.Charge
		if charge == 0 && spec.IonMode == "negative" {
			charge = -1
		}
		spec.PrecursorMZ = core.PrecursorMZ(exactMass, charge)
	}

	return spec, nil
}

// parseComment extracts metadata from a Comment field
// Example: "Parent=195.0877 Charge=1 RT=61.01"
func (r *Reader) parseComment(spec *core.Spectrum, comment string) {
	fields := strings.Fields(strings.Trim(comment, "\""))
	for _, field := range fields {
		key, value, ok := strings.Cut(strings.Trim(field, "\""), "=")
		if !ok {
			continue
		}

		switch strings.ToLower(key) {
		case "parent", "precursormz":
			if spec.PrecursorMZ == 0 {
				if mz, err := parseFloat(value); err == nil {
					spec.PrecursorMZ = mz
				}
			}
		case "rt", "retentiontime":
			if rt, err := parseFloat(value); err == nil {
				spec.RetentionTime = &rt
			}
		}
	}
}

// parsePeakLine parses one or more peaks from a line. Peaks are either one
// per line ("mz intensity [annotation]") or ';'-separated ("mz intensity; mz intensity").
func parsePeakLine(line string) ([]core.Peak, error) {
	var peaks []core.Peak
	for _, chunk := range strings.Split(line, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		fields := strings.Fields(chunk)
		if len(fields) < 2 {
			return nil, fmt.Errorf("invalid peak format %q, expected at least 2 fields", chunk)
		}

		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid m/z value: %w", err)
		}

		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid intensity value: %w", err)
		}

		peak := core.Peak{MZ: mz, Intensity: intensity}
		if len(fields) >= 3 {
			peak.Annotation = strings.Trim(strings.Join(fields[2:], " "), "\"")
		}
		peaks = append(peaks, peak)
	}
	return peaks, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func parseFloat(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// parseCharge accepts "1", "+1", "1+", "2-" and "-2"
func parseCharge(s string) (int, error) {
	s = strings.TrimSpace(s)
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
		return 0, fmt.Errorf("invalid charge %q: %w", s, err)
	}
	return sign * z, nil
}

func parseIonMode(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "positive", "pos", "+":
		return "positive"
	case "n", "negative", "neg", "-":
		return "negative"
	default:
		return ""
	}
}
