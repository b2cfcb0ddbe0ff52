package msp

import (
	"math"
	"strings"
	"testing"
)

const testLibrary = `Name: Caffeine
PrecursorMZ: 195.0877
Precursor_type: [M+H]+
Ion_mode: P
Charge: 1
Comments: "SMILES=CN1C=NC2=C1C(=O)N(C(=O)N2C)C"
Num Peaks: 3
110.0713 1000
138.0662 2000 "frag"
195.0877 500

Name: Theobromine
ExactMass: 180.0647
Ion_mode: N
Num Peaks: 4
108.0 10; 137.0 20
179.05 100
42.0 5

`

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(testLibrary), "test.msp")

	if !r.Next() {
		t.Fatalf("expected first spectrum, err = %v", r.Err())
	}
	spec := r.Spectrum()
	if spec.Name != "Caffeine" {
		t.Errorf("Name = %q, want Caffeine", spec.Name)
	}
	if spec.PrecursorMZ != 195.0877 {
		t.Errorf("PrecursorMZ = %f, want 195.0877", spec.PrecursorMZ)
	}
	if spec.Charge != 1 || spec.IonMode != "positive" {
		t.Errorf("Charge/IonMode = %d/%s, want 1/positive", spec.Charge, spec.IonMode)
	}
	if len(spec.Peaks) != 3 {
		t.Fatalf("Expected 3 peaks, got %d", len(spec.Peaks))
	}
	if spec.Peaks[1].Annotation != "frag" {
		t.Errorf("Annotation = %q, want frag", spec.Peaks[1].Annotation)
	}
	if spec.SourceFile != "test.msp" || spec.SourceFormat != "msp" || spec.SourceIndex != 0 {
		t.Errorf("unexpected source tracking: %s %s %d", spec.SourceFile, spec.SourceFormat, spec.SourceIndex)
	}

	if !r.Next() {
		t.Fatalf("expected second spectrum, err = %v", r.Err())
	}
	spec = r.Spectrum()
	if spec.Name != "Theobromine" || spec.SourceIndex != 1 {
		t.Errorf("unexpected second spectrum %q index %d", spec.Name, spec.SourceIndex)
	}
	if len(spec.Peaks) != 4 {
		t.Fatalf("Expected 4 peaks, got %d", len(spec.Peaks))
	}
	// deprotonated from exact mass
	if math.Abs(spec.PrecursorMZ-179.0574) > 0.001 {
		t.Errorf("PrecursorMZ = %f, want ~179.0574", spec.PrecursorMZ)
	}

	if r.Next() {
		t.Error("expected end of file")
	}
	if err := r.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad num peaks", "Name: x\nNum Peaks: many\n"},
		{"bad peak", "Name: x\nNum Peaks: 1\nabc 10\n"},
		{"truncated peaks", "Name: x\nNum Peaks: 3\n100 1\n\n"},
		{"not a header", "Name: x\ngarbage line\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), "bad.msp")
			for r.Next() {
			}
			if r.Err() == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseCharge(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"2+", 2},
		{"1-", -1},
		{"-2", -2},
	}

	for _, tt := range tests {
		got, err := parseCharge(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseCharge(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}
