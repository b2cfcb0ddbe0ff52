package mgf

import (
	"strings"
	"testing"
)

const testMGF = `# exported
COM=global params are ignored
BEGIN IONS
TITLE=scan=1
PEPMASS=445.12 1200.5
CHARGE=1+
RTINSECONDS=61.2
110.07 10
138.06	20
END IONS

BEGIN IONS
PEPMASS=300.1
CHARGE=1
IONMODE=negative
100.0 5
END IONS
`

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(testMGF), "test.mgf")

	if !r.Next() {
		t.Fatalf("expected first spectrum, err = %v", r.Err())
	}
	spec := r.Spectrum()
	if spec.Name != "scan=1" {
		t.Errorf("Name = %q, want scan=1", spec.Name)
	}
	if spec.PrecursorMZ != 445.12 {
		t.Errorf("PrecursorMZ = %f, want 445.12", spec.PrecursorMZ)
	}
	if spec.Charge != 1 {
		t.Errorf("Charge = %d, want 1", spec.Charge)
	}
	if spec.RetentionTime == nil || *spec.RetentionTime != 61.2 {
		t.Errorf("RetentionTime = %v, want 61.2", spec.RetentionTime)
	}
	if len(spec.Peaks) != 2 || spec.Peaks[1].MZ != 138.06 {
		t.Errorf("unexpected peaks %+v", spec.Peaks)
	}

	if !r.Next() {
		t.Fatalf("expected second spectrum, err = %v", r.Err())
	}
	spec = r.Spectrum()
	if spec.Name != "" || spec.SourceIndex != 1 || spec.Label() != "test.mgf#1" {
		t.Errorf("unexpected unnamed spectrum label %q", spec.Label())
	}
	if spec.Charge != -1 {
		t.Errorf("Charge = %d, want -1 in negative mode", spec.Charge)
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
		{"missing end", "BEGIN IONS\nPEPMASS=100\n100 1\n"},
		{"bad peak", "BEGIN IONS\nPEPMASS=100\n100 abc\nEND IONS\n"},
		{"bad pepmass", "BEGIN IONS\nPEPMASS=abc\nEND IONS\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), "bad.mgf")
			for r.Next() {
			}
			if r.Err() == nil {
				t.Error("expected an error")
			}
		})
	}
}
