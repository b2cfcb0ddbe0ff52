package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

func testSpectra() []*core.Spectrum {
	return []*core.Spectrum{
		{Name: "caffeine", PrecursorMZ: 195.0877, SourceFile: "a.msp", SourceIndex: 0, Peaks: []core.Peak{{MZ: 138, Intensity: 1}}},
		{Name: "dup", PrecursorMZ: 300, SourceFile: "a.msp", SourceIndex: 1},
		{Name: "dup", PrecursorMZ: 301, SourceFile: "b.mgf", SourceIndex: 0},
		{PrecursorMZ: 400, SourceFile: "b.mgf", SourceIndex: 1},
	}
}

func TestMemoryResolver(t *testing.T) {
	m := NewMemoryResolver(testSpectra())
	ctx := context.Background()
	assert.Equal(t, 4, m.Len())

	spec, err := m.Resolve(ctx, "caffeine")
	require.NoError(t, err)
	assert.Equal(t, 195.0877, spec.PrecursorMZ)

	// returned spectra are copies
	spec.Peaks[0].MZ = 1
	again, err := m.Resolve(ctx, "caffeine")
	require.NoError(t, err)
	assert.Equal(t, 138.0, again.Peaks[0].MZ)

	spec, err = m.Resolve(ctx, "b.mgf#1")
	require.NoError(t, err)
	assert.Equal(t, 400.0, spec.PrecursorMZ)

	spec, err = m.Resolve(ctx, "b.mgf#0")
	require.NoError(t, err)
	assert.Equal(t, 301.0, spec.PrecursorMZ, "references disambiguate shared names")

	_, err = m.Resolve(ctx, "dup")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = m.Resolve(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)

	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "nothing", rerr.ID)
}

func TestMemoryResolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryResolver(testSpectra()).Resolve(ctx, "caffeine")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChain(t *testing.T) {
	first := NewMemoryResolver(testSpectra()[:1])
	second := NewMemoryResolver(testSpectra()[1:])
	chain := Chain{first, second}
	ctx := context.Background()

	spec, err := chain.Resolve(ctx, "caffeine")
	require.NoError(t, err)
	assert.Equal(t, "caffeine", spec.Name)

	spec, err = chain.Resolve(ctx, "b.mgf#1")
	require.NoError(t, err)
	assert.Equal(t, 400.0, spec.PrecursorMZ)

	// ambiguity is reported, not skipped
	_, err = chain.Resolve(ctx, "dup")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = chain.Resolve(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		id     string
		file   string
		index  int
		wantOK bool
	}{
		{"lib.msp#3", "lib.msp", 3, true},
		{"a#b.mgf#0", "a#b.mgf", 0, true},
		{"lib.msp#", "", 0, false},
		{"#3", "", 0, false},
		{"lib.msp#-1", "", 0, false},
		{"caffeine", "", 0, false},
	}

	for _, tt := range tests {
		file, index, ok := ParseRef(tt.id)
		if ok != tt.wantOK || file != tt.file || index != tt.index {
			t.Errorf("ParseRef(%q) = %q, %d, %v; want %q, %d, %v", tt.id, file, index, ok, tt.file, tt.index, tt.wantOK)
		}
	}
}
