package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
)

func TestNewSpectrum(t *testing.T) {
	peaks := []core.Peak{{MZ: 100, Intensity: 4}, {MZ: 200, Intensity: 12}}

	s, err := NewSpectrum(250.0, peaks)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NPeaks())
	assert.Equal(t, 250.0, s.PrecursorMZ())
	assert.InDelta(t, 1.0, sumOfSquares(s.NormalizedPeaks()), 1e-12)

	// the caller's slice is copied
	peaks[0].MZ = 999
	assert.Equal(t, 100.0, s.Peaks()[0].MZ)

	// accessors return copies
	got := s.Peaks()
	got[1].Intensity = 0
	assert.Equal(t, 12.0, s.Peak(1).Intensity)
}

func TestNewSpectrumEmpty(t *testing.T) {
	s, err := NewSpectrum(250.0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.NPeaks())
	assert.Empty(t, s.NormalizedPeaks())
}

func TestNewSpectrumDegenerate(t *testing.T) {
	_, err := NewSpectrum(250.0, []core.Peak{{MZ: 100, Intensity: 0}})
	require.ErrorIs(t, err, ErrDegenerateSpectrum)
}

func TestPrepare(t *testing.T) {
	rec := &core.Spectrum{
		Name:        "sorted",
		PrecursorMZ: 300,
		Peaks: []core.Peak{
			{MZ: 100, Intensity: 1},
			{MZ: 200, Intensity: 2},
		},
	}

	s, err := Prepare(rec)
	require.NoError(t, err)
	assert.Equal(t, "sorted", s.Name())
	assert.Equal(t, 100.0, s.Peak(0).MZ)
	assert.Equal(t, 200.0, s.Peak(1).MZ)

	rec.Peaks[0].MZ = 50
	assert.Equal(t, 100.0, s.Peak(0).MZ, "prepared spectrum keeps its own copy")
}

func TestPrepareRejectsUnsorted(t *testing.T) {
	rec := &core.Spectrum{
		Name:        "unsorted",
		PrecursorMZ: 300,
		Peaks: []core.Peak{
			{MZ: 200, Intensity: 2},
			{MZ: 100, Intensity: 1},
		},
	}

	_, err := Prepare(rec)
	require.ErrorIs(t, err, ErrInvalidParameter)

	var perr *ParameterError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "peaks", perr.Field)
	assert.Equal(t, 200.0, rec.Peaks[0].MZ, "record must not be modified")
}

func TestRelativeIntensities(t *testing.T) {
	s, err := NewSpectrum(300, []core.Peak{{MZ: 100, Intensity: 50}, {MZ: 150, Intensity: 0}, {MZ: 200, Intensity: 200}})
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 0, 100}, s.RelativeIntensities())

	empty, err := NewSpectrum(300, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.RelativeIntensities())
}
