package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/SpecAlign/internal/config"
	"github.com/ChrisMcGann/SpecAlign/pkg/output"
	"github.com/ChrisMcGann/SpecAlign/pkg/resolve"
)

const testMSP = `Name: Alpha
PrecursorMZ: 200.0
Num Peaks: 2
100.0 1
150.0 2

Name: Beta
PrecursorMZ: 190.0
Num Peaks: 2
100.0 1
140.0 2

Name: Gamma
PrecursorMZ: 300.0
Num Peaks: 2
50.0 4
60.0 1

Name: Broken
PrecursorMZ: 250.0
Num Peaks: 1
80.0 0

`

// resetFlags restores every flag of c and its children to its default so
// that runs do not leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// run executes the root command with args and returns its stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// setup writes a library and a config file into a temp dir
func setup(t *testing.T) (dir, cfgPath, mspPath string) {
	t.Helper()
	dir = t.TempDir()

	mspPath = filepath.Join(dir, "test.msp")
	require.NoError(t, os.WriteFile(mspPath, []byte(testMSP), 0644))

	cfgPath = filepath.Join(dir, "config.toml")
	cfg := config.Default()
	cfg.Alignment.MinMatch = 1
	require.NoError(t, cfg.Save(cfgPath))

	return dir, cfgPath, mspPath
}

func TestScoreCommand(t *testing.T) {
	_, cfgPath, mspPath := setup(t)

	out, err := run(t, "score", "Alpha", "Beta", "--library", mspPath, "--config", cfgPath, "--output", "json")
	require.NoError(t, err)

	var report output.ScoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Alpha", report.Query)
	assert.Equal(t, "Beta", report.Target)
	assert.InDelta(t, 10.0, report.Shift, 1e-12)
	assert.InDelta(t, 1.0, report.Score, 1e-9)
	assert.Len(t, report.Matches, 2)
}

func TestScoreCommandMinMatchFlag(t *testing.T) {
	_, cfgPath, mspPath := setup(t)

	out, err := run(t, "score", "Alpha", "Beta", "-l", mspPath, "--config", cfgPath, "--min-match", "3", "--output", "json")
	require.NoError(t, err)

	var report output.ScoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0.0, report.Score)
	assert.Equal(t, 3, report.MinMatch)
	assert.Len(t, report.Matches, 2)
}

func TestScoreCommandUnknownID(t *testing.T) {
	_, cfgPath, mspPath := setup(t)

	_, err := run(t, "score", "Alpha", "Delta", "-l", mspPath, "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolve.ErrNotFound))
}

func TestImportSearchSummarize(t *testing.T) {
	dir, cfgPath, mspPath := setup(t)
	dbPath := filepath.Join(dir, "test.db")

	_, err := run(t, "import", "--in", mspPath, "--out", dbPath, "--config", cfgPath, "--quiet")
	require.NoError(t, err)

	out, err := run(t, "search", "Alpha", "--library", dbPath, "--config", cfgPath, "--workers", "2", "--output", "json")
	require.NoError(t, err)

	var report output.SearchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.LibrarySize)
	require.Len(t, report.Hits, 2)
	assert.Equal(t, "Alpha", report.Hits[0].Name)
	assert.Equal(t, "Beta", report.Hits[1].Name)
	assert.InDelta(t, 1.0, report.Hits[0].Score, 1e-9)

	out, err = run(t, "summarize", dbPath, "--config", cfgPath, "--output", "json")
	require.NoError(t, err)

	var summary output.SummaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "test.db", summary.File)
	assert.Equal(t, 3, summary.Spectra)
	assert.Equal(t, 300.0, summary.MaxPrecursorMZ)
}

func TestSearchCommandTableOutput(t *testing.T) {
	_, cfgPath, mspPath := setup(t)

	out, err := run(t, "search", "Gamma", "-l", mspPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Gamma")
	assert.Contains(t, out, "(1 skipped)")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specalign.toml")

	_, err := run(t, "config", "init", "--config", path, "--quiet")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run(t, "config", "init", "--config", path)
	assert.Error(t, err)

	out, err := run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tolerance = 0.02")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, cfgPath, mspPath := setup(t)

	_, err := run(t, "score", "Alpha", "Beta", "-l", mspPath, "--config", cfgPath, "--output", "xml")
	assert.Error(t, err)
}
