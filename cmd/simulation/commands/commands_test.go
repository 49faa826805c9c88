package commands

import (
	"bytes"
	"encoding/json"
	"github.com/HannahMarsh/monte_carlo_geometry/config"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/data"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/display"
	"github.com/HannahMarsh/monte_carlo_geometry/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := execute(root)
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := run(t, "run", "--json", "--trials", "20000", "--seed", "7", "--workers", "2")
	require.NoError(t, err)

	var summaries []data.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, geometry.Square.String(), summaries[0].Domain)
	assert.Equal(t, geometry.Disk.String(), summaries[1].Domain)
	for _, s := range summaries {
		assert.Equal(t, 20000, s.Trials)
		assert.Equal(t, uint64(7), s.Seed)
		assert.InDelta(t, s.Expected, s.Mean, 0.02)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := run(t, "run", "--trials", "3000", "--seed", "11", "--workers", "1")
	require.NoError(t, err)
	b, err := run(t, "run", "--trials", "3000", "--seed", "11", "--workers", "4")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "Monte Carlo Result:")
	assert.Contains(t, a, "SUMMARY OF RESULTS")
	assert.Contains(t, a, "Average distance (unit circle):")
}

func TestRunHistogram(t *testing.T) {
	out, err := run(t, "run", "--histogram", "--trials", "1000", "--seed", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "#")
}

func TestEstimate(t *testing.T) {
	out, err := run(t, "estimate", "--domain", "circle", "--json", "--trials", "5000", "--seed", "3")
	require.NoError(t, err)

	var s data.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, geometry.Disk.String(), s.Domain)
	assert.LessOrEqual(t, s.Max, 2.0)
	assert.InDelta(t, geometry.DiskExpected, s.Mean, 0.03)
}

func TestEstimateErrors(t *testing.T) {
	_, err := run(t, "estimate", "--domain", "triangle", "--trials", "10")
	assert.ErrorIs(t, err, geometry.ErrUnknownDomain)

	_, err = run(t, "estimate", "--trials", "-1")
	assert.Error(t, err)
}

func TestFailedCommandReleasesResources(t *testing.T) {
	_, err := run(t, "estimate", "--domain", "triangle", "--trials", "10")
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Nil(t, stop)
	assert.Error(t, config.GlobalCtx.Err())
}

func TestConverge(t *testing.T) {
	t.Setenv("MCG_CONVERGENCE_SIZES", "1000,100")
	out, err := run(t, "converge", "-q", "--no-plot", "--json", "--seed", "5")
	require.NoError(t, err)

	var points []data.ConvergencePoint
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 2)
	assert.Equal(t, 100, points[0].N)
	assert.Equal(t, 1000, points[1].N)
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCG_CONVERGENCE_SIZES", "100,1000")
	t.Setenv("MCG_SCATTER_POINTS", "100")

	out, err := run(t, "plot", "--trials", "2000", "--seed", "1", "--out", dir)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "acceptance rate"))

	for _, f := range []string{display.DistributionsFile, display.ConvergenceFile, display.SamplePointsFile, display.DiagramsFile} {
		info, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, f)
		assert.Greater(t, info.Size(), int64(0))
	}
}
