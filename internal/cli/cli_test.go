package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

// run executes polyx with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

func TestProperties(t *testing.T) {
	out := mustRun(t, "properties")
	assert.Contains(t, out, "Inputs (19):")
	assert.Contains(t, out, "Outputs (5):")
	assert.Less(t, strings.Index(out, "Polymer 1"), strings.Index(out, "Oven Temperature"))

	var props engine.PropertyList
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "properties", "--json")), &props))
	assert.Len(t, props.All, 24)
}

func TestStats(t *testing.T) {
	var rows []struct {
		Name string  `json:"name"`
		Kind string  `json:"kind"`
		Min  float64 `json:"min"`
		Max  float64 `json:"max"`
	}
	out := mustRun(t, "stats", "--json", "Viscosity", "Cure Time")
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 2160.8, rows[0].Min)
	assert.Equal(t, 3561.2, rows[0].Max)
	assert.Equal(t, "output", rows[1].Kind)
	assert.Equal(t, 2.84, rows[1].Min)

	table := mustRun(t, "stats")
	assert.Contains(t, table, "PROPERTY")
	assert.Contains(t, table, "Oven Temperature")

	_, _, err := run(t, "stats", "Unobtainium")
	assert.True(t, errors.Is(err, domain.ErrUnknownProperty))
}

func TestFilter(t *testing.T) {
	out, stderr, err := run(t, "filter", "-f", "Oven Temperature:400:425")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 11)
	assert.Contains(t, stderr, "11 of 25 experiments")

	out = mustRun(t, "filter", "--json", "-f", "Oven Temperature:400:425", "-f", "Viscosity:2500:100000")
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, []string{"20170106_EXP_11", "20170108_EXP_38", "20170112_EXP_60"}, ids)

	_, _, err = run(t, "filter", "-f", "Unobtainium:1:2")
	assert.True(t, errors.Is(err, domain.ErrUnknownProperty))
	_, _, err = run(t, "filter", "-f", "Viscosity:9:1")
	assert.True(t, errors.Is(err, domain.ErrInvalidFilter))
}

func TestGroups(t *testing.T) {
	var groups engine.RangeGroups
	out := mustRun(t, "groups", "Viscosity", "--boundaries", "2000,2400,2800,3200", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups.Groups, 3)
	assert.Len(t, groups.Groups[0].IDs, 10)
	assert.Len(t, groups.Groups[1].IDs, 12)
	assert.Equal(t, []string{"20170108_EXP_38"}, groups.Groups[2].IDs)

	out = mustRun(t, "groups", "Viscosity", "--buckets", "3", "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Equal(t, 25, groups.Total())

	_, _, err := run(t, "groups", "Viscosity")
	assert.Error(t, err)
	_, _, err = run(t, "groups", "Viscosity", "--boundaries", "1,x")
	assert.Error(t, err)
	_, _, err = run(t, "groups", "Viscosity", "--buckets", "1001")
	assert.ErrorContains(t, err, "at most 1000")
}

func TestCorrelate(t *testing.T) {
	assert.Equal(t, "-0.4095\n", mustRun(t, "correlate", "Oven Temperature", "Viscosity"))

	var m engine.CorrelationMatrix
	out := mustRun(t, "correlate", "--matrix", "--json", "Polymer 1", "Tensile Strength")
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	r, ok := m.At("Polymer 1", "Tensile Strength")
	require.True(t, ok)
	assert.InDelta(t, 0.72958922, r, 1e-6)

	_, _, err := run(t, "correlate", "Viscosity")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	out := mustRun(t, "show", "20170102_EXP_56")
	assert.Contains(t, out, "Experiment 102_EXP_56")
	assert.Contains(t, out, "+4 more inputs")
	assert.Contains(t, out, "3.22")
	assert.NotContains(t, out, "Polymer 4")

	all := mustRun(t, "show", "--all", "20170102_EXP_56")
	assert.Contains(t, all, "Polymer 4")

	_, _, err := run(t, "show", "nope")
	assert.Error(t, err)
}

func TestPoints(t *testing.T) {
	var points []domain.DataPoint
	out := mustRun(t, "points", "--json", "--x", "Oven Temperature", "-f", "Oven Temperature:400:425")
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 11)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 400.0)
		assert.Nil(t, p.Experiment)
	}

	table := mustRun(t, "points")
	assert.Contains(t, table, "Tensile Strength")
	assert.Equal(t, 26, strings.Count(table, "\n"))
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "cloud.svg")
	mustRun(t, "plot", "-o", path, "--selected", "20170108_EXP_38", "--yaw", "90")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25, strings.Count(string(data), "<circle"))

	flat := mustRun(t, "plot", "--flat", "--x", "Oven Temperature", "--y", "Viscosity")
	assert.Contains(t, flat, "<svg")

	_, _, err = run(t, "plot", "--width", "0")
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ds.json", "ds.json.gz", "ds.json.zst", "ds.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			_, stderr, err := run(t, "export", "-o", path)
			require.NoError(t, err)
			assert.Contains(t, stderr, "Wrote 25 experiments")

			out := mustRun(t, "--dataset", path, "correlate", "Oven Temperature", "Viscosity")
			assert.Equal(t, "-0.4095\n", out)
		})
	}

	stdout := mustRun(t, "export")
	assert.True(t, strings.HasPrefix(stdout, "{\n  \"20170102_EXP_56\""))
}

func TestMissingDatasetFile(t *testing.T) {
	_, _, err := run(t, "--dataset", filepath.Join(t.TempDir(), "missing.json"), "properties")
	assert.Error(t, err)
}

func TestDBSnapshots(t *testing.T) {
	db := filepath.Join(t.TempDir(), "polyx.db")

	out := mustRun(t, "--db", db, "db", "list")
	assert.Contains(t, out, "No snapshots imported.")

	_, _, err := run(t, "--db", db, "stats")
	assert.Error(t, err, "stats without a snapshot should fail")

	var snap domain.Snapshot
	out = mustRun(t, "--db", db, "--json", "db", "import", "sample", "--name", "bundled")
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "bundled", snap.Name)
	assert.Equal(t, 25, snap.Experiments)
	assert.Equal(t, 19, snap.Inputs)

	out = mustRun(t, "--db", db, "correlate", "Polymer 1", "Tensile Strength")
	assert.Equal(t, "0.7296\n", out)

	var snaps []domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "--db", db, "--json", "db", "list")), &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, snap.ID, snaps[0].ID)

	out = mustRun(t, "--db", db, "db", "delete", snap.ID)
	assert.Contains(t, out, "Deleted snapshot")
	_, _, err = run(t, "--db", db, "db", "delete", snap.ID)
	assert.Error(t, err)
}

func TestDBMigrate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "polyx.db")

	out := mustRun(t, "--db", db, "db", "migrate")
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, "Applied 2 migration(s), now at version 2")

	out = mustRun(t, "--db", db, "db", "migrate")
	assert.Contains(t, out, "Already at target version")

	out = mustRun(t, "--db", db, "db", "migrate", "0")
	assert.Contains(t, out, "now at version 0")

	_, _, err := run(t, "--db", db, "db", "migrate", "x")
	assert.Error(t, err)
}

func TestAppContextClosedOnFailure(t *testing.T) {
	opts := &rootOptions{}
	cmd := newRootCmd(opts)

	var app *AppContext
	pre := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		err := pre(c, args)
		app = opts.app
		return err
	}

	db := filepath.Join(t.TempDir(), "polyx.db")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "error", "--db", db, "stats"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err, "an empty snapshot database has no dataset")
	require.NotNil(t, app)
	require.NotNil(t, app.db)

	assert.Nil(t, opts.app)
	assert.Error(t, app.db.PingContext(context.Background()), "database should be closed")
}
