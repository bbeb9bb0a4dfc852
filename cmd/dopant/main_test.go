package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/dopant/pkg/config"
	"github.com/ajitpratap0/dopant/pkg/errors"
)

const inputCSV = "region,amount\nnorth,10\nsouth,20\neast,30\nwest,40\nnorth,50\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dopant v"+version)
	assert.Contains(t, out, "Go version:")
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Source Connectors:")
	assert.Contains(t, out, "  - csv")
	assert.Contains(t, out, "  - json")
	assert.Contains(t, out, "  - sql")
	assert.Contains(t, out, "Available Destination Connectors:")
}

func TestConnectorTypeFor(t *testing.T) {
	tests := map[string]string{
		"in.csv":          "csv",
		"in.csv.gz":       "csv",
		"rows.jsonl":      "json",
		"rows.JSON":       "json",
		"rows.ndjson.zst": "json",
		"-":               "csv",
		"noextension":     "csv",
	}
	for path, want := range tests {
		assert.Equal(t, want, connectorTypeFor(path), path)
	}
}

// jobCommand builds a command with the run flags, without executing it
func jobCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := newRunCommand()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestBuildJobDefaults(t *testing.T) {
	v, err := newViper(jobCommand(t, "--source", "in.jsonl.gz", "--destination", "out.csv"))
	require.NoError(t, err)
	job, err := buildJob(v)
	require.NoError(t, err)

	assert.Equal(t, "json", job.Source.Type)
	assert.Equal(t, "in.jsonl.gz", job.Source.Path)
	assert.Equal(t, "csv", job.Destination.Type)
	assert.Equal(t, 10, job.Doping.NumRowsToModify)
	assert.Equal(t, int64(-1), job.Doping.RandomState)
	assert.True(t, job.Doping.AllowNewCategoricalValues)
}

func TestBuildJobPrecedence(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "nightly.yaml")
	require.NoError(t, os.WriteFile(jobPath, []byte(`
source:
  type: csv
  path: clean.csv
destination:
  type: csv
  path: doped.csv
doping:
  num_rows_to_modify: 5
  min_cols_per_modification: 1
  max_cols_per_modification: 2
  random_state: 3
`), 0o644))

	t.Setenv("DOPANT_SEED", "7")
	t.Setenv("DOPANT_MAX_COLS", "4")

	v, err := newViper(jobCommand(t, "--config", jobPath, "--rows", "12", "--no-new-numeric", "--max-cols", "3"))
	require.NoError(t, err)
	job, err := buildJob(v)
	require.NoError(t, err)

	assert.Equal(t, "nightly", job.Name)
	assert.Equal(t, "clean.csv", job.Source.Path)
	// flag over file
	assert.Equal(t, 12, job.Doping.NumRowsToModify)
	// flag over env
	assert.Equal(t, 3, job.Doping.MaxColsPerModification)
	// env over file
	assert.Equal(t, int64(7), job.Doping.RandomState)
	assert.False(t, job.Doping.AllowNewNumericValues)
	assert.True(t, job.Doping.AllowNewCategoricalValues)
}

func TestBuildJobSQLSource(t *testing.T) {
	v, err := newViper(jobCommand(t,
		"--source-driver", "sqlite",
		"--source-dsn", "file:test.db",
		"--source-query", "SELECT * FROM t",
		"--destination", "-",
	))
	require.NoError(t, err)
	job, err := buildJob(v)
	require.NoError(t, err)

	assert.Equal(t, "sql", job.Source.Type)
	assert.Equal(t, "sqlite", job.Source.Driver)
	assert.Equal(t, "SELECT * FROM t", job.Source.Query)
	assert.Equal(t, "-", job.Destination.Path)
	require.NoError(t, job.Validate())
}

func TestBuildJobMissingConfigFile(t *testing.T) {
	v, err := newViper(jobCommand(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
	_, err = buildJob(v)
	require.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clean.csv")
	out := filepath.Join(dir, "doped.csv")
	manifest := filepath.Join(dir, "truth.json")
	require.NoError(t, os.WriteFile(in, []byte(inputCSV), 0o644))

	stdout, err := execute(t, "run",
		"--source", in, "--destination", out,
		"--rows", "3", "--seed", "42",
		"--score-column", "--events", manifest,
		"--metrics=false", "--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "5 rows")
	assert.Contains(t, stdout, "manifest: "+manifest)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "region,amount,OUTLIER SCORE", lines[0])
	assert.FileExists(t, manifest)
}

func TestRunCommandWritesConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clean.csv")
	require.NoError(t, os.WriteFile(in, []byte(inputCSV), 0o644))
	saved := filepath.Join(dir, "jobs", "rerun.yaml")

	_, err := execute(t, "run",
		"--source", in, "--destination", filepath.Join(dir, "doped.jsonl"),
		"--rows", "2", "--seed", "5", "--metrics=false", "--log-level", "error",
		"--write-config", saved,
	)
	require.NoError(t, err)

	job, err := config.LoadJob(saved)
	require.NoError(t, err)
	assert.Equal(t, "json", job.Destination.Type)
	assert.Equal(t, 2, job.Doping.NumRowsToModify)
	assert.Equal(t, int64(5), job.Doping.RandomState)
}

func TestRunCommandInvalidJob(t *testing.T) {
	_, err := execute(t, "run", "--destination", filepath.Join(t.TempDir(), "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job")
	assert.Equal(t, 2, errors.ExitCode(err))
}

func TestInspectCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "clean.csv")
	require.NoError(t, os.WriteFile(in, []byte(inputCSV), 0o644))

	out, err := execute(t, "inspect", "--source", in)
	require.NoError(t, err)
	assert.Contains(t, out, "COLUMN")
	assert.Contains(t, out, "region")
	assert.Contains(t, out, "categorical")
	assert.Contains(t, out, "numeric")
	assert.Contains(t, out, "30")
	assert.Contains(t, out, "(5 rows)")
}
