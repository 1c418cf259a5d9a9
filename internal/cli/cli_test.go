package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/layergraph/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../pipeline/testdata/manual.yaml"

// execute runs the root command with fresh flag state and captured output
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	outPath, daContext, shapesPath = "-", "", ""
	layerName, outputDir, reportPath = "da", ".", ""
	configInitPath = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	nce := &validate.NonConformanceError{Layer: "da", Result: validate.Result{}}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"non-conformance", nce, ExitNonConformance},
		{"wrapped non-conformance", fmt.Errorf("run: %w", nce), ExitNonConformance},
		{"batch non-conformance", errBatchNonConformance, ExitNonConformance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDACommand_Stdout(t *testing.T) {
	out, _, err := execute(t, "da", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "@prefix da: <https://nkllon.org/da#>")
	assert.Contains(t, out, "da:Block")
	assert.NotContains(t, out, "meaning#")
}

func TestRunCommand_WritesLayers(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")

	out, _, err := execute(t, "run", fixture, "--no-cache", "--output-dir", dir, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, out, "blocks:       4")

	for _, name := range []string{"manual.da.ttl", "manual.meaning.ttl", "report.json"} {
		info, statErr := os.Stat(filepath.Join(dir, name))
		require.NoError(t, statErr, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestMeaningCommand_WithDAContext(t *testing.T) {
	dir := t.TempDir()
	daPath := filepath.Join(dir, "manual.da.nt")
	require.NoError(t, os.WriteFile(daPath, []byte(
		"<http://x/analysis> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://nkllon.org/da#Analysis> .\n",
	), 0o644))

	out, _, err := execute(t, "meaning", fixture, "--da", daPath)
	require.NoError(t, err)
	assert.Contains(t, out, "<http://x/analysis>")
	assert.Contains(t, out, "m:Claim")
}

func TestMeaningCommand_DAContextMustBeNTriples(t *testing.T) {
	daPath := filepath.Join(t.TempDir(), "manual.da.ttl")
	require.NoError(t, os.WriteFile(daPath, []byte("@prefix da: <https://nkllon.org/da#> .\n"), 0o644))

	_, _, err := execute(t, "meaning", fixture, "--da", daPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format ntriples")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.nt")
	require.NoError(t, os.WriteFile(bad, []byte(
		"<http://x/b1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://nkllon.org/da#Block> .\n",
	), 0o644))
	empty := filepath.Join(dir, "empty.nt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	_, _, err := execute(t, "validate", empty, "--layer", "da")
	require.NoError(t, err)

	out, _, err := execute(t, "validate", bad, "--layer", "da")
	require.Error(t, err)
	assert.Equal(t, ExitNonConformance, ExitCode(err))
	assert.Contains(t, out, "blockLabel")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	_, stderr, err := execute(t, "batch", fixture, "--no-cache", "--output-dir", out, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Conforming:     1")
	assert.Contains(t, stderr, "Batch:")
	assert.FileExists(t, filepath.Join(out, "manual.da.ttl"))
	assert.FileExists(t, filepath.Join(out, "manual.meaning.ttl"))

	_, _, err = execute(t, "batch", "--output-dir", out)
	assert.Error(t, err)
}

func TestBatchCommand_SameBaseNameInDifferentDirs(t *testing.T) {
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	docs := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(docs, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(docs, sub, "manual.yaml"), data, 0o644))
	}
	out := filepath.Join(t.TempDir(), "out")

	_, stderr, err := execute(t, "batch", filepath.Join(docs, "**", "*.yaml"), "--no-cache", "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Conforming:     2")
	assert.FileExists(t, filepath.Join(out, "a", "manual.da.ttl"))
	assert.FileExists(t, filepath.Join(out, "b", "manual.da.ttl"))
	assert.NoFileExists(t, filepath.Join(out, "manual.da.ttl"))
}

func TestBatchCommand_NameClashFails(t *testing.T) {
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "manual.yaml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "manual.json"), data, 0o644))
	out := filepath.Join(t.TempDir(), "out")

	_, stderr, err := execute(t, "batch", filepath.Join(docs, "manual.*"), "--no-cache", "--output-dir", out)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stderr, "output name already used by")
	assert.Contains(t, stderr, "Conforming:     1")
}

func TestConfigCommands(t *testing.T) {
	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "y_gap_threshold")

	path := filepath.Join(t.TempDir(), "config.yaml")
	_, _, err = execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, _, err = execute(t, "config", "init", "--path", path)
	assert.Error(t, err)
}
