package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDemoDecorators(t *testing.T) {
	stdout, stderr, err := run(t, "demo", "decorators")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=info")
	assert.Contains(t, stderr, "drop_if_any_null returned 2 rows, down 1 rows (-33.3%).")
	assert.Contains(t, stderr, "level=warning")
	assert.Contains(t, stderr, "local_filter returned 1 rows, down 1 rows (-50.0%).")
	assert.NotEmpty(t, stdout)
}

func TestDemoFiltering(t *testing.T) {
	_, stderr, err := run(t, "demo", "filtering")
	require.NoError(t, err)
	assert.Contains(t, stderr, "apply_mask:precomputed_mask returned 2 rows, down 1 rows (-33.3%).")
	assert.Contains(t, stderr, "apply_mask:mask_func returned 2 rows, down 1 rows (-33.3%).")
	assert.Contains(t, stderr, "AGreaterThanOne returned 2 rows, down 1 rows (-33.3%).")
}

func TestDemoIndex(t *testing.T) {
	stdout, stderr, err := run(t, "demo", "index", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "applying index")
	assert.Contains(t, stderr, "dropping rows with null timestamp returned 2 rows, down 1 rows (-33.3%).")
	assert.Contains(t, stdout, "persian")
	assert.NotContains(t, stdout, "little")
}

func TestTabulate(t *testing.T) {
	path := writeFile(t, "colors.csv", "color,n\nred,1\nblack,2\nred,3\n,4\n")
	stdout, _, err := run(t, "tabulate", path, "--column", "color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "n_values: 4, n_distinct: 3")

	stdout, _, err = run(t, "tabulate", path, "-c", "color", "--drop-nulls")
	require.NoError(t, err)
	assert.Contains(t, stdout, "n_values: 3, n_distinct: 2")

	_, _, err = run(t, "tabulate", path)
	assert.Error(t, err)
	_, _, err = run(t, "tabulate", path, "-c", "missing")
	assert.Error(t, err)
	_, _, err = run(t, "tabulate", path, "-c", "color", "-d", ";;")
	assert.Error(t, err)
}

func TestSchemaAndCoerce(t *testing.T) {
	train := writeFile(t, "train.csv", "color,n\nred,1\nblack,2\n")
	score := writeFile(t, "score.csv", "color,n\ngrey,3\nred,4\n")
	snapshot := filepath.Join(t.TempDir(), "schema.bin")

	stdout, stderr, err := run(t, "schema", train, "--categorize", "--output", snapshot)
	require.NoError(t, err)
	assert.Contains(t, stdout, "color\tcategory\t[black red]")
	assert.Contains(t, stdout, "n\tint64")
	assert.Contains(t, stderr, "wrote schema to")

	stdout, _, err = run(t, "coerce", score, "--schema", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "color,n\nn/a,3\nred,4\n", stdout)
}

func TestVersion(t *testing.T) {
	Version = "v1.2.3"
	defer func() { Version = "" }()
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "pandahandler v1.2.3\n", stdout)
}
