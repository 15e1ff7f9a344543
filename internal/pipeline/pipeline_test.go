package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipdex/snipdex/internal/config"
	"github.com/snipdex/snipdex/internal/slogutil"
)

// writeFixtureRepo lays out a small repository exercising the interesting
// paths: a cross-file relative import, a file with broken syntax, a notebook,
// and a __pycache__ directory.
func writeFixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"helpers.py": "def _fmt(value):\n    return str(value)\n\n" +
			"def shout(value):\n    return value.upper()\n",
		"main.py": "from .helpers import shout\n\n" +
			"def greet(name):\n    return shout(name)\n",
		"broken.py":            "def broken(:\n",
		"notes.ipynb":          "{}\n",
		"__pycache__/junk.pyc": "",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestRunner(t *testing.T, root string) (*Runner, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Repo.Root = root
	cfg.Output.Path = filepath.Join(t.TempDir(), "snippets.jsonl")

	runner, err := New(cfg, slogutil.NewDiscard(), true)
	require.NoError(t, err)
	return runner, cfg.Output.Path
}

func readRecords(t *testing.T, path string) []map[string]map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]map[string]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]map[string]string
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestRun_EndToEnd(t *testing.T) {
	root := writeFixtureRepo(t)
	runner, outPath := newTestRunner(t, root)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	// __pycache__ never enters the tree, and the notebook is recognized
	// but skipped, so only the three .py files count.
	assert.Equal(t, 1, report.Dirs)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 1, report.FailedFiles)

	// Public targets: greet and shout. _fmt stays private, and broken.py
	// contributes nothing.
	assert.Equal(t, 2, report.Snippets)

	records := readRecords(t, outPath)
	require.Len(t, records, 2)

	byName := map[string]map[string]string{}
	for _, rec := range records {
		for name, body := range rec {
			byName[name] = body
		}
	}

	greet, ok := byName["greet"]
	require.True(t, ok)
	assert.Contains(t, greet["target_function"], "def greet")
	assert.Contains(t, greet["imported_function"], "def shout")

	shout, ok := byName["shout"]
	require.True(t, ok)
	assert.Contains(t, shout["target_function"], "def shout")
	assert.Empty(t, shout["imported_function"])
}

func TestRun_SoftFailureIsolation(t *testing.T) {
	// A file with a syntax error must not poison its siblings or fail the
	// run as a whole.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "good.py"),
		[]byte("def ok():\n    return 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.py"),
		[]byte("def bad(:\n"), 0644))

	runner, outPath := newTestRunner(t, root)
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedFiles)
	assert.Equal(t, 1, report.Snippets)

	records := readRecords(t, outPath)
	require.Len(t, records, 1)
	_, ok := records[0]["ok"]
	assert.True(t, ok)
}

func TestRun_MissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Repo.Root = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.jsonl")

	runner, err := New(cfg, slogutil.NewDiscard(), true)
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	require.Error(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	root := writeFixtureRepo(t)
	runner, _ := newTestRunner(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyRepository(t *testing.T) {
	runner, outPath := newTestRunner(t, t.TempDir())

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Files)
	assert.Equal(t, 0, report.Snippets)

	// The output file still exists, just empty.
	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
