package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.Repo.Language)
	assert.Equal(t, "snippets.jsonl", cfg.Output.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Repo.Ignore, ".git/**")
	assert.Empty(t, cfg.Repo.Root, "the root has no default")
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `repo:
  root: /srv/code/myrepo
  ignore:
    - generated/**
output:
  path: out/records.jsonl
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/code/myrepo", cfg.Repo.Root)
	assert.Equal(t, []string{"generated/**"}, cfg.Repo.Ignore)
	assert.Equal(t, "out/records.jsonl", cfg.Output.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "python", cfg.Repo.Language)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SNIPDEX_REPO_ROOT", "/from/env")
	t.Setenv("SNIPDEX_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Repo.Root)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
