package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfig marshals a raw config document into config.yaml inside a temp
// working directory and chdirs there for the duration of the test.
func writeConfig(t *testing.T, doc map[string]any) {
	t.Helper()

	dir := t.TempDir()
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, map[string]any{})

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "openai", cfg.Translator.Provider)
	assert.Equal(t, 30, cfg.Query.TimeoutSeconds)
	assert.Equal(t, 10000, cfg.Query.MaxRows)
	assert.Equal(t, "testdata/fixture.db", cfg.Datasource.FixtureDBPath)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	writeConfig(t, map[string]any{
		"query": map[string]any{"max_rows": 500},
	})
	t.Setenv("QUERY_MAX_ROWS", "250")
	t.Setenv("TRANSLATOR_API_KEY", "sk-test")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Query.MaxRows)
	assert.Equal(t, "sk-test", cfg.Translator.APIKey)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	writeConfig(t, map[string]any{
		"translator": map[string]any{"provider": "oracle"},
	})

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translator provider")
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	writeConfig(t, map[string]any{
		"query": map[string]any{"timeout_seconds": -5},
	})

	_, err := Load("test")
	require.Error(t, err)
}
