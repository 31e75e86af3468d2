package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"VOXNAV_ADDR", "VOXNAV_CATALOG", "OPENAI_API_KEY", "GEMINI_API_KEY", "DEEPGRAM_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, 30, cfg.Oracle.TimeoutSeconds)
	assert.Equal(t, 2000, cfg.Dispatch.GraceMillis)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, ":3001", cfg.Addr)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "voxnav.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":9000",
		"oracle": {"provider": "gemini", "api_key": "file-key", "model": "gemini-2.0-flash"},
		"dispatch": {"grace_millis": 500}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, "file-key", cfg.Oracle.APIKey)
	assert.Equal(t, 500, cfg.Dispatch.GraceMillis)
	// Untouched sections keep defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "voxnav.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr": `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("addr and catalog", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VOXNAV_ADDR", ":8080")
		t.Setenv("VOXNAV_CATALOG", "/etc/voxnav/catalog.yaml")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "/etc/voxnav/catalog.yaml", cfg.CatalogPath)
	})

	t.Run("openai wins when both keys set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Oracle.Provider)
		assert.Equal(t, "sk-openai", cfg.Oracle.APIKey)
	})

	t.Run("gemini alone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Oracle.Provider)
		assert.Equal(t, "gm-key", cfg.Oracle.APIKey)
	})

	t.Run("configured provider is respected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("GEMINI_API_KEY", "gm-key")

		path := filepath.Join(t.TempDir(), "voxnav.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"oracle": {"provider": "gemini"}}`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Oracle.Provider)
		assert.Equal(t, "gm-key", cfg.Oracle.APIKey)
	})

	t.Run("deepgram key fills only when empty", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DEEPGRAM_API_KEY", "dg-env")

		path := filepath.Join(t.TempDir(), "voxnav.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"transcribe": {"api_key": "dg-file"}}`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "dg-file", cfg.Transcribe.APIKey)

		cfg, err = Load("")
		require.NoError(t, err)
		assert.Equal(t, "dg-env", cfg.Transcribe.APIKey)
	})
}
