package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a temp dir and clears provider keys.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"DEVREADY_DB", "DEVREADY_API_BASE_URL", "DEVREADY_LLM_PROVIDER",
		"DEVREADY_LLM_GROQ_API_KEY", "DEVREADY_LOG_LEVEL",
		"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("defaults when nothing is set", func(t *testing.T) {
		dir := isolate(t)

		cfg, err := Load(Options{})
		require.NoError(t, err)

		assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
		assert.Equal(t, 15*time.Second, cfg.API.Timeout)
		assert.Equal(t, filepath.Join(dir, "data", "devready", "devready.db"), cfg.DBPath)
		assert.Equal(t, filepath.Join(dir, "data", "devready", "devready.log"), cfg.Log.Output)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 30*time.Second, cfg.League.RefreshInterval)
		assert.Equal(t, 60*time.Second, cfg.League.CountdownInterval)
		assert.False(t, cfg.LLMConfigured)
		assert.Empty(t, cfg.File)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		dir := isolate(t)
		db := filepath.Join(dir, "custom.db")
		t.Setenv("DEVREADY_API_BASE_URL", "http://localhost:8080/api/")
		t.Setenv("DEVREADY_DB", db)
		t.Setenv("DEVREADY_LOG_LEVEL", "debug")

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
		assert.Equal(t, db, cfg.DBPath)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("config file is read", func(t *testing.T) {
		dir := isolate(t)
		cfgDir := filepath.Join(dir, "config", "devready")
		require.NoError(t, os.MkdirAll(cfgDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(
			"api:\n  base_url: https://staging.example.com/api\nleague:\n  refresh_interval: 10s\n"), 0o644))

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com/api", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.League.RefreshInterval)
		assert.Equal(t, filepath.Join(cfgDir, "config.yaml"), cfg.File)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		dir := isolate(t)
		_, err := Load(Options{File: filepath.Join(dir, "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("flags win over environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("DEVREADY_API_BASE_URL", "http://env.example.com")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("api-url", "", "")
		fs.String("db", "", "")
		require.NoError(t, fs.Parse([]string{"--api-url", "http://flag.example.com"}))

		cfg, err := Load(Options{Flags: fs})
		require.NoError(t, err)
		assert.Equal(t, "http://flag.example.com", cfg.API.BaseURL)
	})

	t.Run("rejects non-http base url", func(t *testing.T) {
		isolate(t)
		t.Setenv("DEVREADY_API_BASE_URL", "ftp://example.com")
		_, err := Load(Options{})
		assert.Error(t, err)
	})
}

func TestLoadLLM(t *testing.T) {
	t.Run("vendor key is discovered", func(t *testing.T) {
		isolate(t)
		t.Setenv("GROQ_API_KEY", "gsk-test")

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.True(t, cfg.LLMConfigured)
		assert.Equal(t, "groq", cfg.LLM.Provider)
		assert.Equal(t, "gsk-test", cfg.LLM.Groq.APIKey)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Groq.Model)
	})

	t.Run("prefixed key is accepted without vendor variable", func(t *testing.T) {
		isolate(t)
		t.Setenv("DEVREADY_LLM_GROQ_API_KEY", "gsk-prefixed")

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.True(t, cfg.LLMConfigured)
		assert.Equal(t, "groq", cfg.LLM.Provider)
		assert.Equal(t, "gsk-prefixed", cfg.LLM.Groq.APIKey)
	})

	t.Run("explicit provider without key is not configured", func(t *testing.T) {
		isolate(t)
		t.Setenv("DEVREADY_LLM_PROVIDER", "anthropic")

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.False(t, cfg.LLMConfigured)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
	})

	t.Run("mock provider needs no key", func(t *testing.T) {
		isolate(t)
		t.Setenv("DEVREADY_LLM_PROVIDER", "mock")

		cfg, err := Load(Options{})
		require.NoError(t, err)
		assert.True(t, cfg.LLMConfigured)
	})
}
