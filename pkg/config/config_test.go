package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storefrontConfig struct {
	Port     int    `env:"CFGTEST_HTTP_PORT" envDefault:"8080"`
	Gateway  string `env:"CFGTEST_GATEWAY_URL" envDefault:"http://localhost:54321"`
	Locale   string `env:"CFGTEST_LOCALE" envDefault:"en"`
	Verbose  bool   `env:"CFGTEST_VERBOSE" envDefault:"false"`
	AnonKey  string `env:"CFGTEST_ANON_KEY"`
	Required string `env:"CFGTEST_REQUIRED,required"`
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("CFGTEST_REQUIRED", "x")
	t.Setenv("CFGTEST_HTTP_PORT", "9091")
	t.Setenv("CFGTEST_VERBOSE", "true")

	var cfg storefrontConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9091, cfg.Port)
	assert.Equal(t, "http://localhost:54321", cfg.Gateway)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("required missing", func(t *testing.T) {
		var cfg storefrontConfig
		err := Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("CFGTEST_REQUIRED", "x")
		t.Setenv("CFGTEST_HTTP_PORT", "eighty")
		var cfg storefrontConfig
		require.Error(t, Load(&cfg))
	})
}

func TestLoadWithDotenv_FileFillsGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CFGTEST_ANON_KEY=anon-from-file\nCFGTEST_REQUIRED=from-file\nCFGTEST_LOCALE=fr\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set.
	t.Setenv("CFGTEST_LOCALE", "de")
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_ANON_KEY")
		os.Unsetenv("CFGTEST_REQUIRED")
	})

	var cfg storefrontConfig
	require.NoError(t, LoadWithDotenv(&cfg, path))

	assert.Equal(t, "anon-from-file", cfg.AnonKey)
	assert.Equal(t, "from-file", cfg.Required)
	assert.Equal(t, "de", cfg.Locale)
}

func TestLoadWithDotenv_MissingFileIgnored(t *testing.T) {
	t.Setenv("CFGTEST_REQUIRED", "x")

	var cfg storefrontConfig
	require.NoError(t, LoadWithDotenv(&cfg, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, 8080, cfg.Port)
}
