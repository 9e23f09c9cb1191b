package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	config, err := Load(filepath.Join(dir, "nonexistent.yaml"), filepath.Join(dir, ".env"))
	require.NoError(t, err)

	assert.Equal(t, "weather-cli", config.AppName)
	assert.Equal(t, "local", config.AppEnv)
	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, time.Duration(0), config.HTTPTimeout)
	assert.Equal(t, 1.0, config.RateLimitRPS)
	assert.Equal(t, 1, config.RateLimitBurst)
	assert.True(t, config.SaveEnabled)
	assert.Equal(t, ".", config.SaveDir)
	assert.Equal(t, "error", config.LogLevel)
	assert.False(t, config.HistoryEnabled())
	assert.False(t, config.IsProduction())
}

func TestLoad_YAMLThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
app_env: production
api_key: yaml-key
http_timeout: 7s
save_dir: /tmp/reports
log_level: info
`)

	t.Setenv("OPENWEATHER_API_KEY", "env-key")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := Load(yamlPath, "")
	require.NoError(t, err)

	// environment wins over YAML
	assert.Equal(t, "env-key", config.APIKey)
	assert.Equal(t, "debug", config.LogLevel)

	// YAML wins over defaults, and env defaults do not clobber YAML
	assert.Equal(t, "production", config.AppEnv)
	assert.True(t, config.IsProduction())
	assert.Equal(t, 7*time.Second, config.HTTPTimeout)
	assert.Equal(t, "/tmp/reports", config.SaveDir)
	assert.Equal(t, "weather-cli", config.AppName)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "OPENWEATHER_API_KEY=dotenv-key\nHISTORY_DB=history.db\n")

	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("HISTORY_DB", "")
	require.NoError(t, os.Unsetenv("OPENWEATHER_API_KEY"))
	require.NoError(t, os.Unsetenv("HISTORY_DB"))

	config, err := Load("", envPath)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-key", config.APIKey)
	assert.Equal(t, "history.db", config.HistoryDB)
	assert.True(t, config.HistoryEnabled())
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", "app_name: [unterminated")

	_, err := Load(yamlPath, "")
	assert.Error(t, err)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "many")

	_, err := Load("", "")
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	config := Default()
	assert.NoError(t, config.Validate())

	invalid := Default()
	invalid.BaseURL = "not a url"
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")

	invalid = Default()
	invalid.LogLevel = "verbose"
	assert.Error(t, invalid.Validate())

	invalid = Default()
	invalid.RateLimitRPS = 0
	assert.Error(t, invalid.Validate())

	invalid = Default()
	invalid.AppName = ""
	err = invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AppName")
}
