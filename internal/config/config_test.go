package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfigPassesValidation(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 27016, cfg.General.Port)
	assert.Equal(t, 30*time.Second, cfg.General.Timeout)
}

func TestValidateRejectsUnknownDatabaseDriver(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.Driver = "mysql"
	assert.Error(t, Validate(cfg))
}

func TestValidateRequiresDSNForPostgresDriver(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.Path = ""
	cfg.Database.DSN = ""
	assert.Error(t, Validate(cfg))

	cfg.Database.DSN = "postgres://localhost/aoserver"
	assert.NoError(t, Validate(cfg))
}

func TestValidateRequiresLongJWTSecretWhenAdminAPIEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AdminAPI.Enabled = true
	cfg.AdminAPI.JWTSecret = "too-short"
	assert.Error(t, Validate(cfg))

	cfg.AdminAPI.JWTSecret = "a-sufficiently-long-admin-api-secret!!"
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.General.Host)
}

func TestLoadReadsYAMLFileAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
general:
  host: "127.0.0.1"
  port: 27099
  playerlimit: 50
  timeout: 45s
database:
  driver: sqlite
  path: /tmp/test-identity.db
storage:
  s3_bucket: "test-evidence"
music:
  path: /tmp/test-music.toml
listcache:
  dir: /tmp/test-listcache
  ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.General.Host)
	assert.Equal(t, 27099, cfg.General.Port)
	assert.Equal(t, 50, cfg.General.PlayerLimit)
	assert.Equal(t, 45*time.Second, cfg.General.Timeout)
	// Defaults still apply to unset sections.
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.AdminAPI.TokenLifetime)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
database:
  driver: sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentVariableOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
general:
  host: "0.0.0.0"
  port: 27016
  playerlimit: 100
  timeout: 30s
database:
  driver: sqlite
storage:
  s3_bucket: "test-evidence"
music:
  path: /tmp/test-music.toml
listcache:
  dir: /tmp/test-listcache
  ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("AOSERVER_GENERAL_PORT", "27500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 27500, cfg.General.Port)
}

func TestSaveConfigThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	original := GetDefaultConfig()
	original.General.Host = "192.0.2.1"
	require.NoError(t, SaveConfig(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", loaded.General.Host)
}

func TestDefaultConfigExistsReflectsFilesystem(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.False(t, DefaultConfigExists())

	require.NoError(t, SaveConfig(GetDefaultConfig(), GetDefaultConfigPath()))
	assert.True(t, DefaultConfigExists())
}
