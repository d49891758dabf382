package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SITEPATROL_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "sitepatrol", "sitepatrol.db"), cfg.Database.Path)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	require.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	require.Empty(t, cfg.Redis.Addr)
	require.Empty(t, cfg.API.BaseURL)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "custom.toml")
	data := `
[database]
path = "/tmp/patrol.db"

[api]
base_url = "http://console.local:8080"
timeout = "3s"

[redis]
addr = "localhost:6379"
ttl = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("SITEPATROL_CONFIG", path)
	t.Setenv("SITEPATROL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/patrol.db", cfg.Database.Path)
	require.Equal(t, "http://console.local:8080", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 30*time.Second, cfg.Redis.TTL)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SITEPATROL_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "conf", "config.toml")
	t.Setenv("SITEPATROL_CONFIG", path)

	cfg, err := Load()
	require.Error(t, err, "explicit path does not exist yet")

	t.Setenv("SITEPATROL_CONFIG", "")
	cfg, err = Load()
	require.NoError(t, err)
	cfg.API.BaseURL = "http://10.0.0.5:8080"
	cfg.Log.File = "/var/log/sitepatrol.log"
	cfg.Database.BusyTimeout = 750 * time.Millisecond

	t.Setenv("SITEPATROL_CONFIG", path)
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.5:8080", loaded.API.BaseURL)
	require.Equal(t, "/var/log/sitepatrol.log", loaded.Log.File)
	require.Equal(t, cfg.Server.ShutdownTimeout, loaded.Server.ShutdownTimeout)
	require.Equal(t, 750*time.Millisecond, loaded.Database.BusyTimeout)
}

func TestDefaultIgnoresFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "missing.toml")
	t.Setenv("SITEPATROL_CONFIG", path)
	t.Setenv("SITEPATROL_API_BASE_URL", "http://api.local")

	require.Equal(t, path, Path())
	cfg, err := Default()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "http://api.local", cfg.API.BaseURL)
}
