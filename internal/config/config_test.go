package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/radiodex")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FETCHER_USER_AGENT", "test-agent/0.1")
	t.Setenv("FETCHER_TIMEOUT", "3s")
	t.Setenv("PROBE_TIMEOUT", "1s")
	t.Setenv("RADIO_BROWSER_MIRRORS", " https://a.example/ ,https://b.example,, ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/radiodex", cfg.DatabaseURL)
	require.Equal(t, "9090", cfg.ServerPort)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, "test-agent/0.1", cfg.UserAgent)
	require.Equal(t, 3*time.Second, cfg.FetchTimeout)
	require.Equal(t, time.Second, cfg.ProbeTimeout)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Mirrors)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/radiodex")
	for _, key := range []string{"SERVER_PORT", "REDIS_URL", "FETCHER_USER_AGENT", "FETCHER_TIMEOUT", "PROBE_TIMEOUT", "RADIO_BROWSER_MIRRORS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, "RadioDex/1.0", cfg.UserAgent)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
	require.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	require.Empty(t, cfg.Mirrors)
	require.Empty(t, cfg.RedisURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radiodex.yaml")
	body := `database_url: postgres://localhost/radiodex
server_port: "7070"
user_agent: filecfg/1.0
fetch_timeout: 4s
probe_timeout: 2s
mirrors:
  - https://de1.api.radio-browser.info
  - https://nl1.api.radio-browser.info
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.ServerPort)
	require.Equal(t, "filecfg/1.0", cfg.UserAgent)
	require.Equal(t, 4*time.Second, cfg.FetchTimeout)
	require.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	require.Len(t, cfg.Mirrors, 2)
}

func TestLoadFromFileMissingDatabaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radiodex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_port: \"7070\"\n"), 0o600))

	_, err := LoadFromFile(path)
	require.True(t, errors.Is(err, ErrMissingDatabaseURL))
}

func TestApplyEnvFile(t *testing.T) {
	t.Setenv("RADIODEX_ENVFILE_A", "")
	os.Unsetenv("RADIODEX_ENVFILE_A")
	t.Setenv("RADIODEX_ENVFILE_B", "preset")

	applyEnvFile("# comment\nRADIODEX_ENVFILE_A=\"hello\"\nRADIODEX_ENVFILE_B=ignored\nmalformed line\n")

	require.Equal(t, "hello", os.Getenv("RADIODEX_ENVFILE_A"))
	require.Equal(t, "preset", os.Getenv("RADIODEX_ENVFILE_B"), "existing variables must not be overwritten")
	os.Unsetenv("RADIODEX_ENVFILE_A")
}
