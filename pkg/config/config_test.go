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
	for _, k := range []string{EnvConfig, EnvEndpoint, EnvProfilesDir, EnvLanguage, EnvLogLevel,
		EnvLogFormat, EnvMetricsTextfile, EnvStopTimeout, EnvTempDir} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "profiles", filepath.Base(cfg.ProfilesDir))
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cpatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: tcp://file-host:2375
language: de
stop_timeout_seconds: 5
log:
  level: debug
  format: json
`), 0o644))
	t.Setenv(EnvEndpoint, "tcp://env-host:2375")
	t.Setenv(EnvTempDir, "/var/tmp/cpatch")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://env-host:2375", cfg.Endpoint)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, 5, cfg.StopTimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/tmp/cpatch", cfg.TempDir)
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles_dir: /srv/profiles\n"), 0o644))
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/profiles", cfg.ProfilesDir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cpatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")

	t.Setenv(EnvStopTimeout, "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvStopTimeout)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cpatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse")
}
