package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/config"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/patch"
)

type testEnv struct {
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	connects atomic.Int32
	targets  []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvEndpoint, config.EnvProfilesDir, config.EnvLanguage,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvMetricsTextfile, config.EnvStopTimeout, config.EnvTempDir} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	return &testEnv{}
}

func (te *testEnv) run(args ...string) int {
	return run(args, env{
		stdout: &te.stdout,
		stderr: &te.stderr,
		connector: patch.ConnectorFunc(func(ctx context.Context, endpoint string) (patch.Runtime, error) {
			te.connects.Add(1)
			return nil, errors.New("connection refused")
		}),
	})
}

func TestNoArgsIsInvalid(t *testing.T) {
	te := newTestEnv(t)
	assert.Equal(t, exitInvalid, te.run())
	assert.Contains(t, te.stderr.String(), "Invalid input")
	assert.Zero(t, te.connects.Load())
}

func TestInvalidInputIsLocalized(t *testing.T) {
	te := newTestEnv(t)
	assert.Equal(t, exitInvalid, te.run("--language", "de", "-t", "svc"))
	assert.Contains(t, te.stderr.String(), "Ungültige Eingabe")
}

func TestLanguageFromConfigFile(t *testing.T) {
	te := newTestEnv(t)
	require.NoError(t, os.WriteFile(config.DefaultFile, []byte("language: es\n"), 0o644))

	assert.Equal(t, exitInvalid, te.run("-t", "svc"))
	assert.Contains(t, te.stderr.String(), "Entrada no válida")
}

func TestMalformedLanguage(t *testing.T) {
	te := newTestEnv(t)
	assert.Equal(t, exitInvalid, te.run("--language", "not a language!"))
}

func TestUnknownFlag(t *testing.T) {
	te := newTestEnv(t)
	assert.Equal(t, exitInvalid, te.run("--frobnicate"))
	assert.Contains(t, te.stderr.String(), "unknown flag")
}

func TestSaveAndListProfiles(t *testing.T) {
	te := newTestEnv(t)
	dir := filepath.Join(t.TempDir(), "profiles")

	code := te.run("--profiles-dir", dir, "--save-profile", "nightly",
		"-i", "./file.txt,./conf", "-o", "/app/data", "-t", "my-container", "--replace-tag", "backup-20250426")
	require.Equal(t, exitOK, code, te.stderr.String())
	assert.Contains(t, te.stdout.String(), "Profile nightly saved")
	assert.FileExists(t, filepath.Join(dir, "nightly.json"))
	assert.Zero(t, te.connects.Load(), "saving must not run the request")

	te.stdout.Reset()
	require.Equal(t, exitOK, te.run("--profiles-dir", dir, "--list-profiles"))
	assert.Equal(t, "Current profiles:\nnightly\n", te.stdout.String())
}

func TestSaveProfileBadName(t *testing.T) {
	te := newTestEnv(t)
	dir := t.TempDir()
	assert.Equal(t, exitInvalid, te.run("--profiles-dir", dir, "--save-profile", "../up", "-t", "svc"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListNoProfiles(t *testing.T) {
	te := newTestEnv(t)
	require.Equal(t, exitOK, te.run("--profiles-dir", t.TempDir(), "--list-profiles"))
	assert.Equal(t, "No profiles found.\n", te.stdout.String())
}

func TestRunFailureExitsOne(t *testing.T) {
	te := newTestEnv(t)
	prom := filepath.Join(t.TempDir(), "cpatch.prom")
	t.Setenv(config.EnvMetricsTextfile, prom)

	code := te.run("-t", "svc", "--restore-tag", "bak", "-H", "tcp://127.0.0.1:2375", "--log-format", "json")

	assert.Equal(t, exitFailed, code)
	assert.Equal(t, int32(1), te.connects.Load())
	assert.Contains(t, te.stderr.String(), `"kind":"connectivity"`)
	assert.Contains(t, te.stderr.String(), `"step":"connect"`)
	raw, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `cpatch_runs_total{mode="restore",outcome="failure"} 1`)
}

func TestLoadProfilesSkipsMissing(t *testing.T) {
	te := newTestEnv(t)
	dir := t.TempDir()
	require.Equal(t, exitOK, te.run("--profiles-dir", dir, "--save-profile", "good",
		"-t", "svc", "--restore-tag", "bak", "-H", "tcp://127.0.0.1:2375"))
	te.stdout.Reset()

	code := te.run("--profiles-dir", dir, "--load-profiles", "good,missing", "--log-format", "json")

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, te.stdout.String(), "Executing profile good")
	assert.Contains(t, te.stderr.String(), "Skipping profile missing")
	assert.Equal(t, int32(1), te.connects.Load())
}

func TestPreScanLanguage(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"--language", "de"}, "de"},
		{[]string{"-t", "svc", "--language=es"}, "es"},
		{[]string{"--", "--language", "de"}, ""},
		{[]string{"--language"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, preScanLanguage(tt.args), "%v", tt.args)
	}
}
