package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	content := "storage:\n  local_path: " + uploads + "\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "/uploads", cfg.Storage.PublicBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Assessment.SubmissionGrace)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "Africa/Kigali", cfg.Schedule.Timezone)
	assert.Equal(t, "Africa/Kigali", cfg.Location().String())
	assert.Len(t, cfg.Signaling.StunServers, 2)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)

	_, err = os.Stat(cfg.Storage.LocalPath)
	assert.NoError(t, err, "local upload directory is created")
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
schedule:
  timezone: UTC
assessment:
  submission_grace: 1m
signaling:
  turn_url: turn:turn.example.com:3478
`)
	t.Setenv("TURN_USERNAME", "user")
	t.Setenv("TURN_PASSWORD", "secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, time.Minute, cfg.Assessment.SubmissionGrace)
	assert.Equal(t, "turn:turn.example.com:3478", cfg.Signaling.TurnURL)
	assert.Equal(t, "user", cfg.Signaling.TurnUsername)
	assert.Equal(t, "secret", cfg.Signaling.TurnPassword)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"发布模式密钥太短", "server:\n  mode: release\n", map[string]string{"JWT_SECRET": "short"}},
		{"未知时区", "schedule:\n  timezone: Mars/Olympus\n", nil},
		{"负的宽限期", "assessment:\n  submission_grace: -1s\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigFile)
}
