package logger

import (
	"classroom_portal/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name, mode, level string
		want              zapcore.Level
	}{
		{"debug 模式", "debug", "error", zap.DebugLevel},
		{"release 模式", "release", "warn", zap.WarnLevel},
		{"非法级别", "release", "loud", zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
			assert.Equal(t, tt.want, level(cfg))
		})
	}
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	file := filepath.Join(t.TempDir(), "portal.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{Level: "info", File: file, MaxSizeMB: 1},
	})
	Log.Info("Submission recorded", zap.Uint("section_id", 4))
	Log.Debug("not written")
	_ = Log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Submission recorded"`)
	assert.Contains(t, string(data), `"section_id":4`)
	assert.NotContains(t, string(data), "not written")
}
