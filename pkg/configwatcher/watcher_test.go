package configwatcher

import (
	"classroom_portal/internal/config"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	base := "storage:\n  local_path: " + filepath.Join(dir, "uploads") + "\n"
	require.NoError(t, os.WriteFile(file, []byte(base+"assessment:\n  submission_grace: 30s\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) { reloaded <- cfg })
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte(base+"assessment:\n  submission_grace: 45s\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 45*time.Second, cfg.Assessment.SubmissionGrace)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfigIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("storage:\n  local_path: "+filepath.Join(dir, "uploads")+"\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	called := make(chan struct{}, 1)
	go func() {
		_ = WatchConfig(ctx, file, func(*config.Config) { called <- struct{}{} })
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case <-called:
		t.Fatal("reloaded for an unrelated file")
	case <-ctx.Done():
	}
}

func TestWatchConfigMissingDirectory(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "missing", "config.yaml"), func(*config.Config) {})
	assert.Error(t, err)
}
