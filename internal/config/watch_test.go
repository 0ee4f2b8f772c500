package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchCoalescesEditBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("font_size = 11\n"), 0o644))

	store := NewStore(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { reloads.Add(1) })
	}()

	// Give the watcher a moment to install before writing.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("font_size = 12\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond, "expected a reload after the edit burst")

	// The burst fit inside the debounce window: one reload, not three.
	time.Sleep(2 * debounceWindow)
	require.Equal(t, int32(1), reloads.Load())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("font_size = 11\n"), 0o644))

	store := NewStore(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	go func() {
		_ = store.Watch(ctx, func() { reloads.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	time.Sleep(2 * debounceWindow)
	require.Zero(t, reloads.Load())
}

func TestWatchRequiresPathAndCallback(t *testing.T) {
	store := &Store{}
	err := store.Watch(context.Background(), func() {})
	if !errors.Is(err, ErrNoConfigPath) {
		t.Fatalf("expected ErrNoConfigPath, got %v", err)
	}

	store = NewStore(filepath.Join(t.TempDir(), "config.toml"))
	if err := store.Watch(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}
