package cases

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRebuildsOnChanges(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "src", "com", "acme")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	inputDir := t.TempDir()
	smells := filepath.Join(inputDir, "smells.csv")
	require.NoError(t, os.WriteFile(smells, []byte("case_id\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{
			Root:     root,
			Inputs:   []string{smells},
			Debounce: 20 * time.Millisecond,
		}, func(context.Context) error {
			rebuilds.Add(1)
			return nil
		})
	}()

	// give the watcher time to register directories
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "Account.java"), []byte("class Account {}"), 0644))
	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := rebuilds.Load()
	require.NoError(t, os.WriteFile(smells, []byte("case_id\nx\n"), 0644))
	require.Eventually(t, func() bool { return rebuilds.Load() > before }, 5*time.Second, 10*time.Millisecond)

	// unrelated files are ignored
	time.Sleep(200 * time.Millisecond)
	before = rebuilds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, before, rebuilds.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingRootIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Watch(ctx, WatchConfig{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context) error { return nil })
	assert.NoError(t, err)
}
