package cases

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ihavespoons/smellbench/internal/source"
)

// DefaultDebounce batches bursts of file events into one rebuild
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig describes what triggers a rebuild
type WatchConfig struct {
	// Root is the source tree; .java changes under it trigger rebuilds
	Root string
	// Inputs are extra files, such as the smells CSV, that trigger rebuilds
	Inputs []string
	// Excludes are doublestar patterns of directories not watched
	Excludes []string
	// Debounce is the quiet period before rebuilding
	Debounce time.Duration
	Logger   *log.Logger
}

// Watch calls rebuild whenever sources or inputs change, until ctx is
// done. Rebuilds never overlap; events arriving during one schedule another.
func Watch(ctx context.Context, config WatchConfig, rebuild func(context.Context) error) error {
	debounce := config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	excludes := config.Excludes
	if excludes == nil {
		excludes = source.DefaultExcludes
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchDirs(watcher, config.Root, excludes); err != nil {
		return fmt.Errorf("failed to add watch directories: %w", err)
	}

	inputs := make(map[string]bool, len(config.Inputs))
	for _, in := range config.Inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		inputs[abs] = true
		// watch the parent so editors that replace the file are seen
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", in, err)
		}
	}

	relevant := func(name string) bool {
		if strings.EqualFold(filepath.Ext(name), source.JavaExt) {
			return true
		}
		abs, err := filepath.Abs(name)
		return err == nil && inputs[abs]
	}

	trigger := make(chan struct{}, 1)
	var timerMu sync.Mutex
	var debounceTimer *time.Timer
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(debounce, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// new package directories need watching too
				if err := addWatchDirs(watcher, event.Name, excludes); err != nil {
					logger.Printf("watch %s: %v", event.Name, err)
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && relevant(event.Name) {
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watcher error: %v", err)
		case <-trigger:
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Printf("rebuild failed: %v", err)
			}
		}
	}
}

// addWatchDirs adds root and its directories recursively, skipping excluded
// and hidden ones. A root that is not a directory is ignored.
func addWatchDirs(watcher *fsnotify.Watcher, root string, excludes []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		slashed := filepath.ToSlash(path)
		for _, pattern := range excludes {
			if ok, _ := doublestar.Match(pattern, slashed); ok {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}
