// Package watch reports changes to the markdown files of a docs tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cloo-solutions/docsearch/internal/docs"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before a batch
// of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the sorted, root-relative paths changed in one batch.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches a docs root recursively.
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
}

// New creates a Watcher for root. Dot-directories are not watched.
func New(root string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{root: root, debounce: debounce, fsw: fsw, logger: logger}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add directories to watcher: %w", err)
	}
	return w, nil
}

// Run delivers batches of changes to onChange until ctx is done. onChange
// runs on the watcher goroutine, so events arriving meanwhile are batched
// into the next call.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if rel, ok := w.handleEvent(event); ok {
				pending[rel] = struct{}{}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			onChange(ctx, paths)
		}
	}
}

// handleEvent returns the root-relative path of a markdown change. New
// directories are added to the watch list.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if event.Op&fsnotify.Chmod == event.Op {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		rel = event.Name
	}
	rel = filepath.ToSlash(rel)
	if hiddenPath(rel) {
		return "", false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("path", rel), zap.Error(err))
			}
			return "", false
		}
	}

	if !docs.IsMarkdownFile(event.Name) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
