package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vcnkl/bounce/bouncer"
)

var skipDirs = map[string]bool{
	".git":         true,
	".bounce":      true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

type Watcher struct {
	paths    []string
	ignore   []string
	gate     *gate
	onChange func(path string)
	onError  func(err error)
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
}

// NewWatcher watches paths recursively. Changes are reported at most once
// per delay: the first change fires right away and later ones are dropped
// until the delay has passed. opts configure the gate, for example its clock.
func NewWatcher(paths []string, ignore []string, delay time.Duration, opts ...bouncer.Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		paths:  paths,
		ignore: ignore,
		gate:   newGate(delay, opts...),
		fsw:    fsw,
	}, nil
}

func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *Watcher) OnError(fn func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start registers the paths and blocks, handling events until ctx is done.
// OnChange callbacks run on the event loop, so changes made while a callback
// runs queue up and are gated once it returns.
func (w *Watcher) Start(ctx context.Context) error {
	for _, path := range w.paths {
		if err := w.addRecursive(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.mu.Lock()
			fn := w.onError
			w.mu.Unlock()
			if fn != nil && err != nil {
				fn(err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.Trigger(event.Name)
}

// Trigger reports a change to path through the same gate as file events and
// returns whether OnChange was called.
func (w *Watcher) Trigger(path string) bool {
	return w.gate.Pass(func() {
		w.mu.Lock()
		fn := w.onChange
		w.mu.Unlock()

		if fn != nil {
			fn(path)
		}
	})
}

func (w *Watcher) Stop() {
	w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if path != root && (skipDirs[info.Name()] || w.shouldIgnore(path)) {
			return filepath.SkipDir
		}

		_ = w.fsw.Add(path)
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, raw := range w.ignore {
		pattern := strings.TrimPrefix(strings.ReplaceAll(raw, "**", "*"), "./")

		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}

		if strings.Contains(raw, "**") && matchesDirPattern(raw, path, base) {
			return true
		}
	}

	return false
}

// matchesDirPattern handles "**" patterns such as "**/dist/**": the part
// between the wildcards must match whole path components.
func matchesDirPattern(raw, path, base string) bool {
	fragment := strings.Trim(strings.ReplaceAll(raw, "**", ""), "/")
	if fragment == "" {
		return false
	}

	if strings.ContainsAny(fragment, "*?[") {
		matched, err := filepath.Match(fragment, base)
		return err == nil && matched
	}

	return strings.Contains(filepath.ToSlash(path)+"/", "/"+fragment+"/")
}
