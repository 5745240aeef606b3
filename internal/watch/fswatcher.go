// Package watch concretizes the Watching collaborator (spec.md §6, C7):
// it watches the build's context directory with fsnotify, debounces
// bursts of events the way editors produce them, and invokes the
// driver's Compile on each settled batch of changes. Debounce and
// default-ignore handling are ported from the pack's
// internal/watch.Watcher (fsnotify + doublestar), narrowed from a
// general-purpose command-rerunner to the compiler's invalid/watchClose
// hook contract (spec.md §6's "Watching(compiler, watchOptions,
// handler)... emits invalid(filename, changeTime) and watchClose").
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/buildforge/compiler/internal/contract"
)

// defaultIgnores mirrors the pack's watcher defaults: VCS metadata,
// dependency caches, and editor/OS noise that should never trigger a
// rebuild.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

const defaultDebounce = 300 * time.Millisecond

// Options configures an FSWatcher.
type Options struct {
	Patterns []string
	Ignore   []string
	Debounce time.Duration
}

// Compiler is the subset of *compiler.Compiler the watch collaborator
// needs: a way to trigger a rebuild and a way to fire the invalid and
// watchClose hooks. Declared as an interface here (rather than importing
// internal/compiler directly) to avoid a watch → compiler → watch import
// cycle, since the driver constructs the watcher.
type Compiler interface {
	Compile(ctx context.Context, callback func(err error, compilation contract.Compilation))
	FireInvalid(filename string, changeTime time.Time)
	FireWatchClose()
	FireWatchRun(ctx context.Context) error
}

// FSWatcher implements contract.Watching over fsnotify, rebuilding on
// every debounced batch of filesystem changes.
type FSWatcher struct {
	compiler Compiler
	fsw      *fsnotify.Watcher
	opts     Options
	baseDir  string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
	cancel  context.CancelFunc
}

// New starts watching baseDir and returns a running FSWatcher. It
// implements spec.md §4.5's watch(watchOptions, handler) return value.
func New(ctx context.Context, compilerDriver Compiler, baseDir string, opts Options) (*FSWatcher, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, &contract.IOFailureError{Op: "watch", Path: baseDir, Err: err}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &contract.IOFailureError{Op: "watch", Path: baseDir, Err: err}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	w := &FSWatcher{
		compiler: compilerDriver,
		fsw:      fsw,
		opts:     opts,
		baseDir:  absBase,
		pending:  map[string]struct{}{},
	}

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.run(runCtx)

	return w, nil
}

func (w *FSWatcher) addDirectories() error {
	return filepath.Walk(w.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return &contract.IOFailureError{Op: "watch-add", Path: path, Err: err}
		}
		return nil
	})
}

func (w *FSWatcher) isIgnored(path string) bool {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range defaultIgnores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	for _, pat := range w.opts.Ignore {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func (w *FSWatcher) matches(path string) bool {
	if w.isIgnored(path) {
		return false
	}
	if len(w.opts.Patterns) == 0 {
		return true
	}
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.opts.Patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func (w *FSWatcher) run(ctx context.Context) {
	defer func() {
		_ = w.fsw.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(evt.Name) {
				continue
			}
			w.schedule(ctx, evt.Name)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *FSWatcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.fire(ctx) })
}

func (w *FSWatcher) fire(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changeTime := time.Now()
	for name := range w.pending {
		w.compiler.FireInvalid(name, changeTime)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()

	if err := w.compiler.FireWatchRun(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "watch: watchRun failed: %v\n", err)
		return
	}

	w.compiler.Compile(ctx, func(err error, compilation contract.Compilation) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: rebuild failed: %v\n", err)
		}
	})
}

// Close implements contract.Watching: stops the underlying fsnotify
// watcher and fires watchClose exactly once.
func (w *FSWatcher) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}
	w.compiler.FireWatchClose()
	return nil
}

// Invalidate implements contract.Watching: forces an immediate rebuild
// outside the normal debounce window, reporting the base directory as
// changed when no file change is pending.
func (w *FSWatcher) Invalidate() error {
	w.mu.Lock()
	w.pending[w.baseDir] = struct{}{}
	w.mu.Unlock()
	w.fire(context.Background())
	return nil
}

var _ contract.Watching = (*FSWatcher)(nil)
