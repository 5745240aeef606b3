package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/buildforge/compiler/internal/contract"
)

type fakeDriver struct {
	mu            sync.Mutex
	compileCount  int
	invalidCount  int
	closedCount   int
	watchRunCount int
	compiled      chan struct{}
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{compiled: make(chan struct{}, 8)}
}

func (f *fakeDriver) Compile(ctx context.Context, callback func(error, contract.Compilation)) {
	f.mu.Lock()
	f.compileCount++
	f.mu.Unlock()
	callback(nil, nil)
	f.compiled <- struct{}{}
}

func (f *fakeDriver) FireInvalid(filename string, changeTime time.Time) {
	f.mu.Lock()
	f.invalidCount++
	f.mu.Unlock()
}

func (f *fakeDriver) FireWatchClose() {
	f.mu.Lock()
	f.closedCount++
	f.mu.Unlock()
}

func (f *fakeDriver) FireWatchRun(ctx context.Context) error {
	f.mu.Lock()
	f.watchRunCount++
	f.mu.Unlock()
	return nil
}

func TestFSWatcher_RebuildsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	driver := newFakeDriver()

	w, err := New(context.Background(), driver, dir, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close(context.Background()) }()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-driver.compiled:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a rebuild to fire")
	}

	driver.mu.Lock()
	invalid := driver.invalidCount
	watchRun := driver.watchRunCount
	driver.mu.Unlock()
	if invalid == 0 {
		t.Fatalf("expected FireInvalid to have been called")
	}
	if watchRun == 0 {
		t.Fatalf("expected FireWatchRun to have been called before the rebuild")
	}
}

func TestFSWatcher_IgnoresGitDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	driver := newFakeDriver()
	w, err := New(context.Background(), driver, dir, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close(context.Background()) }()

	if !w.isIgnored(filepath.Join(dir, ".git", "HEAD")) {
		t.Fatalf("expected .git contents to be ignored")
	}
}

func TestFSWatcher_Close_FiresWatchCloseOnce(t *testing.T) {
	dir := t.TempDir()
	driver := newFakeDriver()
	w, err := New(context.Background(), driver, dir, Options{})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
	driver.mu.Lock()
	closed := driver.closedCount
	driver.mu.Unlock()
	if closed != 1 {
		t.Fatalf("expected watchClose fired once, got %d", closed)
	}
}

func TestFSWatcher_MatchesPatterns(t *testing.T) {
	dir := t.TempDir()
	driver := newFakeDriver()
	w, err := New(context.Background(), driver, dir, Options{Patterns: []string{"**/*.go"}})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close(context.Background()) }()

	if !w.matches(filepath.Join(dir, "main.go")) {
		t.Fatalf("expected main.go to match")
	}
	if w.matches(filepath.Join(dir, "main.txt")) {
		t.Fatalf("expected main.txt not to match")
	}
}
