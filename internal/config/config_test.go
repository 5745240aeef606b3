package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	d := t.TempDir()
	path := filepath.Join(d, "build.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MinimalConfig(t *testing.T) {
	path := writeConfig(t, `{
  configVersion: "1"
  context: "/project"
}`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Context() != "/project" {
		t.Fatalf("context = %q", opts.Context())
	}
	if opts.OutputPath() != "" {
		t.Fatalf("expected empty output path by default")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `{
  configVersion: "1"
  context: "/project"
  output: {
    path: "/project/dist"
    compareBeforeEmit: true
  }
  records: {
    input: "/project/records.json"
    output: "/project/records.json"
  }
  git: {
    enabled: true
  }
  watch: {
    patterns: ["**/*.go"]
    ignore: ["**/vendor/**"]
    debounceMs: 250
  }
}`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.OutputPath() != "/project/dist" || !opts.CompareBeforeEmit() {
		t.Fatalf("unexpected output config: %q %v", opts.OutputPath(), opts.CompareBeforeEmit())
	}
	if opts.RecordsInputPath() != "/project/records.json" || opts.RecordsOutputPath() != "/project/records.json" {
		t.Fatalf("unexpected records config")
	}
	if !opts.GitEnabled() {
		t.Fatalf("expected git enabled")
	}
	wc := opts.WatchConfig()
	if len(wc.Patterns) != 1 || wc.Patterns[0] != "**/*.go" {
		t.Fatalf("unexpected watch patterns: %v", wc.Patterns)
	}
	if len(wc.Ignore) != 1 {
		t.Fatalf("unexpected watch ignore: %v", wc.Ignore)
	}
	if wc.Debounce != 250*time.Millisecond {
		t.Fatalf("unexpected debounce: %v", wc.Debounce)
	}
}

func TestLoad_GitDefaultsEnabledInsideWorkTree(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("git init: %v", err)
	}
	path := writeConfig(t, `{
  configVersion: "1"
  context: "`+filepath.ToSlash(dir)+`"
}`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !opts.GitEnabled() {
		t.Fatalf("expected git enabled by default inside a work tree")
	}
}

func TestLoad_GitDefaultsDisabledOutsideWorkTree(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `{
  configVersion: "1"
  context: "`+filepath.ToSlash(dir)+`"
}`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.GitEnabled() {
		t.Fatalf("expected git disabled by default outside a work tree")
	}
}

func TestLoad_ExplicitGitDisabledOverridesWorkTreeDefault(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("git init: %v", err)
	}
	path := writeConfig(t, `{
  configVersion: "1"
  context: "`+filepath.ToSlash(dir)+`"
  git: {
    enabled: false
  }
}`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.GitEnabled() {
		t.Fatalf("expected explicit git.enabled=false to override the work-tree default")
	}
}

func TestLoad_MissingConfigVersion(t *testing.T) {
	path := writeConfig(t, `{ context: "/project" }`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing configVersion")
	}
}

func TestLoad_RejectsNonCueExtension(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "build.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for non-.cue extension")
	}
}
