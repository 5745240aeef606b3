// Package config loads a CUE build configuration into a
// *compiler.Options. It mirrors the shape of the pack's
// internal/config.ParseMinimal: require a .cue file, compile it with
// cuecontext, validate the mandatory string fields, then decode the
// optional sections leniently (missing or mistyped optional fields are
// skipped rather than rejected).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/buildforge/compiler/internal/compiler"
	"github.com/buildforge/compiler/internal/gitinfo"
	"github.com/buildforge/compiler/internal/watch"
)

// Load reads, validates, and decodes a .cue build configuration into a
// *compiler.Options. Required fields: configVersion, context.
func Load(path string) (*compiler.Options, error) {
	if filepath.Ext(path) != ".cue" {
		return nil, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	if err := requireStringField(v, "configVersion"); err != nil {
		return nil, err
	}
	if err := requireStringField(v, "context"); err != nil {
		return nil, err
	}

	var configVersion string
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&configVersion); err != nil {
		return nil, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !IsSupportedConfigVersion(configVersion) {
		return nil, fmt.Errorf("unsupported configVersion: %q (supported: %s)", configVersion, SupportedConfigVersionsCSV())
	}

	var buildContext string
	if err := v.LookupPath(cue.ParsePath("context")).Decode(&buildContext); err != nil {
		return nil, fmt.Errorf("invalid value for context: %v", err)
	}

	outputPath, compareBeforeEmit := decodeOutput(v)
	recordsInput, recordsOutput := decodeRecords(v)
	gitEnabled := decodeGit(v, buildContext)
	watchConfig := decodeWatch(v)

	opts := compiler.NewOptions(outputPath, compareBeforeEmit, recordsInput, recordsOutput, gitEnabled)
	opts.WithContext(buildContext)
	opts.WithWatchConfig(watchConfig)
	return opts, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func decodeOutput(v cue.Value) (path string, compareBeforeEmit bool) {
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return "", false
	}
	if pv := ov.LookupPath(cue.ParsePath("path")); pv.Exists() && pv.Kind() == cue.StringKind {
		_ = pv.Decode(&path)
	}
	if cv := ov.LookupPath(cue.ParsePath("compareBeforeEmit")); cv.Exists() && cv.Kind() == cue.BoolKind {
		_ = cv.Decode(&compareBeforeEmit)
	}
	return path, compareBeforeEmit
}

func decodeRecords(v cue.Value) (input, output string) {
	rv := v.LookupPath(cue.ParsePath("records"))
	if !rv.Exists() {
		return "", ""
	}
	if iv := rv.LookupPath(cue.ParsePath("input")); iv.Exists() && iv.Kind() == cue.StringKind {
		_ = iv.Decode(&input)
	}
	if ov := rv.LookupPath(cue.ParsePath("output")); ov.Exists() && ov.Kind() == cue.StringKind {
		_ = ov.Decode(&output)
	}
	return input, output
}

// decodeGit implements SPEC_FULL.md §3's git-enabled default: auto-detect
// whether buildContext sits inside a git work tree and default to that,
// letting an explicit git.enabled in the config override it either way.
func decodeGit(v cue.Value, buildContext string) bool {
	defaultEnabled := gitinfo.IsWorkTree(buildContext)

	gv := v.LookupPath(cue.ParsePath("git"))
	if !gv.Exists() {
		return defaultEnabled
	}
	enabled := defaultEnabled
	if ev := gv.LookupPath(cue.ParsePath("enabled")); ev.Exists() && ev.Kind() == cue.BoolKind {
		_ = ev.Decode(&enabled)
	}
	return enabled
}

func decodeWatch(v cue.Value) watch.Options {
	var opts watch.Options
	wv := v.LookupPath(cue.ParsePath("watch"))
	if !wv.Exists() {
		return opts
	}
	if pv := wv.LookupPath(cue.ParsePath("patterns")); pv.Exists() && pv.Kind() == cue.ListKind {
		_ = pv.Decode(&opts.Patterns)
	}
	if iv := wv.LookupPath(cue.ParsePath("ignore")); iv.Exists() && iv.Kind() == cue.ListKind {
		_ = iv.Decode(&opts.Ignore)
	}
	if dv := wv.LookupPath(cue.ParsePath("debounceMs")); dv.Exists() && dv.Kind() == cue.IntKind {
		var ms int64
		if err := dv.Decode(&ms); err == nil {
			opts.Debounce = time.Duration(ms) * time.Millisecond
		}
	}
	return opts
}
