package compiler

import "github.com/buildforge/compiler/internal/watch"

// Options is the normalised build configuration a Compiler consumes. Its
// fields are intentionally unexported; callers (internal/config's loader,
// or tests) go through the accessors below, matching spec.md §3's "the
// normalised configuration (opaque here; consumed via getters only)".
type Options struct {
	context           string
	outputPath        string
	compareBeforeEmit bool
	recordsInputPath  string
	recordsOutputPath string
	gitEnabled        bool
	watchConfig       watch.Options
}

// NewOptions constructs Options from its normalised fields.
func NewOptions(outputPath string, compareBeforeEmit bool, recordsInputPath, recordsOutputPath string, gitEnabled bool) *Options {
	return &Options{
		outputPath:        outputPath,
		compareBeforeEmit: compareBeforeEmit,
		recordsInputPath:  recordsInputPath,
		recordsOutputPath: recordsOutputPath,
		gitEnabled:        gitEnabled,
	}
}

func (o *Options) Context() string           { return o.context }
func (o *Options) OutputPath() string        { return o.outputPath }
func (o *Options) CompareBeforeEmit() bool   { return o.compareBeforeEmit }
func (o *Options) RecordsInputPath() string  { return o.recordsInputPath }
func (o *Options) RecordsOutputPath() string { return o.recordsOutputPath }
func (o *Options) GitEnabled() bool          { return o.gitEnabled }
func (o *Options) WatchConfig() watch.Options { return o.watchConfig }

// WithContext sets the build's context directory, used by the config
// loader since NewOptions's positional form predates that field.
func (o *Options) WithContext(context string) *Options {
	o.context = context
	return o
}

// WithWatchConfig sets the watch collaborator's options, used by the
// config loader since NewOptions's positional form predates that field.
func (o *Options) WithWatchConfig(wc watch.Options) *Options {
	o.watchConfig = wc
	return o
}

// WithOutput returns a shallow copy of o with outputPath and
// compareBeforeEmit overridden, used by createChildCompiler's "output
// overlay applied to options.output" (spec.md §4.6).
func (o *Options) WithOutput(outputPath string, compareBeforeEmit bool) *Options {
	clone := *o
	if outputPath != "" {
		clone.outputPath = outputPath
	}
	clone.compareBeforeEmit = compareBeforeEmit
	return &clone
}
