// Package compiler implements the Compiler Driver (C5) and Child Compiler
// (C6): the lifecycle state machine, hook dispatch sequencing, and
// parent/child state sharing described in spec.md §§3-4.5-4.6. Control
// flow is written the way the teacher sequences its pipeline
// (cmd/thoth/run/pipeline.go: an explicit ordered list of named steps
// threaded through context.Context) generalized from a fixed stage list
// to a lifecycle with branches (shouldEmit, additional passes).
package compiler

import (
	"context"
	"time"

	"github.com/buildforge/compiler/internal/contract"
	"github.com/buildforge/compiler/internal/emit"
	"github.com/buildforge/compiler/internal/gitinfo"
	"github.com/buildforge/compiler/internal/records"
	"github.com/buildforge/compiler/internal/watch"
)

// NewCompilation constructs the Compilation collaborator for one compile
// pass; the driver core treats its result opaquely beyond the
// contract.Compilation surface (spec.md §1, Out of scope).
type NewCompilation func(params CompileParams) contract.Compilation

// RunBuild performs the module-graph construction the driver delegates to
// an external collaborator: callers populate compilation's assets during
// this callback. Compile calls it after the make and finishMake hooks and
// before compilation.Finish.
type RunBuild func(ctx context.Context, compilation contract.Compilation) error

// Compiler is the compilation driver (spec.md §3 "Compiler").
type Compiler struct {
	Context string
	root    *Compiler
	Options *Options

	Name          string
	compilerPath  string
	outputPath    string
	recordsInput  string
	recordsOutput string

	records map[string]any

	Cache contract.Cache

	InputFS        contract.InputFileSystem
	OutputFS       contract.OutputFileSystem
	IntermediateFS contract.IntermediateFileSystem

	running   bool
	idle      bool
	watchMode bool

	ModifiedFiles     map[string]struct{}
	RemovedFiles      map[string]struct{}
	FileTimestamps    map[string]time.Time
	ContextTimestamps map[string]time.Time

	parentCompilation contract.Compilation

	Hooks *Hooks

	emission *emit.Engine

	newCompilation NewCompilation
	runBuild       RunBuild

	logger InfrastructureLoggerFactory
}

// InfrastructureLoggerFactory constructs the base infrastructure logger a
// Compiler falls through to once the infrastructureLog hook declines a
// message (spec.md §4.7).
type InfrastructureLoggerFactory func(name string) contract.InfrastructureLogger

// New constructs a top-level Compiler. newCompilation and runBuild plug in
// the out-of-scope module-graph collaborator (spec.md §1).
func New(context string, opts *Options, cache contract.Cache, inputFS contract.InputFileSystem, outputFS contract.OutputFileSystem, intermediateFS contract.IntermediateFileSystem, newCompilation NewCompilation, runBuild RunBuild) *Compiler {
	c := &Compiler{
		Context:           context,
		Options:           opts,
		Name:              "",
		compilerPath:      "",
		outputPath:        opts.OutputPath(),
		recordsInput:      opts.RecordsInputPath(),
		recordsOutput:     opts.RecordsOutputPath(),
		records:           map[string]any{},
		Cache:             cache,
		InputFS:           inputFS,
		OutputFS:          outputFS,
		IntermediateFS:    intermediateFS,
		ModifiedFiles:     map[string]struct{}{},
		RemovedFiles:      map[string]struct{}{},
		FileTimestamps:    map[string]time.Time{},
		ContextTimestamps: map[string]time.Time{},
		Hooks:             &Hooks{},
		emission:          emit.New(opts.CompareBeforeEmit()),
		newCompilation:    newCompilation,
		runBuild:          runBuild,
	}
	c.root = c
	return c
}

// SetLogger installs the fallback infrastructure logger factory.
func (c *Compiler) SetLogger(f InfrastructureLoggerFactory) { c.logger = f }

// Root returns the top-level ancestor compiler (itself, for a top-level
// Compiler).
func (c *Compiler) Root() *Compiler { return c.root }

// IsChild reports spec.md §4.6's `isChild() ≡ parentCompilation != null`.
func (c *Compiler) IsChild() bool { return c.parentCompilation != nil }

// CompilerPath exposes the cache-namespace prefix (spec.md §3).
func (c *Compiler) CompilerPath() string { return c.compilerPath }

// Records exposes the records subtree this compiler reads/writes; for a
// child it aliases a slice of the parent's tree (spec.md §4.6).
func (c *Compiler) Records() map[string]any { return c.records }

// Watch implements spec.md §4.5's watch(watchOptions, handler) → Watching.
// The state-machine guard lives here; the rebuild-on-change mechanics are
// delegated to internal/watch.FSWatcher, which calls back into Compile.
func (c *Compiler) Watch(ctx context.Context, opts watch.Options) (contract.Watching, error) {
	if c.running {
		return nil, &contract.ConcurrentBuildError{}
	}
	c.running = true
	c.watchMode = true

	w, err := watch.New(ctx, c, c.Context, opts)
	if err != nil {
		c.running = false
		c.watchMode = false
		return nil, err
	}
	return w, nil
}

// FireInvalid dispatches the invalid(filename, changeTime) hook, called by
// the Watching collaborator (internal/watch) when a change is observed.
func (c *Compiler) FireInvalid(filename string, changeTime time.Time) {
	c.Hooks.Invalid.Call(filename, changeTime)
}

// FireWatchClose dispatches the watchClose hook, called once by the
// Watching collaborator's Close.
func (c *Compiler) FireWatchClose() {
	c.Hooks.WatchClose.Call()
}

// FireWatchRun dispatches the watchRun(compiler) async-series hook, called
// by the Watching collaborator before each watch-triggered rebuild (spec.md
// §6's hook catalogue).
func (c *Compiler) FireWatchRun(ctx context.Context) error {
	return c.Hooks.WatchRun.CallAsync(ctx, c)
}

// Run implements spec.md §4.5's run(callback): the one-shot build
// sequence beforeRun → run → readRecords → compile(onCompiled).
func (c *Compiler) Run(ctx context.Context, callback func(err error, stats *contract.Stats)) error {
	if c.running {
		return &contract.ConcurrentBuildError{}
	}
	c.running = true

	if c.idle {
		if err := c.Cache.EndIdle(ctx); err != nil {
			c.running = false
			return err
		}
		c.idle = false
	}

	if err := c.Hooks.BeforeRun.CallAsync(ctx, c); err != nil {
		c.finalize(ctx, err, nil, callback)
		return nil
	}
	if err := c.Hooks.Run.CallAsync(ctx, c); err != nil {
		c.finalize(ctx, err, nil, callback)
		return nil
	}

	recs, err := records.Read(c.IntermediateFS, c.recordsInput)
	if err != nil {
		c.finalize(ctx, err, nil, callback)
		return nil
	}
	c.records = recs

	c.Compile(ctx, func(err error, compilation contract.Compilation) {
		c.onCompiled(ctx, err, compilation, callback)
	})
	return nil
}

// Compile implements spec.md §4.5's compile(callback).
func (c *Compiler) Compile(ctx context.Context, callback func(err error, compilation contract.Compilation)) {
	params := CompileParams{
		NormalModuleFactory:  &contract.NormalModuleFactory{},
		ContextModuleFactory: &contract.ContextModuleFactory{},
	}
	c.Hooks.NormalModuleFactory.Call(params.NormalModuleFactory)
	c.Hooks.ContextModuleFactory.Call(params.ContextModuleFactory)

	if err := c.Hooks.BeforeCompile.CallAsync(ctx, params); err != nil {
		callback(err, nil)
		return
	}
	c.Hooks.Compile.Call(params)

	compilation := c.newCompilation(params)
	c.Hooks.ThisCompilation.Call(compilation, params)
	c.Hooks.Compilation.Call(compilation, params)

	if err := c.Hooks.Make.CallAsync(ctx, compilation); err != nil {
		callback(err, nil)
		return
	}
	if err := c.Hooks.FinishMake.CallAsync(ctx, compilation); err != nil {
		callback(err, nil)
		return
	}

	if c.runBuild != nil {
		if err := c.runBuild(ctx, compilation); err != nil {
			callback(err, nil)
			return
		}
	}

	if err := compilation.Finish(ctx); err != nil {
		callback(err, nil)
		return
	}
	if err := compilation.Seal(ctx); err != nil {
		callback(err, nil)
		return
	}

	if err := c.Hooks.AfterCompile.CallAsync(ctx, compilation); err != nil {
		callback(err, nil)
		return
	}
	callback(nil, compilation)
}

// onCompiled implements spec.md §4.5's post-compile phase, including the
// shouldEmit short-circuit and the additional-pass loop.
func (c *Compiler) onCompiled(ctx context.Context, err error, compilation contract.Compilation, callback func(error, *contract.Stats)) {
	if err != nil {
		c.finalize(ctx, err, nil, callback)
		return
	}

	if v, ok := c.Hooks.ShouldEmit.Call(compilation); ok {
		if emitFlag, isBool := v.(bool); isBool && !emitFlag {
			stats := contract.NewStats(compilation, nil)
			c.finalizeDone(ctx, stats, callback)
			return
		}
	}

	if err := c.emitAssets(ctx, compilation); err != nil {
		c.finalize(ctx, err, nil, callback)
		return
	}

	if compilation.NeedAdditionalPass() {
		stats := contract.NewStats(compilation, nil)
		if err := c.Hooks.Done.CallAsync(ctx, stats); err != nil {
			c.finalize(ctx, err, nil, callback)
			return
		}
		if err := c.Hooks.AdditionalPass.CallAsync(ctx); err != nil {
			c.finalize(ctx, err, nil, callback)
			return
		}
		c.Compile(ctx, func(err error, compilation contract.Compilation) {
			c.onCompiled(ctx, err, compilation, callback)
		})
		return
	}

	if err := c.emitRecordsWithGitIdentity(ctx); err != nil {
		c.finalize(ctx, err, nil, callback)
		return
	}

	stats := contract.NewStats(compilation, nil)
	c.finalizeDoneAndPersist(ctx, compilation, stats, callback)
}

func (c *Compiler) finalizeDone(ctx context.Context, stats *contract.Stats, callback func(error, *contract.Stats)) {
	if err := c.Hooks.Done.CallAsync(ctx, stats); err != nil {
		c.finalize(ctx, err, stats, callback)
		return
	}
	c.finalize(ctx, nil, stats, callback)
}

func (c *Compiler) finalizeDoneAndPersist(ctx context.Context, compilation contract.Compilation, stats *contract.Stats, callback func(error, *contract.Stats)) {
	if err := c.Hooks.Done.CallAsync(ctx, stats); err != nil {
		c.finalize(ctx, err, stats, callback)
		return
	}
	if err := c.Cache.StoreBuildDependencies(ctx, compilation.BuildDependencies()); err != nil {
		c.finalize(ctx, err, stats, callback)
		return
	}
	c.finalize(ctx, nil, stats, callback)
}

// finalize implements spec.md §4.5's finalisation: idempotent per run,
// resumes idle, clears running, fires failed(err) when present, invokes
// the user callback, then fires afterDone(stats) observationally.
func (c *Compiler) finalize(ctx context.Context, err error, stats *contract.Stats, callback func(error, *contract.Stats)) {
	if !c.running {
		return
	}
	c.Cache.BeginIdle()
	c.idle = true
	c.running = false

	if err != nil {
		c.Hooks.Failed.Call(err)
	}
	if callback != nil {
		callback(err, stats)
	}
	// afterDone fires on failure too, with nil stats.
	c.Hooks.AfterDone.Call(stats)
}

// Close implements spec.md §4.5's close(callback): delegates to
// cache.shutdown, wrapping a failure as contract.ShutdownError. Close does
// not mark the Compiler as closed: Run and Watch do not check whether
// Close has been called.
func (c *Compiler) Close(ctx context.Context) error {
	if err := c.Cache.Shutdown(ctx); err != nil {
		return &contract.ShutdownError{Err: err}
	}
	return nil
}

// emitAssets implements spec.md §4.4's pipeline: emit hook → mkdir
// outputPath → bounded-concurrency write protocol → afterEmit hook.
func (c *Compiler) emitAssets(ctx context.Context, compilation contract.Compilation) error {
	if err := c.Hooks.Emit.CallAsync(ctx, compilation); err != nil {
		return err
	}
	if c.OutputFS == nil {
		return c.Hooks.AfterEmit.CallAsync(ctx, compilation)
	}

	assetEmitted := func(ctx context.Context, name, targetPath string, content []byte) error {
		compilation.MarkEmitted(name)
		info := AssetEmittedInfo{
			Content:     content,
			OutputPath:  c.outputPath,
			Compilation: compilation,
			TargetPath:  targetPath,
		}
		if err := c.Hooks.AssetEmitted.CallAsync(ctx, name, info); err != nil {
			return err
		}
		compilation.UpdateAsset(name, &contract.SizeOnlySource{SizeBytes: len(content)}, contract.AssetInfo{Size: len(content)})
		return nil
	}

	assetAlreadyWritten := func(ctx context.Context, name string, size int) error {
		compilation.UpdateAsset(name, &contract.SizeOnlySource{SizeBytes: size}, contract.AssetInfo{Size: size})
		return nil
	}

	assetCompared := func(targetPath string) {
		compilation.MarkCompared(targetPath)
	}

	entries := compilation.GetAssets()
	if err := c.emission.Emit(ctx, c.OutputFS, c.outputPath, entries, assetEmitted, assetAlreadyWritten, assetCompared); err != nil {
		return err
	}
	return c.Hooks.AfterEmit.CallAsync(ctx, compilation)
}

// emitRecordsWithGitIdentity implements spec.md §4.2's emitRecords, plus
// the §4.2 expansion (C11): merging git build identity into
// records["buildInfo"]["git"] before persisting, when enabled.
func (c *Compiler) emitRecordsWithGitIdentity(ctx context.Context) error {
	if c.Options.GitEnabled() {
		if id, err := gitinfo.Lookup(c.Context); err == nil {
			records.MergeBuildInfo(c.records, id.AsMap())
		}
	}
	return records.Write(c.IntermediateFS, c.recordsOutput, c.records)
}

// RunAsChild implements spec.md §4.5's runAsChild(callback): one compile,
// appended to the parent's children, with every child asset republished
// into the parent and entry chunks collected across entrypoints.
func (c *Compiler) RunAsChild(ctx context.Context, parent contract.Compilation, callback func(err error, entries []contract.Entrypoint, compilation contract.Compilation)) {
	c.Compile(ctx, func(err error, compilation contract.Compilation) {
		if err != nil {
			callback(err, nil, nil)
			return
		}
		parent.AddChild(compilation)
		for _, asset := range compilation.GetAssets() {
			parent.EmitAsset(asset.Name, asset.Source, asset.Info)
		}
		callback(nil, compilation.Entrypoints(), compilation)
	})
}
