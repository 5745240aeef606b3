package compiler

import (
	"strconv"

	"github.com/buildforge/compiler/internal/contract"
	"github.com/buildforge/compiler/internal/emit"
)

// Plugin is either a bare apply function or an object exposing Apply,
// matching spec.md §4.6's "function ⇒ call as plugin; object ⇒ invoke its
// apply".
type Plugin interface {
	Apply(c *Compiler)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(c *Compiler)

func (f PluginFunc) Apply(c *Compiler) { f(c) }

// CreateChildCompiler implements spec.md §4.6's createChildCompiler
// (compilation, name, index, outputOptions, plugins): a new Compiler
// sharing the parent's filesystem/cache/change-tracking state, namespaced
// under the parent's compilerPath, with its records subtree aliased into
// the parent's and a restricted set of inherited hook taps.
func (c *Compiler) CreateChildCompiler(compilation contract.Compilation, name string, index int, outputOverlay *Options, plugins []Plugin) *Compiler {
	child := &Compiler{
		Context:           c.Context,
		root:              c.root,
		Name:              name,
		compilerPath:      c.compilerPath + name + "|" + strconv.Itoa(index) + "|",
		outputPath:        c.outputPath,
		recordsInput:      "",
		recordsOutput:     "",
		Cache:             c.Cache,
		InputFS:           c.InputFS,
		OutputFS:          nil,
		IntermediateFS:    c.IntermediateFS,
		ModifiedFiles:     c.ModifiedFiles,
		RemovedFiles:      c.RemovedFiles,
		FileTimestamps:    c.FileTimestamps,
		ContextTimestamps: c.ContextTimestamps,
		parentCompilation: compilation,
		Hooks:             &Hooks{},
		emission:          emit.New(c.Options.CompareBeforeEmit()),
		newCompilation:    c.newCompilation,
		runBuild:          c.runBuild,
		logger:            c.logger,
	}

	if outputOverlay != nil {
		child.Options = c.Options.WithOutput(outputOverlay.outputPath, outputOverlay.compareBeforeEmit)
	} else {
		child.Options = c.Options
	}

	child.records = aliasChildRecords(c.records, name, index)

	for _, p := range plugins {
		p.Apply(child)
	}

	child.Hooks.copyInheritableFrom(c.Hooks)

	if compilation != nil {
		compilation.FireChildCompiler(child, name, index)
	}

	return child
}

// aliasChildRecords implements spec.md §4.6's "records slicing": ensure
// parent.records[name] is an array, and alias (not copy) the entry at
// index — reusing the existing subtree if present, appending a fresh one
// otherwise — so writes through the child's Records() are visible to the
// parent.
func aliasChildRecords(parentRecords map[string]any, name string, index int) map[string]any {
	existing, _ := parentRecords[name].([]any)
	for len(existing) <= index {
		existing = append(existing, map[string]any{})
	}
	sub, ok := existing[index].(map[string]any)
	if !ok {
		sub = map[string]any{}
		existing[index] = sub
	}
	parentRecords[name] = existing
	return sub
}
