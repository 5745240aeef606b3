package compiler

import (
	"time"

	"github.com/buildforge/compiler/internal/contract"
	"github.com/buildforge/compiler/internal/hook"
)

// CompileParams bundles the factories created at the start of compile; each
// factory's creation fires its own Sync hook before compile proceeds.
type CompileParams struct {
	NormalModuleFactory  *contract.NormalModuleFactory
	ContextModuleFactory *contract.ContextModuleFactory
}

// AssetEmittedInfo is the payload dispatched on the assetEmitted hook,
// spec.md §4.4 step 11c.
type AssetEmittedInfo struct {
	Content     []byte
	Source      contract.Source
	OutputPath  string
	Compilation contract.Compilation
	TargetPath  string
}

// Hooks is the fixed, frozen-at-construction hook table every Compiler
// exposes, one field per entry in spec.md §6's hook catalogue. The type of
// each field is chosen from internal/hook's per-arity generic types to
// match that entry's declared Kind and Parameters column exactly.
type Hooks struct {
	Initialize hook.SyncHook0

	Environment      hook.SyncHook0
	AfterEnvironment hook.SyncHook0
	WatchClose       hook.SyncHook0

	AfterPlugins   hook.SyncHook1[*Compiler]
	AfterResolvers hook.SyncHook1[*Compiler]

	EntryOption hook.SyncBailHook2[string, any]

	ShouldEmit hook.SyncBailHook1[contract.Compilation]

	InfrastructureLog hook.SyncBailHook3[string, string, []any]

	ThisCompilation hook.SyncHook2[contract.Compilation, CompileParams]
	Compilation     hook.SyncHook2[contract.Compilation, CompileParams]

	NormalModuleFactory  hook.SyncHook1[*contract.NormalModuleFactory]
	ContextModuleFactory hook.SyncHook1[*contract.ContextModuleFactory]

	Compile hook.SyncHook1[CompileParams]

	Invalid hook.SyncHook2[string, time.Time]

	Failed hook.SyncHook1[error]

	AfterDone hook.SyncHook1[*contract.Stats]

	BeforeRun hook.AsyncSeriesHook1[*Compiler]
	Run       hook.AsyncSeriesHook1[*Compiler]
	WatchRun  hook.AsyncSeriesHook1[*Compiler]

	BeforeCompile hook.AsyncSeriesHook1[CompileParams]
	AfterCompile  hook.AsyncSeriesHook1[contract.Compilation]

	Emit      hook.AsyncSeriesHook1[contract.Compilation]
	AfterEmit hook.AsyncSeriesHook1[contract.Compilation]

	AssetEmitted hook.AsyncSeriesHook2[string, AssetEmittedInfo]

	Done hook.AsyncSeriesHook1[*contract.Stats]

	AdditionalPass hook.AsyncSeriesHook0

	FinishMake hook.AsyncSeriesHook1[contract.Compilation]

	Make hook.AsyncParallelHook1[contract.Compilation]
}

// copyInheritableFrom implements spec.md §4.6's hook tap inheritance: every
// hook on parent is copied into the corresponding child hook, excluding
// {make, compile, emit, afterEmit, invalid, done, thisCompilation}.
func (h *Hooks) copyInheritableFrom(parent *Hooks) {
	h.Initialize.CopyFrom(&parent.Initialize)
	h.Environment.CopyFrom(&parent.Environment)
	h.AfterEnvironment.CopyFrom(&parent.AfterEnvironment)
	h.WatchClose.CopyFrom(&parent.WatchClose)
	h.AfterPlugins.CopyFrom(&parent.AfterPlugins)
	h.AfterResolvers.CopyFrom(&parent.AfterResolvers)
	h.EntryOption.CopyFrom(&parent.EntryOption)
	h.ShouldEmit.CopyFrom(&parent.ShouldEmit)
	h.InfrastructureLog.CopyFrom(&parent.InfrastructureLog)
	h.Compilation.CopyFrom(&parent.Compilation)
	h.NormalModuleFactory.CopyFrom(&parent.NormalModuleFactory)
	h.ContextModuleFactory.CopyFrom(&parent.ContextModuleFactory)
	h.Failed.CopyFrom(&parent.Failed)
	h.AfterDone.CopyFrom(&parent.AfterDone)
	h.BeforeRun.CopyFrom(&parent.BeforeRun)
	h.Run.CopyFrom(&parent.Run)
	h.WatchRun.CopyFrom(&parent.WatchRun)
	h.BeforeCompile.CopyFrom(&parent.BeforeCompile)
	h.AfterCompile.CopyFrom(&parent.AfterCompile)
	h.AssetEmitted.CopyFrom(&parent.AssetEmitted)
	h.AdditionalPass.CopyFrom(&parent.AdditionalPass)
	h.FinishMake.CopyFrom(&parent.FinishMake)
	// make, compile, emit, afterEmit, invalid, done, thisCompilation are
	// deliberately not copied: each compiles/emits its own subgraph.
}
