package contract

import "context"

// Compilation is the module graph construction and sealing collaborator.
// Its real implementation is out of scope for the compilation driver
// (see spec.md §1); the driver only calls the methods below.
type Compilation interface {
	Name() string

	GetAssets() []AssetEntry
	UpdateAsset(name string, src Source, info AssetInfo)
	EmitAsset(name string, src Source, info AssetInfo)

	Finish(ctx context.Context) error
	Seal(ctx context.Context) error

	GetLogger(name string) InfrastructureLogger
	GetPath(template string, data map[string]string) string

	// EmittedAssets and ComparedForEmitAssets are sets the emission
	// engine populates during emitAssets; plugins read them afterward.
	MarkEmitted(name string)
	MarkCompared(targetPath string)

	// NeedAdditionalPass reports whether the driver should schedule one
	// more compile pass; the driver asks after this pass's assets have been
	// emitted.
	NeedAdditionalPass() bool

	// Records exposes the per-compilation records map. The driver does not
	// link it to the owning Compiler's records; it reads and writes its own.
	Records() map[string]any

	// Entrypoints enumerates entry chunk groups for runAsChild.
	Entrypoints() []Entrypoint

	// Children accumulates child-compiler results appended by runAsChild.
	AddChild(c Compilation)

	// AddBuildDependency records a path the build consulted, persisted
	// into the cache once a run completes without an additional pass.
	AddBuildDependency(path string)
	BuildDependencies() []string

	// FireChildCompiler notifies the compilation's childCompiler hook
	// (spec.md §4.6, §6) once a child compiler has been constructed from
	// it. child is typed any, not *compiler.Compiler, to avoid a
	// contract → compiler import cycle; real implementations downcast
	// or simply record identity.
	FireChildCompiler(child any, name string, index int)
}

// Entrypoint is one named entry's resulting chunk set.
type Entrypoint struct {
	Name   string
	Chunks []string
}

// InfrastructureLogger is the logging sink a Compilation hands back from
// GetLogger; it forwards through the infrastructureLog hook first.
type InfrastructureLogger interface {
	Log(level, msg string, args ...any)

	// GetChildLogger returns a logger whose name is this logger's name
	// joined with name by "/" (spec.md §4.7). name may be a string or a
	// func() string. The Compiler's infrastructure logger resolves it on
	// the child's first message; internal/logging's logger resolves it when
	// the child is created.
	GetChildLogger(name any) InfrastructureLogger
}

// NormalModuleFactory and ContextModuleFactory are opaque collaborators;
// only their identity flows through hooks. A zero-value struct pointer is
// sufficient since the driver never calls methods on them directly.
type NormalModuleFactory struct{}

type ContextModuleFactory struct{}

// ResolverFactory is an opaque collaborator shared between a parent
// compiler and its children.
type ResolverFactory struct{}

// Stats is constructed once per completed compilation; opaque to the
// driver beyond construction.
type Stats struct {
	Compilation Compilation
	Err         error
}

// NewStats constructs a Stats for a completed (possibly failed) compile.
func NewStats(c Compilation, err error) *Stats {
	return &Stats{Compilation: c, Err: err}
}
