package contract

import "os"

// InputFileSystem is the surface the driver reads build inputs through.
type InputFileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// Purge drops any cached directory entries. Optional; a no-op
	// implementation is valid.
	Purge()
}

// OutputFileSystem is the surface assets and the records sidecar are
// written through.
type OutputFileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Mkdir(path string) error
}

// IntermediateFileSystem has the same shape as OutputFileSystem; the
// driver uses it for the records sidecar so that emitted assets and
// build metadata can be routed to different backing stores.
type IntermediateFileSystem = OutputFileSystem
