package contract

// Source is an opaque producer of byte content for an emitted asset.
// A Source is compared by identity, not by value: two distinct Source
// instances with identical content are distinct cache keys.
type Source interface {
	// Source returns the content, preferring a buffer-yielding method;
	// implementations that only have a string form return it as bytes.
	Source() ([]byte, error)
	// Size reports the byte length without necessarily materialising it.
	Size() int
}

// BufferSource implements Source over an in-memory byte slice.
type BufferSource struct {
	Buf []byte
}

func (s *BufferSource) Source() ([]byte, error) { return s.Buf, nil }
func (s *BufferSource) Size() int               { return len(s.Buf) }

// StringSource implements Source over a string, coerced to UTF-8 bytes
// on read. Used when a plugin only has a string form of its content.
type StringSource struct {
	Str string
}

func (s *StringSource) Source() ([]byte, error) { return []byte(s.Str), nil }
func (s *StringSource) Size() int               { return len(s.Str) }

// SizeOnlySource is a placeholder source remembering only the byte size,
// installed in place of a concrete Source after a successful write to
// let its content be garbage collected.
type SizeOnlySource struct {
	SizeBytes int
}

func (s *SizeOnlySource) Source() ([]byte, error) {
	return nil, &ArgumentError{Message: "size-only source has no content"}
}
func (s *SizeOnlySource) Size() int { return s.SizeBytes }

// AssetInfo carries per-asset metadata relevant to emission.
type AssetInfo struct {
	// Immutable indicates the source has no in-place mutation semantics:
	// once written to a given content, the same Source will never produce
	// different bytes for the same target path.
	Immutable bool
	// Size is populated by the emission engine after a size-only
	// replacement; plugins should treat it as read-only.
	Size int
}

// AssetEntry is one named asset awaiting emission.
type AssetEntry struct {
	Name   string
	Source Source
	Info   AssetInfo
}
