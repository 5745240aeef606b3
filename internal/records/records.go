// Package records implements the Records Store (spec.md §4.2): loading and
// persisting the cross-build identity sidecar as stable-key, stable-indent
// JSON. Canonicalisation mirrors the teacher's internal/metafile.Marshal,
// which walks a decoded document and rebuilds every mapping node with keys
// in sorted order before encoding — ported here from YAML nodes to plain
// Go values since the sidecar format is JSON, not YAML.
package records

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"

	"github.com/buildforge/compiler/internal/contract"
)

// Read loads the records sidecar at path. An unset path yields an empty
// map. A missing file is treated as empty; a parse failure is wrapped as
// contract.RecordsParseError.
func Read(fs contract.IntermediateFileSystem, path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	if _, err := fs.Stat(path); err != nil {
		if os.IsNotExist(unwrapIOErr(err)) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &contract.RecordsParseError{Path: path, Err: err}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// Write persists records as canonical JSON (2-space indent, keys sorted at
// every object depth) to path, creating parent directories. An unset path
// is a no-op.
func Write(fs contract.OutputFileSystem, path string, recs map[string]any) error {
	if path == "" {
		return nil
	}
	dir := dirname(path)
	if dir != "" {
		if err := fs.Mkdir(dir); err != nil {
			return err
		}
	}
	data, err := Marshal(recs)
	if err != nil {
		return err
	}
	return fs.WriteFile(path, data)
}

// Marshal renders recs as canonical JSON: 2-space indent, and every
// mapping node re-emitted with sorted keys so that plugin-induced key
// reordering across builds never perturbs the serialised form.
func Marshal(recs map[string]any) ([]byte, error) {
	canon := canonicalize(recs)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canon); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// canonicalize rebuilds v with every map[string]any node replaced by a
// sortedMap whose MarshalJSON emits keys in sorted order; array nodes are
// left in their original order (only object keys are canonicalised, per
// spec.md §4.2: "a key-sorting transformer applied to every non-array
// object node").
func canonicalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(sortedMap, len(x))
		for k, vv := range x {
			out[k] = canonicalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = canonicalize(vv)
		}
		return out
	default:
		return x
	}
}

// sortedMap marshals as a JSON object with keys in sorted order.
type sortedMap map[string]any

func (m sortedMap) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func dirname(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}

func unwrapIOErr(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return err
}

// MergeBuildInfo merges git identity data into recs under
// records["buildInfo"]["git"], preserving any other buildInfo subtree
// already present (spec.md §4.2 expansion, C11: "merging rather than
// replacing any existing buildInfo subtree").
func MergeBuildInfo(recs map[string]any, git map[string]any) {
	if git == nil {
		return
	}
	bi, _ := recs["buildInfo"].(map[string]any)
	if bi == nil {
		bi = map[string]any{}
	}
	bi["git"] = git
	recs["buildInfo"] = bi
}
