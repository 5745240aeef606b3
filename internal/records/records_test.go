package records

import (
	"testing"

	"github.com/buildforge/compiler/internal/vfs"
)

func TestRead_MissingPathYieldsEmpty(t *testing.T) {
	fs := vfs.NewMem()
	recs, err := Read(fs, "/records.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty records, got %v", recs)
	}
}

func TestRead_UnsetPathYieldsEmpty(t *testing.T) {
	fs := vfs.NewMem()
	recs, err := Read(fs, "")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty records, got %v", recs)
	}
}

func TestRead_ParseErrorWraps(t *testing.T) {
	fs := vfs.NewMem()
	if err := fs.WriteFile("/records.json", []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Read(fs, "/records.json")
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWriteThenRead_RoundTripsAndSortsKeys(t *testing.T) {
	fs := vfs.NewMem()
	recs := map[string]any{
		"z": float64(1),
		"a": map[string]any{"c": float64(3), "b": float64(2)},
	}
	if err := Write(fs, "/out/records.json", recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := fs.ReadFile("/out/records.json")
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if got, want := string(data[:10]), `{
  "a": {`; got != want {
		t.Fatalf("expected sorted keys at top, got %q", data)
	}
	reloaded, err := Read(fs, "/out/records.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	a, ok := reloaded["a"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", reloaded["a"])
	}
	if a["b"] != float64(2) || a["c"] != float64(3) {
		t.Fatalf("nested values = %v", a)
	}
}

func TestWrite_UnsetPathIsNoop(t *testing.T) {
	fs := vfs.NewMem()
	if err := Write(fs, "", map[string]any{"a": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestMergeBuildInfo_PreservesExistingSubtree(t *testing.T) {
	recs := map[string]any{
		"buildInfo": map[string]any{"custom": "value"},
	}
	MergeBuildInfo(recs, map[string]any{"commit": "abc123"})
	bi, ok := recs["buildInfo"].(map[string]any)
	if !ok {
		t.Fatalf("expected buildInfo map, got %T", recs["buildInfo"])
	}
	if bi["custom"] != "value" {
		t.Fatalf("expected custom preserved, got %v", bi)
	}
	git, ok := bi["git"].(map[string]any)
	if !ok || git["commit"] != "abc123" {
		t.Fatalf("expected git subtree set, got %v", bi["git"])
	}
}
