package compilation

import (
	"testing"

	"github.com/buildforge/compiler/internal/contract"
)

func TestFake_SeedAndGetAssets(t *testing.T) {
	f := New("main")
	f.SeedAsset("a.js", &contract.BufferSource{Buf: []byte("x")}, contract.AssetInfo{Immutable: true})
	assets := f.GetAssets()
	if len(assets) != 1 || assets[0].Name != "a.js" {
		t.Fatalf("assets = %v", assets)
	}
}

func TestFake_MarkEmittedTracked(t *testing.T) {
	f := New("main")
	f.MarkEmitted("a.js")
	f.MarkEmitted("b.js")
	emitted := f.EmittedAssets()
	if len(emitted) != 2 {
		t.Fatalf("emitted = %v", emitted)
	}
}

func TestFake_SeedAdditionalPasses(t *testing.T) {
	f := New("main")
	f.SeedAdditionalPasses(1)
	if !f.NeedAdditionalPass() {
		t.Fatalf("expected true on first call")
	}
	if f.NeedAdditionalPass() {
		t.Fatalf("expected false after passes exhausted")
	}
}

func TestFake_GetPath_SubstitutesTemplate(t *testing.T) {
	f := New("main")
	got := f.GetPath("bundle.[hash].js", map[string]string{"hash": "abc123"})
	if got != "bundle.abc123.js" {
		t.Fatalf("got = %q", got)
	}
}

func TestFake_AddBuildDependency(t *testing.T) {
	f := New("main")
	f.AddBuildDependency("src/a.go")
	f.AddBuildDependency("src/b.go")
	deps := f.BuildDependencies()
	if len(deps) != 2 {
		t.Fatalf("deps = %v", deps)
	}
}
