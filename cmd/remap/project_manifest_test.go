package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "remap.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[program]
script = "transform.rmp"

[pipeline]
format = "msgpack"
batch = 64
jobs = 2
rejects = "rejects.mp"
`)

	m, found, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("manifest not found")
	}
	if got := m.ScriptPath(); got != filepath.Join(dir, "transform.rmp") {
		t.Fatalf("script path %q", got)
	}
	p := m.Config.Pipeline
	if p.Format != "msgpack" || p.Batch != 64 || p.Jobs != 2 || p.Rejects != "rejects.mp" {
		t.Fatalf("pipeline config %+v", p)
	}
}

func TestLoadProjectManifestFindsParent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[program]\nscript = \"t.rmp\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, found, err := loadProjectManifest(nested)
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if m.Root != dir {
		t.Fatalf("root %q, want %q", m.Root, dir)
	}
}

func TestLoadProjectManifestMissingScript(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[program]\n")

	_, found, err := loadProjectManifest(dir)
	if !found {
		t.Fatal("manifest should be found")
	}
	if err == nil {
		t.Fatal("expected an error for the missing script key")
	}
}

func TestLoadProjectManifestAbsent(t *testing.T) {
	// An empty temp dir has no remap.toml anywhere up to the root,
	// unless the test environment itself carries one.
	dir := t.TempDir()
	_, found, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Skip("a remap.toml exists above the temp dir")
	}
}
