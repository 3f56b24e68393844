package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "site"

[build]
basedir = "templates"
pretty = true
doctype = "html"
`)

	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Package.Name != "site" {
		t.Errorf("package name = %q, want %q", cfg.Package.Name, "site")
	}
	if cfg.Build.Basedir != "templates" {
		t.Errorf("basedir = %q, want %q", cfg.Build.Basedir, "templates")
	}
	if !cfg.Build.Pretty {
		t.Error("pretty = false, want true")
	}
	if cfg.Build.Doctype != "html" {
		t.Errorf("doctype = %q, want %q", cfg.Build.Doctype, "html")
	}
}

func TestLoadProjectConfigMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\n")

	if _, err := loadProjectConfig(path); err == nil {
		t.Fatal("expected error for missing [package].name")
	}
}

func TestFindPlumeTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"site\"\n")
	nested := filepath.Join(root, "pages", "blog")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, ok, err := findPlumeToml(nested)
	if err != nil {
		t.Fatalf("findPlumeToml: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if want := filepath.Join(root, manifestName); found != want {
		t.Errorf("found %q, want %q", found, want)
	}
}

func TestResolveAgainstRoot(t *testing.T) {
	m := &projectManifest{Root: filepath.FromSlash("/proj")}
	if got := m.resolveAgainstRoot("templates"); got != filepath.FromSlash("/proj/templates") {
		t.Errorf("relative path resolved to %q", got)
	}
	abs := filepath.FromSlash("/elsewhere/tpl")
	if got := m.resolveAgainstRoot(abs); got != abs {
		t.Errorf("absolute path rewritten to %q", got)
	}
	if got := m.resolveAgainstRoot(""); got != "" {
		t.Errorf("empty path rewritten to %q", got)
	}
}

func TestLoadDataFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.toml")
	content := []byte(`
title = "Home"
count = 3
ratio = 0.5
live = true
items = ["a", "b"]
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}

	lookup, raw, err := loadDataFile(path)
	if err != nil {
		t.Fatalf("loadDataFile: %v", err)
	}
	if !bytes.Equal(raw, content) {
		t.Error("fingerprint does not match the raw file bytes")
	}
	want := map[string]string{
		"title": "Home",
		"count": "3",
		"ratio": "0.5",
		"live":  "true",
	}
	for key, wantVal := range want {
		got, ok := lookup.Resolve(key)
		if !ok || got != wantVal {
			t.Errorf("Resolve(%q) = %q, %v, want %q", key, got, ok, wantVal)
		}
	}
	items, ok := lookup.Items("items")
	if !ok || len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Errorf("Items(items) = %v, %v", items, ok)
	}
}

func TestLoadDataFileRejectsTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.toml")
	if err := os.WriteFile(path, []byte("[nested]\nx = 1\n"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}

	if _, _, err := loadDataFile(path); err == nil {
		t.Fatal("expected error for nested table")
	}
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		out    string
		single bool
		want   string
	}{
		{"next to source", "pages/index.plume", "", false, "pages/index.html"},
		{"out directory", "pages/index.plume", "dist", false, filepath.FromSlash("dist/index.html")},
		{"single named output", "index.plume", "build/home.html", true, "build/home.html"},
		{"named output ignored for batch", "index.plume", "dist", false, filepath.FromSlash("dist/index.html")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPathFor(tt.src, tt.out, tt.single); got != tt.want {
				t.Errorf("outputPathFor(%q, %q, %v) = %q, want %q", tt.src, tt.out, tt.single, got, tt.want)
			}
		})
	}
}
