package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"plume/internal/driver"
)

func newTestCache(t *testing.T) *driver.DiskCache {
	t.Helper()
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return cache
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	key := driver.CacheKey("/site/index.plume", driver.Options{Pretty: true}, nil)

	in := &driver.DiskPayload{
		Schema:     1,
		HTML:       "<p>cached</p>",
		FilePaths:  []string{"/site/index.plume"},
		FileHashes: []driver.Digest{{1, 2, 3}},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out driver.DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if out.HTML != in.HTML || len(out.FilePaths) != 1 || out.FileHashes[0] != in.FileHashes[0] {
		t.Errorf("payload mismatch: %+v", out)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	var out driver.DiskPayload
	hit, err := cache.Get(driver.CacheKey("nope", driver.Options{}, nil), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected clean miss")
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	base := driver.CacheKey("/a.plume", driver.Options{}, nil)

	if driver.CacheKey("/b.plume", driver.Options{}, nil) == base {
		t.Error("key ignores entry path")
	}
	if driver.CacheKey("/a.plume", driver.Options{Pretty: true}, nil) == base {
		t.Error("key ignores pretty flag")
	}
	if driver.CacheKey("/a.plume", driver.Options{Doctype: "strict"}, nil) == base {
		t.Error("key ignores doctype")
	}
	if driver.CacheKey("/a.plume", driver.Options{}, []byte("data")) == base {
		t.Error("key ignores data fingerprint")
	}
	if driver.CacheKey("/a.plume", driver.Options{}, nil) != base {
		t.Error("key is not deterministic")
	}
}

func TestCompileCachedInvalidatesOnEdit(t *testing.T) {
	cache := newTestCache(t)
	dir := t.TempDir()
	entry := filepath.Join(dir, "index.plume")
	if err := os.WriteFile(entry, []byte("p one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	first := driver.CompileCached(cache, entry, driver.Options{}, nil)
	if !first.Ok || first.HTML != "<p>one</p>" {
		t.Fatalf("first = %+v", first)
	}

	// unchanged input: served from cache
	again := driver.CompileCached(cache, entry, driver.Options{}, nil)
	if !again.Ok || again.HTML != first.HTML {
		t.Fatalf("again = %+v", again)
	}

	if err := os.WriteFile(entry, []byte("p two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	edited := driver.CompileCached(cache, entry, driver.Options{}, nil)
	if !edited.Ok || edited.HTML != "<p>two</p>" {
		t.Fatalf("edited = %+v, want <p>two</p>", edited)
	}
}

func TestCompileCachedFailureNotCached(t *testing.T) {
	cache := newTestCache(t)
	dir := t.TempDir()
	entry := filepath.Join(dir, "bad.plume")
	if err := os.WriteFile(entry, []byte("include missing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := driver.CompileCached(cache, entry, driver.Options{}, nil)
	if res.Ok {
		t.Fatal("expected failure")
	}

	var out driver.DiskPayload
	hit, err := cache.Get(driver.CacheKey(entry, driver.Options{}, nil), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("failed compile must not be cached")
	}
}

func TestDropAllResetsCache(t *testing.T) {
	cache := newTestCache(t)
	key := driver.CacheKey("/x.plume", driver.Options{}, nil)
	if err := cache.Put(key, &driver.DiskPayload{Schema: 1, HTML: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}

	var out driver.DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("Get after DropAll: %v", err)
	}
	if hit {
		t.Error("entry survived DropAll")
	}
}
