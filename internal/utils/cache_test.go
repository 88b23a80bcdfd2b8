package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileCache_InvalidatesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	if err := os.WriteFile(path, []byte("module a\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cache := NewFileCache[string]()
	if err := cache.Set(path, "a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok := cache.Get(path)
	if !ok || value != "a" {
		t.Fatalf("expected cached value 'a', got %q (found=%v)", value, ok)
	}

	later := time.Now().Add(2 * time.Second)
	if err := os.WriteFile(path, []byte("module example.com/b\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("failed to touch file: %v", err)
	}

	if _, ok := cache.Get(path); ok {
		t.Error("expected stale entry to be dropped")
	}
	if cache.Size() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Size())
	}
}

func TestFileCache_MissingFile(t *testing.T) {
	cache := NewFileCache[int]()
	missing := filepath.Join(t.TempDir(), "missing")

	if err := cache.Set(missing, 1); err == nil {
		t.Error("expected Set to fail for a missing file")
	}
	if _, ok := cache.Get(missing); ok {
		t.Error("expected no entry for a missing file")
	}
}

func TestFileCache_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	cache := NewFileCache[int]()

	for i, name := range []string{"a", "b", "c"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		if err := cache.Set(path, i); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	cache.Delete(filepath.Join(dir, "a"))
	if cache.Size() != 2 {
		t.Errorf("expected 2 entries after delete, got %d", cache.Size())
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", cache.Size())
	}
}

func TestFileCache_ConcurrentAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cache := NewFileCache[int]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = cache.Set(path, n)
			cache.Get(path)
		}(i)
	}
	wg.Wait()

	if cache.Size() != 1 {
		t.Errorf("expected a single entry, got %d", cache.Size())
	}
}
