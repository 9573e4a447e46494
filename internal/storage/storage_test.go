package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestSaveLoadJSON_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	type entry struct {
		Root     string   `json:"root"`
		Expanded []string `json:"expanded"`
	}
	original := entry{Root: "/src", Expanded: []string{"/src/a", "/src/a/b"}}

	if err := SaveJSON(path, original); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	var loaded entry
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded.Root != original.Root || len(loaded.Expanded) != 2 || loaded.Expanded[1] != "/src/a/b" {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, original)
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{not valid json}`), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		notExist bool
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json"), notExist: true},
		{name: "invalid json", path: invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var data map[string]any
			err := LoadJSON(tt.path, &data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, os.ErrNotExist); got != tt.notExist {
				t.Errorf("errors.Is(err, os.ErrNotExist) = %v, want %v", got, tt.notExist)
			}
		})
	}
}

func TestSaveJSON_CreatesDirectoryAndNoTempFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")

	if err := SaveJSON(path, map[string]int{"v": 1}); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	if err := SaveJSON(path, map[string]int{"v": 2}); err != nil {
		t.Fatalf("SaveJSON overwrite failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); err == nil {
		t.Error("temp file should not exist after successful save")
	}

	var loaded map[string]int
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded["v"] != 2 {
		t.Errorf("expected v=2, got v=%d", loaded["v"])
	}
}

func TestSaveJSON_MarshalError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := SaveJSON(path, make(chan int)); err == nil {
		t.Fatal("expected error for unmarshalable data, got nil")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("nothing should be written when marshalling fails")
	}
}

func TestDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if filepath.Base(dir) != ".ftree" {
		t.Errorf("Dir() = %q, want base dir .ftree", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Dir directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Dir path is not a directory")
	}
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	t.Parallel()

	lock := NewFileLock(filepath.Join(t.TempDir(), "never.lock"))
	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock() without Lock() should not error, got %v", err)
	}
}

func TestFileLock_LockUnlockTwice(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "test.lock")
	lock := NewFileLock(lockPath)

	for i := 0; i < 2; i++ {
		if err := lock.Lock(); err != nil {
			t.Fatalf("iteration %d: Lock() error = %v", i, err)
		}
		if _, err := os.Stat(lockPath); err != nil {
			t.Errorf("lock file should exist after locking: %v", err)
		}
		if err := lock.Unlock(); err != nil {
			t.Fatalf("iteration %d: Unlock() error = %v", i, err)
		}
		if err := lock.Unlock(); err != nil {
			t.Errorf("iteration %d: second Unlock() should be a no-op, got %v", i, err)
		}
	}
}

func TestWithLock_Serializes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "counter.json")
	if err := SaveJSON(path, 0); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(path, func() error {
				var n int
				if err := LoadJSON(path, &n); err != nil {
					return err
				}
				return SaveJSON(path, n+1)
			})
			if err != nil {
				t.Errorf("WithLock() error = %v", err)
			}
		}()
	}
	wg.Wait()

	var n int
	if err := LoadJSON(path, &n); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if n != workers {
		t.Errorf("counter = %d, want %d", n, workers)
	}
}

func TestWithLock_ReturnsCallbackError(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	err := WithLock(filepath.Join(t.TempDir(), "x.json"), func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("WithLock() error = %v, want %v", err, want)
	}
}
