package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLocal(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadLocal_Missing(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil {
		t.Fatalf("LoadLocal() error = %v", err)
	}
	if local != nil {
		t.Errorf("LoadLocal() = %+v, want nil", local)
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	dir := writeLocal(t, "[tree]\nmax_depth = -1\n")
	_, err := LoadLocal(dir)
	if err == nil {
		t.Fatal("LoadLocal() expected error")
	}
	if !strings.Contains(err.Error(), LocalConfigFileName) {
		t.Errorf("error = %q, want to name the local file", err)
	}
}

func TestMergeLocal(t *testing.T) {
	t.Parallel()

	global := Default()
	global.Tree.DirsFirst = true
	global.Theme.Name = "nord"

	dir := writeLocal(t, "[tree]\nshow_hidden = true\nmax_depth = 2\n")
	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal() error = %v", err)
	}

	merged := MergeLocal(&global, local)
	if !merged.Tree.ShowHidden || merged.Tree.MaxDepth != 2 {
		t.Errorf("local values not applied: %+v", merged.Tree)
	}
	if !merged.Tree.DirsFirst || merged.Theme.Name != "nord" {
		t.Errorf("global values lost: %+v", merged)
	}
	if global.Tree.ShowHidden || global.Tree.MaxDepth != 0 {
		t.Error("MergeLocal must not mutate the global config")
	}

	if MergeLocal(&global, nil) != &global {
		t.Error("MergeLocal with nil local should return global")
	}
}
