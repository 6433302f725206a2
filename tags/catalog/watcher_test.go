package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"emberforge/core/tags"
)

func TestWatcherCloseWaitsForLoop(t *testing.T) {
	dir := t.TempDir()
	r, err := NewResolver(tags.BuiltIn())
	if err != nil {
		t.Fatalf("resolver failed: %v", err)
	}
	w, err := Watch(r, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, ok := <-w.Reloads; ok {
		t.Fatalf("Reloads still open after close")
	}
	if _, ok := <-w.Errors; ok {
		t.Fatalf("Errors still open after close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func TestWatcherReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "definitions.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	r, err := Load(tags.BuiltIn(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	w, err := Watch(r, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer w.Close()

	overlay := `[{"name": "shadow", "category": "damage_type", "defaultParams": {"damage_mult": 1.2}}]`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("rewrite catalog: %v", err)
	}

	select {
	case got := <-w.Reloads:
		if got != path {
			t.Fatalf("reload path = %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("reload failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
	if _, ok := r.Lookup("shadow"); !ok {
		t.Fatalf("overlay tag missing after reload")
	}
}
