package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Debounce = 50 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.yaml")
	if err := os.WriteFile(path, []byte("cycle:\n  timeMultiplier: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	w := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("cycle:\n  timeMultiplier: 4\n"), 0644); err != nil {
		t.Fatalf("failed to update config: %v", err)
	}

	select {
	case r := <-w.Changes:
		if r.Err != nil {
			t.Fatalf("reload error: %v", r.Err)
		}
		if r.Config.Cycle.TimeMultiplier != 4 {
			t.Errorf("expected multiplier 4, got %v", r.Config.Cycle.TimeMultiplier)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.yaml")
	if err := os.WriteFile(path, []byte("canvas:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	w := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("performance:\n  mode: ultra\n"), 0644); err != nil {
		t.Fatalf("failed to update config: %v", err)
	}

	select {
	case r := <-w.Changes:
		if r.Err == nil {
			t.Error("expected validation error")
		}
		if r.Config != nil {
			t.Error("config should be nil on error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	w := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}

	select {
	case r := <-w.Changes:
		t.Errorf("unexpected reload: %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatcher_StartFailureReleasesWatcher 测试目录不存在时启动失败，且 Stop 不会阻塞
func TestWatcher_StartFailureReleasesWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sky.yaml")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected Start to fail for a missing directory")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
	if _, ok := <-w.Changes; ok {
		t.Error("Changes should be closed after Stop")
	}
}
