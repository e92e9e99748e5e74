package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmitsSettledXMLFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New(50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	paths, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, ".partial.xml"), []byte("<x/>"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "report.xml"), []byte("<INProfileResponse/>"), 0o644)
	}()

	select {
	case path := <-paths:
		if filepath.Base(path) != "report.xml" {
			t.Fatalf("unexpected path %s", path)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for settled file")
	}
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	w, err := New(0, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	paths, err := w.Watch(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	cancel()

	select {
	case _, ok := <-paths:
		if ok {
			t.Fatal("expected channel to close without events")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(0, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if _, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSettled(t *testing.T) {
	now := time.Date(2024, 10, 21, 12, 0, 0, 0, time.UTC)
	pending := map[string]time.Time{
		"b.xml": now.Add(-time.Second),
		"a.xml": now.Add(-2 * time.Second),
		"c.xml": now.Add(-100 * time.Millisecond),
	}
	got := settled(pending, now, 500*time.Millisecond)
	if len(got) != 2 || got[0] != "a.xml" || got[1] != "b.xml" {
		t.Fatalf("unexpected settled paths %v", got)
	}
}

func TestIsReportFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/report.xml", true},
		{"/in/REPORT.XML", true},
		{"/in/.report.xml", false},
		{"/in/report.xml.tmp", false},
		{"/in/report.json", false},
	}
	for _, tc := range tests {
		if got := isReportFile(tc.path); got != tc.want {
			t.Errorf("isReportFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
