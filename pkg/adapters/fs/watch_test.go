package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_DebouncesMatchingChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, WatchConfig{Dir: dir, Pattern: "**/*.yaml", Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte("a: 1"), 0644)
	os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte("a: 2"), 0644)

	select {
	case e := <-events:
		if len(e.Paths) != 1 || e.Paths[0] != "pack.yaml" {
			t.Errorf("Expected [pack.yaml], got %v", e.Paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for change event")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			// A late event may still be delivered; the channel must close after it.
			<-events
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Events channel not closed after cancel")
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	if _, err := Watch(context.Background(), WatchConfig{Dir: t.TempDir(), Pattern: "[bad"}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}
