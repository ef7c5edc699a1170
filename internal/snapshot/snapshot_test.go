package snapshot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "plan.json")
	dest := NewFileDestination(path)

	for _, data := range []string{`{"node_count":2}`, `{"node_count":3}`} {
		if err := dest.Write(context.Background(), []byte(data)); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != data {
			t.Errorf("content = %q, want %q", got, data)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestContentType(t *testing.T) {
	for name, want := range map[string]string{
		"plan.json":        "application/json",
		"releasy/plan.DOT": "text/vnd.graphviz",
		"graph.gv":         "text/vnd.graphviz",
		"releasy/plan":     "application/json",
	} {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}

// failingDestination always fails to write.
type failingDestination struct{}

func (failingDestination) Write(context.Context, []byte) error { return errors.New("bucket gone") }
func (failingDestination) String() string { return "broken" }

func TestPublish_AttemptsEveryDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dot")
	dests := []Destination{failingDestination{}, NewFileDestination(path)}

	err := Publish(context.Background(), []byte("digraph {}"), dests, discardLogger())
	if err == nil {
		t.Fatal("expected error from failing destination")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("file destination not written: %v", statErr)
	}
}

func TestNewS3Destination_RequiresBucket(t *testing.T) {
	if _, err := NewS3Destination(context.Background(), "", "plan.json", "us-east-1", ""); err == nil {
		t.Error("expected error without bucket")
	}
}
