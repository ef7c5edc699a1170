// Package snapshot publishes rendered dependency plans (JSON or DOT) to
// files or object storage so other tooling can pick them up.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Destination is a place a rendered plan can be written to.
type Destination interface {
	// Write stores data, replacing any previous snapshot.
	Write(ctx context.Context, data []byte) error
	// String names the destination in logs.
	String() string
}

// ContentType returns the media type for a snapshot file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dot", ".gv":
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

// FileDestination writes snapshots to a local file.
type FileDestination struct {
	path string
}

// NewFileDestination creates a destination writing to path.
func NewFileDestination(path string) *FileDestination {
	return &FileDestination{path: path}
}

func (d *FileDestination) String() string { return d.path }

// Write replaces the file atomically, creating parent directories as needed.
func (d *FileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("rename to %s: %w", d.path, err)
	}
	return nil
}

// Publish writes data to every destination. All destinations are attempted;
// failures are logged and returned joined.
func Publish(ctx context.Context, data []byte, dests []Destination, logger *slog.Logger) error {
	var errs []error
	for _, dest := range dests {
		if err := dest.Write(ctx, data); err != nil {
			logger.Error("snapshot write failed", "destination", dest.String(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
			continue
		}
		logger.Info("snapshot written", "destination", dest.String(), "bytes", len(data))
	}
	return errors.Join(errs...)
}
