// Package artifacts writes exported reports to their destination
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Sink stores an artifact and returns where it was written
type Sink interface {
	Put(ctx context.Context, artifact *domain.Artifact) (string, error)
}

type dirSink struct {
	dir string
}

func NewDirSink(dir string) (Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &dirSink{dir: dir}, nil
}

func (s *dirSink) Put(ctx context.Context, artifact *domain.Artifact) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(artifact.FileName))
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("bytes", len(artifact.Data)).
		Msg("report exported")
	return path, nil
}
