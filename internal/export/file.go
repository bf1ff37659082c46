package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

// FileSink writes exports into a local directory.
type FileSink struct {
	dir string
}

// NewFileSink returns a sink writing under dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (f *FileSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write export %q: %w", path, err)
	}

	return path, nil
}
