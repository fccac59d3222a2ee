package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vbonduro/drugbox/internal/source"
)

var ErrNotFound = errors.New("sheet file not found")

// FileSource reads a CSV export from disk, for offline use and demos.
type FileSource struct {
	path     string
	maxBytes int64
}

func NewFileSource(path string, maxBytes int64) *FileSource {
	if maxBytes <= 0 {
		maxBytes = source.DefaultMaxBytes
	}
	return &FileSource{path: path, maxBytes: maxBytes}
}

func (s *FileSource) Location() string {
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("sheet file %s exceeds %d bytes", s.path, s.maxBytes)
	}
	return data, nil
}
