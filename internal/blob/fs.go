package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps objects as plain files under a base directory. Keys map to
// relative paths; the month segment becomes a subdirectory.
type FSStore struct {
	base string
}

func NewFSStore(base string) (*FSStore, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) path(key string) (string, error) {
	// Keys come from Key(), but reject traversal anyway.
	if strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.base, filepath.FromSlash(key)), nil
}

func (s *FSStore) Put(ctx context.Context, key, mimeType string, size int64, r io.Reader) error {
	if size > MaxObjectSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	if !AllowedMIME(mimeType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedMIME, mimeType)
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	// Guard the copy with the declared size plus one byte; a larger body
	// than declared is rejected, not truncated.
	n, err := io.Copy(f, io.LimitReader(r, size+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write object: %w", err)
	}
	if n > size {
		os.Remove(path)
		return fmt.Errorf("%w: body larger than declared size %d", ErrTooLarge, size)
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
