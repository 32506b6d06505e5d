package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
)

// LocalStore keeps document bytes on the local filesystem under a single
// base directory. Stored filenames are opaque keys generated by the
// document service, so no path traversal can come in from user input, but
// we verify anyway.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed and returns a store
// rooted at it.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document storage dir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Ensure LocalStore implements portsrepo.FileStore
var _ portsrepo.FileStore = (*LocalStore)(nil)

func (s *LocalStore) path(storedFilename string) (string, error) {
	cleaned := filepath.Base(filepath.Clean(storedFilename))
	if cleaned == "" || cleaned == "." || strings.ContainsAny(cleaned, `/\`) {
		return "", fmt.Errorf("invalid stored filename %q: %w", storedFilename, apperrors.ErrValidation)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *LocalStore) Save(ctx context.Context, storedFilename string, contents io.Reader) error {
	p, err := s.path(storedFilename)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", storedFilename, err)
	}
	if _, err := io.Copy(f, contents); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("failed to write file %s: %w", storedFilename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", storedFilename, err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, storedFilename string) (io.ReadCloser, error) {
	p, err := s.path(storedFilename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file %s: %w", storedFilename, err)
	}
	return f, nil
}

func (s *LocalStore) Remove(ctx context.Context, storedFilename string) error {
	p, err := s.path(storedFilename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", storedFilename, err)
	}
	return nil
}
