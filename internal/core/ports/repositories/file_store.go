package repositories

import (
	"context"
	"io"
)

// FileStore abstracts the blob storage that document bytes live in. The
// core only tracks metadata; stored filenames are opaque keys.
type FileStore interface {
	// Save writes the file contents under the given stored filename.
	Save(ctx context.Context, storedFilename string, contents io.Reader) error

	// Open returns a reader over a stored file.
	Open(ctx context.Context, storedFilename string) (io.ReadCloser, error)

	// Remove deletes a stored file. Removing a missing file is not an error.
	Remove(ctx context.Context, storedFilename string) error
}
