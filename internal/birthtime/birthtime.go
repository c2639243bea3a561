// Package birthtime reads file creation (birth) times from filesystem metadata.
//
// Go's os.FileInfo exposes only the modification time, so each platform reads
// the birth time from its native stat structure. Platforms or filesystems that
// do not record one return an error wrapping ErrUnsupported.
package birthtime

import (
	"errors"
	"time"
)

// ErrUnsupported is returned when the platform or filesystem does not record
// a creation time for the file.
var ErrUnsupported = errors.New("creation time not available on this platform or filesystem")

// Reader reads creation times from the local filesystem.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// CreationTime returns the creation time of the file at path.
// Symlinks are followed.
func (r *Reader) CreationTime(path string) (time.Time, error) {
	return creationTime(path)
}
