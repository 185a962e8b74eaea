package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// MaxFileSize bounds ReadFileWithLimit. Ignore files, settings and the
// state file are all far smaller.
const MaxFileSize = 1 << 20

// ErrFileTooLarge is returned for files over MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads all of path, refusing files over MaxFileSize.
// A missing file still satisfies errors.Is(err, os.ErrNotExist).
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Read one byte past the limit so growth after Stat is caught too.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
