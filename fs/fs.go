// Package fs is the file-system collaborator: readFile(path) -> bytes |
// NotFound.
package fs

import (
	"errors"
	"os"
)

// FileNotFound is the sentinel a caller checks with errors.Is when a source
// file is missing; a missing file should surface as an empty source plus a
// FileNotFound diagnostic rather than aborting the pipeline.
var FileNotFound = errors.New("fs: file not found")

// Read returns a file's contents, wrapping os.ErrNotExist as FileNotFound.
func Read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, FileNotFound
		}
		return nil, err
	}
	return b, nil
}
