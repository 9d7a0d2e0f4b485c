package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// DiskStore backs the parse-tree cache with a directory of flat files, one
// per key, named by a hash of the key (since keys embed a file path and may
// contain path separators) -- a plain-file-based store rather than a
// database, since this is a single flat key-value namespace.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

func (d *DiskStore) pathFor(key string) string {
	return filepath.Join(d.Dir, fmt.Sprintf("%016x.cache", xxhash.Sum64String(key)))
}

func (d *DiskStore) Read(key string) ([]byte, bool) {
	b, err := os.ReadFile(d.pathFor(key))
	if err != nil {
		return nil, false
	}
	return b, true
}

func (d *DiskStore) Write(key string, data []byte) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(d.pathFor(key), data, 0o644)
}
