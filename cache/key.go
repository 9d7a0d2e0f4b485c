// Package cache implements the content-addressed parse-tree cache: a
// key-value store keyed by file path and a hash of the file's source,
// holding serialized desugared trees.
package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key computes the cache key for a file: "<path>//<hex(hash(source))>".
// Hashing uses xxhash, a fast non-cryptographic content hash well suited to
// cache-key derivation.
func Key(path string, source []byte) string {
	return fmt.Sprintf("%s//%016x", path, xxhash.Sum64(source))
}
