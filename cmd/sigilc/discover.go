package main

import (
	"os"
	"path/filepath"
	"sort"
)

// sourceExtensions lists the file suffixes discoverFiles treats as source
// files worth indexing. ".rbi" files are discovered the same way as ".rb"
// files; nothing marks them core.FileRBI, so every discovered file keeps the
// default FileNormal type.
var sourceExtensions = map[string]bool{
	".rb":  true,
	".rbi": true,
}

// discoverFiles walks root collecting source file paths, generalized from a
// single directory to a recursive tree since there is no package-boundary
// concept of its own here. A single file root is returned as its own
// one-element list.
func discoverFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if sourceExtensions[filepath.Ext(path)] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
