package core

import "sigil/report"

// FileRef is an id into a FileTable.
type FileRef uint32

// NilFile is the zero FileRef.
const NilFile FileRef = 0

// FileType discriminates a file's role.
type FileType uint8

const (
	FileNormal FileType = iota
	FilePayload
	FileRBI
)

// StrictLevel is the strictness sigil/derived level of a file. Ordered so
// that clamping against force-min/max can use plain comparison; Ignore and
// Internal sit outside the clampable range.
type StrictLevel int

const (
	StrictIgnore StrictLevel = iota
	StrictInternal
	StrictFalse
	StrictTrue
	StrictStrict
	StrictStrong
)

// Clampable reports whether this level participates in force-min/force-max
// clamping; Ignore and Internal never do.
func (l StrictLevel) Clampable() bool {
	return l != StrictIgnore && l != StrictInternal
}

// File is one source file tracked by a GlobalState.
type File struct {
	AbsPath  string
	Source   []byte
	Type     FileType
	Lines    int

	// OriginalSigil is the strictness level literally written at the top of
	// the source, if any was present.
	OriginalSigil StrictLevel
	HasSigil      bool

	// StrictLevel is the derived strictness level after applying overrides,
	// sigil defaults, clamping, and autogen mode.
	StrictLevel StrictLevel

	// CachedParseTree is set when this file's tree was served from the
	// parse-tree cache, so the later indexing phases were skipped.
	CachedParseTree bool
}

// FileTable owns every File in a GlobalState.
type FileTable struct {
	files         []*File
	byPath        map[string]FileRef
	unfreezeDepth int
}

func NewFileTable() *FileTable {
	return &FileTable{files: make([]*File, 1), byPath: make(map[string]FileRef)}
}

func (ft *FileTable) Get(ref FileRef) *File {
	if ref == NilFile || int(ref) >= len(ft.files) {
		return nil
	}
	return ft.files[ref]
}

func (ft *FileTable) Len() int { return len(ft.files) }

func (ft *FileTable) Unfreeze() *FTUnfreezeScope {
	ft.unfreezeDepth++
	return &FTUnfreezeScope{ft: ft}
}

type FTUnfreezeScope struct{ ft *FileTable }

func (s *FTUnfreezeScope) Release() {
	if s == nil || s.ft == nil {
		return
	}
	s.ft.unfreezeDepth--
	s.ft = nil
}

func (ft *FileTable) requireUnfrozen() {
	if ft.unfreezeDepth <= 0 {
		report.Violate("core: mutation attempted on a frozen file table")
	}
}

// Reserve allocates a FileTable slot for path before its contents have been
// read. Re-reserving an already-known path returns the existing ref.
func (ft *FileTable) Reserve(path string) FileRef {
	ft.requireUnfrozen()
	if ref, ok := ft.byPath[path]; ok {
		return ref
	}
	ref := FileRef(len(ft.files))
	ft.files = append(ft.files, &File{AbsPath: path})
	ft.byPath[path] = ref
	return ref
}

// Lookup finds an already-reserved file by path.
func (ft *FileTable) Lookup(path string) (FileRef, bool) {
	ref, ok := ft.byPath[path]
	return ref, ok
}

// DeepCopy copies every file, in id order, into dst.
func (ft *FileTable) DeepCopy(dst *FileTable) {
	s := dst.Unfreeze()
	defer s.Release()

	for i := 1; i < len(ft.files); i++ {
		cp := *ft.files[i]
		dst.files = append(dst.files, &cp)
		dst.byPath[cp.AbsPath] = FileRef(i)
	}
}
