package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"sigil/ast"
	"sigil/core"
)

func init() {
	gob.Register(&ast.EmptyTree{})
	gob.Register(&ast.Self{})
	gob.Register(&ast.InsSeq{})
	gob.Register(&ast.RootTree{})
	gob.Register(&ast.Literal{})
	gob.Register(&ast.Hash{})
	gob.Register(&ast.Cast{})
	gob.Register(&ast.UnresolvedIdent{})
	gob.Register(&ast.Local{})
	gob.Register(&ast.OptionalArg{})
	gob.Register(&ast.UnresolvedConstantLit{})
	gob.Register(&ast.ConstantLit{})
	gob.Register(&ast.Field{})
	gob.Register(&ast.Block{})
	gob.Register(&ast.Send{})
	gob.Register(&ast.Assign{})
	gob.Register(&ast.ClassDef{})
	gob.Register(&ast.MethodDef{})
}

// CachedTree is the unit stored against a cache key: the desugared tree plus
// the file it was produced from, so a load can verify it is being handed
// back to the same file it was cached for.
type CachedTree struct {
	File core.FileRef
	Tree ast.Node
}

// EncodeTree serializes a CachedTree with gob. ast.Node's concrete types
// must all be registered (done in this package's init) since gob encodes
// interface values by registered name.
func EncodeTree(file core.FileRef, tree ast.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&CachedTree{File: file, Tree: tree}); err != nil {
		return nil, fmt.Errorf("cache: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTree deserializes a CachedTree and enforces that the decoded tree's
// file reference equals wantFile, returning ok=false if that check fails or
// decoding errors.
func DecodeTree(data []byte, wantFile core.FileRef) (ast.Node, bool) {
	var ct CachedTree
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ct); err != nil {
		return nil, false
	}
	if ct.File != wantFile {
		return nil, false
	}
	return ct.Tree, true
}
