package cache_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/ast"
	"sigil/cache"
	"sigil/core"
	"sigil/names"
)

func sampleTree() ast.Node {
	return &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{
				Scope: &ast.UnresolvedConstantLit{Name: names.NameRef(7)},
				Body: []ast.Node{
					&ast.MethodDef{
						Name: names.NameRef(9),
						Params: []ast.Node{
							&ast.Local{Name: names.NameRef(11)},
							&ast.OptionalArg{
								Inner:   &ast.Local{Name: names.NameRef(12)},
								Default: &ast.Literal{Kind: ast.LitInt, Int: 42},
							},
						},
						Body: &ast.Send{
							Method: names.NameRef(13),
							Args:   []ast.Node{&ast.Self{}},
						},
					},
				},
			},
		},
	}
}

func TestKeyDependsOnPathAndContent(t *testing.T) {
	k1 := cache.Key("a.rb", []byte("x = 1"))
	k2 := cache.Key("a.rb", []byte("x = 2"))
	k3 := cache.Key("b.rb", []byte("x = 1"))

	require.NotEqual(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.Equal(t, k1, cache.Key("a.rb", []byte("x = 1")))
}

func TestEncodeDecodeRoundTripsStructurally(t *testing.T) {
	tree := sampleTree()

	data, err := cache.EncodeTree(core.FileRef(3), tree)
	require.NoError(t, err)

	got, ok := cache.DecodeTree(data, core.FileRef(3))
	require.True(t, ok)
	require.Equal(t, tree, got)
}

func TestDecodeRejectsMismatchedFile(t *testing.T) {
	tree := sampleTree()

	data, err := cache.EncodeTree(core.FileRef(3), tree)
	require.NoError(t, err)

	_, ok := cache.DecodeTree(data, core.FileRef(4))
	require.False(t, ok)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, ok := cache.DecodeTree([]byte("not a gob stream"), core.FileRef(1))
	require.False(t, ok)
}

func TestMemStoreRoundTrip(t *testing.T) {
	store := cache.NewMemStore()
	key := cache.Key("a.rb", []byte("x = 1"))

	_, ok := store.Read(key)
	require.False(t, ok)

	data, err := cache.EncodeTree(core.FileRef(1), sampleTree())
	require.NoError(t, err)
	store.Write(key, data)

	got, ok := store.Read(key)
	require.True(t, ok)

	tree, ok := cache.DecodeTree(got, core.FileRef(1))
	require.True(t, ok)
	require.Equal(t, sampleTree(), tree)
}

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := cache.NewDiskStore(dir)
	key := cache.Key("a.rb", []byte("x = 1"))

	_, ok := store.Read(key)
	require.False(t, ok)

	data, err := cache.EncodeTree(core.FileRef(2), sampleTree())
	require.NoError(t, err)
	store.Write(key, data)

	got, ok := store.Read(key)
	require.True(t, ok)

	tree, ok := cache.DecodeTree(got, core.FileRef(2))
	require.True(t, ok)
	require.Equal(t, sampleTree(), tree)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDiskStoreMissingKey(t *testing.T) {
	store := cache.NewDiskStore(t.TempDir())
	_, ok := store.Read("no-such-key")
	require.False(t, ok)
}
