package names_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/names"
)

func withUnfreeze(t *Table, f func()) {
	s := t.Unfreeze()
	defer s.Release()
	f()
}

type Table = names.Table

func TestEnterUTF8Idempotent(t *testing.T) {
	tbl := names.NewTable()
	var a, b names.NameRef
	withUnfreeze(tbl, func() {
		a = tbl.EnterUTF8([]byte("Foo"))
		b = tbl.EnterUTF8([]byte("Foo"))
	})
	require.Equal(t, a, b)
	require.Equal(t, "Foo", tbl.Text(a))
}

func TestEnterUTF8DistinctBytes(t *testing.T) {
	tbl := names.NewTable()
	var a, b names.NameRef
	withUnfreeze(tbl, func() {
		a = tbl.EnterUTF8([]byte("Foo"))
		b = tbl.EnterUTF8([]byte("Bar"))
	})
	require.NotEqual(t, a, b)
}

func TestFreshUniqueIdempotent(t *testing.T) {
	tbl := names.NewTable()
	var orig, a, b names.NameRef
	withUnfreeze(tbl, func() {
		orig = tbl.EnterUTF8([]byte("bar"))
		a = tbl.FreshUnique(names.UniquePositionalArg, orig, 1)
		b = tbl.FreshUnique(names.UniquePositionalArg, orig, 1)
	})
	require.Equal(t, a, b)

	var c names.NameRef
	withUnfreeze(tbl, func() {
		c = tbl.FreshUnique(names.UniquePositionalArg, orig, 2)
	})
	require.NotEqual(t, a, c)
}

func TestFreshUniquePanicsOnZeroNum(t *testing.T) {
	tbl := names.NewTable()
	require.Panics(t, func() {
		withUnfreeze(tbl, func() {
			orig := tbl.EnterUTF8([]byte("bar"))
			tbl.FreshUnique(names.UniqueNamer, orig, 0)
		})
	})
}

func TestOriginalIDLessThanSelf(t *testing.T) {
	tbl := names.NewTable()
	var orig, unique, cnst names.NameRef
	withUnfreeze(tbl, func() {
		orig = tbl.EnterUTF8([]byte("Foo"))
		unique = tbl.FreshUnique(names.UniqueMangleRename, orig, 1)
		cnst = tbl.EnterConstant(orig)
	})

	require.Less(t, orig, unique)
	require.Less(t, orig, cnst)
}

func TestEnterConstantRejectsNonMissingClassUnique(t *testing.T) {
	tbl := names.NewTable()
	require.Panics(t, func() {
		withUnfreeze(tbl, func() {
			orig := tbl.EnterUTF8([]byte("Foo"))
			unique := tbl.FreshUnique(names.UniqueNamer, orig, 1)
			tbl.EnterConstant(unique)
		})
	})
}

func TestEnterConstantAllowsResolverMissingClass(t *testing.T) {
	tbl := names.NewTable()
	require.NotPanics(t, func() {
		withUnfreeze(tbl, func() {
			orig := tbl.EnterUTF8([]byte("Foo"))
			missing := tbl.FreshUnique(names.UniqueResolverMissingClass, orig, 1)
			tbl.EnterConstant(missing)
		})
	})
}

func TestMutationRequiresUnfreezeScope(t *testing.T) {
	tbl := names.NewTable()
	require.Panics(t, func() {
		tbl.EnterUTF8([]byte("Foo"))
	})
}

func TestNestedUnfreezeScopesAreIdempotent(t *testing.T) {
	tbl := names.NewTable()
	outer := tbl.Unfreeze()
	inner := tbl.Unfreeze()
	inner.Release()

	// outer scope is still held: mutation must still succeed.
	require.NotPanics(t, func() {
		tbl.EnterUTF8([]byte("Foo"))
	})

	outer.Release()
	require.Panics(t, func() {
		tbl.EnterUTF8([]byte("Bar"))
	})
}

func TestDeepCopyPreservesTextAndOrder(t *testing.T) {
	src := names.NewTable()
	var fooUnique names.NameRef
	withUnfreeze(src, func() {
		foo := src.EnterUTF8([]byte("Foo"))
		fooUnique = src.FreshUnique(names.UniqueMangleRename, foo, 1)
		src.EnterConstant(foo)
	})

	dst := names.NewTable()
	src.DeepCopy(dst)

	require.Equal(t, src.Len(), dst.Len())
	require.Equal(t, src.Text(fooUnique), dst.Text(fooUnique))
}
