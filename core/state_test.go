package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/core"
)

func TestNewGlobalStateHasWellKnowns(t *testing.T) {
	g := core.NewGlobalState()

	require.NotEqual(t, core.NilSymbol, g.RootClass)
	require.NotEqual(t, core.NilSymbol, g.ObjectClass)
	require.Equal(t, "Object", g.Names.Text(g.NameObject))

	root := g.Symbols.Get(g.RootClass)
	require.Equal(t, core.KindClass, root.Kind)
}

func TestWellKnownsIdenticalAcrossStates(t *testing.T) {
	g1 := core.NewGlobalState()
	g2 := core.NewGlobalState()

	require.Equal(t, g1.RootClass, g2.RootClass)
	require.Equal(t, g1.ObjectClass, g2.ObjectClass)
	require.Equal(t, g1.NameObject, g2.NameObject)
}

func TestDeepCloneIsIndependent(t *testing.T) {
	base := core.NewGlobalState()
	clone := base.DeepClone()

	scope := clone.UnfreezeNames()
	ref := clone.Names.EnterUTF8([]byte("OnlyInClone"))
	scope.Release()

	require.Equal(t, "OnlyInClone", clone.Names.Text(ref))
	require.Panics(t, func() {
		base.Names.Get(ref)
	})
}

func TestDeepCloneRecordsAncestry(t *testing.T) {
	base := core.NewGlobalState()
	clone := base.DeepClone()

	require.Len(t, clone.CloneHistory, 1)
	require.Equal(t, base.ID, clone.CloneHistory[0].ParentID)
	require.Equal(t, base.LastNameKnown(), clone.CloneHistory[0].LastNameKnownByParent)
}

func TestSingletonClassIsLazyAndStable(t *testing.T) {
	g := core.NewGlobalState()
	scope := g.UnfreezeSymbols()
	defer scope.Release()

	sc1 := g.Symbols.SingletonClassOf(g.ObjectClass)
	sc2 := g.Symbols.SingletonClassOf(g.ObjectClass)

	require.Equal(t, sc1, sc2)
	require.Equal(t, g.ObjectClass, g.Symbols.Get(sc1).SingletonOf)
}

func TestSymbolTableRequiresUnfreezeScope(t *testing.T) {
	g := core.NewGlobalState()
	require.Panics(t, func() {
		g.Symbols.New(core.Symbol{Name: g.NameObject, Kind: core.KindClass})
	})
}

func TestFileTableReserveIsIdempotent(t *testing.T) {
	g := core.NewGlobalState()
	scope := g.UnfreezeFiles()
	defer scope.Release()

	a := g.Files.Reserve("./foo.rb")
	b := g.Files.Reserve("./foo.rb")
	require.Equal(t, a, b)
}
