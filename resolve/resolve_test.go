package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/ast"
	"sigil/core"
	"sigil/index"
	"sigil/names"
	"sigil/report"
	"sigil/resolve"
)

func intern(state *core.GlobalState, text string) names.NameRef {
	ns := state.UnfreezeNames()
	defer ns.Release()
	return state.Names.EnterUTF8([]byte(text))
}

func reserveFile(t *testing.T, state *core.GlobalState, path string) core.FileRef {
	t.Helper()
	s := state.UnfreezeFiles()
	defer s.Release()
	ref := state.Files.Reserve(path)
	state.Files.Get(ref).Source = []byte("x")
	return ref
}

func TestResolveIncrementalNamesAndDefaultsSuperclass(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)
	state := core.NewGlobalState()
	file := reserveFile(t, state, "./foo.rb")

	fooName := intern(state, "Foo")

	tree := &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{Scope: &ast.UnresolvedConstantLit{Name: fooName}},
		},
	}

	out := resolve.ResolveIncremental(state, []index.ParsedFile{{File: file, Tree: tree}})
	require.Len(t, out, 1)

	cd := out[0].Tree.(*ast.RootTree).Stmts[0].(*ast.ClassDef)
	require.NotEqual(t, core.NilSymbol, cd.Symbol)

	sym := state.Symbols.Get(cd.Symbol)
	require.Equal(t, state.ObjectClass, sym.Superclass)
}

func TestResolveIncrementalKeepsExplicitSuperclass(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)
	state := core.NewGlobalState()
	file := reserveFile(t, state, "./foo.rb")

	fooName := intern(state, "Foo")
	barName := intern(state, "Bar")

	tree := &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{
				Scope:      &ast.UnresolvedConstantLit{Name: barName},
				Superclass: &ast.UnresolvedConstantLit{Name: fooName},
			},
		},
	}

	out := resolve.ResolveIncremental(state, []index.ParsedFile{{File: file, Tree: tree}})
	cd := out[0].Tree.(*ast.RootTree).Stmts[0].(*ast.ClassDef)

	sym := state.Symbols.Get(cd.Symbol)
	require.NotEqual(t, state.ObjectClass, sym.Superclass)
	require.Equal(t, fooName, state.Symbols.Get(sym.Superclass).Name)
}

func TestResolveIncrementalDoesNotDefaultModuleSuperclass(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)
	state := core.NewGlobalState()
	file := reserveFile(t, state, "./m.rb")

	mName := intern(state, "M")

	tree := &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{IsModule: true, Scope: &ast.UnresolvedConstantLit{Name: mName}},
		},
	}

	out := resolve.ResolveIncremental(state, []index.ParsedFile{{File: file, Tree: tree}})
	cd := out[0].Tree.(*ast.RootTree).Stmts[0].(*ast.ClassDef)

	sym := state.Symbols.Get(cd.Symbol)
	require.Equal(t, core.NilSymbol, sym.Superclass)
}

func TestResolveIncrementalDefaultsNestedClassSuperclass(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)
	state := core.NewGlobalState()
	file := reserveFile(t, state, "./nested.rb")

	outerName := intern(state, "Outer")
	innerName := intern(state, "Inner")

	tree := &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{
				Scope: &ast.UnresolvedConstantLit{Name: outerName},
				Body: []ast.Node{
					&ast.ClassDef{Scope: &ast.UnresolvedConstantLit{Name: innerName}},
				},
			},
		},
	}

	out := resolve.ResolveIncremental(state, []index.ParsedFile{{File: file, Tree: tree}})
	outer := out[0].Tree.(*ast.RootTree).Stmts[0].(*ast.ClassDef)
	inner := outer.Body[0].(*ast.ClassDef)

	require.Equal(t, state.ObjectClass, state.Symbols.Get(outer.Symbol).Superclass)
	require.Equal(t, state.ObjectClass, state.Symbols.Get(inner.Symbol).Superclass)
}

func TestResolveIncrementalIsolatesPanicPerFile(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)
	state := core.NewGlobalState()
	file := reserveFile(t, state, "./bad.rb")

	out := resolve.ResolveIncremental(state, []index.ParsedFile{{File: file, Tree: explodingNode{}}})
	require.Len(t, out, 1)

	found := false
	for _, d := range report.Diagnostics() {
		if d.Class == report.InternalErrorClass {
			found = true
		}
	}
	require.True(t, found)
}

type explodingNode struct{ ast.Base }
