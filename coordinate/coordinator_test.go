package coordinate_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/ast"
	"sigil/config"
	"sigil/coordinate"
	"sigil/core"
	"sigil/index"
)

type classParser struct{}

func (classParser) Parse(state *core.GlobalState, file core.FileRef, source []byte) (ast.Node, error) {
	ns := state.UnfreezeNames()
	name := state.Names.EnterUTF8(source) // class name == source bytes, by test convention
	ns.Release()
	return &ast.RootTree{
		Stmts: []ast.Node{
			&ast.ClassDef{Scope: &ast.UnresolvedConstantLit{Name: name}},
		},
	}, nil
}

func writeFiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%d.rb", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("C%d", i)), 0o644))
		paths[i] = path
	}
	return paths
}

func newCoordinator(workers int) *coordinate.Coordinator {
	ix := index.New()
	ix.Parser = classParser{}
	c := coordinate.New(ix, config.Default())
	c.Workers = workers
	return c
}

func TestRunInlineForFewFiles(t *testing.T) {
	paths := writeFiles(t, 2)
	base := core.NewGlobalState()

	out := newCoordinator(4).Run(base, paths)
	require.Len(t, out, 2)
	require.True(t, out[0].File < out[1].File)
}

func TestRunParallelMergesNamesConsistently(t *testing.T) {
	paths := writeFiles(t, 8)
	base := core.NewGlobalState()

	out := newCoordinator(4).Run(base, paths)
	require.Len(t, out, 8)

	for i, pf := range out {
		root, ok := pf.Tree.(*ast.RootTree)
		require.True(t, ok)
		cd := root.Stmts[0].(*ast.ClassDef)
		lit := cd.Scope.(*ast.UnresolvedConstantLit)
		require.Equal(t, fmt.Sprintf("C%d", i), base.Names.Text(lit.Name))
	}
}

func TestRunIsOrderIndependentAcrossWorkerCounts(t *testing.T) {
	paths := writeFiles(t, 10)

	base1 := core.NewGlobalState()
	out1 := newCoordinator(2).Run(base1, paths)

	base2 := core.NewGlobalState()
	out2 := newCoordinator(5).Run(base2, paths)

	require.Len(t, out1, len(out2))
	for i := range out1 {
		r1 := out1[i].Tree.(*ast.RootTree)
		r2 := out2[i].Tree.(*ast.RootTree)
		lit1 := r1.Stmts[0].(*ast.ClassDef).Scope.(*ast.UnresolvedConstantLit)
		lit2 := r2.Stmts[0].(*ast.ClassDef).Scope.(*ast.UnresolvedConstantLit)
		require.Equal(t, base1.Names.Text(lit1.Name), base2.Names.Text(lit2.Name))
	}
}
