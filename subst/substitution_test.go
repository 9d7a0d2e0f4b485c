package subst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/ast"
	"sigil/core"
	"sigil/names"
	"sigil/subst"
)

func TestBuildPreservesTextualForm(t *testing.T) {
	base := core.NewGlobalState()
	worker := base.DeepClone()

	var fooInWorker, barUnique names.NameRef
	ns := worker.UnfreezeNames()
	fooInWorker = worker.Names.EnterUTF8([]byte("Foo"))
	barInner := worker.Names.EnterUTF8([]byte("bar"))
	barUnique = worker.Names.FreshUnique(names.UniquePositionalArg, barInner, 1)
	ns.Release()

	tree := &ast.UnresolvedConstantLit{Name: fooInWorker}

	sub := subst.Build(worker, base)
	sub.Apply(tree)

	require.Equal(t, worker.Names.Text(fooInWorker), base.Names.Text(tree.Name))
	require.Equal(t, worker.Names.Text(barUnique), base.Names.Text(sub.Map(barUnique)))
}

func TestBuildIsIdentityBelowCommonAncestor(t *testing.T) {
	base := core.NewGlobalState()
	w1 := base.DeepClone()
	w2 := base.DeepClone()

	sub := subst.Build(w1, w2)

	require.Equal(t, w1.NameObject, sub.Map(w1.NameObject))
	require.Equal(t, w1.NameRoot, sub.Map(w1.NameRoot))
}

func TestDoubleApplyIsContractViolationInDebugMode(t *testing.T) {
	t.Setenv("SIGIL_DEBUG", "1")

	base := core.NewGlobalState()
	worker := base.DeepClone()

	ns := worker.UnfreezeNames()
	ref := worker.Names.EnterUTF8([]byte("Foo"))
	ns.Release()

	tree1 := &ast.UnresolvedConstantLit{Name: ref}
	tree2 := &ast.UnresolvedConstantLit{Name: ref}

	sub := subst.Build(worker, base)
	sub.Apply(tree1)

	require.Panics(t, func() {
		sub.Apply(tree2)
	})
}

func TestDoubleApplyToleratedInReleaseMode(t *testing.T) {
	t.Setenv("SIGIL_DEBUG", "")

	base := core.NewGlobalState()
	worker := base.DeepClone()

	ns := worker.UnfreezeNames()
	ref := worker.Names.EnterUTF8([]byte("Foo"))
	ns.Release()

	tree1 := &ast.UnresolvedConstantLit{Name: ref}
	tree2 := &ast.UnresolvedConstantLit{Name: ref}

	sub := subst.Build(worker, base)
	sub.Apply(tree1)

	require.NotPanics(t, func() {
		sub.Apply(tree2)
	})
}
