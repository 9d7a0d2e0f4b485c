// Package resolve implements the incremental resolve entry point:
// re-running naming and tree-level resolution over a small batch of parsed
// files against the existing canonical global state, without redoing
// whole-program work.
package resolve

import (
	"sigil/ast"
	"sigil/core"
	"sigil/index"
	"sigil/namer"
	"sigil/report"
)

// ResolveIncremental runs the namer over every tree in files, then a single
// tree-pass-only resolution pass over the resulting vector. Each file's
// naming is error-isolated; a panic during one file's naming downgrades to
// an InternalError diagnostic on that file and that file's tree is left as
// it stood before the panic.
func ResolveIncremental(state *core.GlobalState, files []index.ParsedFile) []index.ParsedFile {
	nm := namer.New()
	out := make([]index.ParsedFile, len(files))

	for i, pf := range files {
		out[i] = nameOne(state, nm, pf)
	}

	resolveLocal(state, out)

	return out
}

func nameOne(state *core.GlobalState, nm *namer.Namer, pf index.ParsedFile) (result index.ParsedFile) {
	result = pf
	defer report.CatchErrors(filePath(state, pf.File))

	ns := state.UnfreezeNames()
	ss := state.UnfreezeSymbols()
	defer ns.Release()
	defer ss.Release()

	result.Tree = nm.Name(state, pf.File, pf.Tree)
	return
}

// resolveLocal is the tree-pass-only resolver: the full resolver handles
// constants across the whole program and is out of scope for this core, but
// one local rewrite needs no cross-file information and belongs here --
// filling in the todo() superclass sentinel the namer leaves on an ordinary
// `class Foo` with no explicit superclass.
func resolveLocal(state *core.GlobalState, files []index.ParsedFile) {
	defer report.CatchErrors("")

	ss := state.UnfreezeSymbols()
	defer ss.Release()

	for _, pf := range files {
		resolveTree(state, pf.Tree)
	}
}

func resolveTree(state *core.GlobalState, node ast.Node) {
	switch n := node.(type) {
	case *ast.RootTree:
		for _, s := range n.Stmts {
			resolveTree(state, s)
		}
	case *ast.InsSeq:
		for _, s := range n.Stmts {
			resolveTree(state, s)
		}
	case *ast.ClassDef:
		resolveSuperclass(state, n)
		for _, s := range n.Body {
			resolveTree(state, s)
		}
	case *ast.MethodDef:
		resolveTree(state, n.Body)
	}
}

// resolveSuperclass fills in Object as the default superclass of a plain
// class whose namer pass left Superclass at its todo() sentinel. Modules,
// singleton classes, and BasicObject (the actual top of the hierarchy) are
// never defaulted this way.
func resolveSuperclass(state *core.GlobalState, cd *ast.ClassDef) {
	if cd.IsModule || cd.Symbol == core.NilSymbol || cd.Symbol == state.BasicObjectClass {
		return
	}

	s := state.Symbols.Get(cd.Symbol)
	if s == nil || s.Kind != core.KindClass || s.SingletonOf != core.NilSymbol {
		return
	}

	if s.Superclass == core.NilSymbol {
		s.Superclass = state.ObjectClass
	}
}

func filePath(state *core.GlobalState, file core.FileRef) string {
	f := state.Files.Get(file)
	if f == nil {
		return ""
	}
	return f.AbsPath
}
