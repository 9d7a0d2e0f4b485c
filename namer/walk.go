package namer

import (
	"sigil/ast"
	"sigil/core"
	"sigil/report"
)

// walk is the generic expression-position tree walk: it resolves constant
// references and global/class-variable identifiers wherever they appear,
// and recurses into class/method definitions reached outside an ordered
// class body. Class defs get preTransformClassDef and applyClassDefaults
// before their body is walked; no node kind has a post-transform.
func (nm *Namer) walk(state *core.GlobalState, file core.FileRef, node ast.Node, lexicalScope core.SymbolRef, inClassBody bool) ast.Node {
	switch n := node.(type) {
	case nil:
		return node

	case *ast.EmptyTree, *ast.Self, *ast.Literal, *ast.Local, *ast.ConstantLit, *ast.Field, *ast.Cast:
		return node

	case *ast.RootTree:
		nm.walkBody(state, file, n.Stmts, lexicalScope)
		return n

	case *ast.InsSeq:
		for i, s := range n.Stmts {
			n.Stmts[i] = nm.walk(state, file, s, lexicalScope, inClassBody)
		}
		return n

	case *ast.UnresolvedIdent:
		switch n.Kind {
		case ast.IdentGlobal:
			return nm.resolveGlobalIdent(state, n)
		case ast.IdentClassVar:
			return nm.resolveClassVarIdent(state, lexicalScope, n)
		default:
			report.Violate("namer: walk: local UnresolvedIdent reached the namer")
			return node
		}

	case *ast.UnresolvedConstantLit:
		var asNode ast.Node = n
		nm.squashNames(state, file, &asNode, lexicalScope)
		return asNode

	case *ast.Hash:
		for i := range n.Keys {
			n.Keys[i] = nm.walk(state, file, n.Keys[i], lexicalScope, false)
		}
		for i := range n.Values {
			n.Values[i] = nm.walk(state, file, n.Values[i], lexicalScope, false)
		}
		return n

	case *ast.Block:
		n.Body = nm.walk(state, file, n.Body, lexicalScope, false)
		return n

	case *ast.OptionalArg:
		if n.Default != nil {
			n.Default = nm.walk(state, file, n.Default, lexicalScope, false)
		}
		return n

	case *ast.Send:
		if n.Receiver != nil {
			n.Receiver = nm.walk(state, file, n.Receiver, lexicalScope, false)
		}
		for i := range n.Args {
			n.Args[i] = nm.walk(state, file, n.Args[i], lexicalScope, false)
		}
		if n.Block != nil && methodName(state, n.Method) != "sig" {
			nm.walk(state, file, n.Block, lexicalScope, false)
		}
		return n

	case *ast.Assign:
		nm.nameAssign(state, file, n, lexicalScope, inClassBody)
		return n

	case *ast.ClassDef:
		sym := nm.preTransformClassDef(state, file, n, lexicalScope)
		n.Symbol = sym
		nm.applyClassDefaults(state, file, n, sym)
		nm.walkBody(state, file, n.Body, sym)
		return n

	case *ast.MethodDef:
		nm.nameMethodDef(state, file, n, lexicalScope, 0)
		return n

	default:
		report.Violate("namer: walk: unhandled node kind")
		return node
	}
}

// walkBody is the single ordered pass over a class/module body (or the
// file-level top sequence, with lexicalScope == state.RootClass): it
// threads the running visibility default and module-function-active state
// across statements in source order. Module-function mode ends with the
// body that turned it on.
func (nm *Namer) walkBody(state *core.GlobalState, file core.FileRef, stmts []ast.Node, lexicalScope core.SymbolRef) {
	var currentVisibility core.Flags
	defer func() {
		if sym := state.Symbols.Get(lexicalScope); sym != nil {
			sym.Flags &^= core.FlagModuleFunctionActive
		}
	}()

	for i, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.ClassDef:
			sym := nm.preTransformClassDef(state, file, n, lexicalScope)
			n.Symbol = sym
			nm.applyClassDefaults(state, file, n, sym)
			nm.walkBody(state, file, n.Body, sym)

		case *ast.MethodDef:
			nm.nameMethodDef(state, file, n, lexicalScope, currentVisibility)

		case *ast.Assign:
			nm.nameAssign(state, file, n, lexicalScope, true)

		case *ast.Send:
			nm.dispatchClassBodySend(state, file, n, lexicalScope, &currentVisibility)

		default:
			stmts[i] = nm.walk(state, file, stmt, lexicalScope, false)
		}
	}
}

// dispatchClassBodySend recognizes the DSL sends meaningful at class-body
// level and falls back to generic expression resolution for anything else.
// A bare `sig { ... }` send is recognized and its block skipped rather than
// walked as an ordinary call.
func (nm *Namer) dispatchClassBodySend(state *core.GlobalState, file core.FileRef, send *ast.Send, lexicalScope core.SymbolRef, currentVisibility *core.Flags) {
	switch methodName(state, send.Method) {
	case "include":
		s := state.Symbols.Get(lexicalScope)
		nm.appendAncestors(state, file, send, &s.Ancestors)
	case "extend":
		s := state.Symbols.Get(lexicalScope)
		nm.appendAncestors(state, file, send, &s.SingletonAncestors)
	case "final!":
		nm.setClassFlag(state, lexicalScope, core.FlagFinal)
	case "abstract!":
		nm.setClassFlag(state, lexicalScope, core.FlagAbstract)
	case "interface!":
		s := state.Symbols.Get(lexicalScope)
		if s.Kind != core.KindModule {
			state.Report(report.Diagnostic{
				File:     filePath(state, file),
				Span:     send.Span(),
				Class:    report.InterfaceClass,
				Messages: []string{"interface! declared on a class"},
			})
		}
		nm.setClassFlag(state, lexicalScope, core.FlagInterface)
	case "module_function":
		if nm.namedModuleFunction(state, file, send, lexicalScope) {
			state.Symbols.Get(lexicalScope).Flags |= core.FlagModuleFunctionActive
		}
	case "private", "protected", "public", "private_class_method":
		nm.nameVisibilitySend(state, file, send, lexicalScope, currentVisibility)
	case "sig":
		// Type signature DSL; recognized and skipped.
	default:
		nm.walk(state, file, send, lexicalScope, false)
	}
}

func (nm *Namer) resolveClassVarIdent(state *core.GlobalState, lexicalScope core.SymbolRef, ident *ast.UnresolvedIdent) *ast.Field {
	owner := lexicalScope
	if owner == state.RootClass {
		owner = state.ObjectClass
	}

	sym, ok := state.Symbols.Lookup(owner, ident.Name)
	if !ok {
		sym = state.Symbols.New(core.Symbol{Name: ident.Name, Owner: owner, Kind: core.KindField})
		state.Symbols.Enter(owner, ident.Name, sym)
	}
	return &ast.Field{Base: ident.Base, Name: ident.Name, Symbol: sym}
}
