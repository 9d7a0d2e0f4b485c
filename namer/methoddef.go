package namer

import (
	"sigil/ast"
	"sigil/core"
	"sigil/names"
	"sigil/report"
)

// nameMethodDef implements method-definition naming: redefinition detection,
// arg parsing, and flag/visibility application. lexicalScope is the
// enclosing class/module symbol (before any singleton
// redirection for `self.foo`); currentVisibility carries the running
// visibility default accumulated by the ordered class-body walk, and
// module-function mode is read from core.FlagModuleFunctionActive on the
// lexicalScope symbol.
func (nm *Namer) nameMethodDef(state *core.GlobalState, file core.FileRef, md *ast.MethodDef, lexicalScope core.SymbolRef, currentVisibility core.Flags) core.SymbolRef {
	owner := lexicalScope
	if owner == state.RootClass {
		owner = state.ObjectClass
	}
	if md.IsSelfMethod {
		owner = state.Symbols.SingletonClassOf(owner)
	}

	args := parseArgs(md.Params)

	existing, found := state.Symbols.Lookup(owner, md.Name)
	var sym core.SymbolRef

	switch {
	case found && sameDeclLoc(state.Symbols.Get(existing).DeclLoc, md.DeclLoc):
		sym = existing
		s := state.Symbols.Get(sym)
		s.Args = args

	case found && (isIntrinsicStub(state.Symbols.Get(existing)) || argsShapeMatch(state.Symbols.Get(existing).Args, args)):
		sym = existing
		s := state.Symbols.Get(sym)
		s.DefPositions = append(s.DefPositions, md.DeclLoc)
		s.DeclLoc = md.DeclLoc
		s.DefFile = file
		s.Args = args

	case found:
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     md.Span(),
			Class:    report.RedefinitionOfMethod,
			Messages: []string{"method redefined with a different arity or argument shape"},
		})
		mangleRename(state, existing)
		sym = nm.enterMethodSymbol(state, file, md, owner, args)

	default:
		sym = nm.enterMethodSymbol(state, file, md, owner, args)
	}

	md.Symbol = sym
	nm.enterArgSymbols(state, sym, args)

	s := state.Symbols.Get(sym)
	if currentVisibility != 0 {
		s.Flags |= currentVisibility
	}

	if state.Symbols.Get(lexicalScope).Flags&core.FlagModuleFunctionActive != 0 && !md.IsSelfMethod {
		singleton := state.Symbols.SingletonClassOf(owner)
		state.Symbols.Enter(singleton, md.Name, sym)
	}

	md.Body = nm.walk(state, file, md.Body, lexicalScope, false)

	return sym
}

func (nm *Namer) enterMethodSymbol(state *core.GlobalState, file core.FileRef, md *ast.MethodDef, owner core.SymbolRef, args []core.Arg) core.SymbolRef {
	sym := state.Symbols.New(core.Symbol{
		Name:         md.Name,
		Owner:        owner,
		Kind:         core.KindMethod,
		DefFile:      file,
		DeclLoc:      md.DeclLoc,
		DefPositions: []*report.TextSpan{md.DeclLoc},
		Args:         args,
	})
	state.Symbols.Enter(owner, md.Name, sym)
	return sym
}

func parseArgs(params []ast.Node) []core.Arg {
	out := make([]core.Arg, 0, len(params))
	for _, p := range params {
		switch n := p.(type) {
		case *ast.Local:
			out = append(out, core.Arg{
				Local:    n.Name,
				Span:     n.Span(),
				Keyword:  n.Keyword,
				Block:    n.Block,
				Repeated: n.Repeated,
				Shadow:   n.Shadow,
			})
		case *ast.OptionalArg:
			out = append(out, core.Arg{
				Local:    n.Inner.Name,
				Span:     n.Span(),
				Keyword:  n.Inner.Keyword,
				Block:    n.Inner.Block,
				Default:  true,
				Repeated: n.Inner.Repeated,
				Shadow:   n.Inner.Shadow,
			})
		}
	}
	return out
}

// enterArgSymbols enters a method-argument symbol for each non-shadow arg:
// keyword args keep their local name, the block arg uses the well-known
// <blk> name, and positional args get a fresh unique name numbered by
// position.
func (nm *Namer) enterArgSymbols(state *core.GlobalState, sym core.SymbolRef, args []core.Arg) {
	s := state.Symbols.Get(sym)
	for i := range args {
		a := &args[i]
		if a.Shadow {
			a.ArgSymbol = core.NilSymbol
			continue
		}

		var name names.NameRef
		switch {
		case a.Block:
			name = state.NameBlkArg
		case a.Keyword:
			name = a.Local
		default:
			name = state.Names.FreshUnique(names.UniquePositionalArg, a.Local, uint32(i+1))
		}

		a.ArgSymbol = state.Symbols.New(core.Symbol{Name: name, Owner: sym, Kind: core.KindArg})
	}
	s.Args = args
}

func sameDeclLoc(a, b *report.TextSpan) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func isIntrinsicStub(s *core.Symbol) bool {
	return s.IsIntrinsic && !s.HasResultType
}

func argsShapeMatch(a, b []core.Arg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Keyword != b[i].Keyword || a[i].Block != b[i].Block || a[i].Repeated != b[i].Repeated {
			return false
		}
		if a[i].Keyword && a[i].Local != b[i].Local {
			return false
		}
	}
	return true
}

func methodName(state *core.GlobalState, ref names.NameRef) string {
	return state.Names.Text(ref)
}

// namedModuleFunction implements the `module_function` DSL send. A
// no-argument call activates module-function mode for the rest of the
// enclosing class body; symbol-literal arguments alias already-defined
// methods into the owner's singleton class immediately.
func (nm *Namer) namedModuleFunction(state *core.GlobalState, file core.FileRef, send *ast.Send, lexicalScope core.SymbolRef) bool {
	if len(send.Args) == 0 {
		return true
	}

	owner := lexicalScope
	if owner == state.RootClass {
		owner = state.ObjectClass
	}
	singleton := state.Symbols.SingletonClassOf(owner)

	for _, arg := range send.Args {
		nm.aliasNamedTarget(state, file, arg, owner, singleton)
	}
	return false
}

// nameVisibilitySend implements `private`/`protected`/`public`/
// `private_class_method`. A no-argument call sets the running default
// visibility used by subsequent method defs in this body; symbol-literal
// arguments set the flag on already-defined methods directly.
func (nm *Namer) nameVisibilitySend(state *core.GlobalState, file core.FileRef, send *ast.Send, lexicalScope core.SymbolRef, currentVisibility *core.Flags) {
	flag := visibilityFlag(methodName(state, send.Method))

	owner := lexicalScope
	if owner == state.RootClass {
		owner = state.ObjectClass
	}
	if methodName(state, send.Method) == "private_class_method" {
		owner = state.Symbols.SingletonClassOf(owner)
	}

	if len(send.Args) == 0 {
		*currentVisibility = flag
		return
	}

	for _, arg := range send.Args {
		nm.applyVisibilityToTarget(state, file, arg, owner, flag)
	}
}

func visibilityFlag(name string) core.Flags {
	switch name {
	case "private", "private_class_method":
		return core.FlagPrivate
	case "protected":
		return core.FlagProtected
	default:
		return core.FlagPublic
	}
}

func (nm *Namer) aliasNamedTarget(state *core.GlobalState, file core.FileRef, arg ast.Node, owner, singleton core.SymbolRef) {
	lit, ok := arg.(*ast.Literal)
	if !ok || lit.Kind != ast.LitSymbol {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     arg.Span(),
			Class:    report.DynamicDSLInvocation,
			Messages: []string{"module_function argument is not a symbol literal"},
		})
		return
	}

	sym, found := state.Symbols.Lookup(owner, lit.Sym)
	if !found {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     arg.Span(),
			Class:    report.MethodNotFound,
			Messages: []string{"module_function names a method that does not exist"},
		})
		return
	}

	state.Symbols.Enter(singleton, lit.Sym, sym)
}

func (nm *Namer) applyVisibilityToTarget(state *core.GlobalState, file core.FileRef, arg ast.Node, owner core.SymbolRef, flag core.Flags) {
	lit, ok := arg.(*ast.Literal)
	if !ok || lit.Kind != ast.LitSymbol {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     arg.Span(),
			Class:    report.DynamicDSLInvocation,
			Messages: []string{"visibility argument is not a symbol literal"},
		})
		return
	}

	sym, found := state.Symbols.Lookup(owner, lit.Sym)
	if !found {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     arg.Span(),
			Class:    report.MethodNotFound,
			Messages: []string{"visibility names a method that does not exist"},
		})
		return
	}

	state.Symbols.Get(sym).Flags |= flag
}
