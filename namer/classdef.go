package namer

import (
	"sigil/ast"
	"sigil/core"
	"sigil/report"
)

func (nm *Namer) preTransformClassDef(state *core.GlobalState, file core.FileRef, cd *ast.ClassDef, owner core.SymbolRef) core.SymbolRef {
	if cd.IsSingletonClass {
		return state.Symbols.SingletonClassOf(owner)
	}

	wantKind := core.KindClass
	if cd.IsModule {
		wantKind = core.KindModule
	}

	parentScope := owner
	if lit, ok := cd.Scope.(*ast.UnresolvedConstantLit); ok {
		parentScope, _ = nm.squashNames(state, file, &lit.Scope, owner)
	}

	sym := nm.squashClassName(state, file, cd.Scope, parentScope, wantKind)

	s := state.Symbols.Get(sym)
	if s.Kind != wantKind {
		if s.Kind != core.KindClass && s.Kind != core.KindModule {
			nm.mangleAndReenter(state, file, cd.Scope, parentScope, wantKind, &sym)
		} else {
			state.Report(report.Diagnostic{
				File:     filePath(state, file),
				Span:     cd.Span(),
				Class:    report.ModuleKindRedefinition,
				Messages: []string{"class/module redefined with a different kind"},
			})
		}
	}

	state.Symbols.SingletonClassOf(sym)

	s = state.Symbols.Get(sym)
	s.DeclLoc = cd.DeclLoc

	f := state.Files.Get(file)
	hasBehavior := f != nil && f.Type != core.FileRBI && len(cd.Body) > 0
	if hasBehavior {
		if s.HasBehaviorDef && s.BehaviorDefinedIn != file {
			state.Report(report.Diagnostic{
				File:     filePath(state, file),
				Span:     cd.Span(),
				Class:    report.MultipleBehaviorDefs,
				Messages: []string{"class/module behavior defined in more than one file"},
			})
		} else {
			s.HasBehaviorDef = true
			s.BehaviorDefinedIn = file
		}
	}

	return sym
}

// squashClassName resolves cd's own scope name within parentScope, entering
// a fresh class/module symbol if it doesn't already exist as a member.
func (nm *Namer) squashClassName(state *core.GlobalState, file core.FileRef, scope ast.Node, parentScope core.SymbolRef, wantKind core.Kind) core.SymbolRef {
	lit, ok := scope.(*ast.UnresolvedConstantLit)
	if !ok {
		// Self or an already-resolved literal; caller already decided
		// parentScope is the right symbol (e.g. top-level class reopen).
		return parentScope
	}

	existing, found := state.Symbols.Lookup(parentScope, lit.Name)
	if !found {
		existing = state.Symbols.New(core.Symbol{
			Name:    lit.Name,
			Owner:   parentScope,
			Kind:    wantKind,
			DefFile: file,
		})
		state.Symbols.Enter(parentScope, lit.Name, existing)
	}

	return existing
}

// mangleAndReenter gives the colliding non-class symbol a fresh unique name
// and re-enters a proper class/module symbol under the original name: if the
// resulting symbol already exists but isn't a class, mangle-rename it and
// re-enter a fresh one as the class.
func (nm *Namer) mangleAndReenter(state *core.GlobalState, file core.FileRef, scope ast.Node, parentScope core.SymbolRef, wantKind core.Kind, sym *core.SymbolRef) {
	lit, ok := scope.(*ast.UnresolvedConstantLit)
	if !ok {
		return
	}

	mangleRename(state, *sym)

	fresh := state.Symbols.New(core.Symbol{
		Name:    lit.Name,
		Owner:   parentScope,
		Kind:    wantKind,
		DefFile: file,
	})
	state.Symbols.Enter(parentScope, lit.Name, fresh)
	*sym = fresh
}

// applyClassDefaults implements the non-body-order parts of class-def
// naming: superclass resolution and static-init registration. The
// remaining responsibilities (ancestor tracking, flags, visibility,
// module_function) are order-sensitive and live in the single ordered
// class-body walk in walk.go.
//
// A class with no explicit superclass keeps Superclass at its NilSymbol
// zero value -- a todo() sentinel to be resolved later. Filling it in with
// Object is a local rewrite with no cross-file dependency, so it belongs to
// the incremental resolver rather than the namer.
func (nm *Namer) applyClassDefaults(state *core.GlobalState, file core.FileRef, cd *ast.ClassDef, sym core.SymbolRef) {
	s := state.Symbols.Get(sym)

	if cd.Superclass != nil {
		if ancestor, ok := nm.resolveAncestor(state, file, &cd.Superclass); ok {
			s.Superclass = ancestor
		}
	}

	nm.registerStaticInit(state, file, sym)
}

func (nm *Namer) setClassFlag(state *core.GlobalState, sym core.SymbolRef, flag core.Flags) {
	s := state.Symbols.Get(sym)
	s.Flags |= flag
	if singleton := state.Symbols.Get(s.SingletonClass); singleton != nil {
		singleton.Flags |= flag
	}
}

// resolveAncestor validates a superclass/include/extend argument: only
// constant literals, self, or EmptyTree are legal.
func (nm *Namer) resolveAncestor(state *core.GlobalState, file core.FileRef, node *ast.Node) (core.SymbolRef, bool) {
	switch n := (*node).(type) {
	case *ast.UnresolvedConstantLit:
		return nm.squashNames(state, file, node, state.RootClass)
	case *ast.ConstantLit:
		return n.Symbol, true
	case *ast.Self:
		return core.NilSymbol, false
	case *ast.EmptyTree:
		return core.NilSymbol, false
	default:
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     (*node).Span(),
			Class:    report.AncestorNotConstant,
			Messages: []string{"include/extend/superclass argument is not a constant literal"},
		})
		return core.NilSymbol, false
	}
}

func (nm *Namer) appendAncestors(state *core.GlobalState, file core.FileRef, send *ast.Send, into *[]core.SymbolRef) {
	if len(send.Args) == 0 {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     send.Span(),
			Class:    report.IncludeMultipleParam,
			Messages: []string{"include/extend called with no arguments"},
		})
		return
	}
	if send.Block != nil {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     send.Span(),
			Class:    report.IncludePassedBlock,
			Messages: []string{"include/extend passed a block"},
		})
	}

	// Reverse order, matching source-language MRO semantics.
	resolved := make([]core.SymbolRef, 0, len(send.Args))
	for _, arg := range send.Args {
		if sym, ok := nm.resolveAncestor(state, file, &arg); ok {
			resolved = append(resolved, sym)
		}
	}
	for i := len(resolved) - 1; i >= 0; i-- {
		*into = append(*into, resolved[i])
	}
}

// registerStaticInit enters a <static-init> symbol for sym, or reuses the
// well-known file-level one for the root class, distinguishing file-level
// from nested static-initializers by name.
func (nm *Namer) registerStaticInit(state *core.GlobalState, file core.FileRef, sym core.SymbolRef) {
	s := state.Symbols.Get(sym)
	if s.StaticInit != core.NilSymbol {
		return
	}

	name := StaticInitName(state, sym)
	s.StaticInit = state.Symbols.New(core.Symbol{
		Name:    name,
		Owner:   sym,
		Kind:    core.KindMethod,
		DefFile: file,
	})
}
