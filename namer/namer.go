// Package namer implements the tree walk that populates a symbol table
// from a parsed tree: classes, modules, methods, arguments, constants, and
// type members, with collision mangling and ancestor/visibility/
// module-function handling.
package namer

import (
	"sigil/ast"
	"sigil/core"
	"sigil/names"
	"sigil/report"
)

// Namer runs the naming pass over one file at a time. Callers run it
// sequentially against the canonical global state, since naming is
// single-threaded cooperative work.
type Namer struct{}

// New returns a Namer. It carries no per-call state of its own; all naming
// state lives in the GlobalState being populated.
func New() *Namer { return &Namer{} }

// Name runs the full naming pass over tree, which was produced by indexing
// file, and returns the rewritten tree. Callers hold unfreeze-names and
// unfreeze-symbols scopes for the duration.
func (nm *Namer) Name(state *core.GlobalState, file core.FileRef, tree ast.Node) ast.Node {
	return nm.walk(state, file, tree, state.RootClass, false)
}

// -----------------------------------------------------------------------------
// squashNames: constant path resolution.

// squashNames resolves a possibly-nested constant scope expression,
// entering fresh class symbols for unknown segments as it goes, and
// returns the resolved owner symbol. A node that cannot be resolved (a
// truly dynamic scope) is rewritten in place to ast.EmptyTree and
// DynamicConstant is reported; ok is false in that case.
func (nm *Namer) squashNames(state *core.GlobalState, file core.FileRef, scope *ast.Node, owner core.SymbolRef) (core.SymbolRef, bool) {
	switch n := (*scope).(type) {
	case *ast.EmptyTree:
		return owner, true
	case *ast.Self:
		return owner, true
	case *ast.ConstantLit:
		return n.Symbol, true
	case nil:
		return owner, true

	case *ast.UnresolvedConstantLit:
		parentOwner, ok := nm.squashNames(state, file, &n.Scope, owner)
		if !ok {
			*scope = &ast.EmptyTree{Base: n.Base}
			return core.NilSymbol, false
		}

		parentSym := state.Symbols.Get(parentOwner)
		if parentSym != nil && !parentSym.IsClassOrModule() {
			state.Report(report.Diagnostic{
				File:     filePath(state, file),
				Span:     n.Span(),
				Class:    report.InvalidClassOwner,
				Messages: []string{"constant nested inside a non-class/module scope"},
			})
			*scope = &ast.EmptyTree{Base: n.Base}
			return core.NilSymbol, false
		}

		sym, found := state.Symbols.Lookup(parentOwner, n.Name)
		if !found {
			state.Symbols.SingletonClassOf(parentOwner)
			sym = state.Symbols.New(core.Symbol{
				Name:    n.Name,
				Owner:   parentOwner,
				Kind:    core.KindClass,
				DefFile: file,
			})
			state.Symbols.Enter(parentOwner, n.Name, sym)
		}

		lit := &ast.ConstantLit{Base: n.Base, Name: n.Name, Symbol: sym}
		*scope = lit
		return sym, true

	default:
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     (*scope).Span(),
			Class:    report.DynamicConstant,
			Messages: []string{"constant path has a non-constant scope"},
		})
		*scope = &ast.EmptyTree{Base: ast.NewBase((*scope).Span())}
		return core.NilSymbol, false
	}
}

// -----------------------------------------------------------------------------
// Mangle-rename.

// mangleRename gives sym a fresh UNIQUE name derived from its current name,
// so it stops being reachable by lookup while remaining queryable by id.
// The symbol's Owner's Members entry (if any) must be re-pointed by the
// caller to whatever symbol replaces it.
func mangleRename(state *core.GlobalState, sym core.SymbolRef) {
	s := state.Symbols.Get(sym)
	num := state.Names.NextUniqueNum(names.UniqueMangleRename, s.Name)
	s.Name = state.Names.FreshUnique(names.UniqueMangleRename, s.Name, num)
	s.Mangled = true
}

// -----------------------------------------------------------------------------
// Global identifiers.

func (nm *Namer) resolveGlobalIdent(state *core.GlobalState, ident *ast.UnresolvedIdent) *ast.Field {
	sym, ok := state.Symbols.Lookup(state.RootClass, ident.Name)
	if !ok {
		sym = state.Symbols.New(core.Symbol{
			Name:  ident.Name,
			Owner: state.RootClass,
			Kind:  core.KindField,
		})
		state.Symbols.Enter(state.RootClass, ident.Name, sym)
	}
	return &ast.Field{Base: ident.Base, Name: ident.Name, Symbol: sym}
}

// StaticInitName computes the name of owner's static-initializer method,
// distinguishing the file-level static initializer from a per-nested-class
// one. The root class reuses the well-known <static-init> name directly;
// any other class/module gets a name derived from its own.
func StaticInitName(state *core.GlobalState, owner core.SymbolRef) names.NameRef {
	if owner == state.RootClass {
		return state.NameStaticInit
	}
	ownerSym := state.Symbols.Get(owner)
	return state.Names.EnterUTF8([]byte("<static-init>$" + state.Names.Text(ownerSym.Name)))
}

func filePath(state *core.GlobalState, file core.FileRef) string {
	f := state.Files.Get(file)
	if f == nil {
		return ""
	}
	return f.AbsPath
}
