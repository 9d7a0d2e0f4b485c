package namer

import (
	"sigil/ast"
	"sigil/core"
	"sigil/report"
)

// nameAssign implements assignment naming: static-field entry, type_alias
// marking, and type_member/type_template entry. inClassBody distinguishes a
// class-body-level assignment (where a constant LHS is legal) from one
// nested inside a method body (where it is not, producing
// DynamicConstantAssignment).
func (nm *Namer) nameAssign(state *core.GlobalState, file core.FileRef, asg *ast.Assign, lexicalScope core.SymbolRef, inClassBody bool) {
	lit, ok := constantLHS(asg.LHS)
	if !ok {
		asg.RHS = nm.walk(state, file, asg.RHS, lexicalScope, false)
		return
	}

	if !inClassBody {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     asg.Span(),
			Class:    report.DynamicConstantAssignment,
			Messages: []string{"constant assigned in a non-class, non-DSL context"},
		})
		return
	}

	parentScope, ok := nm.squashNames(state, file, &lit.Scope, lexicalScope)
	if !ok {
		return
	}

	parentSym := state.Symbols.Get(parentScope)
	if parentSym != nil && !parentSym.IsClassOrModule() {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     asg.Span(),
			Class:    report.InvalidClassOwner,
			Messages: []string{"static field assigned under a non-class/module scope"},
		})
		mangleAndReenterOwner(state, file, &parentScope)
	}

	if send, ok := asg.RHS.(*ast.Send); ok {
		switch methodName(state, send.Method) {
		case "type_member":
			nm.nameTypeMember(state, file, lit, parentScope, send, false)
			return
		case "type_template":
			nm.nameTypeMember(state, file, lit, parentScope, send, true)
			return
		}
	}

	sym := nm.enterStaticField(state, file, lit, parentScope)

	if send, ok := asg.RHS.(*ast.Send); ok && methodName(state, send.Method) == "type_alias" {
		state.Symbols.Get(sym).Flags |= core.FlagTypeAlias
	}

	asg.RHS = nm.walk(state, file, asg.RHS, lexicalScope, false)
}

func constantLHS(lhs ast.Node) (*ast.UnresolvedConstantLit, bool) {
	lit, ok := lhs.(*ast.UnresolvedConstantLit)
	return lit, ok
}

func (nm *Namer) enterStaticField(state *core.GlobalState, file core.FileRef, lit *ast.UnresolvedConstantLit, parentScope core.SymbolRef) core.SymbolRef {
	existing, found := state.Symbols.Lookup(parentScope, lit.Name)
	if found {
		s := state.Symbols.Get(existing)
		if s.Kind != core.KindStaticField {
			state.Report(report.Diagnostic{
				File:     filePath(state, file),
				Class:    report.ModuleKindRedefinition,
				Messages: []string{"constant redefined as a static field"},
			})
			mangleRename(state, existing)
			found = false
		}
	}

	if !found {
		existing = state.Symbols.New(core.Symbol{
			Name:    lit.Name,
			Owner:   parentScope,
			Kind:    core.KindStaticField,
			DefFile: file,
		})
		state.Symbols.Enter(parentScope, lit.Name, existing)
	}

	return existing
}

// mangleAndReenterOwner recovers from assigning under a non-class scope by
// mangle-renaming the offending symbol and re-entering it as a class so
// compilation can proceed.
func mangleAndReenterOwner(state *core.GlobalState, file core.FileRef, owner *core.SymbolRef) {
	s := state.Symbols.Get(*owner)
	if s == nil {
		return
	}
	parentOwner := s.Owner
	name := s.Name
	mangleRename(state, *owner)

	fresh := state.Symbols.New(core.Symbol{Name: name, Owner: parentOwner, Kind: core.KindClass, DefFile: file})
	state.Symbols.Enter(parentOwner, name, fresh)
	*owner = fresh
}

// nameTypeMember implements `type_member`/`type_template` entry. scope is
// the enclosing class for type_member, its singleton for type_template.
func (nm *Namer) nameTypeMember(state *core.GlobalState, file core.FileRef, lit *ast.UnresolvedConstantLit, enclosing core.SymbolRef, send *ast.Send, isTemplate bool) {
	if enclosing == state.RootClass {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     send.Span(),
			Class:    report.RootTypeMember,
			Messages: []string{"type_member declared at the top level"},
		})
		return
	}

	scope := enclosing
	if isTemplate {
		scope = state.Symbols.SingletonClassOf(enclosing)
	}

	if _, found := state.Symbols.Lookup(scope, lit.Name); found {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     send.Span(),
			Class:    report.InvalidTypeDefinition,
			Messages: []string{"duplicate type member in the same scope"},
		})
		return
	}

	variance := core.VarianceInvariant
	if len(send.Args) > 0 {
		if symLit, ok := send.Args[0].(*ast.Literal); ok && symLit.Kind == ast.LitSymbol {
			switch methodName(state, symLit.Sym) {
			case "covariant":
				variance = core.VarianceCovariant
			case "contravariant":
				variance = core.VarianceContravariant
			}
		}
	}

	bounds := core.BoundsNone
	if len(send.Args) > 0 {
		if h, ok := send.Args[len(send.Args)-1].(*ast.Hash); ok {
			for _, k := range h.Keys {
				kl, ok := k.(*ast.Literal)
				if !ok || kl.Kind != ast.LitSymbol {
					continue
				}
				switch methodName(state, kl.Sym) {
				case "fixed":
					bounds |= core.BoundsFixed
				case "lower":
					bounds |= core.BoundsLower
				case "upper":
					bounds |= core.BoundsUpper
				}
			}
		}
	}

	if bounds&core.BoundsFixed == 0 && bounds == core.BoundsNone {
		state.Report(report.Diagnostic{
			File:     filePath(state, file),
			Span:     send.Span(),
			Class:    report.InvalidTypeDefinition,
			Messages: []string{"type_member missing :fixed bound"},
		})
	}

	sym := state.Symbols.New(core.Symbol{
		Name:     lit.Name,
		Owner:    scope,
		Kind:     core.KindTypeMember,
		DefFile:  file,
		Variance: variance,
		Bounds:   bounds,
	})
	state.Symbols.Enter(scope, lit.Name, sym)

	owner := state.Symbols.Get(enclosing)
	owner.TypeMembers = append(owner.TypeMembers, sym)
}
