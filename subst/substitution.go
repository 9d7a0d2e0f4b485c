// Package subst implements global substitution: remapping NameRefs minted
// in one GlobalState into the id-space of another, and applying that
// remapping to a tree.
package subst

import (
	"sigil/ast"
	"sigil/core"
	"sigil/names"
	"sigil/report"
)

// Substitution is a one-shot mapping from a source GlobalState's name ids
// to a destination GlobalState's name ids.
type Substitution struct {
	from, to *core.GlobalState
	mapping  map[names.NameRef]names.NameRef

	// used guards the single-use-in-debug-mode contract: applying the same
	// substitution to a tree twice is a contract violation in debug builds.
	used bool
}

// Build constructs a substitution from `from` into `to`: for each name in
// `from`, in id order, the mapping is the identity if `from` and `to` share
// a common ancestor below which the id was already known; otherwise the
// name is re-interned into `to`. Because ancestors always have lower ids
// than their descendants, by the time a UNIQUE or
// CONSTANT name is processed its Original's mapping is already available.
func Build(from, to *core.GlobalState) *Substitution {
	s := &Substitution{from: from, to: to, mapping: make(map[names.NameRef]names.NameRef)}

	s.mapping[names.NilName] = names.NilName

	scope := to.UnfreezeNames()
	defer scope.Release()

	n := from.Names.Len()
	for i := 1; i < n; i++ {
		ref := names.NameRef(i)

		if from.SharesAncestryBelow(to, ref) {
			s.mapping[ref] = ref
			continue
		}

		nm := from.Names.Get(ref)
		var toRef names.NameRef
		switch nm.Kind {
		case names.KindUTF8:
			toRef = to.Names.EnterUTF8(nm.Bytes)
		case names.KindUnique:
			toRef = to.Names.FreshUnique(nm.UKind, s.mapping[nm.Original], nm.Num)
		case names.KindConstant:
			toRef = to.Names.EnterConstant(s.mapping[nm.Original])
		default:
			report.Violate("subst: impossible name kind %v", nm.Kind)
		}

		s.mapping[ref] = toRef
	}

	return s
}

// mapNameRef is the substitution function passed to ast.RewriteNames.
func (s *Substitution) mapNameRef(ref names.NameRef) names.NameRef {
	if mapped, ok := s.mapping[ref]; ok {
		return mapped
	}
	// A ref the substitution never saw (e.g. a name interned by `to` after
	// Build ran) passes through unchanged.
	return ref
}

// Apply rewrites every NameRef in tree through the substitution. Trees
// built in `from` become valid in `to` without copying any other
// structure. Applying the same Substitution to a second (or the same)
// tree is fine in release builds but is a contract violation in debug
// builds.
func (s *Substitution) Apply(tree ast.Node) {
	if s.used && report.DebugMode() {
		report.Violate("subst: substitution applied twice")
	}
	s.used = true

	ast.RewriteNames(tree, s.mapNameRef)
}

// Map exposes the underlying id mapping, e.g. for tests or for rewriting
// a FileRef/SymbolRef table that parallels the tree.
func (s *Substitution) Map(ref names.NameRef) names.NameRef {
	return s.mapNameRef(ref)
}
