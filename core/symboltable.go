package core

import (
	"sigil/names"
	"sigil/report"
)

// SymbolTable owns every Symbol in a GlobalState. Symbol ids are assigned in
// creation order; unlike names, there is no topological constraint on them.
type SymbolTable struct {
	symbols []*Symbol

	unfreezeDepth int
}

// NewSymbolTable creates an empty symbol table. Index 0 is reserved for
// NilSymbol.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make([]*Symbol, 1)}
}

func (st *SymbolTable) Get(ref SymbolRef) *Symbol {
	if ref == NilSymbol || int(ref) >= len(st.symbols) {
		return nil
	}
	return st.symbols[ref]
}

func (st *SymbolTable) Len() int { return len(st.symbols) }

// UnfreezeScope mirrors names.UnfreezeScope for the symbol table.
type UnfreezeScope struct{ st *SymbolTable }

func (st *SymbolTable) Unfreeze() *UnfreezeScope {
	st.unfreezeDepth++
	return &UnfreezeScope{st: st}
}

func (s *UnfreezeScope) Release() {
	if s == nil || s.st == nil {
		return
	}
	s.st.unfreezeDepth--
	s.st = nil
}

func (st *SymbolTable) requireUnfrozen() {
	if st.unfreezeDepth <= 0 {
		report.Violate("core: mutation attempted on a frozen symbol table")
	}
}

// New creates a fresh symbol and returns its ref. The caller is responsible
// for filling in the returned Symbol's fields and, if it is a namespace
// (class/module), registering it in its owner's Members map via Enter.
func (st *SymbolTable) New(sym Symbol) SymbolRef {
	st.requireUnfrozen()
	ref := SymbolRef(len(st.symbols))
	cp := sym
	st.symbols = append(st.symbols, &cp)
	return ref
}

// Enter registers name -> ref as a member of owner. owner must be a class
// or module symbol (NilSymbol is allowed as a sentinel "no owner" case used
// only during bootstrap of the well-known root).
func (st *SymbolTable) Enter(owner SymbolRef, name names.NameRef, ref SymbolRef) {
	st.requireUnfrozen()
	if owner == NilSymbol {
		return
	}
	ownerSym := st.Get(owner)
	if ownerSym.Members == nil {
		ownerSym.Members = make(map[names.NameRef]SymbolRef)
	}
	ownerSym.Members[name] = ref
}

// Lookup finds a direct member of owner by name.
func (st *SymbolTable) Lookup(owner SymbolRef, name names.NameRef) (SymbolRef, bool) {
	ownerSym := st.Get(owner)
	if ownerSym == nil || ownerSym.Members == nil {
		return NilSymbol, false
	}
	ref, ok := ownerSym.Members[name]
	return ref, ok
}

// SingletonClassOf returns the (lazily created) singleton class of a
// class/module symbol, forcing it into existence if necessary: it is
// created lazily on first access and never disappears once created.
func (st *SymbolTable) SingletonClassOf(owner SymbolRef) SymbolRef {
	ownerSym := st.Get(owner)
	if ownerSym.SingletonClass != NilSymbol {
		return ownerSym.SingletonClass
	}

	st.requireUnfrozen()
	sc := st.New(Symbol{
		Name:       ownerSym.Name,
		Owner:      owner,
		Kind:       KindClass,
		SingletonOf: owner,
	})
	ownerSym.SingletonClass = sc
	return sc
}

// DeepCopy copies every symbol, in id order, into dst. Used when a
// GlobalState is forked for a coordinator worker; at that point in the
// pipeline no symbols have been entered yet (naming runs sequentially on
// the canonical state after the merge), so this is normally a copy of just
// the well-known prefix, but it is total so forking remains correct even if
// that invariant changes.
func (st *SymbolTable) DeepCopy(dst *SymbolTable) {
	s := dst.Unfreeze()
	defer s.Release()

	for i := 1; i < len(st.symbols); i++ {
		cp := *st.symbols[i]
		if cp.Members != nil {
			cp.Members = make(map[names.NameRef]SymbolRef, len(st.symbols[i].Members))
			for k, v := range st.symbols[i].Members {
				cp.Members[k] = v
			}
		}
		cp.DefPositions = append([]*report.TextSpan(nil), cp.DefPositions...)
		cp.Ancestors = append([]SymbolRef(nil), cp.Ancestors...)
		cp.SingletonAncestors = append([]SymbolRef(nil), cp.SingletonAncestors...)
		cp.TypeMembers = append([]SymbolRef(nil), cp.TypeMembers...)
		cp.Args = append([]Arg(nil), cp.Args...)
		dst.symbols = append(dst.symbols, &cp)
	}
}
