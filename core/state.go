package core

import (
	"sigil/names"
	"sigil/report"
)

// CloneRecord records one fork in a GlobalState's ancestry: the id of the
// parent state it was cloned from, and the last name id the parent had
// interned at the moment of the fork. A NameRef below that threshold is
// safe to share between the parent and this clone without substitution.
type CloneRecord struct {
	ParentID              uint64
	LastNameKnownByParent names.NameRef
}

// GlobalState owns the name table, symbol table, file table, freeze bits,
// and deep-clone history for one pipeline invocation or worker.
type GlobalState struct {
	ID uint64

	Names   *names.Table
	Symbols *SymbolTable
	Files   *FileTable

	CloneHistory []CloneRecord

	// Well-known symbols/names, populated identically by NewGlobalState in
	// every state.
	RootClass        SymbolRef
	ObjectClass       SymbolRef
	BasicObjectClass  SymbolRef
	KernelModule      SymbolRef

	NameRoot         names.NameRef
	NameObject       names.NameRef
	NameBasicObject  names.NameRef
	NameKernel       names.NameRef
	NameBlkArg       names.NameRef
	NameStaticInit   names.NameRef
}

var nextStateID uint64 = 1

// allocStateID hands out small sequential state ids. It is not safe for
// concurrent use across unrelated GlobalState trees, but the coordinator
// only forks states from a single caller thread, so a package level
// counter guarded by the caller's own sequencing is sufficient.
func allocStateID() uint64 {
	id := nextStateID
	nextStateID++
	return id
}

// NewGlobalState creates a fresh, independent GlobalState with the
// well-known name/symbol prefix populated.
func NewGlobalState() *GlobalState {
	g := &GlobalState{
		ID:      allocStateID(),
		Names:   names.NewTable(),
		Symbols: NewSymbolTable(),
		Files:   NewFileTable(),
	}
	g.populateWellKnowns()
	return g
}

func (g *GlobalState) populateWellKnowns() {
	ns := g.UnfreezeNames()
	ss := g.UnfreezeSymbols()
	defer ns.Release()
	defer ss.Release()

	g.NameRoot = g.Names.EnterUTF8([]byte("<root>"))
	g.NameObject = g.Names.EnterUTF8([]byte("Object"))
	g.NameBasicObject = g.Names.EnterUTF8([]byte("BasicObject"))
	g.NameKernel = g.Names.EnterUTF8([]byte("Kernel"))
	g.NameBlkArg = g.Names.EnterUTF8([]byte("<blk>"))
	g.NameStaticInit = g.Names.EnterUTF8([]byte("<static-init>"))

	g.BasicObjectClass = g.Symbols.New(Symbol{Name: g.NameBasicObject, Kind: KindClass})
	g.ObjectClass = g.Symbols.New(Symbol{Name: g.NameObject, Kind: KindClass, Superclass: g.BasicObjectClass})
	g.RootClass = g.Symbols.New(Symbol{Name: g.NameRoot, Kind: KindClass, Superclass: g.ObjectClass})
	g.KernelModule = g.Symbols.New(Symbol{Name: g.NameKernel, Kind: KindModule})

	g.Symbols.Enter(g.RootClass, g.NameObject, g.ObjectClass)
	g.Symbols.Enter(g.RootClass, g.NameBasicObject, g.BasicObjectClass)
	g.Symbols.Enter(g.RootClass, g.NameKernel, g.KernelModule)
}

// LastNameKnown returns the current high-water mark of the name table; used
// when recording a CloneRecord at fork time.
func (g *GlobalState) LastNameKnown() names.NameRef {
	return names.NameRef(g.Names.Len() - 1)
}

// DeepClone forks a sibling GlobalState: every name, symbol, and file is
// copied, and a CloneRecord is appended to the sibling's history recording
// this state as its parent. Each worker obtains a deep clone of the base
// global state this way.
func (g *GlobalState) DeepClone() *GlobalState {
	sib := &GlobalState{
		ID:      allocStateID(),
		Names:   names.NewTable(),
		Symbols: NewSymbolTable(),
		Files:   NewFileTable(),
	}

	g.Names.DeepCopy(sib.Names)
	g.Symbols.DeepCopy(sib.Symbols)
	g.Files.DeepCopy(sib.Files)

	sib.RootClass, sib.ObjectClass, sib.BasicObjectClass, sib.KernelModule =
		g.RootClass, g.ObjectClass, g.BasicObjectClass, g.KernelModule
	sib.NameRoot, sib.NameObject, sib.NameBasicObject, sib.NameKernel, sib.NameBlkArg, sib.NameStaticInit =
		g.NameRoot, g.NameObject, g.NameBasicObject, g.NameKernel, g.NameBlkArg, g.NameStaticInit

	sib.CloneHistory = append(append([]CloneRecord{}, g.CloneHistory...), CloneRecord{
		ParentID:              g.ID,
		LastNameKnownByParent: g.LastNameKnown(),
	})

	return sib
}

// SharesAncestryBelow reports whether a NameRef created in g is safe to use
// directly in other without going through a substitution -- i.e. whether
// other (or g itself) has a CloneRecord showing a common ancestor under
// which ref was already known. Used by subst.Build.
func (g *GlobalState) SharesAncestryBelow(other *GlobalState, ref names.NameRef) bool {
	if g == other {
		return true
	}
	for _, rec := range other.CloneHistory {
		if rec.ParentID == g.ID && ref < rec.LastNameKnownByParent {
			return true
		}
	}
	for _, rec := range g.CloneHistory {
		if rec.ParentID == other.ID && ref < rec.LastNameKnownByParent {
			return true
		}
		for _, orec := range other.CloneHistory {
			if rec.ParentID == orec.ParentID && ref < rec.LastNameKnownByParent && ref < orec.LastNameKnownByParent {
				return true
			}
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// UnfreezeNames acquires write permission on the name table.
func (g *GlobalState) UnfreezeNames() *names.UnfreezeScope { return g.Names.Unfreeze() }

// UnfreezeSymbols acquires write permission on the symbol table.
func (g *GlobalState) UnfreezeSymbols() *UnfreezeScope { return g.Symbols.Unfreeze() }

// UnfreezeFiles acquires write permission on the file table.
func (g *GlobalState) UnfreezeFiles() *FTUnfreezeScope { return g.Files.Unfreeze() }

// Report forwards a diagnostic to the process-wide reporter. GlobalState
// itself holds no per-instance error queue: since every worker's
// diagnostics ultimately need to reach the same sink and report.Reporter is
// already safe for concurrent use, instances just forward to it, using a
// single package-level Reporter shared across every goroutine.
func (g *GlobalState) Report(d report.Diagnostic) { report.Report(d) }
