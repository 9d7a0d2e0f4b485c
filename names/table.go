package names

import (
	"fmt"

	"sigil/report"
)

// Table is the interned name table for one global state. Ids are assigned
// in insertion order starting at NilName+1; that order is also a
// reverse-topological order over Original references (see Name).
type Table struct {
	names []Name

	byUTF8     map[string]NameRef
	byUnique   map[uniqueKey]NameRef
	byConstant map[NameRef]NameRef

	unfreezeDepth int
}

type uniqueKey struct {
	kind     UniqueKind
	original NameRef
	num      uint32
}

// NewTable creates an empty table. Callers populate the well-known name
// prefix before doing anything else; see core.NewGlobalState.
func NewTable() *Table {
	t := &Table{
		names:      make([]Name, 1), // index 0 is NilName, reserved/unused
		byUTF8:     make(map[string]NameRef),
		byUnique:   make(map[uniqueKey]NameRef),
		byConstant: make(map[NameRef]NameRef),
	}
	return t
}

// Len returns the number of interned names, including NilName.
func (t *Table) Len() int { return len(t.names) }

// Get returns the Name for a NameRef. Reads are always permitted, even while
// the table is frozen.
func (t *Table) Get(ref NameRef) Name {
	if int(ref) >= len(t.names) {
		panic(fmt.Sprintf("names: Get: out-of-range NameRef %d (table has %d names)", ref, len(t.names)))
	}
	return t.names[ref]
}

// UnfreezeScope is scoped write permission on a Table, obtained via
// Table.Unfreeze and released via Release. Nested scopes are idempotent: the
// outer Release never actually unfreezes while an inner scope is still held.
type UnfreezeScope struct {
	t *Table
}

// Unfreeze acquires write permission on the table. The caller must call
// Release on the returned scope exactly once, on every exit path.
func (t *Table) Unfreeze() *UnfreezeScope {
	t.unfreezeDepth++
	return &UnfreezeScope{t: t}
}

// Release relinquishes the write permission acquired by Unfreeze.
func (s *UnfreezeScope) Release() {
	if s == nil || s.t == nil {
		return
	}
	s.t.unfreezeDepth--
	s.t = nil
}

func (t *Table) requireUnfrozen() {
	if t.unfreezeDepth <= 0 {
		report.Violate("%s", (&FrozenTableError{}).Error())
	}
}

// FrozenTableError describes a mutator called without an active
// UnfreezeScope. requireUnfrozen raises it as a report.ContractViolation
// carrying this message: fatal in debug builds, downgraded like any other
// panic in release builds.
type FrozenTableError struct{}

func (e *FrozenTableError) Error() string {
	return "names: mutation attempted on a frozen name table"
}

// -----------------------------------------------------------------------------

// EnterUTF8 interns a source-text name. Equal byte sequences always map to
// the same NameRef; re-entering is a no-op that returns the existing id.
func (t *Table) EnterUTF8(bytes []byte) NameRef {
	t.requireUnfrozen()

	key := string(bytes)
	if ref, ok := t.byUTF8[key]; ok {
		return ref
	}

	ref := t.append(Name{Kind: KindUTF8, Bytes: []byte(key)})
	t.byUTF8[key] = ref
	return ref
}

// EnterConstant wraps an existing UTF8 or UNIQUE name (the latter only when
// derived as UniqueResolverMissingClass) as a CONSTANT name.
func (t *Table) EnterConstant(original NameRef) NameRef {
	t.requireUnfrozen()

	orig := t.Get(original)
	if orig.Kind != KindUTF8 && !(orig.Kind == KindUnique && orig.UKind == UniqueResolverMissingClass) {
		panic(fmt.Sprintf("names: EnterConstant: original must be UTF8 or a ResolverMissingClass UNIQUE, got %v", orig.Kind))
	}

	if ref, ok := t.byConstant[original]; ok {
		return ref
	}

	ref := t.append(Name{Kind: KindConstant, Original: original})
	t.byConstant[original] = ref
	return ref
}

// FreshUnique retrieves or creates a unique derivation of original numbered
// num under kind. num must be > 0. Calling this twice with the same
// arguments returns the same NameRef -- this is what makes cache replay of
// a specific numbering reproducible.
func (t *Table) FreshUnique(kind UniqueKind, original NameRef, num uint32) NameRef {
	t.requireUnfrozen()

	if num == 0 {
		panic("names: FreshUnique: num must be > 0")
	}

	key := uniqueKey{kind: kind, original: original, num: num}
	if ref, ok := t.byUnique[key]; ok {
		return ref
	}

	ref := t.append(Name{Kind: KindUnique, UKind: kind, Original: original, Num: num})
	t.byUnique[key] = ref
	return ref
}

// NextUniqueNum returns the smallest num > 0 not yet used for (kind,
// original), for callers that want to allocate a genuinely fresh numbering
// rather than replay a specific one.
func (t *Table) NextUniqueNum(kind UniqueKind, original NameRef) uint32 {
	var n uint32 = 1
	for {
		if _, ok := t.byUnique[uniqueKey{kind: kind, original: original, num: n}]; !ok {
			return n
		}
		n++
	}
}

func (t *Table) append(n Name) NameRef {
	ref := NameRef(len(t.names))
	t.names = append(t.names, n)
	return ref
}

// -----------------------------------------------------------------------------

// Text recursively renders the textual spelling of a name: a UTF8 name's own
// bytes, a UNIQUE name's original's text, a CONSTANT name's original's text.
// Substitution must preserve this textual form even as it renumbers and
// rewrites the underlying name records.
func (t *Table) Text(ref NameRef) string {
	n := t.Get(ref)
	switch n.Kind {
	case KindUTF8:
		return string(n.Bytes)
	case KindUnique, KindConstant:
		return t.Text(n.Original)
	default:
		panic("names: Text: impossible name kind")
	}
}

// DeepCopy copies every name in this table, in id order, into dst. Because
// id order is a topological sort on Original references, ancestors are
// always copied before their descendants and Original fields remain valid
// without any remapping.
func (t *Table) DeepCopy(dst *Table) {
	dst.unfreeze1(func() {
		for i := 1; i < len(t.names); i++ {
			n := t.names[i]
			switch n.Kind {
			case KindUTF8:
				dst.EnterUTF8(n.Bytes)
			case KindUnique:
				dst.FreshUnique(n.UKind, n.Original, n.Num)
			case KindConstant:
				dst.EnterConstant(n.Original)
			}
		}
	})
}

func (t *Table) unfreeze1(f func()) {
	s := t.Unfreeze()
	defer s.Release()
	f()
}
