// Package names implements the interned name table: the shared id space of
// source spellings, derived-unique names, and constant-scoped names that
// every other stage of the pipeline refers to by id.
package names

// NameRef is an interned name id. Ids are assigned in insertion order, which
// is also a reverse-topological order: every UNIQUE or CONSTANT name has an
// id strictly greater than the id of the name it derives from.
type NameRef uint32

// NilName is the zero NameRef. It never refers to a real name.
const NilName NameRef = 0

// Kind discriminates the three Name variants.
type Kind uint8

const (
	KindUTF8 Kind = iota
	KindUnique
	KindConstant
)

// UniqueKind enumerates the contexts that can derive a UNIQUE name.
type UniqueKind uint8

const (
	UniqueParser UniqueKind = iota
	UniqueDesugar
	UniqueNamer
	UniqueMangleRename
	UniqueSingleton
	UniqueOverload
	UniqueTypeVar
	UniquePositionalArg
	UniqueMangledKeywordArg
	UniqueResolverMissingClass
)

func (k UniqueKind) String() string {
	switch k {
	case UniqueParser:
		return "Parser"
	case UniqueDesugar:
		return "Desugar"
	case UniqueNamer:
		return "Namer"
	case UniqueMangleRename:
		return "MangleRename"
	case UniqueSingleton:
		return "Singleton"
	case UniqueOverload:
		return "Overload"
	case UniqueTypeVar:
		return "TypeVar"
	case UniquePositionalArg:
		return "PositionalArg"
	case UniqueMangledKeywordArg:
		return "MangledKeywordArg"
	case UniqueResolverMissingClass:
		return "ResolverMissingClass"
	default:
		return "UnknownUniqueKind"
	}
}

// Name is one of the three interned variants. Only the fields relevant to
// its Kind are meaningful; the zero value of the others is ignored.
type Name struct {
	Kind Kind

	// UTF8
	Bytes []byte

	// UNIQUE
	UKind    UniqueKind
	Num      uint32
	Original NameRef

	// CONSTANT reuses Original above for its wrapped name.
}

// id is assigned by the table that owns this Name; Name itself carries no id
// so that the same value type can be copied across tables during DeepCopy.
