package core

import (
	"sigil/names"
	"sigil/report"
)

// SymbolRef is an id into a SymbolTable. Unlike NameRef, symbol ids carry no
// ordering invariant -- symbols are only ever created on the canonical
// global state, sequentially, by the namer, which runs single-threaded.
type SymbolRef uint32

// NilSymbol is the zero SymbolRef; it never refers to a real symbol.
const NilSymbol SymbolRef = 0

// Kind discriminates what a Symbol represents.
type Kind uint8

const (
	KindClass Kind = iota
	KindModule
	KindMethod
	KindField
	KindStaticField
	KindTypeMember
	KindArg
)

// Variance is the declared variance of a type member.
type Variance uint8

const (
	VarianceInvariant Variance = iota
	VarianceCovariant
	VarianceContravariant
)

// Bounds records which bound kinds were supplied on a type member.
type Bounds uint8

const (
	BoundsNone  Bounds = 0
	BoundsFixed Bounds = 1 << 0
	BoundsLower Bounds = 1 << 1
	BoundsUpper Bounds = 1 << 2
)

// Flags are bit flags attached to a Symbol.
type Flags uint32

const (
	FlagFinal Flags = 1 << iota
	FlagAbstract
	FlagInterface
	FlagPrivate
	FlagProtected
	FlagPublic
	FlagDSLSynthesized
	FlagTypeAlias
	FlagModuleFunctionActive // active on a (method-owner) scope symbol while module_function mode is on
)

// Arg is a parsed method argument: local, source span, and the
// keyword/block/default/repeated/shadow flags that shape how it binds.
type Arg struct {
	Local    names.NameRef
	Span     *report.TextSpan
	Keyword  bool
	Block    bool
	Default  bool
	Repeated bool
	Shadow   bool

	// ArgSymbol is the method-argument symbol entered for this parameter
	// (nil/NilSymbol for Shadow args, which become locals without symbols).
	ArgSymbol SymbolRef
}

// Symbol is a class, module, method, field, static field, type member, or
// method argument.
type Symbol struct {
	Name  names.NameRef
	Owner SymbolRef
	Kind  Kind

	// DefPositions accumulates every definition location seen for this
	// symbol. A method re-parsed from the same file overwrites rather than
	// appends.
	DefPositions []*report.TextSpan

	// DefFile is the file this symbol's primary/most-recent definition
	// came from.
	DefFile FileRef

	Flags    Flags
	Mangled  bool // true once this symbol has been mangle-renamed away

	// -- class/module fields --
	Members            map[names.NameRef]SymbolRef
	SingletonClass     SymbolRef // lazily created, owned by this symbol
	SingletonOf        SymbolRef // set on a singleton class, points back to its owner
	Ancestors          []SymbolRef
	SingletonAncestors []SymbolRef
	Superclass         SymbolRef
	StaticInit         SymbolRef
	BehaviorDefinedIn  FileRef
	HasBehaviorDef     bool
	TypeMembers        []SymbolRef

	// -- method fields --
	Args       []Arg
	IsIntrinsic bool
	HasResultType bool

	// -- type member fields --
	Variance Variance
	Bounds   Bounds

	// DeclLoc is the declaration location used to detect re-parsing the same
	// file for methods.
	DeclLoc *report.TextSpan
}

// IsClassOrModule reports whether the symbol is a namespace that constants
// and members can be looked up inside.
func (s *Symbol) IsClassOrModule() bool {
	return s.Kind == KindClass || s.Kind == KindModule
}
