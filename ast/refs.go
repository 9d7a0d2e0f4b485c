package ast

import (
	"sigil/core"
	"sigil/names"
)

// IdentKind (IdentLocal/IdentGlobal/IdentClassVar) discriminates an
// UnresolvedIdent.
type IdentKind uint8

const (
	IdentLocal IdentKind = iota
	IdentGlobal
	IdentClassVar
)

// UnresolvedIdent is a local/global/class-variable reference by name, prior
// to resolution.
type UnresolvedIdent struct {
	Base
	Kind IdentKind
	Name names.NameRef
}

// Local is a resolved local-variable reference, produced by local-variable
// resolution and also reused by the namer to represent method-argument
// declarations in a MethodDef's Params list.
type Local struct {
	Base
	Name names.NameRef

	// The following flags are meaningful when Local appears inside a
	// MethodDef's Params:
	Keyword  bool
	Block    bool
	Repeated bool
	Shadow   bool
}

// OptionalArg wraps a Local parameter with its default-value expression.
type OptionalArg struct {
	Base
	Inner   *Local
	Default Node
}

// UnresolvedConstantLit is an unresolved `A::B` reference.
type UnresolvedConstantLit struct {
	Base
	Scope Node
	Name  names.NameRef
}

// ConstantLit is a resolved constant reference.
type ConstantLit struct {
	Base
	Name   names.NameRef
	Symbol core.SymbolRef
}

// Field is a resolved instance/global field reference.
type Field struct {
	Base
	Name   names.NameRef
	Symbol core.SymbolRef
}
