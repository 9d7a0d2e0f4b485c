package ast

import (
	"sigil/core"
	"sigil/names"
	"sigil/report"
)

// Block is a `do...end`/brace block argument attached to a Send.
type Block struct {
	Base
	Params []*Local
	Body   Node
}

// Send is a method call.
type Send struct {
	Base
	Receiver Node // nil means an implicit self receiver
	Method   names.NameRef
	Args     []Node
	Block    *Block
}

// Assign is an assignment.
type Assign struct {
	Base
	LHS Node
	RHS Node
}

// ClassDef is a class or module definition.
type ClassDef struct {
	Base

	IsModule bool

	// Scope is the (possibly nested) constant path naming this class, e.g.
	// an UnresolvedConstantLit for `class A::B`, Self for `class << self`,
	// or EmptyTree for an anonymous/invalid case.
	Scope Node

	// Superclass is the ancestor expression for `class Foo < Bar`, or nil.
	Superclass Node

	// IsSingletonClass marks `class << self`.
	IsSingletonClass bool

	Body []Node

	DeclLoc *report.TextSpan

	// Symbol is populated by the namer once the class/module has been
	// entered into the symbol table.
	Symbol core.SymbolRef
}

// MethodDef is a method definition.
type MethodDef struct {
	Base

	// IsSelfMethod marks `def self.foo`.
	IsSelfMethod bool

	Name   names.NameRef
	Params []Node // each entry is *Local or *OptionalArg
	Body   Node

	DeclLoc *report.TextSpan

	// Symbol is populated by the namer.
	Symbol core.SymbolRef
}
