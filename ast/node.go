// Package ast defines the tagged union of expression-tree nodes produced by
// parsing/desugaring and consumed by the namer and incremental resolver.
// Node kinds are expressed as a sealed interface plus exhaustive type
// switches, rather than a class hierarchy.
package ast

import (
	"sigil/names"
	"sigil/report"
)

// Node is the interface implemented by every tree node.
type Node interface {
	Span() *report.TextSpan
}

// Base is embedded by every concrete node to supply Span(). Loc is exported
// so that gob, which the parse-tree cache encodes trees with, can serialize
// every node that embeds it.
type Base struct {
	Loc *report.TextSpan
}

func NewBase(span *report.TextSpan) Base { return Base{Loc: span} }

func (b Base) Span() *report.TextSpan { return b.Loc }

// -----------------------------------------------------------------------------

// EmptyTree is the "nothing here" node: the rewritten form of an unsupported
// constant scope and the result of indexing a file that was skipped,
// ignored, or failed.
type EmptyTree struct{ Base }

// Self is the bare `self` receiver/scope marker.
type Self struct{ Base }

// InsSeq is a sequence of statements.
type InsSeq struct {
	Base
	Stmts []Node
}

// RootTree is the file-level top sequence: a class-def scope standing in
// for the top-level class as the owner of top-level static fields. The namer
// registers no static initializer for it.
type RootTree struct {
	Base
	Stmts []Node
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitSymbol
	LitBool
	LitNil
)

// Literal is a literal value.
type Literal struct {
	Base
	Kind  LiteralKind
	Int   int64
	Float float64
	Str   string
	Sym   names.NameRef
	Bool  bool
}

// Hash is a literal hash/map expression.
type Hash struct {
	Base
	Keys   []Node
	Values []Node
}

// Cast is a type-assertion wrapper (`T.let(...)` and similar); it passes
// through the namer untouched but must round-trip cache serialization.
type Cast struct {
	Base
	Expr Node
	Type Node
}
