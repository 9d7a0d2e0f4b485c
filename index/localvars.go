package index

import (
	"sigil/ast"
	"sigil/names"
)

// localScope tracks which NameRefs are bound as locals in the current
// lexical context. Classes and methods start a fresh, isolated scope (Ruby
// locals don't leak across a `class`/`def` boundary); blocks close over
// their enclosing scope's bindings.
type localScope struct {
	frames []map[names.NameRef]bool
}

func newLocalScope() *localScope {
	return &localScope{frames: []map[names.NameRef]bool{{}}}
}

func (s *localScope) pushNested() {
	s.frames = append(s.frames, map[names.NameRef]bool{})
}

func (s *localScope) pushIsolated() []map[names.NameRef]bool {
	saved := s.frames
	s.frames = []map[names.NameRef]bool{{}}
	return saved
}

func (s *localScope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *localScope) restore(saved []map[names.NameRef]bool) {
	s.frames = saved
}

func (s *localScope) declare(ref names.NameRef) {
	s.frames[len(s.frames)-1][ref] = true
}

func (s *localScope) isDeclared(ref names.NameRef) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][ref] {
			return true
		}
	}
	return false
}

// ResolveLocalVars runs local-variable resolution over a desugared tree:
// every local-variable reference is rewritten to a resolved *ast.Local if
// it was previously assigned in an enclosing lexical scope, or to an
// implicit no-argument *ast.Send (a bare identifier that was never
// assigned is a method call) otherwise. Namer treats any remaining local
// UnresolvedIdent as a contract violation, so this pass must not leave any
// behind.
func ResolveLocalVars(tree ast.Node) ast.Node {
	return resolveNode(tree, newLocalScope())
}

func resolveNode(node ast.Node, scope *localScope) ast.Node {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.EmptyTree, *ast.Self, *ast.Literal:
		return node

	case *ast.UnresolvedIdent:
		if n.Kind != ast.IdentLocal {
			return n
		}
		if scope.isDeclared(n.Name) {
			return &ast.Local{Base: n.Base, Name: n.Name}
		}
		return &ast.Send{Base: n.Base, Method: n.Name}

	case *ast.Local:
		return n

	case *ast.UnresolvedConstantLit:
		n.Scope = resolveNode(n.Scope, scope)
		return n

	case *ast.ConstantLit, *ast.Field:
		return node

	case *ast.OptionalArg:
		if n.Inner != nil {
			n.Default = resolveNode(n.Default, scope)
			scope.declare(n.Inner.Name)
		}
		return n

	case *ast.InsSeq:
		for i, stmt := range n.Stmts {
			n.Stmts[i] = resolveNode(stmt, scope)
		}
		return n

	case *ast.RootTree:
		for i, stmt := range n.Stmts {
			n.Stmts[i] = resolveNode(stmt, scope)
		}
		return n

	case *ast.Hash:
		for i := range n.Keys {
			n.Keys[i] = resolveNode(n.Keys[i], scope)
		}
		for i := range n.Values {
			n.Values[i] = resolveNode(n.Values[i], scope)
		}
		return n

	case *ast.Cast:
		n.Expr = resolveNode(n.Expr, scope)
		return n

	case *ast.Block:
		scope.pushNested()
		for _, p := range n.Params {
			if p != nil {
				scope.declare(p.Name)
			}
		}
		n.Body = resolveNode(n.Body, scope)
		scope.pop()
		return n

	case *ast.Send:
		if n.Receiver != nil {
			n.Receiver = resolveNode(n.Receiver, scope)
		}
		for i := range n.Args {
			n.Args[i] = resolveNode(n.Args[i], scope)
		}
		if n.Block != nil {
			n.Block = resolveNode(n.Block, scope).(*ast.Block)
		}
		return n

	case *ast.Assign:
		n.RHS = resolveNode(n.RHS, scope)
		if ident, ok := n.LHS.(*ast.UnresolvedIdent); ok && ident.Kind == ast.IdentLocal {
			scope.declare(ident.Name)
			n.LHS = &ast.Local{Base: ident.Base, Name: ident.Name}
		} else {
			n.LHS = resolveNode(n.LHS, scope)
		}
		return n

	case *ast.ClassDef:
		n.Scope = resolveNode(n.Scope, scope)
		if n.Superclass != nil {
			n.Superclass = resolveNode(n.Superclass, scope)
		}
		saved := scope.pushIsolated()
		for i, stmt := range n.Body {
			n.Body[i] = resolveNode(stmt, scope)
		}
		scope.restore(saved)
		return n

	case *ast.MethodDef:
		saved := scope.pushIsolated()
		for i, p := range n.Params {
			switch param := p.(type) {
			case *ast.Local:
				if !param.Shadow {
					scope.declare(param.Name)
				}
			case *ast.OptionalArg:
				n.Params[i] = resolveNode(param, scope)
			}
		}
		n.Body = resolveNode(n.Body, scope)
		scope.restore(saved)
		return n

	default:
		panic("index: ResolveLocalVars: unhandled node kind")
	}
}
