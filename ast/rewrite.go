package ast

import "sigil/names"

// RewriteNames walks node and every node reachable from it, rewriting each
// names.NameRef field through f. This is the tree-rewriting half of global
// substitution: applying a substitution to a tree is a tree walk that
// rewrites every NameRef field through the map. The tree is mutated in
// place; callers that need the original must copy it first.
func RewriteNames(node Node, f func(names.NameRef) names.NameRef) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *EmptyTree, *Self:
		// no NameRef fields

	case *InsSeq:
		for _, s := range n.Stmts {
			RewriteNames(s, f)
		}
	case *RootTree:
		for _, s := range n.Stmts {
			RewriteNames(s, f)
		}
	case *Literal:
		if n.Kind == LitSymbol {
			n.Sym = f(n.Sym)
		}
	case *Hash:
		for _, k := range n.Keys {
			RewriteNames(k, f)
		}
		for _, v := range n.Values {
			RewriteNames(v, f)
		}
	case *Cast:
		RewriteNames(n.Expr, f)
		RewriteNames(n.Type, f)

	case *UnresolvedIdent:
		n.Name = f(n.Name)
	case *Local:
		n.Name = f(n.Name)
	case *OptionalArg:
		if n.Inner != nil {
			RewriteNames(n.Inner, f)
		}
		RewriteNames(n.Default, f)
	case *UnresolvedConstantLit:
		RewriteNames(n.Scope, f)
		n.Name = f(n.Name)
	case *ConstantLit:
		n.Name = f(n.Name)
	case *Field:
		n.Name = f(n.Name)

	case *Block:
		for _, p := range n.Params {
			if p != nil {
				RewriteNames(p, f)
			}
		}
		RewriteNames(n.Body, f)
	case *Send:
		RewriteNames(n.Receiver, f)
		n.Method = f(n.Method)
		for _, a := range n.Args {
			RewriteNames(a, f)
		}
		if n.Block != nil {
			RewriteNames(n.Block, f)
		}
	case *Assign:
		RewriteNames(n.LHS, f)
		RewriteNames(n.RHS, f)
	case *ClassDef:
		RewriteNames(n.Scope, f)
		RewriteNames(n.Superclass, f)
		for _, s := range n.Body {
			RewriteNames(s, f)
		}
	case *MethodDef:
		n.Name = f(n.Name)
		for _, p := range n.Params {
			RewriteNames(p, f)
		}
		RewriteNames(n.Body, f)

	default:
		panic("ast: RewriteNames: unhandled node kind")
	}
}
