package index

import (
	"sigil/ast"
	"sigil/core"
)

// PluginGeneratedFile is a source file emitted by a subprocess plugin
// rewrite, to be indexed in the coordinator's second pass.
type PluginGeneratedFile struct {
	Path   string
	Source []byte
}

// Parser is the out-of-scope parse collaborator: turns raw source into a
// concrete tree, interning spellings into the name table as it goes. It is
// invoked under an unfreeze-names scope.
type Parser interface {
	Parse(state *core.GlobalState, file core.FileRef, source []byte) (ast.Node, error)
}

// Desugarer lowers a parsed tree into the abstract form the namer expects;
// out of scope here. Invoked under an unfreeze-names scope.
type Desugarer interface {
	Desugar(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, error)
}

// DSLRunner applies DSL expansions; out of scope here. Invoked under an
// unfreeze-names scope.
type DSLRunner interface {
	RunDSLPasses(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, error)
}

// PluginRewriter is the optional subprocess plugin collaborator, out of
// scope here: may rewrite the tree and emit additional source files to
// index in a second pass.
type PluginRewriter interface {
	Rewrite(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, []PluginGeneratedFile, error)
}

// noopParser/noopDesugarer/noopDSLRunner/noopPluginRewriter are pass-through
// collaborators used when a real parser/desugarer/DSL runner/plugin isn't
// wired in (tests of the surrounding plumbing, stop-after-Init callers).

type noopParser struct{}

func (noopParser) Parse(state *core.GlobalState, file core.FileRef, source []byte) (ast.Node, error) {
	return &ast.RootTree{}, nil
}

type noopDesugarer struct{}

func (noopDesugarer) Desugar(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, error) {
	return tree, nil
}

type noopDSLRunner struct{}

func (noopDSLRunner) RunDSLPasses(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, error) {
	return tree, nil
}

type noopPluginRewriter struct{}

func (noopPluginRewriter) Rewrite(state *core.GlobalState, file core.FileRef, tree ast.Node) (ast.Node, []PluginGeneratedFile, error) {
	return tree, nil, nil
}
