package index

import (
	"bytes"
	"regexp"

	"sigil/ast"
	"sigil/cache"
	"sigil/config"
	"sigil/core"
	"sigil/fs"
	"sigil/report"
)

// ParsedFile is the output of indexing one file: its tree, still in the
// worker's private name-space, plus any plugin-generated source files
// surfaced for a second indexing pass.
type ParsedFile struct {
	File            core.FileRef
	Tree            ast.Node
	PluginGenerated []PluginGeneratedFile
}

// Indexer runs the per-file pipeline. The parser, desugarer, DSL runner,
// and plugin rewriter are out-of-scope collaborators; Indexer ships noop
// implementations so the surrounding plumbing is exercisable without them.
type Indexer struct {
	Parser    Parser
	Desugarer Desugarer
	DSL       DSLRunner
	Plugin    PluginRewriter
	Store     cache.Store
	Read      func(path string) ([]byte, error)
}

// New returns an Indexer wired with noop collaborators, an in-memory cache,
// and fs.Read — suitable for tests and as a base to override individual
// collaborators on.
func New() *Indexer {
	return &Indexer{
		Parser:    noopParser{},
		Desugarer: noopDesugarer{},
		DSL:       noopDSLRunner{},
		Plugin:    noopPluginRewriter{},
		Store:     cache.NewMemStore(),
		Read:      fs.Read,
	}
}

var sigilCommentRe = regexp.MustCompile(`^#\s*sigil:\s*(\w+)`)

// IndexFile runs the indexing pipeline for one already-reserved file. path
// must match the file's AbsPath (the file table slot must have been
// reserved by the caller before this is called). suppressDSL skips the DSL
// pass; stopAfter short-circuits after the named phase.
func (ix *Indexer) IndexFile(state *core.GlobalState, ref core.FileRef, path string, cfg *config.Config, suppressDSL bool, stopAfter StopPhase) (pf ParsedFile) {
	pf = ParsedFile{File: ref, Tree: &ast.EmptyTree{}}
	defer report.CatchErrors(path)

	f := state.Files.Get(ref)
	if f == nil {
		report.Violate("index: IndexFile: file %d was never reserved", ref)
	}

	if f.Source == nil {
		ix.readAndClassify(state, f, path, cfg)
	}

	if stopAfter == StopInit {
		return
	}

	if f.StrictLevel == core.StrictIgnore {
		return
	}

	key := cache.Key(path, f.Source)
	if raw, hit := ix.Store.Read(key); hit {
		if tree, ok := cache.DecodeTree(raw, ref); ok {
			f.CachedParseTree = true
			pf.Tree = tree
			return
		}
	}

	ns1 := state.UnfreezeNames()
	tree, err := ix.Parser.Parse(state, ref, f.Source)
	ns1.Release()
	if err != nil {
		panic(report.Raise(report.ParserErrorClass, nil, "%s", err.Error()))
	}

	if stopAfter == StopParser {
		pf.Tree = tree
		return
	}

	ns2 := state.UnfreezeNames()
	tree, err = ix.Desugarer.Desugar(state, ref, tree)
	ns2.Release()
	if err != nil {
		panic(report.Raise(report.ParserErrorClass, nil, "%s", err.Error()))
	}

	if stopAfter == StopDesugarer {
		pf.Tree = tree
		return
	}

	if ix.Plugin != nil {
		rewritten, generated, err := ix.Plugin.Rewrite(state, ref, tree)
		if err != nil {
			panic(report.Raise(report.ParserErrorClass, nil, "%s", err.Error()))
		}
		tree = rewritten
		pf.PluginGenerated = generated
	}

	if !suppressDSL {
		ns3 := state.UnfreezeNames()
		tree, err = ix.DSL.RunDSLPasses(state, ref, tree)
		ns3.Release()
		if err != nil {
			panic(report.Raise(report.ParserErrorClass, nil, "%s", err.Error()))
		}
	}

	if stopAfter == StopDSL {
		pf.Tree = tree
		return
	}

	tree = ResolveLocalVars(tree)

	if stopAfter == StopLocalVars {
		pf.Tree = tree
		return
	}

	if encoded, err := cache.EncodeTree(ref, tree); err == nil {
		ix.Store.Write(key, encoded)
	}

	pf.Tree = tree
	return
}

// IndexGeneratedFile indexes a plugin-generated source file, part of the
// coordinator's second pass: path is reserved fresh in state and the
// pipeline runs against the given source directly, skipping the file-read
// step since the content is already in hand.
func (ix *Indexer) IndexGeneratedFile(state *core.GlobalState, path string, source []byte, cfg *config.Config, suppressDSL bool, stopAfter StopPhase) (pf ParsedFile) {
	fscope := state.UnfreezeFiles()
	ref := state.Files.Reserve(path)
	f := state.Files.Get(ref)
	f.Source = source
	f.Lines = bytes.Count(source, []byte("\n")) + 1
	if m := sigilCommentRe.FindSubmatch(firstLine(source)); m != nil {
		if lvl, perr := config.ParseStrictLevel(string(m[1])); perr == nil {
			f.OriginalSigil = lvl
			f.HasSigil = true
		}
	}
	f.StrictLevel = classifyStrictLevel(f, path, cfg, state)
	fscope.Release()

	return ix.IndexFile(state, ref, path, cfg, suppressDSL, stopAfter)
}

func (ix *Indexer) readAndClassify(state *core.GlobalState, f *core.File, path string, cfg *config.Config) {
	source, err := ix.Read(path)
	if err != nil {
		state.Report(report.Diagnostic{
			File:     path,
			Class:    report.FileNotFoundClass,
			Messages: []string{err.Error()},
		})
		source = nil
	}

	f.Source = source
	f.Lines = bytes.Count(source, []byte("\n")) + 1

	if m := sigilCommentRe.FindSubmatch(firstLine(source)); m != nil {
		if lvl, perr := config.ParseStrictLevel(string(m[1])); perr == nil {
			f.OriginalSigil = lvl
			f.HasSigil = true
		}
	}

	f.StrictLevel = classifyStrictLevel(f, path, cfg, state)
}

func firstLine(source []byte) []byte {
	if i := bytes.IndexByte(source, '\n'); i >= 0 {
		return source[:i]
	}
	return source
}

// classifyStrictLevel resolves a file's effective strictness level from its
// own sigil comment, any configured override, and the config's clamp range.
func classifyStrictLevel(f *core.File, path string, cfg *config.Config, state *core.GlobalState) core.StrictLevel {
	normalized := config.NormalizePath(path)

	level := core.StrictFalse
	if f.HasSigil {
		level = f.OriginalSigil
	}

	if override, ok := cfg.Override(normalized); ok {
		if f.HasSigil && override == f.OriginalSigil {
			state.Report(report.Diagnostic{
				File:     path,
				Class:    report.UselessStrictnessOverride,
				Messages: []string{"strictness override matches the file's own sigil"},
			})
		}
		level = override
	}

	if level.Clampable() {
		if level < cfg.ForceMinStrict {
			level = cfg.ForceMinStrict
		}
		if level > cfg.ForceMaxStrict {
			level = cfg.ForceMaxStrict
		}
	}

	if cfg.RunningUnderAutogen {
		level = core.StrictFalse
	}

	return level
}
