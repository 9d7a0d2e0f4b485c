// Package coordinate implements the indexer coordinator: partitions files
// across a worker pool, each worker holding a deep-cloned global state, and
// sequentially merges per-worker results into the canonical global state
// via substitution.
package coordinate

import (
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"sigil/ast"
	"sigil/cache"
	"sigil/config"
	"sigil/core"
	"sigil/index"
	"sigil/subst"
)

// inlineThreshold: for fewer files than this, the coordinator runs
// everything inline on the caller's thread -- no cloning, no substitution.
const inlineThreshold = 3

// Coordinator runs the indexer across many files, in parallel once there
// are enough of them to be worth it.
type Coordinator struct {
	Indexer *index.Indexer
	Config  *config.Config

	// Workers caps the worker pool size; <=0 means runtime.NumCPU().
	Workers int
}

// New returns a Coordinator over the given indexer and config.
func New(ix *index.Indexer, cfg *config.Config) *Coordinator {
	return &Coordinator{Indexer: ix, Config: cfg}
}

type workerBatch struct {
	state   *core.GlobalState
	trees   []index.ParsedFile
	plugins []index.PluginGeneratedFile
}

// Run indexes every path against base, returning trees sorted by FileRef:
// the merge is order-independent up to ids, with the final result sorted
// by FileRef for determinism. base is mutated in place to become (or
// absorb) the canonical global state.
func (c *Coordinator) Run(base *core.GlobalState, paths []string) []index.ParsedFile {
	refs, pathByRef := c.reserveAll(base, paths)

	if len(paths) < inlineThreshold {
		return c.runInline(base, refs, pathByRef)
	}

	batches := c.runWorkers(base, refs, pathByRef)
	if len(batches) == 0 {
		return nil
	}

	canonical := batches[0].state
	merged := append([]index.ParsedFile{}, batches[0].trees...)
	pluginFiles := append([]index.PluginGeneratedFile{}, batches[0].plugins...)

	for _, b := range batches[1:] {
		c.mergeBatch(canonical, b, &merged)
		pluginFiles = append(pluginFiles, b.plugins...)
	}

	if len(pluginFiles) > 0 {
		merged = append(merged, c.runGeneratedFiles(canonical, pluginFiles)...)
	}

	*base = *canonical

	sort.Slice(merged, func(i, j int) bool { return merged[i].File < merged[j].File })
	return merged
}

func (c *Coordinator) reserveAll(base *core.GlobalState, paths []string) ([]core.FileRef, map[core.FileRef]string) {
	scope := base.UnfreezeFiles()
	defer scope.Release()

	refs := make([]core.FileRef, len(paths))
	pathByRef := make(map[core.FileRef]string, len(paths))
	for i, p := range paths {
		ref := base.Files.Reserve(p)
		refs[i] = ref
		pathByRef[ref] = p
	}
	return refs, pathByRef
}

func (c *Coordinator) runInline(base *core.GlobalState, refs []core.FileRef, pathByRef map[core.FileRef]string) []index.ParsedFile {
	out := make([]index.ParsedFile, 0, len(refs))
	for _, ref := range refs {
		out = append(out, c.Indexer.IndexFile(base, ref, pathByRef[ref], c.Config, false, index.StopNever))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

func (c *Coordinator) workerCount(n int) int {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// runWorkers: each worker gets its own deep clone of base, made on the
// calling goroutine before the worker starts, then pulls FileRefs from a
// shared bounded queue until it is drained, handing its accumulated batch
// to a result channel that the coordinator drains with a periodic progress
// tick.
func (c *Coordinator) runWorkers(base *core.GlobalState, refs []core.FileRef, pathByRef map[core.FileRef]string) []workerBatch {
	workers := c.workerCount(len(refs))

	queue := make(chan core.FileRef, len(refs))
	for _, r := range refs {
		queue <- r
	}
	close(queue)

	results := make(chan workerBatch, workers)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := 0; i < workers; i++ {
		workerState := base.DeepClone()
		g.Go(func() error {
			var trees []index.ParsedFile
			var plugins []index.PluginGeneratedFile
			for ref := range queue {
				pf := c.Indexer.IndexFile(workerState, ref, pathByRef[ref], c.Config, false, index.StopNever)
				trees = append(trees, pf)
				plugins = append(plugins, pf.PluginGenerated...)
			}
			if len(trees) > 0 {
				results <- workerBatch{state: workerState, trees: trees, plugins: plugins}
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	return c.drainWithProgress(results, len(refs))
}

func (c *Coordinator) drainWithProgress(results <-chan workerBatch, totalFiles int) []workerBatch {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan))
	spinner.Start("indexing 0/" + strconv.Itoa(totalFiles) + " files")
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var batches []workerBatch
	done := 0

	for results != nil {
		select {
		case b, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			batches = append(batches, b)
			done += len(b.trees)
			spinner.UpdateText("indexing " + strconv.Itoa(done) + "/" + strconv.Itoa(totalFiles) + " files")
		case <-ticker.C:
			// periodic tracer tick; nothing to recompute, just keeps the
			// spinner alive while waiting on slow workers.
		}
	}

	spinner.Success("indexed " + strconv.Itoa(totalFiles) + " files")
	return batches
}

// mergeBatch runs the sequential merge step: build a substitution from the
// worker's state to canonical, rewrite non-cache-hit trees, append, and
// write newly-computed trees back to the cache.
func (c *Coordinator) mergeBatch(canonical *core.GlobalState, b workerBatch, merged *[]index.ParsedFile) {
	sub := subst.Build(b.state, canonical)

	fscope := canonical.UnfreezeFiles()
	for _, pf := range b.trees {
		wf := b.state.Files.Get(pf.File)
		cf := canonical.Files.Get(pf.File)
		if wf != nil && cf != nil {
			*cf = *wf
		}
	}
	fscope.Release()

	// A Substitution is single-use, so it is applied once, to all of the
	// batch's freshly indexed trees together.
	var fresh []ast.Node
	for _, pf := range b.trees {
		if f := canonical.Files.Get(pf.File); f != nil && !f.CachedParseTree {
			fresh = append(fresh, pf.Tree)
		}
	}
	sub.Apply(&ast.InsSeq{Stmts: fresh})

	for _, pf := range b.trees {
		f := canonical.Files.Get(pf.File)
		if f != nil && !f.CachedParseTree {
			if encoded, err := cache.EncodeTree(pf.File, pf.Tree); err == nil {
				c.Indexer.Store.Write(cache.Key(f.AbsPath, f.Source), encoded)
			}
		}
		*merged = append(*merged, pf)
	}
}

// runGeneratedFiles indexes plugin-generated files against the canonical
// state directly, as a second pass merged with the first-pass trees. Since
// these files are new to every worker, indexing them directly on canonical
// needs no substitution of its own.
func (c *Coordinator) runGeneratedFiles(canonical *core.GlobalState, files []index.PluginGeneratedFile) []index.ParsedFile {
	out := make([]index.ParsedFile, 0, len(files))
	for _, gf := range files {
		out = append(out, c.Indexer.IndexGeneratedFile(canonical, gf.Path, gf.Source, c.Config, false, index.StopNever))
	}
	return out
}
