package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"sigil/cache"
	"sigil/config"
	"sigil/coordinate"
	"sigil/core"
	"sigil/index"
	"sigil/report"
	"sigil/resolve"
)

// Driver holds the state of one invocation of the indexing core: one place
// that owns the global state and runs the pipeline stages in order.
type Driver struct {
	Config      *config.Config
	State       *core.GlobalState
	Coordinator *coordinate.Coordinator
}

// NewDriver wires an Indexer and Coordinator over cfg, using an on-disk
// parse-tree cache under cfg.CacheDir unless caching is disabled.
func NewDriver(cfg *config.Config) *Driver {
	ix := index.New()
	if cfg.CacheDir != "" {
		ix.Store = cache.NewDiskStore(cfg.CacheDir)
	}

	return &Driver{
		Config:      cfg,
		State:       core.NewGlobalState(),
		Coordinator: coordinate.New(ix, cfg),
	}
}

// Check runs the full pipeline over paths: indexing (parse, desugar, DSL,
// local-var resolution) via the coordinator, followed by the incremental
// resolve entry's naming and tree-pass-only resolution
// (resolve.ResolveIncremental). It returns true if no diagnostic was
// reported during either stage.
//
// Code generation and later stages have no equivalent here, since this
// core stops at resolve.
func (d *Driver) Check(paths []string) bool {
	files, err := d.discoverAll(paths)
	if err != nil {
		report.Report(report.Diagnostic{
			Class:    report.FileNotFoundClass,
			Messages: []string{err.Error()},
		})
		return false
	}

	if len(files) == 0 {
		return true
	}

	parsed := d.Coordinator.Run(d.State, files)
	resolve.ResolveIncremental(d.State, parsed)

	return report.ShouldProceed()
}

func (d *Driver) discoverAll(roots []string) ([]string, error) {
	var all []string
	for _, root := range roots {
		files, err := discoverFiles(root)
		if err != nil {
			return nil, fmt.Errorf("discovering sources under %s: %w", root, err)
		}
		all = append(all, files...)
	}
	return all, nil
}

// reportSummary prints a one-line pass/fail banner in the same
// pterm-styled idiom as the coordinator's progress spinner.
func reportSummary(ok bool, fileCount int) {
	if ok {
		pterm.Success.Printfln("sigil: checked %d file(s), no errors", fileCount)
	} else {
		pterm.Error.Printfln("sigil: checked %d file(s), errors found", fileCount)
	}
}
