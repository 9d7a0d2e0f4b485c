// Package index implements the per-file indexing pipeline:
// read -> strictness resolution -> cache lookup -> parse -> desugar ->
// optional plugin rewrite -> DSL passes -> local-variable resolution,
// short-circuited by a caller-supplied stop phase and failure-isolated per
// file.
package index

// StopPhase names a pipeline phase at which processing should stop and the
// output produced so far returned.
type StopPhase int

const (
	StopNever StopPhase = iota
	StopInit
	StopParser
	StopDesugarer
	StopDSL
	StopLocalVars
	StopNamer
	StopResolver
	StopCFG
	StopInferencer
)
