package report

import (
	"fmt"
)

// Class enumerates the diagnostic classes this core emits.
type Class string

const (
	DynamicConstant           Class = "DynamicConstant"
	InvalidClassOwner          Class = "InvalidClassOwner"
	ModuleKindRedefinition      Class = "ModuleKindRedefinition"
	AncestorNotConstant         Class = "AncestorNotConstant"
	IncludeMultipleParam        Class = "IncludeMultipleParam"
	IncludePassedBlock          Class = "IncludePassedBlock"
	InterfaceClass              Class = "InterfaceClass"
	MultipleBehaviorDefs        Class = "MultipleBehaviorDefs"
	RedefinitionOfMethod        Class = "RedefinitionOfMethod"
	DynamicDSLInvocation        Class = "DynamicDSLInvocation"
	MethodNotFound              Class = "MethodNotFound"
	DynamicConstantAssignment   Class = "DynamicConstantAssignment"
	InvalidTypeDefinition        Class = "InvalidTypeDefinition"
	RootTypeMember               Class = "RootTypeMember"
	UselessStrictnessOverride    Class = "UselessStrictnessOverride"
	ParserErrorClass             Class = "ParserError"
	InternalErrorClass           Class = "InternalError"
	FileNotFoundClass            Class = "FileNotFound"
)

// Diagnostic is a structured error/warning surfaced to the error queue:
// { file, range, class, messages[], annotations[], fix-its[] }.
type Diagnostic struct {
	File        string
	Span        *TextSpan
	Class       Class
	Messages    []string
	Annotations []string
	FixIts      []string
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compile error raised in a context where the file is
// already known to the caller (it will be attached by CatchErrors).
type LocalCompileError struct {
	Class   Class
	Span    *TextSpan
	Message string
}

func (e *LocalCompileError) Error() string { return e.Message }

// Raise builds a LocalCompileError for `panic`. It is the idiom the indexer
// uses for reporting an error and unwinding back to
// the nearest CatchErrors without threading a bool return through every
// call in between.
func Raise(class Class, span *TextSpan, format string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Class: class, Span: span, Message: fmt.Sprintf(format, args...)}
}

// -----------------------------------------------------------------------------

// ContractViolation marks a panic value as an internal-invariant failure
// (frozen-table mutation, double substitution, an impossible name kind)
// rather than an ordinary error. These are fatal only in debug builds;
// CatchErrors re-raises them as an ICE when DebugMode is set and otherwise
// downgrades them like any other panic.
type ContractViolation struct {
	Message string
}

func (e *ContractViolation) Error() string { return e.Message }

// Violate panics with a ContractViolation. Call sites that detect an
// impossible state (a frozen table mutated, a substitution applied twice,
// an unreachable name-kind branch) use this instead of a plain panic so
// CatchErrors can distinguish contract bugs from ordinary compile errors.
func Violate(format string, args ...interface{}) {
	panic(&ContractViolation{Message: fmt.Sprintf(format, args...)})
}

// -----------------------------------------------------------------------------

// CatchErrors isolates failures while processing a single file. It must
// always be deferred. Any panic is downgraded to a diagnostic on file and
// the enclosing call proceeds as if it had returned an empty result:
//
//   - a *LocalCompileError becomes a diagnostic of its own Class
//   - a *ContractViolation becomes an ICE in debug builds, an InternalError
//     diagnostic otherwise
//   - any other error/value becomes an InternalError diagnostic
//
// file is the absolute path attached to the diagnostic.
func CatchErrors(file string) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *LocalCompileError:
			Report(Diagnostic{File: file, Span: v.Span, Class: v.Class, Messages: []string{v.Message}})
		case *ContractViolation:
			if DebugMode() {
				ICE("%s", v.Message)
			} else {
				Report(Diagnostic{File: file, Class: InternalErrorClass, Messages: []string{v.Message}})
			}
		case error:
			Report(Diagnostic{File: file, Class: InternalErrorClass, Messages: []string{v.Error()}})
		default:
			Report(Diagnostic{File: file, Class: InternalErrorClass, Messages: []string{fmt.Sprintf("%v", v)}})
		}
	}
}
