package report

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Enumeration of log levels, in increasing verbosity.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// Reporter is the process-wide, mutex-guarded diagnostic sink. Its methods
// are safe to call concurrently -- in particular, from the indexer
// coordinator's worker goroutines.
type Reporter struct {
	mu       sync.Mutex
	logLevel int
	isErr    bool
	sink     []Diagnostic // retained for callers that want to inspect results (tests, LSP-like consumers)
}

var rep *Reporter

// InitReporter initializes the global reporter at the given log level. Does
// nothing if already initialized.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = &Reporter{logLevel: logLevel}
	}
}

// ResetForTest reinitializes the global reporter; intended for test setup
// only so each test starts with a clean AnyErrors()/sink state.
func ResetForTest(logLevel int) {
	rep = &Reporter{logLevel: logLevel}
}

func ensureInit() {
	if rep == nil {
		InitReporter(LogLevelVerbose)
	}
}

// Report records a diagnostic and renders it if the current log level
// permits: errors are displayed at LogLevelError and above, warnings at
// LogLevelWarn and above. Every diagnostic is recorded in the sink whether
// or not it is displayed, so AnyErrors/Diagnostics remain accurate at any
// log level.
func Report(d Diagnostic) {
	ensureInit()

	rep.mu.Lock()
	defer rep.mu.Unlock()

	rep.isErr = true
	rep.sink = append(rep.sink, d)

	if rep.logLevel >= LogLevelWarn || (rep.logLevel >= LogLevelError && !isWarningClass(d.Class)) {
		displayDiagnostic(d)
	}

	slog.Debug("report.diagnostic", "class", string(d.Class), "file", d.File)
}

// ICE reports an internal compiler error: always displayed, then exits the
// process. Contract violations surface this way only in debug builds.
func ICE(format string, args ...interface{}) {
	ensureInit()

	rep.mu.Lock()
	msg := fmt.Sprintf(format, args...)
	rep.mu.Unlock()

	pterm.Error.Println("internal error:", msg)
	os.Exit(2)
}

// AnyErrors reports whether any diagnostic has been recorded.
func AnyErrors() bool {
	ensureInit()
	rep.mu.Lock()
	defer rep.mu.Unlock()
	return rep.isErr
}

// Diagnostics returns a copy of every diagnostic recorded so far.
func Diagnostics() []Diagnostic {
	ensureInit()
	rep.mu.Lock()
	defer rep.mu.Unlock()
	out := make([]Diagnostic, len(rep.sink))
	copy(out, rep.sink)
	return out
}

// ShouldProceed reports whether a pipeline stage should continue: it bails
// out as soon as any error has been recorded, checked between phases.
func ShouldProceed() bool {
	return !AnyErrors()
}
