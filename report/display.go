package report

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

var (
	errorTag = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnTag  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
)

// displayDiagnostic prints one diagnostic in a banner-plus-message style: a
// colored tag, then the message, then an optional span.
func displayDiagnostic(d Diagnostic) {
	tag := errorTag
	label := "error"
	if isWarningClass(d.Class) {
		tag = warnTag
		label = "warning"
	}

	tag.Print(fmt.Sprintf(" %s: %s ", label, d.Class))
	fmt.Print(" ")

	if d.File != "" {
		if d.Span != nil {
			fmt.Printf("%s:%d:%d: ", d.File, d.Span.StartLine+1, d.Span.StartCol+1)
		} else {
			fmt.Printf("%s: ", d.File)
		}
	}

	for i, msg := range d.Messages {
		if i > 0 {
			fmt.Print("; ")
		}
		fmt.Print(msg)
	}
	fmt.Println()

	for _, a := range d.Annotations {
		fmt.Println("  note:", a)
	}
}

func isWarningClass(c Class) bool {
	return c == UselessStrictnessOverride
}

// DebugMode reports whether the pipeline is running with contract-violation
// checking enabled, making violations fatal rather than downgraded
// diagnostics. It is driven by the SIGIL_DEBUG environment variable rather
// than a build tag so that tests in this module can exercise both code
// paths without separate build configurations.
func DebugMode() bool {
	return os.Getenv("SIGIL_DEBUG") != ""
}
