package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/report"
)

func TestCatchErrorsDowngradesLocalCompileError(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)

	func() {
		defer report.CatchErrors("foo.rb")
		panic(report.Raise(report.DynamicConstant, nil, "bad scope"))
	}()

	require.True(t, report.AnyErrors())
	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, report.DynamicConstant, diags[0].Class)
	require.Equal(t, "foo.rb", diags[0].File)
}

func TestCatchErrorsDowngradesContractViolationInRelease(t *testing.T) {
	t.Setenv("SIGIL_DEBUG", "")
	report.ResetForTest(report.LogLevelSilent)

	func() {
		defer report.CatchErrors("foo.rb")
		report.Violate("double substitution")
	}()

	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, report.InternalErrorClass, diags[0].Class)
}

func TestCatchErrorsDowngradesPlainError(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)

	func() {
		defer report.CatchErrors("foo.rb")
		panic("some unexpected failure")
	}()

	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, report.InternalErrorClass, diags[0].Class)
}

func TestNoPanicMeansNoDiagnostic(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)

	func() {
		defer report.CatchErrors("foo.rb")
	}()

	require.False(t, report.AnyErrors())
	require.Empty(t, report.Diagnostics())
}

func TestDebugModeFromEnv(t *testing.T) {
	t.Setenv("SIGIL_DEBUG", "1")
	require.True(t, report.DebugMode())

	t.Setenv("SIGIL_DEBUG", "")
	require.False(t, report.DebugMode())
}
