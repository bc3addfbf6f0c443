// Package runner provides the script execution capability cards refresh
// through, plus the default Python host implementation.
package runner

import "context"

// Timeout bounds enforced on every run, in milliseconds.
const (
	MinTimeoutMs     = 1000
	MaxTimeoutMs     = 120000
	DefaultTimeoutMs = 10000
)

// Request describes one script execution.
type Request struct {
	ScriptPath      string
	Args            []string
	InterpreterPath string
	TimeoutMs       int
}

// Result is the raw outcome of a script run. Non-zero exit, timeout, and
// unparsable stdout are all treated as failure downstream, but the
// distinguishing fields are preserved for diagnostics.
type Result struct {
	OK         bool
	Stdout     string
	Stderr     string
	ExitCode   *int
	TimedOut   bool
	DurationMs int64
}

// ScriptRunner executes card scripts. The core depends only on this
// capability; PythonRunner is the default host.
type ScriptRunner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// ClampTimeoutMs pulls a requested timeout into the supported range; zero
// or negative selects the default.
func ClampTimeoutMs(ms int) int {
	if ms <= 0 {
		ms = DefaultTimeoutMs
	}
	if ms < MinTimeoutMs {
		return MinTimeoutMs
	}
	if ms > MaxTimeoutMs {
		return MaxTimeoutMs
	}
	return ms
}
