package daemon

import (
	"context"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/runner"
)

// hostRunner fills daemon-level defaults into requests before delegating to
// the Python host: cards without an explicit interpreter or timeout inherit
// the configured ones.
type hostRunner struct {
	inner            runner.ScriptRunner
	pythonPath       string
	defaultTimeoutMs int
}

func (h *hostRunner) Run(ctx context.Context, req runner.Request) (runner.Result, error) {
	if req.InterpreterPath == "" {
		req.InterpreterPath = h.pythonPath
	}
	if req.TimeoutMs <= 0 {
		req.TimeoutMs = h.defaultTimeoutMs
	}
	return h.inner.Run(ctx, req)
}
