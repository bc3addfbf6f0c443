package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// candidate is one python invocation to try, in priority order.
type candidate struct {
	program     string
	preArgs     []string
	displayName string
}

// pythonCandidates returns the interpreters to try: an explicit path wins
// outright; otherwise platform defaults are probed in order.
func pythonCandidates(interpreterPath string) []candidate {
	if trimmed := strings.TrimSpace(interpreterPath); trimmed != "" {
		return []candidate{{program: trimmed, displayName: trimmed}}
	}
	if runtime.GOOS == "windows" {
		return []candidate{
			{program: "python", displayName: "python"},
			{program: "py", preArgs: []string{"-3"}, displayName: "py -3"},
		}
	}
	return []candidate{
		{program: "python3", displayName: "python3"},
		{program: "python", displayName: "python"},
	}
}

// PythonRunner executes .py scripts through a resolved interpreter. It is
// safe for concurrent use; interpreter probing is deduplicated and cached.
type PythonRunner struct {
	resolveGroup singleflight.Group
}

func NewPythonRunner() *PythonRunner {
	return &PythonRunner{}
}

// ValidateScriptPath checks that the path names an existing .py file.
func ValidateScriptPath(scriptPath string) error {
	if strings.TrimSpace(scriptPath) == "" {
		return errors.New("script_path is required")
	}
	info, err := os.Stat(scriptPath)
	if err != nil {
		return fmt.Errorf("script file not found: %s", scriptPath)
	}
	if info.IsDir() {
		return fmt.Errorf("script path is not a file: %s", scriptPath)
	}
	if filepath.Ext(scriptPath) != ".py" {
		return errors.New("script must be a .py file")
	}
	return nil
}

// Validate reports whether the script and an interpreter are usable, along
// with the interpreter that resolved.
func (r *PythonRunner) Validate(ctx context.Context, scriptPath, interpreterPath string) (bool, string, string) {
	if err := ValidateScriptPath(scriptPath); err != nil {
		return false, err.Error(), ""
	}
	c, err := r.resolve(ctx, interpreterPath)
	if err != nil {
		return false, "python interpreter is not available", ""
	}
	return true, "script and interpreter are valid", c.displayName
}

// resolve picks the first available candidate. Concurrent callers with the
// same interpreter preference share one probe.
func (r *PythonRunner) resolve(ctx context.Context, interpreterPath string) (candidate, error) {
	key := strings.TrimSpace(interpreterPath)
	v, err, _ := r.resolveGroup.Do(key, func() (any, error) {
		for _, c := range pythonCandidates(interpreterPath) {
			if candidateAvailable(ctx, c) {
				return c, nil
			}
		}
		return candidate{}, errors.New("failed to find available python interpreter")
	})
	if err != nil {
		return candidate{}, err
	}
	return v.(candidate), nil
}

func candidateAvailable(ctx context.Context, c candidate) bool {
	args := append(append([]string{}, c.preArgs...), "--version")
	cmd := exec.CommandContext(ctx, c.program, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// Run executes the script, enforcing the clamped timeout and killing the
// process on deadline. The returned error is reserved for host-level
// failures (no interpreter, spawn error); script failures land in Result.
func (r *PythonRunner) Run(ctx context.Context, req Request) (Result, error) {
	if err := ValidateScriptPath(req.ScriptPath); err != nil {
		return Result{}, err
	}

	c, err := r.resolve(ctx, req.InterpreterPath)
	if err != nil {
		return Result{}, err
	}

	timeout := time.Duration(ClampTimeoutMs(req.TimeoutMs)) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.preArgs...), req.ScriptPath)
	args = append(args, req.Args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, c.program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start).Milliseconds()

	timedOut := runCtx.Err() == context.DeadlineExceeded
	res := Result{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		TimedOut:   timedOut,
		DurationMs: duration,
	}

	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		if code >= 0 {
			res.ExitCode = &code
		}
	}

	if runErr != nil && !timedOut && cmd.ProcessState == nil {
		// The process never started.
		return Result{}, fmt.Errorf("failed to execute script with %s: %w", c.displayName, runErr)
	}

	res.OK = !timedOut && runErr == nil
	return res, nil
}
