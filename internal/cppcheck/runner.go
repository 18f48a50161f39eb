package cppcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultExecutable is the bare command name resolved via the
	// system search path when no explicit tool path is configured.
	DefaultExecutable = "cppcheck"

	defaultTailBytes = 32 * 1024
)

// Runner executes the cppcheck binary. Runs for different inputs are
// independent; a Runner holds no per-run state and may be shared.
type Runner struct {
	path      string
	tailBytes int64
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithPath sets the cppcheck executable path or command name.
func WithPath(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.path = path
		}
	}
}

// WithTailBytes bounds the output tail retained for error reporting.
func WithTailBytes(n int64) Option {
	return func(r *Runner) { r.tailBytes = n }
}

// WithTimeout sets a per-run wall clock limit. Zero means no limit
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger for run lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner for the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		path:      DefaultExecutable,
		tailBytes: defaultTailBytes,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result holds the captured streams of one completed invocation.
// Exit codes 0 and 1 both land here: cppcheck exits 1 when it found
// issues, which is a normal outcome.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run invokes cppcheck with the given arguments and waits for it to
// exit. The only suspension point is awaiting process exit; stream
// accumulation is plain buffering.
//
// Spawn failures and exit codes above 1 return a *RunError (wrapping
// ErrToolNotFound when the executable cannot be located). The caller
// must not install diagnostics for a failed run.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.path, args...) //nolint:gosec // Path is explicit user configuration.
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	tail := newTailWriter(r.tailBytes)
	cmd.Stdout = io.MultiWriter(&stdout, tail)
	cmd.Stderr = io.MultiWriter(&stderr, tail)

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("cppcheck run finished",
		"args", strings.Join(args, " "),
		"duration", time.Since(start),
		"err", err)

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		res.ExitCode = code
		// 0 and 1 are "clean" and "found issues"; anything above is a
		// tool-level failure and the output must not be trusted.
		if code >= 0 && code <= 1 {
			return res, nil
		}
		return res, &RunError{Op: "cppcheck run", Err: err, ExitCode: &code, Output: tail.Tail()}
	case errors.Is(err, exec.ErrNotFound):
		return res, &RunError{Op: "cppcheck run", Err: fmt.Errorf("%w: %s", ErrToolNotFound, r.path)}
	default:
		return res, &RunError{Op: "cppcheck spawn", Err: err, Output: tail.Tail()}
	}
}

// Probe verifies the configured executable exists and answers a
// version query. It returns the reported version string.
func (r *Runner) Probe(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(r.path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, r.path)
	}
	res, err := r.Run(ctx, "", "--version")
	if err != nil {
		return "", fmt.Errorf("%w: version probe failed: %v", ErrToolNotFound, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}
