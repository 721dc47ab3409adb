// SPDX-License-Identifier: MPL-2.0

// Package runner spawns benchmark child processes, after making sure the
// executable is built, and captures their standard output under one of
// three strategies: an in-process pipe, a temporary file, or pass-through
// to the calling process's streams.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// backtraceEnv forces full backtraces in the child so decoder panics are
// diagnosable from the captured output.
const backtraceEnv = "RUST_BACKTRACE=full"

const (
	// CapturePipe buffers the child's stdout in memory and returns it after
	// the child exits. The default.
	CapturePipe CaptureMode = iota
	// CaptureTempFile redirects stdout to a temporary file, reads it back
	// after the child exits, and deletes it. Use when output volume could
	// exceed comfortable pipe buffering.
	CaptureTempFile
	// CaptureInherit passes stdout through to the calling process's own
	// stdout; nothing is captured.
	CaptureInherit
)

// ErrUnknownCaptureMode is the sentinel error for unrecognized capture modes.
var ErrUnknownCaptureMode = errors.New("unknown capture mode")

type (
	// CaptureMode selects what happens to the child's standard output.
	// A closed set of variants instead of independent boolean flags, so
	// invalid combinations cannot be expressed.
	CaptureMode int

	// Options configures a single run.
	Options struct {
		// Capture selects the stdout strategy. Zero value is CapturePipe.
		Capture CaptureMode
		// MergeStderr routes the child's stderr to whichever stdout
		// destination Capture selected; otherwise stderr passes through to
		// the calling process's stderr.
		MergeStderr bool
		// Dir is the child's working directory; empty means inherit.
		Dir string
	}

	// BuildCoordinator guarantees the benchmark executable is compiled
	// before a run. Tests substitute a fake to assert it is consulted
	// exactly once per run.
	BuildCoordinator interface {
		EnsureBuilt(ctx context.Context, extraArgs ...string) error
	}

	// Result reports one finished child process.
	Result struct {
		// Output is the captured stdout text; empty for CaptureInherit.
		Output string
		// ExitCode is the child's exit status. Non-zero exits are reported
		// here, not as errors: the caller decides whether they are
		// acceptable.
		ExitCode ExitCode
	}

	// Runner executes benchmark commands one at a time, blocking until each
	// child terminates. It adds no retry, timeout, or scheduling; a caller
	// wanting parallel sweeps runs multiple independent instances.
	Runner struct {
		build  BuildCoordinator
		logger *log.Logger
	}
)

// String returns the CLI-facing name of the capture mode.
func (m CaptureMode) String() string {
	switch m {
	case CapturePipe:
		return "pipe"
	case CaptureTempFile:
		return "tmpfile"
	case CaptureInherit:
		return "inherit"
	default:
		return fmt.Sprintf("capture(%d)", int(m))
	}
}

// ParseCaptureMode parses a CLI-facing capture mode name.
func ParseCaptureMode(s string) (CaptureMode, error) {
	switch s {
	case "pipe":
		return CapturePipe, nil
	case "tmpfile":
		return CaptureTempFile, nil
	case "inherit":
		return CaptureInherit, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: pipe, tmpfile, inherit)", ErrUnknownCaptureMode, s)
	}
}

// New creates a Runner backed by the given build coordinator.
func New(build BuildCoordinator) *Runner {
	return &Runner{build: build, logger: log.Default()}
}

// WithLogger overrides the runner's logger and returns the runner.
func (r *Runner) WithLogger(logger *log.Logger) *Runner {
	r.logger = logger
	return r
}

// Run executes argv and returns the captured output and exit status.
//
// Every run consults the build coordinator first, so callers always get a
// fresh-enough executable. The child inherits the parent environment with
// RUST_BACKTRACE forced to "full". Run blocks until the child terminates.
// Spawn and capture-IO failures are errors; a non-zero child exit is not.
func (r *Runner) Run(ctx context.Context, argv []string, opts Options) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	if r.build == nil {
		return nil, errors.New("runner has no build coordinator")
	}

	if err := r.build.EnsureBuilt(ctx); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), backtraceEnv)

	var stdoutBuf bytes.Buffer
	var tmp *os.File

	switch opts.Capture {
	case CapturePipe:
		cmd.Stdout = &stdoutBuf
	case CaptureTempFile:
		f, err := os.CreateTemp("", "fbbench-out-*")
		if err != nil {
			return nil, fmt.Errorf("create temp output file: %w", err)
		}
		// Cleanup runs on every exit path so failed runs don't leak files.
		defer func() {
			f.Close()
			os.Remove(f.Name())
		}()
		tmp = f
		cmd.Stdout = tmp
	case CaptureInherit:
		cmd.Stdout = os.Stdout
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCaptureMode, int(opts.Capture))
	}

	if opts.MergeStderr {
		cmd.Stderr = cmd.Stdout
	} else {
		cmd.Stderr = os.Stderr
	}

	r.logger.Debug("running benchmark command", "argv", argv, "capture", opts.Capture)

	exit := ExitCode(0)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run benchmark command: %w", err)
		}
		exit = ExitCode(exitErr.ExitCode())
	}

	output := ""
	switch opts.Capture {
	case CapturePipe:
		output = stdoutBuf.String()
	case CaptureTempFile:
		data, err := os.ReadFile(tmp.Name())
		if err != nil {
			return nil, fmt.Errorf("read temp output file: %w", err)
		}
		output = string(data)
	}

	return &Result{Output: output, ExitCode: exit}, nil
}
