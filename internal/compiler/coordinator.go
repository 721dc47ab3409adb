// SPDX-License-Identifier: MPL-2.0

// Package compiler guarantees the benchmark executable is compiled at most
// once per process before any benchmark run.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultBuildArgv is the release build invocation, run in the project root.
var DefaultBuildArgv = []string{"cargo", "build", "--release"}

// ErrBuildFailed is wrapped by every compilation failure so callers can
// recognize the fatal class with errors.Is.
var ErrBuildFailed = errors.New("benchmark executable build failed")

// unsafePointerArgs is appended when the unsafe-pointer feature is enabled.
var unsafePointerArgs = []string{"--features", "unsafe_pointer"}

type (
	// Coordinator memoizes the compilation of the benchmark executable. It
	// is injected into every runner rather than living as a package-level
	// singleton, so tests can substitute a fake and assert call counts.
	//
	// The compiled flag flips false->true exactly once and never back; the
	// mutex makes EnsureBuilt safe from concurrent call sites.
	Coordinator struct {
		mu       sync.Mutex
		compiled bool

		dir                 string
		enableUnsafePointer bool
		extraArgs           []string
		buildArgv           []string
		stdout              io.Writer
		stderr              io.Writer
		logger              *log.Logger
	}

	// CoordinatorOption configures a Coordinator.
	CoordinatorOption func(*Coordinator)
)

// WithAlreadyCompiled marks the executable as built out-of-band; EnsureBuilt
// becomes a no-op from the first call.
func WithAlreadyCompiled(done bool) CoordinatorOption {
	return func(c *Coordinator) { c.compiled = done }
}

// WithUnsafePointer enables the unsafe_pointer build feature.
func WithUnsafePointer(enabled bool) CoordinatorOption {
	return func(c *Coordinator) { c.enableUnsafePointer = enabled }
}

// WithExtraArgs appends arguments to every build invocation.
func WithExtraArgs(args []string) CoordinatorOption {
	return func(c *Coordinator) { c.extraArgs = args }
}

// WithBuildArgv overrides the build invocation. Tests point it at a stub.
func WithBuildArgv(argv []string) CoordinatorOption {
	return func(c *Coordinator) { c.buildArgv = argv }
}

// WithOutput overrides where the build's stdout and stderr go. The default
// inherits the calling process's streams so compiler diagnostics stay
// visible.
func WithOutput(stdout, stderr io.Writer) CoordinatorOption {
	return func(c *Coordinator) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithLogger overrides the coordinator's logger.
func WithLogger(logger *log.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator creates a build coordinator for the project root at dir.
func NewCoordinator(dir string, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		dir:       dir,
		buildArgv: DefaultBuildArgv,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureBuilt compiles the benchmark executable unless it has already been
// built this process (or was marked built out-of-band). The build runs in
// the project root with stdio inherited and blocks until it exits. A
// non-zero exit is returned as an error; the build is a prerequisite for
// every benchmark run, so callers treat it as fatal.
//
// extraArgs are appended after the configured feature flags.
func (c *Coordinator) EnsureBuilt(ctx context.Context, extraArgs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.compiled {
		return nil
	}

	argv := append([]string{}, c.buildArgv...)
	if c.enableUnsafePointer {
		argv = append(argv, unsafePointerArgs...)
	}
	argv = append(argv, c.extraArgs...)
	argv = append(argv, extraArgs...)

	c.logger.Info("compiling benchmark executable", "dir", c.dir, "argv", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.dir
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	c.compiled = true
	return nil
}

// Compiled reports whether the executable is known to be built.
func (c *Coordinator) Compiled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiled
}
