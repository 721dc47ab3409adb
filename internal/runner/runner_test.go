// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeCoordinator counts EnsureBuilt calls and optionally fails.
type fakeCoordinator struct {
	calls int
	err   error
}

func (f *fakeCoordinator) EnsureBuilt(_ context.Context, _ ...string) error {
	f.calls++
	return f.err
}

func TestCaptureMode_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode CaptureMode
		want string
	}{
		{CapturePipe, "pipe"},
		{CaptureTempFile, "tmpfile"},
		{CaptureInherit, "inherit"},
		{CaptureMode(42), "capture(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("CaptureMode.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCaptureMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    CaptureMode
		wantErr bool
	}{
		{"pipe", CapturePipe, false},
		{"tmpfile", CaptureTempFile, false},
		{"inherit", CaptureInherit, false},
		{"", 0, true},
		{"PIPE", 0, true},
		{"file", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCaptureMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCaptureMode) {
					t.Fatalf("ParseCaptureMode(%q) error = %v, want ErrUnknownCaptureMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCaptureMode(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCaptureMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRunner_Run_pipe(t *testing.T) {
	t.Parallel()

	build := &fakeCoordinator{}
	res, err := New(build).Run(context.Background(),
		[]string{"sh", "-c", "printf 'line one\\nline two\\n'"},
		Options{Capture: CapturePipe})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Output != "line one\nline two\n" {
		t.Errorf("Output = %q, want the child's stdout verbatim", res.Output)
	}
	if !res.ExitCode.IsSuccess() {
		t.Errorf("ExitCode = %v, want 0", res.ExitCode)
	}
	if build.calls != 1 {
		t.Errorf("EnsureBuilt called %d times, want 1", build.calls)
	}
}

func TestRunner_Run_tempFileMatchesPipe(t *testing.T) {
	t.Parallel()

	const script = "printf 'payload %s\\n' a b c"

	r := New(&fakeCoordinator{})

	piped, err := r.Run(context.Background(), []string{"sh", "-c", script}, Options{Capture: CapturePipe})
	if err != nil {
		t.Fatalf("Run(pipe) error = %v", err)
	}
	filed, err := r.Run(context.Background(), []string{"sh", "-c", script}, Options{Capture: CaptureTempFile})
	if err != nil {
		t.Fatalf("Run(tmpfile) error = %v", err)
	}

	if piped.Output != filed.Output {
		t.Errorf("capture strategies disagree: pipe=%q tmpfile=%q", piped.Output, filed.Output)
	}
}

func TestRunner_Run_mergeStderr(t *testing.T) {
	t.Parallel()

	res, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err 1>&2"},
		Options{Capture: CapturePipe, MergeStderr: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(res.Output, "out") || !strings.Contains(res.Output, "err") {
		t.Errorf("Output = %q, want both streams merged", res.Output)
	}
}

func TestRunner_Run_stderrSeparateByDefault(t *testing.T) {
	t.Parallel()

	res, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err 1>&2"},
		Options{Capture: CapturePipe})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if strings.Contains(res.Output, "err") {
		t.Errorf("Output = %q, stderr should not be captured without MergeStderr", res.Output)
	}
}

func TestRunner_Run_nonZeroExit(t *testing.T) {
	t.Parallel()

	res, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"sh", "-c", "echo partial; exit 3"},
		Options{Capture: CapturePipe})
	if err != nil {
		t.Fatalf("Run() error = %v, a non-zero child exit must not be an error", err)
	}

	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %v, want 3", res.ExitCode)
	}
	if res.Output != "partial\n" {
		t.Errorf("Output = %q, want output captured before the failure", res.Output)
	}
}

func TestRunner_Run_backtraceEnv(t *testing.T) {
	t.Parallel()

	res, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"sh", "-c", "printf '%s' \"$RUST_BACKTRACE\""},
		Options{Capture: CapturePipe})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Output != "full" {
		t.Errorf("child saw RUST_BACKTRACE=%q, want %q", res.Output, "full")
	}
}

func TestRunner_Run_workingDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"pwd"},
		Options{Capture: CapturePipe, Dir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := strings.TrimSpace(res.Output)
	// macOS tempdirs resolve through the /private symlink, so compare the tail.
	if !strings.HasSuffix(got, dir) {
		t.Errorf("child ran in %q, want %q", got, dir)
	}
}

func TestRunner_Run_buildFailureAborts(t *testing.T) {
	t.Parallel()

	buildErr := errors.New("compilation exploded")
	build := &fakeCoordinator{err: buildErr}

	_, err := New(build).Run(context.Background(), []string{"true"}, Options{})
	if !errors.Is(err, buildErr) {
		t.Fatalf("Run() error = %v, want the build error propagated", err)
	}
	if build.calls != 1 {
		t.Errorf("EnsureBuilt called %d times, want 1", build.calls)
	}
}

func TestRunner_Run_buildConsultedEveryRun(t *testing.T) {
	t.Parallel()

	build := &fakeCoordinator{}
	r := New(build)

	for i := 0; i < 3; i++ {
		if _, err := r.Run(context.Background(), []string{"true"}, Options{}); err != nil {
			t.Fatalf("Run() #%d error = %v", i+1, err)
		}
	}
	if build.calls != 3 {
		t.Errorf("EnsureBuilt called %d times, want 3 (once per run)", build.calls)
	}
}

func TestRunner_Run_invalidInputs(t *testing.T) {
	t.Parallel()

	if _, err := New(&fakeCoordinator{}).Run(context.Background(), nil, Options{}); err == nil {
		t.Error("Run() with empty argv succeeded, want error")
	}
	if _, err := New(nil).Run(context.Background(), []string{"true"}, Options{}); err == nil {
		t.Error("Run() with nil coordinator succeeded, want error")
	}
	if _, err := New(&fakeCoordinator{}).Run(context.Background(), []string{"true"},
		Options{Capture: CaptureMode(42)}); !errors.Is(err, ErrUnknownCaptureMode) {
		t.Errorf("Run() with unknown capture mode error = %v, want ErrUnknownCaptureMode", err)
	}
}

func TestRunner_Run_missingExecutable(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeCoordinator{}).Run(context.Background(),
		[]string{"/nonexistent/fbbench-test-binary"}, Options{})
	if err == nil {
		t.Fatal("Run() succeeded on a missing executable, want spawn error")
	}
}
