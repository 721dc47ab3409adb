// SPDX-License-Identifier: MPL-2.0

// Package project locates the fusion-blossom checkout and the build
// outputs inside it.
package project

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"fbbench/internal/issue"
)

// ExecutableName is the decoder binary produced by the release build.
const ExecutableName = "fusion_blossom"

// Root returns the project root directory. A non-empty override (from
// configuration) wins; otherwise the root is the toplevel of the enclosing
// git work tree.
func Root(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	out, err := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate project root").
			WithSuggestion("Run fbbench from inside the fusion-blossom checkout").
			WithSuggestion("Or set project_root in the config file").
			Wrap(err).
			BuildError()
	}
	return strings.Trim(string(out), " \r\n"), nil
}

// ExecutablePath returns the fixed build-output location of the benchmark
// executable: <root>/target/release/fusion_blossom.
func ExecutablePath(root string) string {
	return filepath.Join(root, "target", "release", ExecutableName)
}
