// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fbbench.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"fbbench/internal/compiler"
	"fbbench/internal/config"
	"fbbench/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "fbbench",
		Short: "Benchmark driver for the fusion-blossom decoder",
		Long: TitleStyle.Render("fbbench") + SubtitleStyle.Render(" - benchmark driver for the fusion-blossom decoder") + `

fbbench compiles the decoder's benchmark executable on demand, runs
parametrized benchmark sweeps against it (code distance, error
probability, rounds, measurement noise), captures the per-round
telemetry each run prints, and reduces captured profile logs into
latency and CPU-time statistics.

` + SubtitleStyle.Render("Examples:") + `
  fbbench run -d 5 -p 0.01 -r 1000 --out run.log
  fbbench sweep sweep.toml
  fbbench stats run.log
  fbbench config show`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/fbbench/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and environment toggles.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// loadConfig resolves the configuration for a command, falling back to the
// defaults with a warning when loading fails.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return config.DefaultConfig()
	}
	return cfg
}

// newCoordinator builds the process-wide build coordinator from the
// resolved configuration.
func newCoordinator(root string, cfg *config.Config) *compiler.Coordinator {
	return compiler.NewCoordinator(root,
		compiler.WithAlreadyCompiled(cfg.Build.ManuallyCompiled),
		compiler.WithUnsafePointer(cfg.Build.EnableUnsafePointer),
		compiler.WithExtraArgs(cfg.Build.ExtraArgs),
	)
}

// checkExecutable verifies the decoder binary exists when compilation is
// skipped. When fbbench compiles itself the build step produces the binary,
// so the check only applies to out-of-band builds.
func checkExecutable(cfg *config.Config, exe string) error {
	if !cfg.Build.ManuallyCompiled {
		return nil
	}
	if _, err := os.Stat(exe); err != nil {
		renderIssue(issue.ExecutableNotFoundId)
		return issue.NewErrorContext().
			WithOperation("locate benchmark executable").
			WithResource(exe).
			WithSuggestion("Build it yourself: cargo build --release").
			WithSuggestion("Or unset " + config.EnvManuallyCompiled + " to let fbbench compile it").
			Wrap(err).
			BuildError()
	}
	return nil
}

// renderIssue prints a troubleshooting card to stderr. Rendering failures
// are swallowed: the card supplements the error, it never replaces it.
func renderIssue(id issue.Id) {
	card := issue.Get(id)
	if card == nil {
		return
	}
	out, err := card.Render("auto")
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, out)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
