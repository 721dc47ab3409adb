// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fbbench/internal/bench"
	"fbbench/internal/compiler"
	"fbbench/internal/issue"
	"fbbench/internal/project"
	"fbbench/internal/runner"
)

var (
	runDistance    int
	runErrorRate   float64
	runRounds      int
	runNoisy       int
	runCapture     string
	runMergeStderr bool
	runOut         string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Compile the decoder if needed and run one benchmark",
		Long: `Run a single benchmark invocation against the compiled decoder:

  <executable> benchmark <d> <p> [-r <rounds>] [-n <noisy_measurements>]

The child's stdout (the profile log) is captured per --capture and written
to --out when given. A non-zero benchmark exit becomes this command's exit
code.`,
		RunE: runBenchmark,
	}
)

func init() {
	runCmd.Flags().IntVarP(&runDistance, "distance", "d", 0, "code distance (required)")
	runCmd.Flags().Float64VarP(&runErrorRate, "error-rate", "p", 0, "physical error probability (required)")
	runCmd.Flags().IntVarP(&runRounds, "rounds", "r", 0, "total benchmark rounds")
	runCmd.Flags().IntVarP(&runNoisy, "noisy-measurements", "n", 0, "noisy measurement rounds")
	runCmd.Flags().StringVar(&runCapture, "capture", "pipe", "stdout capture strategy: pipe, tmpfile, or inherit")
	runCmd.Flags().BoolVar(&runMergeStderr, "merge-stderr", false, "merge the child's stderr into the captured output")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the captured profile log to this file")

	_ = runCmd.MarkFlagRequired("distance")
	_ = runCmd.MarkFlagRequired("error-rate")
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	capture, err := runner.ParseCaptureMode(runCapture)
	if err != nil {
		return err
	}

	root, err := project.Root(ctx, cfg.ProjectRoot)
	if err != nil {
		renderIssue(issue.GitRootNotFoundId)
		return err
	}

	params := bench.Params{D: runDistance, P: runErrorRate}
	if cmd.Flags().Changed("rounds") {
		params.TotalRounds = &runRounds
	}
	if cmd.Flags().Changed("noisy-measurements") {
		params.NoisyMeasurements = &runNoisy
	}

	exe := project.ExecutablePath(root)
	if err := checkExecutable(cfg, exe); err != nil {
		return err
	}

	argv, err := params.Command(exe)
	if err != nil {
		return err
	}

	res, err := runner.New(newCoordinator(root, cfg)).Run(ctx, argv, runner.Options{
		Capture:     capture,
		MergeStderr: runMergeStderr,
	})
	if err != nil {
		if errors.Is(err, compiler.ErrBuildFailed) {
			renderIssue(issue.BuildFailedId)
		}
		return err
	}

	if runOut != "" {
		if err := os.WriteFile(runOut, []byte(res.Output), 0o644); err != nil {
			return fmt.Errorf("write profile log: %w", err)
		}
	}

	if !res.ExitCode.IsSuccess() {
		return &ExitError{
			Code: res.ExitCode,
			Err:  fmt.Errorf("benchmark exited with status %s", res.ExitCode),
		}
	}

	log.Info("benchmark finished",
		"d", runDistance,
		"p", bench.FormatErrorRate(runErrorRate),
		"captured_bytes", len(res.Output),
		"out", runOut)
	return nil
}
