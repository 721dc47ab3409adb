// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fbbench/internal/bench"
	"fbbench/internal/compiler"
	"fbbench/internal/issue"
	"fbbench/internal/profile"
	"fbbench/internal/project"
	"fbbench/internal/runner"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <sweep.toml>",
	Short: "Run every point of a TOML-defined benchmark sweep",
	Long: `Run the cartesian product of distances x error_rates from a TOML sweep
definition, writing one profile log per point under out_dir and summarizing
each log as it lands. The sweep halts on the first failing point.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	sweep, err := bench.LoadSweep(args[0])
	if err != nil {
		return err
	}

	root, err := project.Root(ctx, cfg.ProjectRoot)
	if err != nil {
		renderIssue(issue.GitRootNotFoundId)
		return err
	}

	if err := os.MkdirAll(sweep.OutDir, 0o755); err != nil {
		return fmt.Errorf("create sweep output dir: %w", err)
	}

	exe := project.ExecutablePath(root)
	if err := checkExecutable(cfg, exe); err != nil {
		return err
	}

	r := runner.New(newCoordinator(root, cfg))
	logger := log.Default()

	points := sweep.Points()
	for i, point := range points {
		argv, err := point.Command(exe)
		if err != nil {
			return err
		}

		logger.Info("sweep point",
			"sweep", sweep.Name,
			"point", fmt.Sprintf("%d/%d", i+1, len(points)),
			"d", point.D,
			"p", bench.FormatErrorRate(point.P))

		// Sweep points can print very large logs; buffer through a temp file
		// rather than an in-memory pipe.
		res, err := r.Run(ctx, argv, runner.Options{Capture: runner.CaptureTempFile})
		if err != nil {
			if errors.Is(err, compiler.ErrBuildFailed) {
				renderIssue(issue.BuildFailedId)
			}
			return err
		}
		if !res.ExitCode.IsSuccess() {
			return &ExitError{
				Code: res.ExitCode,
				Err: fmt.Errorf("benchmark d=%d p=%s exited with status %s",
					point.D, bench.FormatErrorRate(point.P), res.ExitCode),
			}
		}

		logPath := filepath.Join(sweep.OutDir, bench.LogFileName(point))
		if err := os.WriteFile(logPath, []byte(res.Output), 0o644); err != nil {
			return fmt.Errorf("write profile log: %w", err)
		}

		prof, err := profile.Parse(logPath, profile.WithSkipBegin(cfg.SkipBeginProfiles))
		if err != nil {
			renderIssue(issue.ProfileParseErrorId)
			return err
		}

		avg, err := prof.AverageDecodingTime()
		if errors.Is(err, profile.ErrNoEntries) {
			logger.Warn("point kept no entries after warm-up skip",
				"log", logPath, "skip", cfg.SkipBeginProfiles)
			continue
		}
		logger.Info("point finished",
			"log", logPath,
			"entries", len(prof.Entries),
			"avg_decoding_time", avg)
	}

	return nil
}
