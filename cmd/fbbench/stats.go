// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fbbench/internal/issue"
	"fbbench/internal/profile"
)

var (
	statsSkip int

	statsCmd = &cobra.Command{
		Use:   "stats <profile.log>",
		Short: "Reduce a captured profile log into summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
)

func init() {
	statsCmd.Flags().IntVar(&statsSkip, "skip", 0, "override the number of warm-up entries to skip")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	skip := cfg.SkipBeginProfiles
	if cmd.Flags().Changed("skip") {
		skip = statsSkip
	}

	prof, err := profile.Parse(args[0], profile.WithSkipBegin(skip))
	if err != nil {
		renderIssue(issue.ProfileParseErrorId)
		return err
	}

	if len(prof.Entries) == 0 {
		return issue.NewErrorContext().
			WithOperation("compute statistics").
			WithResource(args[0]).
			WithSuggestion(fmt.Sprintf("The log kept no entries after skipping %d warm-up rounds; lower --skip", skip)).
			Wrap(profile.ErrNoEntries).
			BuildError()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("profile ")+CmdStyle.Render(args[0]))
	fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf(
		"vertices: %d  partitions: %d  fusions: %d  entries: %d (skipped %d)",
		prof.PartitionConfig.VertexNum,
		len(prof.PartitionConfig.Partitions),
		len(prof.PartitionConfig.Fusions),
		len(prof.Entries),
		skip)))
	fmt.Fprintln(out)

	printStat(out, "sum decoding time", fmt.Sprintf("%.6f s", prof.SumDecodingTime()))

	avgDecoding, _ := prof.AverageDecodingTime()
	printStat(out, "average decoding time", fmt.Sprintf("%.6f s", avgDecoding))

	printStat(out, "sum syndrome num", fmt.Sprintf("%d", prof.SumSyndromeNum()))

	if perSyndrome, err := prof.AverageDecodingTimePerSyndrome(); errors.Is(err, profile.ErrNoSyndromes) {
		printStat(out, "average decoding time per syndrome", WarningStyle.Render("n/a (no syndromes decoded)"))
	} else {
		printStat(out, "average decoding time per syndrome", fmt.Sprintf("%.9f s", perSyndrome))
	}

	printStat(out, "sum computation cpu seconds", fmt.Sprintf("%.6f s", prof.SumComputationCPUSeconds()))

	avgCPU, _ := prof.AverageComputationCPUSeconds()
	printStat(out, "average computation cpu seconds", fmt.Sprintf("%.6f s", avgCPU))

	return nil
}

func printStat(out io.Writer, name, value string) {
	fmt.Fprintf(out, "  %-36s %s\n", name, CmdStyle.Render(value))
}
