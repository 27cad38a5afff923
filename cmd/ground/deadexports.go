package main

import (
	"fmt"

	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/config"
	"github.com/urfave/cli/v2"
)

func deadExportsCmd() *cli.Command {
	return &cli.Command{
		Name:      "dead-exports",
		Aliases:   []string{"de"},
		Usage:     "List exports with no resolving importer, barrel chains included",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel extraction workers (0 = NumCPU)",
			},
		},
		Action: runDeadExportsCmd,
	}
}

func runDeadExportsCmd(c *cli.Context) error {
	root, err := firstRoot(c)
	if err != nil {
		return err
	}

	aliases, _ := config.LoadTsconfigAliases(root)

	sources, err := symbolgraph.CollectSourceFiles(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}

	tracker := progress.NewTracker("Building symbol graph...", len(sources))
	graph, err := symbolgraph.NewBuilder(
		symbolgraph.WithAliases(aliases),
		symbolgraph.WithWorkers(c.Int("workers")),
		symbolgraph.WithProgress(func(done, total int) {
			tracker.Set(done)
		}),
	).Build(root)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("graph build failed: %w", err)
	}
	tracker.FinishSuccess()

	report := graph.FindDeadExports()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.DeadExports) == 0 {
		if formatter.Format() == output.FormatText {
			formatter.Success("No dead exports found across %d exports in %d files",
				report.TotalExports, report.FilesScanned)
		}
		return formatter.Output(report)
	}

	var rows [][]string
	for _, de := range report.DeadExports {
		rows = append(rows, []string{
			output.StatusColor("dead", de.Name),
			fmt.Sprintf("%s:%d", de.File, de.Line),
			truncate(de.Context, 60),
		})
	}

	table := output.NewTable(
		"Dead Exports",
		[]string{"Symbol", "Location", "Context"},
		rows,
		[]string{
			fmt.Sprintf("Dead: %d", len(report.DeadExports)),
			fmt.Sprintf("Total Exports: %d", report.TotalExports),
			fmt.Sprintf("Files: %d", report.FilesScanned),
		},
		report,
	)

	return formatter.Output(table)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
