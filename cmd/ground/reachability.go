package main

import (
	"fmt"

	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/entrypoints"
	"github.com/groundkit/ground/pkg/analyzer/reachability"
	"github.com/urfave/cli/v2"
)

func reachabilityCmd() *cli.Command {
	return &cli.Command{
		Name:      "reachability",
		Aliases:   []string{"reach"},
		Usage:     "Find modules unreachable from any entry point",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "entry",
				Aliases: []string{"e"},
				Usage:   "Additional entry point files beyond the discovered ones",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Show every module, not just unreachable ones",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel scan workers (0 = NumCPU)",
			},
		},
		Action: runReachabilityCmd,
	}
}

func runReachabilityCmd(c *cli.Context) error {
	root, err := firstRoot(c)
	if err != nil {
		return err
	}

	var extra []entrypoints.EntryPoint
	for _, path := range c.StringSlice("entry") {
		extra = append(extra, entrypoints.EntryPoint{
			Path:        path,
			Kind:        entrypoints.KindConvention,
			Description: "user-supplied entry point",
		})
	}

	spinner := progress.NewSpinner("Analyzing reachability...")
	report, err := reachability.New(
		reachability.WithExtraEntryPoints(extra),
		reachability.WithWorkers(c.Int("workers")),
	).Analyze(root)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("reachability analysis failed: %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	showAll := c.Bool("all")

	var rows [][]string
	for _, m := range report.Modules {
		if !showAll && m.Status != reachability.StatusUnreachable {
			continue
		}
		distance := "-"
		if m.Distance >= 0 {
			distance = fmt.Sprintf("%d", m.Distance)
		}
		rows = append(rows, []string{
			m.Path,
			output.StatusColor(string(m.Status), string(m.Status)),
			distance,
		})
	}

	title := "Unreachable Modules"
	if showAll {
		title = "Module Reachability"
	}

	if len(rows) == 0 && formatter.Format() == output.FormatText {
		formatter.Success("All %d modules are reachable from %d entry points",
			report.TotalModules, report.EntryPointCount)
		return formatter.Output(report)
	}

	table := output.NewTable(
		title,
		[]string{"Module", "Status", "Distance"},
		rows,
		[]string{
			fmt.Sprintf("Modules: %d", report.TotalModules),
			fmt.Sprintf("Entry Points: %d", report.EntryPointCount),
			fmt.Sprintf("Unreachable: %d", report.UnreachableCount),
		},
		report,
	)

	return formatter.Output(table)
}
