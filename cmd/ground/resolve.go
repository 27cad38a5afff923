package main

import (
	"fmt"
	"path/filepath"

	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/deadexports"
	"github.com/urfave/cli/v2"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Check one module's exports against every importer in a scope",
		ArgsUsage: "MODULE [scope]",
		Description: `Resolve reads the exports of a single module and scans the scope
directory for importers, following the sibling barrel file when one
re-exports the module. Useful when a project-wide graph build is
overkill and you only care about one file.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel scan workers (0 = NumCPU)",
			},
		},
		Action: runResolveCmd,
	}
}

func runResolveCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("module path required: ground resolve MODULE [scope]")
	}
	module, err := filepath.Abs(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid module path: %w", err)
	}

	scope := filepath.Dir(module)
	if c.Args().Len() > 1 {
		scope, err = filepath.Abs(c.Args().Get(1))
		if err != nil {
			return fmt.Errorf("invalid scope path: %w", err)
		}
	}

	spinner := progress.NewSpinner("Resolving importers...")
	report, err := deadexports.New(
		deadexports.WithWorkers(c.Int("workers")),
	).FindDeadExports(module, scope)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("resolve failed: %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.DeadExports) == 0 {
		if formatter.Format() == output.FormatText {
			formatter.Success("All %d exports of %s have importers in %s",
				report.TotalExports, module, scope)
		}
		return formatter.Output(report)
	}

	var rows [][]string
	for _, de := range report.DeadExports {
		rows = append(rows, []string{
			output.StatusColor("dead", de.Name),
			fmt.Sprintf("%d", de.Line),
			truncate(de.Context, 60),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Dead Exports in %s", module),
		[]string{"Symbol", "Line", "Context"},
		rows,
		[]string{
			fmt.Sprintf("Dead: %d", len(report.DeadExports)),
			fmt.Sprintf("Total Exports: %d", report.TotalExports),
			fmt.Sprintf("Scanned: %d files", report.ScannedFiles),
		},
		report,
	)

	return formatter.Output(table)
}
