package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/usage"
	"github.com/urfave/cli/v2"
)

func usagesCmd() *cli.Command {
	return &cli.Command{
		Name:      "usages",
		Aliases:   []string{"uses"},
		Usage:     "Count and classify every occurrence of a symbol",
		ArgsUsage: "SYMBOL [path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "min-usages",
				Usage: "Non-definition mentions required to earn existence (default from config)",
			},
			&cli.BoolFlag{
				Name:  "locations",
				Usage: "List every occurrence, not just the counts",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel scan workers (0 = NumCPU)",
			},
		},
		Action: runUsagesCmd,
	}
}

func runUsagesCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("symbol name required: ground usages SYMBOL [path]")
	}
	symbol := c.Args().First()

	root := "."
	if c.Args().Len() > 1 {
		root = c.Args().Get(1)
	}

	cfg, err := loadConfig(c, root)
	if err != nil {
		return err
	}
	minUsages := cfg.Thresholds.MinUsages
	if c.IsSet("min-usages") {
		minUsages = c.Int("min-usages")
	}

	spinner := progress.NewSpinner(fmt.Sprintf("Scanning for %q...", symbol))
	evidence, err := usage.New(usage.WithWorkers(c.Int("workers"))).CountUsages(symbol, root)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("usage scan failed: %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	result := struct {
		*usage.Evidence
		EarnsExistence    bool `json:"earns_existence" toon:"earns_existence"`
		ExportedButUnused bool `json:"exported_but_unused" toon:"exported_but_unused"`
	}{evidence, evidence.EarnsExistence(minUsages), evidence.IsExportedButUnused()}

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(result)
	}

	var rows [][]string
	if c.Bool("locations") {
		for _, loc := range evidence.Locations {
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column),
				string(loc.Type),
				truncate(loc.Context, 60),
			})
		}
		table := output.NewTable(
			fmt.Sprintf("Occurrences of %q", symbol),
			[]string{"Location", "Type", "Context"},
			rows,
			nil,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	}

	verdict := color.GreenString("earns its existence")
	if !result.EarnsExistence {
		verdict = color.RedString("below the usage floor (%d required)", minUsages)
	}
	if result.ExportedButUnused {
		verdict = color.RedString("defined but never mentioned")
	}

	fmt.Fprintf(formatter.Writer(), "%s: %d occurrences (%d definitions, %d usages, %d type-only) - %s\n",
		symbol,
		evidence.UsageCount,
		evidence.DefinitionCount,
		evidence.ActualUsageCount,
		evidence.TypeOnlyCount,
		verdict)

	if evidence.SkippedFiles > 0 && c.Bool("verbose") {
		fmt.Fprintf(formatter.Writer(), "Skipped %d unreadable files\n", evidence.SkippedFiles)
	}

	return nil
}
