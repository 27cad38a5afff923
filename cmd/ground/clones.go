package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/clones"
	"github.com/urfave/cli/v2"
)

func clonesCmd() *cli.Command {
	return &cli.Command{
		Name:      "clones",
		Aliases:   []string{"dup"},
		Usage:     "Detect function-level clones across and within files",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Cross-file similarity threshold (0.0-1.0, default from config)",
			},
			&cli.BoolFlag{
				Name:  "intra-file",
				Usage: "Also compare differently named functions within each file",
			},
			&cli.IntFlag{
				Name:  "min-lines",
				Usage: "Minimum function body lines to consider (default from config)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel comparison workers (0 = NumCPU)",
			},
		},
		Action: runClonesCmd,
	}
}

func runClonesCmd(c *cli.Context) error {
	root, err := firstRoot(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, root)
	if err != nil {
		return err
	}

	files, err := scanPaths(c, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	threshold := cfg.Thresholds.CloneSimilarity
	if c.IsSet("threshold") {
		threshold = c.Float64("threshold")
	}
	minLines := cfg.Analysis.MinFunctionLines
	if c.IsSet("min-lines") {
		minLines = c.Int("min-lines")
	}

	spinner := progress.NewSpinner(fmt.Sprintf("Comparing functions in %d files...", len(files)))
	report, err := clones.New(
		clones.WithThreshold(threshold),
		clones.WithIntraFile(c.Bool("intra-file") || cfg.Analysis.IntraFileClones),
		clones.WithIntraFileThreshold(cfg.Thresholds.IntraFileSimilarity),
		clones.WithMinFunctionLines(minLines),
		clones.WithTestPatterns(cfg.Exclude.TestPatterns),
		clones.WithWorkers(c.Int("workers")),
	).Analyze(files)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("clone detection failed: %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	summary := report.Summarize()

	if summary.InterFileCount == 0 && summary.IntraFileCount == 0 {
		if formatter.Format() == output.FormatText {
			formatter.Success("No clones found above %.0f%% similarity across %d functions",
				threshold*100, report.TotalFunctions)
		}
		return formatter.Output(report)
	}

	// For JSON/TOON, output raw report
	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(report)
	}

	if len(report.InterFile) > 0 {
		var rows [][]string
		for _, clone := range report.InterFile {
			simStr := fmt.Sprintf("%.0f%%", clone.Similarity*100)
			if clone.Similarity >= 0.95 {
				simStr = color.RedString(simStr)
			} else if clone.Similarity >= 0.85 {
				simStr = color.YellowString(simStr)
			}

			rows = append(rows, []string{
				clone.FunctionName,
				fmt.Sprintf("%s:%d", clone.FileA, clone.FunctionA.StartLine),
				fmt.Sprintf("%s:%d", clone.FileB, clone.FunctionB.StartLine),
				simStr,
			})
		}

		table := output.NewTable(
			"Cross-File Clones",
			[]string{"Function", "Location A", "Location B", "Similarity"},
			rows,
			nil,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	}

	if len(report.IntraFile) > 0 {
		var rows [][]string
		for _, clone := range report.IntraFile {
			rows = append(rows, []string{
				clone.File,
				fmt.Sprintf("%s:%d", clone.FunctionA, clone.StartLineA),
				fmt.Sprintf("%s:%d", clone.FunctionB, clone.StartLineB),
				fmt.Sprintf("%.0f%%", clone.Similarity*100),
				clone.SuggestedExtraction,
			})
		}

		table := output.NewTable(
			"Intra-File Clones",
			[]string{"File", "Function A", "Function B", "Similarity", "Suggested Extraction"},
			rows,
			nil,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	}

	fmt.Printf("\nSummary: %d cross-file, %d intra-file clones across %d functions (avg similarity %.0f%%)\n",
		summary.InterFileCount,
		summary.IntraFileCount,
		summary.TotalFunctions,
		summary.AvgSimilarity*100)

	return nil
}
