package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/clones"
	"github.com/groundkit/ground/pkg/analyzer/reachability"
	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/config"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run every analyzer and print a combined report",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Analyzers to skip: graph, dead-exports, reachability, clones",
			},
		},
		Action: runAnalyzeCmd,
	}
}

// FullAnalysis is the combined result of all analyzers.
type FullAnalysis struct {
	Graph        *symbolgraph.Stats             `json:"graph,omitempty" toon:"graph,omitempty"`
	DeadExports  *symbolgraph.DeadExportsReport `json:"dead_exports,omitempty" toon:"dead_exports,omitempty"`
	Reachability *reachability.Report           `json:"reachability,omitempty" toon:"reachability,omitempty"`
	Clones       *clones.Report                 `json:"clones,omitempty" toon:"clones,omitempty"`
}

func runAnalyzeCmd(c *cli.Context) error {
	root, err := firstRoot(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, root)
	if err != nil {
		return err
	}

	excludeSet := make(map[string]bool)
	for _, e := range c.StringSlice("exclude") {
		excludeSet[e] = true
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	results := FullAnalysis{}
	startTime := time.Now()

	// 1. Symbol graph, feeding the dead-export pass.
	if !excludeSet["graph"] || !excludeSet["dead-exports"] {
		aliases, _ := config.LoadTsconfigAliases(root)
		sources, err := symbolgraph.CollectSourceFiles(root)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", root, err)
		}

		tracker := progress.NewTracker("Building symbol graph...", len(sources))
		graph, err := symbolgraph.NewBuilder(
			symbolgraph.WithAliases(aliases),
			symbolgraph.WithProgress(func(done, total int) {
				tracker.Set(done)
			}),
		).Build(root)
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("graph build failed: %w", err)
		}
		tracker.FinishSuccess()

		if !excludeSet["graph"] {
			stats := graph.Stats()
			results.Graph = &stats
		}
		if !excludeSet["dead-exports"] {
			results.DeadExports = graph.FindDeadExports()
		}
	}

	// 2. Reachability
	if !excludeSet["reachability"] {
		spinner := progress.NewSpinner("Analyzing reachability...")
		results.Reachability, err = reachability.New().Analyze(root)
		if err != nil {
			spinner.FinishSkipped(err.Error())
		} else {
			spinner.FinishSuccess()
		}
	}

	// 3. Clones
	if !excludeSet["clones"] {
		files, err := scanPaths(c, cfg)
		if err != nil {
			return err
		}
		spinner := progress.NewSpinner(fmt.Sprintf("Comparing functions in %d files...", len(files)))
		results.Clones, err = clones.New(
			clones.WithThreshold(cfg.Thresholds.CloneSimilarity),
			clones.WithIntraFile(cfg.Analysis.IntraFileClones),
			clones.WithIntraFileThreshold(cfg.Thresholds.IntraFileSimilarity),
			clones.WithMinFunctionLines(cfg.Analysis.MinFunctionLines),
			clones.WithTestPatterns(cfg.Exclude.TestPatterns),
		).Analyze(files)
		if err != nil {
			spinner.FinishSkipped(err.Error())
		} else {
			spinner.FinishSuccess()
		}
	}

	elapsed := time.Since(startTime)

	// For JSON/TOON, output raw results
	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(results)
	}

	fmt.Printf("\nAnalysis completed in %s\n\n", elapsed.Round(time.Millisecond))

	w := formatter.Writer()
	if formatter.Colored() {
		color.Cyan("=== Analysis Summary ===")
	} else {
		fmt.Fprintln(w, "=== Analysis Summary ===")
	}

	if results.Graph != nil {
		fmt.Fprintf(w, "\nSymbol Graph:\n")
		fmt.Fprintf(w, "  Files: %d, Exports: %d, Imports: %d\n",
			results.Graph.FilesScanned, results.Graph.TotalExports, results.Graph.TotalImports)
		fmt.Fprintf(w, "  Unique symbols: %d exported, %d imported (%d re-exports)\n",
			results.Graph.UniqueExportedSymbols, results.Graph.UniqueImportedSymbols, results.Graph.ReexportCount)
		if results.Graph.ParseErrors > 0 {
			fmt.Fprintf(w, "  Parse errors: %d\n", results.Graph.ParseErrors)
		}
	}

	if results.DeadExports != nil {
		fmt.Fprintf(w, "\nDead Exports:\n")
		fmt.Fprintf(w, "  %d of %d exports have no importer\n",
			len(results.DeadExports.DeadExports), results.DeadExports.TotalExports)
	}

	if results.Reachability != nil {
		fmt.Fprintf(w, "\nReachability:\n")
		fmt.Fprintf(w, "  Modules: %d, Entry Points: %d\n",
			results.Reachability.TotalModules, results.Reachability.EntryPointCount)
		fmt.Fprintf(w, "  Reachable: %d, Unreachable: %d\n",
			results.Reachability.ReachableCount, results.Reachability.UnreachableCount)
	}

	if results.Clones != nil {
		summary := results.Clones.Summarize()
		fmt.Fprintf(w, "\nClones:\n")
		fmt.Fprintf(w, "  Cross-file: %d, Intra-file: %d across %d functions\n",
			summary.InterFileCount, summary.IntraFileCount, summary.TotalFunctions)
	}

	return nil
}
