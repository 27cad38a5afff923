package main

import (
	"fmt"

	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/progress"
	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/config"
	"github.com/urfave/cli/v2"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "Build the symbol graph and print its statistics",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel extraction workers (0 = NumCPU)",
			},
			&cli.BoolFlag{
				Name:  "no-aliases",
				Usage: "Ignore tsconfig/jsconfig path aliases",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	root, err := firstRoot(c)
	if err != nil {
		return err
	}

	var aliases []symbolgraph.PathAlias
	if !c.Bool("no-aliases") {
		aliases, err = config.LoadTsconfigAliases(root)
		if err != nil && c.Bool("verbose") {
			fmt.Printf("tsconfig aliases unavailable: %v\n", err)
		}
	}

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

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	stats := graph.Stats()

	rows := [][]string{
		{"Files scanned", fmt.Sprintf("%d", stats.FilesScanned)},
		{"Parse errors", fmt.Sprintf("%d", stats.ParseErrors)},
		{"Total exports", fmt.Sprintf("%d", stats.TotalExports)},
		{"Total imports", fmt.Sprintf("%d", stats.TotalImports)},
		{"Unique exported symbols", fmt.Sprintf("%d", stats.UniqueExportedSymbols)},
		{"Unique imported symbols", fmt.Sprintf("%d", stats.UniqueImportedSymbols)},
		{"Re-exports", fmt.Sprintf("%d", stats.ReexportCount)},
		{"Path aliases", fmt.Sprintf("%d", len(graph.Aliases))},
	}

	table := output.NewTable(
		"Symbol Graph",
		[]string{"Metric", "Value"},
		rows,
		[]string{"Fingerprint", stats.Fingerprint[:16]},
		struct {
			Root    string                  `json:"root" toon:"root"`
			Stats   symbolgraph.Stats       `json:"stats" toon:"stats"`
			Aliases []symbolgraph.PathAlias `json:"aliases,omitempty" toon:"aliases,omitempty"`
		}{root, stats, graph.Aliases},
	)

	return formatter.Output(table)
}
