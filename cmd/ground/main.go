package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/scanner"
	"github.com/groundkit/ground/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig honors --config when set, otherwise probes the first
// analysis path for a ground config file.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(root), nil
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
}

// scanPaths walks every positional path and returns the union of
// supported source files.
func scanPaths(c *cli.Context, cfg *config.Config) ([]string, error) {
	scan := scanner.NewScanner(cfg)

	var files []string
	for _, path := range getPaths(c) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func firstRoot(c *cli.Context) (string, error) {
	root, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return root, nil
}

func main() {
	app := &cli.App{
		Name:     "ground",
		Usage:    "Symbol-level dead code and duplication analysis for TypeScript and JavaScript",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Ground builds a project-wide symbol graph for TypeScript, TSX,
JavaScript, and Svelte codebases, then answers the questions a cleanup
pass keeps asking: which modules are unreachable from any entry point,
which exports have no importer, which functions are copy-pasted, and
whether a given symbol earns its existence.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (YAML, TOML, or JSON)",
				EnvVars: []string{"GROUND_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			graphCmd(),
			deadExportsCmd(),
			reachabilityCmd(),
			clonesCmd(),
			usagesCmd(),
			resolveCmd(),
			analyzeCmd(),
			initCmd(),
			mcpCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
