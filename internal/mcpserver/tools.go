package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groundkit/ground/internal/output"
	"github.com/groundkit/ground/internal/scanner"
	"github.com/groundkit/ground/pkg/analyzer/clones"
	"github.com/groundkit/ground/pkg/analyzer/deadexports"
	"github.com/groundkit/ground/pkg/analyzer/entrypoints"
	"github.com/groundkit/ground/pkg/analyzer/reachability"
	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/analyzer/usage"
	"github.com/groundkit/ground/pkg/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Common input structures for tools

// AnalyzeInput is the base input for all analysis tools.
type AnalyzeInput struct {
	Root   string `json:"root,omitempty" jsonschema:"Project root to analyze. Defaults to the current directory."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// GraphInput requests a symbol graph build.
type GraphInput struct {
	AnalyzeInput
	Rebuild bool `json:"rebuild,omitempty" jsonschema:"Drop the cached graph and rebuild from disk."`
}

// DeadExportsInput selects batch or single-module dead-export queries.
type DeadExportsInput struct {
	AnalyzeInput
	Module string `json:"module,omitempty" jsonschema:"Path of a single module to query. When empty every export in the project is checked."`
}

// ReachabilityInput adds entry-point overrides.
type ReachabilityInput struct {
	AnalyzeInput
	EntryPoints []string `json:"entry_points,omitempty" jsonschema:"Extra entry-point module paths beyond the auto-detected set."`
}

// ClonesInput adds clone detection options.
type ClonesInput struct {
	AnalyzeInput
	Threshold float64 `json:"threshold,omitempty" jsonschema:"Similarity threshold for cross-file clones (0.0-1.0). Default 0.8."`
	IntraFile bool    `json:"intra_file,omitempty" jsonschema:"Also report near-duplicate functions inside a single file."`
	MinLines  int     `json:"min_lines,omitempty" jsonschema:"Minimum function length in lines. Default 0 (no minimum)."`
}

// UsagesInput adds usage counting options.
type UsagesInput struct {
	AnalyzeInput
	Symbol    string `json:"symbol" jsonschema:"Symbol name to count occurrences of."`
	MinUsages int    `json:"min_usages,omitempty" jsonschema:"Minimum non-definition mentions for the symbol to earn its existence. Default 1."`
}

// Helper functions

func getRoot(input AnalyzeInput) string {
	if input.Root == "" {
		return "."
	}
	return input.Root
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := output.MarshalTOON(data)
		if err != nil {
			return "", err
		}
		return "```\n" + out + "\n```", nil
	default:
		return output.MarshalTOON(data)
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	// Oversized payloads get a size note so the client can re-query
	// with a narrower scope instead of silently flooding its context.
	if tokens := output.EstimateTokens(text); tokens > output.Budget32K {
		text = fmt.Sprintf("NOTE: response is ~%s tokens; consider narrowing the query.\n\n",
			output.FormatTokenCount(tokens)) + text
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func (s *Server) handleBuildSymbolGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	root := getRoot(input.AnalyzeInput)
	if input.Rebuild {
		s.graphs.Invalidate(root)
	}

	graph, err := s.graphs.Graph(root)
	if err != nil {
		return toolError(err.Error())
	}

	out := struct {
		Root    string                  `json:"root" toon:"root"`
		Stats   symbolgraph.Stats       `json:"stats" toon:"stats"`
		Aliases []symbolgraph.PathAlias `json:"aliases,omitempty" toon:"aliases,omitempty"`
	}{root, graph.Stats(), graph.Aliases}

	return toolResult(out, getFormat(input.AnalyzeInput))
}

func (s *Server) handleFindDeadExports(ctx context.Context, req *mcp.CallToolRequest, input DeadExportsInput) (*mcp.CallToolResult, any, error) {
	root := getRoot(input.AnalyzeInput)
	format := getFormat(input.AnalyzeInput)

	if input.Module != "" {
		report, err := deadexports.New().FindDeadExports(input.Module, root)
		if err != nil {
			return toolError(err.Error())
		}
		return toolResult(report, format)
	}

	graph, err := s.graphs.Graph(root)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(graph.FindDeadExports(), format)
}

func (s *Server) handleAnalyzeReachability(ctx context.Context, req *mcp.CallToolRequest, input ReachabilityInput) (*mcp.CallToolResult, any, error) {
	root := getRoot(input.AnalyzeInput)

	var extra []entrypoints.EntryPoint
	for _, path := range input.EntryPoints {
		extra = append(extra, entrypoints.EntryPoint{
			Path:        path,
			Kind:        entrypoints.KindConvention,
			Description: "user-supplied entry point",
		})
	}

	report, err := reachability.New(reachability.WithExtraEntryPoints(extra)).Analyze(root)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input.AnalyzeInput))
}

func (s *Server) handleFindClones(ctx context.Context, req *mcp.CallToolRequest, input ClonesInput) (*mcp.CallToolResult, any, error) {
	root := getRoot(input.AnalyzeInput)
	cfg := config.LoadOrDefault(root)

	files, err := scanner.NewScanner(cfg).ScanDir(root)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	threshold := input.Threshold
	if threshold <= 0 {
		threshold = cfg.Thresholds.CloneSimilarity
	}

	analyzer := clones.New(
		clones.WithThreshold(threshold),
		clones.WithIntraFile(input.IntraFile || cfg.Analysis.IntraFileClones),
		clones.WithIntraFileThreshold(cfg.Thresholds.IntraFileSimilarity),
		clones.WithMinFunctionLines(max(input.MinLines, cfg.Analysis.MinFunctionLines)),
		clones.WithTestPatterns(cfg.Exclude.TestPatterns),
	)
	report, err := analyzer.Analyze(files)
	if err != nil {
		return toolError(err.Error())
	}

	out := struct {
		Clones    []clones.FunctionClone  `json:"clones" toon:"clones"`
		IntraFile []clones.IntraFileClone `json:"intra_file_clones,omitempty" toon:"intra_file_clones,omitempty"`
		Summary   clones.Summary          `json:"summary" toon:"summary"`
	}{report.InterFile, report.IntraFile, report.Summarize()}

	return toolResult(out, getFormat(input.AnalyzeInput))
}

func (s *Server) handleCountUsages(ctx context.Context, req *mcp.CallToolRequest, input UsagesInput) (*mcp.CallToolResult, any, error) {
	if input.Symbol == "" {
		return toolError("symbol is required")
	}
	root := getRoot(input.AnalyzeInput)

	minUsages := input.MinUsages
	if minUsages <= 0 {
		minUsages = config.LoadOrDefault(root).Thresholds.MinUsages
	}

	evidence, err := usage.New().CountUsages(input.Symbol, root)
	if err != nil {
		return toolError(err.Error())
	}

	out := struct {
		*usage.Evidence
		EarnsExistence    bool `json:"earns_existence" toon:"earns_existence"`
		ExportedButUnused bool `json:"exported_but_unused" toon:"exported_but_unused"`
	}{evidence, evidence.EarnsExistence(minUsages), evidence.IsExportedButUnused()}

	return toolResult(out, getFormat(input.AnalyzeInput))
}
