package main

import (
	"context"
	"fmt"

	"github.com/groundkit/ground/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes ground's
analyzers as tools that LLMs can invoke for dead-code and duplication
investigations.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "ground": {
        "command": "ground",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - build_symbol_graph    Project-wide export/import index with stats
  - find_dead_exports     Exports no importer resolves to
  - analyze_reachability  Modules unreachable from any entry point
  - find_clones           Copy-pasted functions across and within files
  - count_usages          Classified occurrences of one symbol`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP server manifest (server.json) and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
