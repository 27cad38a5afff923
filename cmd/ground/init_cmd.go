package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/groundkit/ground/pkg/config"
	"github.com/urfave/cli/v2"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a ground configuration file with defaults",
		Description: `Creates a ground.yml configuration file in the current directory
with the default analysis settings. The extension picks the encoding:
.yml/.yaml writes YAML, .toml writes TOML.

Examples:
  ground init                  # Creates ground.yml in current directory
  ground init --path ground.toml
  ground init --force          # Overwrite an existing config file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: "ground.yml",
				Usage: "Config file path to create",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	path := c.String("path")

	if c.Bool("force") {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	color.Green("Created %s", path)
	fmt.Println("Edit this file to customize analysis settings.")
	return nil
}
