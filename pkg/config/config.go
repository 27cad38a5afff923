// Package config loads the tool's own configuration and extracts path
// alias tables from tsconfig files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"
	goyaml "gopkg.in/yaml.v3"
)

// Config holds all configuration options for ground.
type Config struct {
	Analysis   AnalysisConfig  `koanf:"analysis"`
	Thresholds ThresholdConfig `koanf:"thresholds"`
	Exclude    ExcludeConfig   `koanf:"exclude"`
	Output     OutputConfig    `koanf:"output"`
}

// AnalysisConfig controls analyzer behavior.
type AnalysisConfig struct {
	IntraFileClones  bool `koanf:"intra_file_clones"`
	MinFunctionLines int  `koanf:"min_function_lines"`
	Workers          int  `koanf:"workers"`
}

// ThresholdConfig defines similarity and usage thresholds.
type ThresholdConfig struct {
	CloneSimilarity     float64 `koanf:"clone_similarity"`
	IntraFileSimilarity float64 `koanf:"intra_file_similarity"`
	MinUsages           int     `koanf:"min_usages"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns     []string `koanf:"patterns"`
	TestPatterns []string `koanf:"test_patterns"`
	Dirs         []string `koanf:"dirs"`
	Gitignore    bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IntraFileClones:  false,
			MinFunctionLines: 0,
		},
		Thresholds: ThresholdConfig{
			CloneSimilarity:     0.8,
			IntraFileSimilarity: 0.85,
			MinUsages:           1,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			TestPatterns: []string{
				".test.",
				".spec.",
				"__tests__/",
			},
			Dirs: []string{
				"node_modules",
				"dist",
				"build",
				".svelte-kit",
				"coverage",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads and validates configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configNames are the file names probed by LoadOrDefault, in order.
var configNames = []string{
	"ground.yml",
	"ground.yaml",
	"ground.toml",
	"ground.json",
	".ground.yml",
	".ground.yaml",
	".ground.toml",
	".ground.json",
}

// LoadOrDefault tries standard config locations under dir, falling
// back to defaults when none parses.
func LoadOrDefault(dir string) *Config {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// WriteDefault writes the default configuration to path, YAML or TOML
// depending on the extension. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	m := map[string]any{
		"analysis": map[string]any{
			"intra_file_clones":  false,
			"min_function_lines": 0,
		},
		"thresholds": map[string]any{
			"clone_similarity":      0.8,
			"intra_file_similarity": 0.85,
			"min_usages":            1,
		},
		"exclude": map[string]any{
			"patterns":      []string{"*.min.js", "*.d.ts"},
			"test_patterns": []string{".test.", ".spec.", "__tests__/"},
			"dirs":          []string{"node_modules", "dist", "build", ".svelte-kit", "coverage"},
			"gitignore":     true,
		},
		"output": map[string]any{
			"format": "text",
			"color":  true,
		},
	}

	var data []byte
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		tree, err := gotoml.TreeFromMap(m)
		if err != nil {
			return err
		}
		data = []byte(tree.String())
	} else {
		out, err := goyaml.Marshal(m)
		if err != nil {
			return err
		}
		data = out
	}
	return os.WriteFile(path, data, 0o644)
}
