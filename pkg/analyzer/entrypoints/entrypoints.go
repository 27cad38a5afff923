// Package entrypoints discovers the modules a project treats as "used
// by definition": manifest-declared targets, framework route files,
// test files, and script targets. Reachability analysis seeds its BFS
// from this set.
package entrypoints

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	toml "github.com/pelletier/go-toml"
)

// Kind classifies how an entry point was discovered.
type Kind string

const (
	KindManifestMain    Kind = "manifest_main"
	KindManifestBin     Kind = "manifest_bin"
	KindManifestExports Kind = "manifest_exports"
	KindFrameworkRoute  Kind = "framework_route"
	KindTestFile        Kind = "test_file"
	KindScript          Kind = "script"
	KindConvention      Kind = "convention"
)

// EntryPoint is a module treated as used by definition. The same path
// may be produced by multiple detectors; callers dedupe by path.
type EntryPoint struct {
	Path        string `json:"path"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

// Provider discovers entry points under a project root.
type Provider struct {
	root string
}

// New creates a provider for the given project root.
func New(root string) *Provider {
	return &Provider{root: root}
}

// Discover gathers entry points from the package manifest, framework
// conventions, and test-file patterns. Manifest targets that do not
// exist on disk are dropped.
func (p *Provider) Discover() ([]EntryPoint, error) {
	var entries []EntryPoint

	entries = append(entries, p.fromPackageJSON()...)
	entries = append(entries, p.fromWrangler()...)

	files, err := symbolgraph.CollectSourceFiles(p.root)
	if err != nil {
		return nil, err
	}
	entries = append(entries, p.fromConventions(files)...)

	return entries, nil
}

// DedupeByPath keeps the first entry for each path, preserving order.
func DedupeByPath(entries []EntryPoint) []EntryPoint {
	seen := make(map[string]bool, len(entries))
	out := make([]EntryPoint, 0, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		out = append(out, e)
	}
	return out
}

type packageManifest struct {
	Main    string            `json:"main"`
	Bin     json.RawMessage   `json:"bin"`
	Exports json.RawMessage   `json:"exports"`
	Scripts map[string]string `json:"scripts"`
}

func (p *Provider) fromPackageJSON() []EntryPoint {
	data, err := os.ReadFile(filepath.Join(p.root, "package.json"))
	if err != nil {
		return nil
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}

	var entries []EntryPoint
	add := func(rel string, kind Kind, desc string) {
		path := filepath.Join(p.root, rel)
		if _, err := os.Stat(path); err != nil {
			return
		}
		entries = append(entries, EntryPoint{Path: path, Kind: kind, Description: desc})
	}

	if manifest.Main != "" {
		add(manifest.Main, KindManifestMain, "package.json main")
	}
	for _, target := range stringLeaves(manifest.Bin) {
		add(target, KindManifestBin, "package.json bin")
	}
	for _, target := range stringLeaves(manifest.Exports) {
		add(target, KindManifestExports, "package.json exports")
	}
	for name, command := range manifest.Scripts {
		for _, token := range strings.Fields(command) {
			if isSourcePath(token) {
				add(token, KindScript, fmt.Sprintf("package.json script %q", name))
			}
		}
	}
	return entries
}

// stringLeaves collects every string value in an arbitrarily nested
// JSON fragment: "bin" may be a string or a map, and "exports" nests
// condition objects.
func stringLeaves(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	var out []string
	for _, v := range m {
		out = append(out, stringLeaves(v)...)
	}
	return out
}

func (p *Provider) fromWrangler() []EntryPoint {
	tree, err := toml.LoadFile(filepath.Join(p.root, "wrangler.toml"))
	if err != nil {
		return nil
	}
	main, ok := tree.Get("main").(string)
	if !ok || main == "" {
		return nil
	}
	path := filepath.Join(p.root, main)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []EntryPoint{{Path: path, Kind: KindManifestMain, Description: "wrangler.toml main"}}
}

func (p *Provider) fromConventions(files []string) []EntryPoint {
	var entries []EntryPoint
	for _, file := range files {
		rel, err := filepath.Rel(p.root, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(file)

		switch {
		case isTestFile(rel, base):
			entries = append(entries, EntryPoint{Path: file, Kind: KindTestFile, Description: "test file"})
		case isSvelteKitRoute(rel, base):
			entries = append(entries, EntryPoint{Path: file, Kind: KindFrameworkRoute, Description: "SvelteKit route"})
		case isNextRoute(rel, base):
			entries = append(entries, EntryPoint{Path: file, Kind: KindFrameworkRoute, Description: "Next.js route"})
		case isGenericEntry(rel, base):
			entries = append(entries, EntryPoint{Path: file, Kind: KindConvention, Description: "conventional entry module"})
		}
	}
	return entries
}

func isTestFile(rel, base string) bool {
	return strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(rel, "__tests__/")
}

func isSvelteKitRoute(rel, base string) bool {
	if strings.HasPrefix(rel, "src/routes/") && strings.HasPrefix(base, "+") {
		return true
	}
	return strings.HasPrefix(rel, "src/") && strings.HasPrefix(base, "hooks.")
}

func isNextRoute(rel, base string) bool {
	if strings.HasPrefix(rel, "pages/") || strings.HasPrefix(rel, "src/pages/") {
		return true
	}
	if strings.HasPrefix(rel, "app/") || strings.HasPrefix(rel, "src/app/") {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		switch stem {
		case "page", "layout", "route", "loading", "error", "not-found", "template":
			return true
		}
	}
	return strings.HasPrefix(base, "middleware.") && !strings.Contains(strings.TrimPrefix(rel, "src/"), "/")
}

func isGenericEntry(rel, base string) bool {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem != "index" && stem != "main" {
		return false
	}
	return rel == base || rel == "src/"+base
}

func isSourcePath(token string) bool {
	switch filepath.Ext(token) {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".svelte":
		return !strings.HasPrefix(token, "-")
	}
	return false
}
