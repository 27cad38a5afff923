package reachability

import (
	"os"
	"path/filepath"
	"regexp"
)

// The import scanner is deliberately textual: a cheap regex pass that
// is independent of the AST extractor, so reachability can cover files
// the grammar chokes on and stays fast on large trees.
var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)import\s+[^'"]*?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)import\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)export\s+[^'"]*?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
}

// scanImports extracts module specifiers from one file's raw text.
func scanImports(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []string
	seen := map[string]bool{}
	for _, pattern := range importPatterns {
		for _, m := range pattern.FindAllSubmatch(data, -1) {
			spec := string(m[1])
			if !seen[spec] {
				seen[spec] = true
				specs = append(specs, spec)
			}
		}
	}
	return specs, nil
}

var moduleExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".svelte", ".mjs", ".cjs"}

// resolveSpecifier maps a relative specifier written in fromFile to a
// concrete module path, trying the bare path, extension candidates, and
// index files. Only results that are part of the known module set or
// exist on disk produce an edge. Non-relative specifiers are package
// imports and yield no edge.
func resolveSpecifier(spec, fromFile string, modules map[string]bool) (string, bool) {
	if len(spec) == 0 || spec[0] != '.' {
		return "", false
	}
	joined := filepath.Join(filepath.Dir(fromFile), spec)

	candidates := []string{joined}
	for _, ext := range moduleExtensions {
		candidates = append(candidates, joined+ext)
	}
	for _, ext := range moduleExtensions {
		candidates = append(candidates, filepath.Join(joined, "index"+ext))
	}

	for _, candidate := range candidates {
		clean := filepath.Clean(candidate)
		if modules[clean] {
			return clean, true
		}
	}
	for _, candidate := range candidates {
		clean := filepath.Clean(candidate)
		if info, err := os.Stat(clean); err == nil && !info.IsDir() {
			return clean, true
		}
	}
	return "", false
}
