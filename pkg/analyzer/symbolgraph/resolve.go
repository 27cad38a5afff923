package symbolgraph

import (
	"path/filepath"
	"strings"
)

var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".svelte"}

// ResolvesTo reports whether the module specifier spec, written in
// importer, refers to the target file. The specifier is first mapped
// through the alias table; relative specifiers are joined to the
// importer's directory and tried with the usual extension and index
// candidates; non-relative specifiers are tried against the project
// root, then against a raw substring check. When a candidate cannot be
// canonicalized the comparison degrades to a suffix/substring heuristic
// on the raw strings, a deliberate imprecision that favors recall.
//
// Results are cached per (spec, target, importer directory).
func (g *Graph) ResolvesTo(spec, target, importer string) bool {
	importerDir := filepath.Dir(importer)
	key := spec + "\x00" + target + "\x00" + importerDir
	if v, ok := g.resolveCache.Load(key); ok {
		return v.(bool)
	}
	result := g.resolve(spec, target, importerDir)
	g.resolveCache.Store(key, result)
	return result
}

func (g *Graph) resolve(spec, target, importerDir string) bool {
	resolved := ResolveAlias(g.Aliases, spec)

	canonTarget, targetErr := canonicalize(target)

	if strings.HasPrefix(resolved, "./") || strings.HasPrefix(resolved, "../") {
		joined := filepath.Join(importerDir, resolved)
		if targetErr != nil {
			return suffixMatch(resolved, target)
		}
		return matchesCandidates(joined, canonTarget) || suffixFallback(joined, resolved, target)
	}

	// Non-relative: try the specifier rooted at the project, then fall
	// back to a raw substring check.
	joined := filepath.Join(g.Root, resolved)
	if targetErr == nil && matchesCandidates(joined, canonTarget) {
		return true
	}
	return strings.Contains(target, strings.TrimPrefix(resolved, "/"))
}

// candidatePaths enumerates the file paths a resolved specifier may
// denote: the path itself, the path with each source extension, and an
// index file in the path-as-directory.
func candidatePaths(joined string) []string {
	candidates := []string{joined}
	for _, ext := range sourceExtensions {
		candidates = append(candidates, joined+ext)
	}
	for _, ext := range sourceExtensions {
		candidates = append(candidates, filepath.Join(joined, "index"+ext))
	}
	return candidates
}

func matchesCandidates(joined, canonTarget string) bool {
	for _, candidate := range candidatePaths(joined) {
		canon, err := canonicalize(candidate)
		if err != nil {
			continue
		}
		if canon == canonTarget {
			return true
		}
	}
	return false
}

// suffixFallback applies the heuristic only when none of the candidates
// could be canonicalized, mirroring the "canonicalization failure"
// degradation rather than widening every miss.
func suffixFallback(joined, spec, target string) bool {
	for _, candidate := range candidatePaths(joined) {
		if _, err := canonicalize(candidate); err == nil {
			return false
		}
	}
	return suffixMatch(spec, target)
}

// canonicalize resolves a path to its absolute, symlink-free form. It
// fails when the path does not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// suffixMatch compares the specifier's trailing path fragment against
// the target path.
func suffixMatch(spec, target string) bool {
	s := spec
	for {
		if rest, ok := strings.CutPrefix(s, "./"); ok {
			s = rest
			continue
		}
		if rest, ok := strings.CutPrefix(s, "../"); ok {
			s = rest
			continue
		}
		break
	}
	if s == "" {
		return false
	}
	stem := strings.TrimSuffix(target, filepath.Ext(target))
	return strings.HasSuffix(stem, s) || strings.Contains(target, s)
}
