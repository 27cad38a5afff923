package symbolgraph

import (
	"os"
	"sort"
	"strings"
)

// FindDeadExports returns every non-reexport export that no importer
// resolves to, directly or through a re-export chain. Re-exports
// themselves are never reported; they are forwarding plumbing, not
// definitions.
func (g *Graph) FindDeadExports() *DeadExportsReport {
	report := &DeadExportsReport{
		DeadExports:  []DeadExport{},
		FilesScanned: g.FilesScanned,
		ParseErrors:  g.ParseErrors,
	}

	files := make([]string, 0, len(g.Exports))
	for file := range g.Exports {
		files = append(files, file)
	}
	sort.Strings(files)

	lineCache := map[string][]string{}

	for _, file := range files {
		for _, e := range g.Exports[file] {
			if e.IsReexport {
				continue
			}
			report.TotalExports++
			if g.usedDirectly(e.Name, file) {
				continue
			}
			if g.usedViaReexport(e.Name, file, map[string]bool{}) {
				continue
			}
			report.DeadExports = append(report.DeadExports, DeadExport{
				Name:    e.Name,
				File:    file,
				Line:    e.Line,
				Context: sourceLine(lineCache, file, e.Line),
			})
		}
	}
	return report
}

// usedDirectly reports whether some file imports name with a specifier
// that resolves to the exporting file.
func (g *Graph) usedDirectly(name, exportingFile string) bool {
	for importer := range g.SymbolImporters[name] {
		for _, imp := range g.Imports[importer] {
			if !containsSymbol(imp.Symbols, name) {
				continue
			}
			if g.ResolvesTo(imp.Source, exportingFile, importer) {
				return true
			}
		}
	}
	return false
}

// usedViaReexport walks re-export chains whose declared source resolves
// back to the exporting file, looking for an importer that imports the
// symbol from the re-exporter instead. Chains may be nested (a barrel
// of barrels); the visited set terminates cyclic chains.
func (g *Graph) usedViaReexport(name, exportingFile string, visited map[string]bool) bool {
	if visited[exportingFile] {
		return false
	}
	visited[exportingFile] = true

	links := append([]ReexportLink{}, g.ReexportChains[name]...)
	// export * forwards every symbol, so star chains apply to any name.
	links = append(links, g.ReexportChains["*"]...)

	for _, link := range links {
		if link.Reexporter == exportingFile {
			continue
		}
		if !g.ResolvesTo(link.SourceModule, exportingFile, link.Reexporter) {
			continue
		}
		if g.usedDirectly(name, link.Reexporter) {
			return true
		}
		if g.usedViaReexport(name, link.Reexporter, visited) {
			return true
		}
	}
	return false
}

func containsSymbol(symbols []string, name string) bool {
	for _, s := range symbols {
		if s == name {
			return true
		}
	}
	return false
}

// sourceLine reads the export's declaration line for report context.
// Best effort: unreadable files yield an empty context.
func sourceLine(cache map[string][]string, file string, line uint32) string {
	lines, ok := cache[file]
	if !ok {
		data, err := os.ReadFile(file)
		if err != nil {
			cache[file] = nil
			return ""
		}
		lines = strings.Split(string(data), "\n")
		cache[file] = lines
	}
	idx := int(line) - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[idx])
}
