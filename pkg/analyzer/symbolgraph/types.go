// Package symbolgraph builds a project-wide index of exports, imports,
// and re-export chains, and answers the two questions the rest of the
// engine keeps asking: "is export X used anywhere" and "does specifier
// S resolve to file F".
package symbolgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/groundkit/ground/pkg/extractor"
	"github.com/zeebo/blake3"
)

// PathAlias maps an import-prefix shorthand to a real path fragment.
// The table is ordered; the first matching pattern wins.
type PathAlias struct {
	Pattern string `json:"pattern"`
	Target  string `json:"target"`
}

// Exporter records one file exporting a symbol.
type Exporter struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
}

// ReexportLink records one file forwarding a symbol from another module.
type ReexportLink struct {
	Reexporter   string `json:"reexporter"`
	SourceModule string `json:"source_module"`
}

// Graph is the built symbol graph. It is immutable after Build; queries
// never mutate it, so concurrent readers need no locking. The module
// resolution cache is the one internally synchronized exception.
type Graph struct {
	Root  string
	Files map[string]struct{}

	// Per-file facts as extracted.
	Exports map[string][]extractor.Export
	Imports map[string][]extractor.Import

	// Derived indices.
	SymbolExporters map[string][]Exporter
	SymbolImporters map[string]map[string]struct{}
	ReexportChains  map[string][]ReexportLink

	Aliases []PathAlias

	FilesScanned int
	ParseErrors  int

	resolveCache sync.Map
}

// Stats summarizes a built graph. Rebuilding on an unchanged tree yields
// an identical value, fingerprint included.
type Stats struct {
	FilesScanned          int    `json:"files_scanned"`
	ParseErrors           int    `json:"parse_errors"`
	TotalExports          int    `json:"total_exports"`
	TotalImports          int    `json:"total_imports"`
	UniqueExportedSymbols int    `json:"unique_exported_symbols"`
	UniqueImportedSymbols int    `json:"unique_imported_symbols"`
	ReexportCount         int    `json:"reexport_count"`
	Fingerprint           string `json:"fingerprint"`
}

// Stats computes aggregate statistics over the graph. The fingerprint
// hashes every export and import fact in sorted order, so it is stable
// across rebuilds of an unchanged tree.
func (g *Graph) Stats() Stats {
	s := Stats{
		FilesScanned:          g.FilesScanned,
		ParseErrors:           g.ParseErrors,
		UniqueExportedSymbols: len(g.SymbolExporters),
		UniqueImportedSymbols: len(g.SymbolImporters),
	}

	var lines []string
	for file, exports := range g.Exports {
		for _, e := range exports {
			s.TotalExports++
			if e.IsReexport {
				s.ReexportCount++
			}
			lines = append(lines, fmt.Sprintf("export\x00%s\x00%s\x00%d\x00%t\x00%s", file, e.Name, e.Line, e.IsReexport, e.Source))
		}
	}
	for file, imports := range g.Imports {
		for _, imp := range imports {
			s.TotalImports++
			for _, sym := range imp.Symbols {
				lines = append(lines, fmt.Sprintf("import\x00%s\x00%s\x00%s\x00%d", file, sym, imp.Source, imp.StartLine))
			}
			if len(imp.Symbols) == 0 {
				lines = append(lines, fmt.Sprintf("import\x00%s\x00\x00%s\x00%d", file, imp.Source, imp.StartLine))
			}
		}
	}
	sort.Strings(lines)

	h := blake3.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	s.Fingerprint = fmt.Sprintf("%x", h.Sum(nil))
	return s
}

// DeadExport is a non-reexport export with no resolving importer,
// direct or via a barrel chain.
type DeadExport struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Context string `json:"context,omitempty"`
}

// DeadExportsReport is the batch dead-export query result.
type DeadExportsReport struct {
	DeadExports  []DeadExport `json:"dead_exports"`
	TotalExports int          `json:"total_exports"`
	FilesScanned int          `json:"files_scanned"`
	ParseErrors  int          `json:"parse_errors"`
}
