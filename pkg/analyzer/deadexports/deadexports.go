// Package deadexports answers "is this specific export truly unused"
// for a single module against a scan scope. It is the scope-local,
// AST-based counterpart of the symbol graph's batch query: slower per
// export, but requires no prebuilt graph. The two paths must agree on
// the direct-import-or-one-hop-barrel semantics.
package deadexports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/groundkit/ground/internal/fileproc"
	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/extractor"
)

// DeadExport is an export of the queried module with no importer in
// the scan scope.
type DeadExport struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Context string `json:"context,omitempty"`
}

// Report is the scope-local dead-export result.
type Report struct {
	Module       string       `json:"module"`
	Scope        string       `json:"scope"`
	DeadExports  []DeadExport `json:"dead_exports"`
	TotalExports int          `json:"total_exports"`
	ScannedFiles int          `json:"scanned_files"`
	SkippedFiles int          `json:"skipped_files"`
}

// Resolver runs scope-local dead-export queries.
type Resolver struct {
	workers int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkers overrides the scan worker count.
func WithWorkers(n int) Option {
	return func(r *Resolver) { r.workers = n }
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindDeadExports retrieves the module's own exports and scans scope
// for importers. An export survives if any file imports its name, or
// if a barrel in the module's directory forwards it and any file
// imports from that barrel. This is a single-target operation: failure
// to parse the module itself propagates rather than being counted.
func (r *Resolver) FindDeadExports(module, scope string) (*Report, error) {
	ext := extractor.New()
	defer ext.Close()

	exports, err := ext.ExtractExports(module)
	if err != nil {
		return nil, fmt.Errorf("extracting exports of %s: %w", module, err)
	}

	files, err := symbolgraph.CollectSourceFiles(scope)
	if err != nil {
		return nil, err
	}
	// The queried module's own imports never count as usage of itself.
	scanFiles := files[:0]
	moduleClean := filepath.Clean(module)
	for _, f := range files {
		if filepath.Clean(f) != moduleClean {
			scanFiles = append(scanFiles, f)
		}
	}

	type fileImports struct {
		path    string
		imports []extractor.Import
	}
	errs := &fileproc.ProcessingErrors{}
	scanned := fileproc.MapFilesN(scanFiles, r.workers,
		func(ext *extractor.Extractor, path string) (fileImports, error) {
			imports, err := ext.ExtractImports(path)
			if err != nil {
				return fileImports{}, err
			}
			return fileImports{path: path, imports: imports}, nil
		},
		nil,
		errs.Add,
	)

	report := &Report{
		Module:       module,
		Scope:        scope,
		DeadExports:  []DeadExport{},
		ScannedFiles: len(scanFiles),
		SkippedFiles: errs.Count(),
	}

	barrel, barrelSymbols := r.barrelFor(ext, module)

	for _, e := range exports {
		if e.IsReexport {
			continue
		}
		report.TotalExports++

		used := false
		for _, fi := range scanned {
			if importsSymbol(fi.imports, e.Name) {
				used = true
				break
			}
		}

		if !used && barrel != "" && reexportsName(barrelSymbols, e.Name) {
			barrelDir := filepath.Base(filepath.Dir(barrel))
			for _, fi := range scanned {
				if importsFromBarrel(fi.imports, barrelDir) {
					used = true
					break
				}
			}
		}

		if !used {
			report.DeadExports = append(report.DeadExports, DeadExport{
				Name:    e.Name,
				File:    module,
				Line:    e.Line,
				Context: fmt.Sprintf("exported from %s", filepath.Base(module)),
			})
		}
	}
	return report, nil
}

// barrelFor locates an index file beside the module and returns the
// symbols it re-exports specifically from the module's filename stem.
func (r *Resolver) barrelFor(ext *extractor.Extractor, module string) (string, []string) {
	dir := filepath.Dir(module)
	stem := moduleStem(module)
	for _, name := range []string{"index.ts", "index.tsx", "index.js", "index.jsx"} {
		barrel := filepath.Join(dir, name)
		if filepath.Clean(barrel) == filepath.Clean(module) {
			continue
		}
		if _, err := os.Stat(barrel); err != nil {
			continue
		}
		return barrel, ReexportedSymbols(ext, barrel, stem)
	}
	return "", nil
}

// ReexportedSymbols returns the symbol names the barrel file forwards
// from a module matching stem. A star re-export from the module is
// reported as "*", meaning every symbol.
func ReexportedSymbols(ext *extractor.Extractor, barrelFile, stem string) []string {
	exports, err := ext.ExtractExports(barrelFile)
	if err != nil {
		return nil
	}
	var symbols []string
	for _, e := range exports {
		if !e.IsReexport {
			continue
		}
		if sourceMatchesStem(e.Source, stem) {
			symbols = append(symbols, e.Name)
		}
	}
	return symbols
}

func sourceMatchesStem(source, stem string) bool {
	s := strings.TrimSuffix(source, filepath.Ext(source))
	return s == stem || s == "./"+stem || strings.HasSuffix(s, "/"+stem)
}

func moduleStem(module string) string {
	base := filepath.Base(module)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func reexportsName(symbols []string, name string) bool {
	for _, s := range symbols {
		if s == name || s == "*" {
			return true
		}
	}
	return false
}

func importsSymbol(imports []extractor.Import, name string) bool {
	for _, imp := range imports {
		for _, sym := range imp.Symbols {
			if sym == name {
				return true
			}
		}
	}
	return false
}

// importsFromBarrel reports whether any import's specifier resolves to
// the barrel's directory by suffix match: .../{barrelDir} or
// .../{barrelDir}/index with or without extension. The importer does
// not have to name the symbol: a namespace import from the barrel
// still pins everything the barrel forwards.
func importsFromBarrel(imports []extractor.Import, barrelDir string) bool {
	for _, imp := range imports {
		spec := strings.TrimSuffix(imp.Source, filepath.Ext(imp.Source))
		spec = strings.TrimSuffix(spec, "/")
		if spec == barrelDir || spec == "./"+barrelDir {
			return true
		}
		if strings.HasSuffix(spec, "/"+barrelDir) {
			return true
		}
		if strings.HasSuffix(spec, "/"+barrelDir+"/index") || spec == "./"+barrelDir+"/index" || spec == barrelDir+"/index" {
			return true
		}
	}
	return false
}

