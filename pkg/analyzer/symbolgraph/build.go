package symbolgraph

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/groundkit/ground/internal/fileproc"
	"github.com/groundkit/ground/pkg/extractor"
)

// skipDirs are directories never descended into during file collection.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".svelte-kit":  true,
	"coverage":     true,
}

// Builder constructs symbol graphs.
type Builder struct {
	aliases    []PathAlias
	workers    int
	onProgress func(done, total int)
}

// Option configures a Builder.
type Option func(*Builder)

// WithAliases sets the ordered path alias table, typically sourced from
// tsconfig or framework detection.
func WithAliases(aliases []PathAlias) Option {
	return func(b *Builder) {
		b.aliases = aliases
	}
}

// WithWorkers overrides the extraction worker count.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithProgress sets a best-effort progress callback. It may be invoked
// from multiple goroutines and is not guaranteed to fire per file.
func WithProgress(fn func(done, total int)) Option {
	return func(b *Builder) {
		b.onProgress = fn
	}
}

// NewBuilder creates a graph builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type fileFacts struct {
	path    string
	exports []extractor.Export
	imports []extractor.Import
}

// Build collects the project's source files and extracts export/import
// facts from each. A file that fails to parse increments ParseErrors
// and contributes no facts; the build itself never aborts on one bad
// file. Extraction runs in parallel; all aggregation into the graph's
// maps happens single-threaded after the workers finish.
func (b *Builder) Build(root string) (*Graph, error) {
	files, err := CollectSourceFiles(root)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Root:            root,
		Files:           make(map[string]struct{}, len(files)),
		Exports:         make(map[string][]extractor.Export),
		Imports:         make(map[string][]extractor.Import),
		SymbolExporters: make(map[string][]Exporter),
		SymbolImporters: make(map[string]map[string]struct{}),
		ReexportChains:  make(map[string][]ReexportLink),
		Aliases:         b.aliases,
		FilesScanned:    len(files),
	}

	total := len(files)
	done := 0
	progress := func() {
		done++
		if b.onProgress != nil {
			b.onProgress(done, total)
		}
	}

	errs := &fileproc.ProcessingErrors{}
	facts := fileproc.MapFilesN(files, b.workers,
		func(ext *extractor.Extractor, path string) (fileFacts, error) {
			exports, err := ext.ExtractExports(path)
			if err != nil {
				return fileFacts{}, err
			}
			imports, err := ext.ExtractImports(path)
			if err != nil {
				return fileFacts{}, err
			}
			return fileFacts{path: path, exports: exports, imports: imports}, nil
		},
		nil,
		errs.Add,
	)
	g.ParseErrors = errs.Count()

	// Deterministic merge order keeps Stats fingerprints stable.
	sort.Slice(facts, func(i, j int) bool { return facts[i].path < facts[j].path })
	for _, f := range facts {
		g.merge(f)
		progress()
	}

	return g, nil
}

func (g *Graph) merge(f fileFacts) {
	g.Files[f.path] = struct{}{}
	g.Exports[f.path] = f.exports
	g.Imports[f.path] = f.imports

	for _, e := range f.exports {
		if e.IsReexport {
			g.ReexportChains[e.Name] = append(g.ReexportChains[e.Name], ReexportLink{
				Reexporter:   f.path,
				SourceModule: e.Source,
			})
			continue
		}
		g.SymbolExporters[e.Name] = append(g.SymbolExporters[e.Name], Exporter{File: f.path, Line: e.Line})
	}
	for _, imp := range f.imports {
		for _, sym := range imp.Symbols {
			set := g.SymbolImporters[sym]
			if set == nil {
				set = make(map[string]struct{})
				g.SymbolImporters[sym] = set
			}
			set[f.path] = struct{}{}
		}
	}
}

// CollectSourceFiles recursively gathers analyzable source files under
// root, skipping hidden directories and common build output.
func CollectSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(name) {
		case ".ts", ".tsx", ".js", ".jsx", ".svelte":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
