// Package reachability classifies every module in a project as an
// entry point, reachable from one, or unreachable. It builds a
// lightweight import graph from a textual scan and runs a multi-source
// BFS from the entry-point set.
package reachability

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/groundkit/ground/internal/fileproc"
	"github.com/groundkit/ground/pkg/analyzer/entrypoints"
)

// Status is the reachability classification of one module. Every
// module lands in exactly one class.
type Status string

const (
	StatusEntryPoint  Status = "entry_point"
	StatusReachable   Status = "reachable"
	StatusUnreachable Status = "unreachable"
)

// ModuleReachability is the per-module result. Distance is the hop
// count from the nearest entry point, -1 when unreachable. ReachedFrom
// lists the entry points that reach the module and is only populated
// for StatusReachable.
type ModuleReachability struct {
	Path        string   `json:"path"`
	Status      Status   `json:"status"`
	ReachedFrom []string `json:"reached_from,omitempty"`
	Distance    int      `json:"distance"`
}

// GraphMetrics summarizes the import graph's shape.
type GraphMetrics struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	Density   float64 `json:"density"`
	AvgDegree float64 `json:"avg_degree"`
}

// Report is the full reachability analysis result.
type Report struct {
	EntryPoints      []entrypoints.EntryPoint `json:"entry_points"`
	Modules          []ModuleReachability     `json:"modules"`
	TotalModules     int                      `json:"total_modules"`
	EntryPointCount  int                      `json:"entry_point_count"`
	ReachableCount   int                      `json:"reachable_count"`
	UnreachableCount int                      `json:"unreachable_count"`
	SkippedFiles     int                      `json:"skipped_files"`
	Metrics          GraphMetrics             `json:"metrics"`
}

// Analyzer runs reachability analysis.
type Analyzer struct {
	extraEntries []entrypoints.EntryPoint
	workers      int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExtraEntryPoints supplies externally detected entry points, e.g.
// from framework-convention detection beyond the built-in provider.
func WithExtraEntryPoints(entries []entrypoints.EntryPoint) Option {
	return func(a *Analyzer) {
		a.extraEntries = append(a.extraEntries, entries...)
	}
}

// WithWorkers overrides the scan worker count.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates an analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type importGraph struct {
	paths   []string
	ids     map[string]int
	edges   [][]int
	edgeCnt int
}

// Analyze collects the module set under directory, gathers entry
// points, builds the import graph, and classifies every module.
func (a *Analyzer) Analyze(directory string) (*Report, error) {
	modules, err := collectModules(directory)
	if err != nil {
		return nil, err
	}

	entries, err := entrypoints.New(directory).Discover()
	if err != nil {
		return nil, err
	}
	entries = entrypoints.DedupeByPath(append(entries, a.extraEntries...))

	moduleSet := make(map[string]bool, len(modules))
	for _, m := range modules {
		moduleSet[filepath.Clean(m)] = true
	}

	// Entry points that are not modules (e.g. a manifest pointing at a
	// generated file outside the collected set) cannot seed the BFS.
	seeds := entries[:0]
	for _, e := range entries {
		if moduleSet[filepath.Clean(e.Path)] {
			seeds = append(seeds, e)
		}
	}
	entries = seeds

	graph, skipped := a.buildGraph(modules, moduleSet)

	report := &Report{
		EntryPoints:  entries,
		TotalModules: len(modules),
		SkippedFiles: skipped,
		Metrics:      graph.metrics(),
	}

	entryIDs := make([]int, 0, len(entries))
	entrySet := roaring.New()
	for _, e := range entries {
		id := graph.ids[filepath.Clean(e.Path)]
		entryIDs = append(entryIDs, id)
		entrySet.Add(uint32(id))
	}

	distances := graph.multiSourceBFS(entryIDs)

	// Per-entry reachable sets for attribution: one single-source BFS
	// per entry point, shared across modules. Attribution order follows
	// the entry-point list.
	perEntry := make([]*roaring.Bitmap, len(entryIDs))
	for i, id := range entryIDs {
		perEntry[i] = graph.singleSourceBFS(id)
	}

	for id, path := range graph.paths {
		mr := ModuleReachability{Path: path, Distance: -1}
		switch {
		case entrySet.Contains(uint32(id)):
			mr.Status = StatusEntryPoint
			mr.Distance = 0
			report.EntryPointCount++
		case distances[id] >= 0:
			mr.Status = StatusReachable
			mr.Distance = distances[id]
			for i, reach := range perEntry {
				if reach.Contains(uint32(id)) {
					mr.ReachedFrom = append(mr.ReachedFrom, entries[i].Path)
				}
			}
			report.ReachableCount++
		default:
			mr.Status = StatusUnreachable
			report.UnreachableCount++
		}
		report.Modules = append(report.Modules, mr)
	}

	sort.Slice(report.Modules, func(i, j int) bool {
		return report.Modules[i].Path < report.Modules[j].Path
	})
	return report, nil
}

// buildGraph scans every module's imports in parallel and assembles
// the adjacency lists single-threaded afterwards.
func (a *Analyzer) buildGraph(modules []string, moduleSet map[string]bool) (*importGraph, int) {
	g := &importGraph{
		paths: make([]string, len(modules)),
		ids:   make(map[string]int, len(modules)),
		edges: make([][]int, len(modules)),
	}
	for i, m := range modules {
		clean := filepath.Clean(m)
		g.paths[i] = clean
		g.ids[clean] = i
	}

	type scanned struct {
		path  string
		specs []string
	}
	errs := &fileproc.ProcessingErrors{}
	results := fileproc.ForEachFileN(modules, a.workers,
		func(path string) (scanned, error) {
			specs, err := scanImports(path)
			if err != nil {
				return scanned{}, err
			}
			return scanned{path: path, specs: specs}, nil
		},
		nil,
		errs.Add,
	)
	skipped := errs.Count()

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	for _, r := range results {
		from := g.ids[filepath.Clean(r.path)]
		for _, spec := range r.specs {
			target, ok := resolveSpecifier(spec, r.path, moduleSet)
			if !ok {
				continue
			}
			to, known := g.ids[target]
			if !known {
				continue
			}
			g.edges[from] = append(g.edges[from], to)
			g.edgeCnt++
		}
	}
	return g, skipped
}

// multiSourceBFS returns the first-seen hop distance for every node
// reachable from the seed set, -1 elsewhere.
func (g *importGraph) multiSourceBFS(seeds []int) []int {
	distances := make([]int, len(g.paths))
	for i := range distances {
		distances[i] = -1
	}
	visited := roaring.New()
	queue := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if visited.CheckedAdd(uint32(s)) {
			distances[s] = 0
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.edges[node] {
			if visited.CheckedAdd(uint32(next)) {
				distances[next] = distances[node] + 1
				queue = append(queue, next)
			}
		}
	}
	return distances
}

// singleSourceBFS returns the set of nodes reachable from one seed.
func (g *importGraph) singleSourceBFS(seed int) *roaring.Bitmap {
	visited := roaring.New()
	visited.Add(uint32(seed))
	queue := []int{seed}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.edges[node] {
			if visited.CheckedAdd(uint32(next)) {
				queue = append(queue, next)
			}
		}
	}
	return visited
}

// skipModuleDirs extends the source collection skip list with the
// directories common in mixed-language repos.
var skipModuleDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".svelte-kit":  true,
	"coverage":     true,
	"vendor":       true,
	"venv":         true,
	"target":       true,
	"__pycache__":  true,
}

func collectModules(root string) ([]string, error) {
	var modules []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipModuleDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(name) {
		case ".ts", ".tsx", ".js", ".jsx", ".svelte", ".mjs", ".cjs":
			modules = append(modules, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(modules)
	return modules, nil
}
