// Package usage scans raw source text for occurrences of a symbol and
// classifies each as a definition, a type-only mention, or a runtime
// usage. The scan is textual by design: it covers languages the AST
// extractor does not parse and catches string-adjacent references the
// symbol graph would miss.
package usage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/groundkit/ground/internal/fileproc"
)

// Type classifies one occurrence of a symbol.
type Type string

const (
	TypeDefinition Type = "definition"
	TypeUsage      Type = "usage"
	TypeTypeOnly   Type = "type_only"
)

// Location is one classified occurrence.
type Location struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context"`
	Type    Type   `json:"type"`
}

// Evidence aggregates every occurrence of a symbol in a scan scope.
// The three per-type counts always sum to UsageCount.
type Evidence struct {
	Symbol           string     `json:"symbol"`
	Locations        []Location `json:"locations"`
	UsageCount       int        `json:"usage_count"`
	DefinitionCount  int        `json:"definition_count"`
	ActualUsageCount int        `json:"actual_usage_count"`
	TypeOnlyCount    int        `json:"type_only_count"`
	SkippedFiles     int        `json:"skipped_files"`
}

// EarnsExistence reports whether the symbol has at least min
// non-definition mentions. Type-only mentions count: a type referenced
// in annotations is doing work.
func (e *Evidence) EarnsExistence(min int) bool {
	return e.ActualUsageCount+e.TypeOnlyCount >= min
}

// IsExportedButUnused reports a defined symbol with no mention of any
// other kind.
func (e *Evidence) IsExportedButUnused() bool {
	return e.DefinitionCount > 0 && e.ActualUsageCount == 0 && e.TypeOnlyCount == 0
}

// scanExtensions are the file types included in a usage scan. Wider
// than the analyzable grammar set: usage evidence cares about any
// reference, including from Rust, Python, or Go neighbors in a
// polyglot repository.
var scanExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".rs": true, ".py": true, ".go": true,
}

var skipScanDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".svelte-kit":  true,
	"coverage":     true,
	"vendor":       true,
	"target":       true,
	"__pycache__":  true,
}

// Classifier counts symbol usages under a root.
type Classifier struct {
	workers int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithWorkers overrides the scan worker count.
func WithWorkers(n int) Option {
	return func(c *Classifier) { c.workers = n }
}

// New creates a usage classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CountUsages scans every supported file under path for word-boundary
// occurrences of symbol. Unreadable files are counted as skipped; the
// scan never aborts on one bad file.
func (c *Classifier) CountUsages(symbol, path string) (*Evidence, error) {
	files, err := collectScanFiles(path)
	if err != nil {
		return nil, err
	}

	errs := &fileproc.ProcessingErrors{}
	perFile := fileproc.ForEachFileN(files, c.workers,
		func(file string) ([]Location, error) {
			return scanFile(symbol, file)
		},
		nil,
		errs.Add,
	)

	evidence := &Evidence{Symbol: symbol, Locations: []Location{}, SkippedFiles: errs.Count()}
	for _, locations := range perFile {
		evidence.Locations = append(evidence.Locations, locations...)
	}
	sort.Slice(evidence.Locations, func(i, j int) bool {
		a, b := evidence.Locations[i], evidence.Locations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	for _, loc := range evidence.Locations {
		evidence.UsageCount++
		switch loc.Type {
		case TypeDefinition:
			evidence.DefinitionCount++
		case TypeTypeOnly:
			evidence.TypeOnlyCount++
		default:
			evidence.ActualUsageCount++
		}
	}
	return evidence, nil
}

func scanFile(symbol, file string) ([]Location, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var locations []Location
	for i, line := range strings.Split(string(data), "\n") {
		for _, col := range wordBoundaryOccurrences(line, symbol) {
			locations = append(locations, Location{
				File:    file,
				Line:    i + 1,
				Column:  col + 1,
				Context: strings.TrimSpace(line),
				Type:    Classify(line, symbol, col),
			})
		}
	}
	return locations, nil
}

// wordBoundaryOccurrences returns the byte offsets of every occurrence
// of symbol in line bounded by non-alphanumeric characters or the
// string edges. The check is ASCII-naive on purpose.
func wordBoundaryOccurrences(line, symbol string) []int {
	if symbol == "" {
		return nil
	}
	var cols []int
	for start := 0; ; {
		idx := strings.Index(line[start:], symbol)
		if idx < 0 {
			break
		}
		col := start + idx
		if boundedAt(line, col, len(symbol)) {
			cols = append(cols, col)
		}
		start = col + len(symbol)
	}
	return cols
}

func boundedAt(line string, col, length int) bool {
	if col > 0 && isWordByte(line[col-1]) {
		return false
	}
	end := col + length
	if end < len(line) && isWordByte(line[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func collectScanFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipScanDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if scanExtensions[filepath.Ext(name)] {
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
