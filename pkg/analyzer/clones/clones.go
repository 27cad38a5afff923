// Package clones detects near-duplicate functions: the same name
// re-implemented across files, and optionally differently named twins
// inside one file. Similarity is a cheap positional token metric, not
// an edit distance; see Compare.
package clones

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/groundkit/ground/internal/fileproc"
	"github.com/groundkit/ground/pkg/extractor"
)

// DefaultThreshold is the inter-file similarity floor.
const DefaultThreshold = 0.8

// DefaultIntraFileThreshold is stricter: name divergence removes a
// disambiguating signal, so the bodies must agree more.
const DefaultIntraFileThreshold = 0.85

// DefaultTestPatterns exclude test files from clone analysis.
var DefaultTestPatterns = []string{".test.", ".spec.", "__tests__/"}

// Analyzer detects function-level clones.
type Analyzer struct {
	threshold        float64
	intraThreshold   float64
	intraFile        bool
	minFunctionLines int
	testPatterns     []string
	workers          int
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithThreshold sets the inter-file similarity threshold.
func WithThreshold(t float64) Option {
	return func(a *Analyzer) { a.threshold = t }
}

// WithIntraFile enables intra-file clone detection.
func WithIntraFile(enabled bool) Option {
	return func(a *Analyzer) { a.intraFile = enabled }
}

// WithIntraFileThreshold sets the intra-file similarity threshold.
func WithIntraFileThreshold(t float64) Option {
	return func(a *Analyzer) { a.intraThreshold = t }
}

// WithMinFunctionLines drops functions spanning fewer lines.
func WithMinFunctionLines(n int) Option {
	return func(a *Analyzer) { a.minFunctionLines = n }
}

// WithTestPatterns replaces the default test-file exclusion patterns.
// Patterns containing glob metacharacters match with doublestar
// semantics; plain patterns match as substrings.
func WithTestPatterns(patterns []string) Option {
	return func(a *Analyzer) { a.testPatterns = patterns }
}

// WithWorkers overrides the extraction worker count.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

// New creates a clone analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		threshold:      DefaultThreshold,
		intraThreshold: DefaultIntraFileThreshold,
		testPatterns:   DefaultTestPatterns,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type fileFunctions struct {
	path      string
	functions []extractor.Function
}

// Analyze extracts functions from every non-test file and compares all
// retained pairs. Files that fail extraction are counted as skipped;
// the analysis never aborts on one bad file.
func (a *Analyzer) Analyze(files []string) (*Report, error) {
	report := &Report{
		InterFile:          []FunctionClone{},
		Threshold:          a.threshold,
		IntraFileThreshold: a.intraThreshold,
	}

	retained := make([]string, 0, len(files))
	for _, f := range files {
		if a.isTestFile(f) {
			report.ExcludedTestFiles++
			continue
		}
		retained = append(retained, f)
	}
	report.FilesScanned = len(retained)

	errs := &fileproc.ProcessingErrors{}
	extracted := fileproc.MapFilesN(retained, a.workers,
		func(ext *extractor.Extractor, path string) (fileFunctions, error) {
			fns, err := ext.ExtractFunctions(path)
			if err != nil {
				return fileFunctions{}, err
			}
			return fileFunctions{path: path, functions: fns}, nil
		},
		nil,
		errs.Add,
	)
	report.SkippedFiles = errs.Count()

	sort.Slice(extracted, func(i, j int) bool { return extracted[i].path < extracted[j].path })

	type candidate struct {
		file string
		fn   extractor.Function
		hash uint64
	}
	var candidates []candidate
	for _, ff := range extracted {
		for _, fn := range ff.functions {
			if a.minFunctionLines > 0 && fn.LineCount() < a.minFunctionLines {
				continue
			}
			candidates = append(candidates, candidate{
				file: ff.path,
				fn:   fn,
				hash: xxhash.Sum64String(fn.NormalizedBody),
			})
		}
	}
	report.TotalFunctions = len(candidates)

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			ca, cb := candidates[i], candidates[j]
			sameFile := ca.file == cb.file
			sameName := ca.fn.Name == cb.fn.Name

			switch {
			case !sameFile && sameName:
				sim := a.similarity(ca.fn, cb.fn, ca.hash, cb.hash)
				if sim >= a.threshold {
					report.InterFile = append(report.InterFile, newInterClone(ca.file, cb.file, ca.fn, cb.fn, sim))
				}
			case a.intraFile && sameFile && !sameName:
				sim := a.similarity(ca.fn, cb.fn, ca.hash, cb.hash)
				if sim >= a.intraThreshold {
					report.IntraFile = append(report.IntraFile, IntraFileClone{
						File:                ca.file,
						FunctionA:           ca.fn.Name,
						FunctionB:           cb.fn.Name,
						StartLineA:          ca.fn.StartLine,
						StartLineB:          cb.fn.StartLine,
						Similarity:          sim,
						SuggestedExtraction: suggestExtractionName(ca.fn.Name, cb.fn.Name),
					})
				}
			}
		}
	}

	return report, nil
}

func newInterClone(fileA, fileB string, fnA, fnB extractor.Function, sim float64) FunctionClone {
	if fileB < fileA {
		fileA, fileB = fileB, fileA
		fnA, fnB = fnB, fnA
	}
	return FunctionClone{
		FunctionName: fnA.Name,
		FileA:        fileA,
		FileB:        fileB,
		Similarity:   sim,
		FunctionA:    fnA,
		FunctionB:    fnB,
	}
}

// similarity short-circuits on identical normalized-body fingerprints
// before falling back to the positional metric.
func (a *Analyzer) similarity(fnA, fnB extractor.Function, hashA, hashB uint64) float64 {
	if hashA == hashB && fnA.NormalizedBody == fnB.NormalizedBody {
		return 1.0
	}
	return Compare(fnA.NormalizedBody, fnB.NormalizedBody)
}

// Compare scores two normalized bodies. Tokens are whitespace-split and
// compared position-wise (zipped, not aligned): a single early
// insertion desynchronizes the rest and depresses the score sharply,
// which is the accepted trade-off for speed. The score is
// 0.7*token_similarity + 0.3*length_penalty. Two empty bodies score
// 1.0; empty against non-empty scores 0.0.
func Compare(bodyA, bodyB string) float64 {
	tokensA := strings.Fields(bodyA)
	tokensB := strings.Fields(bodyB)

	lenA, lenB := len(tokensA), len(tokensB)
	if lenA == 0 && lenB == 0 {
		return 1.0
	}
	if lenA == 0 || lenB == 0 {
		return 0.0
	}

	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	minLen := lenA
	if lenB < minLen {
		minLen = lenB
	}

	equal := 0
	for i := 0; i < minLen; i++ {
		if tokensA[i] == tokensB[i] {
			equal++
		}
	}
	tokenSimilarity := float64(equal) / float64(maxLen)

	diff := float64(maxLen - minLen)
	lengthPenalty := 1.0 - min(diff/float64(maxLen), 1.0)

	return 0.7*tokenSimilarity + 0.3*lengthPenalty
}

func (a *Analyzer) isTestFile(path string) bool {
	slashed := strings.ReplaceAll(path, "\\", "/")
	for _, pattern := range a.testPatterns {
		if strings.ContainsAny(pattern, "*?[") {
			if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
				return true
			}
			continue
		}
		if strings.Contains(slashed, pattern) {
			return true
		}
	}
	return false
}
