package clones

import (
	"github.com/groundkit/ground/pkg/extractor"
)

// FunctionClone is inter-file evidence: the same function name defined
// in two different files with near-identical bodies. The file pair is
// unordered; files are stored in lexical order.
type FunctionClone struct {
	FunctionName string             `json:"function_name"`
	FileA        string             `json:"file_a"`
	FileB        string             `json:"file_b"`
	Similarity   float64            `json:"similarity"`
	FunctionA    extractor.Function `json:"function_a"`
	FunctionB    extractor.Function `json:"function_b"`
}

// IntraFileClone is evidence of two differently named functions inside
// one file whose bodies converge, with a suggested name for the common
// extraction.
type IntraFileClone struct {
	File                string  `json:"file"`
	FunctionA           string  `json:"function_a"`
	FunctionB           string  `json:"function_b"`
	StartLineA          uint32  `json:"start_line_a"`
	StartLineB          uint32  `json:"start_line_b"`
	Similarity          float64 `json:"similarity"`
	SuggestedExtraction string  `json:"suggested_extraction"`
}

// Report is the full clone detection result.
type Report struct {
	InterFile          []FunctionClone  `json:"inter_file"`
	IntraFile          []IntraFileClone `json:"intra_file,omitempty"`
	TotalFunctions     int              `json:"total_functions"`
	FilesScanned       int              `json:"files_scanned"`
	SkippedFiles       int              `json:"skipped_files"`
	ExcludedTestFiles  int              `json:"excluded_test_files"`
	Threshold          float64          `json:"threshold"`
	IntraFileThreshold float64          `json:"intra_file_threshold"`
}

// Summary aggregates the report for table output.
type Summary struct {
	InterFileCount int     `json:"inter_file_count"`
	IntraFileCount int     `json:"intra_file_count"`
	TotalFunctions int     `json:"total_functions"`
	FilesScanned   int     `json:"files_scanned"`
	AvgSimilarity  float64 `json:"avg_similarity"`
}

// Summarize computes aggregate statistics.
func (r *Report) Summarize() Summary {
	s := Summary{
		InterFileCount: len(r.InterFile),
		IntraFileCount: len(r.IntraFile),
		TotalFunctions: r.TotalFunctions,
		FilesScanned:   r.FilesScanned,
	}
	total := 0.0
	n := 0
	for _, c := range r.InterFile {
		total += c.Similarity
		n++
	}
	for _, c := range r.IntraFile {
		total += c.Similarity
		n++
	}
	if n > 0 {
		s.AvgSimilarity = total / float64(n)
	}
	return s
}
