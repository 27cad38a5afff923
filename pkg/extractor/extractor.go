// Package extractor provides tree-sitter based extraction of exports,
// imports, and function declarations from TypeScript and JavaScript
// source files. It is the leaf component of the analysis engine; the
// symbol graph, clone detector, and dead-export resolver all consume
// its output.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported source language.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
	LangSvelte     Language = "svelte"
	LangUnknown    Language = "unknown"
)

// ParseError indicates the grammar failed on a file.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Message)
}

// Extractor wraps a tree-sitter parser. Not safe for concurrent use;
// create one per worker.
type Extractor struct {
	parser *sitter.Parser
}

// New creates a new extractor instance.
func New() *Extractor {
	return &Extractor{
		parser: sitter.NewParser(),
	}
}

// Close releases parser resources.
func (e *Extractor) Close() {
	e.parser.Close()
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx", ".jsx":
		return LangTSX
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	case ".svelte":
		return LangSvelte
	default:
		return LangUnknown
	}
}

// IsSupported reports whether the file's extension maps to a grammar.
func IsSupported(path string) bool {
	return DetectLanguage(path) != LangUnknown
}

// parseResult holds a parsed tree plus the metadata needed to map node
// positions back to the original file.
type parseResult struct {
	tree   *sitter.Tree
	source []byte
	// lineOffset is nonzero for svelte files, where only the <script>
	// block is parsed and node rows are relative to it.
	lineOffset uint32
}

func (r *parseResult) close() {
	if r.tree != nil {
		r.tree.Close()
	}
}

// line converts a node row to a 1-based line number in the original file.
func (r *parseResult) line(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1 + r.lineOffset
}

func (r *parseResult) endLine(node *sitter.Node) uint32 {
	return node.EndPoint().Row + 1 + r.lineOffset
}

func grammarFor(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangTypeScript, LangSvelte:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// parseFile reads and parses a source file. Svelte files are reduced to
// their <script> block content, parsed with the typescript grammar.
func (e *Extractor) parseFile(path string) (*parseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, &ParseError{File: path, Message: "unsupported file extension"}
	}

	var offset uint32
	if lang == LangSvelte {
		source, offset = sliceSvelteScript(source)
	}

	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, &ParseError{File: path, Message: err.Error()}
	}

	e.parser.SetLanguage(grammar)
	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{File: path, Message: err.Error()}
	}

	return &parseResult{tree: tree, source: source, lineOffset: offset}, nil
}

// sliceSvelteScript returns the content of the first <script> block and
// the number of lines preceding it. A component with no script block
// yields empty source, which parses to an empty tree.
func sliceSvelteScript(source []byte) ([]byte, uint32) {
	text := string(source)
	open := strings.Index(text, "<script")
	if open < 0 {
		return nil, 0
	}
	tagEnd := strings.Index(text[open:], ">")
	if tagEnd < 0 {
		return nil, 0
	}
	contentStart := open + tagEnd + 1
	close := strings.Index(text[contentStart:], "</script>")
	if close < 0 {
		return nil, 0
	}
	offset := uint32(strings.Count(text[:contentStart], "\n"))
	return []byte(text[contentStart : contentStart+close]), offset
}

// walk traverses the AST calling visitor for each node. Returning false
// stops descent into that node's children.
func walk(node *sitter.Node, visitor func(node *sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := range int(node.ChildCount()) {
		walk(node.Child(i), visitor)
	}
}

// nodeText extracts the source text for a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// trimQuotes strips the surrounding quote characters from a string
// literal's source text.
func trimQuotes(s string) string {
	return strings.Trim(s, "'\"`")
}
