package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Function is a named function declaration with its body in raw and
// normalized form. Anonymous functions are never extracted.
type Function struct {
	Name           string   `json:"name"`
	Source         string   `json:"source"`
	NormalizedBody string   `json:"normalized_body"`
	StartLine      uint32   `json:"start_line"`
	EndLine        uint32   `json:"end_line"`
	Params         []string `json:"params"`
	ReturnType     string   `json:"return_type,omitempty"`
	IsExported     bool     `json:"is_exported"`
	IsAsync        bool     `json:"is_async"`
}

// LineCount returns the number of source lines the function spans.
func (f *Function) LineCount() int {
	return int(f.EndLine-f.StartLine) + 1
}

var functionNodeTypes = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function":                       true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// ExtractFunctions returns every named function in the file: plain
// declarations, methods, and variable declarations whose initializer is
// a function or arrow expression. Files with unsupported extensions
// yield an empty list rather than an error.
func (e *Extractor) ExtractFunctions(path string) ([]Function, error) {
	if !IsSupported(path) {
		return []Function{}, nil
	}
	res, err := e.parseFile(path)
	if err != nil {
		return nil, err
	}
	defer res.close()

	functions := []Function{}
	walk(res.tree.RootNode(), func(node *sitter.Node) bool {
		if !functionNodeTypes[node.Type()] {
			return true
		}
		if fn := e.extractFunction(node, res); fn != nil {
			functions = append(functions, *fn)
		}
		return true
	})
	return functions, nil
}

func (e *Extractor) extractFunction(node *sitter.Node, res *parseResult) *Function {
	name := functionName(node, res.source)
	if name == "" {
		return nil
	}

	raw := nodeText(node, res.source)
	fn := &Function{
		Name:       name,
		Source:     raw,
		StartLine:  res.line(node),
		EndLine:    res.endLine(node),
		Params:     extractParams(node, res.source),
		IsExported: isExported(node),
		IsAsync:    isAsync(raw),
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = strings.TrimSpace(strings.TrimPrefix(nodeText(ret, res.source), ":"))
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.NormalizedBody = Normalize(nodeText(body, res.source))
	}
	return fn
}

// functionName resolves the function's name: its own name field for
// declarations and methods, or the enclosing variable declarator's name
// for function/arrow expressions. Empty means anonymous.
func functionName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	parent := node.Parent()
	if parent != nil && parent.Type() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			return nodeText(name, source)
		}
	}
	return ""
}

// extractParams returns parameter names with type annotations, optional
// markers, and default values stripped.
func extractParams(node *sitter.Node, source []byte) []string {
	params := []string{}
	list := node.ChildByFieldName("parameters")
	if list == nil {
		// Single-parameter arrow functions carry a bare identifier.
		if p := node.ChildByFieldName("parameter"); p != nil {
			params = append(params, cleanParam(nodeText(p, source)))
		}
		return params
	}
	for i := range int(list.NamedChildCount()) {
		child := list.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		default:
			if p := cleanParam(nodeText(child, source)); p != "" {
				params = append(params, p)
			}
		}
	}
	return params
}

func cleanParam(text string) string {
	if idx := strings.Index(text, ":"); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.Index(text, "="); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "?")
	return strings.TrimSpace(text)
}

// isExported walks up from a function node looking for an enclosing
// export statement. Covers `export function f` directly and
// `export const f = () => {}` through the declarator chain.
func isExported(node *sitter.Node) bool {
	parent := node.Parent()
	for parent != nil {
		switch parent.Type() {
		case "export_statement":
			return true
		case "variable_declarator", "lexical_declaration", "variable_declaration":
			parent = parent.Parent()
		default:
			return false
		}
	}
	return false
}

// isAsync reports whether the function header carries the async
// keyword. The check is bounded to the text before the parameter list
// so `public async method()` matches while `async` inside a body does
// not.
func isAsync(raw string) bool {
	header := raw
	if idx := strings.IndexAny(raw, "({"); idx >= 0 {
		header = raw[:idx]
	}
	for _, word := range strings.Fields(header) {
		if word == "async" {
			return true
		}
	}
	return false
}
