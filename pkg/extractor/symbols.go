package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Export is a named binding a module makes available to importers.
type Export struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
	IsReexport bool   `json:"is_reexport"`
	// Source is the module specifier the binding is forwarded from,
	// set iff IsReexport.
	Source string `json:"source,omitempty"`
}

// Import is one import statement: the module specifier plus the symbol
// names it brings in. A namespace import records the single symbol "*";
// a default import records "default"; a bare side-effect import records
// no symbols at all.
type Import struct {
	Source    string   `json:"source"`
	Symbols   []string `json:"symbols"`
	StartLine uint32   `json:"start_line"`
}

// ExtractExports returns all exported bindings declared in the file.
// A file with no exports yields an empty slice, not an error.
func (e *Extractor) ExtractExports(path string) ([]Export, error) {
	res, err := e.parseFile(path)
	if err != nil {
		return nil, err
	}
	defer res.close()

	exports := []Export{}
	walk(res.tree.RootNode(), func(node *sitter.Node) bool {
		if node.Type() != "export_statement" {
			return true
		}
		exports = append(exports, e.exportsFromStatement(node, res, path)...)
		return false
	})
	return exports, nil
}

func (e *Extractor) exportsFromStatement(node *sitter.Node, res *parseResult, path string) []Export {
	var out []Export

	source := ""
	isReexport := false
	if src := node.ChildByFieldName("source"); src != nil {
		source = trimQuotes(nodeText(src, res.source))
		isReexport = true
	}

	add := func(name string, line uint32) {
		if name == "" {
			return
		}
		out = append(out, Export{
			Name:       name,
			File:       path,
			Line:       line,
			IsReexport: isReexport,
			Source:     source,
		})
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		// export default function foo() {} binds the module's default
		// slot; importers reference it as "default", never as foo.
		if hasDefaultKeyword(node) {
			add("default", res.line(node))
			return out
		}
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for i := range int(decl.ChildCount()) {
				child := decl.Child(i)
				if child.Type() != "variable_declarator" {
					continue
				}
				name := child.ChildByFieldName("name")
				if name != nil && name.Type() == "identifier" {
					add(nodeText(name, res.source), res.line(child))
				}
			}
		default:
			// function, class, interface, type alias, enum declarations
			// all carry a name field.
			if name := decl.ChildByFieldName("name"); name != nil {
				add(nodeText(name, res.source), res.line(decl))
			}
		}
		return out
	}

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "export_clause":
			for j := range int(child.ChildCount()) {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				alias := spec.ChildByFieldName("alias")
				// For re-exports the forwarded symbol keeps its name in
				// the source module, so the original name is what the
				// graph keys on. Local exports surface the alias.
				text := nodeText(name, res.source)
				if alias != nil && !isReexport {
					text = nodeText(alias, res.source)
				}
				add(text, res.line(spec))
			}
		case "default":
			add("default", res.line(node))
		case "*":
			// export * from './module' forwards every binding.
			add("*", res.line(node))
		}
	}
	return out
}

func hasDefaultKeyword(node *sitter.Node) bool {
	for i := range int(node.ChildCount()) {
		if node.Child(i).Type() == "default" {
			return true
		}
	}
	return false
}

// ExtractImports returns all import statements in the file. A file with
// no imports yields an empty slice, not an error.
func (e *Extractor) ExtractImports(path string) ([]Import, error) {
	res, err := e.parseFile(path)
	if err != nil {
		return nil, err
	}
	defer res.close()

	imports := []Import{}
	walk(res.tree.RootNode(), func(node *sitter.Node) bool {
		if node.Type() != "import_statement" {
			return true
		}
		src := node.ChildByFieldName("source")
		if src == nil {
			return false
		}
		imp := Import{
			Source:    trimQuotes(nodeText(src, res.source)),
			Symbols:   importedSymbols(node, res.source),
			StartLine: res.line(node),
		}
		imports = append(imports, imp)
		return false
	})
	return imports, nil
}

func importedSymbols(stmt *sitter.Node, source []byte) []string {
	symbols := []string{}
	for i := range int(stmt.ChildCount()) {
		clause := stmt.Child(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := range int(clause.ChildCount()) {
			child := clause.Child(j)
			switch child.Type() {
			case "identifier":
				// import Foo from './m' binds the default export.
				symbols = append(symbols, "default")
			case "namespace_import":
				symbols = append(symbols, "*")
			case "named_imports":
				for k := range int(child.ChildCount()) {
					spec := child.Child(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					// The name field is the exported name in the source
					// module; a local alias does not change what is
					// imported.
					if name := spec.ChildByFieldName("name"); name != nil {
						symbols = append(symbols, nodeText(name, source))
					}
				}
			}
		}
	}
	return symbols
}
