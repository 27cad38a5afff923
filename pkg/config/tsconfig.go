package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
)

// tsconfigNames are probed in order under the project root.
var tsconfigNames = []string{"tsconfig.json", "jsconfig.json"}

// LoadTsconfigAliases reads the project's tsconfig (or jsconfig) and
// returns its compilerOptions.paths table as ordered aliases. Each
// pattern maps to the first target in its array, matching how the
// resolver consults the table. A missing file is not an error: the
// project simply has no aliases.
func LoadTsconfigAliases(root string) ([]symbolgraph.PathAlias, error) {
	for _, name := range tsconfigNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		aliases, err := parseTsconfigPaths(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return aliases, nil
	}
	return nil, nil
}

func parseTsconfigPaths(data []byte) ([]symbolgraph.PathAlias, error) {
	clean := stripJSONC(data)

	var doc struct {
		CompilerOptions struct {
			Paths json.RawMessage `json:"paths"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, err
	}
	if len(doc.CompilerOptions.Paths) == 0 {
		return nil, nil
	}

	// Token-level decode preserves the file's pattern order, which a
	// plain map would scramble. First matching pattern wins downstream,
	// so order is part of the contract.
	dec := json.NewDecoder(bytes.NewReader(doc.CompilerOptions.Paths))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("compilerOptions.paths is not an object")
	}

	var aliases []symbolgraph.PathAlias
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		pattern, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in paths", keyTok)
		}
		var targets []string
		if err := dec.Decode(&targets); err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			continue
		}
		aliases = append(aliases, symbolgraph.PathAlias{
			Pattern: pattern,
			Target:  targets[0],
		})
	}
	return aliases, nil
}

// stripJSONC removes // and /* */ comments plus trailing commas so the
// JSONC dialect tsconfig uses becomes valid JSON.
func stripJSONC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	i := 0
	for i < len(data) {
		c := data[i]
		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				out = append(out, data[i+1])
				i += 2
				continue
			}
			if c == '"' {
				inString = false
			}
			i++
			continue
		}
		switch {
		case c == '"':
			inString = true
			out = append(out, c)
			i++
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i += 2
		default:
			out = append(out, c)
			i++
		}
	}
	return stripTrailingCommas(out)
}

func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				out = append(out, data[i+1])
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
