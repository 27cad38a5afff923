package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groundkit/ground/internal/output"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent: %T", result.Content[0])
	}
	return text.Text
}

func TestServerCreation(t *testing.T) {
	server := NewServer("1.0.0-test")
	if server == nil || server.server == nil {
		t.Fatal("NewServer returned incomplete server")
	}
	if server.graphs == nil {
		t.Fatal("server has no graph session store")
	}

	if s := NewServer(""); s == nil {
		t.Fatal("empty version should default, not fail")
	}
}

func TestToolDescriptions(t *testing.T) {
	descriptions := map[string]func() string{
		"build_graph":  describeBuildGraph,
		"dead_exports": describeDeadExports,
		"reachability": describeReachability,
		"clones":       describeClones,
		"usages":       describeUsages,
	}

	for name, fn := range descriptions {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			if desc == "" {
				t.Fatalf("%s description is empty", name)
			}
			for _, section := range []string{"USE WHEN:", "INTERPRETING RESULTS:", "METRICS RETURNED:"} {
				if !strings.Contains(desc, section) {
					t.Errorf("%s description missing %s section", name, section)
				}
			}
		})
	}
}

func TestGetRoot(t *testing.T) {
	if got := getRoot(AnalyzeInput{}); got != "." {
		t.Errorf("empty root: got %q, want .", got)
	}
	if got := getRoot(AnalyzeInput{Root: "/proj"}); got != "/proj" {
		t.Errorf("explicit root: got %q", got)
	}
}

func TestGetFormat(t *testing.T) {
	cases := []struct {
		format   string
		expected output.Format
	}{
		{"", output.FormatTOON},
		{"json", output.FormatJSON},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"toon", output.FormatTOON},
		{"xml", output.FormatTOON},
	}
	for _, c := range cases {
		if got := getFormat(AnalyzeInput{Format: c.format}); got != c.expected {
			t.Errorf("getFormat(%q) = %v, want %v", c.format, got, c.expected)
		}
	}
}

func TestToolError(t *testing.T) {
	result, _, err := toolError("boom")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("IsError should be true")
	}
	if got := resultText(t, result); got != "Error: boom" {
		t.Errorf("text = %q", got)
	}
}

func TestFormatOutput(t *testing.T) {
	data := map[string]any{"name": "test", "value": 123}
	for _, format := range []string{"", "toon", "json", "markdown"} {
		t.Run("format_"+format, func(t *testing.T) {
			text, err := formatOutput(data, getFormat(AnalyzeInput{Format: format}))
			if err != nil {
				t.Fatal(err)
			}
			if text == "" {
				t.Error("empty output")
			}
		})
	}

	jsonOut, err := formatOutput(data, output.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(jsonOut), &decoded); err != nil {
		t.Fatalf("json format produced invalid JSON: %v", err)
	}
}

func TestHandleBuildSymbolGraph(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export const a = 1\n")
	writeFile(t, root, "src/b.ts", "import { a } from './a'\nexport const b = a\n")

	server := NewServer("test")
	input := GraphInput{AnalyzeInput: AnalyzeInput{Root: root, Format: "json"}}

	result, _, err := server.handleBuildSymbolGraph(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "files_scanned") || !strings.Contains(text, "fingerprint") {
		t.Errorf("graph output missing stats:\n%s", text)
	}
}

func TestHandleFindDeadExportsBatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "utils.ts", "export function used() {}\nexport function orphan() {}\n")
	writeFile(t, root, "main.ts", "import { used } from './utils'\nused()\n")

	server := NewServer("test")
	input := DeadExportsInput{AnalyzeInput: AnalyzeInput{Root: root, Format: "json"}}

	result, _, err := server.handleFindDeadExports(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "orphan") {
		t.Errorf("batch query should report orphan:\n%s", text)
	}
}

func TestHandleFindDeadExportsSingleModule(t *testing.T) {
	root := t.TempDir()
	module := writeFile(t, root, "utils.ts", "export function orphan() {}\n")

	server := NewServer("test")
	input := DeadExportsInput{
		AnalyzeInput: AnalyzeInput{Root: root, Format: "json"},
		Module:       module,
	}

	result, _, err := server.handleFindDeadExports(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "orphan") {
		t.Error("single-module query should report orphan")
	}
}

func TestHandleAnalyzeReachability(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.ts", "import { helper } from './lib'\nhelper()\n")
	writeFile(t, root, "lib.ts", "export function helper() {}\n")
	writeFile(t, root, "orphan.ts", "export const o = 1\n")

	server := NewServer("test")
	input := ReachabilityInput{AnalyzeInput: AnalyzeInput{Root: root, Format: "json"}}

	result, _, err := server.handleAnalyzeReachability(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "unreachable") {
		t.Errorf("orphan module should be unreachable:\n%s", text)
	}
}

func TestHandleFindClones(t *testing.T) {
	root := t.TempDir()
	body := "export function formatDate(d: Date) {\n  const y = d.getFullYear()\n  const m = d.getMonth() + 1\n  return y + '-' + m\n}\n"
	writeFile(t, root, "a/dates.ts", body)
	writeFile(t, root, "b/dates.ts", body)

	server := NewServer("test")
	input := ClonesInput{AnalyzeInput: AnalyzeInput{Root: root, Format: "json"}}

	result, _, err := server.handleFindClones(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "formatDate") {
		t.Error("identical functions in two files should be reported as a clone")
	}
}

func TestHandleFindClonesEmptyDir(t *testing.T) {
	server := NewServer("test")
	input := ClonesInput{AnalyzeInput: AnalyzeInput{Root: t.TempDir()}}

	result, _, err := server.handleFindClones(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("empty directory should be a tool error")
	}
}

func TestHandleCountUsages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "def.ts", "export function widget() { return 1 }\n")
	writeFile(t, root, "use.ts", "import { widget } from './def'\nwidget()\n")

	server := NewServer("test")
	input := UsagesInput{
		AnalyzeInput: AnalyzeInput{Root: root, Format: "json"},
		Symbol:       "widget",
	}

	result, _, err := server.handleCountUsages(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("handler error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "earns_existence") {
		t.Errorf("usage output missing verdicts:\n%s", text)
	}

	missing := UsagesInput{AnalyzeInput: AnalyzeInput{Root: root}}
	result, _, err = server.handleCountUsages(context.Background(), nil, missing)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("missing symbol should be a tool error")
	}
}

func TestParseFrontmatter(t *testing.T) {
	content := []byte("---\ndescription: test prompt\n---\n\nBody text here.\n")
	desc, body := parseFrontmatter(content)
	if desc != "test prompt" {
		t.Errorf("description = %q", desc)
	}
	if !strings.HasPrefix(body, "Body text here.") {
		t.Errorf("body = %q", body)
	}

	plain := []byte("no frontmatter at all")
	desc, body = parseFrontmatter(plain)
	if desc != "" || body != "no frontmatter at all" {
		t.Errorf("plain content mishandled: %q / %q", desc, body)
	}
}

func TestEmbeddedPrompts(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded prompts")
	}
	for _, entry := range entries {
		content, err := promptFiles.ReadFile(filepath.Join("prompts", entry.Name()))
		if err != nil {
			t.Fatalf("reading %s: %v", entry.Name(), err)
		}
		desc, body := parseFrontmatter(content)
		if desc == "" {
			t.Errorf("%s has no description frontmatter", entry.Name())
		}
		if strings.TrimSpace(body) == "" {
			t.Errorf("%s has an empty body", entry.Name())
		}
	}
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Version != "1.2.3" {
		t.Errorf("version = %q", manifest.Version)
	}
	if !strings.Contains(manifest.Name, "ground") {
		t.Errorf("name = %q", manifest.Name)
	}

	data, err = GenerateManifest("")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Version != "0.0.0" {
		t.Errorf("empty version should default to 0.0.0, got %q", manifest.Version)
	}
}
