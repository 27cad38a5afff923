package clones

import (
	"os"
	"path/filepath"
	"testing"
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

func TestCompareEmptyBodies(t *testing.T) {
	if got := Compare("", ""); got != 1.0 {
		t.Errorf("empty vs empty: got %f, want 1.0", got)
	}
	if got := Compare("", "return 1"); got != 0.0 {
		t.Errorf("empty vs non-empty: got %f, want 0.0", got)
	}
	if got := Compare("return 1", ""); got != 0.0 {
		t.Errorf("non-empty vs empty: got %f, want 0.0", got)
	}
}

func TestCompareIdentical(t *testing.T) {
	body := "{ return exec(a + b) }"
	if got := Compare(body, body); got != 1.0 {
		t.Errorf("identical bodies: got %f, want 1.0", got)
	}
}

func TestComparePositional(t *testing.T) {
	// One early inserted token desynchronizes the rest: score drops
	// far below what an aligned comparison would give.
	a := "{ const x = 1 ; return x }"
	b := "{ log() ; const x = 1 ; return x }"
	if got := Compare(a, b); got > 0.5 {
		t.Errorf("desynchronized bodies scored %f, expected sharp drop", got)
	}
}

func TestCompareFormula(t *testing.T) {
	// Positions 0 and 2 equal -> 2/4; equal lengths -> penalty term 1.
	a := "x y z w"
	b := "x q z q"
	got := Compare(a, b)
	expected := 0.7*0.5 + 0.3*1.0
	if got != expected {
		t.Errorf("Compare = %f, want %f", got, expected)
	}
}

func TestInterFileCloneScenario(t *testing.T) {
	root := t.TempDir()
	fileA := writeFile(t, root, "a.ts", `
export function bd(path: string) {
  return exec(`+"`bd ${path}`"+`)
}

function onlyInA() {
  const special = 'alpha'
  return special.toUpperCase()
}
`)
	fileB := writeFile(t, root, "b.ts", `
export function bd(path: string) {
  return exec(`+"`bd ${path}`"+`)
}

function onlyInB(x: number) {
  return x * 31 + 7
}
`)

	report, err := New(WithThreshold(0.8)).Analyze([]string{fileA, fileB})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.InterFile) != 1 {
		t.Fatalf("inter-file clones: got %d, want exactly 1: %+v", len(report.InterFile), report.InterFile)
	}
	clone := report.InterFile[0]
	if clone.FunctionName != "bd" {
		t.Errorf("function name: got %q, want bd", clone.FunctionName)
	}
	if clone.Similarity < 0.8 {
		t.Errorf("similarity: got %f, want >= 0.8", clone.Similarity)
	}
}

func TestSameNameNeverIntraFile(t *testing.T) {
	// Two identical bodies under the same name in one file (an
	// overload-style redeclaration) must not appear as an intra-file
	// clone even at similarity 1.0.
	root := t.TempDir()
	file := writeFile(t, root, "dup.ts", `
function render(a: number) { return a + a }
function render(a: number) { return a + a }
`)

	report, err := New(WithIntraFile(true)).Analyze([]string{file})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range report.IntraFile {
		if c.FunctionA == c.FunctionB {
			t.Errorf("identical names reported as intra-file clone: %+v", c)
		}
	}
}

func TestIntraFileClone(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "twins.ts", `
function validateUser(input: UserInput) {
  const trimmed = input.name.trim()
  if (!trimmed) { throw new Error('empty') }
  return { name: trimmed, ok: true }
}

function validateGroup(input: UserInput) {
  const trimmed = input.name.trim()
  if (!trimmed) { throw new Error('empty') }
  return { name: trimmed, ok: true }
}
`)

	report, err := New(WithIntraFile(true)).Analyze([]string{file})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IntraFile) != 1 {
		t.Fatalf("intra-file clones: got %d, want 1", len(report.IntraFile))
	}
	c := report.IntraFile[0]
	if c.SuggestedExtraction != "validateCore" {
		t.Errorf("suggested extraction: got %q, want validateCore", c.SuggestedExtraction)
	}
}

func TestIntraFileOffByDefault(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "twins.ts", `
function alpha() { return compute(1, 2, 3) }
function beta() { return compute(1, 2, 3) }
`)
	report, err := New().Analyze([]string{file})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IntraFile) != 0 {
		t.Errorf("intra-file detection should be opt-in, got %d", len(report.IntraFile))
	}
}

func TestTestFileExclusion(t *testing.T) {
	root := t.TempDir()
	src := writeFile(t, root, "real.ts", `export function bd() { return 1 }`)
	test := writeFile(t, root, "real.test.ts", `export function bd() { return 1 }`)

	report, err := New().Analyze([]string{src, test})
	if err != nil {
		t.Fatal(err)
	}
	if report.ExcludedTestFiles != 1 {
		t.Errorf("excluded test files: got %d, want 1", report.ExcludedTestFiles)
	}
	if len(report.InterFile) != 0 {
		t.Errorf("clone against a test file leaked: %+v", report.InterFile)
	}
}

func TestGlobTestPatterns(t *testing.T) {
	a := New(WithTestPatterns([]string{"**/fixtures/**"}))
	if !a.isTestFile("pkg/fixtures/sample.ts") {
		t.Error("doublestar pattern should match fixtures path")
	}
	if a.isTestFile("pkg/src/sample.ts") {
		t.Error("doublestar pattern must not match non-fixtures path")
	}
}

func TestMinFunctionLines(t *testing.T) {
	root := t.TempDir()
	fileA := writeFile(t, root, "a.ts", `export function tiny() { return 1 }`)
	fileB := writeFile(t, root, "b.ts", `export function tiny() { return 1 }`)

	report, err := New(WithMinFunctionLines(3)).Analyze([]string{fileA, fileB})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.InterFile) != 0 {
		t.Errorf("one-liners below min_function_lines still compared: %+v", report.InterFile)
	}
}

func TestSuggestExtractionName(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"processData1", "processData2", "processDataCore"},
		{"loadUser", "saveUser", "doUser"},
		{"getItems", "fetchItems", "doItems"},
		{"getAccount", "fetchRecords", "getCommon"},
		{"xy", "qz", "sharedLogic"},
	}
	for _, c := range cases {
		if got := suggestExtractionName(c.a, c.b); got != c.want {
			t.Errorf("suggestExtractionName(%q, %q) = %q, want %q", c.a, c.b, got, c.want)
		}
	}
}
