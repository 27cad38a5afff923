package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractExports(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mod.ts", `
export function helper() { return 1 }
export const value = 42
export { alpha, beta as gamma }
export { forwarded } from './other'
export * from './wide'
const alpha = 1
const beta = 2
`)

	e := New()
	defer e.Close()

	exports, err := e.ExtractExports(path)
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]Export{}
	for _, ex := range exports {
		byName[ex.Name] = ex
	}

	if _, ok := byName["helper"]; !ok {
		t.Error("expected helper export")
	}
	if _, ok := byName["value"]; !ok {
		t.Error("expected value export")
	}
	if _, ok := byName["alpha"]; !ok {
		t.Error("expected alpha export")
	}
	if _, ok := byName["gamma"]; !ok {
		t.Error("expected gamma export via alias")
	}

	fw, ok := byName["forwarded"]
	if !ok {
		t.Fatal("expected forwarded re-export")
	}
	if !fw.IsReexport || fw.Source != "./other" {
		t.Errorf("forwarded: got is_reexport=%v source=%q", fw.IsReexport, fw.Source)
	}

	star, ok := byName["*"]
	if !ok {
		t.Fatal("expected star re-export")
	}
	if !star.IsReexport || star.Source != "./wide" {
		t.Errorf("star: got is_reexport=%v source=%q", star.IsReexport, star.Source)
	}

	if byName["helper"].IsReexport {
		t.Error("helper must not be a re-export")
	}
}

func TestExtractExportsDefault(t *testing.T) {
	dir := t.TempDir()

	e := New()
	defer e.Close()

	// A default import binds the symbol "default", so the export side
	// must record the same name even when the declaration is named.
	cases := map[string]string{
		"fn.ts":   `export default function main() {}`,
		"cls.ts":  `export default class Widget {}`,
		"expr.ts": "const x = 1\nexport default x",
	}
	for name, content := range cases {
		path := writeFile(t, dir, name, content)
		exports, err := e.ExtractExports(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(exports) != 1 {
			t.Fatalf("%s: expected 1 export, got %+v", name, exports)
		}
		if exports[0].Name != "default" {
			t.Errorf("%s: default export recorded as %q, want \"default\"", name, exports[0].Name)
		}
	}
}

func TestExtractImports(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mod.ts", `
import { one, two as local } from './pair'
import Whole from './whole'
import * as ns from './space'
import './side-effect'
`)

	e := New()
	defer e.Close()

	imports, err := e.ExtractImports(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(imports) != 4 {
		t.Fatalf("expected 4 imports, got %d: %+v", len(imports), imports)
	}

	bySource := map[string]Import{}
	for _, imp := range imports {
		bySource[imp.Source] = imp
	}

	pair := bySource["./pair"]
	if len(pair.Symbols) != 2 || pair.Symbols[0] != "one" || pair.Symbols[1] != "two" {
		t.Errorf("pair symbols: got %v, want [one two]", pair.Symbols)
	}
	if got := bySource["./whole"].Symbols; len(got) != 1 || got[0] != "default" {
		t.Errorf("default import symbols: got %v", got)
	}
	if got := bySource["./space"].Symbols; len(got) != 1 || got[0] != "*" {
		t.Errorf("namespace import symbols: got %v", got)
	}
	if got := bySource["./side-effect"].Symbols; len(got) != 0 {
		t.Errorf("side-effect import symbols: got %v, want none", got)
	}
}

func TestExtractFunctions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fns.ts", `
export function greet(name: string, count = 1): string {
  return name.repeat(count)
}

const compute = async (input: number) => {
  return input * 2
}

setTimeout(() => { console.log('anon') }, 10)

class Box {
  open(key: string) { return key }
}
`)

	e := New()
	defer e.Close()

	fns, err := e.ExtractFunctions(path)
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]Function{}
	for _, fn := range fns {
		byName[fn.Name] = fn
	}

	greet, ok := byName["greet"]
	if !ok {
		t.Fatal("expected greet function")
	}
	if !greet.IsExported {
		t.Error("greet should be exported")
	}
	if greet.IsAsync {
		t.Error("greet is not async")
	}
	if len(greet.Params) != 2 || greet.Params[0] != "name" || greet.Params[1] != "count" {
		t.Errorf("greet params: got %v, want [name count]", greet.Params)
	}
	if greet.ReturnType != "string" {
		t.Errorf("greet return type: got %q", greet.ReturnType)
	}

	compute, ok := byName["compute"]
	if !ok {
		t.Fatal("expected compute arrow function via declarator name")
	}
	if !compute.IsAsync {
		t.Error("compute should be async")
	}
	if compute.IsExported {
		t.Error("compute is not exported")
	}

	if _, ok := byName["open"]; !ok {
		t.Error("expected method open")
	}

	// The setTimeout callback is anonymous and must not be stored.
	for name := range byName {
		if name == "" {
			t.Error("anonymous function leaked into results")
		}
	}
	if len(fns) != 3 {
		t.Errorf("expected 3 named functions, got %d", len(fns))
	}
}

func TestExtractFunctionsAsyncMethod(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "svc.ts", `
class Client {
  public async fetchData(url: string) {
    return fetch(url)
  }

  parse(body: string) { return JSON.parse(body) }
}
`)

	e := New()
	defer e.Close()

	fns, err := e.ExtractFunctions(path)
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]Function{}
	for _, fn := range fns {
		byName[fn.Name] = fn
	}

	fetchData, ok := byName["fetchData"]
	if !ok {
		t.Fatal("expected fetchData method")
	}
	if !fetchData.IsAsync {
		t.Error("fetchData should be async despite the accessibility modifier")
	}
	if byName["parse"].IsAsync {
		t.Error("parse is not async")
	}
}

func TestNormalize(t *testing.T) {
	a := Normalize(`{
  // setup
  const x = 1;  /* inline */
  return x;
}`)
	b := Normalize(`{
	const x = 1;
	return x;
}`)
	if a != b {
		t.Errorf("normalized bodies differ:\n%q\n%q", a, b)
	}
	if a == "" {
		t.Error("normalized body unexpectedly empty")
	}
}

func TestSvelteScriptBlock(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Widget.svelte", `<div>header</div>
<script lang="ts">
import { store } from './store'
export function toggle() { return !store }
</script>
<style>.a {}</style>
`)

	e := New()
	defer e.Close()

	imports, err := e.ExtractImports(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(imports) != 1 || imports[0].Source != "./store" {
		t.Fatalf("svelte imports: got %+v", imports)
	}
	// Line numbers are relative to the whole component, not the script
	// block: the import sits on line 3.
	if imports[0].StartLine != 3 {
		t.Errorf("svelte import line: got %d, want 3", imports[0].StartLine)
	}

	fns, err := e.ExtractFunctions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(fns) != 1 || fns[0].Name != "toggle" {
		t.Fatalf("svelte functions: got %+v", fns)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "styles.css", `.a { color: red }`)

	e := New()
	defer e.Close()

	if _, err := e.ExtractExports(path); err == nil {
		t.Error("expected error for unsupported extension")
	} else {
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("expected ParseError, got %T", err)
		}
	}

	// Function extraction treats unsupported extensions as empty, not
	// as an error.
	fns, err := e.ExtractFunctions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(fns) != 0 {
		t.Errorf("expected no functions, got %d", len(fns))
	}
}

func TestMissingFile(t *testing.T) {
	e := New()
	defer e.Close()

	if _, err := e.ExtractImports(filepath.Join(t.TempDir(), "nope.ts")); err == nil {
		t.Error("expected error for missing file")
	}
}
